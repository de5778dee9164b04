package services

import (
	"context"

	"fintrack/internal/auth"
	"fintrack/internal/ledger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/session"
)

// GraphQLDoer executes one operation against the data API.
type GraphQLDoer interface {
	Do(ctx context.Context, query string, vars map[string]any, out any) error
}

// AuthGateway is the hosted auth API.
type AuthGateway interface {
	SignInWithPassword(ctx context.Context, email, password string) (*auth.Session, error)
	SignUp(ctx context.Context, email, password string) (*auth.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// AuthServicer defines the contract for sign-in and sign-out.
type AuthServicer interface {
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignUp(ctx context.Context, email, password string) (*auth.Session, error)
	SignOut(ctx context.Context, id session.Identity) error
}

// CategoryServicer defines the contract for reading categories.
type CategoryServicer interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListCategoriesByType(ctx context.Context, categoryType models.CategoryType) ([]models.Category, error)
}

// Dashboard is the payload of a dashboard load.
type Dashboard struct {
	ledger.Snapshot
	Transactions []models.Transaction `json:"transactions"`
	Categories   []models.Category    `json:"categories"`
}

// NewTransaction is the input for CreateTransaction.
type NewTransaction struct {
	Amount      models.Amount
	Description string
	Type        models.TransactionType
	CategoryID  string
	CreatedAt   string
}

// TransactionChange is a confirmed write together with the totals after it.
type TransactionChange struct {
	Transaction models.Transaction `json:"transaction"`
	Snapshot    ledger.Snapshot    `json:"snapshot"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	LoadDashboard(ctx context.Context, id session.Identity) (*Dashboard, error)
	Dashboard(id session.Identity) (*ledger.Snapshot, error)
	ListTransactions(id session.Identity, filter ledger.Filter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	CreateTransaction(ctx context.Context, id session.Identity, in NewTransaction) (*TransactionChange, error)
	UpdateTransactionAmount(ctx context.Context, id session.Identity, transactionID string, amount models.Amount) (*TransactionChange, error)
	DeleteTransaction(ctx context.Context, id session.Identity, transactionID string) (*TransactionChange, error)
	Breakdown(id session.Identity, kind models.TransactionType) ([]models.CategoryTotal, error)
	CategoryNames(id session.Identity) ([]string, error)
}

// GoalView is a savings goal with its progress percentage.
type GoalView struct {
	models.SavingsGoal
	Progress float64 `json:"progress"`
}

// NewGoal is the input for CreateGoal.
type NewGoal struct {
	Name          string
	TargetAmount  models.Amount
	CurrentAmount models.Amount
	WillingToAdd  models.Amount
	TargetDate    *string
	Category      *string
}

// SavingsGoalServicer defines the contract for savings goal business logic.
type SavingsGoalServicer interface {
	LoadGoals(ctx context.Context, id session.Identity) ([]GoalView, error)
	ListGoals(id session.Identity) ([]GoalView, error)
	CreateGoal(ctx context.Context, id session.Identity, in NewGoal) (*GoalView, error)
	TopUpGoal(ctx context.Context, id session.Identity, goalID string) (*GoalView, error)
	DeleteGoal(ctx context.Context, id session.Identity, goalID string) error
	Progress(id session.Identity, goalID string) (float64, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	List(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}
