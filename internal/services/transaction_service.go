package services

import (
	"context"
	"strings"
	"time"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/graphql"
	"fintrack/internal/ledger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/session"
)

// transactionService handles transaction-related business logic. Writes go
// to the data API first; the session's ledger changes only once the API
// acknowledged the write with the affected record.
type transactionService struct {
	gql        GraphQLDoer
	sessions   *session.Store
	categories CategoryServicer
	now        func() time.Time
}

// NewTransactionService creates a new TransactionServicer. now supplies the
// default created_at date; nil means time.Now.
func NewTransactionService(gql GraphQLDoer, sessions *session.Store, categories CategoryServicer, now func() time.Time) TransactionServicer {
	if now == nil {
		now = time.Now
	}
	return &transactionService{
		gql:        gql,
		sessions:   sessions,
		categories: categories,
		now:        now,
	}
}

// LoadDashboard fetches the user's transactions and the categories, then
// rebuilds the session's ledger from them.
func (s *transactionService) LoadDashboard(ctx context.Context, id session.Identity) (*Dashboard, error) {
	var out struct {
		TransactionsCollection models.Collection[models.Transaction] `json:"transactionsCollection"`
	}
	if err := s.gql.Do(ctx, graphql.GetTransactionsByUser, map[string]any{"user_id": id.UserID}, &out); err != nil {
		return nil, upstreamError(err)
	}

	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	txs := out.TransactionsCollection.Nodes()
	snapshot := s.sessions.Open(id).LoadLedger(txs)

	return &Dashboard{
		Snapshot:     snapshot,
		Transactions: txs,
		Categories:   categories,
	}, nil
}

// Dashboard returns the totals of the loaded ledger without refetching.
func (s *transactionService) Dashboard(id session.Identity) (*ledger.Snapshot, error) {
	w, err := s.workspace(id)
	if err != nil {
		return nil, err
	}

	var snapshot ledger.Snapshot
	err = w.WithLedger(func(l *ledger.Ledger) error {
		snapshot = l.Snapshot()
		return nil
	})
	if err != nil {
		return nil, localError(err)
	}
	return &snapshot, nil
}

// ListTransactions returns a page of the loaded transactions matching filter.
func (s *transactionService) ListTransactions(id session.Identity, filter ledger.Filter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income or expense")
	}

	w, err := s.workspace(id)
	if err != nil {
		return nil, err
	}

	var matched []models.Transaction
	err = w.WithLedger(func(l *ledger.Ledger) error {
		matched = l.Filter(filter)
		return nil
	})
	if err != nil {
		return nil, localError(err)
	}

	result := pagination.Slice(matched, page)
	return &result, nil
}

// CreateTransaction validates in, inserts it remotely and mirrors the
// returned record.
func (s *transactionService) CreateTransaction(ctx context.Context, id session.Identity, in NewTransaction) (*TransactionChange, error) {
	amount, ok := in.Amount.Decimal()
	if !ok || !amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if !in.Type.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income or expense")
	}

	createdAt := strings.TrimSpace(in.CreatedAt)
	if createdAt == "" {
		createdAt = s.now().Format(time.DateOnly)
	} else if !validDate(createdAt) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "created_at must be a YYYY-MM-DD date")
	}

	if err := s.checkCategory(ctx, in.Type, in.CategoryID); err != nil {
		return nil, err
	}

	w, err := s.loadedWorkspace(id)
	if err != nil {
		return nil, err
	}

	vars := map[string]any{
		"amount":      string(models.AmountOf(amount)),
		"description": strings.TrimSpace(in.Description),
		"created_at":  createdAt,
		"user_id":     id.UserID,
		"type":        string(in.Type),
		"category_id": nil,
	}
	if in.CategoryID != "" {
		vars["category_id"] = in.CategoryID
	}

	var out struct {
		Insert models.MutationResult[models.Transaction] `json:"insertIntoTransactionsCollection"`
	}
	if err := s.gql.Do(ctx, graphql.AddTransaction, vars, &out); err != nil {
		return nil, upstreamError(err)
	}
	record, ok := out.Insert.First()
	if !ok || record.ID == "" {
		return nil, malformed("insert returned no transaction record")
	}

	change := &TransactionChange{Transaction: record}
	err = w.WithLedger(func(l *ledger.Ledger) error {
		l.Add(record)
		change.Snapshot = l.Snapshot()
		return nil
	})
	if err != nil {
		return nil, localError(err)
	}
	return change, nil
}

// checkCategory requires a category when the type has any, and rejects ids
// that are unknown or belong to the other type.
func (s *transactionService) checkCategory(ctx context.Context, kind models.TransactionType, categoryID string) error {
	categories, err := s.categories.ListCategoriesByType(ctx, models.CategoryType(kind))
	if err != nil {
		return err
	}

	if categoryID == "" {
		if len(categories) > 0 {
			return apperrors.ErrCategoryRequired
		}
		return nil
	}

	for _, c := range categories {
		if c.ID == categoryID {
			return nil
		}
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, "category does not exist for type "+string(kind))
}

// UpdateTransactionAmount changes a transaction's amount remotely and applies
// the difference locally.
func (s *transactionService) UpdateTransactionAmount(ctx context.Context, id session.Identity, transactionID string, amount models.Amount) (*TransactionChange, error) {
	value, ok := amount.Decimal()
	if !ok || !value.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	w, err := s.workspaceWith(id, transactionID)
	if err != nil {
		return nil, err
	}

	var out struct {
		Update models.MutationResult[models.Transaction] `json:"updateTransactionsCollection"`
	}
	vars := map[string]any{"id": transactionID, "amount": string(models.AmountOf(value))}
	if err := s.gql.Do(ctx, graphql.UpdateTransactionAmount, vars, &out); err != nil {
		return nil, upstreamError(err)
	}
	record, ok := out.Update.First()
	if !ok || record.ID != transactionID {
		return nil, malformed("update did not return transaction " + transactionID)
	}

	confirmed := record.Amount
	if confirmed.IsZero() {
		confirmed = models.AmountOf(value)
	}

	change := &TransactionChange{}
	err = w.WithLedger(func(l *ledger.Ledger) error {
		updated, err := l.UpdateAmount(transactionID, confirmed)
		if err != nil {
			return err
		}
		change.Transaction = updated
		change.Snapshot = l.Snapshot()
		return nil
	})
	if err != nil {
		return nil, localError(err)
	}
	return change, nil
}

// DeleteTransaction deletes a transaction remotely and removes it locally.
func (s *transactionService) DeleteTransaction(ctx context.Context, id session.Identity, transactionID string) (*TransactionChange, error) {
	w, err := s.workspaceWith(id, transactionID)
	if err != nil {
		return nil, err
	}

	var out struct {
		Delete models.MutationResult[models.Transaction] `json:"deleteFromTransactionsCollection"`
	}
	if err := s.gql.Do(ctx, graphql.DeleteTransaction, map[string]any{"id": transactionID}, &out); err != nil {
		return nil, upstreamError(err)
	}
	record, ok := out.Delete.First()
	if !ok || record.ID != transactionID {
		return nil, malformed("delete did not return transaction " + transactionID)
	}

	change := &TransactionChange{}
	err = w.WithLedger(func(l *ledger.Ledger) error {
		removed, err := l.Delete(transactionID)
		if err != nil {
			return err
		}
		change.Transaction = removed
		change.Snapshot = l.Snapshot()
		return nil
	})
	if err != nil {
		return nil, localError(err)
	}
	return change, nil
}

// Breakdown returns the category totals of one kind.
func (s *transactionService) Breakdown(id session.Identity, kind models.TransactionType) ([]models.CategoryTotal, error) {
	if !kind.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be income or expense")
	}

	w, err := s.workspace(id)
	if err != nil {
		return nil, err
	}

	var totals []models.CategoryTotal
	err = w.WithLedger(func(l *ledger.Ledger) error {
		totals = l.Breakdown(kind)
		return nil
	})
	return totals, localError(err)
}

// CategoryNames lists the category labels present in the loaded ledger.
func (s *transactionService) CategoryNames(id session.Identity) ([]string, error) {
	w, err := s.workspace(id)
	if err != nil {
		return nil, err
	}

	var names []string
	err = w.WithLedger(func(l *ledger.Ledger) error {
		names = l.CategoryNames()
		return nil
	})
	return names, localError(err)
}

func (s *transactionService) workspace(id session.Identity) (*session.Workspace, error) {
	w, ok := s.sessions.Get(id)
	if !ok {
		return nil, apperrors.ErrSessionNotLoaded
	}
	return w, nil
}

// loadedWorkspace returns the session's workspace once its ledger is loaded.
func (s *transactionService) loadedWorkspace(id session.Identity) (*session.Workspace, error) {
	w, err := s.workspace(id)
	if err != nil {
		return nil, err
	}
	if err := w.WithLedger(func(*ledger.Ledger) error { return nil }); err != nil {
		return nil, localError(err)
	}
	return w, nil
}

// workspaceWith returns the session's workspace if it holds transactionID.
func (s *transactionService) workspaceWith(id session.Identity, transactionID string) (*session.Workspace, error) {
	w, err := s.workspace(id)
	if err != nil {
		return nil, err
	}
	err = w.WithLedger(func(l *ledger.Ledger) error {
		if _, ok := l.Get(transactionID); !ok {
			return ledger.ErrTransactionNotFound
		}
		return nil
	})
	if err != nil {
		return nil, localError(err)
	}
	return w, nil
}
