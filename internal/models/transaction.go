package models

// TransactionType is the polarity of a transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Uncategorized labels transactions with no category. The key is
// case-sensitive and distinct from a user category named "Uncategorized".
const Uncategorized = "uncategorized"

// CategoryRef is the nested category selection on a transaction node.
type CategoryRef struct {
	Name string `json:"name"`
}

// Transaction is a transactions node as returned by the data API.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      Amount          `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"created_at"`
	UserID      string          `json:"user_id"`
	Type        TransactionType `json:"type"`
	Categories  *CategoryRef    `json:"categories,omitempty"`
}

// CategoryName returns the category label, or Uncategorized when unset.
func (t Transaction) CategoryName() string {
	if t.Categories == nil || t.Categories.Name == "" {
		return Uncategorized
	}
	return t.Categories.Name
}
