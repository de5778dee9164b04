package ledger

import (
	"errors"

	"fintrack/internal/models"
)

// ErrTransactionNotFound is returned when an id is not in the ledger.
var ErrTransactionNotFound = errors.New("ledger: transaction not found")

// Snapshot is a copy of the derived state, safe to hand to callers.
type Snapshot struct {
	Summary          models.Summary         `json:"summary"`
	IncomeBreakdown  []models.CategoryTotal `json:"income_breakdown"`
	ExpenseBreakdown []models.CategoryTotal `json:"expense_breakdown"`
}

// Ledger is an ordered collection of transactions plus its summaries.
//
// Scalar totals are maintained incrementally. Category breakdowns are rebuilt
// from the collection on every change to the affected kind, since categories
// merge and split as records come and go.
//
// A Ledger is not safe for concurrent use; session.Workspace serializes access.
type Ledger struct {
	transactions []models.Transaction
	summary      models.Summary
	income       []models.CategoryTotal
	expense      []models.CategoryTotal
}

// New returns an empty ledger with zero totals.
func New() *Ledger {
	l := &Ledger{}
	l.Load(nil)
	return l
}

// Load replaces the snapshot and recomputes everything.
func (l *Ledger) Load(txs []models.Transaction) {
	l.transactions = append([]models.Transaction{}, txs...)
	l.summary = Summarize(l.transactions)
	l.income = Breakdown(l.transactions, models.TransactionTypeIncome)
	l.expense = Breakdown(l.transactions, models.TransactionTypeExpense)
}

// Add appends a confirmed transaction.
func (l *Ledger) Add(tx models.Transaction) {
	l.transactions = append(l.transactions, tx)
	l.summary = contribute(l.summary, tx, 1)
	l.rebuild(tx.Type)
}

// Delete removes the transaction with the given id and reverses its
// contribution. It returns the removed record.
func (l *Ledger) Delete(id string) (models.Transaction, error) {
	i := l.indexOf(id)
	if i < 0 {
		return models.Transaction{}, ErrTransactionNotFound
	}

	removed := l.transactions[i]
	l.transactions = append(l.transactions[:i:i], l.transactions[i+1:]...)
	l.summary = contribute(l.summary, removed, -1)
	l.rebuild(removed.Type)
	return removed, nil
}

// UpdateAmount replaces a transaction's amount and applies the difference
// to the totals. It returns the updated record.
func (l *Ledger) UpdateAmount(id string, amount models.Amount) (models.Transaction, error) {
	i := l.indexOf(id)
	if i < 0 {
		return models.Transaction{}, ErrTransactionNotFound
	}

	before := l.transactions[i]
	after := before
	after.Amount = amount

	l.summary = contribute(l.summary, before, -1)
	l.summary = contribute(l.summary, after, 1)
	l.transactions[i] = after
	l.rebuild(after.Type)
	return after, nil
}

// Get returns the transaction with the given id.
func (l *Ledger) Get(id string) (models.Transaction, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return models.Transaction{}, false
	}
	return l.transactions[i], true
}

// Len returns the number of transactions held.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns a copy of the collection in order.
func (l *Ledger) Transactions() []models.Transaction {
	return append([]models.Transaction{}, l.transactions...)
}

// Summary returns the current totals.
func (l *Ledger) Summary() models.Summary { return l.summary }

// Breakdown returns a copy of the category breakdown for kind.
func (l *Ledger) Breakdown(kind models.TransactionType) []models.CategoryTotal {
	switch kind {
	case models.TransactionTypeIncome:
		return append([]models.CategoryTotal{}, l.income...)
	case models.TransactionTypeExpense:
		return append([]models.CategoryTotal{}, l.expense...)
	}
	return []models.CategoryTotal{}
}

// Snapshot returns the summary and both breakdowns.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{
		Summary:          l.summary,
		IncomeBreakdown:  l.Breakdown(models.TransactionTypeIncome),
		ExpenseBreakdown: l.Breakdown(models.TransactionTypeExpense),
	}
}

func (l *Ledger) rebuild(kind models.TransactionType) {
	switch kind {
	case models.TransactionTypeIncome:
		l.income = Breakdown(l.transactions, models.TransactionTypeIncome)
	case models.TransactionTypeExpense:
		l.expense = Breakdown(l.transactions, models.TransactionTypeExpense)
	}
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.transactions {
		if l.transactions[i].ID == id {
			return i
		}
	}
	return -1
}
