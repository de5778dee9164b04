package ledger

import "fintrack/internal/models"

// Filter narrows a transaction listing. Zero values match everything.
type Filter struct {
	Type     models.TransactionType
	Category string
}

// Filter returns the transactions matching f, in order.
func (l *Ledger) Filter(f Filter) []models.Transaction {
	out := []models.Transaction{}
	for _, tx := range l.transactions {
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.Category != "" && tx.CategoryName() != f.Category {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// CategoryNames lists the distinct category labels in the ledger, in order
// of first appearance.
func (l *Ledger) CategoryNames() []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, tx := range l.transactions {
		name := tx.CategoryName()
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
