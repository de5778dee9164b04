// Package ledger keeps a session's in-memory mirror of transactions and
// savings goals and the summaries derived from them.
//
// Nothing in this package talks to the network. Callers apply a change here
// only after the data API has acknowledged it, except for goal top-ups, which
// are applied first and reverted on failure.
package ledger

import (
	"fintrack/internal/models"
)

// Breakdown groups the transactions of one kind by category name and sums
// their amounts. Categories appear in order of first appearance. Records with
// an unparsable amount are skipped, matching Summarize. The result is never
// nil, so an empty input encodes as an empty JSON list.
func Breakdown(txs []models.Transaction, kind models.TransactionType) []models.CategoryTotal {
	out := []models.CategoryTotal{}
	index := make(map[string]int)

	for _, tx := range txs {
		if tx.Type != kind {
			continue
		}
		amount, ok := tx.Amount.Decimal()
		if !ok {
			continue
		}

		name := tx.CategoryName()
		if i, seen := index[name]; seen {
			out[i].Amount = out[i].Amount.Add(amount)
			continue
		}
		index[name] = len(out)
		out = append(out, models.CategoryTotal{Category: name, Amount: amount})
	}

	return out
}
