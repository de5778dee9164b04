package ledger

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// Summarize computes income, expense and balance in a single pass.
// Income adds to income and balance; expense adds to expense and subtracts
// from balance. Other types are ignored.
func Summarize(txs []models.Transaction) models.Summary {
	s := models.Summary{
		TotalBalance: decimal.Zero,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, tx := range txs {
		s = contribute(s, tx, 1)
	}
	return s
}

// contribute adds (sign=1) or removes (sign=-1) one transaction's share of
// the totals.
func contribute(s models.Summary, tx models.Transaction, sign int64) models.Summary {
	if !tx.Type.Valid() {
		return s
	}

	amount, ok := tx.Amount.Decimal()
	if !ok {
		s.Invalid += int(sign)
		return s
	}
	amount = amount.Mul(decimal.NewFromInt(sign))

	switch tx.Type {
	case models.TransactionTypeIncome:
		s.TotalIncome = s.TotalIncome.Add(amount)
		s.TotalBalance = s.TotalBalance.Add(amount)
	case models.TransactionTypeExpense:
		s.TotalExpense = s.TotalExpense.Add(amount)
		s.TotalBalance = s.TotalBalance.Sub(amount)
	}
	return s
}
