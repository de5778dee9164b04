package models

import "github.com/shopspring/decimal"

// Summary holds the derived totals for a set of transactions.
type Summary struct {
	TotalBalance decimal.Decimal `json:"total_balance"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	// Invalid counts records whose amount could not be parsed. They are
	// left out of every total.
	Invalid int `json:"invalid_amounts,omitempty"`
}

// CategoryTotal is one slice of a category breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}
