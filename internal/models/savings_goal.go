package models

import "github.com/shopspring/decimal"

// SavingsGoal is a savings node as returned by the data API.
type SavingsGoal struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id,omitempty"`
	Name          string  `json:"name"`
	TargetAmount  Amount  `json:"target_amount"`
	CurrentAmount Amount  `json:"current_amount"`
	WillingToAdd  Amount  `json:"willing_to_add,omitempty"`
	TargetDate    *string `json:"target_date,omitempty"`
	Category      *string `json:"category,omitempty"`
	IsCompleted   bool    `json:"is_completed"`
	CreatedAt     string  `json:"created_at"`
}

// Progress returns current/target as a percentage. It is not clamped, so an
// over-funded goal reports more than 100. An unusable target yields 0.
func (g SavingsGoal) Progress() float64 {
	target, ok := g.TargetAmount.Decimal()
	if !ok || target.IsZero() {
		return 0
	}
	current, ok := g.CurrentAmount.Decimal()
	if !ok {
		return 0
	}
	pct, _ := current.Div(target).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
