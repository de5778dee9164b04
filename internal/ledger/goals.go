package ledger

import (
	"errors"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// ErrGoalNotFound is returned when a goal id is not in the book.
var ErrGoalNotFound = errors.New("ledger: savings goal not found")

// DefaultIncrement is the top-up applied to goals without a positive
// willing-to-add amount.
var DefaultIncrement = decimal.NewFromInt(100)

// TopUp describes an increment applied ahead of remote confirmation.
type TopUp struct {
	GoalID   string
	Previous models.Amount
	Next     models.Amount
}

// GoalBook is the ordered collection of a user's savings goals.
// Like Ledger it is not safe for concurrent use.
type GoalBook struct {
	goals []models.SavingsGoal
}

// NewGoalBook returns an empty book.
func NewGoalBook() *GoalBook {
	return &GoalBook{goals: []models.SavingsGoal{}}
}

// Load replaces the book's contents.
func (b *GoalBook) Load(goals []models.SavingsGoal) {
	b.goals = append([]models.SavingsGoal{}, goals...)
}

// Goals returns a copy of the goals in order.
func (b *GoalBook) Goals() []models.SavingsGoal {
	return append([]models.SavingsGoal{}, b.goals...)
}

// Get returns the goal with the given id.
func (b *GoalBook) Get(id string) (models.SavingsGoal, bool) {
	i := b.indexOf(id)
	if i < 0 {
		return models.SavingsGoal{}, false
	}
	return b.goals[i], true
}

// Add appends a confirmed goal.
func (b *GoalBook) Add(goal models.SavingsGoal) {
	b.goals = append(b.goals, goal)
}

// Remove drops the goal with the given id.
func (b *GoalBook) Remove(id string) (models.SavingsGoal, error) {
	i := b.indexOf(id)
	if i < 0 {
		return models.SavingsGoal{}, ErrGoalNotFound
	}
	removed := b.goals[i]
	b.goals = append(b.goals[:i:i], b.goals[i+1:]...)
	return removed, nil
}

// Increment returns the amount a top-up adds to goal.
func Increment(goal models.SavingsGoal) decimal.Decimal {
	if willing, ok := goal.WillingToAdd.Decimal(); ok && willing.IsPositive() {
		return willing
	}
	return DefaultIncrement
}

// BeginTopUp raises the goal's current amount by its increment and returns
// what is needed to confirm or revert the change. An unparsable current
// amount counts as zero.
func (b *GoalBook) BeginTopUp(id string) (TopUp, error) {
	i := b.indexOf(id)
	if i < 0 {
		return TopUp{}, ErrGoalNotFound
	}

	goal := b.goals[i]
	current, ok := goal.CurrentAmount.Decimal()
	if !ok {
		current = decimal.Zero
	}
	next := models.AmountOf(current.Add(Increment(goal)))

	b.goals[i].CurrentAmount = next
	return TopUp{GoalID: id, Previous: goal.CurrentAmount, Next: next}, nil
}

// Confirm settles a top-up with the amount the data API acknowledged. An
// empty acknowledgment keeps the optimistic value.
func (b *GoalBook) Confirm(t TopUp, acknowledged models.Amount) (models.SavingsGoal, error) {
	i := b.indexOf(t.GoalID)
	if i < 0 {
		return models.SavingsGoal{}, ErrGoalNotFound
	}
	if !acknowledged.IsZero() {
		b.goals[i].CurrentAmount = acknowledged
	}
	return b.goals[i], nil
}

// Revert restores the pre-top-up amount. A goal removed in the meantime is
// left alone.
func (b *GoalBook) Revert(t TopUp) {
	if i := b.indexOf(t.GoalID); i >= 0 {
		b.goals[i].CurrentAmount = t.Previous
	}
}

func (b *GoalBook) indexOf(id string) int {
	for i := range b.goals {
		if b.goals[i].ID == id {
			return i
		}
	}
	return -1
}
