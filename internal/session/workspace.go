// Package session holds the per-session workspaces that mirror a user's
// transactions and savings goals between requests.
package session

import (
	"errors"
	"sync"

	"fintrack/internal/ledger"
	"fintrack/internal/models"
)

// ErrNotLoaded is returned when a workspace is used before its data was
// fetched.
var ErrNotLoaded = errors.New("session: workspace not loaded")

// Identity is the authenticated caller of a request.
type Identity struct {
	Token  string
	UserID string
}

// Workspace is one session's local state. Every read and write goes through
// its lock. Callers must not hold it across remote calls, which is why
// access is only offered through the With* callbacks.
type Workspace struct {
	UserID string

	mu     sync.Mutex
	ledger *ledger.Ledger
	goals  *ledger.GoalBook
}

// NewWorkspace returns an empty, unloaded workspace for userID.
func NewWorkspace(userID string) *Workspace {
	return &Workspace{UserID: userID}
}

// LoadLedger replaces the transaction mirror and returns its snapshot.
func (w *Workspace) LoadLedger(txs []models.Transaction) ledger.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ledger == nil {
		w.ledger = ledger.New()
	}
	w.ledger.Load(txs)
	return w.ledger.Snapshot()
}

// WithLedger runs fn with the ledger held under the workspace lock.
func (w *Workspace) WithLedger(fn func(l *ledger.Ledger) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ledger == nil {
		return ErrNotLoaded
	}
	return fn(w.ledger)
}

// LoadGoals replaces the savings goal mirror.
func (w *Workspace) LoadGoals(goals []models.SavingsGoal) []models.SavingsGoal {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.goals == nil {
		w.goals = ledger.NewGoalBook()
	}
	w.goals.Load(goals)
	return w.goals.Goals()
}

// WithGoals runs fn with the goal book held under the workspace lock.
func (w *Workspace) WithGoals(fn func(b *ledger.GoalBook) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.goals == nil {
		return ErrNotLoaded
	}
	return fn(w.goals)
}
