package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/graphql"
	"fintrack/internal/ledger"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/session"
)

// savingsGoalService handles savings goal business logic. Top-ups are the
// one write applied before the data API confirms it; a failed call puts the
// previous amount back.
type savingsGoalService struct {
	gql      GraphQLDoer
	sessions *session.Store
}

// NewSavingsGoalService creates a new SavingsGoalServicer.
func NewSavingsGoalService(gql GraphQLDoer, sessions *session.Store) SavingsGoalServicer {
	return &savingsGoalService{gql: gql, sessions: sessions}
}

func view(g models.SavingsGoal) GoalView {
	return GoalView{SavingsGoal: g, Progress: g.Progress()}
}

func views(goals []models.SavingsGoal) []GoalView {
	out := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		out = append(out, view(g))
	}
	return out
}

// LoadGoals fetches the user's goals and replaces the session's copy.
func (s *savingsGoalService) LoadGoals(ctx context.Context, id session.Identity) ([]GoalView, error) {
	var out struct {
		SavingsCollection models.Collection[models.SavingsGoal] `json:"savingsCollection"`
	}
	if err := s.gql.Do(ctx, graphql.GetSavingsGoalsByUser, map[string]any{"user_id": id.UserID}, &out); err != nil {
		return nil, upstreamError(err)
	}

	goals := s.sessions.Open(id).LoadGoals(out.SavingsCollection.Nodes())
	return views(goals), nil
}

// ListGoals returns the loaded goals without refetching.
func (s *savingsGoalService) ListGoals(id session.Identity) ([]GoalView, error) {
	w, err := s.workspace(id)
	if err != nil {
		return nil, err
	}

	var goals []models.SavingsGoal
	err = w.WithGoals(func(b *ledger.GoalBook) error {
		goals = b.Goals()
		return nil
	})
	if err != nil {
		return nil, localError(err)
	}
	return views(goals), nil
}

// CreateGoal validates in, inserts it remotely and mirrors the returned record.
func (s *savingsGoalService) CreateGoal(ctx context.Context, id session.Identity, in NewGoal) (*GoalView, error) {
	vars, err := goalVars(id.UserID, in)
	if err != nil {
		return nil, err
	}

	w, err := s.workspace(id)
	if err != nil {
		return nil, err
	}
	if err := w.WithGoals(func(*ledger.GoalBook) error { return nil }); err != nil {
		return nil, localError(err)
	}

	var out struct {
		Insert models.MutationResult[models.SavingsGoal] `json:"insertIntoSavingsCollection"`
	}
	if err := s.gql.Do(ctx, graphql.AddSavingsGoal, vars, &out); err != nil {
		return nil, upstreamError(err)
	}
	record, ok := out.Insert.First()
	if !ok || record.ID == "" {
		return nil, malformed("insert returned no savings goal record")
	}
	if record.UserID == "" {
		record.UserID = id.UserID
	}

	err = w.WithGoals(func(b *ledger.GoalBook) error {
		b.Add(record)
		return nil
	})
	if err != nil {
		return nil, localError(err)
	}

	v := view(record)
	return &v, nil
}

// goalVars validates a new goal and builds the insert variables.
func goalVars(userID string, in NewGoal) (map[string]any, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}

	target, ok := in.TargetAmount.Decimal()
	if !ok || !target.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "target amount must be greater than zero")
	}

	current := decimal.Zero
	if !in.CurrentAmount.IsZero() {
		current, ok = in.CurrentAmount.Decimal()
		if !ok || current.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "current amount must not be negative")
		}
	}

	vars := map[string]any{
		"name":           name,
		"current_amount": string(models.AmountOf(current)),
		"target_amount":  string(models.AmountOf(target)),
		"willing_to_add": nil,
		"target_date":    nil,
		"category":       nil,
		"user_id":        userID,
		"is_completed":   current.GreaterThanOrEqual(target),
	}

	if !in.WillingToAdd.IsZero() {
		willing, ok := in.WillingToAdd.Decimal()
		if !ok || willing.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidAmount, "willing to add must not be negative")
		}
		vars["willing_to_add"] = string(models.AmountOf(willing))
	}
	if in.TargetDate != nil && *in.TargetDate != "" {
		if !validDate(*in.TargetDate) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target_date must be a YYYY-MM-DD date")
		}
		vars["target_date"] = *in.TargetDate
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		vars["category"] = strings.TrimSpace(*in.Category)
	}
	return vars, nil
}

// TopUpGoal raises a goal's current amount by its increment. The new amount
// is visible locally before the data API answers and is reverted if the
// call fails.
func (s *savingsGoalService) TopUpGoal(ctx context.Context, id session.Identity, goalID string) (*GoalView, error) {
	w, err := s.workspace(id)
	if err != nil {
		return nil, err
	}

	var pending ledger.TopUp
	err = w.WithGoals(func(b *ledger.GoalBook) error {
		var err error
		pending, err = b.BeginTopUp(goalID)
		return err
	})
	if err != nil {
		return nil, localError(err)
	}

	var out struct {
		Update models.MutationResult[models.SavingsGoal] `json:"updateSavingsCollection"`
	}
	vars := map[string]any{"id": goalID, "amount": string(pending.Next)}
	err = s.gql.Do(ctx, graphql.UpdateSavingsGoalAmount, vars, &out)
	if err != nil {
		err = upstreamError(err)
	} else if record, ok := out.Update.First(); !ok || record.ID != goalID {
		err = malformed("update did not return savings goal " + goalID)
	}

	if err != nil {
		_ = w.WithGoals(func(b *ledger.GoalBook) error {
			b.Revert(pending)
			return nil
		})
		logger.Named("savings").Warnw("top-up reverted",
			"user_id", id.UserID,
			"goal_id", goalID,
			"amount", pending.Previous,
			"error", err,
		)
		return nil, err
	}

	acknowledged, _ := out.Update.First()
	var goal models.SavingsGoal
	err = w.WithGoals(func(b *ledger.GoalBook) error {
		var err error
		goal, err = b.Confirm(pending, acknowledged.CurrentAmount)
		return err
	})
	if err != nil {
		return nil, localError(err)
	}

	v := view(goal)
	return &v, nil
}

// DeleteGoal deletes a goal remotely and removes it locally.
func (s *savingsGoalService) DeleteGoal(ctx context.Context, id session.Identity, goalID string) error {
	w, err := s.workspace(id)
	if err != nil {
		return err
	}
	err = w.WithGoals(func(b *ledger.GoalBook) error {
		if _, ok := b.Get(goalID); !ok {
			return ledger.ErrGoalNotFound
		}
		return nil
	})
	if err != nil {
		return localError(err)
	}

	var out struct {
		Delete models.MutationResult[models.SavingsGoal] `json:"deleteFromSavingsCollection"`
	}
	if err := s.gql.Do(ctx, graphql.DeleteSavingsGoal, map[string]any{"id": goalID}, &out); err != nil {
		return upstreamError(err)
	}
	if record, ok := out.Delete.First(); !ok || record.ID != goalID {
		return malformed("delete did not return savings goal " + goalID)
	}

	return localError(w.WithGoals(func(b *ledger.GoalBook) error {
		_, err := b.Remove(goalID)
		return err
	}))
}

// Progress returns a goal's current/target percentage.
func (s *savingsGoalService) Progress(id session.Identity, goalID string) (float64, error) {
	w, err := s.workspace(id)
	if err != nil {
		return 0, err
	}

	var pct float64
	err = w.WithGoals(func(b *ledger.GoalBook) error {
		g, ok := b.Get(goalID)
		if !ok {
			return ledger.ErrGoalNotFound
		}
		pct = g.Progress()
		return nil
	})
	return pct, localError(err)
}

func (s *savingsGoalService) workspace(id session.Identity) (*session.Workspace, error) {
	w, ok := s.sessions.Get(id)
	if !ok {
		return nil, apperrors.ErrSessionNotLoaded
	}
	return w, nil
}
