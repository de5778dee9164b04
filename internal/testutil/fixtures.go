package testutil

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"

	"fintrack/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewID returns a unique UUID-shaped id.
func NewID() string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", nextID())
}

// Transaction builds a transaction node. An empty category leaves it unset.
func Transaction(kind models.TransactionType, amount, category string) models.Transaction {
	tx := models.Transaction{
		ID:          NewID(),
		Amount:      models.Amount(amount),
		Description: "test " + string(kind),
		CreatedAt:   "2024-03-01",
		Type:        kind,
	}
	if category != "" {
		tx.Categories = &models.CategoryRef{Name: category}
	}
	return tx
}

// Category builds a category.
func Category(name string, kind models.CategoryType) models.Category {
	return models.Category{ID: NewID(), Name: name, Type: kind}
}

// SavingsGoal builds a savings goal.
func SavingsGoal(current, target, willing string) models.SavingsGoal {
	return models.SavingsGoal{
		ID:            NewID(),
		Name:          fmt.Sprintf("Goal %d", nextID()),
		CurrentAmount: models.Amount(current),
		TargetAmount:  models.Amount(target),
		WillingToAdd:  models.Amount(willing),
		CreatedAt:     "2024-03-01T00:00:00",
	}
}

// CollectionData renders a query payload: {field: {edges: [{node}...]}}.
func CollectionData[T any](t *testing.T, field string, nodes ...T) string {
	t.Helper()
	c := models.Collection[T]{Edges: []models.Edge[T]{}}
	for _, n := range nodes {
		c.Edges = append(c.Edges, models.Edge[T]{Node: n})
	}
	return marshal(t, map[string]any{field: c})
}

// MutationData renders a mutation payload: {field: {affectedCount, records}}.
func MutationData[T any](t *testing.T, field string, records ...T) string {
	t.Helper()
	if records == nil {
		records = []T{}
	}
	return marshal(t, map[string]any{field: models.MutationResult[T]{AffectedCount: len(records), Records: records}})
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}
	return string(b)
}
