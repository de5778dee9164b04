package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"fintrack/internal/ledger"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{0, "[....................]"},
		{25, "[#####...............]"},
		{100, "[####################]"},
		{240, "[####################]"},
		{-5, "[....................]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, progressBar(tt.pct), "pct %v", tt.pct)
	}
}

func TestPrintSnapshot(t *testing.T) {
	l := ledger.New()
	l.Load([]models.Transaction{
		{ID: "1", Amount: "500", Type: models.TransactionTypeIncome, Categories: &models.CategoryRef{Name: "Salary"}},
		{ID: "2", Amount: "100", Type: models.TransactionTypeExpense, Categories: &models.CategoryRef{Name: "Food"}},
		{ID: "3", Amount: "250", Type: models.TransactionTypeExpense, Categories: &models.CategoryRef{Name: "Food"}},
	})

	var buf bytes.Buffer
	printSnapshot(&buf, l.Snapshot())
	out := buf.String()

	assert.Contains(t, out, "Balance   150.00")
	assert.Contains(t, out, "Expenses  350.00")
	assert.Contains(t, out, "Income by category")
	assert.Contains(t, out, "Food  350.00")
	assert.NotContains(t, out, "Skipped")
}

func TestPrintGoals(t *testing.T) {
	goal := models.SavingsGoal{ID: "g-1", Name: "Emergency fund", TargetAmount: "5000", CurrentAmount: "1200"}

	var buf bytes.Buffer
	printGoals(&buf, []services.GoalView{{SavingsGoal: goal, Progress: goal.Progress()}})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Emergency fund")
	assert.Contains(t, lines[1], "24.0%")
	assert.Contains(t, lines[1], "[####................]")
}

func TestPrintTransactions_Uncategorized(t *testing.T) {
	var buf bytes.Buffer
	printTransactions(&buf, []models.Transaction{
		{ID: "t-1", Amount: "12.50", Type: models.TransactionTypeExpense, CreatedAt: "2024-05-03"},
	})

	assert.Contains(t, buf.String(), models.Uncategorized)
}
