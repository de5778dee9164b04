package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"fintrack/internal/ledger"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printSnapshot(w io.Writer, s ledger.Snapshot) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Balance\t%s\n", s.Summary.TotalBalance.StringFixed(2))
	fmt.Fprintf(tw, "Income\t%s\n", s.Summary.TotalIncome.StringFixed(2))
	fmt.Fprintf(tw, "Expenses\t%s\n", s.Summary.TotalExpense.StringFixed(2))
	if s.Summary.Invalid > 0 {
		fmt.Fprintf(tw, "Skipped\t%d with unreadable amounts\n", s.Summary.Invalid)
	}
	_ = tw.Flush()

	if len(s.IncomeBreakdown) > 0 {
		fmt.Fprintln(w, "\nIncome by category")
		printBreakdown(w, s.IncomeBreakdown)
	}
	if len(s.ExpenseBreakdown) > 0 {
		fmt.Fprintln(w, "\nExpenses by category")
		printBreakdown(w, s.ExpenseBreakdown)
	}
}

func printBreakdown(w io.Writer, totals []models.CategoryTotal) {
	tw := newTable(w)
	defer tw.Flush()

	for _, t := range totals {
		fmt.Fprintf(tw, "  %s\t%s\n", t.Category, t.Amount.StringFixed(2))
	}
}

func printTransactions(w io.Writer, txs []models.Transaction) {
	tw := newTable(w)
	defer tw.Flush()

	fmt.Fprintln(tw, "DATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION\tID")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.CreatedAt, tx.Type, tx.CategoryName(), tx.Amount, tx.Description, tx.ID)
	}
}

func printCategories(w io.Writer, categories []models.Category) {
	tw := newTable(w)
	defer tw.Flush()

	fmt.Fprintln(tw, "TYPE\tNAME\tID")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Type, c.Name, c.ID)
	}
}

// progressBar draws pct as a 20-cell bar. Over-funded goals fill the bar.
func progressBar(pct float64) string {
	const width = 20
	filled := int(pct / 100 * width)
	filled = max(0, min(filled, width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func printGoals(w io.Writer, goals []services.GoalView) {
	tw := newTable(w)
	defer tw.Flush()

	fmt.Fprintln(tw, "NAME\tSAVED\tTARGET\tPROGRESS\t\tID")
	for _, g := range goals {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f%%\t%s\n",
			g.Name, g.CurrentAmount, g.TargetAmount, progressBar(g.Progress), g.Progress, g.ID)
	}
}
