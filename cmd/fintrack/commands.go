package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fintrack/internal/ledger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

func loginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and print a session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return fmt.Errorf("a password is required: pass --password or set FINTRACK_PASSWORD")
			}
			a, err := newApp()
			if err != nil {
				return err
			}

			sess, err := a.auth.SignIn(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Signed in as %s\n", sess.User.Email)
			fmt.Fprintln(cmd.OutOrStdout(), sess.AccessToken)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", os.Getenv("FINTRACK_PASSWORD"), "account password (default: $FINTRACK_PASSWORD)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := a.identity()
			if err != nil {
				return err
			}
			if err := a.auth.SignOut(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show balance, totals and category breakdowns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := a.identity()
			if err != nil {
				return err
			}

			dashboard, err := a.transactions.LoadDashboard(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load transactions: %w", err)
			}
			printSnapshot(cmd.OutOrStdout(), dashboard.Snapshot)
			return nil
		},
	}
}

func breakdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "breakdown <income|expense>",
		Short:     "Show totals per category for one kind",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(models.TransactionTypeIncome), string(models.TransactionTypeExpense)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := models.TransactionType(args[0])
			if !kind.Valid() {
				return fmt.Errorf("unknown kind %q: use income or expense", args[0])
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := a.identity()
			if err != nil {
				return err
			}

			if _, err := a.transactions.LoadDashboard(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to load transactions: %w", err)
			}
			totals, err := a.transactions.Breakdown(id, kind)
			if err != nil {
				return err
			}
			printBreakdown(cmd.OutOrStdout(), totals)
			return nil
		},
	}
}

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List, add and delete transactions",
	}

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())
	cmd.AddCommand(listCategoriesCmd())

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var (
		kind     string
		category string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, optionally filtered by kind and category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := a.identity()
			if err != nil {
				return err
			}

			if _, err := a.transactions.LoadDashboard(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to load transactions: %w", err)
			}
			page, err := a.transactions.ListTransactions(id,
				ledger.Filter{Type: models.TransactionType(kind), Category: category},
				pagination.PageRequest{Page: 1, PageSize: limit},
			)
			if err != nil {
				return err
			}
			if len(page.Data) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions found.")
				return nil
			}
			printTransactions(cmd.OutOrStdout(), page.Data)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "type", "", "only income or expense")
	cmd.Flags().StringVar(&category, "category", "", "only this category name")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum rows to show (1-100)")
	return cmd
}

func addTransactionCmd() *cobra.Command {
	var in services.NewTransaction
	var kind string

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := a.identity()
			if err != nil {
				return err
			}

			if _, err := a.transactions.LoadDashboard(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to load transactions: %w", err)
			}
			in.Amount = models.Amount(args[0])
			in.Type = models.TransactionType(kind)
			change, err := a.transactions.CreateTransaction(cmd.Context(), id, in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s)\n\n", change.Transaction.Type, change.Transaction.Amount, change.Transaction.ID)
			printSnapshot(cmd.OutOrStdout(), change.Snapshot)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "type", string(models.TransactionTypeExpense), "income or expense")
	cmd.Flags().StringVar(&in.CategoryID, "category-id", "", "category id (see 'fintrack transactions categories')")
	cmd.Flags().StringVar(&in.Description, "description", "", "free text")
	cmd.Flags().StringVar(&in.CreatedAt, "date", "", "YYYY-MM-DD (default: today)")
	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories a transaction can use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			categories, err := a.categories.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			printCategories(cmd.OutOrStdout(), categories)
			return nil
		},
	}
}

func deleteTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := a.identity()
			if err != nil {
				return err
			}

			if _, err := a.transactions.LoadDashboard(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to load transactions: %w", err)
			}
			change, err := a.transactions.DeleteTransaction(cmd.Context(), id, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n\n", change.Transaction.ID)
			printSnapshot(cmd.OutOrStdout(), change.Snapshot)
			return nil
		},
	}
}

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List savings goals and top them up",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := a.identity()
			if err != nil {
				return err
			}

			goals, err := a.goals.LoadGoals(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load savings goals: %w", err)
			}
			if len(goals) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No savings goals yet.")
				return nil
			}
			printGoals(cmd.OutOrStdout(), goals)
			return nil
		},
	}

	cmd.AddCommand(topUpGoalCmd())
	return cmd
}

func topUpGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "top-up <id>",
		Short: "Add a goal's increment to its current amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := a.identity()
			if err != nil {
				return err
			}

			if _, err := a.goals.LoadGoals(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to load savings goals: %w", err)
			}
			goal, err := a.goals.TopUpGoal(cmd.Context(), id, args[0])
			if err != nil {
				return err
			}
			printGoals(cmd.OutOrStdout(), []services.GoalView{*goal})
			return nil
		},
	}
}
