package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fintrack/internal/logger"
)

var (
	token   string
	verbose bool
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "fintrack",
		Short: "Personal finance tracker",
		Long: `fintrack reads and changes your transactions and savings goals on the
hosted data service from the command line.

Sign in once with 'fintrack login' and export the printed token as FINTRACK_TOKEN.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				logger.Init("development")
			} else {
				logger.Init("test")
			}
		},
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("FINTRACK_TOKEN"), "session token (default: $FINTRACK_TOKEN)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")

	// Add commands
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(transactionsCmd())
	rootCmd.AddCommand(breakdownCmd())
	rootCmd.AddCommand(goalsCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fintrack %s\n", version)
		},
	}
}
