package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"scadenziario/internal/config"
	"scadenziario/internal/ledger"
	"scadenziario/internal/logger"
)

var version = "1.0.0"

// cfg is set by Execute before any command runs
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "scadenziario",
	Short: "Scadenziario - payable/receivable register tools",
	Long: `Scadenziario normalizes ledger records exported by the Prima Nota
backend, derives their payment status and renders amounts in the Italian
Euro convention.

Statuses:
  completed  the item has a payment date
  overdue    unpaid and the due date has passed
  upcoming   unpaid and due within 15 days (today included)
  future     unpaid and due later, or the due date is unreadable`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		today, _ := cmd.Flags().GetString("today")
		if today == "" {
			return nil
		}
		if err := cfg.SetToday(today); err != nil {
			return fmt.Errorf("--today: %w", err)
		}
		return nil
	},
}

// Execute runs the CLI with the loaded configuration
func Execute(c *config.Config) {
	log := logger.WithComponent("cmd")

	if c != nil {
		cfg = c
	}

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("today", "", "Evaluate statuses as of this date (YYYY-MM-DD, default: today)")
}

// newCalculator builds a status calculator from the active configuration
func newCalculator() *ledger.StatusCalculator {
	return ledger.NewStatusCalculator(cfg.Clock(), cfg.Location())
}
