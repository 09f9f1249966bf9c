package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"scadenziario/internal/logger"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Derive the status of a single due date",
	Example: `  scadenziario status --due 2025-07-10
  scadenziario status --due 2025-07-10 --paid 2025-07-01
  scadenziario status --due 10/07/2025 --today 2025-06-30`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().String("due", "", "Due date (YYYY-MM-DD, DD/MM/YYYY or DD.MM.YYYY)")
	statusCmd.Flags().String("paid", "", "Payment date, if the item has been paid")
	_ = statusCmd.MarkFlagRequired("due")
}

func runStatus(cmd *cobra.Command, args []string) error {
	due, _ := cmd.Flags().GetString("due")
	paid, _ := cmd.Flags().GetString("paid")

	var paymentDate *string
	if cmd.Flags().Changed("paid") {
		paymentDate = &paid
	}

	calculator := newCalculator()
	status := calculator.Status(due, paymentDate)

	log := logger.WithFields(map[string]interface{}{
		"component": "status",
		"due_date":  due,
		"paid":      paymentDate != nil,
		"today":     calculator.Today().Format("2006-01-02"),
	})
	log.Debug().Str("status", string(status)).Msg("Status derived")

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", status, status.Label())
	return nil
}
