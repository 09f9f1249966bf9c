package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"scadenziario/internal/ledger"
)

var formatCmd = &cobra.Command{
	Use:   "format AMOUNT...",
	Short: "Render amounts in the Italian Euro convention",
	Example: `  scadenziario format 1234.5
  # € 1.234,50`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, amount := range args {
			fmt.Fprintln(cmd.OutOrStdout(), ledger.FormatCurrency(amount))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatCmd)
}
