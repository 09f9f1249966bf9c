package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"scadenziario/internal/ledger"
	"scadenziario/internal/logger"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [file]",
	Short: "Show counts and totals per status",
	Example: `  scadenziario summary scadenze.json
  scadenziario summary scadenze.json --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().Bool("json", false, "Output as JSON format")
}

func runSummary(cmd *cobra.Command, args []string) error {
	const op = "runSummary"
	log := logger.WithComponent("summary")

	jsonOutput, _ := cmd.Flags().GetBool("json")

	result, err := loadAndNormalize(cmd, args)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	summary := ledger.Summarize(result.Items)

	log.Info().
		Int("items", summary.Count).
		Str("total", summary.Total.StringFixed(2)).
		Msg("Summary computed")

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), summary)
	}
	return writeSummaryTable(cmd.OutOrStdout(), summary)
}

func writeSummaryTable(out io.Writer, summary ledger.Summary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATO\tVOCI\tTOTALE")
	for _, total := range summary.ByStatus {
		fmt.Fprintf(w, "%s\t%d\t%s\n", total.Status.Label(), total.Count, ledger.FormatDecimal(total.Amount))
	}
	fmt.Fprintf(w, "Totale\t%d\t%s\n", summary.Count, ledger.FormatDecimal(summary.Total))
	return w.Flush()
}
