package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"scadenziario/internal/ledger"
	"scadenziario/internal/logger"
	"scadenziario/internal/reader"
	"scadenziario/pkg/models"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Normalize ledger records and derive their status",
	Long: `Read a backend payload ({"data": [...]} or a bare array), repair the
records and print them with their derived status.

Repairs applied:
  - null entries are removed
  - payment_date is reconciled into paymentDate
  - string amounts are parsed; unreadable amounts become 0

Reads standard input when no file is given or the file is "-".`,
	Example: `  # Table output
  scadenziario normalize scadenze.json

  # JSON output, only items that need attention
  scadenziario normalize scadenze.json --json --status overdue,upcoming

  # Reproducible run
  curl -s $BACKEND/scadenziario | scadenziario normalize --today 2025-06-30`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().Bool("json", false, "Output as JSON format")
	normalizeCmd.Flags().StringSlice("status", nil, "Only show items with these statuses (completed, overdue, upcoming, future)")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	const op = "runNormalize"
	log := logger.WithComponent("normalize")

	jsonOutput, _ := cmd.Flags().GetBool("json")
	statusNames, _ := cmd.Flags().GetStringSlice("status")

	statuses, err := parseStatuses(statusNames)
	if err != nil {
		return err
	}

	result, err := loadAndNormalize(cmd, args)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	items := ledger.Filter(result.Items, statuses...)

	log.Info().
		Int("items", len(result.Items)).
		Int("shown", len(items)).
		Int("removed", result.Removed).
		Int("coerced", result.Coerced).
		Msg("Ledger records normalized")

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), items)
	}
	return writeItemsTable(cmd.OutOrStdout(), items)
}

// loadAndNormalize reads the payload named by args and normalizes it with
// status refresh enabled
func loadAndNormalize(cmd *cobra.Command, args []string) (ledger.Result, error) {
	path := reader.StdinPath
	if len(args) > 0 {
		path = args[0]
	}

	payload, err := reader.New().WithStdin(cmd.InOrStdin()).Load(path)
	if err != nil {
		return ledger.Result{}, err
	}

	result := ledger.NewNormalizer(newCalculator()).Normalize(payload)
	for _, diagnostic := range result.Diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", diagnostic)
	}
	return result, nil
}

func parseStatuses(names []string) ([]models.Status, error) {
	var statuses []models.Status
	for _, name := range names {
		status := models.Status(strings.ToLower(strings.TrimSpace(name)))
		if !status.IsValid() {
			return nil, fmt.Errorf("invalid status: %s (must be completed, overdue, upcoming or future)", name)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func writeItemsTable(out io.Writer, items []models.LedgerItem) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOGGETTO\tCAUSALE\tSCADENZA\tIMPORTO\tPAGATO\tSTATO")
	for i := range items {
		item := &items[i]
		paid := "-"
		if item.PaymentDate != nil {
			paid = *item.PaymentDate
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID,
			item.Subject,
			item.Causale,
			item.Date,
			ledger.FormatCurrency(item.Amount),
			paid,
			item.Status.Label())
	}
	return w.Flush()
}

func writeJSON(out io.Writer, value interface{}) error {
	jsonData, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, string(jsonData))
	return err
}
