package cli

import (
	"github.com/spf13/cobra"

	"github.com/barqchain/walletctl/internal/money"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Wallet statements",
}

var reportsMonthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Per-month totals of sent and received funds",
	Args:  cobra.NoArgs,
	RunE:  runReportsMonthly,
}

var reportsZakatCmd = &cobra.Command{
	Use:   "zakat",
	Short: "Periodic deductions applied to the wallet",
	Args:  cobra.NoArgs,
	RunE:  runReportsZakat,
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsMonthlyCmd)
	reportsCmd.AddCommand(reportsZakatCmd)
}

func runReportsMonthly(cmd *cobra.Command, args []string) error {
	sess, err := requireSession()
	if err != nil {
		return err
	}

	report, err := client.GetMonthlyReport(cmd.Context(), sess.WalletID)
	if err != nil {
		return err
	}
	if len(report) == 0 {
		printer.Info("No confirmed activity yet")
		return nil
	}

	table := NewTable([]string{"MONTH", "SENT", "RECEIVED", "TXS"})
	for _, entry := range report {
		table.AddRow([]string{
			entry.Month,
			money.Format(entry.TotalSent),
			money.Format(entry.TotalReceived),
			itoa(entry.TransactionCount),
		})
	}
	table.Render()
	return nil
}

func runReportsZakat(cmd *cobra.Command, args []string) error {
	sess, err := requireSession()
	if err != nil {
		return err
	}

	records, err := client.GetZakatRecords(cmd.Context(), sess.WalletID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		printer.Info("No deductions recorded")
		return nil
	}

	table := NewTable([]string{"DEDUCTED AT", "AMOUNT"})
	for _, r := range records {
		table.AddRow([]string{formatTime(r.DeductedAt), money.Format(r.Amount)})
	}
	table.Render()
	return nil
}
