package cli

import (
	"github.com/spf13/cobra"

	"github.com/barqchain/walletctl/internal/history"
	"github.com/barqchain/walletctl/internal/money"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse wallet activity",
	Long: `Show the wallet's activity: unconfirmed transfers first, then the
requested page of confirmed history.

Examples:
  walletctl history
  walletctl history --filter sent
  walletctl history --filter pending
  walletctl history --page 3`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("filter", "all", "all, sent, received or pending")
	historyCmd.Flags().Int("page", 1, "confirmed-history page (1-based)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	sess, err := requireSession()
	if err != nil {
		return err
	}
	rawFilter, _ := cmd.Flags().GetString("filter")
	page, _ := cmd.Flags().GetInt("page")

	filter, err := history.ParseFilter(rawFilter)
	if err != nil {
		return err
	}

	agg := history.NewAggregator(client, cfg.HistoryLimit)
	view, err := agg.View(cmd.Context(), sess.WalletID, filter, page)
	if err != nil {
		return err
	}

	if len(view.Items) == 0 {
		printer.Info("No activity to show")
		return nil
	}

	table := NewTable([]string{"", "WHEN", "AMOUNT", "COUNTERPARTY", "NOTE", "STATUS"})
	for _, e := range view.Items {
		var badge, counterparty, amount string
		if e.SenderWalletID == sess.WalletID {
			badge = printer.Badge("sent")
			counterparty = e.ReceiverWalletID
			amount = "-" + money.Format(e.Amount)
		} else {
			badge = printer.Badge("received")
			counterparty = e.SenderWalletID
			amount = "+" + money.Format(e.Amount)
		}

		status := "pending"
		if e.Pending() {
			badge = printer.Badge("pending")
		} else if e.BlockIndex != nil {
			status = "block " + i64toa(*e.BlockIndex)
		}

		table.AddRow([]string{badge, formatTime(e.CreatedAt), amount, counterparty, e.Note, status})
	}
	table.Render()

	if view.PendingCount > 0 {
		printer.Info("%d unconfirmed transfer(s)", view.PendingCount)
	}
	if view.HasMore {
		printer.Print("%s", printer.Dim("More history available; try --page "+itoa(page+1)))
	}
	return nil
}
