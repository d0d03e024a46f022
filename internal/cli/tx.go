package cli

import (
	"github.com/spf13/cobra"

	"github.com/barqchain/walletctl/internal/money"
)

var txCmd = &cobra.Command{
	Use:   "tx <hash>",
	Short: "Look up one transaction by hash",
	Args:  cobra.ExactArgs(1),
	RunE:  runTx,
}

func init() {
	rootCmd.AddCommand(txCmd)
}

func runTx(cmd *cobra.Command, args []string) error {
	if _, err := requireSession(); err != nil {
		return err
	}

	tx, err := client.GetTransaction(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	status := "pending"
	if tx.BlockIndex != nil {
		status = "block " + i64toa(*tx.BlockIndex)
	}

	printer.Print("Hash:   %s", printer.Bold(tx.Hash))
	printer.Print("From:   %s", tx.SenderWalletID)
	printer.Print("To:     %s", tx.ReceiverWalletID)
	printer.Print("Amount: %s", money.Format(tx.Amount))
	if tx.Note != "" {
		printer.Print("Note:   %s", tx.Note)
	}
	printer.Print("At:     %s", formatTime(tx.CreatedAt))
	printer.Print("Status: %s", status)
	return nil
}
