package cli

import (
	"github.com/spf13/cobra"

	"github.com/barqchain/walletctl/internal/money"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the wallet balance",
	Args:  cobra.NoArgs,
	RunE:  runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().Bool("utxos", false, "list the spendable outputs")
}

func runBalance(cmd *cobra.Command, args []string) error {
	sess, err := requireSession()
	if err != nil {
		return err
	}
	showUTXOs, _ := cmd.Flags().GetBool("utxos")
	ctx := cmd.Context()

	bal, err := client.GetBalance(ctx, sess.WalletID)
	if err != nil {
		return err
	}

	printer.Print("Wallet:  %s", printer.Bold(sess.WalletID))
	printer.Print("Balance: %s", printer.Bold(money.Format(bal.Balance)))
	printer.Print("UTXOs:   %d", bal.UTXOCount)

	if !showUTXOs {
		return nil
	}

	utxos, err := client.GetUTXOs(ctx, sess.WalletID)
	if err != nil {
		return err
	}
	if len(utxos) == 0 {
		printer.Info("No spendable outputs")
		return nil
	}

	table := NewTable([]string{"TX HASH", "INDEX", "AMOUNT"})
	for _, u := range utxos {
		table.AddRow([]string{shortHash(u.TxHash), itoa(u.OutputIndex), money.Format(u.Amount)})
	}
	table.Render()
	return nil
}
