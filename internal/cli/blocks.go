package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/barqchain/walletctl/internal/money"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "List confirmed blocks, newest first",
	Args:  cobra.NoArgs,
	RunE:  runBlocks,
}

var blockCmd = &cobra.Command{
	Use:   "block <index>",
	Short: "Show one block and its transactions",
	Args:  cobra.ExactArgs(1),
	RunE:  runBlock,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
	rootCmd.AddCommand(blockCmd)

	blocksCmd.Flags().Int("limit", 20, "number of blocks to show")
	blocksCmd.Flags().Int("offset", 0, "blocks to skip from the tip")
}

func runBlocks(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	blocks, err := client.GetBlocks(cmd.Context(), limit, offset)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		printer.Info("No blocks yet")
		return nil
	}

	table := NewTable([]string{"INDEX", "HASH", "TXS", "MINED AT"})
	for _, b := range blocks {
		table.AddRow([]string{
			i64toa(b.Index),
			shortHash(b.Hash),
			itoa(len(b.Transactions)),
			formatTime(b.Timestamp),
		})
	}
	table.Render()
	return nil
}

func runBlock(cmd *cobra.Command, args []string) error {
	index, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return err
	}

	b, err := client.GetBlock(cmd.Context(), index)
	if err != nil {
		return err
	}

	printer.Print("Block:    %s", printer.Bold(i64toa(b.Index)))
	printer.Print("Hash:     %s", b.Hash)
	printer.Print("Previous: %s", b.PreviousHash)
	printer.Print("Nonce:    %d", b.Nonce)
	printer.Print("Mined at: %s", formatTime(b.Timestamp))

	if len(b.Transactions) == 0 {
		return nil
	}
	printer.Print("")
	table := NewTable([]string{"HASH", "FROM", "TO", "AMOUNT"})
	for _, tx := range b.Transactions {
		table.AddRow([]string{
			shortHash(tx.Hash),
			tx.SenderWalletID,
			tx.ReceiverWalletID,
			money.Format(tx.Amount),
		})
	}
	table.Render()
	return nil
}
