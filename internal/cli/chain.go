package cli

import (
	"github.com/spf13/cobra"

	"github.com/barqchain/walletctl/internal/chainops"
	"github.com/barqchain/walletctl/internal/money"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Chain summary and health",
}

var chainInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the chain summary",
	Args:  cobra.NoArgs,
	RunE:  runChainInfo,
}

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine the pending transactions into a block",
	Long: `Trigger mining on the service. The signed-in wallet collects the block
reward and the fees of the confirmed transfers. Fails when there is nothing
to mine.`,
	Args: cobra.NoArgs,
	RunE: runMine,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Ask the service to validate its chain",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.AddCommand(chainInfoCmd)
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(validateCmd)
}

func runChainInfo(cmd *cobra.Command, args []string) error {
	panel := chainops.NewPanel(client, logger)
	ctx := cmd.Context()

	info := panel.Info(ctx)
	stats := panel.MiningStats(ctx)

	printer.Print("Height:       %d", info.BlockHeight)
	printer.Print("Transactions: %d", info.TotalTransactions)
	printer.Print("Pending:      %d", info.PendingCount)
	printer.Print("Fee:          %s", money.Format(info.TransactionFee))
	printer.Print("Block reward: %s", money.Format(info.CurrentBlockReward))
	printer.Print("Difficulty:   %d", info.Difficulty)

	if stats.TotalBlocksMined > 0 {
		printer.Print("")
		printer.Print("Blocks mined:  %d", stats.TotalBlocksMined)
		printer.Print("Total rewards: %s", money.Format(stats.TotalRewards))
	}
	return nil
}

func runMine(cmd *cobra.Command, args []string) error {
	if _, err := requireSession(); err != nil {
		return err
	}

	panel := chainops.NewPanel(client, logger)
	block, err := panel.Mine(cmd.Context())
	if err != nil {
		printer.Error("%v", err)
		return err
	}

	printer.Success("Mined block %d", block.BlockIndex)
	printer.Print("Hash:  %s", block.Hash)
	printer.Print("Nonce: %d", block.Nonce)
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	panel := chainops.NewPanel(client, logger)
	report, err := panel.Validate(cmd.Context())
	if err != nil {
		printer.Error("%v", err)
		return err
	}

	if report.IsValid {
		printer.Success("Chain is valid (%d blocks)", report.BlockCount)
	} else {
		printer.Error("Chain failed validation (%d blocks)", report.BlockCount)
	}
	return nil
}
