package cli

import (
	"github.com/spf13/cobra"

	"github.com/barqchain/walletctl/internal/api"
)

var beneficiaryCmd = &cobra.Command{
	Use:     "beneficiary",
	Aliases: []string{"ben"},
	Short:   "Manage saved recipients",
}

var beneficiaryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved recipients",
	Args:  cobra.NoArgs,
	RunE:  runBeneficiaryList,
}

var beneficiaryAddCmd = &cobra.Command{
	Use:   "add <wallet-id>",
	Short: "Save a recipient wallet",
	Args:  cobra.ExactArgs(1),
	RunE:  runBeneficiaryAdd,
}

var beneficiaryRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Remove a saved recipient",
	Args:    cobra.ExactArgs(1),
	RunE:    runBeneficiaryRemove,
}

func init() {
	rootCmd.AddCommand(beneficiaryCmd)
	beneficiaryCmd.AddCommand(beneficiaryListCmd)
	beneficiaryCmd.AddCommand(beneficiaryAddCmd)
	beneficiaryCmd.AddCommand(beneficiaryRemoveCmd)

	beneficiaryAddCmd.Flags().String("nickname", "", "short name usable with `walletctl send`")
}

func runBeneficiaryList(cmd *cobra.Command, args []string) error {
	if _, err := requireSession(); err != nil {
		return err
	}

	beneficiaries, err := client.ListBeneficiaries(cmd.Context())
	if err != nil {
		return err
	}
	if len(beneficiaries) == 0 {
		printer.Info("No saved recipients")
		return nil
	}

	table := NewTable([]string{"ID", "WALLET", "NICKNAME", "ADDED"})
	for _, b := range beneficiaries {
		nickname := b.Nickname
		if nickname == "" {
			nickname = "-"
		}
		table.AddRow([]string{b.ID, b.BeneficiaryWalletID, nickname, formatTime(b.CreatedAt)})
	}
	table.Render()
	return nil
}

func runBeneficiaryAdd(cmd *cobra.Command, args []string) error {
	if _, err := requireSession(); err != nil {
		return err
	}
	nickname, _ := cmd.Flags().GetString("nickname")

	b, err := client.AddBeneficiary(cmd.Context(), api.AddBeneficiaryRequest{
		BeneficiaryWalletID: args[0],
		Nickname:            nickname,
	})
	if err != nil {
		return err
	}

	printer.Success("Saved %s", b.BeneficiaryWalletID)
	return nil
}

func runBeneficiaryRemove(cmd *cobra.Command, args []string) error {
	if _, err := requireSession(); err != nil {
		return err
	}
	if err := client.DeleteBeneficiary(cmd.Context(), args[0]); err != nil {
		return err
	}
	printer.Success("Removed %s", args[0])
	return nil
}
