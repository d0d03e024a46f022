package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/barqchain/walletctl/internal/api"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in identity",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	sess, err := requireSession()
	if err != nil {
		return err
	}

	printer.Print("Email:  %s", sess.Email)
	printer.Print("Name:   %s", sess.FullName)
	printer.Print("Wallet: %s", printer.Bold(sess.WalletID))

	// Confirm the stored credential is still accepted.
	if _, err := client.Profile(cmd.Context()); err != nil {
		if api.IsUnauthorized(err) {
			printer.Warning("Stored session is no longer accepted; run `walletctl login`")
			return errors.New("session expired")
		}
		printer.Warning("Could not reach the service: %v", err)
	}
	return nil
}
