package cli

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	if _, ok := store.Current(); !ok {
		printer.Info("No active session")
		return nil
	}
	if err := store.SignOut(); err != nil {
		return err
	}
	printer.Success("Signed out")
	return nil
}
