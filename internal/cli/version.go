package cli

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the walletctl version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printer.Print("walletctl %s", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
