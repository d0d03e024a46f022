package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/barqchain/walletctl/internal/api"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the account profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the account profile",
	Long: `Change the account's display name or email address. Only the fields you
pass are touched.

Examples:
  walletctl profile update --name "Amina Khan"
  walletctl profile update --email amina@example.com`,
	Args: cobra.NoArgs,
	RunE: runProfileUpdate,
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileUpdateCmd)

	profileUpdateCmd.Flags().String("name", "", "new display name")
	profileUpdateCmd.Flags().String("email", "", "new email address")
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	if _, err := requireSession(); err != nil {
		return err
	}

	user, err := client.Profile(cmd.Context())
	if err != nil {
		return err
	}

	printer.Print("Email:  %s", user.Email)
	printer.Print("Name:   %s", user.FullName)
	printer.Print("Wallet: %s", printer.Bold(user.WalletID))
	return nil
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	if _, err := requireSession(); err != nil {
		return err
	}

	var req api.UpdateProfileRequest
	if cmd.Flags().Changed("name") {
		name, _ := cmd.Flags().GetString("name")
		req.FullName = &name
	}
	if cmd.Flags().Changed("email") {
		email, _ := cmd.Flags().GetString("email")
		req.Email = &email
	}
	if req.FullName == nil && req.Email == nil {
		return errors.New("nothing to update: pass --name or --email")
	}

	user, err := client.UpdateProfile(cmd.Context(), req)
	if err != nil {
		return err
	}

	printer.Success("Profile updated")
	printer.Print("Email: %s", user.Email)
	printer.Print("Name:  %s", user.FullName)
	printer.Print("%s", printer.Dim("The stored session refreshes on your next login"))
	return nil
}
