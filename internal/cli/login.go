package cli

import (
	"bufio"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/barqchain/walletctl/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in and persist the session",
	Long: `Authenticate against the wallet service and store the session locally.
Later invocations reuse the stored session until it expires or you log out.

Examples:
  walletctl login
  walletctl login user@example.com`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	var email string
	var err error
	if len(args) == 1 {
		email = args[0]
	} else {
		email, err = promptLine(reader, os.Stdout, "Email")
		if err != nil {
			return err
		}
	}
	password, err := promptPassword(os.Stdout, "Password")
	if err != nil {
		return err
	}

	sess, err := store.SignIn(cmd.Context(), email, password)
	if err != nil {
		var authErr *session.AuthError
		if errors.As(err, &authErr) {
			printer.Error("%v", authErr.Err)
			return errors.New("sign-in rejected")
		}
		return err
	}

	printer.Success("Signed in as %s", sess.Email)
	printer.Print("Wallet: %s", printer.Bold(sess.WalletID))
	return nil
}
