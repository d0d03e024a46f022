package cli

import (
	"bufio"
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/barqchain/walletctl/internal/enroll"
	"github.com/barqchain/walletctl/internal/session"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account through email verification",
	Long: `Walk through the three-step enrollment: request a verification code,
confirm it, then complete the profile. A successful enrollment signs you in
and persists the session.`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	flow := enroll.NewFlow(client, store)
	ctx := cmd.Context()

	for flow.State() != enroll.Done {
		var err error
		switch flow.State() {
		case enroll.AwaitingEmail:
			err = stepEmail(ctx, flow, reader)
		case enroll.AwaitingCode:
			err = stepCode(ctx, flow, reader)
		case enroll.AwaitingProfile:
			err = stepProfile(ctx, flow, reader)
		}
		if err != nil {
			return err
		}
	}

	sess, _ := store.Current()
	printer.Success("Account created; signed in as %s", sess.Email)
	printer.Print("Wallet: %s", printer.Bold(sess.WalletID))
	return nil
}

func stepEmail(ctx context.Context, flow *enroll.Flow, reader *bufio.Reader) error {
	email, err := promptLine(reader, os.Stdout, "Email")
	if err != nil {
		return err
	}
	if err := flow.RequestCode(ctx, email); err != nil {
		// The step did not advance; let the user try again.
		printer.Error("%v", err)
		return nil
	}
	printer.Info("Verification code sent to %s", flow.Email())
	return nil
}

func stepCode(ctx context.Context, flow *enroll.Flow, reader *bufio.Reader) error {
	code, err := promptLine(reader, os.Stdout, "Code (or 'r' to resend, 'e' to change email)")
	if err != nil {
		return err
	}
	switch code {
	case "r":
		if err := flow.RequestCode(ctx, flow.Email()); err != nil {
			printer.Error("%v", err)
			return nil
		}
		printer.Info("Verification code re-sent to %s", flow.Email())
		return nil
	case "e":
		return flow.ChangeEmail()
	}
	if err := flow.VerifyCode(ctx, code); err != nil {
		printer.Error("%v", err)
		return nil
	}
	printer.Success("Email verified")
	return nil
}

func stepProfile(ctx context.Context, flow *enroll.Flow, reader *bufio.Reader) error {
	fullName, err := promptLine(reader, os.Stdout, "Full name")
	if err != nil {
		return err
	}
	nationalID, err := promptLine(reader, os.Stdout, "National ID")
	if err != nil {
		return err
	}
	password, err := promptPassword(os.Stdout, "Password (min 6 characters)")
	if err != nil {
		return err
	}
	confirm, err := promptPassword(os.Stdout, "Confirm password")
	if err != nil {
		return err
	}

	_, err = flow.SubmitProfile(ctx, enroll.Profile{
		FullName:        fullName,
		NationalID:      nationalID,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		var authErr *session.AuthError
		if errors.As(err, &authErr) {
			printer.Error("%v", authErr.Err)
		} else {
			printer.Error("%v", err)
		}
		// The flow stays on this step; re-prompt.
		return nil
	}
	return nil
}
