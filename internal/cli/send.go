package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/barqchain/walletctl/internal/compose"
	"github.com/barqchain/walletctl/internal/money"
	"github.com/barqchain/walletctl/internal/recipient"
)

var sendCmd = &cobra.Command{
	Use:   "send <recipient> <amount>",
	Short: "Transfer funds to another wallet",
	Long: `Compose and submit a value transfer. The recipient can be a wallet ID or
the nickname of a saved beneficiary; it is verified against the service
before anything is submitted. The transfer must be affordable including the
network fee, checked against a fresh balance.

Examples:
  walletctl send wallet-3f2a1b9c8d7e 25.00
  walletctl send mom 10 --note "groceries"`,
	Args: cobra.ExactArgs(2),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().String("note", "", "optional note attached to the transfer")
}

func runSend(cmd *cobra.Command, args []string) error {
	sess, err := requireSession()
	if err != nil {
		return err
	}
	note, _ := cmd.Flags().GetString("note")
	ctx := cmd.Context()

	amount, err := money.ParsePositive(args[1])
	if err != nil {
		return fmt.Errorf("amount %q: %w", args[1], err)
	}

	recipientID, err := resolveRecipient(ctx, args[0])
	if err != nil {
		return err
	}

	validator, state, err := verifyRecipient(ctx, recipientID)
	defer validator.Close()
	if err != nil {
		return err
	}
	if state != recipient.Valid {
		printer.Error("Recipient wallet %s could not be verified", recipientID)
		return errors.New("invalid recipient")
	}

	composer := compose.NewComposer(client, validator, sess.WalletID, compose.WithLogger(logger))
	receipt, err := composer.Submit(ctx, recipientID, amount, note)
	if err != nil {
		if errors.Is(err, compose.ErrInsufficientBalance) {
			printer.Error("%v", err)
			return errors.New("transfer not submitted")
		}
		return err
	}

	printer.Success("Transfer submitted")
	printer.Print("Hash:      %s", printer.Bold(receipt.Hash))
	printer.Print("Recipient: %s", receipt.Recipient)
	printer.Print("Amount:    %s", money.Format(receipt.Amount))
	printer.Print("Fee:       %s", money.Format(receipt.Fee))
	printer.Print("%s", printer.Dim("Pending until the next block is mined"))
	return nil
}

// resolveRecipient maps a saved beneficiary nickname to its wallet ID and
// passes anything else through unchanged.
func resolveRecipient(ctx context.Context, raw string) (string, error) {
	beneficiaries, err := client.ListBeneficiaries(ctx)
	if err != nil {
		logger.Debug("beneficiary lookup failed", "error", err)
		return raw, nil
	}
	for _, b := range beneficiaries {
		if b.Nickname != "" && b.Nickname == raw {
			printer.Info("Using beneficiary %q -> %s", raw, b.BeneficiaryWalletID)
			return b.BeneficiaryWalletID, nil
		}
	}
	return raw, nil
}

// verifyRecipient runs the wallet ID through the debounced validator and
// waits for it to settle.
func verifyRecipient(ctx context.Context, walletID string) (*recipient.Validator, recipient.State, error) {
	states := make(chan recipient.State, 8)
	validator := recipient.NewValidator(client,
		recipient.WithDebounce(time.Millisecond),
		recipient.WithObserver(func(s recipient.State) {
			select {
			case states <- s:
			default:
			}
		}),
		recipient.WithLogger(logger),
	)

	validator.Input(walletID)
	if validator.State() == recipient.Unknown {
		// Too short to ever resolve to a wallet.
		return validator, recipient.Unknown, nil
	}

	timeout := time.NewTimer(15 * time.Second)
	defer timeout.Stop()
	for {
		select {
		case s := <-states:
			if s == recipient.Valid || s == recipient.Invalid {
				return validator, s, nil
			}
		case <-timeout.C:
			return validator, recipient.Unknown, errors.New("recipient verification timed out")
		case <-ctx.Done():
			return validator, recipient.Unknown, ctx.Err()
		}
	}
}
