package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/barqchain/walletctl/internal/api"
	"github.com/barqchain/walletctl/internal/logging"
	"github.com/barqchain/walletctl/internal/money"
	"github.com/barqchain/walletctl/internal/recipient"
)

// Local precondition errors. Each one blocks submission before any transfer
// request is issued.
var (
	// ErrInvalidRecipient indicates the recipient is empty or has not
	// passed validation.
	ErrInvalidRecipient = errors.New("recipient wallet has not been verified")
	// ErrInvalidAmount indicates a non-positive transfer amount.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInsufficientBalance indicates amount plus fee exceeds the balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Gateway is the slice of the remote gateway the composer needs.
type Gateway interface {
	GetBalance(ctx context.Context, walletID string) (api.Balance, error)
	GetChainInfo(ctx context.Context) (api.ChainInfo, error)
	CreateTransaction(ctx context.Context, req api.CreateTransactionRequest) (api.Transaction, error)
}

// RecipientStates reports the validation state of the recipient input.
type RecipientStates interface {
	State() recipient.State
}

// Receipt describes an accepted transfer.
type Receipt struct {
	Hash      string
	Recipient string
	Amount    decimal.Decimal
	Fee       decimal.Decimal
	CreatedAt time.Time
}

// Composer assembles and submits value transfers for one sender wallet.
// Submission is at-most-once from the client's perspective: the composer
// never retries, and every precondition failure happens before the transfer
// request leaves the process.
type Composer struct {
	gateway    Gateway
	recipients RecipientStates
	senderID   string
	refresh    func()
	logger     *slog.Logger
}

// Option customizes composer construction.
type Option func(*Composer)

// WithRefresh registers a callback fired (not awaited) after a successful
// submission so dependent read models can re-fetch the wallet snapshot.
func WithRefresh(fn func()) Option {
	return func(c *Composer) { c.refresh = fn }
}

// WithLogger attaches a logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) { c.logger = l }
}

// NewComposer builds a composer for the given sender wallet.
func NewComposer(gateway Gateway, recipients RecipientStates, senderWalletID string, opts ...Option) *Composer {
	c := &Composer{
		gateway:    gateway,
		recipients: recipients,
		senderID:   senderWalletID,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit validates the transfer locally, checks affordability against a
// freshly fetched fee and balance, and submits it. Remote rejections are
// returned verbatim as *api.RemoteError.
func (c *Composer) Submit(ctx context.Context, recipientID string, amount decimal.Decimal, note string) (Receipt, error) {
	if recipientID == "" || c.recipients.State() != recipient.Valid {
		return Receipt{}, ErrInvalidRecipient
	}
	if !amount.IsPositive() {
		return Receipt{}, ErrInvalidAmount
	}

	// Fee and balance are never assumed stale-safe; both are re-fetched on
	// every submission attempt.
	info, err := c.gateway.GetChainInfo(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("fetch transaction fee: %w", err)
	}
	bal, err := c.gateway.GetBalance(ctx, c.senderID)
	if err != nil {
		return Receipt{}, fmt.Errorf("fetch balance: %w", err)
	}

	required := amount.Add(info.TransactionFee)
	if required.GreaterThan(bal.Balance) {
		return Receipt{}, fmt.Errorf("%w: need %s (%s + %s fee) but have %s",
			ErrInsufficientBalance,
			money.Format(required), money.Format(amount), money.Format(info.TransactionFee),
			money.Format(bal.Balance))
	}

	tx, err := c.gateway.CreateTransaction(ctx, api.CreateTransactionRequest{
		SenderWalletID:   c.senderID,
		ReceiverWalletID: recipientID,
		Amount:           amount,
		Note:             note,
	})
	if err != nil {
		return Receipt{}, err
	}

	c.logger.Info("transfer accepted", "hash", tx.Hash, "amount", money.Format(amount))
	if c.refresh != nil {
		go c.refresh()
	}

	return Receipt{
		Hash:      tx.Hash,
		Recipient: recipientID,
		Amount:    amount,
		Fee:       info.TransactionFee,
		CreatedAt: tx.CreatedAt,
	}, nil
}
