package api

import (
	"context"
	"net/url"
)

// CreateTransaction submits a value transfer. The client never retries this
// call; idempotent retry safety belongs to the remote service.
func (c *Client) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (Transaction, error) {
	var out Transaction
	if err := c.post(ctx, "/transaction/create", req, &out); err != nil {
		return Transaction{}, err
	}
	return out, nil
}

// GetPending fetches the full unconfirmed-transaction set.
func (c *Client) GetPending(ctx context.Context) ([]Transaction, error) {
	var out []Transaction
	if err := c.get(ctx, "/transaction/pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTransaction looks up a single transaction by hash.
func (c *Client) GetTransaction(ctx context.Context, hash string) (Transaction, error) {
	var out Transaction
	if err := c.get(ctx, "/transaction/"+url.PathEscape(hash), nil, &out); err != nil {
		return Transaction{}, err
	}
	return out, nil
}
