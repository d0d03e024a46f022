package api

import (
	"context"
	"net/url"
	"strconv"
)

// GetWallet resolves a wallet by identifier. A 404 is how the service
// reports an unknown wallet; callers use IsNotFound to distinguish it.
func (c *Client) GetWallet(ctx context.Context, walletID string) (Wallet, error) {
	var out Wallet
	if err := c.get(ctx, "/wallet/"+url.PathEscape(walletID), nil, &out); err != nil {
		return Wallet{}, err
	}
	return out, nil
}

// GetBalance fetches the current balance snapshot.
func (c *Client) GetBalance(ctx context.Context, walletID string) (Balance, error) {
	var out Balance
	if err := c.get(ctx, "/wallet/"+url.PathEscape(walletID)+"/balance", nil, &out); err != nil {
		return Balance{}, err
	}
	return out, nil
}

// GetUTXOs lists the wallet's unspent outputs.
func (c *Client) GetUTXOs(ctx context.Context, walletID string) ([]UTXO, error) {
	var out []UTXO
	if err := c.get(ctx, "/wallet/"+url.PathEscape(walletID)+"/utxos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTransactions fetches one confirmed-history page for the wallet.
func (c *Client) GetTransactions(ctx context.Context, walletID string, limit, offset int) ([]Transaction, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var out []Transaction
	if err := c.get(ctx, "/wallet/"+url.PathEscape(walletID)+"/transactions", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
