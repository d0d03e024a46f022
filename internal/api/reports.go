package api

import (
	"context"
	"net/url"
)

// GetMonthlyReport fetches the per-month activity summary for a wallet.
func (c *Client) GetMonthlyReport(ctx context.Context, walletID string) ([]MonthlyReportEntry, error) {
	var out []MonthlyReportEntry
	if err := c.get(ctx, "/reports/monthly/"+url.PathEscape(walletID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetZakatRecords lists the periodic deductions applied to a wallet.
func (c *Client) GetZakatRecords(ctx context.Context, walletID string) ([]ZakatRecord, error) {
	q := url.Values{}
	q.Set("wallet_id", walletID)

	var out []ZakatRecord
	if err := c.get(ctx, "/zakat/records", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
