package api

import (
	"context"
	"net/url"
)

// ListBeneficiaries returns the caller's saved recipients.
func (c *Client) ListBeneficiaries(ctx context.Context) ([]Beneficiary, error) {
	var out []Beneficiary
	if err := c.get(ctx, "/beneficiaries", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddBeneficiary saves a trusted recipient wallet.
func (c *Client) AddBeneficiary(ctx context.Context, req AddBeneficiaryRequest) (Beneficiary, error) {
	var out Beneficiary
	if err := c.post(ctx, "/beneficiaries", req, &out); err != nil {
		return Beneficiary{}, err
	}
	return out, nil
}

// DeleteBeneficiary removes a saved recipient by its record id.
func (c *Client) DeleteBeneficiary(ctx context.Context, id string) error {
	return c.delete(ctx, "/beneficiaries/"+url.PathEscape(id))
}
