package api

import (
	"context"
	"net/url"
	"strconv"
)

// GetBlocks fetches one explorer page of blocks, newest first.
func (c *Client) GetBlocks(ctx context.Context, limit, offset int) ([]Block, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var out []Block
	if err := c.get(ctx, "/blockchain/blocks", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBlock fetches a single block by index.
func (c *Client) GetBlock(ctx context.Context, index int64) (Block, error) {
	var out Block
	if err := c.get(ctx, "/blockchain/block/"+strconv.FormatInt(index, 10), nil, &out); err != nil {
		return Block{}, err
	}
	return out, nil
}

// Validate asks the service to verify chain integrity. The report is trusted
// as asserted; the client performs no validation of its own.
func (c *Client) Validate(ctx context.Context) (ValidationReport, error) {
	var out ValidationReport
	if err := c.get(ctx, "/blockchain/validate", nil, &out); err != nil {
		return ValidationReport{}, err
	}
	return out, nil
}

// Mine triggers proof-of-work on the service and returns the mined block.
func (c *Client) Mine(ctx context.Context) (MinedBlock, error) {
	var out MinedBlock
	if err := c.post(ctx, "/blockchain/mine", nil, &out); err != nil {
		return MinedBlock{}, err
	}
	return out, nil
}

// GetChainInfo fetches the chain summary, including the current transaction
// fee the composer depends on.
func (c *Client) GetChainInfo(ctx context.Context) (ChainInfo, error) {
	var out ChainInfo
	if err := c.get(ctx, "/blockchain/info", nil, &out); err != nil {
		return ChainInfo{}, err
	}
	return out, nil
}

// GetMiningStats fetches mining statistics used only for display.
func (c *Client) GetMiningStats(ctx context.Context) (MiningStats, error) {
	var out MiningStats
	if err := c.get(ctx, "/blockchain/mining-stats", nil, &out); err != nil {
		return MiningStats{}, err
	}
	return out, nil
}
