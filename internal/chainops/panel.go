package chainops

import (
	"context"
	"log/slog"

	"github.com/barqchain/walletctl/internal/api"
	"github.com/barqchain/walletctl/internal/logging"
)

// Gateway is the slice of the remote gateway the action panel needs.
type Gateway interface {
	Mine(ctx context.Context) (api.MinedBlock, error)
	Validate(ctx context.Context) (api.ValidationReport, error)
	GetChainInfo(ctx context.Context) (api.ChainInfo, error)
	GetMiningStats(ctx context.Context) (api.MiningStats, error)
}

// Panel wraps the fire-and-poll chain actions. Mutating triggers (mine,
// validate) fail loudly and are never retried; the display-only reads
// degrade to zero values so a dependent screen still renders.
type Panel struct {
	gateway Gateway
	logger  *slog.Logger
}

// NewPanel builds an action panel. logger may be nil.
func NewPanel(gateway Gateway, logger *slog.Logger) *Panel {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Panel{gateway: gateway, logger: logger}
}

// Mine triggers proof-of-work on the service and returns the mined block.
func (p *Panel) Mine(ctx context.Context) (api.MinedBlock, error) {
	return p.gateway.Mine(ctx)
}

// Validate asks the service to verify chain integrity. The report's
// is_valid flag is trusted as asserted.
func (p *Panel) Validate(ctx context.Context) (api.ValidationReport, error) {
	return p.gateway.Validate(ctx)
}

// Info returns the chain summary, zero-valued when the fetch fails.
func (p *Panel) Info(ctx context.Context) api.ChainInfo {
	info, err := p.gateway.GetChainInfo(ctx)
	if err != nil {
		p.logger.Debug("chain info unavailable", "error", err)
		return api.ChainInfo{}
	}
	return info
}

// MiningStats returns mining statistics, zero-valued when the fetch fails.
func (p *Panel) MiningStats(ctx context.Context) api.MiningStats {
	stats, err := p.gateway.GetMiningStats(ctx)
	if err != nil {
		p.logger.Debug("mining stats unavailable", "error", err)
		return api.MiningStats{}
	}
	return stats
}
