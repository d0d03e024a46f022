package recipient

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/barqchain/walletctl/internal/api"
	"github.com/barqchain/walletctl/internal/logging"
)

// State is the observable validation state of the recipient input.
type State int

const (
	// Unknown means the candidate is below the validation threshold.
	Unknown State = iota
	// Checking means a remote lookup is pending for the current candidate.
	Checking
	// Valid means the most recent lookup resolved the wallet.
	Valid
	// Invalid means the most recent lookup failed; ambiguous transport
	// failures land here too, never on Valid.
	Invalid
)

func (s State) String() string {
	switch s {
	case Checking:
		return "checking"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

const (
	// DefaultMinLength is the candidate length below which no lookup is
	// attempted.
	DefaultMinLength = 10
	// DefaultDebounce is the keystroke quiet period before a lookup fires.
	DefaultDebounce = 400 * time.Millisecond
)

// WalletFinder is the slice of the gateway the validator needs.
type WalletFinder interface {
	GetWallet(ctx context.Context, walletID string) (api.Wallet, error)
}

// Validator asynchronously confirms that a candidate wallet identifier
// exists. Each keystroke supersedes any in-flight lookup: results are keyed
// by a monotonically increasing generation, and a response whose generation
// is stale is dropped without touching the state.
type Validator struct {
	finder   WalletFinder
	debounce time.Duration
	minLen   int
	observer func(State)
	logger   *slog.Logger

	mu     sync.Mutex
	gen    uint64
	state  State
	timer  *time.Timer
	closed bool
}

// Option customizes validator construction.
type Option func(*Validator)

// WithDebounce overrides the keystroke quiet period.
func WithDebounce(d time.Duration) Option {
	return func(v *Validator) { v.debounce = d }
}

// WithMinLength overrides the validation threshold.
func WithMinLength(n int) Option {
	return func(v *Validator) { v.minLen = n }
}

// WithObserver registers a state-change callback. It is invoked with the
// validator lock held and must not call back into the validator.
func WithObserver(fn func(State)) Option {
	return func(v *Validator) { v.observer = fn }
}

// WithLogger attaches a logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// NewValidator builds a validator over the given finder.
func NewValidator(finder WalletFinder, opts ...Option) *Validator {
	v := &Validator{
		finder:   finder,
		debounce: DefaultDebounce,
		minLen:   DefaultMinLength,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Input feeds the current candidate value, typically once per keystroke.
// Below the threshold the state resets to Unknown and any scheduled lookup
// is abandoned; at or above it, a debounced lookup is (re)scheduled.
func (v *Validator) Input(candidate string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}

	v.gen++
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}

	if len(candidate) < v.minLen {
		v.setLocked(Unknown)
		return
	}

	v.setLocked(Checking)
	gen := v.gen
	v.timer = time.AfterFunc(v.debounce, func() {
		v.check(gen, candidate)
	})
}

// State returns the current observable state.
func (v *Validator) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Close abandons any scheduled lookup and freezes the state. In-flight
// lookups are superseded, not aborted; their results are dropped.
func (v *Validator) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

func (v *Validator) check(gen uint64, candidate string) {
	_, err := v.finder.GetWallet(context.Background(), candidate)

	next := Valid
	if err != nil {
		next = Invalid
		if !api.IsNotFound(err) {
			v.logger.Debug("recipient lookup failed", "error", err)
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.gen {
		// Superseded while the lookup was in flight; last call wins.
		return
	}
	v.setLocked(next)
}

func (v *Validator) setLocked(s State) {
	if v.state == s {
		return
	}
	v.state = s
	if v.observer != nil {
		v.observer(s)
	}
}
