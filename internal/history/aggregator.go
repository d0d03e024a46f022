package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/barqchain/walletctl/internal/api"
)

// Filter selects one partition of the merged activity view.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterPending  Filter = "pending"
	FilterSent     Filter = "sent"
	FilterReceived Filter = "received"
)

// ParseFilter validates a user-supplied filter name.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterPending, FilterSent, FilterReceived:
		return Filter(s), nil
	default:
		return "", fmt.Errorf("unknown filter %q (want all, pending, sent or received)", s)
	}
}

// Tag classifies a merged entry. Every entry carries exactly one tag:
// unconfirmed activity is pending regardless of direction, confirmed
// activity is sent or received relative to the viewing wallet.
type Tag int

const (
	TagPending Tag = iota
	TagSent
	TagReceived
)

func (t Tag) String() string {
	switch t {
	case TagPending:
		return "pending"
	case TagSent:
		return "sent"
	default:
		return "received"
	}
}

// Entry is one row of the merged activity view.
type Entry struct {
	api.Transaction
	Tag Tag
}

// Pending reports whether the entry is unconfirmed.
func (e Entry) Pending() bool {
	return e.Tag == TagPending
}

// Merge combines the unconfirmed set and one confirmed page into a single
// tagged sequence for walletID. Pending entries come first (the pending set
// is never paginated); confirmed entries keep their fetched order. Entries
// are de-duplicated by hash, pending occurrence winning.
func Merge(pending, confirmed []api.Transaction, walletID string) []Entry {
	merged := make([]Entry, 0, len(pending)+len(confirmed))
	seen := make(map[string]struct{}, len(pending)+len(confirmed))

	for _, tx := range pending {
		if _, dup := seen[tx.Hash]; dup {
			continue
		}
		seen[tx.Hash] = struct{}{}
		merged = append(merged, Entry{Transaction: tx, Tag: TagPending})
	}
	for _, tx := range confirmed {
		if _, dup := seen[tx.Hash]; dup {
			continue
		}
		seen[tx.Hash] = struct{}{}
		merged = append(merged, Entry{Transaction: tx, Tag: direction(tx, walletID)})
	}
	return merged
}

func direction(tx api.Transaction, walletID string) Tag {
	if tx.SenderWalletID == walletID {
		return TagSent
	}
	return TagReceived
}

// Apply restricts a merged sequence to one filter partition. FilterAll
// returns the sequence unchanged; the other filters are mutually exclusive
// and jointly exhaustive over it.
func Apply(entries []Entry, f Filter) []Entry {
	if f == FilterAll {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		switch f {
		case FilterPending:
			if e.Tag == TagPending {
				out = append(out, e)
			}
		case FilterSent:
			if e.Tag == TagSent {
				out = append(out, e)
			}
		case FilterReceived:
			if e.Tag == TagReceived {
				out = append(out, e)
			}
		}
	}
	return out
}

// Involves reports whether the wallet is either side of the transaction.
func Involves(tx api.Transaction, walletID string) bool {
	return tx.SenderWalletID == walletID || tx.ReceiverWalletID == walletID
}

// Gateway is the slice of the remote gateway the aggregator needs.
type Gateway interface {
	GetTransactions(ctx context.Context, walletID string, limit, offset int) ([]api.Transaction, error)
	GetPending(ctx context.Context) ([]api.Transaction, error)
}

// View is one page of merged, filtered activity.
type View struct {
	Items []Entry
	// HasMore is a heuristic: true iff the confirmed fetch returned a full
	// page, not an exact remaining count.
	HasMore bool
	// PendingCount is the size of the wallet's unconfirmed set, independent
	// of the active filter.
	PendingCount int
}

// DefaultPageLimit matches the confirmed-history page size of the service.
const DefaultPageLimit = 20

// Aggregator merges unconfirmed and confirmed activity for display.
type Aggregator struct {
	gateway Gateway
	limit   int
}

// NewAggregator builds an aggregator; limit <= 0 falls back to
// DefaultPageLimit.
func NewAggregator(gateway Gateway, limit int) *Aggregator {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	return &Aggregator{gateway: gateway, limit: limit}
}

// View fetches the requested confirmed page and the full pending set
// concurrently, restricts pending to transactions involving walletID, and
// returns the merged, filtered sequence. Pages start at 1.
func (a *Aggregator) View(ctx context.Context, walletID string, f Filter, page int) (View, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * a.limit

	var (
		wg        sync.WaitGroup
		confirmed []api.Transaction
		pending   []api.Transaction
		confErr   error
		pendErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		confirmed, confErr = a.gateway.GetTransactions(ctx, walletID, a.limit, offset)
	}()
	go func() {
		defer wg.Done()
		pending, pendErr = a.gateway.GetPending(ctx)
	}()
	wg.Wait()

	if confErr != nil {
		return View{}, fmt.Errorf("fetch confirmed page: %w", confErr)
	}
	if pendErr != nil {
		return View{}, fmt.Errorf("fetch pending set: %w", pendErr)
	}

	mine := pending[:0:0]
	for _, tx := range pending {
		if Involves(tx, walletID) {
			mine = append(mine, tx)
		}
	}

	merged := Merge(mine, confirmed, walletID)
	return View{
		Items:        Apply(merged, f),
		HasMore:      len(confirmed) == a.limit,
		PendingCount: len(mine),
	}, nil
}
