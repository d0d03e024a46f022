package history

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/barqchain/walletctl/internal/api"
)

const me = "wallet-0001234567"

func tx(hash, sender, receiver string) api.Transaction {
	return api.Transaction{Hash: hash, SenderWalletID: sender, ReceiverWalletID: receiver}
}

func TestMergeOrdersPendingFirst(t *testing.T) {
	pending := []api.Transaction{tx("p1", me, "other"), tx("p2", "other", me)}
	confirmed := []api.Transaction{tx("c1", me, "other"), tx("c2", "other", me)}

	merged := Merge(pending, confirmed, me)
	if len(merged) != 4 {
		t.Fatalf("unexpected length: %d", len(merged))
	}
	for i, want := range []string{"p1", "p2", "c1", "c2"} {
		if merged[i].Hash != want {
			t.Fatalf("position %d: got %s want %s", i, merged[i].Hash, want)
		}
	}
}

func TestMergeTagsExactlyOnce(t *testing.T) {
	pending := []api.Transaction{tx("p1", me, "other")}
	confirmed := []api.Transaction{tx("c1", me, "other"), tx("c2", "other", me)}

	merged := Merge(pending, confirmed, me)
	counts := map[Tag]int{}
	for _, e := range merged {
		counts[e.Tag]++
	}
	if counts[TagPending] != 1 || counts[TagSent] != 1 || counts[TagReceived] != 1 {
		t.Fatalf("unexpected partition: %v", counts)
	}
	// A pending outgoing transaction is pending, never sent.
	if merged[0].Tag != TagPending || !merged[0].Pending() {
		t.Fatalf("pending entry mistagged: %v", merged[0].Tag)
	}
}

func TestMergeDeduplicatesByHash(t *testing.T) {
	// The same transfer observed both unconfirmed and freshly confirmed.
	pending := []api.Transaction{tx("dup", me, "other")}
	confirmed := []api.Transaction{tx("dup", me, "other"), tx("c1", "other", me)}

	merged := Merge(pending, confirmed, me)
	if len(merged) != 2 {
		t.Fatalf("expected de-duplication, got %d entries", len(merged))
	}
	if merged[0].Hash != "dup" || merged[0].Tag != TagPending {
		t.Fatalf("pending occurrence must win: %+v", merged[0])
	}
}

func TestFilterPartitionsSumToTotal(t *testing.T) {
	pending := []api.Transaction{tx("p1", me, "a"), tx("p2", "b", me)}
	confirmed := []api.Transaction{tx("c1", me, "a"), tx("c2", "b", me), tx("c3", "c", me)}
	merged := Merge(pending, confirmed, me)

	all := Apply(merged, FilterAll)
	sub := len(Apply(merged, FilterPending)) + len(Apply(merged, FilterSent)) + len(Apply(merged, FilterReceived))
	if sub != len(all) {
		t.Fatalf("partitions must sum to total: %d != %d", sub, len(all))
	}
	if len(all) != 5 {
		t.Fatalf("unexpected total: %d", len(all))
	}
}

func TestParseFilter(t *testing.T) {
	for _, s := range []string{"all", "pending", "sent", "received"} {
		if _, err := ParseFilter(s); err != nil {
			t.Fatalf("%s should parse: %v", s, err)
		}
	}
	if _, err := ParseFilter("incoming"); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}

type fakeHistoryGateway struct {
	confirmed  []api.Transaction
	pending    []api.Transaction
	confErr    error
	pendErr    error
	lastLimit  int
	lastOffset int
}

func (f *fakeHistoryGateway) GetTransactions(_ context.Context, _ string, limit, offset int) ([]api.Transaction, error) {
	f.lastLimit, f.lastOffset = limit, offset
	return f.confirmed, f.confErr
}

func (f *fakeHistoryGateway) GetPending(_ context.Context) ([]api.Transaction, error) {
	return f.pending, f.pendErr
}

func fullPage(n int) []api.Transaction {
	out := make([]api.Transaction, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, tx(fmt.Sprintf("c%d", i), me, "other"))
	}
	return out
}

func TestViewHasMoreHeuristic(t *testing.T) {
	gw := &fakeHistoryGateway{confirmed: fullPage(20)}
	agg := NewAggregator(gw, 20)

	v, err := agg.View(context.Background(), me, FilterAll, 1)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if !v.HasMore {
		t.Fatal("a full page of 20 must report hasMore")
	}

	gw.confirmed = fullPage(7)
	v, err = agg.View(context.Background(), me, FilterAll, 1)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if v.HasMore {
		t.Fatal("a short page of 7 must not report hasMore")
	}
}

func TestViewComputesOffsetFromPage(t *testing.T) {
	gw := &fakeHistoryGateway{}
	agg := NewAggregator(gw, 20)

	if _, err := agg.View(context.Background(), me, FilterAll, 3); err != nil {
		t.Fatalf("view: %v", err)
	}
	if gw.lastLimit != 20 || gw.lastOffset != 40 {
		t.Fatalf("unexpected pagination: limit=%d offset=%d", gw.lastLimit, gw.lastOffset)
	}
}

func TestViewRestrictsPendingToWallet(t *testing.T) {
	gw := &fakeHistoryGateway{
		pending: []api.Transaction{
			tx("p1", me, "other"),
			tx("p2", "other", me),
			tx("p3", "other", "unrelated"),
		},
	}
	agg := NewAggregator(gw, 20)

	v, err := agg.View(context.Background(), me, FilterAll, 1)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if v.PendingCount != 2 || len(v.Items) != 2 {
		t.Fatalf("foreign pending entries must be excluded: %+v", v)
	}
}

func TestViewAppliesFilter(t *testing.T) {
	gw := &fakeHistoryGateway{
		pending:   []api.Transaction{tx("p1", me, "a")},
		confirmed: []api.Transaction{tx("c1", me, "a"), tx("c2", "b", me)},
	}
	agg := NewAggregator(gw, 20)

	v, err := agg.View(context.Background(), me, FilterSent, 1)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(v.Items) != 1 || v.Items[0].Hash != "c1" {
		t.Fatalf("unexpected sent partition: %+v", v.Items)
	}
	if v.PendingCount != 1 {
		t.Fatalf("pending count must ignore the filter: %d", v.PendingCount)
	}
}

func TestViewPropagatesFetchErrors(t *testing.T) {
	gw := &fakeHistoryGateway{confErr: errors.New("boom")}
	agg := NewAggregator(gw, 20)
	if _, err := agg.View(context.Background(), me, FilterAll, 1); err == nil {
		t.Fatal("confirmed fetch error must propagate")
	}

	gw = &fakeHistoryGateway{pendErr: errors.New("boom")}
	agg = NewAggregator(gw, 20)
	if _, err := agg.View(context.Background(), me, FilterAll, 1); err == nil {
		t.Fatal("pending fetch error must propagate")
	}
}
