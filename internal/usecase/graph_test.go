package usecase

import (
	"context"
	"testing"
	"time"

	"WalletScope/internal/domain/models"
	"WalletScope/internal/registry"
)

func newTestBuilder(ledger *stubLedger) *GraphBuilder {
	b := NewGraphBuilder(registry.New(nil), ledger, 7*24*time.Hour)
	b.nowFn = func() time.Time { return baseTime }
	return b
}

func TestBuildIncomingGroupsBySender(t *testing.T) {
	b := newTestBuilder(newStubLedger())
	transfers := []models.Transfer{
		mkTransfer("0xt1", addrFunderA, addrTarget, 100, baseTime),
		mkTransfer("0xt2", addrFunderB, addrTarget, 50, baseTime.Add(time.Hour)),
		mkTransfer("0xt3", addrFunderA, addrTarget, 25.5, baseTime.Add(2*time.Hour)),
	}

	sources := b.BuildIncoming(addrTarget, transfers)
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}

	a := sources[0]
	if a.Address != addrFunderA || a.TotalAmount != 125.5 || a.TransferCount != 2 {
		t.Errorf("funder A summary wrong: %+v", a)
	}
	if !a.FirstSeen.Equal(baseTime) {
		t.Errorf("first seen = %v", a.FirstSeen)
	}
	if sources[1].Address != addrFunderB {
		t.Errorf("insertion order broken: %s", sources[1].Address)
	}
}

// Conservation: the sum over all sources equals the sum over all input
// transfers addressed to the target.
func TestBuildIncomingConservation(t *testing.T) {
	b := newTestBuilder(newStubLedger())
	transfers := []models.Transfer{
		mkTransfer("0xt1", addrFunderA, addrTarget, 100.25, baseTime),
		mkTransfer("0xt2", addrFunderB, addrTarget, 0.000001, baseTime),
		mkTransfer("0xt3", addrBinance, addrTarget, 50000, baseTime),
		mkTransfer("0xt4", addrFunderA, addrTarget, 99.75, baseTime),
	}

	var want float64
	for _, tr := range transfers {
		want += tr.Amount
	}

	var got float64
	total := 0
	for _, src := range b.BuildIncoming(addrTarget, transfers) {
		got += src.TotalAmount
		total += src.TransferCount
	}
	if got != want {
		t.Errorf("totals diverged: %v != %v", got, want)
	}
	if total != len(transfers) {
		t.Errorf("transfer count %d, want %d", total, len(transfers))
	}
}

func TestBuildIncomingMarksProtocolSources(t *testing.T) {
	b := newTestBuilder(newStubLedger())
	sources := b.BuildIncoming(addrTarget, []models.Transfer{
		mkTransfer("0xt1", addrCTF, addrTarget, 400, baseTime),
	})

	if len(sources) != 1 {
		t.Fatalf("got %d sources", len(sources))
	}
	if sources[0].SourceType != models.CategoryProtocol {
		t.Errorf("source type = %s, want protocol", sources[0].SourceType)
	}
	if sources[0].Label != "CTF Exchange" {
		t.Errorf("label = %q", sources[0].Label)
	}
}

func TestBuildIncomingBridgeFlag(t *testing.T) {
	b := newTestBuilder(newStubLedger())
	sources := b.BuildIncoming(addrTarget, []models.Transfer{
		mkTransfer("0xt1", addrRelay, addrTarget, 1000, baseTime),
	})

	if !sources[0].IsBridge {
		t.Error("relay source not flagged as bridge")
	}
	if sources[0].Category != models.CategoryBridge {
		t.Errorf("category = %s", sources[0].Category)
	}
}

func TestBuildOutgoingDustFilter(t *testing.T) {
	b := newTestBuilder(newStubLedger())
	transfers := []models.Transfer{
		mkTransfer("0xt1", addrTarget, addrSiblingB, 9.99, baseTime),
		mkTransfer("0xt2", addrTarget, addrSiblingC, 250, baseTime),
		mkTransfer("0xt3", addrTarget, addrCTF, 5000, baseTime), // protocol, excluded
	}

	accounts := b.BuildOutgoing(addrTarget, transfers, 10)
	if len(accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(accounts))
	}
	if accounts[0].Address != addrSiblingC || accounts[0].TotalSent != 250 {
		t.Errorf("unexpected account: %+v", accounts[0])
	}
}

// Dust is filtered per aggregated edge, not per transfer: many small
// transfers that sum above the threshold keep the edge.
func TestBuildOutgoingDustAppliesToEdgeTotal(t *testing.T) {
	b := newTestBuilder(newStubLedger())
	transfers := []models.Transfer{
		mkTransfer("0xt1", addrTarget, addrSiblingB, 6, baseTime),
		mkTransfer("0xt2", addrTarget, addrSiblingB, 6, baseTime.Add(time.Minute)),
	}

	accounts := b.BuildOutgoing(addrTarget, transfers, 10)
	if len(accounts) != 1 {
		t.Fatalf("edge dropped despite total 12 >= 10")
	}
	if accounts[0].TransferCount != 2 {
		t.Errorf("transfer count = %d", accounts[0].TransferCount)
	}
}

func TestResolveFreshnessMarksYoungWallets(t *testing.T) {
	ledger := newStubLedger()
	// Funder A first funded two days ago: fresh. Funder B a year ago: not.
	ledger.incoming[addrFunderA] = []models.Transfer{
		mkTransfer("0xa1", addrBinance, addrFunderA, 500, baseTime.Add(-48*time.Hour)),
	}
	ledger.incoming[addrFunderB] = []models.Transfer{
		mkTransfer("0xb1", addrBinance, addrFunderB, 500, baseTime.Add(-365*24*time.Hour)),
	}

	b := newTestBuilder(ledger)
	sources := b.BuildIncoming(addrTarget, []models.Transfer{
		mkTransfer("0xt1", addrFunderA, addrTarget, 100, baseTime),
		mkTransfer("0xt2", addrFunderB, addrTarget, 100, baseTime),
	})
	b.ResolveFreshness(context.Background(), sources)

	if sources[0].SourceType != models.CategoryFreshWallet {
		t.Errorf("funder A type = %s, want fresh_wallet", sources[0].SourceType)
	}
	if sources[1].SourceType != models.CategoryUnknown {
		t.Errorf("funder B type = %s, want unknown", sources[1].SourceType)
	}
}

func TestResolveFreshnessSkipsCategorizedSources(t *testing.T) {
	ledger := newStubLedger()
	b := newTestBuilder(ledger)
	sources := b.BuildIncoming(addrTarget, []models.Transfer{
		mkTransfer("0xt1", addrBinance, addrTarget, 100, baseTime),
		mkTransfer("0xt2", addrRelay, addrTarget, 100, baseTime),
	})
	b.ResolveFreshness(context.Background(), sources)

	if sources[0].SourceType != models.CategoryExchange {
		t.Errorf("exchange source mutated: %s", sources[0].SourceType)
	}
	if sources[1].SourceType != models.CategoryBridge {
		t.Errorf("bridge source mutated: %s", sources[1].SourceType)
	}
	// No ledger lookups should have happened for categorized sources.
	if len(ledger.calls) != 0 {
		t.Errorf("unexpected ledger calls: %v", ledger.calls)
	}
}
