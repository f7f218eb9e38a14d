package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"WalletScope/internal/domain/models"
	"WalletScope/internal/registry"
)

type tracerFixture struct {
	ledger   *stubLedger
	oracle   *stubOracle
	activity *stubActivity
	decoder  *stubDecoder
	metrics  *countingMetrics
	tracer   *Tracer
}

func newTracerFixture() *tracerFixture {
	f := &tracerFixture{
		ledger:   newStubLedger(),
		oracle:   newStubOracle(nil),
		activity: &stubActivity{},
		decoder:  &stubDecoder{origins: make(map[string]*models.OriginInfo)},
		metrics:  newCountingMetrics(),
	}
	f.tracer = NewTracer(f.ledger, f.oracle, f.activity, f.decoder,
		registry.New(nil), f.metrics, nil, TracerConfig{
			FreshWalletAge:  7 * 24 * time.Hour,
			MembershipDelay: time.Nanosecond,
			BridgeDelay:     time.Nanosecond,
		})
	f.tracer.nowFn = func() time.Time { return baseTime }
	f.tracer.engine.nowFn = f.tracer.nowFn
	f.tracer.builder.nowFn = f.tracer.nowFn
	return f
}

func TestTraceInvalidAddress(t *testing.T) {
	f := newTracerFixture()
	for _, bad := range []string{"", "binance", "0x123", "0x" + "zz00000000000000000000000000000000000000"} {
		_, err := f.tracer.Trace(context.Background(), bad, DefaultOptions())
		if !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("%q: err = %v, want ErrInvalidAddress", bad, err)
		}
	}
}

// A wallet with no history classifies as retail and never errors.
func TestTraceEmptyHistory(t *testing.T) {
	f := newTracerFixture()
	result, err := f.tracer.Trace(context.Background(), addrTarget, DefaultOptions())
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if result.Classification != models.ClassRetail {
		t.Errorf("classification = %s, want retail", result.Classification)
	}
	if result.TotalFunded != 0 || len(result.FundingSources) != 0 {
		t.Errorf("funding not empty: %+v", result)
	}
}

func TestTraceNormalizesAddress(t *testing.T) {
	f := newTracerFixture()
	result, err := f.tracer.Trace(context.Background(), "  0x1000000000000000000000000000000000000001  ", DefaultOptions())
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if result.Address != addrTarget {
		t.Errorf("address = %s", result.Address)
	}
}

func TestTraceAssemblesAllPhases(t *testing.T) {
	f := newTracerFixture()

	// Funding: exchange deposit plus a bridge transfer plus a plain wallet.
	f.ledger.incoming[addrTarget] = []models.Transfer{
		mkTransfer("0xex1", addrBinance, addrTarget, 5000, baseTime.Add(-48*time.Hour)),
		mkTransfer("0xbr1", addrRelay, addrTarget, 3000, baseTime.Add(-24*time.Hour)),
		mkTransfer("0xfa1", addrFunderA, addrTarget, 2000, baseTime.Add(-12*time.Hour)),
	}
	// Funder A was itself funded by an exchange, giving a depth-1 chain.
	f.ledger.incoming[addrFunderA] = []models.Transfer{
		mkTransfer("0xex2", addrBinance, addrFunderA, 2500, baseTime.Add(-72*time.Hour)),
	}
	// Funder A also funded sibling B, a platform member.
	f.ledger.outgoing[addrFunderA] = []models.Transfer{
		mkTransfer("0xfa1", addrFunderA, addrTarget, 2000, baseTime.Add(-12*time.Hour)),
		mkTransfer("0xsb1", addrFunderA, addrSiblingB, 1500, baseTime.Add(-10*time.Hour)),
	}
	// The target funded sibling C, also a member.
	f.ledger.outgoing[addrTarget] = []models.Transfer{
		mkTransfer("0xsc1", addrTarget, addrSiblingC, 800, baseTime.Add(-6*time.Hour)),
	}
	f.oracle.members = map[string]bool{
		addrTarget:   true,
		addrSiblingB: true,
		addrSiblingC: true,
	}
	f.decoder.origins["0xbr1"] = &models.OriginInfo{
		OriginChainID:   42161,
		OriginChainName: "Arbitrum",
		Amount:          3000,
		Status:          "success",
	}
	f.activity.entries = []models.ActivityEntry{
		{ConditionID: "0xc1", Outcome: "Yes", Type: "TRADE", Timestamp: baseTime.Add(-40 * time.Hour)},
		{ConditionID: "0xc1", Outcome: "No", Type: "TRADE", Timestamp: baseTime.Add(-20 * time.Hour)},
	}
	f.activity.portfolio = &models.PortfolioSummary{TotalValue: 9000, TotalTrades: 2}

	result, err := f.tracer.Trace(context.Background(), addrTarget, DefaultOptions())
	if err != nil {
		t.Fatalf("trace: %v", err)
	}

	if !result.IsMember {
		t.Error("target membership lost")
	}
	if result.TotalFunded != 10000 {
		t.Errorf("total funded = %v, want 10000", result.TotalFunded)
	}
	if len(result.FundingSources) != 3 {
		t.Fatalf("funding sources = %d, want 3", len(result.FundingSources))
	}

	// Conservation: source totals add up to the aggregate.
	var sum float64
	for _, src := range result.FundingSources {
		sum += src.TotalAmount
	}
	if sum != result.TotalFunded {
		t.Errorf("source totals %v != aggregate %v", sum, result.TotalFunded)
	}

	// Bridge origin attached to the relay source by tx hash.
	if n := result.DecodedOriginCount(); n != 1 {
		t.Errorf("decoded origins = %d, want 1", n)
	}

	// Funder A's chain bottoms out at the exchange.
	if len(result.OriginChains) != 1 {
		t.Fatalf("origin chains = %d, want 1", len(result.OriginChains))
	}
	if o := result.OriginChains[0].Origin(); o == nil || o.FromCategory != models.CategoryExchange {
		t.Errorf("origin = %+v, want exchange", o)
	}
	if len(result.UltimateOrigins) != 1 || result.UltimateOrigins[0] != addrBinance {
		t.Errorf("ultimate origins = %v", result.UltimateOrigins)
	}

	// Sibling B found through the shared funder.
	if result.SiblingCount() != 1 || result.Siblings[0].Address != addrSiblingB {
		t.Errorf("siblings = %+v", result.Siblings)
	}

	// Sibling C is a funded member.
	if result.FundedMemberCount() != 1 || result.FundedMembers[0].Address != addrSiblingC {
		t.Errorf("funded members = %+v", result.FundedMembers)
	}
	if result.TotalSentToOther != 800 {
		t.Errorf("total sent = %v", result.TotalSentToOther)
	}

	if result.Trading == nil || result.Trading.TotalTrades != 2 || result.Trading.MarketsTraded != 1 {
		t.Errorf("trading = %+v", result.Trading)
	}
	if result.Portfolio == nil || result.Portfolio.TotalValue != 9000 {
		t.Errorf("portfolio = %+v", result.Portfolio)
	}

	if result.Classification == "" || len(result.Signals) == 0 {
		t.Errorf("classification engine did not run: %q %v", result.Classification, result.Signals)
	}
	if len(f.metrics.traces) != 1 || f.metrics.traces[0] != string(result.Classification) {
		t.Errorf("trace metric = %v", f.metrics.traces)
	}
}

// Collaborator failures degrade branches instead of failing the trace.
func TestTraceSurvivesCollaboratorFailures(t *testing.T) {
	f := newTracerFixture()
	f.ledger.incomingErr[addrTarget] = errors.New("etherscan down")
	f.oracle.errs[addrTarget] = errors.New("gamma down")
	f.activity.err = errors.New("data api down")

	result, err := f.tracer.Trace(context.Background(), addrTarget, DefaultOptions())
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if result.Classification != models.ClassRetail {
		t.Errorf("classification = %s", result.Classification)
	}
	if f.metrics.collabErrors["ledger"] == 0 || f.metrics.collabErrors["membership"] == 0 {
		t.Errorf("collaborator errors not recorded: %v", f.metrics.collabErrors)
	}
}

func TestTraceShallowOptionsSkipPhases(t *testing.T) {
	f := newTracerFixture()
	f.ledger.incoming[addrTarget] = []models.Transfer{
		mkTransfer("0xfa1", addrFunderA, addrTarget, 2000, baseTime.Add(-12*time.Hour)),
	}
	f.ledger.outgoing[addrFunderA] = []models.Transfer{
		mkTransfer("0xsb1", addrFunderA, addrSiblingB, 1500, baseTime.Add(-10*time.Hour)),
	}
	f.oracle.members = map[string]bool{addrSiblingB: true}

	opts := models.TraceOptions{Deep: false, TraceOrigin: false, CheckOutbound: false}
	result, err := f.tracer.Trace(context.Background(), addrTarget, opts)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if len(result.Siblings) != 0 || len(result.OriginChains) != 0 || len(result.FundedAccounts) != 0 {
		t.Errorf("skipped phases produced output: %+v", result)
	}
	// Only the target's own membership probe runs.
	for _, call := range f.ledger.calls {
		if call == "out:"+addrFunderA {
			t.Errorf("sibling fan-out ran despite Deep=false: %v", f.ledger.calls)
		}
	}
}

func TestTraceBridgeDecodeCap(t *testing.T) {
	f := newTracerFixture()
	var transfers []models.Transfer
	for i := 0; i < 15; i++ {
		transfers = append(transfers, mkTransfer(
			hashFor(i), addrRelay, addrTarget, 200, baseTime.Add(time.Duration(i)*time.Minute)))
	}
	f.ledger.incoming[addrTarget] = transfers
	for i := 0; i < 15; i++ {
		f.decoder.origins[hashFor(i)] = &models.OriginInfo{OriginChainName: "Base", Amount: 200}
	}

	result, err := f.tracer.Trace(context.Background(), addrTarget, DefaultOptions())
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if n := result.DecodedOriginCount(); n != maxBridgeDecodes {
		t.Errorf("decoded %d origins, want cap of %d", n, maxBridgeDecodes)
	}
}

func hashFor(i int) string {
	return "0xbridge" + string(rune('a'+i))
}

func TestTracePositionsOnlyForMembers(t *testing.T) {
	f := newTracerFixture()
	f.activity.portfolio = &models.PortfolioSummary{TotalValue: 500}
	f.activity.positions = []models.Position{{MarketQuestion: "will it rain"}}

	result, err := f.tracer.Trace(context.Background(), addrTarget, DefaultOptions())
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if result.Portfolio != nil || len(result.Positions) != 0 {
		t.Errorf("portfolio fetched for non-member: %+v", result)
	}

	f2 := newTracerFixture()
	f2.oracle.members = map[string]bool{addrTarget: true}
	f2.activity.portfolio = &models.PortfolioSummary{TotalValue: 500}
	f2.activity.positions = []models.Position{{MarketQuestion: "will it rain"}}
	result, err = f2.tracer.Trace(context.Background(), addrTarget, DefaultOptions())
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if result.Portfolio == nil || len(result.Positions) != 1 {
		t.Errorf("portfolio missing for member: %+v", result)
	}
}
