package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"WalletScope/internal/domain/models"
	"WalletScope/internal/domain/repository"
	"WalletScope/internal/registry"
	"WalletScope/pkg/logger"
	"WalletScope/pkg/util"
)

// ErrInvalidAddress is returned for a malformed target address. It is the
// only failure a Trace call surfaces to the caller; every collaborator
// failure degrades to an empty branch instead.
var ErrInvalidAddress = errors.New("invalid address")

const (
	defaultMaxSiblings    = 20
	defaultMaxOriginHops  = 3
	defaultMinTraceAmount = 100
	defaultMinHopAmount   = 50
	defaultOutboundMin    = 10
	defaultActivityLimit  = 200

	maxBridgeDecodes = 10
	originWorkers    = 3
)

// DefaultOptions returns the full-depth trace configuration.
func DefaultOptions() models.TraceOptions {
	return models.TraceOptions{
		Deep:             true,
		MaxSiblings:      defaultMaxSiblings,
		TraceOrigin:      true,
		MaxOriginHops:    defaultMaxOriginHops,
		MinTraceAmount:   defaultMinTraceAmount,
		MinHopAmount:     defaultMinHopAmount,
		CheckOutbound:    true,
		OutboundMin:      defaultOutboundMin,
		IncludePositions: true,
	}
}

// Tracer orchestrates one trace: funding graph, origin chains, sibling
// detection, outbound analysis and platform behavior run as concurrent
// phases over disjoint sections of the result, joined before the
// classification engine reads it.
type Tracer struct {
	ledger   repository.Ledger
	oracle   repository.MembershipOracle
	activity repository.ActivityProvider
	bridge   repository.BridgeDecoder // optional
	registry *registry.Registry
	metrics  repository.Metrics
	log      *logger.Logger

	builder  *GraphBuilder
	origin   *OriginTracer
	siblings *SiblingDetector
	outbound *OutboundAnalyzer
	engine   *ClassifierEngine

	bridgeWorkers int
	bridgeDelay   time.Duration
	nowFn         func() time.Time
}

// TracerConfig bundles tuning knobs for NewTracer.
type TracerConfig struct {
	FreshWalletAge    time.Duration
	MembershipWorkers int
	MembershipDelay   time.Duration
	BridgeWorkers     int
	BridgeDelay       time.Duration
}

func NewTracer(
	ledger repository.Ledger,
	oracle repository.MembershipOracle,
	activity repository.ActivityProvider,
	bridge repository.BridgeDecoder,
	reg *registry.Registry,
	metrics repository.Metrics,
	log *logger.Logger,
	cfg TracerConfig,
) *Tracer {
	if cfg.MembershipWorkers <= 0 {
		cfg.MembershipWorkers = 5
	}
	if cfg.MembershipDelay <= 0 {
		cfg.MembershipDelay = 100 * time.Millisecond
	}
	if cfg.BridgeWorkers <= 0 {
		cfg.BridgeWorkers = 3
	}
	if cfg.BridgeDelay <= 0 {
		cfg.BridgeDelay = 200 * time.Millisecond
	}

	builder := NewGraphBuilder(reg, ledger, cfg.FreshWalletAge)
	return &Tracer{
		ledger:        ledger,
		oracle:        oracle,
		activity:      activity,
		bridge:        bridge,
		registry:      reg,
		metrics:       metrics,
		log:           log,
		builder:       builder,
		origin:        NewOriginTracer(ledger, reg),
		siblings:      NewSiblingDetector(ledger, oracle, reg, metrics, log, cfg.MembershipWorkers, cfg.MembershipDelay),
		outbound:      NewOutboundAnalyzer(ledger, oracle, builder, metrics, log, cfg.MembershipWorkers, cfg.MembershipDelay),
		engine:        NewClassifierEngine(),
		bridgeWorkers: cfg.BridgeWorkers,
		bridgeDelay:   cfg.BridgeDelay,
		nowFn:         time.Now,
	}
}

// Trace runs the full investigation for one target address.
func (t *Tracer) Trace(ctx context.Context, target string, opts models.TraceOptions) (*models.TraceResult, error) {
	addr := strings.ToLower(strings.TrimSpace(target))
	if !util.IsHexAddress(addr) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, target)
	}
	normalizeOptions(&opts)

	start := t.nowFn()
	result := &models.TraceResult{Address: addr, TracedAt: start}

	// Membership and profile: cheap, needed before the positions phase.
	member, err := t.oracle.IsMember(ctx, addr)
	if err != nil {
		t.collaboratorDown("membership", err)
	} else {
		result.IsMember = member
	}
	if profile, err := t.activity.Profile(ctx, addr); err == nil {
		result.Profile = profile
	}

	incoming, err := t.ledger.IncomingTransfers(ctx, addr)
	if err != nil {
		t.collaboratorDown("ledger", err)
		incoming = nil
	}
	sources := t.builder.BuildIncoming(addr, incoming)
	for _, src := range sources {
		result.TotalFunded += src.TotalAmount
		if result.FirstFundingAt.IsZero() || src.FirstSeen.Before(result.FirstFundingAt) {
			result.FirstFundingAt = src.FirstSeen
		}
	}
	t.builder.ResolveFreshness(ctx, sources)
	result.FundingSources = sources

	// Concurrent phases. Each writes only its own locals; the result is
	// assembled after the join barrier below.
	var (
		chains        []models.FundingChain
		sourceChains  map[int]*models.FundingChain
		bridgeOrigins map[string]*models.OriginInfo
		siblings      []models.SiblingAccount
		funded        []models.FundedAccount
		trading       *models.TradingBehavior
		portfolio     *models.PortfolioSummary
		positions     []models.Position
	)

	g, gctx := errgroup.WithContext(ctx)

	if opts.TraceOrigin {
		g.Go(func() error {
			chains, sourceChains = t.traceOrigins(gctx, sources, opts)
			return nil
		})
	}
	if t.bridge != nil {
		hashes := bridgeTxHashes(sources, maxBridgeDecodes)
		if len(hashes) > 0 {
			g.Go(func() error {
				bridgeOrigins = decodeBridgeOrigins(gctx, t.bridge, hashes, t.bridgeWorkers, t.bridgeDelay, t.metrics)
				return nil
			})
		}
	}
	if opts.Deep {
		g.Go(func() error {
			phase := t.nowFn()
			siblings = t.siblings.FindSiblings(gctx, addr, sources, opts.MaxSiblings)
			t.phaseDone("siblings", phase)
			return nil
		})
	}
	if opts.CheckOutbound {
		g.Go(func() error {
			phase := t.nowFn()
			funded = t.outbound.FindFunded(gctx, addr, opts.OutboundMin, opts.MaxSiblings)
			t.phaseDone("outbound", phase)
			return nil
		})
	}
	g.Go(func() error {
		trading = t.fetchTrading(gctx, addr)
		if opts.IncludePositions && result.IsMember {
			portfolio, positions = t.fetchPortfolio(gctx, addr)
		}
		return nil
	})

	_ = g.Wait() // join barrier: no phase returns an error

	for i := range result.FundingSources {
		if c, ok := sourceChains[i]; ok {
			result.FundingSources[i].Chain = c
		}
		for _, tr := range result.FundingSources[i].Transfers {
			if origin, ok := bridgeOrigins[tr.TxHash]; ok {
				result.FundingSources[i].BridgeOrigins = append(result.FundingSources[i].BridgeOrigins, *origin)
			}
		}
	}
	result.OriginChains = chains
	result.UltimateOrigins = ultimateOrigins(chains)
	result.Siblings = siblings
	result.FundedAccounts = funded
	for _, acct := range funded {
		result.TotalSentToOther += acct.TotalSent
		if acct.IsMember {
			result.FundedMembers = append(result.FundedMembers, acct)
		}
	}
	result.Trading = trading
	result.Portfolio = portfolio
	result.Positions = positions

	result.Signals = t.engine.GenerateSignals(result)
	result.Classification = t.engine.Classify(result)

	if t.metrics != nil {
		t.metrics.RecordTrace(string(result.Classification))
		t.metrics.RecordPhaseDuration("trace", t.nowFn().Sub(start).Seconds())
	}
	if t.log != nil {
		t.log.Info("trace complete",
			logger.String("address", addr),
			logger.String("classification", string(result.Classification)),
			logger.Int("funding_sources", len(result.FundingSources)),
			logger.Int("siblings", result.SiblingCount()),
		)
	}
	return result, nil
}

// traceOrigins runs one independent chain per qualifying funding source.
// Chains land in per-source slots so the output order matches source order
// regardless of goroutine scheduling.
func (t *Tracer) traceOrigins(ctx context.Context, sources []models.FundingSource, opts models.TraceOptions) ([]models.FundingChain, map[int]*models.FundingChain) {
	type slot struct {
		idx   int
		chain models.FundingChain
	}
	slots := make([]*slot, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(originWorkers)
	for i, src := range sources {
		if src.SourceType.Terminal() {
			continue
		}
		if src.TotalAmount < opts.MinTraceAmount {
			continue
		}
		g.Go(func() error {
			chain := t.origin.TraceOrigin(gctx, src.Address, opts.MaxOriginHops, opts.MinHopAmount)
			if chain.Depth() > 0 {
				slots[i] = &slot{idx: i, chain: chain}
			}
			return nil
		})
	}
	_ = g.Wait()

	var chains []models.FundingChain
	bySource := make(map[int]*models.FundingChain)
	for _, s := range slots {
		if s == nil {
			continue
		}
		chains = append(chains, s.chain)
		c := s.chain
		bySource[s.idx] = &c
	}
	return chains, bySource
}

func (t *Tracer) fetchTrading(ctx context.Context, addr string) *models.TradingBehavior {
	entries, err := t.activity.Activity(ctx, addr, defaultActivityLimit)
	if err != nil {
		t.collaboratorDown("activity", err)
		return nil
	}
	if len(entries) == 0 {
		return nil
	}

	markets := make(map[string]struct{})
	outcomes := make(map[string]struct{})
	tb := &models.TradingBehavior{TotalTrades: len(entries)}
	for _, e := range entries {
		if e.ConditionID != "" {
			markets[e.ConditionID] = struct{}{}
		}
		if e.Outcome != "" {
			outcomes[e.Outcome] = struct{}{}
		}
		if e.Timestamp.IsZero() {
			continue
		}
		if tb.FirstTradeAt.IsZero() || e.Timestamp.Before(tb.FirstTradeAt) {
			tb.FirstTradeAt = e.Timestamp
		}
		if e.Timestamp.After(tb.LastTradeAt) {
			tb.LastTradeAt = e.Timestamp
		}
	}
	tb.MarketsTraded = len(markets)
	tb.UniqueOutcomes = len(outcomes)
	return tb
}

func (t *Tracer) fetchPortfolio(ctx context.Context, addr string) (*models.PortfolioSummary, []models.Position) {
	portfolio, err := t.activity.Portfolio(ctx, addr)
	if err != nil {
		t.collaboratorDown("portfolio", err)
		portfolio = nil
	}
	positions, err := t.activity.Positions(ctx, addr)
	if err != nil {
		t.collaboratorDown("positions", err)
		positions = nil
	}
	return portfolio, positions
}

func (t *Tracer) collaboratorDown(name string, err error) {
	if t.metrics != nil {
		t.metrics.RecordCollaboratorError(name)
	}
	if t.log != nil {
		t.log.Warn("collaborator call failed", logger.String("collaborator", name), logger.Error(err))
	}
}

func (t *Tracer) phaseDone(phase string, start time.Time) {
	if t.metrics != nil {
		t.metrics.RecordPhaseDuration(phase, t.nowFn().Sub(start).Seconds())
	}
}

func normalizeOptions(opts *models.TraceOptions) {
	if opts.MaxSiblings <= 0 {
		opts.MaxSiblings = defaultMaxSiblings
	}
	if opts.MaxOriginHops <= 0 {
		opts.MaxOriginHops = defaultMaxOriginHops
	}
	if opts.MinTraceAmount <= 0 {
		opts.MinTraceAmount = defaultMinTraceAmount
	}
	if opts.MinHopAmount <= 0 {
		opts.MinHopAmount = defaultMinHopAmount
	}
	if opts.OutboundMin <= 0 {
		opts.OutboundMin = defaultOutboundMin
	}
}

// bridgeTxHashes collects tx hashes of bridge-funded transfers, capped to
// keep the decode fan-out bounded.
func bridgeTxHashes(sources []models.FundingSource, limit int) []string {
	var hashes []string
	for _, src := range sources {
		if !src.IsBridge {
			continue
		}
		for _, tr := range src.Transfers {
			if len(hashes) >= limit {
				return hashes
			}
			hashes = append(hashes, tr.TxHash)
		}
	}
	return hashes
}

// ultimateOrigins lists the distinct chain origins in discovery order.
func ultimateOrigins(chains []models.FundingChain) []string {
	seen := make(map[string]struct{})
	var origins []string
	for i := range chains {
		o := chains[i].Origin()
		if o == nil {
			continue
		}
		if _, dup := seen[o.From]; dup {
			continue
		}
		seen[o.From] = struct{}{}
		origins = append(origins, o.From)
	}
	return origins
}
