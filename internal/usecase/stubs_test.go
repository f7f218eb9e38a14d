package usecase

import (
	"context"
	"sync"
	"time"

	"WalletScope/internal/domain/models"
)

// Shared stub collaborators for the trace engine tests.

type stubLedger struct {
	mu          sync.Mutex
	incoming    map[string][]models.Transfer
	outgoing    map[string][]models.Transfer
	incomingErr map[string]error
	outgoingErr map[string]error
	calls       []string
}

func newStubLedger() *stubLedger {
	return &stubLedger{
		incoming:    make(map[string][]models.Transfer),
		outgoing:    make(map[string][]models.Transfer),
		incomingErr: make(map[string]error),
		outgoingErr: make(map[string]error),
	}
}

func (l *stubLedger) IncomingTransfers(ctx context.Context, address string) ([]models.Transfer, error) {
	l.mu.Lock()
	l.calls = append(l.calls, "in:"+address)
	l.mu.Unlock()
	if err := l.incomingErr[address]; err != nil {
		return nil, err
	}
	return l.incoming[address], nil
}

func (l *stubLedger) OutgoingTransfers(ctx context.Context, address string) ([]models.Transfer, error) {
	l.mu.Lock()
	l.calls = append(l.calls, "out:"+address)
	l.mu.Unlock()
	if err := l.outgoingErr[address]; err != nil {
		return nil, err
	}
	return l.outgoing[address], nil
}

type stubOracle struct {
	mu      sync.Mutex
	members map[string]bool
	errs    map[string]error
	checked []string
}

func newStubOracle(members map[string]bool) *stubOracle {
	if members == nil {
		members = make(map[string]bool)
	}
	return &stubOracle{members: members, errs: make(map[string]error)}
}

func (o *stubOracle) IsMember(ctx context.Context, address string) (bool, error) {
	o.mu.Lock()
	o.checked = append(o.checked, address)
	o.mu.Unlock()
	if err := o.errs[address]; err != nil {
		return false, err
	}
	return o.members[address], nil
}

type stubActivity struct {
	entries   []models.ActivityEntry
	profile   *models.Profile
	positions []models.Position
	portfolio *models.PortfolioSummary
	err       error
}

func (a *stubActivity) Activity(ctx context.Context, address string, limit int) ([]models.ActivityEntry, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.entries, nil
}

func (a *stubActivity) Profile(ctx context.Context, address string) (*models.Profile, error) {
	return a.profile, a.err
}

func (a *stubActivity) Positions(ctx context.Context, address string) ([]models.Position, error) {
	return a.positions, a.err
}

func (a *stubActivity) Portfolio(ctx context.Context, address string) (*models.PortfolioSummary, error) {
	return a.portfolio, a.err
}

type stubDecoder struct {
	origins map[string]*models.OriginInfo
	err     error
}

func (d *stubDecoder) Decode(ctx context.Context, txHash string) (*models.OriginInfo, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.origins[txHash], nil
}

type countingMetrics struct {
	mu           sync.Mutex
	traces       []string
	collabErrors map[string]int
	memberChecks int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{collabErrors: make(map[string]int)}
}

func (m *countingMetrics) RecordTrace(classification string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.traces = append(m.traces, classification)
}

func (m *countingMetrics) RecordPhaseDuration(phase string, seconds float64) {}

func (m *countingMetrics) RecordCollaboratorError(collaborator string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collabErrors[collaborator]++
}

func (m *countingMetrics) RecordMembershipCheck(member bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memberChecks++
}

func mkTransfer(hash, from, to string, amount float64, ts time.Time) models.Transfer {
	return models.Transfer{
		TxHash:      hash,
		From:        from,
		To:          to,
		Amount:      amount,
		TokenSymbol: "USDC",
		Timestamp:   ts,
	}
}

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const (
	addrTarget   = "0x1000000000000000000000000000000000000001"
	addrFunderA  = "0x2000000000000000000000000000000000000002"
	addrFunderB  = "0x3000000000000000000000000000000000000003"
	addrSiblingB = "0x4000000000000000000000000000000000000004"
	addrSiblingC = "0x5000000000000000000000000000000000000005"
	addrBinance  = "0xf977814e90da44bfa03b6295a0616a897441acec"
	addrRelay    = "0x0000000000a39bb272e79075ade125fd351887ac"
	addrCTF      = "0x4bfb41d5b3570defd03c39a9a4d8de6bd8b8982e"
)
