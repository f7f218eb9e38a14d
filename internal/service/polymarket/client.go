package polymarket

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"WalletScope/internal/domain/models"
	"WalletScope/internal/domain/repository"
	"WalletScope/pkg/cache"
	apphttp "WalletScope/pkg/http"
	"WalletScope/pkg/logger"
)

// Config holds Polymarket API settings.
type Config struct {
	DataAPIURL    string
	GammaAPIURL   string
	MembershipTTL time.Duration
}

// Client reads platform activity through the public data and gamma APIs.
// It implements repository.MembershipOracle and repository.ActivityProvider.
type Client struct {
	http    *apphttp.Client
	cache   cache.Service // optional
	metrics repository.Metrics
	log     *logger.Logger
	cfg     Config
}

func NewClient(httpClient *apphttp.Client, c cache.Service, metrics repository.Metrics, log *logger.Logger, cfg Config) *Client {
	if cfg.DataAPIURL == "" {
		cfg.DataAPIURL = "https://data-api.polymarket.com"
	}
	if cfg.GammaAPIURL == "" {
		cfg.GammaAPIURL = "https://gamma-api.polymarket.com"
	}
	if cfg.MembershipTTL <= 0 {
		cfg.MembershipTTL = 15 * time.Minute
	}
	return &Client{http: httpClient, cache: c, metrics: metrics, log: log, cfg: cfg}
}

// IsMember reports whether the address has ever been active on the platform.
// An address with any activity row counts as a member. Results are cached:
// membership flips at most once, from false to true, so a short TTL is safe.
func (c *Client) IsMember(ctx context.Context, address string) (bool, error) {
	address = strings.ToLower(address)
	key := cache.GenerateKey("member", address)

	if c.cache != nil {
		var member bool
		if err := c.cache.Get(ctx, key, &member); err == nil {
			return member, nil
		}
	}

	entries, err := c.Activity(ctx, address, 1)
	if err != nil {
		return false, err
	}
	member := len(entries) > 0

	if c.metrics != nil {
		c.metrics.RecordMembershipCheck(member)
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, key, member, c.cfg.MembershipTTL); err != nil && c.log != nil {
			c.log.Debug("membership cache store failed",
				logger.String("address", address), logger.Error(err))
		}
	}
	return member, nil
}

type activityRow struct {
	ConditionID string `json:"conditionId"`
	Outcome     string `json:"outcome"`
	Type        string `json:"type"`
	Timestamp   int64  `json:"timestamp"`
}

// Activity returns up to limit recent platform actions for an address.
func (c *Client) Activity(ctx context.Context, address string, limit int) ([]models.ActivityEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []activityRow
	err := c.http.SendAndParse(ctx, &apphttp.RequestOptions{
		Method: apphttp.MethodGet,
		URL:    c.cfg.DataAPIURL + "/activity",
		QueryParams: map[string][]string{
			"user":  {strings.ToLower(address)},
			"limit": {strconv.Itoa(limit)},
		},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("activity: %w", err)
	}

	entries := make([]models.ActivityEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, models.ActivityEntry{
			ConditionID: r.ConditionID,
			Outcome:     r.Outcome,
			Type:        r.Type,
			Timestamp:   time.Unix(r.Timestamp, 0).UTC(),
		})
	}
	return entries, nil
}

type profileRow struct {
	Name      string `json:"name"`
	Pseudonym string `json:"pseudonym"`
	Bio       string `json:"bio"`
	CreatedAt string `json:"createdAt"`
}

// Profile fetches the public profile for an address. A missing profile is
// returned as nil without error.
func (c *Client) Profile(ctx context.Context, address string) (*models.Profile, error) {
	var row profileRow
	err := c.http.SendAndParse(ctx, &apphttp.RequestOptions{
		Method: apphttp.MethodGet,
		URL:    c.cfg.GammaAPIURL + "/public-profile",
		QueryParams: map[string][]string{
			"address": {strings.ToLower(address)},
		},
	}, &row)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	if row.Name == "" && row.Pseudonym == "" {
		return nil, nil
	}
	p := &models.Profile{Name: row.Name, Pseudonym: row.Pseudonym, Bio: row.Bio}
	if ts, err := time.Parse(time.RFC3339, row.CreatedAt); err == nil {
		p.CreatedAt = ts
	}
	return p, nil
}

type positionRow struct {
	Title        string  `json:"title"`
	Outcome      string  `json:"outcome"`
	Size         float64 `json:"size"`
	AvgPrice     float64 `json:"avgPrice"`
	CurPrice     float64 `json:"curPrice"`
	CurrentValue float64 `json:"currentValue"`
	CashPnL      float64 `json:"cashPnl"`
	Redeemable   bool    `json:"redeemable"`
}

// Positions returns the address's open positions.
func (c *Client) Positions(ctx context.Context, address string) ([]models.Position, error) {
	rows, err := c.positions(ctx, address, false)
	if err != nil {
		return nil, err
	}
	positions := make([]models.Position, 0, len(rows))
	for _, r := range rows {
		positions = append(positions, models.Position{
			MarketQuestion: r.Title,
			Outcome:        r.Outcome,
			Size:           r.Size,
			AvgPrice:       r.AvgPrice,
			CurrentPrice:   r.CurPrice,
			Value:          r.CurrentValue,
			UnrealizedPnL:  r.CashPnL,
		})
	}
	return positions, nil
}

// Portfolio aggregates portfolio value, open PnL and realized outcomes.
func (c *Client) Portfolio(ctx context.Context, address string) (*models.PortfolioSummary, error) {
	address = strings.ToLower(address)

	var values []struct {
		Value float64 `json:"value"`
	}
	err := c.http.SendAndParse(ctx, &apphttp.RequestOptions{
		Method: apphttp.MethodGet,
		URL:    c.cfg.DataAPIURL + "/value",
		QueryParams: map[string][]string{
			"user": {address},
		},
	}, &values)
	if err != nil {
		return nil, fmt.Errorf("portfolio value: %w", err)
	}

	summary := &models.PortfolioSummary{}
	if len(values) > 0 {
		summary.TotalValue = values[0].Value
	}

	open, err := c.positions(ctx, address, false)
	if err != nil {
		return nil, err
	}
	summary.PositionsCount = len(open)
	for _, p := range open {
		summary.UnrealizedPnL += p.CashPnL
	}

	closed, err := c.positions(ctx, address, true)
	if err != nil {
		return nil, err
	}
	wins := 0
	for _, p := range closed {
		summary.RealizedPnL += p.CashPnL
		if p.CashPnL > 0 {
			wins++
		}
	}
	summary.TotalTrades = len(open) + len(closed)
	if len(closed) > 0 {
		summary.WinRate = float64(wins) / float64(len(closed)) * 100
	}
	return summary, nil
}

func (c *Client) positions(ctx context.Context, address string, closed bool) ([]positionRow, error) {
	params := map[string][]string{
		"user": {strings.ToLower(address)},
	}
	if closed {
		params["closed"] = []string{"true"}
	}
	var rows []positionRow
	err := c.http.SendAndParse(ctx, &apphttp.RequestOptions{
		Method:      apphttp.MethodGet,
		URL:         c.cfg.DataAPIURL + "/positions",
		QueryParams: params,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	return rows, nil
}
