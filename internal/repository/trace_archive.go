package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"WalletScope/internal/domain/models"
	pkgch "WalletScope/pkg/clickhouse"
	applogger "WalletScope/pkg/logger"
)

// CHTraceArchive implements TraceArchive backed by ClickHouse. Each stored
// row keeps the headline numbers as columns for querying and the full result
// as JSON for replay.
type CHTraceArchive struct {
	client *pkgch.Client
	db     *sql.DB
	l      *applogger.Logger
}

func NewCHTraceArchive(ch *pkgch.Client) *CHTraceArchive {
	return &CHTraceArchive{client: ch, db: ch.DB()}
}

// SetLogger injects a structured logger.
func (a *CHTraceArchive) SetLogger(l *applogger.Logger) { a.l = l }

var schemaStmts = []string{
	`CREATE DATABASE IF NOT EXISTS walletscope`,
	`CREATE TABLE IF NOT EXISTS walletscope.traces (
        traced_at       DateTime,
        address         String,
        classification  LowCardinality(String),
        is_member       UInt8,
        total_funded    Float64,
        total_sent      Float64,
        funding_sources UInt32,
        sibling_count   UInt32,
        funded_members  UInt32,
        bridge_amount   Float64,
        signals         Array(String),
        result_json     String
    ) ENGINE = MergeTree()
    PARTITION BY toYYYYMM(traced_at)
    ORDER BY (address, traced_at)`,
}

// Init ensures the archive schema exists (idempotent).
func (a *CHTraceArchive) Init(ctx context.Context) error {
	return a.client.InitSchema(ctx, schemaStmts)
}

// Store persists one completed trace.
func (a *CHTraceArchive) Store(ctx context.Context, r *models.TraceResult) error {
	start := time.Now()

	blob, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	const q = `
        INSERT INTO walletscope.traces (
            traced_at, address, classification, is_member,
            total_funded, total_sent, funding_sources,
            sibling_count, funded_members, bridge_amount,
            signals, result_json
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	member := uint8(0)
	if r.IsMember {
		member = 1
	}
	_, err = a.db.ExecContext(ctx, q,
		r.TracedAt,
		r.Address,
		string(r.Classification),
		member,
		r.TotalFunded,
		r.TotalSentToOther,
		uint32(len(r.FundingSources)),
		uint32(r.SiblingCount()),
		uint32(r.FundedMemberCount()),
		r.BridgeAmount(),
		r.Signals,
		string(blob),
	)
	if err != nil {
		if a.l != nil {
			a.l.Error("clickhouse trace insert error",
				applogger.String("address", r.Address),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store trace: %w", err)
	}
	if a.l != nil {
		a.l.Debug("clickhouse trace stored",
			applogger.String("address", r.Address),
			applogger.String("classification", string(r.Classification)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

// Health performs a connection check.
func (a *CHTraceArchive) Health(ctx context.Context) error {
	return a.client.Health(ctx)
}

// Close closes the underlying pool.
func (a *CHTraceArchive) Close() error {
	return a.client.Close()
}

// NopArchive is used when archival is disabled.
type NopArchive struct{}

func (NopArchive) Init(context.Context) error                       { return nil }
func (NopArchive) Store(context.Context, *models.TraceResult) error { return nil }
func (NopArchive) Health(context.Context) error                     { return nil }
func (NopArchive) Close() error                                     { return nil }
