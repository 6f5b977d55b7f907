// Package store adapts this module's event log onto Message DB: a
// Postgres-resident append-only message table plus two stored functions,
// write_message and get_stream_messages, that give per-stream optimistic
// concurrency and ordered reads (spec §2, §4.1).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reactor-labs/reactor/pkg/eventlog"
)

// UnsetExpectedVersion means "the stream must not yet exist" — the sentinel
// the engine passes when appending the first event of a new session (spec
// §4.1's `expected_version = -1`).
const UnsetExpectedVersion int64 = -1

// Store is the Postgres-backed Message DB adapter. A Store is safe for
// concurrent use; all state lives in the pool and the database.
type Store struct {
	pool *pgxpool.Pool
}

// Open builds a connection pool against cfg, applies embedded migrations,
// and returns a ready-to-use Store.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if err := runMigrations(cfg); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("store: parse pool config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("store: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// NewEvent is one event awaiting assignment of a per-stream position; the
// caller supplies everything except Position/GlobalPosition/Time, which the
// store assigns.
type NewEvent struct {
	ID       string
	Kind     string
	Data     map[string]any
	Metadata map[string]any
}

// Append writes events to stream in order under a single optimistic
// concurrency check against expectedVersion (spec §4.1's append
// algorithm). All events in the batch land at consecutive positions
// starting at expectedVersion+1; this method is not a drop-in replacement
// for per-event expected_version -- callers needing per-event granularity
// should call Append once per event.
func (s *Store) Append(ctx context.Context, stream string, expectedVersion int64, events []NewEvent) (int64, error) {
	if len(events) == 0 {
		return expectedVersion, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, &StoreError{Op: "append: begin tx", Err: err}
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	version := expectedVersion
	for _, e := range events {
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		data, err := json.Marshal(nonNilMap(e.Data))
		if err != nil {
			return 0, &StoreError{Op: "append: marshal data", Err: err}
		}
		metadata, err := json.Marshal(nonNilMap(e.Metadata))
		if err != nil {
			return 0, &StoreError{Op: "append: marshal metadata", Err: err}
		}

		row := tx.QueryRow(ctx,
			`SELECT write_message($1, $2, $3, $4, $5, $6)`,
			id, stream, e.Kind, data, metadata, version,
		)
		var newVersion int64
		if err := row.Scan(&newVersion); err != nil {
			if isConcurrencyConflict(err) {
				return 0, &ConcurrencyConflict{Stream: stream, ExpectedVersion: version}
			}
			return 0, &StoreError{Op: "append: write_message", Err: err}
		}
		version = newVersion
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, &StoreError{Op: "append: commit", Err: err}
	}
	return version, nil
}

// Read returns every event in stream from fromPosition onward, in position
// order (spec §4.1).
func (s *Store) Read(ctx context.Context, stream string, fromPosition int64) ([]eventlog.Envelope, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT global_position, id, stream_name, position, kind, data, metadata, occurred_at
		 FROM get_stream_messages($1, $2)`,
		stream, fromPosition,
	)
	if err != nil {
		return nil, &StoreError{Op: "read: get_stream_messages", Err: err}
	}
	defer rows.Close()

	var envelopes []eventlog.Envelope
	for rows.Next() {
		var (
			e            eventlog.Envelope
			data, meta   []byte
			occurredAt   time.Time
			globalPos    int64
			pos          int64
			id, sn, kind string
		)
		if err := rows.Scan(&globalPos, &id, &sn, &pos, &kind, &data, &meta, &occurredAt); err != nil {
			return nil, &StoreError{Op: "read: scan", Err: err}
		}
		if err := json.Unmarshal(data, &e.Data); err != nil {
			return nil, &StoreError{Op: "read: decode data", Err: err}
		}
		if err := json.Unmarshal(meta, &e.Metadata); err != nil {
			return nil, &StoreError{Op: "read: decode metadata", Err: err}
		}
		e.ID, e.Stream, e.Kind = id, sn, kind
		e.Position, e.GlobalPosition, e.Time = pos, globalPos, occurredAt
		envelopes = append(envelopes, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "read: iterate", Err: err}
	}
	return envelopes, nil
}

// ListStreams returns up to limit distinct stream names whose category
// prefix matches categoryPrefix (e.g. "agent:"), most recently active
// first. This backs the CLI's `list` subcommand (spec §6) — Message DB has
// no native "list streams" primitive, so this scans the message table's
// distinct stream names directly rather than going through
// get_stream_messages.
func (s *Store) ListStreams(ctx context.Context, categoryPrefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT stream_name
		FROM (
			SELECT stream_name, MAX(occurred_at) AS last_activity
			FROM messages
			WHERE stream_name LIKE $1
			GROUP BY stream_name
		) recent
		ORDER BY last_activity DESC
		LIMIT $2`,
		categoryPrefix+"%", limit,
	)
	if err != nil {
		return nil, &StoreError{Op: "list streams", Err: err}
	}
	defer rows.Close()

	var streams []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &StoreError{Op: "list streams: scan", Err: err}
		}
		streams = append(streams, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "list streams: iterate", Err: err}
	}
	return streams, nil
}

// HealthCheck pings the pool and reports whether the database answered
// (spec §9's supplemented operational surface).
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return &StoreError{Op: "health check", Err: err}
	}
	return nil
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// isConcurrencyConflict recognizes write_message's RAISE EXCEPTION for a
// version mismatch, distinguishing it from any other database error.
func isConcurrencyConflict(err error) bool {
	if err == nil {
		return false
	}
	var pgErr interface{ Error() string }
	if errors.As(err, &pgErr) {
		return strings.Contains(pgErr.Error(), "Wrong expected version")
	}
	return false
}
