package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"TopicBridge/internal/domain"
	"TopicBridge/internal/ports"
)

const eventsTable = "synthesis_events"

const schema = `CREATE TABLE IF NOT EXISTS synthesis_events (
    id          UUID PRIMARY KEY,
    kind        TEXT NOT NULL,
    record_id   TEXT NOT NULL DEFAULT '',
    query       TEXT NOT NULL,
    category    TEXT NOT NULL DEFAULT '',
    error       TEXT NOT NULL DEFAULT '',
    duration_ms BIGINT NOT NULL,
    occurred_at TIMESTAMPTZ NOT NULL
)`

// PostgresJournal appends synthesis lifecycle events to Postgres.
type PostgresJournal struct {
	db    *sql.DB
	psql  sq.StatementBuilderType
	newID func() string
}

var _ ports.EventSink = (*PostgresJournal)(nil)

// NewPostgresJournal wires a sql.DB implementation.
func NewPostgresJournal(db *sql.DB) *PostgresJournal {
	return &PostgresJournal{
		db:    db,
		psql:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		newID: uuid.NewString,
	}
}

// Open connects through the pgx driver, checks the connection and ensures the schema.
func Open(ctx context.Context, dsn string) (*PostgresJournal, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}

	j := NewPostgresJournal(db)
	if err := j.CreateSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// CreateSchema creates the events table when missing.
func (j *PostgresJournal) CreateSchema(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create journal schema: %w", err)
	}
	return nil
}

// Record inserts one event.
func (j *PostgresJournal) Record(ctx context.Context, event domain.SynthesisEvent) error {
	if j == nil || j.db == nil {
		return nil
	}

	query, args, err := j.psql.
		Insert(eventsTable).
		Columns("id", "kind", "record_id", "query", "category", "error", "duration_ms", "occurred_at").
		Values(
			j.newID(),
			string(event.Kind),
			event.RecordID,
			event.Query,
			string(event.Category),
			event.Error,
			event.Duration.Milliseconds(),
			event.OccurredAt.UTC(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := j.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first. An empty kind selects all kinds.
func (j *PostgresJournal) Recent(ctx context.Context, kind domain.SynthesisEventKind, limit uint64) ([]domain.SynthesisEvent, error) {
	builder := j.psql.
		Select("kind", "record_id", "query", "category", "error", "duration_ms", "occurred_at").
		From(eventsTable).
		OrderBy("occurred_at DESC").
		Limit(limit)
	if kind != "" {
		builder = builder.Where(sq.Eq{"kind": string(kind)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []domain.SynthesisEvent
	for rows.Next() {
		var (
			ev         domain.SynthesisEvent
			kindText   string
			category   string
			durationMS int64
		)
		if err := rows.Scan(&kindText, &ev.RecordID, &ev.Query, &category, &ev.Error, &durationMS, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = domain.SynthesisEventKind(kindText)
		ev.Category = domain.Category(category)
		ev.Duration = time.Duration(durationMS) * time.Millisecond
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return events, nil
}

// Close releases the underlying connection pool.
func (j *PostgresJournal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}
