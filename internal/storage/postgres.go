package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JeffCortez23/BabySleepTracker/internal"
	"github.com/JeffCortez23/BabySleepTracker/internal/session"
)

// PostgresStorage persists to Postgres through pgxpool. Watch subscribers
// are notified through the same in-process hubs as FileStorage: after each
// successful write the store re-queries and publishes a fresh snapshot.
// The deployment is single-writer, so local notification is sufficient.
type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger

	historyHub *hub[[]internal.SleepSession]
	activeHub  *hub[*internal.SleepSession]
	diaperHub  *hub[[]internal.DiaperChange]
}

const schema = `
CREATE TABLE IF NOT EXISTS sleep_sessions (
	id            TEXT PRIMARY KEY,
	start_time    TIMESTAMPTZ NOT NULL,
	end_time      TIMESTAMPTZ,
	type          TEXT NOT NULL,
	status        TEXT NOT NULL,
	interruptions JSONB NOT NULL DEFAULT '[]'::jsonb,
	note          TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS diaper_changes (
	id        TEXT PRIMARY KEY,
	ts        TIMESTAMPTZ NOT NULL,
	type      TEXT NOT NULL,
	notes     TEXT NOT NULL DEFAULT ''
);`

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.Errorf("failed to ensure schema: %v", err)
		pool.Close()
		return nil, err
	}
	return &PostgresStorage{
		pool:       pool,
		logger:     logger,
		historyHub: newHub[[]internal.SleepSession](),
		activeHub:  newHub[*internal.SleepSession](),
		diaperHub:  newHub[[]internal.DiaperChange](),
	}, nil
}

func (p *PostgresStorage) Close() error {
	p.historyHub.close()
	p.activeHub.close()
	p.diaperHub.close()
	p.pool.Close()
	return nil
}

func (p *PostgresStorage) notifySessions(ctx context.Context) {
	history, err := p.ListSessions(ctx)
	if err != nil {
		p.logger.Errorf("failed to refresh session snapshot: %v", err)
		return
	}
	p.historyHub.publish(history)
	if i := session.FindActive(history); i >= 0 {
		active := history[i]
		p.activeHub.publish(&active)
	} else {
		p.activeHub.publish(nil)
	}
}

func (p *PostgresStorage) notifyDiapers(ctx context.Context) {
	changes, err := p.ListDiaperChanges(ctx)
	if err != nil {
		p.logger.Errorf("failed to refresh diaper snapshot: %v", err)
		return
	}
	p.diaperHub.publish(changes)
}

// --- SessionRepository ---

func (p *PostgresStorage) CreateSession(ctx context.Context, s *internal.SleepSession) (*internal.SleepSession, error) {
	stored := *s
	stored.ID = uuid.NewString()
	interruptions, err := json.Marshal(stored.Interruptions)
	if err != nil {
		return nil, err
	}
	_, err = p.pool.Exec(ctx, `INSERT INTO sleep_sessions (id, start_time, end_time, type, status, interruptions, note, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		stored.ID, stored.StartTime, stored.EndTime, stored.Type, stored.Status, interruptions, stored.Note, stored.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert session: %v", err)
		return nil, fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	p.notifySessions(ctx)
	return &stored, nil
}

func (p *PostgresStorage) UpdateSession(ctx context.Context, s *internal.SleepSession) error {
	interruptions, err := json.Marshal(s.Interruptions)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, `UPDATE sleep_sessions SET start_time = $2, end_time = $3, type = $4, status = $5, interruptions = $6, note = $7 WHERE id = $1`,
		s.ID, s.StartTime, s.EndTime, s.Type, s.Status, interruptions, s.Note)
	if err != nil {
		p.logger.Errorf("failed to update session: %v", err)
		return fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", s.ID, internal.ErrNotFound)
	}
	p.notifySessions(ctx)
	return nil
}

func (p *PostgresStorage) DeleteSession(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM sleep_sessions WHERE id = $1`, id)
	if err != nil {
		p.logger.Errorf("failed to delete session: %v", err)
		return fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", id, internal.ErrNotFound)
	}
	p.notifySessions(ctx)
	return nil
}

func (p *PostgresStorage) GetSession(ctx context.Context, id string) (*internal.SleepSession, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, start_time, end_time, type, status, interruptions, note, created_at FROM sleep_sessions WHERE id = $1`, id)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", id, internal.ErrNotFound)
		}
		p.logger.Errorf("failed to fetch session: %v", err)
		return nil, err
	}
	return s, nil
}

func (p *PostgresStorage) ListSessions(ctx context.Context) ([]internal.SleepSession, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, start_time, end_time, type, status, interruptions, note, created_at FROM sleep_sessions ORDER BY start_time DESC`)
	if err != nil {
		p.logger.Errorf("failed to query sessions: %v", err)
		return nil, fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	sessions := []internal.SleepSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			p.logger.Errorf("failed to scan session: %v", err)
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func scanSession(row pgx.Row) (*internal.SleepSession, error) {
	var s internal.SleepSession
	var interruptions []byte
	if err := row.Scan(&s.ID, &s.StartTime, &s.EndTime, &s.Type, &s.Status, &interruptions, &s.Note, &s.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(interruptions, &s.Interruptions); err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *PostgresStorage) WatchHistory(ctx context.Context) (<-chan []internal.SleepSession, error) {
	initial, err := p.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	return p.historyHub.subscribe(ctx, initial), nil
}

func (p *PostgresStorage) WatchActiveSession(ctx context.Context) (<-chan *internal.SleepSession, error) {
	history, err := p.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	var initial *internal.SleepSession
	if i := session.FindActive(history); i >= 0 {
		active := history[i]
		initial = &active
	}
	return p.activeHub.subscribe(ctx, initial), nil
}

// --- DiaperRepository ---

func (p *PostgresStorage) AddDiaperChange(ctx context.Context, c *internal.DiaperChange) (*internal.DiaperChange, error) {
	stored := *c
	stored.ID = uuid.NewString()
	_, err := p.pool.Exec(ctx, `INSERT INTO diaper_changes (id, ts, type, notes) VALUES ($1, $2, $3, $4)`,
		stored.ID, stored.Timestamp, stored.Type, stored.Notes)
	if err != nil {
		p.logger.Errorf("failed to insert diaper change: %v", err)
		return nil, fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	p.notifyDiapers(ctx)
	return &stored, nil
}

func (p *PostgresStorage) DeleteDiaperChange(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM diaper_changes WHERE id = $1`, id)
	if err != nil {
		p.logger.Errorf("failed to delete diaper change: %v", err)
		return fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("diaper change %s: %w", id, internal.ErrNotFound)
	}
	p.notifyDiapers(ctx)
	return nil
}

func (p *PostgresStorage) ListDiaperChanges(ctx context.Context) ([]internal.DiaperChange, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, ts, type, notes FROM diaper_changes ORDER BY ts DESC`)
	if err != nil {
		p.logger.Errorf("failed to query diaper changes: %v", err)
		return nil, fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	changes := []internal.DiaperChange{}
	for rows.Next() {
		var c internal.DiaperChange
		if err := rows.Scan(&c.ID, &c.Timestamp, &c.Type, &c.Notes); err != nil {
			p.logger.Errorf("failed to scan diaper change: %v", err)
			return nil, err
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

func (p *PostgresStorage) WatchDiaperChanges(ctx context.Context) (<-chan []internal.DiaperChange, error) {
	initial, err := p.ListDiaperChanges(ctx)
	if err != nil {
		return nil, err
	}
	return p.diaperHub.subscribe(ctx, initial), nil
}

// --- Compile-time assertions ---
var _ SessionRepository = (*PostgresStorage)(nil)
var _ DiaperRepository = (*PostgresStorage)(nil)
