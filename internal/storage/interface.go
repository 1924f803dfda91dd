package storage

import (
	"context"

	"github.com/JeffCortez23/BabySleepTracker/internal"
)

// SessionRepository is the storage contract for sleep sessions. The Watch
// methods deliver a snapshot immediately on subscription and a fresh,
// fully-replacing snapshot after every change; the channel closes when ctx
// is cancelled or the store shuts down.
type SessionRepository interface {
	// CreateSession assigns an id and persists the session as given.
	CreateSession(ctx context.Context, s *internal.SleepSession) (*internal.SleepSession, error)
	UpdateSession(ctx context.Context, s *internal.SleepSession) error
	DeleteSession(ctx context.Context, id string) error
	GetSession(ctx context.Context, id string) (*internal.SleepSession, error)
	// ListSessions returns the full history, descending by start time.
	ListSessions(ctx context.Context) ([]internal.SleepSession, error)
	WatchActiveSession(ctx context.Context) (<-chan *internal.SleepSession, error)
	WatchHistory(ctx context.Context) (<-chan []internal.SleepSession, error)
}

type DiaperRepository interface {
	AddDiaperChange(ctx context.Context, c *internal.DiaperChange) (*internal.DiaperChange, error)
	DeleteDiaperChange(ctx context.Context, id string) error
	// ListDiaperChanges returns all changes, descending by timestamp.
	ListDiaperChanges(ctx context.Context) ([]internal.DiaperChange, error)
	WatchDiaperChanges(ctx context.Context) (<-chan []internal.DiaperChange, error)
}
