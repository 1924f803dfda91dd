// Package service holds the stateless actions between the API layer and
// storage. Each action re-reads the history, runs the pure state machine
// and persists the result; concurrent callers are resolved by query-time
// lookup, not by a held lock.
package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/JeffCortez23/BabySleepTracker/internal"
	"github.com/JeffCortez23/BabySleepTracker/internal/session"
	"github.com/JeffCortez23/BabySleepTracker/internal/storage"
)

var validate = validator.New()

// StartSleep opens a new session. It rejects the call when another session
// is still open rather than force-finishing it.
func StartSleep(ctx context.Context, repo storage.SessionRepository, t internal.SleepType) (*internal.SleepSession, error) {
	history, err := repo.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	if session.FindActive(history) >= 0 {
		return nil, internal.ErrSessionActive
	}
	return repo.CreateSession(ctx, session.Start(t, time.Now()))
}

// WakeUp records an interruption on the active session. With no active
// session, or one already AWAKE, it is a no-op returning (nil, nil).
func WakeUp(ctx context.Context, repo storage.SessionRepository) (*internal.SleepSession, error) {
	return mutateActive(ctx, repo, session.RecordWakeUp)
}

// BackToSleep closes the open interruption on the active session. No-op
// when the session is already SLEEPING or none is active.
func BackToSleep(ctx context.Context, repo storage.SessionRepository) (*internal.SleepSession, error) {
	return mutateActive(ctx, repo, session.RecordBackToSleep)
}

// FinishSleep ends the active session, whichever of SLEEPING or AWAKE it is
// in. No-op when no session is open.
func FinishSleep(ctx context.Context, repo storage.SessionRepository) (*internal.SleepSession, error) {
	return mutateActive(ctx, repo, session.Finish)
}

func mutateActive(ctx context.Context, repo storage.SessionRepository, apply func(*internal.SleepSession, time.Time) bool) (*internal.SleepSession, error) {
	history, err := repo.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	idx := session.FindActive(history)
	if idx < 0 {
		return nil, nil
	}
	active := history[idx]
	if !apply(&active, time.Now()) {
		return &active, nil
	}
	if err := repo.UpdateSession(ctx, &active); err != nil {
		return nil, err
	}
	return &active, nil
}

type ManualSessionRequest struct {
	StartTime time.Time          `json:"start_time" validate:"required"`
	EndTime   time.Time          `json:"end_time" validate:"required,gtfield=StartTime"`
	Type      internal.SleepType `json:"type" validate:"required,oneof=NAP NIGHT"`
	Note      string             `json:"note,omitempty"`
}

func ValidateManualSessionRequest(body *ManualSessionRequest) error {
	return validate.Struct(body)
}

// AddManualSession records a session entered after the fact. It is born
// FINISHED and validated before it reaches storage.
func AddManualSession(ctx context.Context, repo storage.SessionRepository, body *ManualSessionRequest) (*internal.SleepSession, error) {
	end := body.EndTime
	s := &internal.SleepSession{
		StartTime:     body.StartTime,
		EndTime:       &end,
		Type:          body.Type,
		Status:        internal.StatusFinished,
		Interruptions: []internal.Interruption{},
		Note:          body.Note,
		CreatedAt:     time.Now(),
	}
	if err := session.ValidateManualEntry(s); err != nil {
		return nil, err
	}
	return repo.CreateSession(ctx, s)
}

func DeleteSession(ctx context.Context, repo storage.SessionRepository, id string) error {
	return repo.DeleteSession(ctx, id)
}
