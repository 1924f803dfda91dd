// Package state aggregates the live view of the tracker: the active
// session, the full history, diaper changes and the milestones derived from
// them. It subscribes to the repository watches and treats every push as
// the authoritative replacement of its cached slice.
package state

import (
	"context"
	"sync"

	"github.com/JeffCortez23/BabySleepTracker/internal"
	"github.com/JeffCortez23/BabySleepTracker/internal/milestone"
	"github.com/JeffCortez23/BabySleepTracker/internal/service"
	"github.com/JeffCortez23/BabySleepTracker/internal/session"
	"github.com/JeffCortez23/BabySleepTracker/internal/storage"
)

// Snapshot is a point-in-time copy of the aggregated state. Err is set when
// a watch stream terminated; that state is distinct from "no active
// session" so the caller never mistakes an outage for an empty crib.
type Snapshot struct {
	ActiveSession *internal.SleepSession  `json:"active_session,omitempty"`
	History       []internal.SleepSession `json:"history"`
	DiaperChanges []internal.DiaperChange `json:"diaper_changes"`
	Milestones    []internal.Milestone    `json:"milestones"`
	Err           error                   `json:"-"`
}

type Tracker struct {
	sessions storage.SessionRepository
	diapers  storage.DiaperRepository
	logger   internal.Logger

	mu         sync.RWMutex
	active     *internal.SleepSession
	history    []internal.SleepSession
	changes    []internal.DiaperChange
	milestones []internal.Milestone
	watchErr   error

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTracker subscribes to all three watch streams and starts consuming
// them. Close releases the subscriptions.
func NewTracker(sessions storage.SessionRepository, diapers storage.DiaperRepository, logger internal.Logger) (*Tracker, error) {
	ctx, cancel := context.WithCancel(context.Background())

	historyCh, err := sessions.WatchHistory(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	activeCh, err := sessions.WatchActiveSession(ctx)
	if err != nil {
		cancel()
		return nil, err
	}
	diaperCh, err := diapers.WatchDiaperChanges(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	t := &Tracker{
		sessions:   sessions,
		diapers:    diapers,
		logger:     logger,
		milestones: milestone.Check(nil),
		cancel:     cancel,
	}

	t.wg.Add(3)
	go t.consumeHistory(ctx, historyCh)
	go t.consumeActive(ctx, activeCh)
	go t.consumeDiapers(ctx, diaperCh)

	return t, nil
}

func (t *Tracker) consumeHistory(ctx context.Context, ch <-chan []internal.SleepSession) {
	defer t.wg.Done()
	for history := range ch {
		for i := range history {
			if err := session.ValidateInterruptions(&history[i]); err != nil {
				t.logger.Warnf("session %s violates interruption invariants: %v", history[i].ID, err)
			}
		}
		derived := milestone.Check(history)
		t.mu.Lock()
		t.history = history
		t.milestones = derived
		t.mu.Unlock()
	}
	t.streamEnded(ctx, "history")
}

func (t *Tracker) consumeActive(ctx context.Context, ch <-chan *internal.SleepSession) {
	defer t.wg.Done()
	for active := range ch {
		t.mu.Lock()
		t.active = active
		t.mu.Unlock()
	}
	t.streamEnded(ctx, "active session")
}

func (t *Tracker) consumeDiapers(ctx context.Context, ch <-chan []internal.DiaperChange) {
	defer t.wg.Done()
	for changes := range ch {
		t.mu.Lock()
		t.changes = changes
		t.mu.Unlock()
	}
	t.streamEnded(ctx, "diaper changes")
}

// streamEnded marks the tracker unhealthy when a watch closed for any
// reason other than our own cancellation.
func (t *Tracker) streamEnded(ctx context.Context, what string) {
	if ctx.Err() != nil {
		return
	}
	t.logger.Errorf("%s watch terminated", what)
	t.mu.Lock()
	t.watchErr = internal.ErrStorageUnavailable
	t.mu.Unlock()
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := Snapshot{
		History:       make([]internal.SleepSession, len(t.history)),
		DiaperChanges: make([]internal.DiaperChange, len(t.changes)),
		Milestones:    make([]internal.Milestone, len(t.milestones)),
		Err:           t.watchErr,
	}
	copy(snap.History, t.history)
	copy(snap.DiaperChanges, t.changes)
	copy(snap.Milestones, t.milestones)
	if t.active != nil {
		active := *t.active
		snap.ActiveSession = &active
	}
	return snap
}

func (t *Tracker) Milestones() []internal.Milestone {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]internal.Milestone, len(t.milestones))
	copy(out, t.milestones)
	return out
}

func (t *Tracker) ActiveSession() *internal.SleepSession {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.active == nil {
		return nil
	}
	active := *t.active
	return &active
}

// Close cancels the watch subscriptions and waits for the consumers.
func (t *Tracker) Close() {
	t.cancel()
	t.wg.Wait()
}

// Actions delegate to the service layer. Local state is not mutated
// optimistically; the next watch push reflects the result.

func (t *Tracker) StartNap(ctx context.Context) (*internal.SleepSession, error) {
	return service.StartSleep(ctx, t.sessions, internal.SleepNap)
}

func (t *Tracker) StartNight(ctx context.Context) (*internal.SleepSession, error) {
	return service.StartSleep(ctx, t.sessions, internal.SleepNight)
}

func (t *Tracker) WakeUp(ctx context.Context) (*internal.SleepSession, error) {
	return service.WakeUp(ctx, t.sessions)
}

func (t *Tracker) BackToSleep(ctx context.Context) (*internal.SleepSession, error) {
	return service.BackToSleep(ctx, t.sessions)
}

func (t *Tracker) FinishSleep(ctx context.Context) (*internal.SleepSession, error) {
	return service.FinishSleep(ctx, t.sessions)
}

func (t *Tracker) DeleteSession(ctx context.Context, id string) error {
	return service.DeleteSession(ctx, t.sessions, id)
}

func (t *Tracker) AddManualSession(ctx context.Context, body *service.ManualSessionRequest) (*internal.SleepSession, error) {
	return service.AddManualSession(ctx, t.sessions, body)
}

func (t *Tracker) AddDiaperChange(ctx context.Context, body *service.DiaperChangeRequest) (*internal.DiaperChange, error) {
	return service.AddDiaperChange(ctx, t.diapers, body)
}

func (t *Tracker) DeleteDiaperChange(ctx context.Context, id string) error {
	return service.DeleteDiaperChange(ctx, t.diapers, id)
}
