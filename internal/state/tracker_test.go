package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffCortez23/BabySleepTracker/internal"
	"github.com/JeffCortez23/BabySleepTracker/internal/service"
	"github.com/JeffCortez23/BabySleepTracker/internal/storage"
)

func newTestTracker(t *testing.T) (*Tracker, *storage.FileStorage) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFileStorage(filepath.Join(dir, "sessions.json"), filepath.Join(dir, "diapers.json"), internal.NewNopLogger())
	require.NoError(t, err)

	tracker, err := NewTracker(store, store, internal.NewNopLogger())
	require.NoError(t, err)

	t.Cleanup(func() {
		tracker.Close()
		store.Close()
	})
	return tracker, store
}

func TestTrackerReflectsLifecyclePushes(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	started, err := tracker.StartNap(ctx)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap := tracker.Snapshot()
		return snap.ActiveSession != nil && snap.ActiveSession.ID == started.ID && len(snap.History) == 1
	}, time.Second, 10*time.Millisecond, "tracker never saw the started session")

	_, err = tracker.FinishSleep(ctx)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap := tracker.Snapshot()
		return snap.ActiveSession == nil && len(snap.History) == 1 &&
			snap.History[0].Status == internal.StatusFinished
	}, time.Second, 10*time.Millisecond, "tracker never saw the finish")
}

func TestTrackerRecomputesMilestones(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	// Fresh tracker: everything locked.
	for _, m := range tracker.Milestones() {
		assert.False(t, m.IsUnlocked)
	}

	start := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	_, err := tracker.AddManualSession(ctx, &service.ManualSessionRequest{
		StartTime: start,
		EndTime:   start.Add(9*time.Hour + 30*time.Minute),
		Type:      internal.SleepNight,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		for _, m := range tracker.Milestones() {
			if m.ID == "peaceful_night" {
				return m.IsUnlocked
			}
		}
		return false
	}, time.Second, 10*time.Millisecond, "peaceful night never unlocked")

	for _, m := range tracker.Milestones() {
		if m.ID == "streak" {
			assert.False(t, m.IsUnlocked)
		}
	}
}

func TestTrackerSeesDiaperPushes(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.AddDiaperChange(ctx, &service.DiaperChangeRequest{Type: internal.DiaperDirty})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(tracker.Snapshot().DiaperChanges) == 1
	}, time.Second, 10*time.Millisecond, "tracker never saw the diaper change")
}

func TestTrackerSurfacesTerminatedWatches(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFileStorage(filepath.Join(dir, "sessions.json"), filepath.Join(dir, "diapers.json"), internal.NewNopLogger())
	require.NoError(t, err)

	tracker, err := NewTracker(store, store, internal.NewNopLogger())
	require.NoError(t, err)
	defer tracker.Close()

	// Storage going away is an error state, not "no active session".
	require.NoError(t, store.Close())

	require.Eventually(t, func() bool {
		return tracker.Snapshot().Err != nil
	}, time.Second, 10*time.Millisecond, "watch termination never surfaced")
	assert.ErrorIs(t, tracker.Snapshot().Err, internal.ErrStorageUnavailable)
}

func TestTrackerCloseReleasesSubscriptions(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFileStorage(filepath.Join(dir, "sessions.json"), filepath.Join(dir, "diapers.json"), internal.NewNopLogger())
	require.NoError(t, err)
	defer store.Close()

	tracker, err := NewTracker(store, store, internal.NewNopLogger())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		tracker.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
	assert.NoError(t, tracker.Snapshot().Err)
}
