package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffCortez23/BabySleepTracker/internal"
)

var t0 = time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)

func TestStart(t *testing.T) {
	s := Start(internal.SleepNap, t0)
	assert.Equal(t, internal.StatusSleeping, s.Status)
	assert.Equal(t, internal.SleepNap, s.Type)
	assert.Equal(t, t0, s.StartTime)
	assert.Nil(t, s.EndTime)
	assert.Empty(t, s.Interruptions)
}

func TestFullLifecycle(t *testing.T) {
	s := Start(internal.SleepNight, t0)

	require.True(t, RecordWakeUp(s, t0.Add(2*time.Hour)))
	assert.Equal(t, internal.StatusAwake, s.Status)

	require.True(t, RecordBackToSleep(s, t0.Add(2*time.Hour+15*time.Minute)))
	assert.Equal(t, internal.StatusSleeping, s.Status)

	require.True(t, Finish(s, t0.Add(9*time.Hour)))
	assert.Equal(t, internal.StatusFinished, s.Status)
	require.NotNil(t, s.EndTime)
	assert.Equal(t, t0.Add(9*time.Hour), *s.EndTime)

	require.Len(t, s.Interruptions, 1)
	assert.Equal(t, t0.Add(2*time.Hour), s.Interruptions[0].WokeUpAt)
	require.NotNil(t, s.Interruptions[0].BackToSleepAt)
	assert.Equal(t, t0.Add(2*time.Hour+15*time.Minute), *s.Interruptions[0].BackToSleepAt)
}

func TestWakeUpWhileAwakeIsNoOp(t *testing.T) {
	s := Start(internal.SleepNight, t0)
	require.True(t, RecordWakeUp(s, t0.Add(time.Hour)))

	assert.False(t, RecordWakeUp(s, t0.Add(2*time.Hour)))
	assert.Len(t, s.Interruptions, 1)
	assert.Equal(t, internal.StatusAwake, s.Status)
}

func TestBackToSleepWhileSleepingIsNoOp(t *testing.T) {
	s := Start(internal.SleepNight, t0)
	assert.False(t, RecordBackToSleep(s, t0.Add(time.Hour)))
	assert.Empty(t, s.Interruptions)
	assert.Equal(t, internal.StatusSleeping, s.Status)
}

func TestFinishWhileAwakeKeepsInterruptionOpen(t *testing.T) {
	s := Start(internal.SleepNight, t0)
	require.True(t, RecordWakeUp(s, t0.Add(7*time.Hour)))

	require.True(t, Finish(s, t0.Add(8*time.Hour)))
	assert.Equal(t, internal.StatusFinished, s.Status)
	require.Len(t, s.Interruptions, 1)
	assert.Nil(t, s.Interruptions[0].BackToSleepAt)
}

func TestFinishTwiceIsNoOp(t *testing.T) {
	s := Start(internal.SleepNap, t0)
	require.True(t, Finish(s, t0.Add(time.Hour)))
	assert.False(t, Finish(s, t0.Add(2*time.Hour)))
	assert.Equal(t, t0.Add(time.Hour), *s.EndTime)
}

func TestFindActive(t *testing.T) {
	finished := internal.SleepSession{ID: "f", Status: internal.StatusFinished}
	sleeping := internal.SleepSession{ID: "s", Status: internal.StatusSleeping}
	awake := internal.SleepSession{ID: "a", Status: internal.StatusAwake}

	assert.Equal(t, -1, FindActive(nil))
	assert.Equal(t, -1, FindActive([]internal.SleepSession{finished}))
	assert.Equal(t, 1, FindActive([]internal.SleepSession{finished, sleeping}))
	assert.Equal(t, 0, FindActive([]internal.SleepSession{awake, finished}))

	// SLEEPING takes precedence over AWAKE regardless of order.
	assert.Equal(t, 1, FindActive([]internal.SleepSession{awake, sleeping}))
	assert.Equal(t, 0, FindActive([]internal.SleepSession{sleeping, awake}))
}

func TestValidateInterruptions(t *testing.T) {
	back := t0.Add(2*time.Hour + 10*time.Minute)
	s := Start(internal.SleepNight, t0)
	s.Interruptions = []internal.Interruption{
		{WokeUpAt: t0.Add(2 * time.Hour), BackToSleepAt: &back},
		{WokeUpAt: t0.Add(4 * time.Hour)},
	}
	assert.NoError(t, ValidateInterruptions(s))

	// A non-terminal interruption without a resume timestamp is corrupt.
	s.Interruptions = []internal.Interruption{
		{WokeUpAt: t0.Add(2 * time.Hour)},
		{WokeUpAt: t0.Add(4 * time.Hour)},
	}
	assert.Error(t, ValidateInterruptions(s))

	// Resume before wake-up is corrupt.
	earlier := t0.Add(time.Hour)
	s.Interruptions = []internal.Interruption{
		{WokeUpAt: t0.Add(2 * time.Hour), BackToSleepAt: &earlier},
	}
	assert.Error(t, ValidateInterruptions(s))
}

func TestValidateManualEntry(t *testing.T) {
	end := t0.Add(2 * time.Hour)
	good := &internal.SleepSession{StartTime: t0, EndTime: &end}
	assert.NoError(t, ValidateManualEntry(good))

	assert.ErrorIs(t, ValidateManualEntry(&internal.SleepSession{StartTime: t0}), internal.ErrInvalidManualEntry)

	same := t0
	assert.ErrorIs(t, ValidateManualEntry(&internal.SleepSession{StartTime: t0, EndTime: &same}), internal.ErrInvalidManualEntry)

	before := t0.Add(-time.Hour)
	assert.ErrorIs(t, ValidateManualEntry(&internal.SleepSession{StartTime: t0, EndTime: &before}), internal.ErrInvalidManualEntry)
}
