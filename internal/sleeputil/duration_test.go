package sleeputil

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffCortez23/BabySleepTracker/internal"
)

func finishedSession(start time.Time, total time.Duration, interruptions ...internal.Interruption) *internal.SleepSession {
	end := start.Add(total)
	return &internal.SleepSession{
		StartTime:     start,
		EndTime:       &end,
		Type:          internal.SleepNight,
		Status:        internal.StatusFinished,
		Interruptions: interruptions,
	}
}

func TestRealSleepDurationNoInterruptions(t *testing.T) {
	start := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	s := finishedSession(start, 9*time.Hour+30*time.Minute)

	hours, minutes, ok := RealSleepDuration(s)
	require.True(t, ok)
	assert.Equal(t, int64(9), hours)
	assert.Equal(t, int64(30), minutes)
}

func TestRealSleepDurationSubtractsAwakeGap(t *testing.T) {
	start := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	woke := start.Add(4 * time.Hour)
	back := woke.Add(45 * time.Minute)
	s := finishedSession(start, 9*time.Hour+30*time.Minute,
		internal.Interruption{WokeUpAt: woke, BackToSleepAt: &back})

	hours, minutes, ok := RealSleepDuration(s)
	require.True(t, ok)
	assert.Equal(t, int64(8), hours)
	assert.Equal(t, int64(45), minutes)
}

func TestRealSleepDurationOpenInterruptionChargedToEnd(t *testing.T) {
	// Woke up one hour before the session was closed and never resumed.
	start := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	woke := start.Add(7 * time.Hour)
	s := finishedSession(start, 8*time.Hour,
		internal.Interruption{WokeUpAt: woke})

	hours, minutes, ok := RealSleepDuration(s)
	require.True(t, ok)
	assert.Equal(t, int64(7), hours)
	assert.Equal(t, int64(0), minutes)
}

func TestRealSleepDurationUnavailableWhileOpen(t *testing.T) {
	s := &internal.SleepSession{
		StartTime: time.Now().Add(-2 * time.Hour),
		Status:    internal.StatusSleeping,
	}
	_, _, ok := RealSleepDuration(s)
	assert.False(t, ok)
}

func TestRealSleepDurationClampsCorruptTimestamps(t *testing.T) {
	// Awake gap larger than the whole session clamps to zero.
	start := time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)
	woke := start.Add(-3 * time.Hour)
	s := finishedSession(start, time.Hour,
		internal.Interruption{WokeUpAt: woke})

	hours, minutes, ok := RealSleepDuration(s)
	require.True(t, ok)
	assert.Equal(t, int64(0), hours)
	assert.Equal(t, int64(0), minutes)
}

func TestRealSleepDurationTruncatesSeconds(t *testing.T) {
	start := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	s := finishedSession(start, time.Hour+59*time.Minute+30*time.Second)

	hours, minutes, ok := RealSleepDuration(s)
	require.True(t, ok)
	assert.Equal(t, int64(1), hours)
	assert.Equal(t, int64(59), minutes)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45m", FormatDuration(0, 45))
	assert.Equal(t, "2h 5m", FormatDuration(2, 5))
	assert.Equal(t, "0m", FormatDuration(0, 0))
}

func TestRealSleepDurationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	base := time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)

	properties.Property("uninterrupted session equals its full span", prop.ForAll(
		func(totalMin int) bool {
			s := finishedSession(base, time.Duration(totalMin)*time.Minute)
			hours, minutes, ok := RealSleepDuration(s)
			return ok && hours == int64(totalMin/60) && minutes == int64(totalMin%60)
		},
		gen.IntRange(0, 24*60),
	))

	properties.Property("real sleep stays within [0, total]", prop.ForAll(
		func(totalMin, wakeOffsetMin, awakeMin int) bool {
			woke := base.Add(time.Duration(wakeOffsetMin) * time.Minute)
			back := woke.Add(time.Duration(awakeMin) * time.Minute)
			s := finishedSession(base, time.Duration(totalMin)*time.Minute,
				internal.Interruption{WokeUpAt: woke, BackToSleepAt: &back})
			hours, minutes, ok := RealSleepDuration(s)
			realMin := hours*60 + minutes
			return ok && realMin >= 0 && realMin <= int64(totalMin)
		},
		gen.IntRange(60, 24*60),
		gen.IntRange(0, 59),
		gen.IntRange(0, 2000),
	))

	properties.TestingRun(t)
}
