package milestone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffCortez23/BabySleepTracker/internal"
	"github.com/JeffCortez23/BabySleepTracker/internal/sleeputil"
)

var base = time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)

func finished(t internal.SleepType, start time.Time, total time.Duration, interruptions ...internal.Interruption) internal.SleepSession {
	end := start.Add(total)
	return internal.SleepSession{
		StartTime:     start,
		EndTime:       &end,
		Type:          t,
		Status:        internal.StatusFinished,
		Interruptions: interruptions,
	}
}

func unlocked(t *testing.T, milestones []internal.Milestone, id string) bool {
	t.Helper()
	for _, m := range milestones {
		if m.ID == id {
			return m.IsUnlocked
		}
	}
	t.Fatalf("milestone %s not found", id)
	return false
}

func TestCheckReturnsAllMilestonesWithMetadata(t *testing.T) {
	milestones := Check(nil)
	require.Len(t, milestones, 4)
	ids := []string{}
	for _, m := range milestones {
		ids = append(ids, m.ID)
		assert.NotEmpty(t, m.Emoji)
		assert.NotEmpty(t, m.Title)
		assert.NotEmpty(t, m.Description)
		assert.False(t, m.IsUnlocked)
	}
	assert.Equal(t, []string{"peaceful_night", "full_battery", "sleep_ninja", "streak"}, ids)
}

func TestPeacefulNight(t *testing.T) {
	nine := []internal.SleepSession{finished(internal.SleepNight, base, 9*time.Hour)}
	assert.True(t, unlocked(t, Check(nine), "peaceful_night"))

	almost := []internal.SleepSession{finished(internal.SleepNight, base, 8*time.Hour+59*time.Minute)}
	assert.False(t, unlocked(t, Check(almost), "peaceful_night"))

	nap := []internal.SleepSession{finished(internal.SleepNap, base, 10*time.Hour)}
	assert.False(t, unlocked(t, Check(nap), "peaceful_night"))

	woke := base.Add(3 * time.Hour)
	back := woke.Add(5 * time.Minute)
	interrupted := []internal.SleepSession{finished(internal.SleepNight, base, 10*time.Hour,
		internal.Interruption{WokeUpAt: woke, BackToSleepAt: &back})}
	assert.False(t, unlocked(t, Check(interrupted), "peaceful_night"))
}

func TestFullBattery(t *testing.T) {
	solid := []internal.SleepSession{finished(internal.SleepNap, base, 110*time.Minute)}
	assert.True(t, unlocked(t, Check(solid), "full_battery"))

	short := []internal.SleepSession{finished(internal.SleepNap, base, 109*time.Minute)}
	assert.False(t, unlocked(t, Check(short), "full_battery"))

	night := []internal.SleepSession{finished(internal.SleepNight, base, 3*time.Hour)}
	assert.False(t, unlocked(t, Check(night), "full_battery"))
}

func TestSleepNinja(t *testing.T) {
	mk := func(gap time.Duration) []internal.SleepSession {
		woke := base.Add(2 * time.Hour)
		back := woke.Add(gap)
		return []internal.SleepSession{finished(internal.SleepNight, base, 8*time.Hour,
			internal.Interruption{WokeUpAt: woke, BackToSleepAt: &back})}
	}

	assert.True(t, unlocked(t, Check(mk(9*time.Minute+59*time.Second)), "sleep_ninja"))
	assert.False(t, unlocked(t, Check(mk(10*time.Minute)), "sleep_ninja"))

	// An interruption the child never slept back from does not count.
	open := []internal.SleepSession{finished(internal.SleepNight, base, 8*time.Hour,
		internal.Interruption{WokeUpAt: base.Add(7 * time.Hour)})}
	assert.False(t, unlocked(t, Check(open), "sleep_ninja"))
}

func TestStreakCountsPerfectNights(t *testing.T) {
	night := func(day int, total time.Duration, interruptions ...internal.Interruption) internal.SleepSession {
		return finished(internal.SleepNight, base.AddDate(0, 0, day), total, interruptions...)
	}

	three := []internal.SleepSession{
		night(0, 8*time.Hour),
		night(1, 9*time.Hour),
		night(2, 8*time.Hour+30*time.Minute),
	}
	assert.True(t, unlocked(t, Check(three), "streak"))

	two := three[:2]
	assert.False(t, unlocked(t, Check(two), "streak"))

	woke := base.AddDate(0, 0, 2).Add(time.Hour)
	back := woke.Add(15 * time.Minute)
	withInterruption := []internal.SleepSession{
		night(0, 8*time.Hour),
		night(1, 9*time.Hour),
		night(2, 9*time.Hour, internal.Interruption{WokeUpAt: woke, BackToSleepAt: &back}),
	}
	assert.False(t, unlocked(t, Check(withInterruption), "streak"))
}

func TestOpenSessionsAreIgnored(t *testing.T) {
	open := internal.SleepSession{
		StartTime: base,
		Type:      internal.SleepNight,
		Status:    internal.StatusSleeping,
	}
	milestones := Check([]internal.SleepSession{open})
	for _, m := range milestones {
		assert.False(t, m.IsUnlocked)
	}
}

// One long uninterrupted night: 9h30m of real sleep, Peaceful Night on,
// streak still locked at a count of one.
func TestSingleNightScenario(t *testing.T) {
	s := finished(internal.SleepNight, base, 9*time.Hour+30*time.Minute)

	hours, minutes, ok := sleeputil.RealSleepDuration(&s)
	require.True(t, ok)
	assert.Equal(t, "9h 30m", sleeputil.FormatDuration(hours, minutes))

	milestones := Check([]internal.SleepSession{s})
	assert.True(t, unlocked(t, milestones, "peaceful_night"))
	assert.False(t, unlocked(t, milestones, "streak"))
}
