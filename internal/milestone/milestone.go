// Package milestone evaluates achievement predicates over the finished
// session history. Every check recomputes from scratch; nothing here is
// persisted or cached.
package milestone

import (
	"time"

	"github.com/JeffCortez23/BabySleepTracker/internal"
)

const (
	peacefulNightHours   = 9
	fullBatteryMinutes   = 110
	sleepNinjaMinutes    = 10
	streakNightHours     = 8
	streakRequiredNights = 3
)

// Check runs every milestone predicate over the history and returns the
// full list with display metadata. Sessions still open, or finished without
// an end time, are ignored.
func Check(history []internal.SleepSession) []internal.Milestone {
	finished := make([]internal.SleepSession, 0, len(history))
	for _, s := range history {
		if s.Status == internal.StatusFinished && s.EndTime != nil {
			finished = append(finished, s)
		}
	}

	return []internal.Milestone{
		{
			ID:          "peaceful_night",
			Emoji:       "🌟",
			Title:       "Peaceful Night",
			Description: "Slept 9h straight without waking up.",
			IsUnlocked:  anyPeacefulNight(finished),
		},
		{
			ID:          "full_battery",
			Emoji:       "🔋",
			Title:       "Full Battery",
			Description: "One solid nap of almost two hours (1h 50m+).",
			IsUnlocked:  anyFullBatteryNap(finished),
		},
		{
			ID:          "sleep_ninja",
			Emoji:       "🥷",
			Title:       "Sleep Ninja",
			Description: "Woke up but fell back asleep in under 10 minutes.",
			IsUnlocked:  anyQuickResume(finished),
		},
		{
			ID:          "streak",
			Emoji:       "🔥",
			Title:       "On a Streak",
			Description: "Three perfect nights in the history.",
			IsUnlocked:  countPerfectNights(finished) >= streakRequiredNights,
		},
	}
}

// wholeHours and wholeMinutes truncate, so an 8h59m night counts as 8 hours.
func wholeHours(d time.Duration) int64   { return int64(d / time.Hour) }
func wholeMinutes(d time.Duration) int64 { return int64(d / time.Minute) }

func anyPeacefulNight(finished []internal.SleepSession) bool {
	for _, s := range finished {
		if s.Type != internal.SleepNight {
			continue
		}
		if len(s.Interruptions) == 0 && wholeHours(s.EndTime.Sub(s.StartTime)) >= peacefulNightHours {
			return true
		}
	}
	return false
}

func anyFullBatteryNap(finished []internal.SleepSession) bool {
	for _, s := range finished {
		if s.Type != internal.SleepNap {
			continue
		}
		if wholeMinutes(s.EndTime.Sub(s.StartTime)) >= fullBatteryMinutes {
			return true
		}
	}
	return false
}

func anyQuickResume(finished []internal.SleepSession) bool {
	for _, s := range finished {
		for _, in := range s.Interruptions {
			if in.BackToSleepAt == nil {
				continue
			}
			if wholeMinutes(in.BackToSleepAt.Sub(in.WokeUpAt)) < sleepNinjaMinutes {
				return true
			}
		}
	}
	return false
}

// countPerfectNights counts nights of 8h+ with zero interruptions anywhere
// in the history. The streak name is aspirational; the rule is a plain
// threshold count, not consecutive days.
func countPerfectNights(finished []internal.SleepSession) int {
	count := 0
	for _, s := range finished {
		if s.Type != internal.SleepNight || len(s.Interruptions) > 0 {
			continue
		}
		if wholeHours(s.EndTime.Sub(s.StartTime)) >= streakNightHours {
			count++
		}
	}
	return count
}
