// Package session implements the sleep-session lifecycle: a session starts
// SLEEPING, flips between SLEEPING and AWAKE while interruptions are
// recorded, and ends FINISHED. All functions are pure over the session
// handed in; persistence is the caller's concern.
package session

import (
	"fmt"
	"time"

	"github.com/JeffCortez23/BabySleepTracker/internal"
)

// Start creates a fresh session in the SLEEPING state.
func Start(t internal.SleepType, now time.Time) *internal.SleepSession {
	return &internal.SleepSession{
		StartTime:     now,
		Type:          t,
		Status:        internal.StatusSleeping,
		Interruptions: []internal.Interruption{},
		CreatedAt:     now,
	}
}

// RecordWakeUp appends an open interruption and moves the session to AWAKE.
// No-op unless the session is currently SLEEPING, so a second wake-up while
// already awake never opens a second interruption.
func RecordWakeUp(s *internal.SleepSession, now time.Time) bool {
	if s.Status != internal.StatusSleeping {
		return false
	}
	s.Interruptions = append(s.Interruptions, internal.Interruption{WokeUpAt: now})
	s.Status = internal.StatusAwake
	return true
}

// RecordBackToSleep closes the last interruption and returns to SLEEPING.
// No-op unless the session is currently AWAKE.
func RecordBackToSleep(s *internal.SleepSession, now time.Time) bool {
	if s.Status != internal.StatusAwake {
		return false
	}
	if n := len(s.Interruptions); n > 0 {
		ts := now
		s.Interruptions[n-1].BackToSleepAt = &ts
	}
	s.Status = internal.StatusSleeping
	return true
}

// Finish closes an open session. When finishing from AWAKE the last
// interruption keeps a nil BackToSleepAt: the child never resumed sleeping,
// and the duration math charges that interval through EndTime.
func Finish(s *internal.SleepSession, now time.Time) bool {
	if !s.Open() {
		return false
	}
	ts := now
	s.EndTime = &ts
	s.Status = internal.StatusFinished
	return true
}

// FindActive returns the index of the active session in history, or -1.
// A SLEEPING session wins over an AWAKE one when both exist; that situation
// only arises from concurrent writers and is a defined tie-break, not an
// error.
func FindActive(history []internal.SleepSession) int {
	awake := -1
	for i := range history {
		switch history[i].Status {
		case internal.StatusSleeping:
			return i
		case internal.StatusAwake:
			if awake < 0 {
				awake = i
			}
		}
	}
	return awake
}

// ValidateInterruptions checks the structural invariants of a session's
// interruption list: only the last element may be missing its resume
// timestamp, and timestamps must be monotone within the session span.
// Violations are reported for diagnosis; callers log rather than fail.
func ValidateInterruptions(s *internal.SleepSession) error {
	prev := s.StartTime
	for i, in := range s.Interruptions {
		if in.BackToSleepAt == nil && i != len(s.Interruptions)-1 {
			return fmt.Errorf("interruption %d has no resume timestamp but is not last", i)
		}
		if in.WokeUpAt.Before(prev) {
			return fmt.Errorf("interruption %d woke up at %v, before %v", i, in.WokeUpAt, prev)
		}
		prev = in.WokeUpAt
		if in.BackToSleepAt != nil {
			if in.BackToSleepAt.Before(in.WokeUpAt) {
				return fmt.Errorf("interruption %d resumed before it woke up", i)
			}
			prev = *in.BackToSleepAt
		}
	}
	if s.EndTime != nil && s.EndTime.Before(prev) {
		return fmt.Errorf("session ended at %v, before last interruption at %v", *s.EndTime, prev)
	}
	return nil
}

// ValidateManualEntry rejects hand-entered sessions whose end does not come
// after their start, before they ever reach storage.
func ValidateManualEntry(s *internal.SleepSession) error {
	if s.EndTime == nil || !s.EndTime.After(s.StartTime) {
		return internal.ErrInvalidManualEntry
	}
	return nil
}
