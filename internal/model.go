package internal

import "time"

type SleepType string

const (
	SleepNap   SleepType = "NAP"
	SleepNight SleepType = "NIGHT"
)

type SleepStatus string

const (
	StatusSleeping SleepStatus = "SLEEPING"
	StatusAwake    SleepStatus = "AWAKE"
	StatusFinished SleepStatus = "FINISHED"
)

// Interruption is one wake-up inside a session. BackToSleepAt stays nil while
// the child is still awake, or forever if the session ended before resuming.
type Interruption struct {
	WokeUpAt      time.Time  `json:"woke_up_at"`
	BackToSleepAt *time.Time `json:"back_to_sleep_at,omitempty"`
}

type SleepSession struct {
	ID            string         `json:"id"`
	StartTime     time.Time      `json:"start_time"`
	EndTime       *time.Time     `json:"end_time,omitempty"` // nil while the session is open
	Type          SleepType      `json:"type"`
	Status        SleepStatus    `json:"status"`
	Interruptions []Interruption `json:"interruptions,omitempty"`
	Note          string         `json:"note,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Open reports whether the session is still in progress.
func (s *SleepSession) Open() bool {
	return s.Status == StatusSleeping || s.Status == StatusAwake
}

type DiaperType string

const (
	DiaperWet   DiaperType = "WET"
	DiaperDirty DiaperType = "DIRTY"
	DiaperBoth  DiaperType = "BOTH"
)

type DiaperChange struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Type      DiaperType `json:"type"`
	Notes     string     `json:"notes,omitempty"`
}

// Milestone is derived from the finished-session history on every evaluation
// and is never persisted.
type Milestone struct {
	ID          string `json:"id"`
	Emoji       string `json:"emoji"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsUnlocked  bool   `json:"is_unlocked"`
}

// Caregiver is the authenticated user of the tracker.
type Caregiver struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
}
