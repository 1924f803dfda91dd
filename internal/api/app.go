package api

import (
	"github.com/JeffCortez23/BabySleepTracker/internal"
	"github.com/JeffCortez23/BabySleepTracker/internal/state"
	"github.com/JeffCortez23/BabySleepTracker/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Tracker() *state.Tracker
	SessionRepo() storage.SessionRepository
	DiaperRepo() storage.DiaperRepository
}
