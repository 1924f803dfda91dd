package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/JeffCortez23/BabySleepTracker/internal"
	"github.com/JeffCortez23/BabySleepTracker/internal/service"
	"github.com/JeffCortez23/BabySleepTracker/internal/sleeputil"
)

type StartSleepRequest struct {
	Type internal.SleepType `json:"type"`
}

func PostStartSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body StartSleepRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if body.Type != internal.SleepNap && body.Type != internal.SleepNight {
			HandleError(c, app.Logger(), errors.New("type must be NAP or NIGHT"), 400, "Validation failed")
			return
		}

		var (
			sess *internal.SleepSession
			err  error
		)
		if body.Type == internal.SleepNap {
			sess, err = app.Tracker().StartNap(c.Request.Context())
		} else {
			sess, err = app.Tracker().StartNight(c.Request.Context())
		}
		if err != nil {
			if errors.Is(err, internal.ErrSessionActive) {
				HandleError(c, app.Logger(), err, 409, "Session already active")
				return
			}
			HandleError(c, app.Logger(), err, 500, "Failed to start session")
			return
		}
		HandleSuccess(c, app.Logger(), sess, nil)
	}
}

// lifecycleHandler covers wake-up, back-to-sleep and finish: all three act
// on the active session and are no-ops when none exists.
func lifecycleHandler(app App, action func(*gin.Context) (*internal.SleepSession, error), failMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := action(c)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, failMsg)
			return
		}
		if sess == nil {
			HandleSuccess(c, app.Logger(), nil, map[string]any{"no_active_session": true})
			return
		}
		HandleSuccess(c, app.Logger(), sess, nil)
	}
}

func PostWakeUp(app App) gin.HandlerFunc {
	return lifecycleHandler(app, func(c *gin.Context) (*internal.SleepSession, error) {
		return app.Tracker().WakeUp(c.Request.Context())
	}, "Failed to record wake-up")
}

func PostBackToSleep(app App) gin.HandlerFunc {
	return lifecycleHandler(app, func(c *gin.Context) (*internal.SleepSession, error) {
		return app.Tracker().BackToSleep(c.Request.Context())
	}, "Failed to record back-to-sleep")
}

func PostFinishSleep(app App) gin.HandlerFunc {
	return lifecycleHandler(app, func(c *gin.Context) (*internal.SleepSession, error) {
		return app.Tracker().FinishSleep(c.Request.Context())
	}, "Failed to finish session")
}

func PostManualSession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.ManualSessionRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateManualSessionRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		sess, err := app.Tracker().AddManualSession(c.Request.Context(), &body)
		if err != nil {
			if errors.Is(err, internal.ErrInvalidManualEntry) {
				HandleError(c, app.Logger(), err, 400, "Invalid manual entry")
				return
			}
			HandleError(c, app.Logger(), err, 500, "Failed to save session")
			return
		}
		HandleSuccess(c, app.Logger(), sess, nil)
	}
}

func DeleteSession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := app.Tracker().DeleteSession(c.Request.Context(), id); err != nil {
			if errors.Is(err, internal.ErrNotFound) {
				HandleError(c, app.Logger(), err, 404, "Session not found")
				return
			}
			HandleError(c, app.Logger(), err, 500, "Failed to delete session")
			return
		}
		HandleSuccess(c, app.Logger(), nil, nil)
	}
}

func GetHistory(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		history, err := app.SessionRepo().ListSessions(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch history")
			return
		}
		HandleSuccess(c, app.Logger(), history, nil)
	}
}

func GetActiveSession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := app.Tracker().Snapshot()
		if snap.Err != nil {
			HandleError(c, app.Logger(), snap.Err, 503, "Tracker state unknown")
			return
		}
		HandleSuccess(c, app.Logger(), snap.ActiveSession, nil)
	}
}

func GetMilestones(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), app.Tracker().Milestones(), nil)
	}
}

func GetSessionDuration(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := app.SessionRepo().GetSession(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, internal.ErrNotFound) {
				HandleError(c, app.Logger(), err, 404, "Session not found")
				return
			}
			HandleError(c, app.Logger(), err, 500, "Failed to fetch session")
			return
		}

		hours, minutes, ok := sleeputil.RealSleepDuration(sess)
		if !ok {
			HandleSuccess(c, app.Logger(), nil, map[string]any{"available": false})
			return
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{
			"available": true,
			"hours":     hours,
			"minutes":   minutes,
			"formatted": sleeputil.FormatDuration(hours, minutes),
		})
	}
}

func GetState(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := app.Tracker().Snapshot()
		if snap.Err != nil {
			HandleError(c, app.Logger(), snap.Err, 503, "Tracker state unknown")
			return
		}
		HandleSuccess(c, app.Logger(), snap, nil)
	}
}
