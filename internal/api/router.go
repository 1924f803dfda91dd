package api

import (
	"github.com/gin-gonic/gin"

	"github.com/JeffCortez23/BabySleepTracker/internal/auth"
	"github.com/JeffCortez23/BabySleepTracker/internal/config"
)

// NewRouter wires all routes behind request-ID and token auth middleware.
func NewRouter(app App, provider auth.Provider, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(auth.Middleware(provider, cfg))

	r.POST("/sleep/start", PostStartSleep(app))
	r.POST("/sleep/wake", PostWakeUp(app))
	r.POST("/sleep/back-to-sleep", PostBackToSleep(app))
	r.POST("/sleep/finish", PostFinishSleep(app))
	r.POST("/sleep/manual", PostManualSession(app))
	r.GET("/sleep", GetHistory(app))
	r.GET("/sleep/active", GetActiveSession(app))
	r.GET("/sleep/milestones", GetMilestones(app))
	r.GET("/sleep/sessions/:id/duration", GetSessionDuration(app))
	r.DELETE("/sleep/sessions/:id", DeleteSession(app))

	r.POST("/diapers", PostDiaperChange(app))
	r.GET("/diapers", GetDiaperChanges(app))
	r.DELETE("/diapers/:id", DeleteDiaperChange(app))

	r.GET("/state", GetState(app))

	return r
}
