package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/JeffCortez23/BabySleepTracker/internal"
	"github.com/JeffCortez23/BabySleepTracker/internal/service"
)

func PostDiaperChange(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.DiaperChangeRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateDiaperChangeRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		change, err := app.Tracker().AddDiaperChange(c.Request.Context(), &body)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save diaper change")
			return
		}
		HandleSuccess(c, app.Logger(), change, nil)
	}
}

func GetDiaperChanges(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		changes, err := app.DiaperRepo().ListDiaperChanges(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch diaper changes")
			return
		}
		HandleSuccess(c, app.Logger(), changes, nil)
	}
}

func DeleteDiaperChange(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := app.Tracker().DeleteDiaperChange(c.Request.Context(), id); err != nil {
			if errors.Is(err, internal.ErrNotFound) {
				HandleError(c, app.Logger(), err, 404, "Diaper change not found")
				return
			}
			HandleError(c, app.Logger(), err, 500, "Failed to delete diaper change")
			return
		}
		HandleSuccess(c, app.Logger(), nil, nil)
	}
}
