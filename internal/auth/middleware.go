package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JeffCortez23/BabySleepTracker/internal/config"
)

func Middleware(provider Provider, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			var caregiver interface{}
			var err error
			if cfg.Env == "development" {
				caregiver, err = provider.ValidateTokenLocal(token)
			} else {
				caregiver, err = provider.ValidateTokenRemote(c.Request.Context(), token)
			}
			if err == nil {
				c.Set("caregiver", caregiver)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}
