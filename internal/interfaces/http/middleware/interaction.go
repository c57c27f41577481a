package middleware

import (
	"github.com/gin-gonic/gin"
)

// InteractionNotifier receives user-gesture signals. The audio alarm
// implements it to release a playback retry held back by a denial.
type InteractionNotifier interface {
	NotifyInteraction()
}

// UserInteraction reports every authenticated request as a user gesture.
// Playback denials are typically resolved the moment the seller touches
// the panel again, so any request carrying valid credentials counts.
// The middleware must run after JWT authentication so that anonymous
// probes do not unlock playback.
func UserInteraction(notifier InteractionNotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if notifier != nil && GetJWTSellerID(c) != "" {
			notifier.NotifyInteraction()
		}
		c.Next()
	}
}
