// Package sleeputil holds the pure time arithmetic shared by the API
// layer and the milestone engine.
package sleeputil

import (
	"fmt"
	"time"

	"github.com/JeffCortez23/BabySleepTracker/internal"
)

// RealSleepDuration computes how long the child actually slept during a
// finished session: total span minus every awake interval. An interruption
// with no resume timestamp counts as awake through the end of the session.
// Returns ok=false while the session is still open. Negative results from
// out-of-order timestamps clamp to zero instead of failing.
func RealSleepDuration(s *internal.SleepSession) (hours, minutes int64, ok bool) {
	if s.EndTime == nil {
		return 0, 0, false
	}
	end := *s.EndTime
	total := end.Sub(s.StartTime)

	var awake time.Duration
	for _, in := range s.Interruptions {
		if in.BackToSleepAt != nil {
			awake += in.BackToSleepAt.Sub(in.WokeUpAt)
		} else {
			awake += end.Sub(in.WokeUpAt)
		}
	}

	real := total - awake
	if real < 0 {
		real = 0
	}

	// Whole hours and remainder minutes, truncated.
	hours = int64(real / time.Hour)
	minutes = int64(real/time.Minute) % 60
	return hours, minutes, true
}

// FormatDuration renders a duration as "2h 5m", or "45m" when under an hour.
func FormatDuration(hours, minutes int64) string {
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
