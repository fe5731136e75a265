package console

import (
	"time"

	"github.com/xeonx/timeago"
)

// FormatTime renders t relative to now, e.g. "3 hours ago".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return timeago.English.Format(t)
}
