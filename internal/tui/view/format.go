package view

import (
	"fmt"
	"time"
)

// FormatDuration formats minutes as "Xh Ym".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatTimeRange formats a session window as "15:00-15:45".
func FormatTimeRange(start, end time.Time) string {
	return start.Format("15:04") + "-" + end.Format("15:04")
}

// FormatMoney formats a session value in euros.
func FormatMoney(v float64) string {
	return fmt.Sprintf("%.2f€", v)
}
