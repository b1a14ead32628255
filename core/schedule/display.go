package schedule

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Icon colours, by urgency
const (
	ColorOutside  = "#4a4a4a"
	ColorPlenty   = "#8B9A71" // > 10 min
	ColorSoon     = "#E9C164" // > 6 min
	ColorHurry    = "#fdb580" // > 2 min
	ColorLast     = "#6E2032"
	ColorFlashing = "#e02f58" // even seconds of the last 30s
)

const iconTmpl = `<svg xmlns="http://www.w3.org/2000/svg" width="64" height="64" viewBox="0 0 64 64">` +
	`<rect width="60" height="60" x="2" y="2" rx="12" ry="12" fill="%s"/></svg>`

// FormatCountdown formats a remaining time as HH:MM:SS.
func FormatCountdown(remainingMillis int64) string {
	hrs, mins, secs := splitMillis(remainingMillis)
	return fmt.Sprintf("%02d:%02d:%02d", hrs, mins, secs)
}

// Title is the short "countdown | next" line used for window titles.
func Title(res Result) string {
	hrs, mins, secs := splitMillis(res.RemainingMillis)
	var countdown string
	if hrs > 0 {
		countdown = fmt.Sprintf("%d:%02d:%02d", hrs, mins, secs)
	} else {
		countdown = fmt.Sprintf("%02d:%02d", mins, secs)
	}
	next := res.NextPeriod
	if next == LabelNextSchoolDay {
		next = "Next Day"
	}
	return countdown + " | " + next
}

// Urgency picks the icon colour for res.
func Urgency(res Result) string {
	if res.Outside {
		return ColorOutside
	}
	remaining := res.Remaining()
	switch {
	case remaining > 10*time.Minute:
		return ColorPlenty
	case remaining > 6*time.Minute:
		return ColorSoon
	case remaining > 2*time.Minute:
		return ColorHurry
	}
	_, mins, secs := splitMillis(res.RemainingMillis)
	if mins == 0 && secs < 30 && secs%2 == 0 {
		return ColorFlashing
	}
	return ColorLast
}

// IconSVG renders the status icon in the given colour.
func IconSVG(color string) string {
	return fmt.Sprintf(iconTmpl, color)
}

// IconDataURL is IconSVG as a data: URL, ready for a <link rel="icon">.
func IconDataURL(color string) string {
	return "data:image/svg+xml;charset=utf-8," + strings.ReplaceAll(url.QueryEscape(IconSVG(color)), "+", "%20")
}

// IconMemo remembers the last icon colour shown by one client, so unchanged icons are not re-sent.
// The zero value is ready to use; it is not safe for concurrent use.
type IconMemo struct {
	last string
}

// Update records color and reports whether it differs from the previous one.
func (m *IconMemo) Update(color string) bool {
	if color == m.last {
		return false
	}
	m.last = color
	return true
}

// FormatClock formats the wall-clock time for display, format is "12" or "24".
func FormatClock(t time.Time, format string) string {
	if format == "24" {
		return t.Format("15:04")
	}
	return t.Format("3:04 PM")
}

func splitMillis(ms int64) (hrs, mins, secs int64) {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return total / 3600, (total % 3600) / 60, total % 60
}
