// README: Pure display formatting for distances and durations.
package distance

import "fmt"

const metersPerMile = 1609.344

// FormatDistance renders meters as miles for display, e.g. "12.4 mi".
func FormatDistance(meters int) string {
	return fmt.Sprintf("%.1f mi", float64(meters)/metersPerMile)
}

// FormatDuration renders seconds as "H hr M min", dropping the hour part for
// short trips. Sub-minute durations round up to one minute.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0 min"
	}
	minutes := (seconds + 59) / 60
	h := minutes / 60
	m := minutes % 60
	if h == 0 {
		return fmt.Sprintf("%d min", m)
	}
	if m == 0 {
		return fmt.Sprintf("%d hr", h)
	}
	return fmt.Sprintf("%d hr %d min", h, m)
}
