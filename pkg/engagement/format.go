package engagement

import (
	"fmt"
	"math"
)

// FormatMinutes renders a duration as "1h5m", or "45m" when under an hour.
func FormatMinutes(m float64) string {
	h, mins := split(m)
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// FormatHours renders a duration as hours and zero-padded minutes, "2h05".
// Negative and NaN durations render as "0h00".
func FormatHours(m float64) string {
	h, mins := split(m)
	return fmt.Sprintf("%dh%02d", h, mins)
}

// split divides m minutes into whole hours and rounded minutes, carrying a
// rounded 60 into the hours.
func split(m float64) (int, int) {
	if math.IsNaN(m) || m < 0 {
		return 0, 0
	}
	h := int(m / 60)
	mins := int(math.Round(math.Mod(m, 60)))
	if mins == 60 {
		h++
		mins = 0
	}
	return h, mins
}
