// Package format holds the human-readable value formatting shared by
// notification messages and the API.
package format

import (
	"fmt"
	"time"
)

func Temp(f *float64) string {
	if f == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f°F", *f)
}

func Power(watts *float64) string {
	if watts == nil {
		return "—"
	}
	w := *watts
	if w >= 1000 || w <= -1000 {
		return fmt.Sprintf("%.2f kW", w/1000)
	}
	return fmt.Sprintf("%.0f W", w)
}

func Voltage(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.1f V", *v)
}

func Pct(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", *v)
}

// Ago renders a timestamp as a coarse "how long ago" string.
func Ago(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "never"
	}

	secs := int(now.Sub(t).Seconds())
	switch {
	case secs < 90:
		return fmt.Sprintf("%ds ago", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm ago", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%dh ago", secs/3600)
	default:
		return fmt.Sprintf("%dd ago", secs/86400)
	}
}
