package format

import (
	"testing"
	"time"

	"github.com/homefleet/safety-monitor/pkg/types"

	"github.com/matryer/is"
)

func TestFormatValues(t *testing.T) {
	is := is.New(t)

	is.Equal("41.0°F", Temp(types.Ptr(41.0)))
	is.Equal("—", Temp(nil))

	is.Equal("850 W", Power(types.Ptr(850.0)))
	is.Equal("1.55 kW", Power(types.Ptr(1550.0)))
	is.Equal("-2.40 kW", Power(types.Ptr(-2400.0)))

	is.Equal("53.2 V", Voltage(types.Ptr(53.2)))
	is.Equal("64%", Pct(types.Ptr(64.0)))
}

func TestAgo(t *testing.T) {
	is := is.New(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	is.Equal("never", Ago(time.Time{}, now))
	is.Equal("45s ago", Ago(now.Add(-45*time.Second), now))
	is.Equal("5m ago", Ago(now.Add(-5*time.Minute), now))
	is.Equal("3h ago", Ago(now.Add(-3*time.Hour), now))
	is.Equal("2d ago", Ago(now.Add(-49*time.Hour), now))
}
