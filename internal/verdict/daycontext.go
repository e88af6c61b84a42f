package verdict

import (
	"time"
)

const dateLayout = "02/01/2006"

// Clock supplies the current time. Day context is derived from it rather than
// from the forecast.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// DayContext describes the calendar day a verdict is for.
type DayContext struct {
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	IsHoliday bool   `json:"isHoliday"`
}

// BuildDayContext reports today's date and weekday. IsHoliday is set on
// weekends only; public holidays are not considered.
func BuildDayContext(clock Clock) DayContext {
	now := clock.Now()
	wd := now.Weekday()
	return DayContext{
		Date:      now.Format(dateLayout),
		Weekday:   wd.String(),
		IsHoliday: wd == time.Saturday || wd == time.Sunday,
	}
}
