package verdict

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/whattowear/internal/forecast"
	"github.com/lox/whattowear/internal/models"
)

// Mode selects how much of the day summary a verdict carries.
type Mode string

const (
	ModeSimple   Mode = "simple"
	ModeDetailed Mode = "detailed"
)

// ParseMode accepts "simple" or "detailed" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSimple:
		return ModeSimple, nil
	case ModeDetailed:
		return ModeDetailed, nil
	}
	return "", fmt.Errorf("unknown verdict mode %q", s)
}

// Verdict is the response for a single day. DaySummary is nil in simple mode.
type Verdict struct {
	Recommendation Recommendation       `json:"recommendation"`
	DaySummary     *forecast.DaySummary `json:"daySummary,omitempty"`
	DayContext     DayContext           `json:"dayContext"`
}

// Assemble builds a verdict, leaving out the day summary in simple mode.
func Assemble(rec Recommendation, summary forecast.DaySummary, day DayContext, mode Mode) Verdict {
	v := Verdict{
		Recommendation: rec,
		DayContext:     day,
	}
	if mode != ModeSimple {
		s := summary
		v.DaySummary = &s
	}
	return v
}

// Compute runs the whole decision pipeline over a forecast: window, summary,
// recommendation, then assembly. It fails with *forecast.EmptyWindowError
// when no usable record falls in the hours of interest.
func Compute(records []models.ForecastRecord, clock Clock, mode Mode) (Verdict, error) {
	v, _, err := compute(records, clock, mode)
	return v, err
}

func compute(records []models.ForecastRecord, clock Clock, mode Mode) (Verdict, []*forecast.MalformedRecordError, error) {
	hours, dropped := forecast.ExtractWindowReport(records)
	summary, err := forecast.Summarize(hours)
	if err != nil {
		var ewe *forecast.EmptyWindowError
		if errors.As(err, &ewe) {
			ewe.Total = len(records)
			ewe.Dropped = len(dropped)
		}
		return Verdict{}, dropped, err
	}

	rec := Recommend(summary)
	return Assemble(rec, summary, BuildDayContext(clock), mode), dropped, nil
}
