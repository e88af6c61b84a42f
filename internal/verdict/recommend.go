package verdict

import (
	"github.com/lox/whattowear/internal/forecast"
)

// Feels-like thresholds, in provider units.
const (
	HotDayMaximum = 23 // maximum at or above: dress for heat
	MildMinimum   = 14 // minimum above: shorts even on a cooler day
	JumperMinimum = 12 // minimum below: bring a jumper
	HatMaximum    = 18 // maximum above: wear a hat
)

const (
	TopHalfSleeve = "half-sleeve"
	TopLongSleeve = "long-sleeve"
	BottomShorts  = "shorts"
	BottomPants   = "full-length pants"
)

// Recommendation is what to wear and carry for the day.
type Recommendation struct {
	Top           string `json:"top"`
	Bottom        string `json:"bottom"`
	WearJumper    bool   `json:"wearJumper"`
	WearHat       bool   `json:"wearHat"`
	CarryUmbrella bool   `json:"carryUmbrella"`
}

type decision struct {
	rec      Recommendation
	clothing bool // a clothing rule has fired
	hotDay   bool
}

type rule struct {
	name  string
	apply func(s forecast.DaySummary, d *decision)
}

// rules run in order; later rules may overwrite fields set by earlier ones.
var rules = []rule{
	{"hot-day", func(s forecast.DaySummary, d *decision) {
		if s.Maximum < HotDayMaximum {
			return
		}
		d.rec.Bottom = BottomShorts
		d.rec.Top = TopHalfSleeve
		d.rec.WearJumper = false
		d.clothing = true
		d.hotDay = true
	}},
	{"mild-day", func(s forecast.DaySummary, d *decision) {
		if d.clothing || s.Minimum <= MildMinimum {
			return
		}
		d.rec.Bottom = BottomShorts
		d.rec.Top = TopHalfSleeve
		d.clothing = true
	}},
	{"cool-day", func(s forecast.DaySummary, d *decision) {
		if d.clothing {
			return
		}
		d.rec.Bottom = BottomPants
		d.rec.Top = TopLongSleeve
		d.rec.WearJumper = true
		d.clothing = true
	}},
	{"jumper", func(s forecast.DaySummary, d *decision) {
		// A hot day has already settled the jumper.
		if d.hotDay {
			return
		}
		d.rec.WearJumper = s.Minimum < JumperMinimum
	}},
	{"hat", func(s forecast.DaySummary, d *decision) {
		d.rec.WearHat = s.Maximum > HatMaximum
	}},
	{"umbrella", func(s forecast.DaySummary, d *decision) {
		// Precipitation is not modelled yet.
		d.rec.CarryUmbrella = false
	}},
}

// Rules returns the rule names in evaluation order.
func Rules() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// Recommend applies the rule table to a day summary.
func Recommend(s forecast.DaySummary) Recommendation {
	var d decision
	for _, r := range rules {
		r.apply(s, &d)
	}
	return d.rec
}
