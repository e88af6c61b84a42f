package forecast

// DaySummary is the feels-like temperature range across the hours of interest.
type DaySummary struct {
	Minimum       int `json:"minimum"`
	MinimumAtHour int `json:"minimumAtHour"`
	Maximum       int `json:"maximum"`
	MaximumAtHour int `json:"maximumAtHour"`
}

// Summarize scans the windowed hours once, tracking the lowest and highest
// feels-like values and the hour each was first seen. Ties keep the earliest
// hour.
func Summarize(hours []HourlyWeather) (DaySummary, error) {
	if len(hours) == 0 {
		return DaySummary{}, &EmptyWindowError{}
	}

	first := hours[0]
	s := DaySummary{
		Minimum:       first.FeelsLike,
		MinimumAtHour: first.Hour,
		Maximum:       first.FeelsLike,
		MaximumAtHour: first.Hour,
	}

	for _, h := range hours[1:] {
		if h.FeelsLike < s.Minimum {
			s.Minimum = h.FeelsLike
			s.MinimumAtHour = h.Hour
		}
		if h.FeelsLike > s.Maximum {
			s.Maximum = h.FeelsLike
			s.MaximumAtHour = h.Hour
		}
	}

	return s, nil
}
