package forecast

import (
	"github.com/lox/whattowear/internal/models"
)

// Hours of interest: local hours strictly after WindowOpenAfter and strictly
// before WindowCloseBefore, i.e. 08:00 through 16:00.
const (
	WindowOpenAfter   = 7
	WindowCloseBefore = 17
)

// Fixed byte offsets into fcst_valid_local ("2016-05-04T08:00:00+1000").
// TWC v1 timestamps are ISO-8601 with a four-digit year; if the format
// changes these offsets must change with it.
const (
	hourOffset     = 11
	localTimeStart = 11
	localTimeEnd   = 19
)

// HourlyWeather is the projection of a forecast record that falls inside the
// hours of interest.
type HourlyWeather struct {
	LocalTime   string `json:"localTime"`
	Hour        int    `json:"-"`
	Temperature int    `json:"temperature"`
	FeelsLike   int    `json:"feelsLike"`
	Overview    string `json:"overview"`
	UVIndex     int    `json:"uvIndex"`
}

// InWindow reports whether a local hour is one of the hours of interest.
func InWindow(hour int) bool {
	return hour > WindowOpenAfter && hour < WindowCloseBefore
}

// ParseLocalHour reads the two-digit hour at the fixed offset of a provider
// local timestamp.
func ParseLocalHour(ts string) (int, error) {
	hour, me := parseLocalHour(ts)
	if me != nil {
		return 0, me
	}
	return hour, nil
}

func parseLocalHour(ts string) (int, *MalformedRecordError) {
	if len(ts) < hourOffset+2 {
		return 0, &MalformedRecordError{Value: ts, Reason: "timestamp too short"}
	}
	hi, lo := ts[hourOffset], ts[hourOffset+1]
	if hi < '0' || hi > '9' || lo < '0' || lo > '9' {
		return 0, &MalformedRecordError{Value: ts, Reason: "hour is not numeric"}
	}
	hour := int(hi-'0')*10 + int(lo-'0')
	if hour > 23 {
		return 0, &MalformedRecordError{Value: ts, Reason: "hour out of range"}
	}
	return hour, nil
}

func localTime(ts string) string {
	if len(ts) < localTimeEnd {
		return ts[localTimeStart:]
	}
	return ts[localTimeStart:localTimeEnd]
}

// ExtractWindow returns the records inside the hours of interest, in input
// order. Records with an unusable timestamp or temperature are skipped.
func ExtractWindow(records []models.ForecastRecord) []HourlyWeather {
	hours, _ := ExtractWindowReport(records)
	return hours
}

// ExtractWindowReport behaves like ExtractWindow and also returns one
// MalformedRecordError per skipped record, so callers can log or count them.
// Records that parse cleanly but fall outside the window are not reported.
func ExtractWindowReport(records []models.ForecastRecord) ([]HourlyWeather, []*MalformedRecordError) {
	var hours []HourlyWeather
	var dropped []*MalformedRecordError

	for i, rec := range records {
		hour, me := parseLocalHour(rec.ValidLocal)
		if me != nil {
			me.Index = i
			dropped = append(dropped, me)
			continue
		}
		if !InWindow(hour) {
			continue
		}
		if rec.FeelsLike == nil || rec.Temp == nil {
			dropped = append(dropped, &MalformedRecordError{Index: i, Value: rec.ValidLocal, Reason: "temperature missing"})
			continue
		}

		hours = append(hours, HourlyWeather{
			LocalTime:   localTime(rec.ValidLocal),
			Hour:        hour,
			Temperature: *rec.Temp,
			FeelsLike:   *rec.FeelsLike,
			Overview:    rec.Phrase,
			UVIndex:     rec.UVIndex,
		})
	}

	return hours, dropped
}
