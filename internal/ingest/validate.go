package ingest

import (
	"github.com/lox/whattowear/internal/forecast"
	"github.com/lox/whattowear/internal/models"
)

const (
	FlagTempOutOfRange     = "temp_out_of_range"
	FlagTempMissing        = "temp_missing"
	FlagFeelsLikeMissing   = "feels_like_missing"
	FlagFeelsLikeRange     = "feels_like_out_of_range"
	FlagUVInvalid          = "uv_invalid"
	FlagTimestampMalformed = "timestamp_malformed"
	FlagPhraseTooLong      = "phrase_too_long"
)

const maxPhraseLen = 32

// tempBounds returns the plausible temperature range for a TWC units code.
// "e" is imperial (Fahrenheit); the others report Celsius.
func tempBounds(units string) (lo, hi int) {
	if units == "e" {
		return -80, 140
	}
	return -60, 60
}

// ValidateRecord returns quality flags for a forecast record. Flagged records
// are still passed on; the window extractor decides what it can use.
func ValidateRecord(rec *models.ForecastRecord, units string) []string {
	var flags []string

	if _, err := forecast.ParseLocalHour(rec.ValidLocal); err != nil {
		flags = append(flags, FlagTimestampMalformed)
	}

	lo, hi := tempBounds(units)
	if rec.Temp == nil {
		flags = append(flags, FlagTempMissing)
	} else if *rec.Temp < lo || *rec.Temp > hi {
		flags = append(flags, FlagTempOutOfRange)
	}

	if rec.FeelsLike == nil {
		flags = append(flags, FlagFeelsLikeMissing)
	} else if *rec.FeelsLike < lo || *rec.FeelsLike > hi {
		flags = append(flags, FlagFeelsLikeRange)
	}

	if rec.UVIndex < 0 || rec.UVIndex > 16 {
		flags = append(flags, FlagUVInvalid)
	}

	if len(rec.Phrase) > maxPhraseLen {
		flags = append(flags, FlagPhraseTooLong)
	}

	return flags
}
