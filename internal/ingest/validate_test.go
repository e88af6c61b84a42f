package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/whattowear/internal/models"
)

func intp(v int) *int { return &v }

func TestValidateRecord(t *testing.T) {
	good := func() models.ForecastRecord {
		return models.ForecastRecord{
			ValidLocal: "2016-05-04T10:00:00+1000",
			Temp:       intp(14),
			FeelsLike:  intp(13),
			Phrase:     "Mostly Sunny",
			UVIndex:    3,
		}
	}

	tests := []struct {
		name   string
		units  string
		modify func(r *models.ForecastRecord)
		want   []string
	}{
		{"clean record", "m", func(r *models.ForecastRecord) {}, nil},
		{"missing temp", "m", func(r *models.ForecastRecord) { r.Temp = nil }, []string{FlagTempMissing}},
		{"missing feels like", "m", func(r *models.ForecastRecord) { r.FeelsLike = nil }, []string{FlagFeelsLikeMissing}},
		{"celsius too hot", "m", func(r *models.ForecastRecord) { r.Temp = intp(75) }, []string{FlagTempOutOfRange}},
		{"fahrenheit in range", "e", func(r *models.ForecastRecord) { r.Temp = intp(75); r.FeelsLike = intp(74) }, nil},
		{"fahrenheit too cold", "e", func(r *models.ForecastRecord) { r.FeelsLike = intp(-90) }, []string{FlagFeelsLikeRange}},
		{"both temperatures out of range", "m", func(r *models.ForecastRecord) {
			r.Temp = intp(70)
			r.FeelsLike = intp(-70)
		}, []string{FlagTempOutOfRange, FlagFeelsLikeRange}},
		{"negative uv", "m", func(r *models.ForecastRecord) { r.UVIndex = -1 }, []string{FlagUVInvalid}},
		{"uv above scale", "m", func(r *models.ForecastRecord) { r.UVIndex = 17 }, []string{FlagUVInvalid}},
		{"bad timestamp", "m", func(r *models.ForecastRecord) { r.ValidLocal = "2016-05-04" }, []string{FlagTimestampMalformed}},
		{"long phrase", "m", func(r *models.ForecastRecord) { r.Phrase = strings.Repeat("x", 33) }, []string{FlagPhraseTooLong}},
		{"several problems", "m", func(r *models.ForecastRecord) {
			r.ValidLocal = ""
			r.Temp = nil
			r.FeelsLike = nil
		}, []string{FlagTimestampMalformed, FlagTempMissing, FlagFeelsLikeMissing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := good()
			tt.modify(&rec)
			assert.Equal(t, tt.want, ValidateRecord(&rec, tt.units))
		})
	}
}
