package forecast

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/whattowear/internal/models"
)

func intp(v int) *int { return &v }

func record(ts string, temp, feelsLike int) models.ForecastRecord {
	return models.ForecastRecord{
		ValidLocal: ts,
		Temp:       intp(temp),
		FeelsLike:  intp(feelsLike),
		Phrase:     "Sunny",
		UVIndex:    3,
	}
}

func atHour(h int) string {
	return fmt.Sprintf("2016-05-04T%02d:00:00+1000", h)
}

func TestParseLocalHour(t *testing.T) {
	tests := []struct {
		ts      string
		want    int
		wantErr bool
	}{
		{"2016-05-04T08:00:00+1000", 8, false},
		{"2016-05-04T00:00:00+1000", 0, false},
		{"2016-05-04T23:00:00-0500", 23, false},
		{"2016-05-04T16:59:59+1000", 16, false},
		{"2016-05-04T24:00:00+1000", 0, true},
		{"2016-05-04Txx:00:00+1000", 0, true},
		{"2016-05-04T0", 0, true},
		{"", 0, true},
		// A shifted format is read at the fixed offset, not re-parsed.
		{"16-05-04T08:00:00+1000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.ts, func(t *testing.T) {
			got, err := ParseLocalHour(tt.ts)
			if tt.wantErr {
				var me *MalformedRecordError
				assert.ErrorAs(t, err, &me)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocalHour_AllHours(t *testing.T) {
	for h := 0; h < 24; h++ {
		got, err := ParseLocalHour(atHour(h))
		require.NoError(t, err, "hour %d", h)
		assert.Equal(t, h, got)
	}
}

func TestExtractWindow_Boundaries(t *testing.T) {
	tests := []struct {
		hour int
		want bool
	}{
		{6, false},
		{7, false},
		{8, true},
		{12, true},
		{16, true},
		{17, false},
		{23, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("hour %d", tt.hour), func(t *testing.T) {
			hours := ExtractWindow([]models.ForecastRecord{record(atHour(tt.hour), 20, 19)})
			assert.Equal(t, tt.want, len(hours) == 1)
			assert.Equal(t, tt.want, InWindow(tt.hour))
		})
	}
}

func TestExtractWindow_PreservesOrderAndProjects(t *testing.T) {
	var records []models.ForecastRecord
	for h := 0; h < 24; h++ {
		records = append(records, record(atHour(h), h, h-1))
	}

	hours := ExtractWindow(records)
	require.Len(t, hours, 9)
	for i, h := range hours {
		wantHour := 8 + i
		assert.Equal(t, HourlyWeather{
			LocalTime:   fmt.Sprintf("%02d:00:00", wantHour),
			Hour:        wantHour,
			Temperature: wantHour,
			FeelsLike:   wantHour - 1,
			Overview:    "Sunny",
			UVIndex:     3,
		}, h)
	}
}

func TestExtractWindow_KeepsProviderOrder(t *testing.T) {
	// A 48 hour feed crosses midnight; both mornings are in the window and
	// come back in feed order rather than sorted by hour.
	records := []models.ForecastRecord{
		record("2016-05-04T15:00:00+1000", 20, 20),
		record("2016-05-04T16:00:00+1000", 19, 19),
		record("2016-05-05T08:00:00+1000", 10, 9),
	}
	hours := ExtractWindow(records)
	require.Len(t, hours, 3)
	assert.Equal(t, []int{15, 16, 8}, []int{hours[0].Hour, hours[1].Hour, hours[2].Hour})
}

func TestExtractWindowReport_DropsMalformed(t *testing.T) {
	missingFeels := record(atHour(10), 18, 0)
	missingFeels.FeelsLike = nil
	missingTemp := record(atHour(11), 0, 17)
	missingTemp.Temp = nil
	nightMissing := record(atHour(2), 0, 0)
	nightMissing.FeelsLike = nil

	records := []models.ForecastRecord{
		record("garbage", 10, 10),
		record(atHour(9), 15, 14),
		missingFeels,
		missingTemp,
		nightMissing,
		record(atHour(12), 20, 21),
	}

	hours, dropped := ExtractWindowReport(records)
	require.Len(t, hours, 2)
	assert.Equal(t, 9, hours[0].Hour)
	assert.Equal(t, 12, hours[1].Hour)

	require.Len(t, dropped, 3)
	var idx []int
	for _, d := range dropped {
		idx = append(idx, d.Index)
	}
	assert.Equal(t, []int{0, 2, 3}, idx)
}

func TestExtractWindow_Empty(t *testing.T) {
	assert.Empty(t, ExtractWindow(nil))
}
