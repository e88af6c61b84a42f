package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// ParseGeocode parses a "lat,long" string as sent in the geocode query parameter.
func ParseGeocode(s string) (Coordinates, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinates{}, fmt.Errorf("geocode %q: want lat,long", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: latitude: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: longitude: %w", s, err)
	}
	return Coordinates{Latitude: lat, Longitude: lon}, nil
}

func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// Query carries the upstream fetch parameters. It configures the provider
// call only and never influences the recommendation rules.
type Query struct {
	Coordinates Coordinates
	Units       string `validate:"oneof=m e h s"`
	Language    string `validate:"required,max=10"`
}

// ForecastRecord is one hour of the TWC hourly forecast.
type ForecastRecord struct {
	ValidLocal       string `json:"fcst_valid_local"`
	DayOfWeek        string `json:"dow,omitempty"`
	Temp             *int   `json:"temp"`
	FeelsLike        *int   `json:"feels_like"`
	Phrase           string `json:"phrase_32char"`
	UVIndex          int    `json:"uv_index"`
	PrecipChance     *int   `json:"pop,omitempty"`
	PrecipType       string `json:"precip_type,omitempty"`
	WindSpeed        *int   `json:"wspd,omitempty"`
	RelativeHumidity *int   `json:"rh,omitempty"`
	IconCode         *int   `json:"icon_code,omitempty"`
}

// Metadata mirrors the metadata block TWC attaches to every forecast response.
type Metadata struct {
	Language      string  `json:"language"`
	TransactionID string  `json:"transaction_id"`
	Version       string  `json:"version"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Units         string  `json:"units"`
	ExpireTimeGMT int64   `json:"expire_time_gmt"`
	StatusCode    int     `json:"status_code"`
}

// ForecastSet is an ordered hourly forecast as returned by the provider.
type ForecastSet struct {
	Metadata  Metadata         `json:"metadata"`
	Forecasts []ForecastRecord `json:"forecasts"`
}

// Truncate returns a copy holding at most the first n forecasts.
func (fs ForecastSet) Truncate(n int) ForecastSet {
	if n < 0 || n >= len(fs.Forecasts) {
		return fs
	}
	out := fs
	out.Forecasts = append([]ForecastRecord(nil), fs.Forecasts[:n]...)
	return out
}

// DailyForecast is one day of the TWC 10-day forecast.
type DailyForecast struct {
	ValidLocal string `json:"fcst_valid_local"`
	DayOfWeek  string `json:"dow"`
	Narrative  string `json:"narrative"`
	MaxTemp    *int   `json:"max_temp"`
	MinTemp    *int   `json:"min_temp"`
	Sunrise    string `json:"sunrise,omitempty"`
	Sunset     string `json:"sunset,omitempty"`
}

// DailyForecastSet is the 10-day daily forecast response.
type DailyForecastSet struct {
	Metadata  Metadata        `json:"metadata"`
	Forecasts []DailyForecast `json:"forecasts"`
}
