package weather

import (
	"time"

	"github.com/uavchum/uavchum/internal/geo"
)

// Group is a normalized high-level weather condition bucket derived
// from the WMO weather code.
type Group string

const (
	GroupUnknown Group = "unknown"
	GroupClear   Group = "clear"
	GroupCloud   Group = "cloud"
	GroupFog     Group = "fog"
	GroupRain    Group = "rain"
	GroupSnow    Group = "snow"
	GroupStorm   Group = "storm"
)

// Current holds the present surface conditions at the requested point.
// Wind speeds are in knots as delivered by the provider.
type Current struct {
	TempC       float64  `json:"tempC"`
	FeelsLikeC  float64  `json:"feelsLikeC"`
	Humidity    float64  `json:"humidityPercent"`
	PressureHPa float64  `json:"pressureHpa"`
	PrecipMM    float64  `json:"precipMm"`
	CloudCover  float64  `json:"cloudCoverPercent"`
	WindSpeedKn float64  `json:"windSpeedKn"`
	WindGustsKn float64  `json:"windGustsKn"`
	WindDirDeg  *float64 `json:"windDirDeg,omitempty"`
	WindDir     string   `json:"windDir"`
	Wind80mKn   *float64 `json:"wind80mKn,omitempty"`
	WeatherCode int      `json:"weatherCode"`
	IsDay       bool     `json:"isDay"`

	Desc  string `json:"desc"`
	Icon  string `json:"icon"`
	Group Group  `json:"group"`
}

// Hour is one record of the hourly forecast sequence, ordered by time.
type Hour struct {
	Time       time.Time `json:"time"`
	TempC      float64   `json:"tempC"`
	PrecipProb float64   `json:"precipProbPercent"`
	WindKn     float64   `json:"windKn"`
	GustsKn    float64   `json:"gustsKn"`
	Wind80mKn  *float64  `json:"wind80mKn,omitempty"`
	Desc       string    `json:"desc"`
	Icon       string    `json:"icon"`
	Group      Group     `json:"group"`
}

// Day is one record of the daily forecast sequence, ordered by date.
type Day struct {
	Date       string   `json:"date"`
	HighC      float64  `json:"highC"`
	LowC       float64  `json:"lowC"`
	PrecipMM   float64  `json:"precipMm"`
	PrecipProb *float64 `json:"precipProbPercent,omitempty"`
	WindMaxKn  float64  `json:"windMaxKn"`
	GustsMaxKn float64  `json:"gustsMaxKn"`
	Sunrise    string   `json:"sunrise"`
	Sunset     string   `json:"sunset"`
	CivilDawn  string   `json:"civilDawn,omitempty"`
	CivilDusk  string   `json:"civilDusk,omitempty"`
	Desc       string   `json:"desc"`
	Icon       string   `json:"icon"`
	Group      Group    `json:"group"`
}

// Snapshot is the full weather picture for one location at one fetch.
// It is immutable once fetched; assessments never mutate it.
type Snapshot struct {
	Location   geo.Point `json:"location"`
	Current    Current   `json:"current"`
	Hourly     []Hour    `json:"hourly"`
	Daily      []Day     `json:"daily"`
	Timezone   string    `json:"timezone"`
	ElevationM *float64  `json:"elevationM,omitempty"`
	FetchedAt  time.Time `json:"fetchedAt"`
}
