package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/uavchum/uavchum/internal/geo"
	"github.com/uavchum/uavchum/internal/weather"
)

// OpenMeteoProvider implements the weather.Provider interface for
// Open-Meteo's forecast API. No API key is required.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	cfg     ClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		cfg:     defaultConfig(client),
		circuit: newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

const openMeteoTimeLayout = "2006-01-02T15:04"

type openMeteoPayload struct {
	Timezone  string   `json:"timezone"`
	Elevation *float64 `json:"elevation"`
	Current   struct {
		Time          string   `json:"time"`
		Temperature   float64  `json:"temperature_2m"`
		Humidity      float64  `json:"relative_humidity_2m"`
		FeelsLike     float64  `json:"apparent_temperature"`
		Precipitation float64  `json:"precipitation"`
		WeatherCode   int      `json:"weather_code"`
		WindSpeed     float64  `json:"wind_speed_10m"`
		WindDirection *float64 `json:"wind_direction_10m"`
		WindGusts     float64  `json:"wind_gusts_10m"`
		Pressure      float64  `json:"surface_pressure"`
		CloudCover    float64  `json:"cloud_cover"`
		IsDay         int      `json:"is_day"`
	} `json:"current"`
	Hourly struct {
		Time        []string   `json:"time"`
		Temperature []float64  `json:"temperature_2m"`
		PrecipProb  []float64  `json:"precipitation_probability"`
		WeatherCode []int      `json:"weather_code"`
		WindSpeed   []float64  `json:"wind_speed_10m"`
		WindGusts   []float64  `json:"wind_gusts_10m"`
		Wind80m     []*float64 `json:"wind_speed_80m"`
	} `json:"hourly"`
	Daily struct {
		Time        []string   `json:"time"`
		WeatherCode []int      `json:"weather_code"`
		TempMax     []float64  `json:"temperature_2m_max"`
		TempMin     []float64  `json:"temperature_2m_min"`
		PrecipSum   []float64  `json:"precipitation_sum"`
		PrecipProb  []*float64 `json:"precipitation_probability_max"`
		WindMax     []float64  `json:"wind_speed_10m_max"`
		GustsMax    []float64  `json:"wind_gusts_10m_max"`
		Sunrise     []string   `json:"sunrise"`
		Sunset      []string   `json:"sunset"`
	} `json:"daily"`
}

// Fetch retrieves and normalizes the full forecast document. Wind
// speeds are requested in knots so assessment thresholds convert once.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc geo.Point) (weather.Snapshot, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%.4f", loc.Lat))
		values.Set("longitude", fmt.Sprintf("%.4f", loc.Lon))
		values.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,"+
			"precipitation,weather_code,wind_speed_10m,wind_direction_10m,wind_gusts_10m,"+
			"surface_pressure,cloud_cover,is_day")
		values.Set("hourly", "temperature_2m,precipitation_probability,weather_code,"+
			"wind_speed_10m,wind_gusts_10m,wind_speed_80m")
		values.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,"+
			"precipitation_sum,precipitation_probability_max,wind_speed_10m_max,"+
			"wind_gusts_10m_max,sunrise,sunset")
		values.Set("timezone", "auto")
		values.Set("wind_speed_unit", "kn")
		values.Set("forecast_hours", "24")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doWithResilience(ctx, p.cfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Snapshot{}, err
	}
	defer resp.Body.Close()

	var payload openMeteoPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("decode openmeteo response: %w", err)
	}

	tz, err := time.LoadLocation(payload.Timezone)
	if err != nil {
		log.Printf("WARN: unknown timezone %q, falling back to UTC: %v", payload.Timezone, err)
		tz = time.UTC
	}

	c := payload.Current
	decoded := weather.DecodeWMO(c.WeatherCode)

	snap := weather.Snapshot{
		Location: loc,
		Current: weather.Current{
			TempC:       c.Temperature,
			FeelsLikeC:  c.FeelsLike,
			Humidity:    c.Humidity,
			PressureHPa: c.Pressure,
			PrecipMM:    c.Precipitation,
			CloudCover:  c.CloudCover,
			WindSpeedKn: c.WindSpeed,
			WindGustsKn: c.WindGusts,
			WindDirDeg:  c.WindDirection,
			WindDir:     geo.WindDirLabel(c.WindDirection),
			WeatherCode: c.WeatherCode,
			IsDay:       c.IsDay == 1,
			Desc:        decoded.Desc,
			Icon:        decoded.Icon,
			Group:       decoded.Group,
		},
		Timezone:   payload.Timezone,
		ElevationM: payload.Elevation,
		FetchedAt:  time.Now().UTC(),
	}

	h := payload.Hourly
	for i := range h.Time {
		// One short array drops the record, not the batch.
		if i >= len(h.Temperature) || i >= len(h.PrecipProb) || i >= len(h.WeatherCode) ||
			i >= len(h.WindSpeed) || i >= len(h.WindGusts) {
			continue
		}
		ts, err := time.ParseInLocation(openMeteoTimeLayout, h.Time[i], tz)
		if err != nil {
			log.Printf("WARN: skipping hourly record with bad time %q: %v", h.Time[i], err)
			continue
		}
		hd := weather.DecodeWMO(h.WeatherCode[i])
		hour := weather.Hour{
			Time:       ts,
			TempC:      h.Temperature[i],
			PrecipProb: h.PrecipProb[i],
			WindKn:     h.WindSpeed[i],
			GustsKn:    h.WindGusts[i],
			Desc:       hd.Desc,
			Icon:       hd.Icon,
			Group:      hd.Group,
		}
		if i < len(h.Wind80m) {
			hour.Wind80mKn = h.Wind80m[i]
		}
		snap.Hourly = append(snap.Hourly, hour)
	}

	// The 80 m wind is hourly-only; the first slot serves as the
	// current-conditions proxy.
	if len(snap.Hourly) > 0 {
		snap.Current.Wind80mKn = snap.Hourly[0].Wind80mKn
	}

	d := payload.Daily
	for i := range d.Time {
		if i >= len(d.WeatherCode) || i >= len(d.TempMax) || i >= len(d.TempMin) ||
			i >= len(d.PrecipSum) || i >= len(d.WindMax) || i >= len(d.GustsMax) ||
			i >= len(d.Sunrise) || i >= len(d.Sunset) {
			continue
		}
		dd := weather.DecodeWMO(d.WeatherCode[i])
		dawn, dusk := geo.CivilTwilightUTC(loc.Lat, loc.Lon, d.Time[i])
		day := weather.Day{
			Date:       d.Time[i],
			HighC:      d.TempMax[i],
			LowC:       d.TempMin[i],
			PrecipMM:   d.PrecipSum[i],
			WindMaxKn:  d.WindMax[i],
			GustsMaxKn: d.GustsMax[i],
			Sunrise:    d.Sunrise[i],
			Sunset:     d.Sunset[i],
			CivilDawn:  dawn,
			CivilDusk:  dusk,
			Desc:       dd.Desc,
			Icon:       dd.Icon,
			Group:      dd.Group,
		}
		if i < len(d.PrecipProb) {
			day.PrecipProb = d.PrecipProb[i]
		}
		snap.Daily = append(snap.Daily, day)
	}

	return snap, nil
}
