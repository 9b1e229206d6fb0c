package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/uavchum/uavchum/internal/geo"
	"github.com/uavchum/uavchum/internal/hazard"
)

// adsbHosts are tried in order until one answers. The community
// aggregators share a response shape, so one decoder covers all three.
var adsbHosts = []string{
	"https://api.adsb.lol/v2",
	"https://api.airplanes.live/v2",
	"https://opendata.adsb.fi/api/v2",
}

// ADSBClient fetches live aircraft positions from the community ADS-B
// aggregators.
type ADSBClient struct {
	name  string
	hosts []string
	cfg   ClientConfig
	cbs   []*gobreaker.CircuitBreaker
}

func NewADSBClient(client *http.Client) *ADSBClient {
	cbs := make([]*gobreaker.CircuitBreaker, len(adsbHosts))
	for i, h := range adsbHosts {
		cbs[i] = newBreaker("adsb:" + h)
	}
	return &ADSBClient{
		name:  "adsb",
		hosts: adsbHosts,
		cfg:   defaultConfig(client),
		cbs:   cbs,
	}
}

func (c *ADSBClient) Name() string {
	return c.name
}

type adsbResponse struct {
	Aircraft []adsbAircraft `json:"ac"`
}

type adsbAircraft struct {
	Hex          string          `json:"hex"`
	Flight       string          `json:"flight"`
	Registration string          `json:"r"`
	Type         string          `json:"t"`
	Squawk       string          `json:"squawk"`
	Lat          *float64        `json:"lat"`
	Lon          *float64        `json:"lon"`
	AltBaro      json.RawMessage `json:"alt_baro"` // feet, or the string "ground"
	GroundSpeed  *float64        `json:"gs"`       // knots
	Track        *float64        `json:"track"`
}

// Fetch queries each aggregator in order and returns the first
// successful, non-empty decode. radiusNM caps at 250, the aggregators'
// own limit.
func (c *ADSBClient) Fetch(ctx context.Context, center geo.Point, radiusNM float64) ([]hazard.TrafficPoint, error) {
	if radiusNM <= 0 || radiusNM > 250 {
		radiusNM = 250
	}

	var lastErr error
	for i, host := range c.hosts {
		buildRequest := func() (*http.Request, error) {
			u := fmt.Sprintf("%s/lat/%f/lon/%f/dist/%d", host, center.Lat, center.Lon, int(radiusNM))
			return http.NewRequest(http.MethodGet, u, nil)
		}

		resp, err := doWithResilience(ctx, c.cfg, c.cbs[i], buildRequest)
		if err != nil {
			lastErr = err
			log.Printf("WARN: ADS-B host %s failed, trying next: %v", host, err)
			continue
		}

		var payload adsbResponse
		err = json.NewDecoder(resp.Body).Decode(&payload)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("decode ADS-B response from %s: %w", host, err)
			continue
		}
		return convertAircraft(payload.Aircraft), nil
	}
	return nil, fmt.Errorf("all ADS-B hosts failed: %w", lastErr)
}

func convertAircraft(aircraft []adsbAircraft) []hazard.TrafficPoint {
	points := make([]hazard.TrafficPoint, 0, len(aircraft))
	for _, ac := range aircraft {
		if ac.Lat == nil || ac.Lon == nil {
			continue
		}
		p := hazard.TrafficPoint{
			Hex:          ac.Hex,
			Callsign:     strings.TrimSpace(ac.Flight),
			Lat:          *ac.Lat,
			Lon:          *ac.Lon,
			HeadingDeg:   ac.Track,
			Registration: ac.Registration,
			AircraftType: ac.Type,
			Squawk:       ac.Squawk,
		}
		if altFt, onGround := parseAltBaro(ac.AltBaro); onGround {
			p.OnGround = true
		} else if altFt != nil {
			m := geo.FeetToMeters(*altFt)
			p.AltitudeM = &m
		}
		if ac.GroundSpeed != nil {
			ms := geo.KnotsToKmh(*ac.GroundSpeed) / 3.6
			p.SpeedMS = &ms
		}
		points = append(points, p)
	}
	return points
}

// parseAltBaro handles the aggregators' polymorphic alt_baro field: a
// barometric altitude in feet, or the literal string "ground".
func parseAltBaro(raw json.RawMessage) (altFt *float64, onGround bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return nil, s == "ground"
	}
	var ft float64
	if err := json.Unmarshal(raw, &ft); err == nil {
		return &ft, false
	}
	return nil, false
}
