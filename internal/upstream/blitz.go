package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/uavchum/uavchum/internal/geo"
	"github.com/uavchum/uavchum/internal/hazard"
)

// BlitzClient reads recent strikes from a Blitzortung relay. The relay
// buffers the community websocket feed and serves the last half hour of
// strikes per bounding box over plain HTTP.
type BlitzClient struct {
	name    string
	baseURL string
	cfg     ClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewBlitzClient builds the lightning source. baseURL may be empty to
// disable the feed (the caller then passes no lightning source to the
// scheduler).
func NewBlitzClient(client *http.Client, baseURL string) *BlitzClient {
	return &BlitzClient{
		name:    "blitzortung-relay",
		baseURL: baseURL,
		cfg:     defaultConfig(client),
		circuit: newBreaker("blitzortung-relay"),
	}
}

func (c *BlitzClient) Name() string {
	return c.name
}

type blitzStrike struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Time int64   `json:"time"` // unix seconds
}

// Fetch returns strikes within radiusNM of center, with age computed
// against the local clock.
func (c *BlitzClient) Fetch(ctx context.Context, center geo.Point, radiusNM float64) ([]hazard.Strike, error) {
	// Degrees of latitude per nautical mile is 1/60; the box is padded
	// and the exact radius filter happens during normalization.
	delta := radiusNM/60 + 0.25

	buildRequest := func() (*http.Request, error) {
		b := geo.Around(center, delta)
		values := url.Values{}
		values.Set("west", fmt.Sprintf("%f", b.MinLon))
		values.Set("east", fmt.Sprintf("%f", b.MaxLon))
		values.Set("south", fmt.Sprintf("%f", b.MinLat))
		values.Set("north", fmt.Sprintf("%f", b.MaxLat))

		u := fmt.Sprintf("%s/strikes?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doWithResilience(ctx, c.cfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload []blitzStrike
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode lightning response: %w", err)
	}

	now := time.Now().Unix()
	strikes := make([]hazard.Strike, 0, len(payload))
	for _, s := range payload {
		age := int(now - s.Time)
		if age < 0 {
			age = 0
		}
		strikes = append(strikes, hazard.Strike{Lat: s.Lat, Lon: s.Lon, AgeSec: age})
	}
	return strikes, nil
}
