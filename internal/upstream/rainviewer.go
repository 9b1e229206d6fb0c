package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/uavchum/uavchum/internal/hazard"
)

// RainViewerClient fetches the global precipitation radar frame index.
type RainViewerClient struct {
	name    string
	baseURL string
	cfg     ClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewRainViewerClient(client *http.Client) *RainViewerClient {
	return &RainViewerClient{
		name:    "rainviewer",
		baseURL: "https://api.rainviewer.com",
		cfg:     defaultConfig(client),
		circuit: newBreaker("rainviewer"),
	}
}

func (c *RainViewerClient) Name() string {
	return c.name
}

type rainViewerIndex struct {
	Radar struct {
		Past    []hazard.RadarFrame `json:"past"`
		Nowcast []hazard.RadarFrame `json:"nowcast"`
	} `json:"radar"`
}

// Frames returns past frames followed by nowcast frames, oldest first.
func (c *RainViewerClient) Frames(ctx context.Context) ([]hazard.RadarFrame, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/public/weather-maps.json", c.baseURL)
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doWithResilience(ctx, c.cfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var idx rainViewerIndex
	if err := json.NewDecoder(resp.Body).Decode(&idx); err != nil {
		return nil, fmt.Errorf("decode radar index: %w", err)
	}

	frames := make([]hazard.RadarFrame, 0, len(idx.Radar.Past)+len(idx.Radar.Nowcast))
	frames = append(frames, idx.Radar.Past...)
	frames = append(frames, idx.Radar.Nowcast...)
	return frames, nil
}
