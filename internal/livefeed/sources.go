package livefeed

import (
	"context"

	"github.com/uavchum/uavchum/internal/geo"
	"github.com/uavchum/uavchum/internal/hazard"
)

// TrafficSource supplies live aircraft positions around a point.
type TrafficSource interface {
	Name() string
	Fetch(ctx context.Context, center geo.Point, radiusNM float64) ([]hazard.TrafficPoint, error)
}

// LightningSource supplies recent lightning strikes around a point.
type LightningSource interface {
	Name() string
	Fetch(ctx context.Context, center geo.Point, radiusNM float64) ([]hazard.Strike, error)
}

// RadarSource supplies the global precipitation radar frame index.
// Radar tiles are location-independent.
type RadarSource interface {
	Name() string
	Frames(ctx context.Context) ([]hazard.RadarFrame, error)
}
