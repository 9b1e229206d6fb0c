package weather

import (
	"context"

	"github.com/uavchum/uavchum/internal/geo"
)

// Provider abstracts a weather data source. The engine treats the
// provider as an opaque collaborator: it hands back one Snapshot per
// request and the caller owns it for the duration of one assessment.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc geo.Point) (Snapshot, error)
}
