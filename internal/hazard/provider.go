package hazard

import (
	"context"

	"github.com/uavchum/uavchum/internal/geo"
)

// Provider abstracts the airspace/hazard data source. One Fetch
// returns every collection the provider could obtain; collections that
// failed upstream are simply empty (fail-soft per collection).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, center geo.Point) (Raw, error)
}
