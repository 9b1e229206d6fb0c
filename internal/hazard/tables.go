package hazard

// Layer keys. The Layer Registry keys user toggle state by these, so
// they never change between fetches.
const (
	LayerControlledB    = "controlled-b"
	LayerControlledC    = "controlled-c"
	LayerControlledD    = "controlled-d"
	LayerZonesRestrict  = "zones-restricted"
	LayerZonesCTR       = "zones-ctr"
	LayerZonesTMA       = "zones-tma"
	LayerZonesOther     = "zones-other"
	LayerCeilingGrids   = "laanc"
	LayerTFR            = "tfr"
	LayerAirports       = "airports"
	LayerTraffic        = "traffic"
	LayerLightning      = "lightning"
	LayerRadar          = "radar"
)

type layerStyle struct {
	Label string
	Color string
}

// layerStyles is the static label/color table. Styles are looked up,
// never computed, so a hazard type renders identically on every fetch.
var layerStyles = map[string]layerStyle{
	LayerControlledB:   {"Class B Airspace", "#2563eb"},
	LayerControlledC:   {"Class C Airspace", "#7c3aed"},
	LayerControlledD:   {"Class D Airspace", "#0891b2"},
	LayerZonesRestrict: {"Prohibited / Restricted / Danger", "#dc2626"},
	LayerZonesCTR:      {"Control & Traffic Zones", "#ea580c"},
	LayerZonesTMA:      {"Terminal & Control Areas", "#ca8a04"},
	LayerZonesOther:    {"Other Airspace", "#6b7280"},
	LayerCeilingGrids:  {"LAANC Altitude Grids", "#16a34a"},
	LayerTFR:           {"Temporary Flight Restrictions", "#b91c1c"},
	LayerAirports:      {"Nearby Airports", "#9333ea"},
	LayerTraffic:       {"Live Traffic", "#f59e0b"},
	LayerLightning:     {"Lightning Strikes", "#facc15"},
	LayerRadar:         {"Precipitation Radar", "#38bdf8"},
}

// NewLayer returns an empty layer with its static style applied.
func NewLayer(key string) Layer {
	s := layerStyles[key]
	return Layer{Key: key, Label: s.Label, Color: s.Color}
}

// AlwaysOfferedLayers are offered in the toggle list even while empty,
// since their feeds populate asynchronously.
var AlwaysOfferedLayers = []string{LayerTraffic, LayerLightning, LayerRadar}

// zoneBuckets maps OpenAIP type codes to display buckets. Codes not in
// the table land in the catch-all bucket.
var zoneBuckets = map[int]Bucket{
	3:  BucketRestricted, // prohibited
	1:  BucketRestricted, // restricted
	2:  BucketRestricted, // danger
	4:  BucketCTR,        // CTR
	13: BucketCTR,        // ATZ
	14: BucketCTR,        // MATZ
	7:  BucketTMA,        // TMA
	26: BucketTMA,        // CTA
}

// bucketLayerKeys maps each bucket to its layer.
var bucketLayerKeys = map[Bucket]string{
	BucketRestricted: LayerZonesRestrict,
	BucketCTR:        LayerZonesCTR,
	BucketTMA:        LayerZonesTMA,
	BucketOther:      LayerZonesOther,
}

// zonePriority orders typed-zone codes by drone relevance; lower is
// more flight-blocking. Unlisted codes sort last.
var zonePriority = map[int]int{
	3:  0,
	1:  1,
	2:  2,
	4:  3,
	13: 4,
	14: 5,
	18: 6,
	28: 7,
	5:  8,
	7:  8,
	26: 9,
	21: 10,
	6:  10,
	0:  11,
}

const defaultZonePriority = 99

// ZonePriority returns the alerting/sorting priority for a typed-zone code.
func ZonePriority(code int) int {
	if p, ok := zonePriority[code]; ok {
		return p
	}
	return defaultZonePriority
}

// ZoneBucket classifies a typed-zone code via the explicit lookup
// table; geometry plays no part in classification.
func ZoneBucket(code int) Bucket {
	if b, ok := zoneBuckets[code]; ok {
		return b
	}
	return BucketOther
}

// Ceiling tiers for LAANC altitude grids.
const (
	TierNoFly  = "red"    // 0 ft or no authorized ceiling
	TierLow    = "orange" // <= 100 ft
	TierMedium = "yellow" // <= 200 ft
	TierOpen   = "green"
)

// CeilingTier maps an authorized ceiling to its display tier.
func CeilingTier(ceilingFt *float64) string {
	switch {
	case ceilingFt == nil || *ceilingFt == 0:
		return TierNoFly
	case *ceilingFt <= 100:
		return TierLow
	case *ceilingFt <= 200:
		return TierMedium
	default:
		return TierOpen
	}
}

// Geometry-independent defaults.
const (
	DefaultTFRRadiusNM  = 5.0
	AirportRadiusNM     = 2.5
	maxTypedZones       = 250
	floorCutoffFt       = 10000
	maxLightningStrikes = 500
)
