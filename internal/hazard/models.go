// Package hazard normalizes differently-shaped geodata from the
// airspace and live-feed providers into a common layer model with
// per-feature style metadata.
package hazard

import (
	"encoding/json"

	"github.com/uavchum/uavchum/internal/geo"
)

// Kind identifies the hazard variant a feature carries.
type Kind string

const (
	KindControlledZone Kind = "controlled-airspace"
	KindTypedZone      Kind = "typed-zone"
	KindCeilingGrid    Kind = "ceiling-grid"
	KindTFR            Kind = "tfr"
	KindAirport        Kind = "airport"
	KindTraffic        Kind = "traffic"
	KindLightning      Kind = "lightning"
	KindRadarFrame     Kind = "radar-frame"
)

// Bucket groups typed-zone codes for display and alerting.
type Bucket string

const (
	BucketRestricted Bucket = "restricted"
	BucketCTR        Bucket = "ctr"
	BucketTMA        Bucket = "tma"
	BucketOther      Bucket = "other"
)

// Circle is a point with a radius in nautical miles.
type Circle struct {
	Center   geo.Point `json:"center"`
	RadiusNM float64   `json:"radiusNm"`
}

// Feature is the normalized hazard record. It is a tagged union:
// Kind selects which geometry and attribute fields are populated.
type Feature struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name,omitempty"`

	// Geometry: exactly one of these is set.
	Polygon [][]geo.Point `json:"polygon,omitempty"` // outer ring first
	Circle  *Circle       `json:"circle,omitempty"`
	Point   *geo.Point    `json:"point,omitempty"`

	// Controlled airspace.
	Class string `json:"class,omitempty"`

	// Typed zones.
	ZoneCode int     `json:"zoneCode,omitempty"`
	Bucket   Bucket  `json:"bucket,omitempty"`
	FloorFt  float64 `json:"floorFt,omitempty"`

	// Ceiling grids.
	CeilingFt *float64 `json:"ceilingFt,omitempty"`
	Tier      string   `json:"tier,omitempty"`

	// Airports and traffic.
	ICAO         string   `json:"icao,omitempty"`
	Callsign     string   `json:"callsign,omitempty"`
	Registration string   `json:"registration,omitempty"`
	AltitudeM    *float64 `json:"altitudeM,omitempty"`
	SpeedMS      *float64 `json:"speedMs,omitempty"`
	HeadingDeg   *float64 `json:"headingDeg,omitempty"`
	OnGround     bool     `json:"onGround,omitempty"`

	// Lightning strikes and radar frames.
	AgeSec       int     `json:"ageSec,omitempty"`
	SeverityTier int     `json:"severityTier,omitempty"`
	Opacity      float64 `json:"opacity,omitempty"`
	FrameTime    int64   `json:"frameTime,omitempty"`
	FramePath    string  `json:"framePath,omitempty"`
}

// Layer is a named group of features of one kind. Label and color come
// from a static lookup so the same hazard type always renders
// identically across fetches.
type Layer struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Color    string    `json:"color"`
	Features []Feature `json:"features"`
}

// Geometry is the raw GeoJSON geometry envelope. Coordinates stay
// undecoded until the variant is known.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// GeoFeature is one raw GeoJSON feature from a provider.
type GeoFeature struct {
	Type       string                 `json:"type"`
	Geometry   *Geometry              `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// TFRRecord is a raw temporary flight restriction record.
type TFRRecord struct {
	ID       string   `json:"notam_id,omitempty"`
	Name     string   `json:"name,omitempty"`
	Type     string   `json:"type,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	RadiusNM *float64 `json:"radiusNm,omitempty"`
}

// AirportRecord is a raw nearby-airport record derived from the METAR
// station feed.
type AirportRecord struct {
	ICAO        string   `json:"icao"`
	Name        string   `json:"name"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	ElevFt      *float64 `json:"elevFt,omitempty"`
	FlightCat   string   `json:"flightCat,omitempty"`
	WindDir     string   `json:"windDir,omitempty"`
	WindSpeedKn *float64 `json:"windSpeedKn,omitempty"`
	WindGustKn  *float64 `json:"windGustKn,omitempty"`
}

// TrafficPoint is one live aircraft position record.
type TrafficPoint struct {
	Hex          string   `json:"icao24"`
	Callsign     string   `json:"callsign"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	AltitudeM    *float64 `json:"altM,omitempty"`
	OnGround     bool     `json:"onGround"`
	SpeedMS      *float64 `json:"velocityMs,omitempty"`
	HeadingDeg   *float64 `json:"heading,omitempty"`
	Registration string   `json:"registration,omitempty"`
	AircraftType string   `json:"acType,omitempty"`
	Squawk       string   `json:"squawk,omitempty"`
}

// Strike is one lightning strike record with its age in seconds.
type Strike struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	AgeSec int     `json:"ageSec"`
}

// RadarFrame is one entry of the global radar tile index.
type RadarFrame struct {
	Time int64  `json:"time"`
	Path string `json:"path"`
}

// Raw is the per-request bundle of provider collections, each in the
// provider's native shape. Any collection may be nil.
type Raw struct {
	Controlled   []GeoFeature    `json:"controlled"`
	CeilingGrids []GeoFeature    `json:"ceilingGrids"`
	TypedZones   []GeoFeature    `json:"typedZones"`
	TFRs         []TFRRecord     `json:"tfrs"`
	Airports     []AirportRecord `json:"airports"`
}

// Empty reports whether no provider returned any feature at all.
func (r Raw) Empty() bool {
	return len(r.Controlled) == 0 && len(r.CeilingGrids) == 0 &&
		len(r.TypedZones) == 0 && len(r.TFRs) == 0 && len(r.Airports) == 0
}
