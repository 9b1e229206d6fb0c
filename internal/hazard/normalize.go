package hazard

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/uavchum/uavchum/internal/geo"
)

// Options controls the normalization pass for one location.
type Options struct {
	Center geo.Point
	// DeltaDeg is the half-size of the relevance bounding box in
	// degrees. Zero means the 1.5 degree default (~165 km).
	DeltaDeg float64
	// TFRRadiusNM overrides the default restriction-circle radius.
	TFRRadiusNM float64
}

func (o *Options) fill() {
	if o.DeltaDeg <= 0 {
		o.DeltaDeg = 1.5
	}
	if o.TFRRadiusNM <= 0 {
		o.TFRRadiusNM = DefaultTFRRadiusNM
	}
}

// Normalize converts the raw provider collections into layers keyed by
// layer name. Unrecognized or malformed features are skipped; one bad
// feature never drops the rest of its collection.
func Normalize(raw Raw, opts Options) map[string]Layer {
	opts.fill()
	bbox := geo.Around(opts.Center, opts.DeltaDeg)

	layers := make(map[string]Layer)
	add := func(key string, f Feature) {
		l, ok := layers[key]
		if !ok {
			l = NewLayer(key)
		}
		l.Features = append(l.Features, f)
		layers[key] = l
	}

	for _, f := range normalizeControlled(raw.Controlled, bbox) {
		add(classLayerKey(f.Class), f)
	}
	for _, f := range normalizeTypedZones(raw.TypedZones, bbox) {
		add(bucketLayerKeys[f.Bucket], f)
	}
	for _, f := range normalizeCeilingGrids(raw.CeilingGrids, bbox) {
		add(LayerCeilingGrids, f)
	}
	for _, f := range normalizeTFRs(raw.TFRs, opts) {
		add(LayerTFR, f)
	}
	for _, f := range normalizeAirports(raw.Airports) {
		add(LayerAirports, f)
	}

	return layers
}

// ── Controlled airspace ─────────────────────────────────────────────

func normalizeClass(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "B":
		return "B"
	case "C":
		return "C"
	default:
		return "D"
	}
}

func classLayerKey(class string) string {
	switch class {
	case "B":
		return LayerControlledB
	case "C":
		return LayerControlledC
	default:
		return LayerControlledD
	}
}

func normalizeControlled(feats []GeoFeature, bbox geo.BBox) []Feature {
	var out []Feature
	for _, gf := range feats {
		rings, ok := polygonRings(gf.Geometry)
		if !ok {
			continue
		}
		if b, ok := ringsBounds(rings); !ok || !bbox.Intersects(b) {
			continue
		}
		out = append(out, Feature{
			Kind:    KindControlledZone,
			Name:    propString(gf.Properties, "NAME"),
			Polygon: rings,
			Class:   normalizeClass(propString(gf.Properties, "CLASS")),
		})
	}
	return out
}

// ── Typed zones (OpenAIP) ───────────────────────────────────────────

func normalizeTypedZones(feats []GeoFeature, bbox geo.BBox) []Feature {
	var out []Feature
	for _, gf := range feats {
		rings, ok := polygonRings(gf.Geometry)
		if !ok {
			continue
		}
		if b, ok := ringsBounds(rings); !ok || !bbox.Intersects(b) {
			continue
		}
		code, ok := propInt(gf.Properties, "type")
		if !ok {
			code = -1
		}

		floorFt := zoneFloorFt(gf.Properties)
		// Floors above FL100 are irrelevant for drones, except for the
		// always-blocking prohibited/restricted/danger types.
		if floorFt > floorCutoffFt && code != 1 && code != 2 && code != 3 {
			continue
		}

		out = append(out, Feature{
			Kind:     KindTypedZone,
			Name:     propString(gf.Properties, "name"),
			Polygon:  rings,
			ZoneCode: code,
			Bucket:   ZoneBucket(code),
			FloorFt:  floorFt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return ZonePriority(out[i].ZoneCode) < ZonePriority(out[j].ZoneCode)
	})
	if len(out) > maxTypedZones {
		out = out[:maxTypedZones]
	}
	return out
}

// zoneFloorFt extracts the lower limit in feet. Unit 6 is a flight
// level (hundreds of feet); anything else is treated as feet.
func zoneFloorFt(props map[string]interface{}) float64 {
	lower, ok := props["lowerLimit"].(map[string]interface{})
	if !ok {
		return 0
	}
	val, _ := toFloat(lower["value"])
	unit, unitOK := toFloat(lower["unit"])
	if unitOK && unit == 6 {
		return val * 100
	}
	return val
}

// ── LAANC ceiling grids ─────────────────────────────────────────────

func normalizeCeilingGrids(feats []GeoFeature, bbox geo.BBox) []Feature {
	var out []Feature
	for _, gf := range feats {
		rings, ok := polygonRings(gf.Geometry)
		if !ok {
			continue
		}
		if b, ok := ringsBounds(rings); !ok || !bbox.Intersects(b) {
			continue
		}

		var ceiling *float64
		if v, ok := toFloat(gf.Properties["CEILING"]); ok {
			ceiling = &v
		}
		name := propString(gf.Properties, "APT1_NAME")
		if name == "" {
			name = propString(gf.Properties, "APT1_ICAO")
		}

		out = append(out, Feature{
			Kind:      KindCeilingGrid,
			Name:      name,
			Polygon:   rings,
			CeilingFt: ceiling,
			Tier:      CeilingTier(ceiling),
		})
	}
	return out
}

// ── Temporary flight restrictions ───────────────────────────────────

func normalizeTFRs(records []TFRRecord, opts Options) []Feature {
	// Restrictions just outside the main box still matter.
	slop := geo.Around(opts.Center, opts.DeltaDeg+0.5)

	var out []Feature
	for _, r := range records {
		if r.Lat == nil || r.Lon == nil {
			continue
		}
		p := geo.Point{Lat: *r.Lat, Lon: *r.Lon}
		if !p.Valid() || !slop.Contains(p) {
			continue
		}
		radius := opts.TFRRadiusNM
		if r.RadiusNM != nil && *r.RadiusNM > 0 {
			radius = *r.RadiusNM
		}
		name := r.Name
		if name == "" {
			name = r.ID
		}
		out = append(out, Feature{
			Kind:   KindTFR,
			Name:   name,
			Circle: &Circle{Center: p, RadiusNM: radius},
		})
	}
	return out
}

// ── Nearby airports ─────────────────────────────────────────────────

func normalizeAirports(records []AirportRecord) []Feature {
	var out []Feature
	for _, a := range records {
		if a.ICAO == "" {
			continue
		}
		p := geo.Point{Lat: a.Lat, Lon: a.Lon}
		if !p.Valid() {
			continue
		}
		name := a.Name
		if name == "" {
			name = a.ICAO
		}
		out = append(out, Feature{
			Kind:   KindAirport,
			Name:   name,
			ICAO:   a.ICAO,
			Circle: &Circle{Center: p, RadiusNM: AirportRadiusNM},
		})
	}
	return out
}

// ── Live traffic ────────────────────────────────────────────────────

// NormalizeTraffic converts live aircraft position records into the
// traffic layer. Records without a usable position are skipped.
func NormalizeTraffic(points []TrafficPoint) Layer {
	layer := NewLayer(LayerTraffic)
	for _, t := range points {
		p := geo.Point{Lat: t.Lat, Lon: t.Lon}
		if !p.Valid() {
			continue
		}
		name := strings.TrimSpace(t.Callsign)
		if name == "" {
			name = t.Hex
		}
		pt := p
		layer.Features = append(layer.Features, Feature{
			Kind:         KindTraffic,
			Name:         name,
			Point:        &pt,
			Callsign:     strings.TrimSpace(t.Callsign),
			Registration: t.Registration,
			AltitudeM:    t.AltitudeM,
			SpeedMS:      t.SpeedMS,
			HeadingDeg:   t.HeadingDeg,
			OnGround:     t.OnGround,
		})
	}
	return layer
}

// ── Lightning ───────────────────────────────────────────────────────

const strikeMaxAgeSec = 30 * 60

// strikeTier buckets a strike by age into severity tier and opacity.
func strikeTier(ageSec int) (int, float64) {
	switch {
	case ageSec < 300:
		return 0, 0.9
	case ageSec < 600:
		return 1, 0.7
	case ageSec < 1200:
		return 2, 0.5
	default:
		return 3, 0.35
	}
}

// NormalizeLightning converts strikes within radiusNM of center into
// the lightning layer, newest first, and reports the nearest strike
// distance. The second return value is nil when no strike is in range.
func NormalizeLightning(strikes []Strike, center geo.Point, radiusNM float64) (Layer, *float64) {
	layer := NewLayer(LayerLightning)
	var nearest *float64

	for _, s := range strikes {
		if s.AgeSec > strikeMaxAgeSec {
			continue
		}
		p := geo.Point{Lat: s.Lat, Lon: s.Lon}
		if !p.Valid() {
			continue
		}
		d := geo.DistanceNM(center, p)
		if d > radiusNM {
			continue
		}
		if nearest == nil || d < *nearest {
			dd := d
			nearest = &dd
		}
		tier, opacity := strikeTier(s.AgeSec)
		pt := p
		layer.Features = append(layer.Features, Feature{
			Kind:         KindLightning,
			Point:        &pt,
			AgeSec:       s.AgeSec,
			SeverityTier: tier,
			Opacity:      opacity,
		})
	}

	sort.SliceStable(layer.Features, func(i, j int) bool {
		return layer.Features[i].AgeSec < layer.Features[j].AgeSec
	})
	if len(layer.Features) > maxLightningStrikes {
		layer.Features = layer.Features[:maxLightningStrikes]
	}
	return layer, nearest
}

// ── Radar frames ────────────────────────────────────────────────────

// NormalizeRadar converts the global radar frame index into the radar
// layer. The layer is location-independent.
func NormalizeRadar(frames []RadarFrame) Layer {
	layer := NewLayer(LayerRadar)
	for _, f := range frames {
		if f.Path == "" {
			continue
		}
		layer.Features = append(layer.Features, Feature{
			Kind:      KindRadarFrame,
			FrameTime: f.Time,
			FramePath: f.Path,
		})
	}
	return layer
}

// ── Geometry helpers ────────────────────────────────────────────────

// polygonRings decodes Polygon or MultiPolygon coordinates into rings.
// Returns false for anything else or for malformed coordinates.
func polygonRings(g *Geometry) ([][]geo.Point, bool) {
	if g == nil || len(g.Coordinates) == 0 {
		return nil, false
	}
	switch g.Type {
	case "Polygon":
		var coords [][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, false
		}
		return ringsFromCoords(coords)
	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
			return nil, false
		}
		var all [][]geo.Point
		for _, poly := range coords {
			rings, ok := ringsFromCoords(poly)
			if !ok {
				continue
			}
			all = append(all, rings...)
		}
		return all, len(all) > 0
	default:
		return nil, false
	}
}

func ringsFromCoords(coords [][][]float64) ([][]geo.Point, bool) {
	var rings [][]geo.Point
	for _, ring := range coords {
		var pts []geo.Point
		for _, c := range ring {
			if len(c) < 2 {
				continue
			}
			// GeoJSON order is lon, lat.
			pts = append(pts, geo.Point{Lat: c[1], Lon: c[0]})
		}
		if len(pts) >= 3 {
			rings = append(rings, pts)
		}
	}
	return rings, len(rings) > 0
}

func ringsBounds(rings [][]geo.Point) (geo.BBox, bool) {
	var all []geo.Point
	for _, r := range rings {
		all = append(all, r...)
	}
	return geo.BoundsOf(all)
}

// ── Property helpers ────────────────────────────────────────────────

func propString(props map[string]interface{}, key string) string {
	if s, ok := props[key].(string); ok {
		return s
	}
	return ""
}

func propInt(props map[string]interface{}, key string) (int, bool) {
	f, ok := toFloat(props[key])
	if !ok {
		return 0, false
	}
	return int(f), true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
