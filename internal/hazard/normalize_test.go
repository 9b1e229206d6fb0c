package hazard

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/uavchum/uavchum/internal/geo"
)

var testCenter = geo.Point{Lat: 40.0, Lon: -105.0}

// polyAround builds a small GeoJSON square around a point.
func polyAround(p geo.Point, props map[string]interface{}) GeoFeature {
	d := 0.05
	coords := fmt.Sprintf(`[[[%f,%f],[%f,%f],[%f,%f],[%f,%f],[%f,%f]]]`,
		p.Lon-d, p.Lat-d,
		p.Lon+d, p.Lat-d,
		p.Lon+d, p.Lat+d,
		p.Lon-d, p.Lat+d,
		p.Lon-d, p.Lat-d)
	return GeoFeature{
		Type:       "Feature",
		Geometry:   &Geometry{Type: "Polygon", Coordinates: json.RawMessage(coords)},
		Properties: props,
	}
}

func zoneProps(name string, code int, floorFt float64) map[string]interface{} {
	return map[string]interface{}{
		"name": name,
		"type": float64(code),
		"lowerLimit": map[string]interface{}{
			"value": floorFt,
			"unit":  float64(1),
		},
	}
}

func TestNormalizeControlled(t *testing.T) {
	raw := Raw{Controlled: []GeoFeature{
		polyAround(testCenter, map[string]interface{}{"NAME": "DENVER", "CLASS": "B"}),
		polyAround(testCenter, map[string]interface{}{"NAME": "CENTENNIAL", "CLASS": "D"}),
		// Missing class defaults to D rather than dropping the zone.
		polyAround(testCenter, map[string]interface{}{"NAME": "UNKNOWN"}),
		// Malformed geometry is skipped, not fatal.
		{Type: "Feature", Geometry: &Geometry{Type: "Point", Coordinates: json.RawMessage(`[0,0]`)}},
		{Type: "Feature"},
	}}

	layers := Normalize(raw, Options{Center: testCenter})

	if got := len(layers[LayerControlledB].Features); got != 1 {
		t.Fatalf("expected 1 class B feature, got %d", got)
	}
	if got := len(layers[LayerControlledD].Features); got != 2 {
		t.Fatalf("expected 2 class D features, got %d", got)
	}
	for _, f := range layers[LayerControlledD].Features {
		if f.Class != "D" {
			t.Errorf("expected class D, got %q", f.Class)
		}
	}
}

func TestNormalizeTypedZonesBucketsAndFloor(t *testing.T) {
	raw := Raw{TypedZones: []GeoFeature{
		polyAround(testCenter, zoneProps("P-40", 3, 0)),
		polyAround(testCenter, zoneProps("CTR ALPHA", 4, 0)),
		polyAround(testCenter, zoneProps("TMA BRAVO", 7, 0)),
		polyAround(testCenter, zoneProps("WAVE WINDOW", 28, 0)),
		// High floor, non-blocking type: irrelevant for drones.
		polyAround(testCenter, zoneProps("HIGH TMA", 7, 15000)),
		// High floor but restricted: kept regardless.
		polyAround(testCenter, zoneProps("R-HIGH", 1, 15000)),
	}}

	layers := Normalize(raw, Options{Center: testCenter})

	restricted := layers[LayerZonesRestrict].Features
	if len(restricted) != 2 {
		t.Fatalf("expected 2 restricted-bucket features, got %d", len(restricted))
	}
	// Prohibited (code 3) sorts ahead of restricted (code 1).
	if restricted[0].ZoneCode != 3 || restricted[1].ZoneCode != 1 {
		t.Fatalf("unexpected restricted order: %d, %d", restricted[0].ZoneCode, restricted[1].ZoneCode)
	}

	if got := len(layers[LayerZonesCTR].Features); got != 1 {
		t.Fatalf("expected 1 CTR-bucket feature, got %d", got)
	}
	if got := len(layers[LayerZonesTMA].Features); got != 1 {
		t.Fatalf("expected 1 TMA-bucket feature (high floor dropped), got %d", got)
	}
	if got := len(layers[LayerZonesOther].Features); got != 1 {
		t.Fatalf("expected 1 other-bucket feature, got %d", got)
	}
}

func TestZoneFloorFlightLevels(t *testing.T) {
	props := zoneProps("FL ZONE", 7, 0)
	props["lowerLimit"] = map[string]interface{}{"value": float64(120), "unit": float64(6)}
	raw := Raw{TypedZones: []GeoFeature{polyAround(testCenter, props)}}

	layers := Normalize(raw, Options{Center: testCenter})
	// FL120 = 12000 ft, above the cutoff for a non-blocking type.
	if got := len(layers[LayerZonesTMA].Features); got != 0 {
		t.Fatalf("expected FL120 zone to be dropped, got %d features", got)
	}
}

func TestNormalizeCeilingGridTiers(t *testing.T) {
	grid := func(ceiling interface{}) GeoFeature {
		props := map[string]interface{}{"APT1_ICAO": "KBJC"}
		if ceiling != nil {
			props["CEILING"] = ceiling
		}
		return polyAround(testCenter, props)
	}

	raw := Raw{CeilingGrids: []GeoFeature{
		grid(nil), grid(float64(0)), grid(float64(100)), grid(float64(200)), grid(float64(400)),
	}}
	layers := Normalize(raw, Options{Center: testCenter})

	feats := layers[LayerCeilingGrids].Features
	if len(feats) != 5 {
		t.Fatalf("expected 5 grid features, got %d", len(feats))
	}
	want := []string{TierNoFly, TierNoFly, TierLow, TierMedium, TierOpen}
	for i, w := range want {
		if feats[i].Tier != w {
			t.Errorf("grid %d: expected tier %s, got %s", i, w, feats[i].Tier)
		}
	}
}

func TestNormalizeTFRs(t *testing.T) {
	lat, lon := testCenter.Lat+0.2, testCenter.Lon-0.2
	farLat := testCenter.Lat + 30
	custom := 3.0

	raw := Raw{TFRs: []TFRRecord{
		{ID: "5/1234", Lat: &lat, Lon: &lon},
		{ID: "5/5678", Name: "STADIUM", Lat: &lat, Lon: &lon, RadiusNM: &custom},
		// No coordinates: skipped.
		{ID: "5/9999"},
		// Out of the padded box: skipped.
		{ID: "5/0001", Lat: &farLat, Lon: &lon},
	}}
	layers := Normalize(raw, Options{Center: testCenter})

	feats := layers[LayerTFR].Features
	if len(feats) != 2 {
		t.Fatalf("expected 2 TFR features, got %d", len(feats))
	}
	if feats[0].Circle == nil || feats[0].Circle.RadiusNM != DefaultTFRRadiusNM {
		t.Fatalf("expected default %v nm radius, got %+v", DefaultTFRRadiusNM, feats[0].Circle)
	}
	if feats[1].Circle.RadiusNM != custom {
		t.Fatalf("expected custom radius %v, got %v", custom, feats[1].Circle.RadiusNM)
	}
	if feats[1].Name != "STADIUM" {
		t.Fatalf("expected name STADIUM, got %q", feats[1].Name)
	}
}

func TestNormalizeAirports(t *testing.T) {
	raw := Raw{Airports: []AirportRecord{
		{ICAO: "KDEN", Name: "Denver Intl", Lat: 39.86, Lon: -104.67},
		{Name: "no icao", Lat: 40, Lon: -105},
	}}
	layers := Normalize(raw, Options{Center: testCenter})

	feats := layers[LayerAirports].Features
	if len(feats) != 1 {
		t.Fatalf("expected 1 airport feature, got %d", len(feats))
	}
	if feats[0].Circle == nil || feats[0].Circle.RadiusNM != AirportRadiusNM {
		t.Fatalf("expected %v nm airport circle, got %+v", AirportRadiusNM, feats[0].Circle)
	}
}

func TestNormalizeTraffic(t *testing.T) {
	alt := 1200.0
	layer := NormalizeTraffic([]TrafficPoint{
		{Hex: "a1b2c3", Callsign: "N123AB ", Lat: 40.1, Lon: -105.1, AltitudeM: &alt},
		{Hex: "ffffff", Lat: 200, Lon: 0}, // invalid position
		{Hex: "d4e5f6", Lat: 40.2, Lon: -105.2},
	})

	if layer.Key != LayerTraffic {
		t.Fatalf("unexpected layer key %s", layer.Key)
	}
	if len(layer.Features) != 2 {
		t.Fatalf("expected 2 traffic features, got %d", len(layer.Features))
	}
	if layer.Features[0].Name != "N123AB" {
		t.Fatalf("expected trimmed callsign as name, got %q", layer.Features[0].Name)
	}
	// Hex stands in when the callsign is blank.
	if layer.Features[1].Name != "d4e5f6" {
		t.Fatalf("expected hex fallback name, got %q", layer.Features[1].Name)
	}
}

func TestNormalizeLightning(t *testing.T) {
	strikes := []Strike{
		{Lat: testCenter.Lat + 0.1, Lon: testCenter.Lon, AgeSec: 100},  // ~6 nm, tier 0
		{Lat: testCenter.Lat + 0.5, Lon: testCenter.Lon, AgeSec: 700},  // ~30 nm, tier 2
		{Lat: testCenter.Lat + 0.2, Lon: testCenter.Lon, AgeSec: 2000}, // too old
		{Lat: testCenter.Lat + 5, Lon: testCenter.Lon, AgeSec: 100},    // out of range
	}

	layer, nearest := NormalizeLightning(strikes, testCenter, 100)
	if len(layer.Features) != 2 {
		t.Fatalf("expected 2 strikes, got %d", len(layer.Features))
	}
	// Sorted newest first.
	if layer.Features[0].AgeSec != 100 || layer.Features[1].AgeSec != 700 {
		t.Fatalf("unexpected strike order: %d, %d", layer.Features[0].AgeSec, layer.Features[1].AgeSec)
	}
	if layer.Features[0].SeverityTier != 0 || layer.Features[0].Opacity != 0.9 {
		t.Fatalf("unexpected tier for fresh strike: %+v", layer.Features[0])
	}
	if layer.Features[1].SeverityTier != 2 || layer.Features[1].Opacity != 0.5 {
		t.Fatalf("unexpected tier for old strike: %+v", layer.Features[1])
	}
	if nearest == nil {
		t.Fatal("expected a nearest strike distance")
	}
	if *nearest < 5 || *nearest > 7 {
		t.Fatalf("nearest strike distance out of expected range: %f", *nearest)
	}
}

func TestNormalizeLightningEmpty(t *testing.T) {
	layer, nearest := NormalizeLightning(nil, testCenter, 100)
	if len(layer.Features) != 0 {
		t.Fatalf("expected empty layer, got %d features", len(layer.Features))
	}
	if nearest != nil {
		t.Fatalf("expected nil nearest, got %f", *nearest)
	}
}

func TestStrikeTiers(t *testing.T) {
	cases := []struct {
		age     int
		tier    int
		opacity float64
	}{
		{0, 0, 0.9}, {299, 0, 0.9},
		{300, 1, 0.7}, {599, 1, 0.7},
		{600, 2, 0.5}, {1199, 2, 0.5},
		{1200, 3, 0.35}, {1799, 3, 0.35},
	}
	for _, c := range cases {
		tier, op := strikeTier(c.age)
		if tier != c.tier || op != c.opacity {
			t.Errorf("age %d: expected (%d, %v), got (%d, %v)", c.age, c.tier, c.opacity, tier, op)
		}
	}
}

func TestNormalizeRadar(t *testing.T) {
	layer := NormalizeRadar([]RadarFrame{
		{Time: 1700000000, Path: "/v2/radar/1700000000"},
		{Time: 1700000600, Path: ""},
	})
	if len(layer.Features) != 1 {
		t.Fatalf("expected 1 radar frame, got %d", len(layer.Features))
	}
	if layer.Features[0].FramePath != "/v2/radar/1700000000" {
		t.Fatalf("unexpected frame path %q", layer.Features[0].FramePath)
	}
}

func TestNormalizeOutOfBoxFeaturesDropped(t *testing.T) {
	far := geo.Point{Lat: testCenter.Lat + 10, Lon: testCenter.Lon + 10}
	raw := Raw{Controlled: []GeoFeature{
		polyAround(far, map[string]interface{}{"NAME": "FARAWAY", "CLASS": "B"}),
	}}
	layers := Normalize(raw, Options{Center: testCenter})
	if got := len(layers[LayerControlledB].Features); got != 0 {
		t.Fatalf("expected out-of-box zone to be dropped, got %d", got)
	}
}

func TestTypedZoneCap(t *testing.T) {
	feats := make([]GeoFeature, 0, maxTypedZones+50)
	for i := 0; i < maxTypedZones+50; i++ {
		feats = append(feats, polyAround(testCenter, zoneProps(fmt.Sprintf("Z%d", i), 0, 0)))
	}
	// One prohibited zone buried at the end must survive the cap.
	feats = append(feats, polyAround(testCenter, zoneProps("P-LAST", 3, 0)))

	raw := Raw{TypedZones: feats}
	layers := Normalize(raw, Options{Center: testCenter})

	total := 0
	for _, key := range []string{LayerZonesRestrict, LayerZonesCTR, LayerZonesTMA, LayerZonesOther} {
		total += len(layers[key].Features)
	}
	if total != maxTypedZones {
		t.Fatalf("expected %d zones after cap, got %d", maxTypedZones, total)
	}
	if got := len(layers[LayerZonesRestrict].Features); got != 1 {
		t.Fatalf("prohibited zone lost to the cap: %d restricted features", got)
	}
}
