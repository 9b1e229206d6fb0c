package upstream

import (
	"encoding/json"
	"testing"
)

func TestParseAltBaro(t *testing.T) {
	if ft, onGround := parseAltBaro(json.RawMessage(`"ground"`)); ft != nil || !onGround {
		t.Fatalf("ground marker: got ft=%v onGround=%v", ft, onGround)
	}
	ft, onGround := parseAltBaro(json.RawMessage(`3500`))
	if onGround || ft == nil || *ft != 3500 {
		t.Fatalf("numeric altitude: got ft=%v onGround=%v", ft, onGround)
	}
	if ft, onGround := parseAltBaro(nil); ft != nil || onGround {
		t.Fatal("missing field should be neither altitude nor ground")
	}
}

func TestConvertAircraft(t *testing.T) {
	lat, lon := 40.0, -105.0
	gs := 120.0
	aircraft := []adsbAircraft{
		{Hex: "a1b2c3", Flight: "UAL123  ", Lat: &lat, Lon: &lon, AltBaro: json.RawMessage(`10000`), GroundSpeed: &gs},
		{Hex: "d4e5f6", Lat: &lat, Lon: &lon, AltBaro: json.RawMessage(`"ground"`)},
		{Hex: "noloc"},
	}

	points := convertAircraft(aircraft)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}

	p := points[0]
	if p.Callsign != "UAL123" {
		t.Fatalf("expected trimmed callsign, got %q", p.Callsign)
	}
	if p.AltitudeM == nil || *p.AltitudeM < 3047 || *p.AltitudeM > 3049 {
		t.Fatalf("10000 ft should be ~3048 m, got %v", p.AltitudeM)
	}
	if p.SpeedMS == nil || *p.SpeedMS < 61 || *p.SpeedMS > 62 {
		t.Fatalf("120 kn should be ~61.7 m/s, got %v", p.SpeedMS)
	}

	if !points[1].OnGround || points[1].AltitudeM != nil {
		t.Fatalf("ground aircraft mis-parsed: %+v", points[1])
	}
}
