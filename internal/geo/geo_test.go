package geo

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
		tol  float64
	}{
		{
			name: "same point",
			a:    Point{Lat: 51.5, Lon: -0.12},
			b:    Point{Lat: 51.5, Lon: -0.12},
			want: 0,
			tol:  0.001,
		},
		{
			name: "london to paris",
			a:    Point{Lat: 51.5074, Lon: -0.1278},
			b:    Point{Lat: 48.8566, Lon: 2.3522},
			want: 344,
			tol:  5,
		},
		{
			name: "one degree of latitude",
			a:    Point{Lat: 0, Lon: 0},
			b:    Point{Lat: 1, Lon: 0},
			want: 111.19,
			tol:  0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Fatalf("DistanceKm = %.2f, want %.2f ± %.2f", got, tt.want, tt.tol)
			}
		})
	}
}

func TestDistanceNM(t *testing.T) {
	// One degree of latitude is 60 NM by definition (close to it on the
	// spherical model used here).
	got := DistanceNM(Point{Lat: 0, Lon: 0}, Point{Lat: 1, Lon: 0})
	if math.Abs(got-60) > 0.1 {
		t.Fatalf("DistanceNM = %.3f, want ~60", got)
	}
}

func TestConversions(t *testing.T) {
	if got := KnotsToKmh(10); math.Abs(got-18.52) > 0.001 {
		t.Errorf("KnotsToKmh(10) = %v, want 18.52", got)
	}
	if got := KmhToKnots(18.52); math.Abs(got-10) > 0.001 {
		t.Errorf("KmhToKnots(18.52) = %v, want 10", got)
	}
	if got := CelsiusToFahrenheit(15); got != 59 {
		t.Errorf("CelsiusToFahrenheit(15) = %v, want 59", got)
	}
	if got := MetersToFeet(1000); math.Abs(got-3280.84) > 0.01 {
		t.Errorf("MetersToFeet(1000) = %v, want 3280.84", got)
	}
	if got := HPaToInHg(1013.25); math.Abs(got-29.92) > 0.01 {
		t.Errorf("HPaToInHg(1013.25) = %v, want ~29.92", got)
	}
}

func TestWindDirLabel(t *testing.T) {
	deg := func(d float64) *float64 { return &d }

	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "VRB"},
		{deg(0), "N"},
		{deg(45), "NE"},
		{deg(90), "E"},
		{deg(180), "S"},
		{deg(270), "W"},
		{deg(359), "N"},
		{deg(22.5), "NNE"},
	}
	for _, tt := range tests {
		if got := WindDirLabel(tt.in); got != tt.want {
			t.Errorf("WindDirLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBBox(t *testing.T) {
	b := Around(Point{Lat: 40, Lon: -75}, 1.5)

	if !b.Contains(Point{Lat: 40.5, Lon: -74.2}) {
		t.Error("expected point inside box")
	}
	if b.Contains(Point{Lat: 42, Lon: -75}) {
		t.Error("expected point outside box")
	}

	other := BBox{MinLat: 41, MinLon: -76, MaxLat: 43, MaxLon: -75.5}
	if !b.Intersects(other) {
		t.Error("expected boxes to intersect")
	}
	far := BBox{MinLat: 50, MinLon: 0, MaxLat: 51, MaxLon: 1}
	if b.Intersects(far) {
		t.Error("expected boxes not to intersect")
	}
}

func TestBoundsOf(t *testing.T) {
	if _, ok := BoundsOf(nil); ok {
		t.Fatal("BoundsOf(nil) should report no bounds")
	}

	b, ok := BoundsOf([]Point{{Lat: 1, Lon: 2}, {Lat: -3, Lon: 7}, {Lat: 0, Lon: -1}})
	if !ok {
		t.Fatal("expected bounds")
	}
	want := BBox{MinLat: -3, MinLon: -1, MaxLat: 1, MaxLon: 7}
	if b != want {
		t.Fatalf("BoundsOf = %+v, want %+v", b, want)
	}
}
