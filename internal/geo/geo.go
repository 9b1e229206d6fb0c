package geo

import "math"

const (
	earthRadiusKm = 6371.0
	earthRadiusNM = 3440.065

	// KmhPerKnot converts wind speeds reported in knots to km/h.
	KmhPerKnot = 1.852

	feetPerMeter = 3.28084
	inHgPerHPa   = 0.02953
)

// Point is a WGS84 latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies within the WGS84 coordinate range.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// haversine returns the central angle between two points.
func haversine(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*math.Pow(math.Sin(dLon/2), 2)
	return 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// DistanceKm returns the great-circle distance between two points in kilometers.
func DistanceKm(a, b Point) float64 {
	return haversine(a, b) * earthRadiusKm
}

// DistanceNM returns the great-circle distance between two points in nautical miles.
func DistanceNM(a, b Point) float64 {
	return haversine(a, b) * earthRadiusNM
}

// KnotsToKmh converts a speed in knots to km/h.
func KnotsToKmh(kn float64) float64 {
	return kn * KmhPerKnot
}

// KmhToKnots converts a speed in km/h to knots.
func KmhToKnots(kmh float64) float64 {
	return kmh / KmhPerKnot
}

// CelsiusToFahrenheit converts a temperature in °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// MetersToFeet converts a length in meters to feet.
func MetersToFeet(m float64) float64 {
	return m * feetPerMeter
}

// FeetToMeters converts a length in feet to meters.
func FeetToMeters(ft float64) float64 {
	return ft / feetPerMeter
}

// HPaToInHg converts a pressure in hectopascals to inches of mercury.
func HPaToInHg(hpa float64) float64 {
	return hpa * inHgPerHPa
}

var windDirs = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// WindDirLabel maps a direction in degrees to a 16-point compass label.
// A nil direction (variable wind) yields "VRB".
func WindDirLabel(deg *float64) string {
	if deg == nil {
		return "VRB"
	}
	idx := int(math.Round(*deg/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return windDirs[idx]
}

// BBox is an axis-aligned bounding box in degrees.
type BBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// Around returns a bounding box extending delta degrees in every
// direction from the center point.
func Around(center Point, delta float64) BBox {
	return BBox{
		MinLat: center.Lat - delta,
		MinLon: center.Lon - delta,
		MaxLat: center.Lat + delta,
		MaxLon: center.Lon + delta,
	}
}

// Intersects reports whether two boxes overlap.
func (b BBox) Intersects(o BBox) bool {
	return !(o.MaxLon < b.MinLon || o.MinLon > b.MaxLon ||
		o.MaxLat < b.MinLat || o.MinLat > b.MaxLat)
}

// Contains reports whether the point lies inside the box.
func (b BBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// BoundsOf returns the bounding box of a set of points. The second
// return value is false when the slice is empty.
func BoundsOf(pts []Point) (BBox, bool) {
	if len(pts) == 0 {
		return BBox{}, false
	}
	b := BBox{
		MinLat: pts[0].Lat, MaxLat: pts[0].Lat,
		MinLon: pts[0].Lon, MaxLon: pts[0].Lon,
	}
	for _, p := range pts[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
	}
	return b, true
}
