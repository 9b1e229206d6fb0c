package geo

import (
	"math"
	"time"
)

// CivilTwilightUTC returns the civil dawn and dusk instants (RFC3339,
// UTC) for the given date string ("2006-01-02" prefix). It uses the
// NOAA/Spencer solar position approximation. Both strings are empty in
// polar regions where civil twilight does not occur on that date.
func CivilTwilightUTC(lat, lon float64, dateStr string) (string, string) {
	if len(dateStr) < 10 {
		return "", ""
	}
	date, err := time.Parse("2006-01-02", dateStr[:10])
	if err != nil {
		return "", ""
	}
	doy := float64(date.YearDay())
	b := 2 * math.Pi * (doy - 1) / 365

	// Solar declination, Spencer 1971.
	dec := 0.006918 -
		0.399912*math.Cos(b) +
		0.070257*math.Sin(b) -
		0.006758*math.Cos(2*b) +
		0.000907*math.Sin(2*b) -
		0.002697*math.Cos(3*b) +
		0.001480*math.Sin(3*b)

	// Equation of time in minutes.
	eot := 229.18 * (0.000075 +
		0.001868*math.Cos(b) -
		0.032077*math.Sin(b) -
		0.014615*math.Cos(2*b) -
		0.040890*math.Sin(2*b))

	solarNoonUTC := 12.0 - lon/15.0 - eot/60.0
	latR := toRadians(lat)

	// Zenith angle for civil twilight is 96 degrees (sun 6 below horizon).
	cosHA := (math.Cos(toRadians(96)) - math.Sin(latR)*math.Sin(dec)) /
		(math.Cos(latR) * math.Cos(dec))
	if math.Abs(cosHA) > 1 {
		return "", ""
	}
	haHours := math.Acos(cosHA) * 180 / math.Pi / 15.0

	toISO := func(utcH float64) string {
		utcH = math.Mod(utcH, 24)
		if utcH < 0 {
			utcH += 24
		}
		secs := int(math.Round(utcH * 3600))
		t := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC).
			Add(time.Duration(secs) * time.Second)
		return t.Format(time.RFC3339)
	}

	return toISO(solarNoonUTC - haHours), toISO(solarNoonUTC + haHours)
}
