// Package assess converts a weather snapshot and a drone-class
// threshold profile into a GO/MARGINAL/NO-GO flight assessment with an
// explainable factor list and an hour-by-hour risk timeline.
package assess

import (
	"time"

	"github.com/uavchum/uavchum/internal/geo"
	"github.com/uavchum/uavchum/internal/weather"
)

// Verdict is the overall flight recommendation.
type Verdict string

const (
	VerdictGo       Verdict = "GO"
	VerdictMarginal Verdict = "MARGINAL"
	VerdictNoGo     Verdict = "NO-GO"
)

// HourVerdict is one entry of the hourly risk timeline.
type HourVerdict struct {
	Time   time.Time `json:"time"`
	Status Status    `json:"status"`
}

// Assessment is the complete result of one evaluation. It is rebuilt
// from scratch on every input change, never partially mutated.
type Assessment struct {
	Verdict Verdict       `json:"verdict"`
	Color   string        `json:"color"`
	Summary string        `json:"summary"`
	Factors []Factor      `json:"factors"`
	Hourly  []HourVerdict `json:"hourly"`
}

// Assess evaluates current conditions for drone flight. Pure function:
// no I/O, deterministic for identical inputs. siteElevationM overrides
// the snapshot's own elevation when supplied; with neither available
// the density-altitude factor is omitted.
func Assess(snap weather.Snapshot, th Thresholds, siteElevationM *float64) Assessment {
	c := snap.Current

	// Factor order is fixed and meaningful for display; the verdict
	// does not depend on it.
	factors := []Factor{
		windFactor(c.WindSpeedKn, th),
		gustFactor(c.WindGustsKn, th),
	}

	if f := gustRatioFactor(c.WindSpeedKn, c.WindGustsKn); f != nil {
		factors = append(factors, *f)
	}
	if c.Wind80mKn != nil {
		if f := windShearFactor(c.WindSpeedKn, *c.Wind80mKn); f != nil {
			factors = append(factors, *f)
		}
	}

	factors = append(factors,
		precipFactor(c.PrecipMM, c.Group),
		cloudFactor(c.CloudCover),
		tempFactor(c.TempC),
	)

	if f := severeWeatherFactor(c); f != nil {
		factors = append(factors, *f)
	}
	if f := fogRiskFactor(c); f != nil {
		factors = append(factors, *f)
	}

	elev := siteElevationM
	if elev == nil {
		elev = snap.ElevationM
	}
	if elev != nil {
		pressure := c.PressureHPa
		if pressure == 0 {
			pressure = 1013.25
		}
		factors = append(factors, densityAltFactor(c.TempC, pressure, *elev))
	}

	a := Assessment{
		Factors: factors,
		Hourly:  hourlyTimeline(snap.Hourly, th),
	}
	a.Verdict, a.Color, a.Summary = aggregate(factors)
	return a
}

// WithFactor returns a copy of the assessment with one extra factor
// appended and the verdict recomputed. The Live Feed Scheduler uses
// this to merge the lightning factor without re-running the full
// assessment.
func (a Assessment) WithFactor(f Factor) Assessment {
	factors := make([]Factor, 0, len(a.Factors)+1)
	factors = append(factors, a.Factors...)
	factors = append(factors, f)

	out := Assessment{Factors: factors, Hourly: a.Hourly}
	out.Verdict, out.Color, out.Summary = aggregate(factors)
	return out
}

// aggregate reduces factor statuses to the overall verdict: any danger
// blocks flight; two or more cautions are marginal; a single caution is
// still marginal; only an all-good list is a GO.
func aggregate(factors []Factor) (Verdict, string, string) {
	var cautions int
	for _, f := range factors {
		switch f.Status {
		case StatusDanger:
			return VerdictNoGo, "red", "Conditions are unsafe for drone flight"
		case StatusCaution:
			cautions++
		}
	}
	if cautions >= 2 {
		return VerdictMarginal, "amber", "Fly with caution — multiple limiting factors"
	}
	if cautions == 1 {
		return VerdictMarginal, "amber", "Mostly OK but check limiting factors"
	}
	return VerdictGo, "green", "Conditions are good for drone flight"
}

// hourlyTimeline marks each forecast hour good/caution/danger against
// the profile thresholds.
func hourlyTimeline(hours []weather.Hour, th Thresholds) []HourVerdict {
	out := make([]HourVerdict, 0, len(hours))
	for _, h := range hours {
		windKmh := geo.KnotsToKmh(h.WindKn)
		gustKmh := geo.KnotsToKmh(h.GustsKn)

		block := windKmh > th.WindDanger || gustKmh > th.GustDanger ||
			h.Group == weather.GroupStorm || h.Group == weather.GroupFog

		issues := 0
		if windKmh > th.WindCaution {
			issues++
		}
		if gustKmh > th.GustCaution {
			issues++
		}
		if h.Group == weather.GroupRain || h.Group == weather.GroupSnow {
			issues++
		}
		if h.PrecipProb > 60 {
			issues++
		}

		status := StatusGood
		switch {
		case block:
			status = StatusDanger
		case issues >= 2:
			status = StatusCaution
		}
		out = append(out, HourVerdict{Time: h.Time, Status: status})
	}
	return out
}

// DangerFactors returns the factors with danger status, in display order.
func (a Assessment) DangerFactors() []Factor {
	var out []Factor
	for _, f := range a.Factors {
		if f.Status == StatusDanger {
			out = append(out, f)
		}
	}
	return out
}
