package assess

import (
	"fmt"
	"math"

	"github.com/uavchum/uavchum/internal/geo"
	"github.com/uavchum/uavchum/internal/weather"
)

// Status is the evaluation of one risk factor.
type Status string

const (
	StatusGood    Status = "good"
	StatusCaution Status = "caution"
	StatusDanger  Status = "danger"
)

// Factor is one named, independently evaluated risk dimension.
type Factor struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Status Status `json:"status"`
	Note   string `json:"note"`
}

func speedValue(kmh, kn float64) string {
	return fmt.Sprintf("%d km/h (%d kn)", int(math.Round(kmh)), int(math.Round(kn)))
}

func windFactor(windKn float64, th Thresholds) Factor {
	kmh := geo.KnotsToKmh(windKn)
	val := speedValue(kmh, windKn)
	switch {
	case kmh <= th.WindCaution:
		return Factor{"Wind", val, StatusGood, "Light winds — safe for most drones"}
	case kmh <= th.WindDanger:
		return Factor{"Wind", val, StatusCaution, "Moderate winds — small drones will struggle"}
	default:
		return Factor{"Wind", val, StatusDanger, "Strong winds — unsafe for most consumer drones"}
	}
}

func gustFactor(gustKn float64, th Thresholds) Factor {
	kmh := geo.KnotsToKmh(gustKn)
	val := speedValue(kmh, gustKn)
	switch {
	case kmh <= th.GustCaution:
		return Factor{"Gusts", val, StatusGood, "Gusts within safe limits"}
	case kmh <= th.GustDanger:
		return Factor{"Gusts", val, StatusCaution, "Gusty — expect instability and drift"}
	default:
		return Factor{"Gusts", val, StatusDanger, "Severe gusts — do not fly"}
	}
}

// gustRatioFactor flags disproportionate gusts relative to the steady
// wind. Returns nil below a 2.0 ratio or in near-calm conditions where
// the ratio is meaningless.
func gustRatioFactor(windKn, gustKn float64) *Factor {
	windKmh := geo.KnotsToKmh(windKn)
	if windKmh <= 5 {
		return nil
	}
	ratio := geo.KnotsToKmh(gustKn) / windKmh
	if ratio < 2.0 {
		return nil
	}
	val := fmt.Sprintf("%.1f× ratio", ratio)
	if ratio >= 3.0 {
		return &Factor{"Gust Variability", val, StatusDanger,
			"Extreme gust variability — sudden speed spikes, do not fly"}
	}
	return &Factor{"Gust Variability", val, StatusCaution,
		"High gust variability — expect sudden, unpredictable speed changes"}
}

// windShearFactor compares the 10 m wind to the 80 m wind. Returns nil
// below a 10 kn delta; the caller skips it entirely when no 80 m data
// is available.
func windShearFactor(wind10Kn, wind80Kn float64) *Factor {
	diffKn := wind80Kn - wind10Kn
	if diffKn < 10 {
		return nil
	}
	diffKmh := geo.KnotsToKmh(diffKn)
	val := fmt.Sprintf("%d km/h at 80 m", int(math.Round(geo.KnotsToKmh(wind80Kn))))
	if diffKn >= 20 {
		return &Factor{"Wind Shear", val, StatusDanger,
			fmt.Sprintf("Severe LLWS (+%d km/h above 10 m) — altitude changes will be violent",
				int(math.Round(diffKmh)))}
	}
	return &Factor{"Wind Shear", val, StatusCaution,
		fmt.Sprintf("Low-level wind shear (+%d km/h above 10 m) — turbulence on ascent/descent",
			int(math.Round(diffKmh)))}
}

func precipFactor(precipMM float64, group weather.Group) Factor {
	if precipMM == 0 && group != weather.GroupRain && group != weather.GroupSnow && group != weather.GroupStorm {
		return Factor{"Precipitation", "None", StatusGood, "Dry conditions"}
	}
	if precipMM < 1 && group != weather.GroupStorm {
		return Factor{"Precipitation", fmt.Sprintf("%g mm", precipMM), StatusCaution,
			"Light precipitation — most drones are not waterproof"}
	}
	val := fmt.Sprintf("%g mm", precipMM)
	if precipMM == 0 {
		val = string(group)
	}
	return Factor{"Precipitation", val, StatusDanger, "Active precipitation — risk of water damage"}
}

// cloudFactor never escalates past caution on its own.
func cloudFactor(cloudPct float64) Factor {
	val := fmt.Sprintf("%d%%", int(math.Round(cloudPct)))
	switch {
	case cloudPct <= 50:
		return Factor{"Cloud Cover", val, StatusGood, "Good visual conditions"}
	case cloudPct <= 80:
		return Factor{"Cloud Cover", val, StatusCaution, "Overcast — maintain visual line of sight"}
	default:
		return Factor{"Cloud Cover", val, StatusCaution,
			"Heavy overcast — limited contrast, harder to spot drone"}
	}
}

func tempFactor(tempC float64) Factor {
	val := fmt.Sprintf("%d°C", int(math.Round(tempC)))
	switch {
	case tempC >= 5 && tempC <= 40:
		return Factor{"Temperature", val, StatusGood, "Within normal operating range"}
	case (tempC >= 0 && tempC < 5) || (tempC > 40 && tempC <= 45):
		return Factor{"Temperature", val, StatusCaution, "Battery performance may be reduced"}
	case tempC < 0:
		return Factor{"Temperature", val, StatusDanger,
			"Extreme temperature — battery failure risk, LiPo danger zone"}
	default:
		return Factor{"Temperature", val, StatusDanger, "Extreme heat — risk of overheating"}
	}
}

// severeWeatherFactor covers storm and fog groups, the two conditions
// that block flight regardless of wind. Returns nil for anything else.
func severeWeatherFactor(c weather.Current) *Factor {
	switch c.Group {
	case weather.GroupStorm:
		desc := c.Desc
		if desc == "" {
			desc = "Thunderstorm"
		}
		return &Factor{"Severe Weather", desc, StatusDanger, "Thunderstorms — do NOT fly"}
	case weather.GroupFog:
		return &Factor{"Visibility", "Fog", StatusDanger,
			"Fog — cannot maintain visual line of sight"}
	}
	return nil
}

// fogRiskFactor predicts radiation fog: clear night, near-saturated
// air, near-calm wind.
func fogRiskFactor(c weather.Current) *Factor {
	clearCode := c.WeatherCode == 0 || c.WeatherCode == 1
	if !clearCode || c.IsDay {
		return nil
	}
	if c.Humidity <= 88 || geo.KnotsToKmh(c.WindSpeedKn) >= 9 {
		return nil
	}
	return &Factor{"Fog Risk", fmt.Sprintf("%d%% humidity", int(math.Round(c.Humidity))),
		StatusCaution, "Clear, humid and calm — radiation fog likely by morning"}
}

// densityAltFactor computes density altitude from station pressure,
// temperature, and site elevation.
func densityAltFactor(tempC, pressureHPa, elevM float64) Factor {
	paFt := (1013.25-pressureHPa)*27 + elevM*3.28084
	isaC := 15 - (elevM / 1000 * 6.5)
	daFt := paFt + 120*(tempC-isaC)
	val := fmt.Sprintf("%d ft", int(math.Round(daFt)))
	switch {
	case daFt < 3000:
		return Factor{"Density Altitude", val, StatusGood,
			"Normal air density — full thrust available"}
	case daFt < 6000:
		return Factor{"Density Altitude", val, StatusCaution,
			"Reduced air density — drone may underperform"}
	default:
		return Factor{"Density Altitude", val, StatusDanger,
			"Very high density altitude — significant thrust loss expected"}
	}
}
