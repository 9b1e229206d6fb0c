package weather

// Decoded is the human-readable expansion of a WMO weather code.
type Decoded struct {
	Desc  string `json:"desc"`
	Icon  string `json:"icon"`
	Group Group  `json:"group"`
}

// wmoCodes maps WMO weather interpretation codes to display strings
// and condition groups. The table is a constant: the same code always
// renders identically across fetches.
var wmoCodes = map[int]Decoded{
	0:  {"Clear sky", "wi-day-sunny", GroupClear},
	1:  {"Mainly clear", "wi-day-sunny-overcast", GroupClear},
	2:  {"Partly cloudy", "wi-cloud", GroupCloud},
	3:  {"Overcast", "wi-cloudy", GroupCloud},
	45: {"Fog", "wi-fog", GroupFog},
	48: {"Rime fog", "wi-fog", GroupFog},
	51: {"Light drizzle", "wi-sprinkle", GroupRain},
	53: {"Moderate drizzle", "wi-sprinkle", GroupRain},
	55: {"Dense drizzle", "wi-sprinkle", GroupRain},
	56: {"Freezing drizzle", "wi-rain-mix", GroupRain},
	57: {"Heavy freezing drizzle", "wi-rain-mix", GroupRain},
	61: {"Slight rain", "wi-rain", GroupRain},
	63: {"Moderate rain", "wi-rain", GroupRain},
	65: {"Heavy rain", "wi-rain-wind", GroupRain},
	66: {"Freezing rain", "wi-rain-mix", GroupRain},
	67: {"Heavy freezing rain", "wi-rain-mix", GroupRain},
	71: {"Slight snow", "wi-snow", GroupSnow},
	73: {"Moderate snow", "wi-snow", GroupSnow},
	75: {"Heavy snow", "wi-snow-wind", GroupSnow},
	77: {"Snow grains", "wi-snow", GroupSnow},
	80: {"Slight showers", "wi-showers", GroupRain},
	81: {"Moderate showers", "wi-showers", GroupRain},
	82: {"Violent showers", "wi-storm-showers", GroupRain},
	85: {"Slight snow showers", "wi-snow", GroupSnow},
	86: {"Heavy snow showers", "wi-snow-wind", GroupSnow},
	95: {"Thunderstorm", "wi-thunderstorm", GroupStorm},
	96: {"Thunderstorm + hail", "wi-thunderstorm", GroupStorm},
	99: {"Thunderstorm + heavy hail", "wi-thunderstorm", GroupStorm},
}

// DecodeWMO expands a WMO weather code. Unknown codes decode to the
// unknown group rather than failing.
func DecodeWMO(code int) Decoded {
	if d, ok := wmoCodes[code]; ok {
		return d
	}
	return Decoded{Desc: "Unknown", Icon: "wi-na", Group: GroupUnknown}
}
