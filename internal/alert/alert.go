// Package alert reduces normalized hazard layers and weather danger
// factors into one ordered, deduplicated alert feed.
package alert

import (
	"fmt"

	"github.com/uavchum/uavchum/internal/assess"
	"github.com/uavchum/uavchum/internal/hazard"
)

// Severity triages an alert for display.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Alert is one display entry of the feed.
type Alert struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
}

// DefaultCap bounds the feed length independent of hazard feature counts.
const DefaultCap = 6

// alertZoneCodes is the fixed emission order for typed-zone alerts:
// prohibited, restricted, danger, then the control-zone types.
var alertZoneCodes = []int{3, 1, 2, 4, 13, 14}

var zoneCodeTitles = map[int]string{
	3:  "Prohibited Area",
	1:  "Restricted Area",
	2:  "Danger Area",
	4:  "Control Zone (CTR)",
	13: "Aerodrome Traffic Zone",
	14: "Military Aerodrome Traffic Zone",
}

var zoneCodeSeverity = map[int]Severity{
	3:  SeverityDanger,
	1:  SeverityDanger,
	2:  SeverityDanger,
	4:  SeverityWarning,
	13: SeverityWarning,
	14: SeverityWarning,
}

// Prioritize builds the alert feed from the normalized layers and the
// assessment's danger factors, capped at limit entries (DefaultCap
// when limit <= 0). hazardFetched reports whether the hazard fetch succeeded
// at all; it selects between the two fallback informational alerts.
func Prioritize(layers map[string]hazard.Layer, dangerFactors []assess.Factor, hazardFetched bool, limit int) []Alert {
	if limit <= 0 {
		limit = DefaultCap
	}

	var out []Alert
	push := func(a Alert) {
		if len(out) < limit {
			out = append(out, a)
		}
	}

	// Weather danger factors lead the feed: the first alert a pilot
	// reads must be the most flight-blocking condition.
	for _, f := range dangerFactors {
		push(Alert{
			Severity: SeverityDanger,
			Title:    f.Name,
			Text:     f.Note,
		})
	}

	hazardAlerts := 0

	// One alert per distinct controlled-airspace class actually
	// present; first occurrence wins.
	for _, key := range []string{hazard.LayerControlledB, hazard.LayerControlledC, hazard.LayerControlledD} {
		l, ok := layers[key]
		if !ok || len(l.Features) == 0 {
			continue
		}
		f := l.Features[0]
		name := f.Name
		if name == "" {
			name = l.Label
		}
		push(Alert{
			Severity: SeverityWarning,
			Title:    fmt.Sprintf("Class %s Airspace", f.Class),
			Text:     fmt.Sprintf("%s — authorization required before flight", name),
		})
		hazardAlerts++
	}

	// One alert per distinct typed-zone code from the fixed priority
	// list, skipping codes already emitted.
	seenCodes := make(map[int]bool)
	for _, code := range alertZoneCodes {
		if seenCodes[code] {
			continue
		}
		f, ok := firstZoneWithCode(layers, code)
		if !ok {
			continue
		}
		seenCodes[code] = true
		name := f.Name
		if name == "" {
			name = zoneCodeTitles[code]
		}
		push(Alert{
			Severity: zoneCodeSeverity[code],
			Title:    zoneCodeTitles[code],
			Text:     fmt.Sprintf("%s — verify airspace rules before flight", name),
		})
		hazardAlerts++
	}

	// Every active restriction is independently actionable; no dedup.
	if l, ok := layers[hazard.LayerTFR]; ok {
		for _, f := range l.Features {
			name := f.Name
			if name == "" {
				name = "Temporary Flight Restriction"
			}
			push(Alert{
				Severity: SeverityDanger,
				Title:    "Temporary Flight Restriction",
				Text:     fmt.Sprintf("%s — flight prohibited inside the restriction", name),
			})
			hazardAlerts++
		}
	}

	if hazardAlerts == 0 {
		if hazardFetched && anyHazardFeature(layers) {
			push(Alert{
				Severity: SeverityInfo,
				Title:    "No blocking airspace",
				Text:     "Only proximity zones are shown for this area",
			})
		} else if !anyHazardFeature(layers) {
			push(Alert{
				Severity: SeverityInfo,
				Title:    "No airspace data",
				Text:     "No hazard data available — verify local restrictions before flight",
			})
		}
	}

	return out
}

// firstZoneWithCode scans the typed-zone layers in bucket order for
// the first feature carrying the given code. Features inside each
// layer keep provider iteration order.
func firstZoneWithCode(layers map[string]hazard.Layer, code int) (hazard.Feature, bool) {
	for _, key := range []string{
		hazard.LayerZonesRestrict,
		hazard.LayerZonesCTR,
		hazard.LayerZonesTMA,
		hazard.LayerZonesOther,
	} {
		l, ok := layers[key]
		if !ok {
			continue
		}
		for _, f := range l.Features {
			if f.ZoneCode == code {
				return f, true
			}
		}
	}
	return hazard.Feature{}, false
}

// hazardLayerKeys are the layers the airspace fetch produces. The
// fallback alerts consider only these: the live feeds (traffic,
// lightning, radar) populate asynchronously and say nothing about
// whether airspace data was available.
var hazardLayerKeys = []string{
	hazard.LayerControlledB,
	hazard.LayerControlledC,
	hazard.LayerControlledD,
	hazard.LayerZonesRestrict,
	hazard.LayerZonesCTR,
	hazard.LayerZonesTMA,
	hazard.LayerZonesOther,
	hazard.LayerCeilingGrids,
	hazard.LayerTFR,
	hazard.LayerAirports,
}

func anyHazardFeature(layers map[string]hazard.Layer) bool {
	for _, key := range hazardLayerKeys {
		if len(layers[key].Features) > 0 {
			return true
		}
	}
	return false
}
