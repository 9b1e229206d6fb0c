package assess

import (
	"sort"
	"strings"
)

// Thresholds is a named drone-class profile. All values are km/h.
type Thresholds struct {
	Name        string  `json:"name" yaml:"name"`
	WindCaution float64 `json:"windCaution" yaml:"windCaution" validate:"gt=0"`
	WindDanger  float64 `json:"windDanger" yaml:"windDanger" validate:"gtfield=WindCaution"`
	GustCaution float64 `json:"gustCaution" yaml:"gustCaution" validate:"gt=0"`
	GustDanger  float64 `json:"gustDanger" yaml:"gustDanger" validate:"gtfield=GustCaution"`
}

// Built-in drone-class profiles. Sub-250 g craft tolerate far less wind
// than prosumer airframes.
var builtinProfiles = map[string]Thresholds{
	"mini":     {Name: "mini", WindCaution: 15, WindDanger: 25, GustCaution: 20, GustDanger: 35},
	"consumer": {Name: "consumer", WindCaution: 20, WindDanger: 35, GustCaution: 30, GustDanger: 45},
	"pro":      {Name: "pro", WindCaution: 30, WindDanger: 45, GustCaution: 40, GustDanger: 60},
}

// DefaultProfile is used when no drone class is specified.
const DefaultProfile = "consumer"

// ProfileFor returns the thresholds for a drone-class name. The second
// return value is false for unknown names.
func ProfileFor(name string) (Thresholds, bool) {
	t, ok := builtinProfiles[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// ProfileNames lists the built-in drone classes, most conservative
// first, then any registered extras in name order.
func ProfileNames() []string {
	names := []string{"mini", "consumer", "pro"}
	var extras []string
	for name := range builtinProfiles {
		switch name {
		case "mini", "consumer", "pro":
		default:
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	return append(names, extras...)
}

// RegisterProfile adds or overrides a drone-class profile. Meant for
// startup-time configuration, before any assessment runs.
func RegisterProfile(t Thresholds) {
	name := strings.ToLower(strings.TrimSpace(t.Name))
	if name == "" {
		return
	}
	t.Name = name
	builtinProfiles[name] = t
}
