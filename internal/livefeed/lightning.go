package livefeed

import (
	"fmt"

	"github.com/uavchum/uavchum/internal/assess"
)

// NearestStrikeFactor derives the lightning risk factor from the
// nearest strike distance. Returns nil when no strikes are in range;
// the factor is then absent from the assessment rather than "good".
func NearestStrikeFactor(nearestNM *float64) *assess.Factor {
	if nearestNM == nil {
		return nil
	}
	val := fmt.Sprintf("%.1f nm away", *nearestNM)
	switch {
	case *nearestNM <= 10:
		return &assess.Factor{
			Name:   "Lightning",
			Value:  val,
			Status: assess.StatusDanger,
			Note:   "Lightning within 10 nm — do not fly",
		}
	case *nearestNM <= 25:
		return &assess.Factor{
			Name:   "Lightning",
			Value:  val,
			Status: assess.StatusCaution,
			Note:   "Lightning nearby — monitor closely",
		}
	default:
		return &assess.Factor{
			Name:   "Lightning",
			Value:  val,
			Status: assess.StatusCaution,
			Note:   "Lightning in the area — stay alert",
		}
	}
}
