package metrics

import (
	"fmt"
	"math"
)

// Thresholds is a tri-state status table. A percentage at or above Upper maps
// to High, at or above Lower maps to Mid, anything else maps to Low.
type Thresholds struct {
	Upper float64
	Lower float64
	High  string
	Mid   string
	Low   string
}

// Progress is a percentage of target and the status it maps to.
type Progress struct {
	Percentage int
	Status     string
}

// Validate checks the table is ordered and fully labelled.
func (t Thresholds) Validate() error {
	if t.Lower < 0 || t.Upper < t.Lower {
		return fmt.Errorf("%w: upper=%v lower=%v", ErrInvalidThresholds, t.Upper, t.Lower)
	}
	if t.High == "" || t.Mid == "" || t.Low == "" {
		return fmt.Errorf("%w: all three status labels are required", ErrInvalidThresholds)
	}
	return nil
}

// StatusFor maps an already rounded percentage to its label.
func (t Thresholds) StatusFor(percentage int) string {
	p := float64(percentage)
	switch {
	case p >= t.Upper:
		return t.High
	case p >= t.Lower:
		return t.Mid
	default:
		return t.Low
	}
}

// Evaluate computes round(current/target*100) and its status.
// Callers substitute a default target before calling; target <= 0 is rejected.
func Evaluate(current, target float64, t Thresholds) (Progress, error) {
	if target <= 0 {
		return Progress{}, fmt.Errorf("%w: got %v", ErrDivisionByZeroTarget, target)
	}
	pct := int(math.Round(current / target * 100))
	return Progress{Percentage: pct, Status: t.StatusFor(pct)}, nil
}

// Default threshold tables per tracked domain.
var (
	CalorieThresholds = Thresholds{Upper: 100, Lower: 80, High: "Above Target", Mid: "On Track", Low: "Below Target"}
	WaterThresholds   = Thresholds{Upper: 100, Lower: 50, High: "Hydrated", Mid: "Mildly dehydrated", Low: "Dehydrated"}
	WorkoutThresholds = Thresholds{Upper: 100, Lower: 50, High: "Goal Met", Mid: "In Progress", Low: "Behind"}
	SleepThresholds   = Thresholds{Upper: 100, Lower: 75, High: "Well Rested", Mid: "Slightly Rested", Low: "Sleep Deprived"}
)
