package visibility

import (
	"fmt"
	"math"
	"sort"
)

// Config configures a [Scheduler].
type Config struct {
	// RootMargin expands the root's window before intersection testing,
	// in CSS margin shorthand (see [ParseMargin]). Empty means no margin.
	RootMargin string

	// Thresholds are the visibility fractions at which the sensor
	// reports transitions. Nil or empty defaults to [0], meaning any
	// overlap change is reported. Values are de-duplicated and sorted.
	Thresholds []float64

	// InitiallyVisible is the number of consumers granted visible status
	// at startup, before any sensor measurement. Zero disables grants.
	InitiallyVisible int

	// SensorFactory constructs the underlying sensor. Required.
	SensorFactory SensorFactory
}

// normalizeThresholds validates, sorts, and de-duplicates fractions.
func normalizeThresholds(thresholds []float64) ([]float64, error) {
	if len(thresholds) == 0 {
		return []float64{0}, nil
	}
	out := make([]float64, len(thresholds))
	for i, t := range thresholds {
		if math.IsNaN(t) || t < 0 || t > 1 {
			return nil, fmt.Errorf("threshold %v is outside [0, 1]", t)
		}
		out[i] = t
	}
	sort.Float64s(out)
	deduped := out[:1]
	for _, t := range out[1:] {
		if t != deduped[len(deduped)-1] {
			deduped = append(deduped, t)
		}
	}
	return deduped, nil
}
