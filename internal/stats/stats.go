// Package stats provides the pure statistic reducers used by the series
// pipeline and the map value computation. All reducers are total functions
// over float64 slices: empty input yields 0, never NaN or infinities, so
// downstream arithmetic stays finite.
package stats

import (
	"errors"
	"log/slog"
	"math"
	"sort"
)

// Kind names a statistic reducer. Unknown names dispatch to the mean, see
// Calculate.
type Kind string

const (
	KindActual  Kind = "actual"
	KindAverage Kind = "average"
	KindMin     Kind = "min"
	KindMax     Kind = "max"
	KindMedian  Kind = "median"
	KindMode    Kind = "mode"
	KindP25     Kind = "p25"
	KindP75     Kind = "p75"
	KindTotal   Kind = "total"
	KindStdDev  Kind = "stddev"
)

// ErrInvalidPercentile is returned by Percentile for p outside [0, 100].
var ErrInvalidPercentile = errors.New("percentile must be between 0 and 100")

// IsAverage reports whether the kind means the arithmetic average, including
// the legacy "mean" identifier. The pipeline uses this to select the
// capacity-weighted occupancy formula.
func (k Kind) IsAverage() bool {
	return k == KindAverage || k == "mean"
}

// Mean returns the arithmetic mean, or 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Total(values) / float64(len(values))
}

// Min returns the smallest value, or 0 for empty input.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest value, or 0 for empty input.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Median returns the middle value of a sorted copy; for even lengths it is
// the mean of the two central values.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Mode returns the most frequent value after rounding to one decimal place
// (continuous readings rarely repeat exactly). Ties keep the value first
// encountered in the input.
func Mode(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	counts := make(map[float64]int, len(values))
	order := make([]float64, 0, len(values))
	for _, v := range values {
		r := math.Round(v*10) / 10
		if _, seen := counts[r]; !seen {
			order = append(order, r)
		}
		counts[r]++
	}
	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}

// Percentile returns the p-th percentile using linear interpolation between
// the two nearest ranks of a sorted copy. p=0 and p=100 return the exact
// min/max. p outside [0, 100] returns ErrInvalidPercentile.
func Percentile(values []float64, p float64) (float64, error) {
	if p < 0 || p > 100 {
		return 0, ErrInvalidPercentile
	}
	if len(values) == 0 {
		return 0, nil
	}
	if p == 0 {
		return Min(values), nil
	}
	if p == 100 {
		return Max(values), nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], nil
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac, nil
}

// StdDev returns the population standard deviation (divide by n). Zero or
// one value yields 0.
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := Mean(values)
	var s float64
	for _, v := range values {
		d := v - m
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}

// Total returns the sum, or 0 for empty input.
func Total(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

// Calculate dispatches to the reducer named by kind. Legacy identifiers
// ("mean", "p90") are accepted. An unrecognized kind falls back to the mean
// with a warning rather than an error, so callers sending identifiers from
// newer configurations keep working.
func Calculate(values []float64, kind Kind) float64 {
	switch kind {
	case KindActual, KindAverage, "mean":
		return Mean(values)
	case KindMin:
		return Min(values)
	case KindMax:
		return Max(values)
	case KindMedian:
		return Median(values)
	case KindMode:
		return Mode(values)
	case KindP25:
		v, _ := Percentile(values, 25)
		return v
	case KindP75:
		v, _ := Percentile(values, 75)
		return v
	case "p90":
		v, _ := Percentile(values, 90)
		return v
	case KindTotal:
		return Total(values)
	case KindStdDev:
		return StdDev(values)
	default:
		slog.Warn("unknown statistic kind, falling back to mean", "kind", string(kind))
		return Mean(values)
	}
}
