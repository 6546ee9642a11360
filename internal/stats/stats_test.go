package stats

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func TestMeanMatchesTotalOverLength(t *testing.T) {
	cases := [][]float64{
		{1},
		{1, 2, 3},
		{-5, 5},
		{0.1, 0.2, 0.3, 0.4},
		{100, 100, 100},
	}
	for _, v := range cases {
		want := Total(v) / float64(len(v))
		if got := Mean(v); math.Abs(got-want) > eps {
			t.Errorf("Mean(%v) = %v, want %v", v, got, want)
		}
	}
}

func TestEmptyInputsYieldZero(t *testing.T) {
	if Mean(nil) != 0 {
		t.Errorf("Mean(nil) = %v, want 0", Mean(nil))
	}
	if Min(nil) != 0 {
		t.Errorf("Min(nil) = %v, want 0", Min(nil))
	}
	if Max(nil) != 0 {
		t.Errorf("Max(nil) = %v, want 0", Max(nil))
	}
	if Median(nil) != 0 {
		t.Errorf("Median(nil) = %v, want 0", Median(nil))
	}
	if Mode(nil) != 0 {
		t.Errorf("Mode(nil) = %v, want 0", Mode(nil))
	}
	if Total(nil) != 0 {
		t.Errorf("Total(nil) = %v, want 0", Total(nil))
	}
	if StdDev(nil) != 0 {
		t.Errorf("StdDev(nil) = %v, want 0", StdDev(nil))
	}
	if v, err := Percentile(nil, 50); err != nil || v != 0 {
		t.Errorf("Percentile(nil, 50) = %v, %v, want 0, nil", v, err)
	}
}

func TestMedianEvenLength(t *testing.T) {
	got := Median([]float64{4, 1, 3, 2})
	if math.Abs(got-2.5) > eps {
		t.Errorf("Median = %v, want 2.5", got)
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	v := []float64{3, 1, 2}
	Median(v)
	if v[0] != 3 || v[1] != 1 || v[2] != 2 {
		t.Errorf("Median mutated its input: %v", v)
	}
}

func TestPercentileAgreesWithMedianMinMax(t *testing.T) {
	cases := [][]float64{
		{1, 2, 3, 4, 5},
		{10, 20},
		{7},
		{3, 1, 4, 1, 5, 9, 2, 6},
	}
	for _, v := range cases {
		p50, err := Percentile(v, 50)
		if err != nil {
			t.Fatalf("Percentile(%v, 50): %v", v, err)
		}
		if math.Abs(p50-Median(v)) > eps {
			t.Errorf("Percentile(%v, 50) = %v, want median %v", v, p50, Median(v))
		}
		p0, _ := Percentile(v, 0)
		if p0 != Min(v) {
			t.Errorf("Percentile(%v, 0) = %v, want min %v", v, p0, Min(v))
		}
		p100, _ := Percentile(v, 100)
		if p100 != Max(v) {
			t.Errorf("Percentile(%v, 100) = %v, want max %v", v, p100, Max(v))
		}
	}
}

func TestPercentileInterpolates(t *testing.T) {
	v := []float64{10, 20, 30, 40}
	got, err := Percentile(v, 25)
	if err != nil {
		t.Fatal(err)
	}
	// rank 0.75 between 10 and 20
	if math.Abs(got-17.5) > eps {
		t.Errorf("Percentile(v, 25) = %v, want 17.5", got)
	}
}

func TestPercentileRejectsOutOfRange(t *testing.T) {
	for _, p := range []float64{-1, 101, 1000} {
		if _, err := Percentile([]float64{1, 2, 3}, p); !errors.Is(err, ErrInvalidPercentile) {
			t.Errorf("Percentile(v, %v) error = %v, want ErrInvalidPercentile", p, err)
		}
	}
}

func TestStdDevConstantIsZero(t *testing.T) {
	for _, v := range [][]float64{{5}, {5, 5}, {5, 5, 5, 5, 5}} {
		if got := StdDev(v); got != 0 {
			t.Errorf("StdDev(%v) = %v, want 0", v, got)
		}
	}
}

func TestStdDevIsPopulation(t *testing.T) {
	// population stddev of {2, 4, 4, 4, 5, 5, 7, 9} is exactly 2
	got := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(got-2) > eps {
		t.Errorf("StdDev = %v, want 2", got)
	}
}

func TestModeRoundsToOneDecimal(t *testing.T) {
	// 1.04 and 1.01 both round to 1.0 and together outnumber 2.0
	got := Mode([]float64{2.0, 1.04, 2.0, 1.01, 1.02})
	if math.Abs(got-1.0) > eps {
		t.Errorf("Mode = %v, want 1.0", got)
	}
}

func TestModeTieBreaksByFirstSeen(t *testing.T) {
	got := Mode([]float64{3.0, 1.0, 3.0, 1.0})
	if got != 3.0 {
		t.Errorf("Mode = %v, want first-encountered 3.0", got)
	}
}

func TestCalculateDispatch(t *testing.T) {
	v := []float64{1, 2, 3, 4}
	cases := []struct {
		kind Kind
		want float64
	}{
		{KindAverage, 2.5},
		{"mean", 2.5},
		{KindActual, 2.5},
		{KindMin, 1},
		{KindMax, 4},
		{KindMedian, 2.5},
		{KindTotal, 10},
		{KindP25, 1.75},
		{KindP75, 3.25},
	}
	for _, c := range cases {
		if got := Calculate(v, c.kind); math.Abs(got-c.want) > eps {
			t.Errorf("Calculate(v, %q) = %v, want %v", c.kind, got, c.want)
		}
	}
}

func TestCalculateUnknownKindFallsBackToMean(t *testing.T) {
	v := []float64{2, 4, 6}
	if got := Calculate(v, "unknownStat"); math.Abs(got-Mean(v)) > eps {
		t.Errorf("Calculate(v, unknownStat) = %v, want mean %v", got, Mean(v))
	}
}
