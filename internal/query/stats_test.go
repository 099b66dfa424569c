package query

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	if got := mean(nil); got.Valid {
		t.Errorf("mean(nil) = %+v, want Unknown", got)
	}
	if got := mean([]float64{5}); !got.Valid || got.Float64 != 5 {
		t.Errorf("mean([5]) = %+v, want 5", got)
	}
	if got := mean([]float64{1, 2, 6}); !got.Valid || got.Float64 != 3 {
		t.Errorf("mean([1 2 6]) = %+v, want 3", got)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{"odd count", []float64{9, 1, 5}, 5},
		{"even count", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := median(tt.in)
			if !got.Valid || got.Float64 != tt.want {
				t.Errorf("median(%v) = %+v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if got := median(nil); got.Valid {
		t.Errorf("median(nil) = %+v, want Unknown", got)
	}
}

func TestStdDev(t *testing.T) {
	// Fewer than two samples: Unknown, never zero and never NaN.
	if got := stdDev(nil); got.Valid {
		t.Errorf("stdDev(nil) = %+v, want Unknown", got)
	}
	if got := stdDev([]float64{42}); got.Valid {
		t.Errorf("stdDev([42]) = %+v, want Unknown", got)
	}

	// Sample standard deviation of [2 4 4 4 5 5 7 9] with n-1 denominator.
	got := stdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	want := math.Sqrt(32.0 / 7.0)
	if !got.Valid || math.Abs(got.Float64-want) > 1e-12 {
		t.Errorf("stdDev = %+v, want %v", got, want)
	}
}

func TestMinMax(t *testing.T) {
	xs := []float64{3, -1, 8, 0}
	if got := minOf(xs); !got.Valid || got.Float64 != -1 {
		t.Errorf("minOf(%v) = %+v, want -1", xs, got)
	}
	if got := maxOf(xs); !got.Valid || got.Float64 != 8 {
		t.Errorf("maxOf(%v) = %+v, want 8", xs, got)
	}
	if got := minOf(nil); got.Valid {
		t.Errorf("minOf(nil) = %+v, want Unknown", got)
	}
}

func TestRound2(t *testing.T) {
	if got := round2(mean([]float64{1, 2})); got.Float64 != 1.5 {
		t.Errorf("round2(1.5) = %+v, want 1.5", got)
	}
	if got := round2(mean([]float64{1, 1, 1, 1, 1, 2})); got.Float64 != 1.17 {
		t.Errorf("round2(7/6) = %+v, want 1.17", got)
	}
	if got := round2(stdDev(nil)); got.Valid {
		t.Errorf("round2(Unknown) = %+v, want Unknown", got)
	}
}
