package query

// stats.go implements the sample statistics used by the aggregate
// operations. Every function takes the known values only; an empty input
// yields Unknown rather than zero or NaN, so "no data" stays distinguishable
// from "measured zero" all the way to the chart.

import (
	"math"
	"sort"

	"github.com/menustat/menustat/internal/dataset"
)

func mean(xs []float64) dataset.Value {
	if len(xs) == 0 {
		return dataset.Value{}
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return dataset.Known(sum / float64(len(xs)))
}

func median(xs []float64) dataset.Value {
	if len(xs) == 0 {
		return dataset.Value{}
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return dataset.Known(sorted[mid])
	}
	return dataset.Known((sorted[mid-1] + sorted[mid]) / 2)
}

// stdDev is the sample standard deviation (n-1 denominator).
// Unknown when fewer than two values are known.
func stdDev(xs []float64) dataset.Value {
	if len(xs) < 2 {
		return dataset.Value{}
	}
	m := mean(xs).Float64
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return dataset.Known(math.Sqrt(ss / float64(len(xs)-1)))
}

func minOf(xs []float64) dataset.Value {
	if len(xs) == 0 {
		return dataset.Value{}
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return dataset.Known(m)
}

func maxOf(xs []float64) dataset.Value {
	if len(xs) == 0 {
		return dataset.Value{}
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return dataset.Known(m)
}

// round2 rounds a known value to two decimal places; Unknown passes through.
func round2(v dataset.Value) dataset.Value {
	if !v.Valid {
		return v
	}
	return dataset.Known(math.Round(v.Float64*100) / 100)
}
