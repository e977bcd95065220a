package lic

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	HistogramBins = 256
	// Weight of the equalized value in the final blend
	equalizeBlend = 0.5
)

/*
Equalize replaces each value by a blend of itself and its position in the
cumulative histogram, spreading the contrast of a narrow intensity band.
Values are expected in [0,1], anything outside counts toward the end bins.
*/
func Equalize(values []float64) {
	if len(values) == 0 {
		return
	}
	var (
		sorted   = make([]float64, len(values))
		dividers = make([]float64, HistogramBins+1)
		cdf      = make([]float64, HistogramBins)
		total    = float64(len(values))
	)
	for i, v := range values {
		sorted[i] = math.Max(0, math.Min(1, v))
	}
	sort.Float64s(sorted)
	floats.Span(dividers, 0, 1)
	// The last divider must exceed the largest value
	dividers[HistogramBins] = math.Nextafter(1, 2)
	counts := stat.Histogram(nil, dividers, sorted, nil)
	floats.CumSum(cdf, counts)
	floats.Scale(1/total, cdf)
	for i, v := range values {
		values[i] = (1-equalizeBlend)*v + equalizeBlend*cdf[bin(v)]
	}
}

func bin(v float64) int {
	b := int(v * HistogramBins)
	if b < 0 {
		return 0
	}
	if b >= HistogramBins {
		return HistogramBins - 1
	}
	return b
}
