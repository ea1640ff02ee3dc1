package bencheval

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// ErrEmptySampleSet reports a column whose samples were all filtered out.
// Statistics over an empty set are undefined, so the pipeline fails loudly
// instead of propagating NaN into the output CSV.
var ErrEmptySampleSet = errors.New("empty sample set")

// Stats holds the descriptive statistics of one sample column.
type Stats struct {
	Mean   float64
	Median float64
	P1     float64
	P25    float64
	P50    float64
	P75    float64
	P99    float64
	Std    float64
	IQR    float64
	Min    float64
	Max    float64
}

// Compute calculates the statistics for one column of samples.
//
// The standard deviation is the population standard deviation and the IQR is
// exactly P75 - P25.
func Compute(samples []float64) (Stats, error) {
	if len(samples) == 0 {
		return Stats{}, ErrEmptySampleSet
	}

	mean, err := stats.Mean(samples)
	if err != nil {
		return Stats{}, fmt.Errorf("mean: %w", err)
	}

	median, err := stats.Median(samples)
	if err != nil {
		return Stats{}, fmt.Errorf("median: %w", err)
	}

	std, err := stats.StandardDeviation(samples)
	if err != nil {
		return Stats{}, fmt.Errorf("standard deviation: %w", err)
	}

	minimum, err := stats.Min(samples)
	if err != nil {
		return Stats{}, fmt.Errorf("min: %w", err)
	}

	maximum, err := stats.Max(samples)
	if err != nil {
		return Stats{}, fmt.Errorf("max: %w", err)
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	p25 := percentile(sorted, 25)
	p75 := percentile(sorted, 75)

	return Stats{
		Mean:   mean,
		Median: median,
		P1:     percentile(sorted, 1),
		P25:    p25,
		P50:    percentile(sorted, 50),
		P75:    p75,
		P99:    percentile(sorted, 99),
		Std:    std,
		IQR:    p75 - p25,
		Min:    minimum,
		Max:    maximum,
	}, nil
}

// percentile returns the p-th percentile of the sorted samples, linearly
// interpolating between the two nearest order statistics.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)

	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Shift returns a copy of the samples with offset subtracted from every
// value.
func Shift(samples []float64, offset float64) []float64 {
	shifted := make([]float64, len(samples))
	for i, v := range samples {
		shifted[i] = v - offset
	}

	return shifted
}
