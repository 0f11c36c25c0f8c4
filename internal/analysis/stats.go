package analysis

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/KaramelBytes/musictrends-cli/internal/dataset"
)

// ErrUnknownFeature is returned when a feature name is not part of the schema.
var ErrUnknownFeature = errors.New("unknown feature")

// Features lists the numeric audio features that may be analysed.
func Features() []string { return slices.Clone(dataset.FeatureFields) }

// ValidateFeature reports ErrUnknownFeature for names outside the schema.
func ValidateFeature(name string) error {
	if slices.Contains(dataset.FeatureFields, name) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFeature, name)
}

// values collects the defined values of feature across recs.
func values(recs []dataset.Record, feature string) []float64 {
	out := make([]float64, 0, len(recs))
	for _, r := range recs {
		if v, ok := r.Float(feature); ok {
			out = append(out, v)
		}
	}
	return out
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var s float64
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

// populationStd uses denominator N.
func populationStd(vals []float64, mu float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var ss float64
	for _, v := range vals {
		d := v - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)))
}

// sampleStd uses denominator N-1; fewer than two values give 0.
func sampleStd(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	mu := mean(vals)
	var ss float64
	for _, v := range vals {
		d := v - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}

// upperMedian returns sorted[n/2] of a copy of vals.
func upperMedian(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	cp := slices.Clone(vals)
	sort.Float64s(cp)
	return cp[len(cp)/2]
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := slices.Clone(vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// finite maps NaN and ±Inf to 0.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Round3 rounds to three decimals for presentation.
func Round3(v float64) float64 {
	return math.Round(finite(v)*1000) / 1000
}
