package analysis

import (
	"math"

	"github.com/KaramelBytes/musictrends-cli/internal/dataset"
)

// Rescaling applied before correlation so features share a comparable range.
//   - tempo: divided by 200 (BPM ceiling)
//   - loudness: divided by 60 (dB floor magnitude)
//   - popularity (the target): divided by 100
//   - everything else is already 0..1 and is used as-is
var featureScale = map[string]float64{
	"tempo":      200,
	"loudness":   60,
	"popularity": 100,
}

// DefaultTarget is the metric features are correlated against.
const DefaultTarget = "popularity"

// CorrelationFeatures is the default feature set for popularity correlation.
var CorrelationFeatures = []string{
	"energy", "danceability", "valence", "acousticness", "tempo", "loudness",
}

// Scale returns the rescaling divisor for a field (1 when none applies).
func Scale(field string) float64 {
	if s, ok := featureScale[field]; ok {
		return s
	}
	return 1
}

// YearRange restricts a computation to [From, To]. The zero value means no
// restriction.
type YearRange struct {
	From, To int
}

// Active reports whether the range restricts anything.
func (y YearRange) Active() bool { return y.From != 0 || y.To != 0 }

// Contains reports whether r falls in the range. Records without a valid year
// are excluded from an active range.
func (y YearRange) Contains(r dataset.Record) bool {
	if !y.Active() {
		return true
	}
	if !r.HasYear() {
		return false
	}
	if y.From != 0 && r.Year < y.From {
		return false
	}
	if y.To != 0 && r.Year > y.To {
		return false
	}
	return true
}

// pairAcc accumulates sums for a streaming Pearson coefficient.
type pairAcc struct {
	n     float64
	sumX  float64
	sumY  float64
	sumXX float64
	sumYY float64
	sumXY float64
}

func (pa *pairAcc) add(x, y float64) {
	pa.n++
	pa.sumX += x
	pa.sumY += y
	pa.sumXX += x * x
	pa.sumYY += y * y
	pa.sumXY += x * y
}

// r returns the clamped coefficient; no pairs or zero variance give 0.
func (pa *pairAcc) r() float64 {
	if pa.n < 1 {
		return 0
	}
	denom := math.Sqrt((pa.n*pa.sumXX - pa.sumX*pa.sumX) * (pa.n*pa.sumYY - pa.sumY*pa.sumY))
	if denom == 0 || math.IsNaN(denom) {
		return 0
	}
	r := (pa.n*pa.sumXY - pa.sumX*pa.sumY) / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return finite(r)
}

// Pearson correlates a feature with target over records where both are
// defined, after rescaling each by Scale.
func Pearson(recs []dataset.Record, feature, target string, yr YearRange) float64 {
	var pa pairAcc
	fs, ts := Scale(feature), Scale(target)
	for _, r := range recs {
		if !yr.Contains(r) {
			continue
		}
		x, ok := r.Float(feature)
		if !ok {
			continue
		}
		y, ok := r.Float(target)
		if !ok {
			continue
		}
		pa.add(x/fs, y/ts)
	}
	return pa.r()
}

// Correlations returns feature → r against target. The map is unordered;
// ranking is left to the caller.
func Correlations(recs []dataset.Record, features []string, target string, yr YearRange) map[string]float64 {
	if len(features) == 0 {
		features = CorrelationFeatures
	}
	if target == "" {
		target = DefaultTarget
	}
	out := make(map[string]float64, len(features))
	for _, f := range features {
		out[f] = Pearson(recs, f, target, yr)
	}
	return out
}
