package analysis

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/KaramelBytes/musictrends-cli/internal/dataset"
)

// DefaultHitFraction is the share of the ranked population counted as hits.
const DefaultHitFraction = 0.25

// HitFeatures is the default comparison feature set.
var HitFeatures = []string{"energy", "danceability", "valence", "acousticness"}

// Mean is a segment mean that may be undefined (Count == 0).
type Mean struct {
	Value float64
	Count int
}

// Defined reports whether at least one value contributed.
func (m Mean) Defined() bool { return m.Count > 0 }

// MarshalJSON encodes an undefined mean as null.
func (m Mean) MarshalJSON() ([]byte, error) {
	if !m.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func meanOf(vals []float64) Mean {
	if len(vals) == 0 {
		return Mean{}
	}
	return Mean{Value: mean(vals), Count: len(vals)}
}

// FeatureComparison contrasts one feature between hits and the rest.
type FeatureComparison struct {
	Feature string `json:"feature"`
	Hit     Mean   `json:"hit"`
	NonHit  Mean   `json:"non_hit"`
	// Diff is hit − non-hit, undefined unless both sides are.
	Diff Mean `json:"diff"`
}

// HitComparison is the result of Compare.
type HitComparison struct {
	Hits     int                 `json:"hits"`
	NonHits  int                 `json:"non_hits"`
	Features []FeatureComparison `json:"features"`
}

// SplitHits ranks recs by popularity descending (stable; records without
// popularity rank last) and returns the top ceil(fraction·n) and the rest.
func SplitHits(recs []dataset.Record, fraction float64) (hits, rest []dataset.Record) {
	if fraction <= 0 || fraction > 1 || math.IsNaN(fraction) {
		fraction = DefaultHitFraction
	}
	ranked := make([]dataset.Record, len(recs))
	copy(ranked, recs)
	sort.SliceStable(ranked, func(i, j int) bool {
		pi, oki := ranked[i].Float("popularity")
		pj, okj := ranked[j].Float("popularity")
		if oki != okj {
			return oki
		}
		return pi > pj
	})
	n := int(math.Ceil(fraction * float64(len(ranked))))
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n], ranked[n:]
}

// Compare splits recs into hits and non-hits and compares the mean of each
// feature between the segments.
func Compare(recs []dataset.Record, features []string, fraction float64) HitComparison {
	if len(features) == 0 {
		features = HitFeatures
	}
	hits, rest := SplitHits(recs, fraction)
	out := HitComparison{Hits: len(hits), NonHits: len(rest)}
	for _, f := range features {
		fc := FeatureComparison{
			Feature: f,
			Hit:     meanOf(values(hits, f)),
			NonHit:  meanOf(values(rest, f)),
		}
		if fc.Hit.Defined() && fc.NonHit.Defined() {
			fc.Diff = Mean{Value: fc.Hit.Value - fc.NonHit.Value, Count: fc.Hit.Count + fc.NonHit.Count}
		}
		out.Features = append(out.Features, fc)
	}
	return out
}
