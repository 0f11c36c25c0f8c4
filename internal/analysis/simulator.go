package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/musictrends-cli/internal/dataset"
	"github.com/KaramelBytes/musictrends-cli/internal/genre"
)

// Weights maps a feature to its importance in the custom score.
type Weights map[string]float64

// ScoreFeatures are the features the simulator understands, in display order.
var ScoreFeatures = []string{
	"energy", "danceability", "valence", "acousticness", "tempo",
	"instrumentalness", "liveness", "speechiness", "loudness",
}

// DefaultWeights returns the initial simulator weights. Loudness starts at 0.
func DefaultWeights() Weights {
	return Weights{
		"energy":           0.5,
		"danceability":     0.5,
		"valence":          0.5,
		"acousticness":     0.3,
		"tempo":            0.4,
		"instrumentalness": 0.2,
		"liveness":         0.3,
		"speechiness":      0.1,
	}
}

// Clone returns an independent copy.
func (w Weights) Clone() Weights {
	c := make(Weights, len(w))
	for k, v := range w {
		c[k] = v
	}
	return c
}

// total sums the weights of ScoreFeatures; other keys are ignored.
func (w Weights) total() float64 {
	var t float64
	for _, f := range ScoreFeatures {
		t += w[f]
	}
	return t
}

// NormalizeFeature maps a raw feature value into roughly 0..1: loudness as
// clamp((l+10)/10, 0, 1), tempo as tempo/200, everything else unchanged.
func NormalizeFeature(feature string, v float64) float64 {
	switch feature {
	case "loudness":
		return math.Max(0, math.Min(1, (v+10)/10))
	case "tempo":
		return v / 200
	}
	return v
}

// CustomScore is Σ wᵢ·xᵢ / Σ wᵢ over the normalized ScoreFeatures, summed in
// ScoreFeatures order. Missing features count as 0 and a zero weight total
// yields 0. Weights for other keys are ignored.
func CustomScore(f genre.Features, w Weights) float64 {
	tot := w.total()
	if tot == 0 {
		return 0
	}
	var s float64
	for _, feat := range ScoreFeatures {
		wt := w[feat]
		if wt == 0 || f == nil {
			continue
		}
		v, ok := f.Float(feat)
		if !ok {
			continue
		}
		s += wt * NormalizeFeature(feat, v)
	}
	return finite(s / tot)
}

// ScorePoint is the mean custom score for one year.
type ScorePoint struct {
	Year  int     `json:"year"`
	Score float64 `json:"score"`
	Count int     `json:"count"`
}

// GenreScore is the mean custom score for one genre.
type GenreScore struct {
	Genre genre.Label `json:"genre"`
	Score float64     `json:"score"`
	Count int         `json:"count"`
}

// ScoreByYear averages the custom score per year inside yr.
func ScoreByYear(recs []dataset.Record, w Weights, yr YearRange) []ScorePoint {
	sums := map[int]*ScorePoint{}
	for _, r := range recs {
		if !r.HasYear() || !yr.Contains(r) {
			continue
		}
		p := sums[r.Year]
		if p == nil {
			p = &ScorePoint{Year: r.Year}
			sums[r.Year] = p
		}
		p.Score += CustomScore(r, w)
		p.Count++
	}
	out := make([]ScorePoint, 0, len(sums))
	for _, p := range sums {
		p.Score /= float64(p.Count)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// RankGenres orders genres by mean custom score, highest first.
func RankGenres(recs []dataset.Record, w Weights, yr YearRange) []GenreScore {
	sums := map[genre.Label]*GenreScore{}
	for _, r := range recs {
		if !yr.Contains(r) {
			continue
		}
		g := genre.Classify(r)
		p := sums[g]
		if p == nil {
			p = &GenreScore{Genre: g}
			sums[g] = p
		}
		p.Score += CustomScore(r, w)
		p.Count++
	}
	out := make([]GenreScore, 0, len(sums))
	for _, g := range genre.All {
		if p := sums[g]; p != nil {
			p.Score /= float64(p.Count)
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
