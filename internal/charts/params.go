package charts

import (
	"math"

	"github.com/KaramelBytes/musictrends-cli/internal/analysis"
	"github.com/KaramelBytes/musictrends-cli/internal/genre"
)

// Sensitivity slider bounds.
const (
	MinSensitivity  = 1.0
	MaxSensitivity  = 3.0
	SensitivityStep = 0.1
)

// Colour-by options for the feature space view.
const (
	ColorByYear       = "year"
	ColorByPopularity = "popularity"
	ColorByGenre      = "genre"
)

// Params is the full parameter set the charts are computed from. Zero year
// bounds mean "use the data bounds".
type Params struct {
	// trends
	YearFrom     int
	YearTo       int
	TrendFeature string
	Genres       genre.Set

	// anomalies
	AnomalyFeature string
	Sensitivity    float64
	AnomalyCap     int

	// story
	Story string

	// popularity correlations; 0 means all time
	CorrDecade int

	// genre deep dive
	DiveFeature string
	DiveGenres  genre.Set

	// hit blueprint
	Era         int
	HitFraction float64

	// feature space
	XFeature      string
	YFeature      string
	ColorBy       string
	SampleCeiling int

	// simulator
	Weights analysis.Weights
	SimFrom int
	SimTo   int

	// insights
	InsightFeature string
	InsightFrom    int
	InsightTo      int
}

// DefaultParams mirrors the initial state of every control.
func DefaultParams() Params {
	return Params{
		TrendFeature:   "energy",
		Genres:         genre.DefaultSet(),
		AnomalyFeature: "energy",
		Sensitivity:    2.0,
		AnomalyCap:     analysis.DefaultAnomalyCap,
		Story:          "acoustic",
		DiveFeature:    "energy",
		DiveGenres:     genre.DefaultSet(),
		Era:            2000,
		HitFraction:    analysis.DefaultHitFraction,
		XFeature:       "energy",
		YFeature:       "danceability",
		ColorBy:        ColorByYear,
		SampleCeiling:  analysis.DefaultSampleCeiling,
		Weights:        analysis.DefaultWeights(),
		InsightFeature: "energy",
	}
}

// Clone returns a deep copy so a failed update never leaks into the original.
func (p Params) Clone() Params {
	c := p
	c.Genres = p.Genres.Clone()
	c.DiveGenres = p.DiveGenres.Clone()
	c.Weights = p.Weights.Clone()
	return c
}

// SnapSensitivity rounds to the slider step and clamps to its range.
func SnapSensitivity(v float64) float64 {
	if math.IsNaN(v) {
		return MinSensitivity
	}
	v = math.Round(v/SensitivityStep) * SensitivityStep
	v = math.Max(MinSensitivity, math.Min(MaxSensitivity, v))
	// keep one decimal exactly
	return math.Round(v*10) / 10
}

// resolveRange fills zero bounds from the data and clamps from > to to
// from = to.
func resolveRange(from, to, lo, hi int) (int, int) {
	if from == 0 {
		from = lo
	}
	if to == 0 {
		to = hi
	}
	if from > to {
		from = to
	}
	return from, to
}
