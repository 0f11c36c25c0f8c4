package analysis

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/musictrends-cli/internal/dataset"
)

const (
	// EarlyEraEnd is the exclusive upper year of the early era.
	EarlyEraEnd = 1970
	// RecentEraStart is the first year of the recent era.
	RecentEraStart = 2000

	maxYoYNotes  = 3
	yoyThreshold = 1.5
)

// YoYNote describes a notable year-over-year change in a yearly mean.
type YoYNote struct {
	Year   int     `json:"year"`
	Change float64 `json:"change"`
	Text   string  `json:"text"`
}

// YearOverYear reports the most recent years (at most three) whose change in
// yearly mean exceeds 1.5 times the sample standard deviation of all changes.
// Fewer than three yearly points produce no notes.
func YearOverYear(recs []dataset.Record, feature string) []YoYNote {
	years, means := YearlyMeans(recs, feature)
	if len(years) < 3 {
		return nil
	}
	deltas := make([]float64, len(means)-1)
	for i := 1; i < len(means); i++ {
		deltas[i-1] = means[i] - means[i-1]
	}
	thr := sampleStd(deltas) * yoyThreshold
	var notes []YoYNote
	for i, d := range deltas {
		if math.Abs(d) <= thr {
			continue
		}
		dir := "increase"
		if d < 0 {
			dir = "decrease"
		}
		y := years[i+1]
		notes = append(notes, YoYNote{
			Year:   y,
			Change: d,
			Text:   fmt.Sprintf("Notable %s in %s in %d (%.2f)", dir, feature, y, math.Abs(d)),
		})
	}
	if len(notes) > maxYoYNotes {
		notes = notes[len(notes)-maxYoYNotes:]
	}
	return notes
}

// EraComparison contrasts a feature before EarlyEraEnd and from RecentEraStart.
type EraComparison struct {
	Feature string `json:"feature"`
	Early   Mean   `json:"early"`
	Recent  Mean   `json:"recent"`
	// PercentChange is undefined when either side is, or the early mean is 0.
	PercentChange Mean `json:"percent_change"`
}

// CompareEras computes the early vs recent era means of feature.
func CompareEras(recs []dataset.Record, feature string) EraComparison {
	var early, recent []float64
	for _, r := range recs {
		if !r.HasYear() {
			continue
		}
		v, ok := r.Float(feature)
		if !ok {
			continue
		}
		switch {
		case r.Year < EarlyEraEnd:
			early = append(early, v)
		case r.Year >= RecentEraStart:
			recent = append(recent, v)
		}
	}
	ec := EraComparison{Feature: feature, Early: meanOf(early), Recent: meanOf(recent)}
	if ec.Early.Defined() && ec.Recent.Defined() && ec.Early.Value != 0 {
		ec.PercentChange = Mean{
			Value: (ec.Recent.Value - ec.Early.Value) / ec.Early.Value * 100,
			Count: ec.Early.Count + ec.Recent.Count,
		}
	}
	return ec
}
