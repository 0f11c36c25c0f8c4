package charts

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KaramelBytes/musictrends-cli/internal/analysis"
	"github.com/KaramelBytes/musictrends-cli/internal/genre"
)

// Title capitalises a feature or genre name for display ("hip-hop" → "Hip-Hop").
func Title(s string) string {
	// a Caser is stateful; build one per call
	return cases.Title(language.Und).String(s)
}

// ChangeMarker returns ↑, ↓ or → for a change between consecutive values.
func ChangeMarker(delta float64) string {
	switch {
	case delta > 0:
		return "↑"
	case delta < 0:
		return "↓"
	}
	return "→"
}

// FeatureMeaning describes what a feature measures.
func FeatureMeaning(feature string) string {
	switch feature {
	case "energy":
		return "intensity and activity level"
	case "danceability":
		return "how suitable for dancing"
	case "valence":
		return "musical positivity/mood"
	case "acousticness":
		return "use of acoustic instruments"
	case "tempo":
		return "speed in beats per minute"
	case "loudness":
		return "overall loudness in decibels"
	case "speechiness":
		return "presence of spoken words"
	case "liveness":
		return "presence of a live audience"
	case "instrumentalness":
		return "absence of vocals"
	}
	return "popularity"
}

// ExplainTrendPoint describes one yearly mean.
func ExplainTrendPoint(feature string, year int, s analysis.Summary) string {
	return fmt.Sprintf("In %d the average %s was %.3f across %d tracks (range %.3f to %.3f, median %.3f). "+
		"This year's %s level reflects broader music industry patterns from that era.",
		year, feature, s.Mean, s.Count, s.Min, s.Max, s.Median, feature)
}

// ExplainAnomaly describes one flagged value.
func ExplainAnomaly(feature string, a analysis.Anomaly) string {
	return fmt.Sprintf("%s anomaly: %s is %s average by %.2f standard deviations.",
		a.Severity(), Title(feature), a.Direction(), math.Abs(a.ZScore))
}

// ExplainCorrelation interprets a popularity correlation coefficient.
func ExplainCorrelation(feature, period string, r float64) string {
	var verdict string
	switch {
	case r > 0.3:
		verdict = fmt.Sprintf("This strong positive correlation suggests %s is a key factor in hit songs.", feature)
	case r > 0:
		verdict = fmt.Sprintf("This moderate positive correlation suggests %s contributes to song popularity.", feature)
	default:
		verdict = fmt.Sprintf("This weak or negative correlation suggests %s is not a primary driver of popularity.", feature)
	}
	return fmt.Sprintf("In %s, %s has a correlation of %.2f with popularity. %s", period, feature, r, verdict)
}

// ExplainGenrePoint describes one genre/year mean.
func ExplainGenrePoint(g genre.Label, feature string, year int, value float64) string {
	return fmt.Sprintf("In %d, %s music had a %s level of %.2f. This indicates the %s of %s songs during this period.",
		year, g, feature, value, FeatureMeaning(feature), g)
}

// ExplainBlueprint describes one hit/non-hit bar.
func ExplainBlueprint(feature string, era int, m analysis.Mean, hit bool) string {
	kind, tail := "non-hit", "This is typical for songs that did not become hits"
	if hit {
		kind, tail = "hit", "This is a characteristic of successful songs"
	}
	if !m.Defined() {
		return fmt.Sprintf("No %s songs in the %ds to compare.", kind, era)
	}
	return fmt.Sprintf("In the %ds, %s songs had a %s level of %.2f. %s during this era.", era, kind, feature, m.Value, tail)
}

// ExplainStoryDecade describes one decade in a story.
func ExplainStoryDecade(st StoryMeta, decade int, value float64, count int) string {
	return fmt.Sprintf("The %ds scored %.2f over %d tracks. %s This decade contributes to the overall narrative: %s",
		decade, value, count, st.Meaning, st.Trend)
}

// ExplainScatterPoint describes one track in the feature space.
func ExplainScatterPoint(xf, yf string, x, y float64) string {
	return fmt.Sprintf("This track has %s of %.2f and %s of %.2f. This combination places it in a specific region "+
		"of the audio feature space, indicating its musical characteristics relative to the overall dataset.", xf, x, yf, y)
}

// ExplainEra summarises an early-vs-recent comparison.
func ExplainEra(ec analysis.EraComparison) string {
	if !ec.Early.Defined() || !ec.Recent.Defined() {
		return fmt.Sprintf("Not enough tracks before %d and from %d to compare %s across eras.",
			analysis.EarlyEraEnd, analysis.RecentEraStart, ec.Feature)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s averaged %.2f before %d and %.2f from %d", Title(ec.Feature), ec.Early.Value,
		analysis.EarlyEraEnd, ec.Recent.Value, analysis.RecentEraStart)
	if ec.PercentChange.Defined() {
		fmt.Fprintf(&b, " (%+.1f%%)", ec.PercentChange.Value)
	}
	b.WriteString(".")
	return b.String()
}
