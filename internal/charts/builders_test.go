package charts

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/musictrends-cli/internal/analysis"
	"github.com/KaramelBytes/musictrends-cli/internal/dataset"
	"github.com/KaramelBytes/musictrends-cli/internal/genre"
)

func TestBuildOverview(t *testing.T) {
	c, err := BuildOverview(fixtureStore(t), DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "8", statValue(c, "Tracks"))
	assert.Equal(t, "0", statValue(c, "Artists"))
	assert.Equal(t, "1965", statValue(c, "From"))
	assert.Equal(t, "2008", statValue(c, "To"))
	assert.Empty(t, statValue(c, "Data"))

	syn := dataset.NewStore(dataset.Generate(dataset.GeneratorOptions{Count: 50}), nil)
	syn.Synthetic = true
	syn.FallbackCause = errors.New("boom")
	c, err = BuildOverview(syn, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "synthetic", statValue(c, "Data"))
	require.NotEmpty(t, c.Notes)
	assert.Contains(t, c.Notes[0], "boom")
}

func TestBuildTrends_FiltersGenresAndSortsYears(t *testing.T) {
	c, err := BuildTrends(fixtureStore(t), DefaultParams())
	require.NoError(t, err)
	require.Len(t, c.Series, 1)
	// jazz and electronic tracks are outside the default selection
	assert.Equal(t, []float64{1975, 1985, 2003, 2005, 2008}, xs(c.Series[0]))
	assert.Equal(t, "Energy Over Time (1965 - 2008)", c.Title)
	assert.Equal(t, 0.5, c.Series[0].Points[0].Y)
	require.NotNil(t, c.Series[0].Points[0].Detail)
	assert.Contains(t, c.Series[0].Points[0].Detail.Explanation, "In 1975 the average energy was 0.500")
}

func TestBuildTrends_RangeAndErrors(t *testing.T) {
	st := fixtureStore(t)
	p := DefaultParams()
	p.YearFrom, p.YearTo = 2000, 2009
	c, err := BuildTrends(st, p)
	require.NoError(t, err)
	assert.Equal(t, []float64{2003, 2005, 2008}, xs(c.Series[0]))

	// from > to collapses to a single year with no tracks
	p.YearFrom, p.YearTo = 2005, 1990
	_, err = BuildTrends(st, p)
	assert.ErrorIs(t, err, ErrNoData)

	p = DefaultParams()
	p.TrendFeature = "bogus"
	_, err = BuildTrends(st, p)
	assert.ErrorIs(t, err, analysis.ErrUnknownFeature)

	p = DefaultParams()
	p.Genres = genre.NewSet()
	_, err = BuildTrends(st, p)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBuildAnomalies(t *testing.T) {
	c, err := BuildAnomalies(outlierStore(t), DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "Energy Anomalies (>2.0σ)", c.Title)
	require.Len(t, c.Series[0].Points, 1)
	pt := c.Series[0].Points[0]
	assert.Equal(t, 0.95, pt.Y)
	assert.Contains(t, pt.Text, "Year: 1995")
	require.NotNil(t, pt.Detail)
	assert.Contains(t, pt.Detail.Explanation, "SEVERE anomaly: Energy is ABOVE average")
	assert.Equal(t, "1", statValue(c, "Found"))
	assert.Equal(t, "1", statValue(c, "Shown"))

	p := DefaultParams()
	p.Sensitivity = -1
	_, err = BuildAnomalies(outlierStore(t), p)
	assert.ErrorIs(t, err, analysis.ErrInvalidSensitivity)
}

func TestBuildAnomalies_ConstantFeature(t *testing.T) {
	res, err := dataset.ParseString("name,energy\na,0.5\nb,0.5\nc,0.5\n", dataset.ParseOptions{})
	require.NoError(t, err)
	c, err := BuildAnomalies(dataset.NewStore(res.Records, nil), DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, c.Series[0].Points)
	assert.NotEmpty(t, c.Notes)
}

func TestBuildStory(t *testing.T) {
	c, err := BuildStory(fixtureStore(t), DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "THE GREAT ACOUSTIC DECLINE", c.Title)
	s := c.Series[0]
	assert.Equal(t, []float64{1960, 1970, 1980, 2000}, xs(s))
	assert.Equal(t, "1960s", s.Points[0].Label)
	assert.Empty(t, s.Points[0].Text)
	for _, p := range s.Points[1:] {
		assert.Equal(t, "↓", p.Text)
	}
	assert.Contains(t, c.Notes[len(c.Notes)-1], "before 1970")

	p := DefaultParams()
	p.Story = "polka"
	_, err = BuildStory(fixtureStore(t), p)
	assert.Error(t, err)
}

func TestBuildCorrelations_RankedByMagnitude(t *testing.T) {
	st := fixtureStore(t)
	c, err := BuildCorrelations(st, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "Popularity Correlations - All Time", c.Title)
	pts := c.Series[0].Points
	require.Len(t, pts, len(analysis.CorrelationFeatures))
	for i := 1; i < len(pts); i++ {
		assert.GreaterOrEqual(t, math.Abs(pts[i-1].Y), math.Abs(pts[i].Y))
	}
	for _, p := range pts {
		require.NotNil(t, p.Color)
		assert.Equal(t, p.Y < 0, *p.Color < 0, p.Label)
	}

	p := DefaultParams()
	p.CorrDecade = 2000
	c, err = BuildCorrelations(st, p)
	require.NoError(t, err)
	assert.Equal(t, "Popularity Correlations - 2000s", c.Title)
	assert.Contains(t, c.Series[0].Points[0].Detail.Explanation, "In the 2000s")
}

func TestBuildGenres(t *testing.T) {
	st := fixtureStore(t)
	p := DefaultParams()
	p.DiveGenres = genre.NewSet(genre.Jazz, genre.Rock)
	c, err := BuildGenres(st, p)
	require.NoError(t, err)
	require.Len(t, c.Series, 2)
	assert.Equal(t, "ROCK", c.Series[0].Name)
	assert.Equal(t, "JAZZ", c.Series[1].Name)
	assert.Equal(t, []float64{1985, 2008}, xs(c.Series[0]))
	assert.Equal(t, []float64{1965, 1968}, xs(c.Series[1]))
	assert.Contains(t, c.Series[1].Points[0].Detail.Explanation, "In 1965, jazz music had a energy level of 0.30")

	p.DiveGenres = genre.NewSet()
	_, err = BuildGenres(st, p)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBuildBlueprint(t *testing.T) {
	c, err := BuildBlueprint(fixtureStore(t), DefaultParams())
	require.NoError(t, err)
	require.Len(t, c.Series, 2)
	assert.Equal(t, "Hit Songs (Top 25%)", c.Series[0].Name)
	assert.Equal(t, "Other Songs", c.Series[1].Name)
	assert.Equal(t, "1", statValue(c, "Hits"))
	assert.Equal(t, "3", statValue(c, "Others"))
	require.Len(t, c.Series[0].Points, len(analysis.HitFeatures))
	// the only hit is the 2001 track
	assert.Equal(t, "energy", c.Series[0].Points[0].Label)
	assert.Equal(t, 0.75, c.Series[0].Points[0].Y)

	p := DefaultParams()
	p.Era = 1990
	_, err = BuildBlueprint(fixtureStore(t), p)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBuildBlueprint_SingleTrackEra(t *testing.T) {
	p := DefaultParams()
	p.Era = 1970
	c, err := BuildBlueprint(fixtureStore(t), p)
	require.NoError(t, err)
	assert.Len(t, c.Series[0].Points, len(analysis.HitFeatures))
	assert.Empty(t, c.Series[1].Points)
	assert.Contains(t, strings.Join(c.Notes, "\n"), "Too few tracks")
}

func TestBuildExplore_Downsamples(t *testing.T) {
	st := fixtureStore(t)
	p := DefaultParams()
	p.SampleCeiling = 3
	c, err := BuildExplore(st, p)
	require.NoError(t, err)
	assert.Equal(t, "8", statValue(c, "Eligible"))
	assert.Equal(t, "3", statValue(c, "Plotted"))
	assert.Equal(t, "3", statValue(c, "Stride"))
	pts := c.Series[0].Points
	require.Len(t, pts, 3)
	// indices 0, 3 and 6 survive
	assert.Equal(t, []float64{0.3, 0.8, 0.4}, xs(c.Series[0]))
	assert.Equal(t, 1965.0, *pts[0].Color)
	assert.Contains(t, pts[1].Text, "Amp (popularity 50)")

	p = DefaultParams()
	p.ColorBy = ColorByGenre
	c, err = BuildExplore(st, p)
	require.NoError(t, err)
	require.Len(t, c.Series[0].Points, 8)
	assert.Equal(t, float64(genre.Index(genre.Jazz)), *c.Series[0].Points[0].Color)

	p.ColorBy = "mood"
	_, err = BuildExplore(st, p)
	assert.Error(t, err)
}

func TestBuildExplore_SkipsMissingAxes(t *testing.T) {
	res, err := dataset.ParseString("name,energy,danceability\na,0.5,0.6\nb,,0.4\nc,0.7,\n", dataset.ParseOptions{})
	require.NoError(t, err)
	c, err := BuildExplore(dataset.NewStore(res.Records, nil), DefaultParams())
	require.NoError(t, err)
	require.Len(t, c.Series[0].Points, 1)
	// no year, no colour
	assert.Nil(t, c.Series[0].Points[0].Color)
}

func TestBuildSimulator(t *testing.T) {
	st := fixtureStore(t)
	c, err := BuildSimulator(st, DefaultParams())
	require.NoError(t, err)
	require.Len(t, c.Series, 2)
	assert.Len(t, c.Series[0].Points, 8)
	assert.Len(t, c.Series[1].Points, len(genre.All))
	assert.Empty(t, statValue(c, "weight.loudness"))
	assert.Equal(t, "0.50", statValue(c, "weight.energy"))

	p := DefaultParams()
	p.Weights = analysis.Weights{"energy": 1}
	p.SimFrom, p.SimTo = 2000, 2009
	c, err = BuildSimulator(st, p)
	require.NoError(t, err)
	assert.Equal(t, []float64{2001, 2003, 2005, 2008}, xs(c.Series[0]))
	// the score is the raw energy when only energy carries weight
	assert.Equal(t, 0.9, c.Series[0].Points[3].Y)
	assert.Equal(t, "rock", c.Series[1].Points[0].Label)
}

func TestBuildInsights(t *testing.T) {
	st := fixtureStore(t)
	c, err := BuildInsights(st, DefaultParams())
	require.NoError(t, err)
	assert.Len(t, c.Series[0].Points, 8)
	assert.Contains(t, c.Notes[len(c.Notes)-1], "Energy averaged")

	p := DefaultParams()
	p.InsightFrom, p.InsightTo = 2000, 0
	c, err = BuildInsights(st, p)
	require.NoError(t, err)
	assert.Equal(t, []float64{2001, 2003, 2005, 2008}, xs(c.Series[0]))
}

func TestBuilders_CoverOrder(t *testing.T) {
	b := Builders()
	for _, id := range Order {
		assert.Contains(t, b, id)
	}
	assert.Len(t, b, len(Order))
}
