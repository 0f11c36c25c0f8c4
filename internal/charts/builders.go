package charts

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/KaramelBytes/musictrends-cli/internal/analysis"
	"github.com/KaramelBytes/musictrends-cli/internal/dataset"
	"github.com/KaramelBytes/musictrends-cli/internal/genre"
)

// Builder computes one chart from the store and the current parameters.
type Builder func(st *dataset.Store, p Params) (*Chart, error)

// Builders maps chart IDs to their builder.
func Builders() map[string]Builder {
	return map[string]Builder{
		Overview:     BuildOverview,
		Trends:       BuildTrends,
		Anomalies:    BuildAnomalies,
		Story:        BuildStory,
		Correlations: BuildCorrelations,
		Genres:       BuildGenres,
		Blueprint:    BuildBlueprint,
		Explore:      BuildExplore,
		Simulator:    BuildSimulator,
		Insights:     BuildInsights,
	}
}

// BuildOverview summarises the loaded dataset.
func BuildOverview(st *dataset.Store, _ Params) (*Chart, error) {
	c := &Chart{ID: Overview, Title: "Dataset Overview", Series: []Series{}}
	c.Stats = append(c.Stats,
		field("Tracks", "%d", st.Len()),
		field("Artists", "%d", len(st.Artists())),
	)
	if lo, hi, ok := st.YearBounds(); ok {
		c.Stats = append(c.Stats,
			field("Years", "%d", hi-lo),
			field("From", "%d", lo),
			field("To", "%d", hi),
		)
	} else {
		c.Notes = append(c.Notes, "No track has a usable release year.")
	}
	if st.Synthetic {
		c.Stats = append(c.Stats, field("Data", "synthetic"))
		if st.FallbackCause != nil {
			c.Notes = append(c.Notes, fmt.Sprintf("Source data unavailable (%v); showing synthetic tracks.", st.FallbackCause))
		}
	}
	return c, nil
}

// BuildTrends plots the yearly mean of a feature for the selected genres
// inside the year range.
func BuildTrends(st *dataset.Store, p Params) (*Chart, error) {
	feature := p.TrendFeature
	if err := analysis.ValidateFeature(feature); err != nil {
		return nil, err
	}
	lo, hi, ok := st.YearBounds()
	if !ok {
		return nil, fmt.Errorf("trends: %w", ErrNoData)
	}
	from, to := resolveRange(p.YearFrom, p.YearTo, lo, hi)
	recs := dataset.FilterGenres(dataset.FilterYearRange(st.Tracks(), from, to), p.Genres)
	buckets := analysis.Aggregate(recs, feature, analysis.ByYear)
	if len(buckets) == 0 {
		return nil, fmt.Errorf("trends %d-%d: %w", from, to, ErrNoData)
	}

	s := Series{Name: feature, Kind: Line}
	for _, b := range buckets {
		sum := b.Summary()
		s.Points = append(s.Points, Point{
			X: float64(b.Key),
			Y: yv(sum.Mean),
			Detail: &Detail{
				Title: fmt.Sprintf("%s in %d", Title(feature), b.Key),
				Fields: []Field{
					field("Year", "%d", b.Key),
					field(Title(feature)+" Average", "%.3f", sum.Mean),
					field("Tracks Analyzed", "%d", sum.Count),
					field("Range", "%.3f - %.3f", sum.Min, sum.Max),
					field("Median", "%.3f", sum.Median),
				},
				Explanation: ExplainTrendPoint(feature, b.Key, sum),
			},
		})
	}
	return &Chart{
		ID:     Trends,
		Title:  fmt.Sprintf("%s Over Time (%d - %d)", Title(feature), from, to),
		XLabel: "Year",
		YLabel: feature,
		Series: []Series{s},
		Stats: []Field{
			field("Tracks", "%d", len(recs)),
			field("Genres", "%s", strings.Join(p.Genres.Strings(), ", ")),
		},
	}, nil
}

// BuildAnomalies plots the values further than sensitivity·σ from the mean.
func BuildAnomalies(st *dataset.Store, p Params) (*Chart, error) {
	feature := p.AnomalyFeature
	if err := analysis.ValidateFeature(feature); err != nil {
		return nil, err
	}
	res, err := analysis.Detect(st.Tracks(), feature, p.Sensitivity, p.AnomalyCap)
	if err != nil {
		return nil, err
	}
	recs := st.Tracks()
	s := Series{Name: feature, Kind: Scatter, Points: make([]Point, 0, len(res.Anomalies))}
	for i, a := range res.Anomalies {
		year := "unknown"
		if a.Year > 0 {
			year = fmt.Sprint(a.Year)
		}
		s.Points = append(s.Points, Point{
			X:    float64(i),
			Y:    yv(a.Value),
			Text: fmt.Sprintf("Year: %s, Z-Score: %.2f", year, a.ZScore),
			Detail: &Detail{
				Title: fmt.Sprintf("%s Anomaly - %s", Title(feature), year),
				Fields: []Field{
					field("Track", "%s", recs[a.Index].Name()),
					field("Anomaly Index", "%d / %d", i+1, len(res.Anomalies)),
					field("Year", "%s", year),
					field(Title(feature)+" Value", "%.3f", a.Value),
					field("Z-Score", "%.2f", a.ZScore),
					field("Severity", "%s", a.Severity()),
				},
				Explanation: ExplainAnomaly(feature, a),
			},
		})
	}
	c := &Chart{
		ID:     Anomalies,
		Title:  fmt.Sprintf("%s Anomalies (>%.1fσ)", Title(feature), p.Sensitivity),
		XLabel: "Anomaly",
		YLabel: feature,
		Series: []Series{s},
		Stats: []Field{
			field("Mean", "%.3f", res.Mean),
			field("Std Dev", "%.3f", res.Std),
			field("Threshold", "%.3f", res.Threshold),
			field("Found", "%d", res.Total),
			field("Shown", "%d", len(res.Anomalies)),
		},
	}
	if res.Std == 0 {
		c.Notes = append(c.Notes, fmt.Sprintf("%s is constant; no value can be anomalous.", Title(feature)))
	}
	return c, nil
}

// BuildStory plots decade means of the story's feature with change markers.
func BuildStory(st *dataset.Store, p Params) (*Chart, error) {
	meta, err := LookupStory(p.Story)
	if err != nil {
		return nil, err
	}
	buckets := analysis.Aggregate(st.Tracks(), meta.Feature, analysis.ByDecade)
	if len(buckets) == 0 {
		return nil, fmt.Errorf("story %s: %w", p.Story, ErrNoData)
	}
	s := Series{Name: meta.Feature, Kind: Line}
	c := &Chart{
		ID:     Story,
		Title:  meta.Title,
		XLabel: "Decade",
		YLabel: meta.Feature,
		Notes:  []string{meta.Desc, "Trend: " + meta.Trend, "Key period: " + meta.KeyPeriod, "Meaning: " + meta.Meaning},
	}
	prev := math.NaN()
	for _, b := range buckets {
		v := yv(b.Mean())
		label := fmt.Sprintf("%ds", b.Key)
		line := fmt.Sprintf("%s: %.2f (%d tracks)", label, v, b.Count())
		text := ""
		if !math.IsNaN(prev) {
			text = ChangeMarker(v - prev)
			line = fmt.Sprintf("%s: %.2f %s (%d tracks, change %+.1f%%)", label, v, text, b.Count(), (v-prev)*100)
		}
		c.Notes = append(c.Notes, line)
		s.Points = append(s.Points, Point{
			X:     float64(b.Key),
			Label: label,
			Y:     v,
			Text:  text,
			Detail: &Detail{
				Title: fmt.Sprintf("%s - %s", meta.Title, label),
				Fields: []Field{
					field("Decade", "%s", label),
					field(Title(meta.Feature)+" Score", "%.2f", v),
					field("Tracks Analyzed", "%d", b.Count()),
				},
				Explanation: ExplainStoryDecade(meta, b.Key, v, b.Count()),
			},
		})
		prev = v
	}
	c.Series = []Series{s}
	c.Notes = append(c.Notes, ExplainEra(analysis.CompareEras(st.Tracks(), meta.Feature)))
	return c, nil
}

// BuildCorrelations ranks features by |r| against popularity for a decade or
// all time.
func BuildCorrelations(st *dataset.Store, p Params) (*Chart, error) {
	var yr analysis.YearRange
	period, title := "all time", "All Time"
	if p.CorrDecade > 0 {
		yr = analysis.YearRange{From: p.CorrDecade, To: p.CorrDecade + 9}
		period = fmt.Sprintf("the %ds", p.CorrDecade)
		title = fmt.Sprintf("%ds", p.CorrDecade)
	}
	corr := analysis.Correlations(st.Tracks(), analysis.CorrelationFeatures, analysis.DefaultTarget, yr)
	feats := slices.Clone(analysis.CorrelationFeatures)
	sort.SliceStable(feats, func(i, j int) bool { return math.Abs(corr[feats[i]]) > math.Abs(corr[feats[j]]) })

	s := Series{Name: "correlation", Kind: Bar}
	for i, f := range feats {
		r := corr[f]
		sign := 1.0
		if r < 0 {
			sign = -1
		}
		s.Points = append(s.Points, Point{
			X:     float64(i),
			Label: f,
			Y:     yv(r),
			Color: colorOf(sign),
			Detail: &Detail{
				Title: Title(f) + " Analysis",
				Fields: []Field{
					field("Feature", "%s", f),
					field("Period", "%s", title),
					field("Correlation", "%.2f", r),
				},
				Explanation: ExplainCorrelation(f, period, r),
			},
		})
	}
	return &Chart{
		ID:     Correlations,
		Title:  "Popularity Correlations - " + title,
		XLabel: "Audio Feature",
		YLabel: "Correlation with Popularity",
		Series: []Series{s},
		Notes:  []string{"Tempo is divided by 200 and loudness by 60 before correlating; popularity is divided by 100."},
	}, nil
}

// BuildGenres plots one yearly series per selected genre.
func BuildGenres(st *dataset.Store, p Params) (*Chart, error) {
	feature := p.DiveFeature
	if err := analysis.ValidateFeature(feature); err != nil {
		return nil, err
	}
	if len(p.DiveGenres) == 0 {
		return nil, fmt.Errorf("genre dive: select at least one genre: %w", ErrNoData)
	}
	byGenre := map[genre.Label][]dataset.Record{}
	for _, r := range st.Tracks() {
		g := genre.Classify(r)
		if p.DiveGenres.Has(g) {
			byGenre[g] = append(byGenre[g], r)
		}
	}
	c := &Chart{
		ID:     Genres,
		Title:  fmt.Sprintf("%s by Genre Over Time", Title(feature)),
		XLabel: "Year",
		YLabel: Title(feature),
	}
	for _, g := range p.DiveGenres.Sorted() {
		s := Series{Name: strings.ToUpper(string(g)), Kind: Line, Points: []Point{}}
		for _, b := range analysis.Aggregate(byGenre[g], feature, analysis.ByYear) {
			m := b.Mean()
			s.Points = append(s.Points, Point{
				X:     float64(b.Key),
				Y:     yv(m),
				Color: colorOf(float64(genre.Index(g))),
				Detail: &Detail{
					Title: fmt.Sprintf("%s - %s", strings.ToUpper(string(g)), feature),
					Fields: []Field{
						field("Genre", "%s", g),
						field("Year", "%d", b.Key),
						field(Title(feature), "%.2f", m),
						field("Tracks", "%d", b.Count()),
					},
					Explanation: ExplainGenrePoint(g, feature, b.Key, m),
				},
			})
		}
		if len(s.Points) == 0 {
			c.Notes = append(c.Notes, fmt.Sprintf("No %s tracks with %s and a release year.", g, feature))
		}
		c.Series = append(c.Series, s)
	}
	return c, nil
}

// BuildBlueprint contrasts hit and non-hit feature means inside one decade.
func BuildBlueprint(st *dataset.Store, p Params) (*Chart, error) {
	recs := dataset.FilterDecade(st.Tracks(), p.Era)
	if len(recs) == 0 {
		return nil, fmt.Errorf("blueprint %ds: %w", p.Era, ErrNoData)
	}
	frac := p.HitFraction
	if frac <= 0 || frac > 1 {
		frac = analysis.DefaultHitFraction
	}
	cmp := analysis.Compare(recs, analysis.HitFeatures, frac)
	hit := Series{Name: fmt.Sprintf("Hit Songs (Top %.0f%%)", frac*100), Kind: Bar, Points: []Point{}}
	other := Series{Name: "Other Songs", Kind: Bar, Points: []Point{}}
	c := &Chart{
		ID:     Blueprint,
		Title:  fmt.Sprintf("Hit Song Blueprint - %ds", p.Era),
		XLabel: "Audio Feature",
		YLabel: "Average Value",
		Stats: []Field{
			field("Hits", "%d", cmp.Hits),
			field("Others", "%d", cmp.NonHits),
		},
	}
	for i, fc := range cmp.Features {
		if pt, ok := blueprintPoint(i, fc.Feature, p.Era, fc.Hit, true); ok {
			hit.Points = append(hit.Points, pt)
		}
		if pt, ok := blueprintPoint(i, fc.Feature, p.Era, fc.NonHit, false); ok {
			other.Points = append(other.Points, pt)
		}
		if fc.Diff.Defined() {
			c.Notes = append(c.Notes, fmt.Sprintf("%s: hits %+.3f vs others", fc.Feature, fc.Diff.Value))
		}
	}
	if cmp.NonHits == 0 {
		c.Notes = append(c.Notes, "Too few tracks in this era for a non-hit segment.")
	}
	c.Series = []Series{hit, other}
	return c, nil
}

func blueprintPoint(i int, feature string, era int, m analysis.Mean, isHit bool) (Point, bool) {
	if !m.Defined() {
		return Point{}, false
	}
	kind := "Others"
	if isHit {
		kind = "Hits"
	}
	return Point{
		X:     float64(i),
		Label: feature,
		Y:     yv(m.Value),
		Detail: &Detail{
			Title: fmt.Sprintf("%s - %s", feature, kind),
			Fields: []Field{
				field("Feature", "%s", feature),
				field("Era", "%ds", era),
				field("Value", "%.2f", m.Value),
				field("Tracks", "%d", m.Count),
			},
			Explanation: ExplainBlueprint(feature, era, m, isHit),
		},
	}, true
}

// BuildExplore scatters two features, downsampled to the sample ceiling.
func BuildExplore(st *dataset.Store, p Params) (*Chart, error) {
	for _, f := range []string{p.XFeature, p.YFeature} {
		if err := analysis.ValidateFeature(f); err != nil {
			return nil, err
		}
	}
	colorBy := p.ColorBy
	switch colorBy {
	case ColorByYear, ColorByPopularity, ColorByGenre:
	case "":
		colorBy = ColorByYear
	default:
		return nil, fmt.Errorf("unknown color-by %q (use year, popularity or genre)", colorBy)
	}

	type pt struct {
		r    dataset.Record
		x, y float64
	}
	var pts []pt
	for _, r := range st.Tracks() {
		x, okx := r.Float(p.XFeature)
		y, oky := r.Float(p.YFeature)
		if okx && oky {
			pts = append(pts, pt{r, x, y})
		}
	}
	sampled := analysis.Downsample(pts, p.SampleCeiling)

	s := Series{Name: "tracks", Kind: Scatter, Points: make([]Point, 0, len(sampled))}
	for _, q := range sampled {
		pop := "n/a"
		if v, ok := q.r.Float("popularity"); ok {
			pop = fmt.Sprintf("%.0f", v)
		}
		var color *float64
		switch colorBy {
		case ColorByYear:
			if q.r.HasYear() {
				color = colorOf(float64(q.r.Year))
			}
		case ColorByPopularity:
			if v, ok := q.r.Float("popularity"); ok {
				color = colorOf(v)
			}
		case ColorByGenre:
			color = colorOf(float64(genre.Index(genre.Classify(q.r))))
		}
		s.Points = append(s.Points, Point{
			X:     yv(q.x),
			Y:     yv(q.y),
			Color: color,
			Text:  fmt.Sprintf("%s (popularity %s)", q.r.Name(), pop),
			Detail: &Detail{
				Title: "Track Details",
				Fields: []Field{
					field("Track", "%s", q.r.Name()),
					field("X Axis ("+p.XFeature+")", "%.2f", q.x),
					field("Y Axis ("+p.YFeature+")", "%.2f", q.y),
					field("Popularity", "%s", pop),
				},
				Explanation: ExplainScatterPoint(p.XFeature, p.YFeature, q.x, q.y),
			},
		})
	}
	return &Chart{
		ID:     Explore,
		Title:  fmt.Sprintf("%s vs %s (%d tracks)", Title(p.XFeature), Title(p.YFeature), len(sampled)),
		XLabel: Title(p.XFeature),
		YLabel: Title(p.YFeature),
		Series: []Series{s},
		Stats: []Field{
			field("Eligible", "%d", len(pts)),
			field("Plotted", "%d", len(sampled)),
			field("Stride", "%d", analysis.Stride(len(pts), p.SampleCeiling)),
			field("Color", "%s", colorBy),
		},
	}, nil
}

// BuildSimulator plots the yearly custom score and ranks genres by it.
func BuildSimulator(st *dataset.Store, p Params) (*Chart, error) {
	w := p.Weights
	if w == nil {
		w = analysis.DefaultWeights()
	}
	yr := analysis.YearRange{From: p.SimFrom, To: p.SimTo}
	if yr.From > 0 && yr.To > 0 && yr.From > yr.To {
		yr.From = yr.To
	}
	yearly := analysis.ScoreByYear(st.Tracks(), w, yr)
	if len(yearly) == 0 {
		return nil, fmt.Errorf("simulator: %w", ErrNoData)
	}
	line := Series{Name: "Custom Score", Kind: Line}
	for _, sp := range yearly {
		line.Points = append(line.Points, Point{
			X: float64(sp.Year),
			Y: yv(sp.Score),
			Detail: &Detail{
				Title:  fmt.Sprintf("Custom Score in %d", sp.Year),
				Fields: []Field{field("Year", "%d", sp.Year), field("Score", "%.3f", sp.Score), field("Tracks", "%d", sp.Count)},
			},
		})
	}
	bars := Series{Name: "Genre Ranking", Kind: Bar}
	for i, gs := range analysis.RankGenres(st.Tracks(), w, yr) {
		bars.Points = append(bars.Points, Point{
			X:     float64(i),
			Label: string(gs.Genre),
			Y:     yv(gs.Score),
			Color: colorOf(float64(genre.Index(gs.Genre))),
			Detail: &Detail{
				Title:  fmt.Sprintf("#%d %s", i+1, Title(string(gs.Genre))),
				Fields: []Field{field("Score", "%.3f", gs.Score), field("Tracks", "%d", gs.Count)},
			},
		})
	}
	c := &Chart{
		ID:     Simulator,
		Title:  "What-If Custom Score",
		XLabel: "Year",
		YLabel: "Custom Score",
		Series: []Series{line, bars},
	}
	for _, f := range analysis.ScoreFeatures {
		if v, ok := w[f]; ok && v != 0 {
			c.Stats = append(c.Stats, field("weight."+f, "%.2f", v))
		}
	}
	return c, nil
}

// BuildInsights plots yearly means and lists notable year-over-year changes.
func BuildInsights(st *dataset.Store, p Params) (*Chart, error) {
	feature := p.InsightFeature
	if err := analysis.ValidateFeature(feature); err != nil {
		return nil, err
	}
	recs := st.Tracks()
	if p.InsightFrom > 0 || p.InsightTo > 0 {
		lo, hi, ok := st.YearBounds()
		if !ok {
			return nil, fmt.Errorf("insights: %w", ErrNoData)
		}
		from, to := resolveRange(p.InsightFrom, p.InsightTo, lo, hi)
		recs = dataset.FilterYearRange(recs, from, to)
	}
	years, means := analysis.YearlyMeans(recs, feature)
	if len(years) == 0 {
		return nil, fmt.Errorf("insights: %w", ErrNoData)
	}
	notes := analysis.YearOverYear(recs, feature)
	notable := map[int]string{}
	for _, n := range notes {
		notable[n.Year] = n.Text
	}
	s := Series{Name: feature, Kind: Line}
	for i, y := range years {
		s.Points = append(s.Points, Point{X: float64(y), Y: yv(means[i]), Text: notable[y]})
	}
	c := &Chart{
		ID:     Insights,
		Title:  fmt.Sprintf("%s Year-over-Year Insights", Title(feature)),
		XLabel: "Year",
		YLabel: feature,
		Series: []Series{s},
	}
	for _, n := range notes {
		c.Notes = append(c.Notes, n.Text)
	}
	if len(notes) == 0 {
		c.Notes = append(c.Notes, "No notable year-over-year changes.")
	}
	c.Notes = append(c.Notes, ExplainEra(analysis.CompareEras(recs, feature)))
	return c, nil
}
