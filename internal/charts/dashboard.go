package charts

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"go.uber.org/multierr"

	"github.com/KaramelBytes/musictrends-cli/internal/analysis"
	"github.com/KaramelBytes/musictrends-cli/internal/dataset"
	"github.com/KaramelBytes/musictrends-cli/internal/genre"
)

// ErrUnknownParam is returned by Set for a parameter no chart consumes.
var ErrUnknownParam = errors.New("unknown parameter")

// paramCharts routes each parameter to the single chart that depends on it.
// Weights are addressed as "weight.<feature>" and route to the simulator.
var paramCharts = map[string]string{
	"year_from":         Trends,
	"year_to":           Trends,
	"feature":           Trends,
	"genres":            Trends,
	"toggle_genre":      Trends,
	"anomaly_feature":   Anomalies,
	"sensitivity":       Anomalies,
	"anomaly_cap":       Anomalies,
	"story":             Story,
	"corr_decade":       Correlations,
	"dive_feature":      Genres,
	"dive_genres":       Genres,
	"toggle_dive_genre": Genres,
	"era":               Blueprint,
	"hit_fraction":      Blueprint,
	"x":                 Explore,
	"y":                 Explore,
	"color_by":          Explore,
	"sample_ceiling":    Explore,
	"sim_from":          Simulator,
	"sim_to":            Simulator,
	"insight_feature":   Insights,
	"insight_from":      Insights,
	"insight_to":        Insights,
}

const weightPrefix = "weight."

// ChartFor returns the chart a parameter affects.
func ChartFor(param string) (string, error) {
	if id, ok := paramCharts[param]; ok {
		return id, nil
	}
	if f, ok := strings.CutPrefix(param, weightPrefix); ok {
		if !slices.Contains(analysis.ScoreFeatures, f) {
			return "", fmt.Errorf("%w: %s: not a score feature", ErrUnknownParam, param)
		}
		return Simulator, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownParam, param)
}

// ParamNames lists every settable parameter (weights as weight.<feature>).
func ParamNames() []string {
	names := make([]string, 0, len(paramCharts)+len(analysis.ScoreFeatures))
	for _, id := range Order {
		var group []string
		for p, c := range paramCharts {
			if c == id {
				group = append(group, p)
			}
		}
		sort.Strings(group)
		names = append(names, group...)
	}
	for _, f := range analysis.ScoreFeatures {
		names = append(names, weightPrefix+f)
	}
	return names
}

// Dashboard owns the store, the current parameters and the last good chart
// of each kind. It is not safe for concurrent use.
type Dashboard struct {
	store    *dataset.Store
	params   Params
	charts   map[string]*Chart
	builders map[string]Builder
	logger   *slog.Logger
}

// NewDashboard prepares a dashboard; nothing is computed until RenderAll or
// Set is called.
func NewDashboard(st *dataset.Store, p Params, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		store:    st,
		params:   p.Clone(),
		charts:   map[string]*Chart{},
		builders: Builders(),
		logger:   logger,
	}
}

// Params returns a copy of the current parameters.
func (d *Dashboard) Params() Params { return d.params.Clone() }

// Chart returns the last successfully computed chart.
func (d *Dashboard) Chart(id string) (*Chart, bool) {
	c, ok := d.charts[id]
	return c, ok
}

// Charts returns the current charts in render order.
func (d *Dashboard) Charts() []*Chart {
	out := make([]*Chart, 0, len(d.charts))
	for _, id := range Order {
		if c, ok := d.charts[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// RenderAll computes every chart in Order. Failures are collected; charts that
// fail keep their previous state.
func (d *Dashboard) RenderAll() error {
	var errs error
	for _, id := range Order {
		errs = multierr.Append(errs, d.Recompute(id))
	}
	return errs
}

// Set applies one parameter change and recomputes only the affected chart.
// An invalid value leaves the parameters untouched. A failed recompute keeps
// the previous chart and is returned alongside the chart ID.
func (d *Dashboard) Set(param string, value any) (string, error) {
	id, err := ChartFor(param)
	if err != nil {
		return "", err
	}
	next, err := Apply(d.params, param, value)
	if err != nil {
		return id, err
	}
	d.params = next
	d.logger.Debug("parameter changed", "param", param, "value", value, "chart", id)
	return id, d.Recompute(id)
}

// Recompute rebuilds one chart. Errors and panics are logged and the previous
// chart is kept.
func (d *Dashboard) Recompute(id string) (err error) {
	build, ok := d.builders[id]
	if !ok {
		return fmt.Errorf("unknown chart %q", id)
	}
	runID := uuid.NewString()
	start := time.Now()
	log := d.logger.With("chart", id, "run", runID)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("chart %s panicked: %v", id, r)
			log.Error("chart computation panicked; keeping previous chart", "panic", r)
		}
	}()
	c, err := build(d.store, d.params.Clone())
	if err != nil {
		log.Warn("chart computation failed; keeping previous chart", "error", err)
		return fmt.Errorf("chart %s: %w", id, err)
	}
	d.charts[id] = c
	log.Debug("chart computed", "points", c.PointCount(), "elapsed", time.Since(start))
	return nil
}

// Apply returns a copy of p with one parameter changed. p itself is never
// modified.
func Apply(p Params, param string, value any) (Params, error) {
	if _, err := ChartFor(param); err != nil {
		return p, err
	}
	next := p.Clone()
	if err := applyParam(&next, param, value); err != nil {
		return p, fmt.Errorf("set %s: %w", param, err)
	}
	return next, nil
}

func applyParam(p *Params, param string, value any) error {
	if f, ok := strings.CutPrefix(param, weightPrefix); ok {
		if !slices.Contains(analysis.ScoreFeatures, f) {
			return fmt.Errorf("%w: %s", ErrUnknownParam, param)
		}
		w, err := cast.ToFloat64E(value)
		if err != nil {
			return err
		}
		if w < 0 {
			return fmt.Errorf("weight must be >= 0, got %v", w)
		}
		if p.Weights == nil {
			p.Weights = analysis.Weights{}
		}
		p.Weights[f] = w
		return nil
	}

	switch param {
	case "year_from":
		return setInt(&p.YearFrom, value)
	case "year_to":
		return setInt(&p.YearTo, value)
	case "sim_from":
		return setInt(&p.SimFrom, value)
	case "sim_to":
		return setInt(&p.SimTo, value)
	case "insight_from":
		return setInt(&p.InsightFrom, value)
	case "insight_to":
		return setInt(&p.InsightTo, value)
	case "anomaly_cap":
		return setInt(&p.AnomalyCap, value)
	case "sample_ceiling":
		return setInt(&p.SampleCeiling, value)
	case "era":
		if err := setInt(&p.Era, value); err != nil {
			return err
		}
		p.Era = p.Era / 10 * 10
		return nil
	case "corr_decade":
		if s, ok := value.(string); ok && strings.EqualFold(strings.TrimSpace(s), "all") {
			p.CorrDecade = 0
			return nil
		}
		if err := setInt(&p.CorrDecade, value); err != nil {
			return err
		}
		p.CorrDecade = p.CorrDecade / 10 * 10
		return nil
	case "feature":
		return setFeature(&p.TrendFeature, value)
	case "anomaly_feature":
		return setFeature(&p.AnomalyFeature, value)
	case "dive_feature":
		return setFeature(&p.DiveFeature, value)
	case "x":
		return setFeature(&p.XFeature, value)
	case "y":
		return setFeature(&p.YFeature, value)
	case "insight_feature":
		return setFeature(&p.InsightFeature, value)
	case "sensitivity":
		v, err := cast.ToFloat64E(value)
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("%w: %v", analysis.ErrInvalidSensitivity, v)
		}
		p.Sensitivity = SnapSensitivity(v)
		return nil
	case "hit_fraction":
		v, err := cast.ToFloat64E(value)
		if err != nil {
			return err
		}
		if v <= 0 || v > 1 {
			return fmt.Errorf("hit fraction must be in (0, 1], got %v", v)
		}
		p.HitFraction = v
		return nil
	case "story":
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		s = strings.ToLower(strings.TrimSpace(s))
		if _, err := LookupStory(s); err != nil {
			return err
		}
		p.Story = s
		return nil
	case "color_by":
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		switch s = strings.ToLower(strings.TrimSpace(s)); s {
		case ColorByYear, ColorByPopularity, ColorByGenre:
			p.ColorBy = s
			return nil
		}
		return fmt.Errorf("unknown color-by %q (use year, popularity or genre)", s)
	case "genres":
		return setGenres(&p.Genres, value)
	case "dive_genres":
		return setGenres(&p.DiveGenres, value)
	case "toggle_genre":
		return toggleGenre(&p.Genres, value)
	case "toggle_dive_genre":
		return toggleGenre(&p.DiveGenres, value)
	}
	return fmt.Errorf("%w: %s", ErrUnknownParam, param)
}

func setInt(dst *int, value any) error {
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	v, err := cast.ToIntE(value)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func setFeature(dst *string, value any) error {
	s, err := cast.ToStringE(value)
	if err != nil {
		return err
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if err := analysis.ValidateFeature(s); err != nil {
		return err
	}
	*dst = s
	return nil
}

// toStrings accepts a comma separated string or any slice cast understands.
func toStrings(value any) ([]string, error) {
	if s, ok := value.(string); ok {
		return strings.Split(s, ","), nil
	}
	return cast.ToStringSliceE(value)
}

func setGenres(dst *genre.Set, value any) error {
	names, err := toStrings(value)
	if err != nil {
		return err
	}
	set, err := genre.ParseSet(names)
	if err != nil {
		return err
	}
	*dst = set
	return nil
}

func toggleGenre(dst *genre.Set, value any) error {
	s, err := cast.ToStringE(value)
	if err != nil {
		return err
	}
	l, err := genre.Parse(s)
	if err != nil {
		return err
	}
	if *dst == nil {
		*dst = genre.Set{}
	}
	dst.Toggle(l)
	return nil
}
