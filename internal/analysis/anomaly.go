package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/musictrends-cli/internal/dataset"
)

// DefaultAnomalyCap bounds how many anomalies are returned.
const DefaultAnomalyCap = 100

// ErrInvalidSensitivity is returned for a negative or non-finite sensitivity.
var ErrInvalidSensitivity = errors.New("invalid sensitivity")

// Anomaly is one value further than sensitivity·σ from the population mean.
type Anomaly struct {
	// Index is the position in the input (record order).
	Index  int     `json:"index"`
	Year   int     `json:"year,omitempty"`
	Value  float64 `json:"value"`
	ZScore float64 `json:"z_score"`
}

// Severity buckets |z| for display.
func (a Anomaly) Severity() string {
	switch z := math.Abs(a.ZScore); {
	case z > 3:
		return "SEVERE"
	case z > 2:
		return "STRONG"
	}
	return "MODERATE"
}

// Direction reports whether the value lies above or below the mean.
func (a Anomaly) Direction() string {
	if a.ZScore > 0 {
		return "ABOVE"
	}
	return "BELOW"
}

// AnomalyResult carries the anomalies plus the population statistics used.
type AnomalyResult struct {
	Mean      float64   `json:"mean"`
	Std       float64   `json:"std"`
	Threshold float64   `json:"threshold"`
	Total     int       `json:"total"` // qualifying before the cap
	Anomalies []Anomaly `json:"anomalies"`
}

// Detect flags records whose feature value deviates from the population mean
// by more than sensitivity·σ (population σ). Records without the feature are
// ignored. At most limit anomalies are returned in record order; limit <= 0
// uses DefaultAnomalyCap.
func Detect(recs []dataset.Record, feature string, sensitivity float64, limit int) (AnomalyResult, error) {
	vals := make([]float64, 0, len(recs))
	idx := make([]int, 0, len(recs))
	years := make([]int, 0, len(recs))
	for i, r := range recs {
		v, ok := r.Float(feature)
		if !ok {
			continue
		}
		vals = append(vals, v)
		idx = append(idx, i)
		years = append(years, r.Year)
	}
	res, err := DetectSeries(vals, sensitivity, limit)
	if err != nil {
		return res, err
	}
	for i := range res.Anomalies {
		j := res.Anomalies[i].Index
		res.Anomalies[i].Index = idx[j]
		res.Anomalies[i].Year = years[j]
	}
	return res, nil
}

// DetectSeries is Detect over a plain series; Index is the series position.
func DetectSeries(vals []float64, sensitivity float64, limit int) (AnomalyResult, error) {
	if sensitivity < 0 || math.IsNaN(sensitivity) || math.IsInf(sensitivity, 0) {
		return AnomalyResult{}, fmt.Errorf("%w: %v", ErrInvalidSensitivity, sensitivity)
	}
	if limit <= 0 {
		limit = DefaultAnomalyCap
	}
	res := AnomalyResult{Anomalies: []Anomaly{}}
	if len(vals) == 0 {
		return res, nil
	}
	mu := mean(vals)
	sigma := populationStd(vals, mu)
	res.Mean, res.Std = mu, sigma
	res.Threshold = sensitivity * sigma
	// constant series: nothing can exceed the threshold
	if sigma == 0 {
		return res, nil
	}
	for i, v := range vals {
		if math.Abs(v-mu) <= res.Threshold {
			continue
		}
		res.Total++
		if len(res.Anomalies) < limit {
			res.Anomalies = append(res.Anomalies, Anomaly{Index: i, Value: v, ZScore: (v - mu) / sigma})
		}
	}
	return res, nil
}
