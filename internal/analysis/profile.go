package analysis

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/KaramelBytes/musictrends-cli/internal/dataset"
)

// ProfileOptions controls the dataset profile.
type ProfileOptions struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// OutlierThreshold for the robust Z-score (MAD). 0 means 3.5.
	OutlierThreshold float64
	// Columns restricts the profile; empty means every column seen.
	Columns []string
	// Synthetic marks the report as generated data.
	Synthetic bool
}

// Profile is a markdown-friendly overview of the loaded tracks.
type Profile struct {
	Name      string          `json:"name"`
	Rows      int             `json:"rows"`
	WithYear  int             `json:"with_year"`
	Synthetic bool            `json:"synthetic"`
	Cols      []ColumnProfile `json:"columns"`
	Decades   []DecadeProfile `json:"decades,omitempty"`
	Corr      *CorrMatrix     `json:"correlations,omitempty"`
	Samples   [][]string      `json:"samples,omitempty"`
	Warnings  []string        `json:"warnings,omitempty"`
}

// ColumnProfile captures inferred kind and statistics per column.
type ColumnProfile struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"` // numeric|categorical|text|empty
	NonNull int    `json:"non_null"`
	Missing int    `json:"missing"`
	Unique  int    `json:"unique,omitempty"`
	// Numeric stats
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`
	Mean float64 `json:"mean,omitempty"`
	Std  float64 `json:"std,omitempty"`
	// Outliers (robust Z via MAD)
	OutliersCount    int     `json:"outliers,omitempty"`
	OutliersMaxAbsZ  float64 `json:"outliers_max_abs_z,omitempty"`
	OutlierThreshold float64 `json:"outlier_threshold,omitempty"`
	// Categorical top values
	TopValues    []CategoryCount `json:"top_values,omitempty"`
	ExampleTexts []string        `json:"examples,omitempty"`
}

type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DecadeProfile holds per-decade feature means.
type DecadeProfile struct {
	Decade int                `json:"decade"`
	Size   int                `json:"size"`
	Means  map[string]float64 `json:"means"`
}

// CorrMatrix holds a symmetric Pearson correlation matrix across features.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"` // row-major, Values[i][j]
}

// BuildProfile summarises every column of recs, the per-decade feature means
// and the raw feature correlation matrix.
func BuildProfile(name string, recs []dataset.Record, opt ProfileOptions) *Profile {
	p := &Profile{Name: name, Rows: len(recs), Synthetic: opt.Synthetic}
	cols := opt.Columns
	if len(cols) == 0 {
		cols = columnsOf(recs)
	}
	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	thr := opt.OutlierThreshold
	if thr <= 0 {
		thr = 3.5
	}

	for _, r := range recs {
		if r.HasYear() {
			p.WithYear++
		}
		if len(p.Samples) < sampleRows {
			row := make([]string, len(cols))
			for i, c := range cols {
				row[i] = r.String(c)
			}
			p.Samples = append(p.Samples, row)
		}
	}

	for _, c := range cols {
		p.Cols = append(p.Cols, profileColumn(recs, c, thr))
	}
	if missing := p.Rows - p.WithYear; missing > 0 {
		p.Warnings = append(p.Warnings, fmt.Sprintf("%d/%d rows have no usable release year and are excluded from time-based charts", missing, p.Rows))
	}

	p.Decades = decadeProfiles(recs)
	p.Corr = correlationMatrix(recs, dataset.FeatureFields)
	return p
}

func columnsOf(recs []dataset.Record) []string {
	seen := map[string]bool{}
	var extra []string
	for _, r := range recs {
		for k := range r.Text {
			if !seen[k] {
				seen[k] = true
				if !slices.Contains(dataset.FeatureFields, k) {
					extra = append(extra, k)
				}
			}
		}
	}
	sort.Strings(extra)
	var out []string
	for _, f := range dataset.FeatureFields {
		if seen[f] {
			out = append(out, f)
		}
	}
	return append(out, extra...)
}

func profileColumn(recs []dataset.Record, name string, thr float64) ColumnProfile {
	s := ColumnProfile{Name: name}
	// Welford
	var n int
	var mu, m2 float64
	minV, maxV := math.Inf(1), math.Inf(-1)
	var nums []float64
	cats := map[string]int{}
	var txt int
	var examples []string
	for _, r := range recs {
		v := r.String(name)
		if v == "" {
			s.Missing++
			continue
		}
		s.NonNull++
		if x, ok := r.Float(name); ok {
			n++
			minV = math.Min(minV, x)
			maxV = math.Max(maxV, x)
			delta := x - mu
			mu += delta / float64(n)
			m2 += delta * (x - mu)
			nums = append(nums, x)
			continue
		}
		txt++
		if len(cats) <= 10000 && len(v) <= 64 {
			cats[v]++
		}
		if len(examples) < 3 {
			examples = append(examples, v)
		}
	}

	switch {
	case n > 0 && n >= txt:
		s.Kind = "numeric"
		s.Min, s.Max, s.Mean = minV, maxV, mu
		if n > 1 {
			s.Std = math.Sqrt(m2 / float64(n-1))
		}
		if len(nums) >= 8 {
			median, mad := medianMAD(nums)
			s.OutlierThreshold = thr
			if mad > 0 {
				for _, v := range nums {
					az := math.Abs(0.6745 * (v - median) / mad)
					if az > thr {
						s.OutliersCount++
					}
					s.OutliersMaxAbsZ = math.Max(s.OutliersMaxAbsZ, az)
				}
			}
		}
	case len(cats) > 0 && len(cats) < txt:
		s.Kind = "categorical"
		tops := make([]CategoryCount, 0, len(cats))
		for k, v := range cats {
			tops = append(tops, CategoryCount{Value: k, Count: v})
		}
		sort.Slice(tops, func(i, j int) bool {
			if tops[i].Count == tops[j].Count {
				return tops[i].Value < tops[j].Value
			}
			return tops[i].Count > tops[j].Count
		})
		if len(tops) > 8 {
			tops = tops[:8]
		}
		s.TopValues = tops
		s.Unique = len(cats)
	case txt > 0:
		s.Kind = "text"
		s.ExampleTexts = examples
	default:
		s.Kind = "empty"
	}
	return s
}

func decadeProfiles(recs []dataset.Record) []DecadeProfile {
	byDecade := map[int]*DecadeProfile{}
	for _, f := range dataset.FeatureFields {
		for _, b := range Aggregate(recs, f, ByDecade) {
			dp := byDecade[b.Key]
			if dp == nil {
				dp = &DecadeProfile{Decade: b.Key, Means: map[string]float64{}}
				byDecade[b.Key] = dp
			}
			dp.Means[f] = b.Mean()
		}
	}
	for _, r := range recs {
		if dp := byDecade[r.Decade()]; dp != nil {
			dp.Size++
		}
	}
	out := make([]DecadeProfile, 0, len(byDecade))
	for _, dp := range byDecade {
		out = append(out, *dp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Decade < out[j].Decade })
	return out
}

func correlationMatrix(recs []dataset.Record, features []string) *CorrMatrix {
	var present []string
	for _, f := range features {
		for _, r := range recs {
			if _, ok := r.Float(f); ok {
				present = append(present, f)
				break
			}
		}
	}
	if len(present) < 2 {
		return nil
	}
	n := len(present)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
		mat[i][i] = 1
	}
	for a := 1; a < n; a++ {
		for b := 0; b < a; b++ {
			var pa pairAcc
			for _, r := range recs {
				x, okx := r.Float(present[a])
				y, oky := r.Float(present[b])
				if okx && oky {
					pa.add(x, y)
				}
			}
			v := 0.0
			if pa.n >= 2 {
				v = pa.r()
			}
			mat[a][b], mat[b][a] = v, v
		}
	}
	return &CorrMatrix{Columns: present, Values: mat}
}

// Markdown renders a compact report suitable for standalone docs.
func (p *Profile) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if p.Name != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n", p.Name))
	}
	if p.Synthetic {
		b.WriteString("Data: synthetic fallback\n")
	}
	b.WriteString(fmt.Sprintf("Rows: %d (with year %d)\n", p.Rows, p.WithYear))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(p.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range p.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
				if c.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
				}
			}
		case "categorical":
			b.WriteString(": top ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		case "text":
			if len(c.ExampleTexts) > 0 {
				b.WriteString(", e.g. ")
				for i, ex := range c.ExampleTexts {
					if i > 0 {
						b.WriteString(" | ")
					}
					b.WriteString(safeVal(ex))
				}
			}
		}
		b.WriteString("\n")
	}

	if len(p.Decades) > 0 {
		b.WriteString("\n[DECADES]\n")
		for _, d := range p.Decades {
			b.WriteString(fmt.Sprintf("- %ds (n=%d)\n", d.Decade, d.Size))
			keys := make([]string, 0, len(d.Means))
			for k := range d.Means {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for i := 0; i < len(keys) && i < 6; i++ {
				b.WriteString(fmt.Sprintf("  • %s: mean %.4g\n", keys[i], d.Means[keys[i]]))
			}
		}
	}

	if p.Corr != nil {
		b.WriteString("\n[CORRELATIONS]\n")
		type pr struct {
			A, B string
			R    float64
		}
		var pairs []pr
		n := len(p.Corr.Columns)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, pr{A: p.Corr.Columns[i], B: p.Corr.Columns[j], R: p.Corr.Values[i][j]})
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		for i := 0; i < len(pairs) && i < 10; i++ {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", pairs[i].A, pairs[i].B, pairs[i].R))
		}
	}

	if len(p.Samples) > 0 && len(p.Cols) > 0 {
		b.WriteString("\n[SAMPLE ROWS]\n| ")
		for i, c := range p.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n|")
		for range p.Cols {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, row := range p.Samples {
			b.WriteString("| ")
			for i := range p.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(p.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range p.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
