package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Record is one parsed row. Every header field is kept as trimmed text; fields
// whose whole value is a finite number are also available as float64.
type Record struct {
	Text    map[string]string
	Numbers map[string]float64
	// Year is derived from the release date; 0 means absent or invalid.
	Year int
}

// releaseDateFields are checked in order when deriving Year.
var releaseDateFields = []string{"release_date", "album_release_date"}

// NewRecord builds a record from header/value pairs and derives Year.
func NewRecord(header, values []string) Record {
	r := Record{
		Text:    make(map[string]string, len(header)),
		Numbers: make(map[string]float64, len(header)),
	}
	for i, h := range header {
		v := ""
		if i < len(values) {
			v = cleanValue(values[i])
		}
		r.Text[h] = v
		if x, ok := parseNumber(v); ok {
			r.Numbers[h] = x
		}
	}
	r.Year = deriveYear(r)
	return r
}

// Float returns the numeric value of a field. ok is false when the field is
// missing, empty, or not numeric.
func (r Record) Float(name string) (float64, bool) {
	v, ok := r.Numbers[name]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// String returns the raw text of a field ("" when absent).
func (r Record) String(name string) string { return r.Text[name] }

// HasYear reports whether a usable year was derived.
func (r Record) HasYear() bool { return r.Year > 0 }

// Decade returns floor(year/10)*10, or 0 without a valid year.
func (r Record) Decade() int {
	if !r.HasYear() {
		return 0
	}
	return (r.Year / 10) * 10
}

// Name returns a display name for the record.
func (r Record) Name() string {
	if n := r.Text["name"]; n != "" {
		return n
	}
	return "Track"
}

func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	return v
}

// parseNumber converts a trimmed value when the whole string is a finite number.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func deriveYear(r Record) int {
	for _, f := range releaseDateFields {
		if y := yearPrefix(r.Text[f]); y > 0 {
			return y
		}
	}
	if y, ok := r.Float("year"); ok && y > 0 && y == math.Trunc(y) {
		return int(y)
	}
	return 0
}

func yearPrefix(s string) int {
	if len(s) < 4 {
		return 0
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0
		}
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil || y <= 0 {
		return 0
	}
	return y
}
