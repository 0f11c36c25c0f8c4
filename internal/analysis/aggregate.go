package analysis

import (
	"cmp"
	"math"
	"slices"

	"github.com/KaramelBytes/musictrends-cli/internal/dataset"
	"github.com/KaramelBytes/musictrends-cli/internal/genre"
)

// KeyFunc extracts a group key from a record. ok=false excludes the record.
type KeyFunc[K cmp.Ordered] func(dataset.Record) (K, bool)

// ByYear groups by release year; records without a valid year are excluded.
func ByYear(r dataset.Record) (int, bool) { return r.Year, r.Year > 0 }

// ByDecade groups by floor(year/10)*10.
func ByDecade(r dataset.Record) (int, bool) {
	d := r.Decade()
	return d, d > 0
}

// ByGenre groups by classified genre.
func ByGenre(r dataset.Record) (genre.Label, bool) { return genre.Classify(r), true }

// Bucket is one group key with the contributing values in record order.
type Bucket[K cmp.Ordered] struct {
	Key    K
	Values []float64
}

// Mean is the arithmetic mean of the bucket. Buckets are never empty.
func (b Bucket[K]) Mean() float64 { return mean(b.Values) }

// Count is the number of contributing records.
func (b Bucket[K]) Count() int { return len(b.Values) }

// Summary describes one bucket for a detail view.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// Summary computes count, mean, min, max and the upper median.
func (b Bucket[K]) Summary() Summary {
	s := Summary{Count: len(b.Values)}
	if s.Count == 0 {
		return s
	}
	s.Min, s.Max = math.Inf(1), math.Inf(-1)
	for _, v := range b.Values {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean = b.Mean()
	s.Median = upperMedian(b.Values)
	return s
}

// Aggregate groups the defined values of feature by key and returns the
// non-empty buckets sorted by ascending key.
func Aggregate[K cmp.Ordered](recs []dataset.Record, feature string, key KeyFunc[K]) []Bucket[K] {
	idx := map[K]int{}
	var out []Bucket[K]
	for _, r := range recs {
		k, ok := key(r)
		if !ok {
			continue
		}
		v, ok := r.Float(feature)
		if !ok {
			continue
		}
		i, seen := idx[k]
		if !seen {
			i = len(out)
			idx[k] = i
			out = append(out, Bucket[K]{Key: k})
		}
		out[i].Values = append(out[i].Values, v)
	}
	slices.SortFunc(out, func(a, b Bucket[K]) int { return cmp.Compare(a.Key, b.Key) })
	return out
}

// Means flattens buckets into a key → mean map.
func Means[K cmp.Ordered](buckets []Bucket[K]) map[K]float64 {
	m := make(map[K]float64, len(buckets))
	for _, b := range buckets {
		m[b.Key] = b.Mean()
	}
	return m
}

// YearlyMeans is Aggregate by year reduced to means, in year order.
func YearlyMeans(recs []dataset.Record, feature string) (years []int, means []float64) {
	for _, b := range Aggregate(recs, feature, ByYear) {
		years = append(years, b.Key)
		means = append(means, b.Mean())
	}
	return years, means
}

// Find returns the bucket with key k.
func Find[K cmp.Ordered](buckets []Bucket[K], k K) (Bucket[K], bool) {
	i, ok := slices.BinarySearchFunc(buckets, k, func(b Bucket[K], t K) int { return cmp.Compare(b.Key, t) })
	if !ok {
		return Bucket[K]{}, false
	}
	return buckets[i], true
}
