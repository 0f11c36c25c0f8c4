package dataset

import (
	"github.com/KaramelBytes/musictrends-cli/internal/genre"
)

// Store holds the loaded tracks and artists. It is read-only after construction;
// filter methods return fresh slices that share the underlying records.
type Store struct {
	tracks  []Record
	artists []Record

	// Synthetic is true when tracks came from the fallback generator.
	Synthetic bool
	// FallbackCause is the load error that triggered the fallback, if any.
	FallbackCause error
}

// NewStore wraps already-parsed tables.
func NewStore(tracks, artists []Record) *Store {
	return &Store{tracks: tracks, artists: artists}
}

// Tracks returns all track records in source order.
func (s *Store) Tracks() []Record {
	if s == nil {
		return nil
	}
	return s.tracks
}

// Artists returns all artist records in source order.
func (s *Store) Artists() []Record {
	if s == nil {
		return nil
	}
	return s.artists
}

// Len is the number of tracks.
func (s *Store) Len() int { return len(s.Tracks()) }

// YearBounds returns the smallest and largest valid track year. ok is false
// when no track has a year.
func (s *Store) YearBounds() (min, max int, ok bool) {
	for _, r := range s.Tracks() {
		if !r.HasYear() {
			continue
		}
		if !ok || r.Year < min {
			min = r.Year
		}
		if !ok || r.Year > max {
			max = r.Year
		}
		ok = true
	}
	return min, max, ok
}

// FilterYearRange keeps tracks with a valid year in [from, to].
func FilterYearRange(recs []Record, from, to int) []Record {
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if r.HasYear() && r.Year >= from && r.Year <= to {
			out = append(out, r)
		}
	}
	return out
}

// FilterDecade keeps tracks whose year falls in the decade starting at decade.
func FilterDecade(recs []Record, decade int) []Record {
	return FilterYearRange(recs, decade, decade+9)
}

// FilterGenres keeps tracks whose classified genre is in set. An empty set keeps
// nothing.
func FilterGenres(recs []Record, set genre.Set) []Record {
	out := make([]Record, 0, len(recs))
	if len(set) == 0 {
		return out
	}
	for _, r := range recs {
		if set.Has(genre.Classify(r)) {
			out = append(out, r)
		}
	}
	return out
}
