package genre

import (
	"fmt"
	"strings"
)

// Label is one of the fixed genre buckets produced by Classify.
type Label string

const (
	Pop        Label = "pop"
	Rock       Label = "rock"
	HipHop     Label = "hip-hop"
	Electronic Label = "electronic"
	Jazz       Label = "jazz"
)

// All lists every label in display order.
var All = []Label{Pop, Rock, HipHop, Electronic, Jazz}

// Features is the minimal view of a track the classifier needs.
// Implementations report ok=false for missing values.
type Features interface {
	Float(name string) (float64, bool)
}

// Classify maps audio features to a genre label. Rules are evaluated in order and
// the first match wins; missing features count as zero.
func Classify(f Features) Label {
	energy := valueOrZero(f, "energy")
	dance := valueOrZero(f, "danceability")
	acoustic := valueOrZero(f, "acousticness")
	valence := valueOrZero(f, "valence")

	switch {
	case acoustic > 0.6:
		return Jazz
	case energy > 0.7 && dance > 0.7:
		return Electronic
	case energy > 0.6 && dance > 0.5 && valence < 0.6:
		return HipHop
	case energy > 0.7:
		return Rock
	case dance > 0.7:
		return Pop
	case valence < 0.4:
		return Jazz
	}
	return Pop
}

func valueOrZero(f Features, name string) float64 {
	if f == nil {
		return 0
	}
	v, ok := f.Float(name)
	if !ok {
		return 0
	}
	return v
}

// Parse resolves a user supplied genre name. Matching is case-insensitive and
// accepts "hiphop"/"hip hop" for hip-hop.
func Parse(s string) (Label, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	switch n {
	case "hiphop", "hip hop", "hip_hop":
		n = string(HipHop)
	}
	for _, l := range All {
		if string(l) == n {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown genre: %q (use pop, rock, hip-hop, electronic or jazz)", s)
}

// Index returns the position of l in All, used as a numeric colour value.
func Index(l Label) int {
	for i, v := range All {
		if v == l {
			return i
		}
	}
	return 0
}

// Set is the genre multi-select filter.
type Set map[Label]struct{}

// NewSet builds a set from labels.
func NewSet(labels ...Label) Set {
	s := make(Set, len(labels))
	for _, l := range labels {
		s[l] = struct{}{}
	}
	return s
}

// DefaultSet is the initial selection: pop, rock and hip-hop.
func DefaultSet() Set { return NewSet(Pop, Rock, HipHop) }

// ParseSet parses a list of names; an empty list yields an empty set.
func ParseSet(names []string) (Set, error) {
	s := Set{}
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		l, err := Parse(n)
		if err != nil {
			return nil, err
		}
		s[l] = struct{}{}
	}
	return s, nil
}

func (s Set) Has(l Label) bool {
	_, ok := s[l]
	return ok
}

func (s Set) Add(l Label)    { s[l] = struct{}{} }
func (s Set) Remove(l Label) { delete(s, l) }

// Toggle flips membership of l and reports whether it is now selected.
func (s Set) Toggle(l Label) bool {
	if s.Has(l) {
		delete(s, l)
		return false
	}
	s[l] = struct{}{}
	return true
}

// Sorted returns the members in All order.
func (s Set) Sorted() []Label {
	out := make([]Label, 0, len(s))
	for _, l := range All {
		if s.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for l := range s {
		c[l] = struct{}{}
	}
	return c
}

// Strings returns the sorted member names.
func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for _, l := range s.Sorted() {
		out = append(out, string(l))
	}
	return out
}
