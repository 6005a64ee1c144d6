package planner

import (
	"strconv"
	"strings"
)

// StopMatchKind tags the representation a single stop matcher targets.
// Heterogeneous feeds store the same station under up to three shapes: the
// exact id string, the bare integer form, and the base id with a
// platform/track suffix appended.
type StopMatchKind int

const (
	ExactString StopMatchKind = iota
	ExactInteger
	PrefixPattern
)

// StopMatch is one membership condition against a normalized stop id.
type StopMatch struct {
	Kind  StopMatchKind
	Value string
}

// StopPredicate is the union (logical OR) of its matchers. It is the unit of
// cost in schedule-store lookups: it may over-match (a prefix can catch an
// unrelated id) but must never under-match; callers re-filter retrieved stop
// entries with Matches.
type StopPredicate struct {
	matchers []StopMatch
}

// NewStopPredicate builds the predicate for a set of candidate station ids.
// Every candidate contributes an exact-string and a prefix matcher, plus an
// exact-integer matcher when the id parses as one.
func NewStopPredicate(candidates []string) StopPredicate {
	var p StopPredicate
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		p.matchers = append(p.matchers, StopMatch{Kind: ExactString, Value: c})
		if n, err := strconv.Atoi(c); err == nil {
			p.matchers = append(p.matchers, StopMatch{Kind: ExactInteger, Value: strconv.Itoa(n)})
		}
		p.matchers = append(p.matchers, StopMatch{Kind: PrefixPattern, Value: c})
	}
	return p
}

// Matchers exposes the individual conditions for store-side compilation.
func (p StopPredicate) Matchers() []StopMatch {
	return p.matchers
}

// Empty reports whether the predicate can never match anything.
func (p StopPredicate) Empty() bool {
	return len(p.matchers) == 0
}

// Matches evaluates the predicate in-memory against one stop id. Stop ids are
// normalized to trimmed text at ingestion, so the integer representation
// reduces to equality on its canonical decimal form.
func (p StopPredicate) Matches(stopID string) bool {
	for _, m := range p.matchers {
		switch m.Kind {
		case ExactString, ExactInteger:
			if stopID == m.Value {
				return true
			}
		case PrefixPattern:
			if strings.HasPrefix(stopID, m.Value) {
				return true
			}
		}
	}
	return false
}
