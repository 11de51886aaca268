package cmdkit

import "slices"

// Matches is the bag of raw values a parser backend produced for one
// command. Decoders only read from it; the mutating methods exist for
// backends and tests.
type Matches struct {
	values map[string][]string
	counts map[string]int
	sub    *Sub
}

// Sub is the subcommand a backend selected, with its own matches.
type Sub struct {
	Name    string
	Matches *Matches
}

// NewMatches returns an empty bag.
func NewMatches() *Matches {
	return &Matches{
		values: make(map[string][]string),
		counts: make(map[string]int),
	}
}

// Add records one occurrence of name carrying the given values.
func (m *Matches) Add(name string, values ...string) *Matches {
	m.values[name] = append(m.values[name], values...)
	m.counts[name]++
	return m
}

// Mark records one occurrence of a value-less argument.
func (m *Matches) Mark(name string) *Matches {
	m.counts[name]++
	return m
}

// Select records the selected subcommand.
func (m *Matches) Select(name string, sub *Matches) *Matches {
	m.sub = &Sub{Name: name, Matches: sub}
	return m
}

// Count returns the number of occurrences of name.
func (m *Matches) Count(name string) int {
	if m == nil {
		return 0
	}
	return m.counts[name]
}

// Present reports whether name occurred at least once.
func (m *Matches) Present(name string) bool {
	return m.Count(name) > 0
}

// Values returns a copy of all values recorded for name, in order.
func (m *Matches) Values(name string) []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.values[name])
}

// Value returns the last value recorded for name.
func (m *Matches) Value(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	vals := m.values[name]
	if len(vals) == 0 {
		return "", false
	}
	return vals[len(vals)-1], true
}

// Sub returns the selected subcommand, or nil.
func (m *Matches) Sub() *Sub {
	if m == nil {
		return nil
	}
	return m.sub
}
