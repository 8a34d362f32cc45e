//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_analysis/src/{property,table,lib}.rs
//

// Package analysis correlates failed checks against the properties
// they share (path, user, group), surfacing a bucket as a correlation
// candidate when every check touching it failed.
package analysis

import "fmt"

// DataPointKind discriminates the shape of a [DataPoint].
type DataPointKind int

const (
	// InvolvesPath means the check concerns a filesystem path.
	InvolvesPath DataPointKind = iota
	// InvolvesUser means the check concerns a local user name.
	InvolvesUser
	// InvolvesGroup means the check concerns a local group name.
	InvolvesGroup
)

// DataPoint is a property attached to a check for correlation.
type DataPoint struct {
	Kind  DataPointKind
	Value string
}

// PathDataPoint builds an InvolvesPath [DataPoint].
func PathDataPoint(path string) DataPoint { return DataPoint{Kind: InvolvesPath, Value: path} }

// UserDataPoint builds an InvolvesUser [DataPoint].
func UserDataPoint(name string) DataPoint { return DataPoint{Kind: InvolvesUser, Value: name} }

// GroupDataPoint builds an InvolvesGroup [DataPoint].
func GroupDataPoint(name string) DataPoint { return DataPoint{Kind: InvolvesGroup, Value: name} }

// String implements [fmt.Stringer].
func (p DataPoint) String() string {
	switch p.Kind {
	case InvolvesPath:
		return fmt.Sprintf("involving path '%s'", p.Value)
	case InvolvesUser:
		return fmt.Sprintf("involving user '%s'", p.Value)
	case InvolvesGroup:
		return fmt.Sprintf("involving group '%s'", p.Value)
	default:
		return "involving an unknown property"
	}
}

type matchingChecks[C any] struct {
	passes []C
	fails  []C
}

// Table indexes checks of type C by the [DataPoint]s they declare,
// bucketed by kind and value, tracking which passed and which failed.
type Table[C any] struct {
	paths  map[string]*matchingChecks[C]
	users  map[string]*matchingChecks[C]
	groups map[string]*matchingChecks[C]
}

// NewTable returns an empty [*Table].
func NewTable[C any]() *Table[C] {
	return &Table[C]{
		paths:  make(map[string]*matchingChecks[C]),
		users:  make(map[string]*matchingChecks[C]),
		groups: make(map[string]*matchingChecks[C]),
	}
}

func (t *Table[C]) bucket(kind DataPointKind, value string) *matchingChecks[C] {
	var m map[string]*matchingChecks[C]
	switch kind {
	case InvolvesPath:
		m = t.paths
	case InvolvesUser:
		m = t.users
	default:
		m = t.groups
	}
	entry, ok := m[value]
	if !ok {
		entry = &matchingChecks[C]{}
		m[value] = entry
	}
	return entry
}

// Add records check as having passed or failed for each of properties.
func (t *Table[C]) Add(check C, properties []DataPoint, passed bool) {
	for _, prop := range properties {
		entry := t.bucket(prop.Kind, prop.Value)
		if passed {
			entry.passes = append(entry.passes, check)
		} else {
			entry.fails = append(entry.fails, check)
		}
	}
}

// Correlation is a bucket with at least one failure and zero
// successes: every check touching this property failed.
type Correlation[C any] struct {
	Property DataPoint
	Count    int
	Checks   []C
}

// ResolveCorrelations returns one [Correlation] per bucket that has
// failures but no passes, across all three property kinds.
func (t *Table[C]) ResolveCorrelations() []Correlation[C] {
	var out []Correlation[C]
	collect := func(kind DataPointKind, m map[string]*matchingChecks[C]) {
		for value, entry := range m {
			if len(entry.passes) == 0 && len(entry.fails) > 0 {
				out = append(out, Correlation[C]{
					Property: DataPoint{Kind: kind, Value: value},
					Count:    len(entry.fails),
					Checks:   entry.fails,
				})
			}
		}
	}
	collect(InvolvesPath, t.paths)
	collect(InvolvesUser, t.users)
	collect(InvolvesGroup, t.groups)
	return out
}
