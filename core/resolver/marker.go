package resolver

import (
	"strings"

	"github.com/willibrandon/nuplan/core"
	"github.com/willibrandon/nuplan/version"
)

type visitState int

const (
	unvisited visitState = iota
	processing
	visited
)

// Marker is the per-run traversal state: a tri-state visit map and the
// dependents adjacency recorded while walking.
//
// A Marker also acts as a read-only repository of every package it has seen,
// which lets the walker resolve a dependency to a package already in the
// current graph before asking the planner.
type Marker struct {
	states   map[core.PackageKey]visitState
	packages []*core.Package // marking order
	byID     map[string][]*core.Package

	dependents map[core.PackageKey][]*core.Package
	edges      map[[2]core.PackageKey]bool
}

// NewMarker returns an empty marker.
func NewMarker() *Marker {
	return &Marker{
		states:     make(map[core.PackageKey]visitState),
		byID:       make(map[string][]*core.Package),
		dependents: make(map[core.PackageKey][]*core.Package),
		edges:      make(map[[2]core.PackageKey]bool),
	}
}

func (m *Marker) mark(p *core.Package, state visitState) {
	key := p.Key()
	if _, seen := m.states[key]; !seen {
		m.packages = append(m.packages, p)
		m.byID[key.ID] = append(m.byID[key.ID], p)
	}
	m.states[key] = state
}

// MarkProcessing records that p is on the current walk path.
func (m *Marker) MarkProcessing(p *core.Package) {
	m.mark(p, processing)
}

// MarkVisited records that p and its dependencies have been fully processed.
func (m *Marker) MarkVisited(p *core.Package) {
	m.mark(p, visited)
}

// IsVisited reports whether p has been fully processed.
func (m *Marker) IsVisited(p *core.Package) bool {
	return m.states[p.Key()] == visited
}

// IsCycle reports whether p itself is still being processed.
func (m *Marker) IsCycle(p *core.Package) bool {
	return m.states[p.Key()] == processing
}

// IsVersionCycle reports whether any version of id is still being processed.
func (m *Marker) IsVersionCycle(id string) bool {
	for _, p := range m.byID[strings.ToLower(id)] {
		if m.states[p.Key()] == processing {
			return true
		}
	}
	return false
}

// Contains reports whether p has been marked in any state.
func (m *Marker) Contains(p *core.Package) bool {
	_, ok := m.states[p.Key()]
	return ok
}

// Packages returns every marked package in marking order.
func (m *Marker) Packages() []*core.Package {
	out := make([]*core.Package, len(m.packages))
	copy(out, m.packages)
	return out
}

// AddDependent records that dependent depends on dependency.
func (m *Marker) AddDependent(dependent, dependency *core.Package) {
	edge := [2]core.PackageKey{dependency.Key(), dependent.Key()}
	if m.edges[edge] {
		return
	}
	m.edges[edge] = true
	m.dependents[edge[0]] = append(m.dependents[edge[0]], dependent)
}

// GetDependents returns the packages recorded as depending on p, in the
// order they were first seen.
func (m *Marker) GetDependents(p *core.Package) []*core.Package {
	deps := m.dependents[p.Key()]
	out := make([]*core.Package, len(deps))
	copy(out, deps)
	return out
}

// Name implements core.Repository.
func (m *Marker) Name() string {
	return "marker"
}

// FindPackagesByID implements core.Repository.
func (m *Marker) FindPackagesByID(id string) []*core.Package {
	pkgs := m.byID[strings.ToLower(id)]
	out := make([]*core.Package, len(pkgs))
	copy(out, pkgs)
	return out
}

// FindPackage implements core.Repository.
func (m *Marker) FindPackage(id string, ver *version.SemanticVersion) *core.Package {
	key := core.MakeKey(id, ver)
	for _, p := range m.byID[key.ID] {
		if p.Key() == key {
			return p
		}
	}
	return nil
}

// Exists implements core.Repository.
func (m *Marker) Exists(p *core.Package) bool {
	return m.Contains(p)
}

// GetPackages implements core.Repository.
func (m *Marker) GetPackages() []*core.Package {
	return m.Packages()
}
