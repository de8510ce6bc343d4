package core

import (
	"strings"

	"github.com/willibrandon/nuplan/version"
)

// ConstraintProvider supplies an external version constraint for a package
// id, such as a version pinned by the user. A nil spec means unconstrained.
type ConstraintProvider interface {
	GetConstraint(id string) *version.VersionSpec
}

// NullConstraintProvider constrains nothing.
type NullConstraintProvider struct{}

// GetConstraint always returns nil.
func (NullConstraintProvider) GetConstraint(string) *version.VersionSpec {
	return nil
}

// ConstraintSet is a map-backed ConstraintProvider keyed by lower-cased id.
type ConstraintSet map[string]*version.VersionSpec

// Add constrains id to spec.
func (c ConstraintSet) Add(id string, spec *version.VersionSpec) {
	c[strings.ToLower(id)] = spec
}

// GetConstraint returns the constraint registered for id.
func (c ConstraintSet) GetConstraint(id string) *version.VersionSpec {
	return c[strings.ToLower(id)]
}

// ResolveOptions controls how a dependency is matched against a repository.
type ResolveOptions struct {
	// AllowPrerelease admits versions with a pre-release label
	AllowPrerelease bool

	// PreferListed ignores unlisted packages whenever a listed candidate matches
	PreferListed bool

	// DependencyVersion picks among several matching versions
	DependencyVersion version.DependencyVersion

	// Constraints adds an external constraint per id (nil means none)
	Constraints ConstraintProvider
}

// ResolveDependency returns the package in repo that best satisfies dep, or
// nil when nothing matches.
func ResolveDependency(repo Repository, dep PackageDependency, opts ResolveOptions) *Package {
	var constraint *version.VersionSpec
	if opts.Constraints != nil {
		constraint = opts.Constraints.GetConstraint(dep.ID)
	}

	var candidates []*Package
	for _, p := range repo.FindPackagesByID(dep.ID) {
		if !dep.VersionSpec.Satisfies(p.Version) || !constraint.Satisfies(p.Version) {
			continue
		}
		if !opts.AllowPrerelease && p.Version.IsPrerelease() {
			continue
		}
		candidates = append(candidates, p)
	}

	if opts.PreferListed {
		var listed []*Package
		for _, p := range candidates {
			if !p.Unlisted {
				listed = append(listed, p)
			}
		}
		if len(listed) > 0 {
			candidates = listed
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	versions := make([]*version.SemanticVersion, len(candidates))
	for i, p := range candidates {
		versions[i] = p.Version
	}
	return candidates[opts.DependencyVersion.Pick(versions)]
}
