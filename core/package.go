// Package core provides the package model shared by the planners: package
// identity, dependencies, classification, operations and repositories.
//
// Identity comparisons are case-insensitive on the id and use the normalized
// version, so "Foo 1.0" and "foo 1.0.0.0" are the same package.
package core

import (
	"strings"

	"github.com/willibrandon/nuplan/frameworks"
	"github.com/willibrandon/nuplan/version"
)

// PackageIdentity represents a unique package identifier.
type PackageIdentity struct {
	// ID is the package identifier (case-insensitive)
	ID string

	// Version is the package version
	Version *version.SemanticVersion
}

// NewPackageIdentity creates a new package identity.
func NewPackageIdentity(id string, ver *version.SemanticVersion) PackageIdentity {
	return PackageIdentity{
		ID:      id,
		Version: ver,
	}
}

// Equals checks if two package identities are equal.
// Package IDs are compared case-insensitively.
func (p PackageIdentity) Equals(other PackageIdentity) bool {
	return strings.EqualFold(p.ID, other.ID) && p.Version.Compare(other.Version) == 0
}

// Key returns the canonical map key for the identity.
func (p PackageIdentity) Key() PackageKey {
	return MakeKey(p.ID, p.Version)
}

// String returns a string representation of the package identity.
func (p PackageIdentity) String() string {
	return p.ID + " " + p.Version.String()
}

// PackageKey is the canonical (lower-cased id, normalized version) pair used
// wherever packages are map keys or set members.
type PackageKey struct {
	ID      string
	Version string
}

// MakeKey builds the canonical key for id and v.
func MakeKey(id string, v *version.SemanticVersion) PackageKey {
	return PackageKey{
		ID:      strings.ToLower(id),
		Version: strings.ToLower(v.ToNormalizedString()),
	}
}

func (k PackageKey) String() string {
	return k.ID + " " + k.Version
}

// PackageDependency represents a dependency on another package.
type PackageDependency struct {
	// ID is the dependency package ID
	ID string

	// VersionSpec is the accepted version range; nil accepts any version
	VersionSpec *version.VersionSpec
}

// String renders the dependency as "Id (>= 1.0)".
func (d PackageDependency) String() string {
	if pretty := d.VersionSpec.PrettyPrint(); pretty != "" {
		return d.ID + " " + pretty
	}
	return d.ID
}

// PackageDependencySet groups dependencies for one target framework.
type PackageDependencySet struct {
	// TargetFramework is a framework name such as "net45"; empty applies to every framework
	TargetFramework string

	// Dependencies is the list of package dependencies
	Dependencies []PackageDependency
}

// Package is a concrete package version known to a repository.
type Package struct {
	ID      string
	Version *version.SemanticVersion

	// MinClientVersion is the lowest planner engine version able to handle the package
	MinClientVersion *version.SemanticVersion

	// DependencySets contains dependencies organized by target framework
	DependencySets []PackageDependencySet

	// Files is the package file manifest, using '/' or '\' separators
	Files []string

	// FrameworkAssemblies lists framework references added to projects
	FrameworkAssemblies []string

	// Unlisted packages are only chosen when no listed candidate matches
	Unlisted bool
}

// Key returns the canonical key of the package.
func (p *Package) Key() PackageKey {
	return MakeKey(p.ID, p.Version)
}

func (p *Package) String() string {
	return p.ID + " " + p.Version.String()
}

// HasProjectContent reports whether installing the package changes a project:
// it ships lib, content or build files, or framework references.
func (p *Package) HasProjectContent() bool {
	if len(p.FrameworkAssemblies) > 0 {
		return true
	}
	for _, f := range p.Files {
		switch topFolder(f) {
		case "lib", "content", "build":
			return true
		}
	}
	return false
}

// IsDependencyOnly reports whether the package has no files of its own and
// exists only to pull in dependencies.
func (p *Package) IsDependencyOnly() bool {
	if len(p.Files) > 0 || len(p.FrameworkAssemblies) > 0 {
		return false
	}
	for _, set := range p.DependencySets {
		if len(set.Dependencies) > 0 {
			return true
		}
	}
	return false
}

// Target classifies the package by its own content.
func (p *Package) Target() PackageTarget {
	switch {
	case p.HasProjectContent():
		return TargetProject
	case p.IsDependencyOnly():
		return TargetNone
	default:
		return TargetExternal
	}
}

// GetCompatibleDependencies returns the dependencies that apply to
// targetFramework.
//
// With no target framework every set applies (first occurrence of an id wins).
// Otherwise the nearest compatible framework-specific set is used, falling
// back to the untargeted set.
func (p *Package) GetCompatibleDependencies(targetFramework *frameworks.Framework) []PackageDependency {
	if len(p.DependencySets) == 0 {
		return nil
	}

	if targetFramework == nil {
		seen := make(map[string]bool)
		var deps []PackageDependency
		for _, set := range p.DependencySets {
			for _, d := range set.Dependencies {
				id := strings.ToLower(d.ID)
				if seen[id] {
					continue
				}
				seen[id] = true
				deps = append(deps, d)
			}
		}
		return deps
	}

	var (
		available  []*frameworks.Framework
		owners     []int
		untargeted = -1
	)
	for i, set := range p.DependencySets {
		if set.TargetFramework == "" {
			if untargeted < 0 {
				untargeted = i
			}
			continue
		}
		fw, err := frameworks.ParseFramework(set.TargetFramework)
		if err != nil {
			continue
		}
		available = append(available, fw)
		owners = append(owners, i)
	}

	if nearest := frameworks.GetNearest(targetFramework, available); nearest != nil {
		for i, fw := range available {
			if fw == nearest {
				return p.DependencySets[owners[i]].Dependencies
			}
		}
	}

	if untargeted >= 0 {
		return p.DependencySets[untargeted].Dependencies
	}

	return nil
}

// FindDependency returns the dependency on id applicable to targetFramework, or nil.
func (p *Package) FindDependency(id string, targetFramework *frameworks.Framework) *PackageDependency {
	for _, d := range p.GetCompatibleDependencies(targetFramework) {
		if strings.EqualFold(d.ID, id) {
			return &d
		}
	}
	return nil
}

func topFolder(path string) string {
	path = strings.TrimLeft(strings.ReplaceAll(path, "\\", "/"), "/")
	folder, _, _ := strings.Cut(path, "/")
	return strings.ToLower(folder)
}
