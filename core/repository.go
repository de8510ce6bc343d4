package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/willibrandon/nuplan/version"
)

// Repository is a read-only view of a package store. Planners never mutate
// a repository.
type Repository interface {
	// Name identifies the repository in logs and errors.
	Name() string

	// FindPackagesByID returns every version of id, in ascending version order.
	FindPackagesByID(id string) []*Package

	// FindPackage returns the package with the given id and version, or nil.
	FindPackage(id string, ver *version.SemanticVersion) *Package

	// Exists reports whether the repository holds pkg.
	Exists(pkg *Package) bool

	// GetPackages returns all packages in a stable order.
	GetPackages() []*Package
}

// MemoryRepository is an in-memory Repository safe for concurrent readers.
type MemoryRepository struct {
	name string

	mu       sync.RWMutex
	packages map[string][]*Package // lower-cased id -> versions ascending
}

// NewMemoryRepository creates a repository holding pkgs.
func NewMemoryRepository(name string, pkgs ...*Package) *MemoryRepository {
	r := &MemoryRepository{
		name:     name,
		packages: make(map[string][]*Package),
	}
	for _, p := range pkgs {
		// Packages without an id or version are skipped.
		_ = r.AddPackage(p)
	}
	return r
}

// Name returns the repository name.
func (r *MemoryRepository) Name() string {
	return r.name
}

// AddPackage adds pkg, replacing any package with the same key.
func (r *MemoryRepository) AddPackage(pkg *Package) error {
	if pkg == nil || pkg.ID == "" || pkg.Version == nil {
		return fmt.Errorf("package requires an id and a version")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := strings.ToLower(pkg.ID)
	versions := r.packages[id]
	key := pkg.Key()
	for i, existing := range versions {
		if existing.Key() == key {
			versions[i] = pkg
			return nil
		}
	}

	versions = append(versions, pkg)
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].Version.LessThan(versions[j].Version)
	})
	r.packages[id] = versions
	return nil
}

// RemovePackage removes pkg. It returns false when the package was not present.
func (r *MemoryRepository) RemovePackage(pkg *Package) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := strings.ToLower(pkg.ID)
	versions := r.packages[id]
	key := pkg.Key()
	for i, existing := range versions {
		if existing.Key() == key {
			versions = append(versions[:i:i], versions[i+1:]...)
			if len(versions) == 0 {
				delete(r.packages, id)
			} else {
				r.packages[id] = versions
			}
			return true
		}
	}
	return false
}

// FindPackagesByID returns every version of id, in ascending version order.
func (r *MemoryRepository) FindPackagesByID(id string) []*Package {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions := r.packages[strings.ToLower(id)]
	if len(versions) == 0 {
		return nil
	}
	out := make([]*Package, len(versions))
	copy(out, versions)
	return out
}

// FindPackage returns the package with the given id and version, or nil.
func (r *MemoryRepository) FindPackage(id string, ver *version.SemanticVersion) *Package {
	key := MakeKey(id, ver)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.packages[key.ID] {
		if p.Key() == key {
			return p
		}
	}
	return nil
}

// Exists reports whether the repository holds pkg.
func (r *MemoryRepository) Exists(pkg *Package) bool {
	return pkg != nil && r.FindPackage(pkg.ID, pkg.Version) != nil
}

// GetPackages returns all packages ordered by id then version.
func (r *MemoryRepository) GetPackages() []*Package {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.packages))
	for id := range r.packages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*Package
	for _, id := range ids {
		out = append(out, r.packages[id]...)
	}
	return out
}

// FindPackageByID returns the highest version of id in repo, or nil. It is
// used to find the installed copy of a package in a local repository.
func FindPackageByID(repo Repository, id string) *Package {
	versions := repo.FindPackagesByID(id)
	if len(versions) == 0 {
		return nil
	}
	best := versions[0]
	for _, p := range versions[1:] {
		if p.Version.GreaterThan(best.Version) {
			best = p
		}
	}
	return best
}

// FindLatestPackage returns the newest package of id in repo, preferring
// listed packages and, unless allowPrerelease is set, release versions. It
// falls back to prerelease then unlisted candidates when nothing better exists.
func FindLatestPackage(repo Repository, id string, allowPrerelease bool) *Package {
	var best *Package
	rank := func(p *Package) int {
		r := 0
		if !p.Unlisted {
			r += 2
		}
		if allowPrerelease || !p.Version.IsPrerelease() {
			r++
		}
		return r
	}
	for _, p := range repo.FindPackagesByID(id) {
		if best == nil || rank(p) > rank(best) ||
			(rank(p) == rank(best) && p.Version.GreaterThan(best.Version)) {
			best = p
		}
	}
	return best
}
