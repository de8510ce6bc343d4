package resolver

import (
	"context"

	"github.com/willibrandon/nuplan/core"
	"github.com/willibrandon/nuplan/frameworks"
)

// DependentsIndex answers which packages of a repository depend on a given
// package. The first query walks every package once; later queries are map
// lookups. The index never refreshes: build a new one after the repository
// changes.
type DependentsIndex struct {
	repo            core.Repository
	targetFramework *frameworks.Framework

	walker *Walker
}

// NewDependentsIndex creates an index over repo. Dependencies are filtered
// by targetFramework when it is non-nil.
func NewDependentsIndex(repo core.Repository, targetFramework *frameworks.Framework) *DependentsIndex {
	return &DependentsIndex{repo: repo, targetFramework: targetFramework}
}

// GetDependents returns the packages that depend on p.
func (d *DependentsIndex) GetDependents(p *core.Package) []*core.Package {
	if d.walker == nil {
		d.build()
	}
	return d.walker.Marker().GetDependents(p)
}

func (d *DependentsIndex) build() {
	d.walker = NewWalker(WalkOptions{
		SkipDependencyResolveError: true,
		IgnoreWalkInfo:             true,
		IgnoreMinClientVersion:     true,
		AllowPrereleaseVersions:    true,
		TargetFramework:            d.targetFramework,
	}, WalkHooks{
		ResolveDependency: func(dep core.PackageDependency) *core.Package {
			return core.ResolveDependency(d.repo, dep, core.ResolveOptions{AllowPrerelease: true})
		},
	})

	for _, p := range d.repo.GetPackages() {
		// Cycles are pruned and nothing else can fail with these options.
		_ = d.walker.Walk(context.Background(), p)
	}
}
