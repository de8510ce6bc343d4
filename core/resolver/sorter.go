package resolver

import (
	"context"

	"github.com/willibrandon/nuplan/core"
	"github.com/willibrandon/nuplan/frameworks"
	"github.com/willibrandon/nuplan/observability"
)

// GetPackagesByDependencyOrder lists every package of repo so that each
// package follows the packages it depends on. Cycles are broken silently and
// unresolved dependencies are ignored.
func GetPackagesByDependencyOrder(ctx context.Context, repo core.Repository, targetFramework *frameworks.Framework, logger observability.Logger) ([]*core.Package, error) {
	var sorted []*core.Package
	recorder := observability.NewPlanRecorder("sort")

	walker := NewWalker(WalkOptions{
		SkipDependencyResolveError: true,
		IgnoreWalkInfo:             true,
		IgnoreMinClientVersion:     true,
		AllowPrereleaseVersions:    true,
		TargetFramework:            targetFramework,
		Logger:                     logger,
		Recorder:                   recorder,
	}, WalkHooks{
		ResolveDependency: func(dep core.PackageDependency) *core.Package {
			return core.ResolveDependency(repo, dep, core.ResolveOptions{AllowPrerelease: true})
		},
		OnAfterWalk: func(p *core.Package) error {
			sorted = append(sorted, p)
			return nil
		},
	})

	for _, p := range repo.GetPackages() {
		if err := walker.Walk(ctx, p); err != nil {
			recorder.Finish(err, nil)
			return nil, err
		}
	}

	recorder.Finish(nil, nil)
	return sorted, nil
}
