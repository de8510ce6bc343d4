package resolver

import (
	"context"

	"github.com/willibrandon/nuplan/core"
	"github.com/willibrandon/nuplan/frameworks"
	"github.com/willibrandon/nuplan/observability"
)

// UninstallOptions configures an UninstallPlanner.
type UninstallOptions struct {
	// RemoveDependencies also removes dependencies nothing else uses
	RemoveDependencies bool

	// Force removes packages even when other packages depend on them
	Force bool

	// ThrowOnConflicts fails with ErrPackageHasDependents when a package is
	// still in use; otherwise a warning is logged and removal proceeds
	ThrowOnConflicts bool

	// TargetFramework filters dependency sets; nil uses all of them
	TargetFramework *frameworks.Framework

	// Logger receives progress and warnings (nil uses NullLogger)
	Logger observability.Logger
}

// DefaultUninstallOptions returns options that refuse to break dependents.
func DefaultUninstallOptions() UninstallOptions {
	return UninstallOptions{ThrowOnConflicts: true}
}

// UninstallPlanner plans the removal of an installed package and, optionally,
// of the dependencies no other package needs.
type UninstallPlanner struct {
	repo       core.Repository
	dependents DependentsResolver
	opts       UninstallOptions
	name       string
}

// NewUninstallPlanner creates a planner over the local repository repo. A nil
// dependents resolver builds a DependentsIndex over repo per call.
func NewUninstallPlanner(repo core.Repository, dependents DependentsResolver, opts UninstallOptions) *UninstallPlanner {
	return &UninstallPlanner{
		repo:       repo,
		dependents: dependents,
		opts:       opts,
		name:       "uninstall",
	}
}

// uninstallRun is the state of one ResolveOperations call.
type uninstallRun struct {
	planner    *UninstallPlanner
	plan       *planRun
	walker     *Walker
	dependents DependentsResolver

	stack    []core.PackageOperation
	forced   []dependentsWarning
	skipped  []dependentsWarning
	warnings map[core.PackageKey]bool
}

type dependentsWarning struct {
	pkg        *core.Package
	dependents []*core.Package
}

// ResolveOperations returns the operations removing pkg. Dependents are
// removed before the packages they depend on.
func (u *UninstallPlanner) ResolveOperations(ctx context.Context, pkg *core.Package) ([]core.PackageOperation, error) {
	plan := beginPlan(ctx, u.name, pkg, u.opts.TargetFramework, u.opts.Logger)
	return plan.end(u.resolve(plan, pkg))
}

func (u *UninstallPlanner) resolve(plan *planRun, pkg *core.Package) ([]core.PackageOperation, error) {
	run := &uninstallRun{
		planner:    u,
		plan:       plan,
		dependents: u.dependents,
		warnings:   make(map[core.PackageKey]bool),
	}
	if run.dependents == nil {
		run.dependents = NewDependentsIndex(u.repo, u.opts.TargetFramework)
	}

	run.walker = NewWalker(WalkOptions{
		IgnoreDependencies:         !u.opts.RemoveDependencies,
		RaiseErrorOnCycle:          true,
		SkipDependencyResolveError: true,
		IgnoreWalkInfo:             true,
		IgnoreMinClientVersion:     true,
		AllowPrereleaseVersions:    true,
		TargetFramework:            u.opts.TargetFramework,
		Logger:                     plan.logger,
		Recorder:                   plan.recorder,
	}, WalkHooks{
		ResolveDependency: func(dep core.PackageDependency) *core.Package {
			return core.ResolveDependency(u.repo, dep, core.ResolveOptions{AllowPrerelease: true})
		},
		OnBeforeWalk:             run.onBeforeWalk,
		OnAfterResolveDependency: run.onAfterResolveDependency,
		OnAfterWalk:              run.onAfterWalk,
		OnDependencyResolveError: run.onDependencyResolveError,
	})

	if err := run.walker.Walk(plan.ctx, pkg); err != nil {
		return nil, err
	}

	for _, w := range run.forced {
		plan.logger.WarnContext(plan.ctx, "Removing {Package} will break {Dependents}", w.pkg.String(), joinPackages(w.dependents, ", "))
	}
	for _, w := range run.skipped {
		plan.logger.WarnContext(plan.ctx, "Skipped uninstalling {Package} because {Dependents} depend on it", w.pkg.String(), joinPackages(w.dependents, ", "))
	}

	ops := make([]core.PackageOperation, 0, len(run.stack))
	for i := len(run.stack) - 1; i >= 0; i-- {
		ops = append(ops, run.stack[i])
	}
	return Reduce(ops), nil
}

func (r *uninstallRun) onBeforeWalk(p *core.Package) error {
	dependents := r.unconnectedDependents(p)
	if len(dependents) == 0 {
		return nil
	}

	switch {
	case r.planner.opts.Force:
		r.record(&r.forced, p, dependents)
	case r.planner.opts.ThrowOnConflicts:
		r.plan.recorder.Conflict("has_dependents")
		return &PackageHasDependentsError{Package: p, Dependents: dependents}
	default:
		r.plan.logger.WarnContext(r.plan.ctx, "Uninstalling {Package} although {Dependents} depend on it", p.String(), joinPackages(dependents, ", "))
	}
	return nil
}

func (r *uninstallRun) onAfterResolveDependency(_, dependency *core.Package) bool {
	if r.planner.opts.Force {
		return true
	}

	dependents := r.unconnectedDependents(dependency)
	if len(dependents) == 0 {
		return true
	}

	r.record(&r.skipped, dependency, dependents)
	return false
}

func (r *uninstallRun) onAfterWalk(p *core.Package) error {
	r.stack = append(r.stack, core.NewOperation(p, core.ActionUninstall))
	return nil
}

func (r *uninstallRun) onDependencyResolveError(dep core.PackageDependency) error {
	r.plan.logger.WarnContext(r.plan.ctx, "Unable to locate dependency {Dependency}", dep.String())
	return nil
}

func (r *uninstallRun) record(list *[]dependentsWarning, p *core.Package, dependents []*core.Package) {
	if r.warnings[p.Key()] {
		for i := range *list {
			if (*list)[i].pkg.Key() == p.Key() {
				(*list)[i].dependents = dependents
			}
		}
		return
	}
	r.warnings[p.Key()] = true
	*list = append(*list, dependentsWarning{pkg: p, dependents: dependents})
}

// unconnectedDependents returns the dependents of p that are not themselves
// being removed by this run.
func (r *uninstallRun) unconnectedDependents(p *core.Package) []*core.Package {
	var out []*core.Package
	for _, d := range r.dependents.GetDependents(p) {
		if !r.isConnected(d, make(map[core.PackageKey]bool)) {
			out = append(out, d)
		}
	}
	return out
}

// isConnected reports whether p is already part of this removal, or has
// dependents and every one of them is.
func (r *uninstallRun) isConnected(p *core.Package, seen map[core.PackageKey]bool) bool {
	if r.walker.Marker().Contains(p) {
		return true
	}

	key := p.Key()
	if seen[key] {
		return false
	}
	seen[key] = true

	dependents := r.dependents.GetDependents(p)
	if len(dependents) == 0 {
		return false
	}
	for _, d := range dependents {
		if !r.isConnected(d, seen) {
			return false
		}
	}
	return true
}
