package resolver

import (
	"context"
	"fmt"

	"github.com/willibrandon/nuplan/core"
	"github.com/willibrandon/nuplan/frameworks"
	"github.com/willibrandon/nuplan/observability"
	"github.com/willibrandon/nuplan/version"
)

// InstallOptions configures an InstallPlanner.
type InstallOptions struct {
	// IgnoreDependencies plans the package alone
	IgnoreDependencies bool

	// AllowPrereleaseVersions admits pre-release packages from the source
	// repository; the local repository always admits them
	AllowPrereleaseVersions bool

	// DependencyVersion picks among several matching versions
	DependencyVersion version.DependencyVersion

	// TargetFramework filters dependency sets; nil uses all of them
	TargetFramework *frameworks.Framework

	// EngineVersion is checked against packages' MinClientVersion
	// (nil uses DefaultEngineVersion)
	EngineVersion *version.SemanticVersion

	// Constraints restricts the versions chosen per package id (nil means none)
	Constraints core.ConstraintProvider

	// Logger receives progress and warnings (nil uses NullLogger)
	Logger observability.Logger
}

// InstallPlanner plans the operations that bring a package and its missing
// dependencies into the local repository. Installed packages of another
// version are upgraded in place when their dependents allow it.
//
// A planner may be reused, but calls to ResolveOperations must not overlap.
type InstallPlanner struct {
	local  core.Repository
	source core.Repository
	opts   InstallOptions

	name            string
	acceptedTargets core.PackageTarget
}

// NewInstallPlanner creates a planner installing from source into local.
func NewInstallPlanner(local, source core.Repository, opts InstallOptions) *InstallPlanner {
	if opts.Constraints == nil {
		opts.Constraints = core.NullConstraintProvider{}
	}
	return &InstallPlanner{
		local:           local,
		source:          source,
		opts:            opts,
		name:            "install",
		acceptedTargets: core.TargetAll,
	}
}

// installRun is the state of one ResolveOperations call.
type installRun struct {
	planner *InstallPlanner
	plan    *planRun
	walker  *Walker

	operations *OperationLookup
	dependents *DependentsIndex
	keep       map[core.PackageKey]bool
}

// ResolveOperations returns the operations installing pkg, reduced so that no
// package is both installed and uninstalled.
func (p *InstallPlanner) ResolveOperations(ctx context.Context, pkg *core.Package) ([]core.PackageOperation, error) {
	plan := beginPlan(ctx, p.name, pkg, p.opts.TargetFramework, p.opts.Logger)
	return plan.end(p.resolve(plan, pkg))
}

func (p *InstallPlanner) resolve(plan *planRun, pkg *core.Package) ([]core.PackageOperation, error) {
	run := &installRun{
		planner:    p,
		plan:       plan,
		operations: NewOperationLookup(),
		dependents: NewDependentsIndex(p.local, p.opts.TargetFramework),
		keep:       make(map[core.PackageKey]bool),
	}

	run.walker = NewWalker(WalkOptions{
		IgnoreDependencies:      p.opts.IgnoreDependencies,
		RaiseErrorOnCycle:       true,
		AllowPrereleaseVersions: p.opts.AllowPrereleaseVersions,
		DependencyVersion:       p.opts.DependencyVersion,
		TargetFramework:         p.opts.TargetFramework,
		EngineVersion:           p.opts.EngineVersion,
		Logger:                  plan.logger,
		Recorder:                plan.recorder,
	}, WalkHooks{
		ResolveDependency:        run.resolveDependency,
		OnBeforeWalk:             run.onBeforeWalk,
		OnAfterWalk:              run.onAfterWalk,
		OnDependencyResolveError: run.onDependencyResolveError,
	})

	if err := run.walker.Walk(plan.ctx, pkg); err != nil {
		return nil, err
	}

	return Reduce(run.operations.Operations()), nil
}

// conflict is an installed or already walked package sharing an id with the
// package being walked.
type conflict struct {
	pkg        *core.Package
	repo       core.Repository
	dependents DependentsResolver
}

func (r *installRun) findConflict(p *core.Package) *conflict {
	marker := r.walker.Marker()
	if existing := core.FindPackageByID(marker, p.ID); existing != nil {
		return &conflict{pkg: existing, repo: marker, dependents: marker}
	}
	if existing := core.FindPackageByID(r.planner.local, p.ID); existing != nil {
		return &conflict{pkg: existing, repo: r.planner.local, dependents: r.dependents}
	}
	return nil
}

func (r *installRun) onBeforeWalk(p *core.Package) error {
	// Packages whose own content is outside the accepted targets keep their
	// installed version.
	if initial := r.walker.GetPackageInfo(p).InitialTarget; initial != core.TargetNone && !r.planner.acceptedTargets.Has(initial) {
		return nil
	}

	c := r.findConflict(p)
	if c == nil || c.pkg.Key() == p.Key() {
		return nil
	}

	queued := make(map[core.PackageKey]bool)
	for _, u := range r.operations.Packages(core.ActionUninstall) {
		queued[u.Key()] = true
	}

	var incompatible []*core.Package
	for _, dependent := range c.dependents.GetDependents(c.pkg) {
		if queued[dependent.Key()] {
			continue
		}
		dep := dependent.FindDependency(p.ID, r.planner.opts.TargetFramework)
		if dep != nil && !dep.VersionSpec.Satisfies(p.Version) {
			incompatible = append(incompatible, dependent)
		}
	}

	switch {
	case len(incompatible) > 0:
		r.plan.recorder.Conflict("package_conflict")
		return &PackageConflictError{Installed: c.pkg, Requested: p, Dependents: incompatible}
	case p.Version.LessThan(c.pkg.Version):
		r.plan.recorder.Conflict("downgrade")
		return fmt.Errorf("%w: '%s' is already installed; '%s' is older", ErrDowngradeRejected, c.pkg, p)
	default:
		return r.uninstall(c)
	}
}

// uninstall queues the removal of the version being replaced.
func (r *installRun) uninstall(c *conflict) error {
	delete(r.keep, c.pkg.Key())

	if !r.walker.Marker().Contains(c.pkg) && r.operations.Contains(c.pkg, core.ActionUninstall) {
		return nil
	}

	r.plan.logger.DebugContext(r.plan.ctx, "Replacing {Package} from {Repository}", c.pkg.String(), c.repo.Name())

	nested := &UninstallPlanner{
		repo:       c.repo,
		dependents: c.dependents,
		opts: UninstallOptions{
			RemoveDependencies: !r.planner.opts.IgnoreDependencies,
			TargetFramework:    r.planner.opts.TargetFramework,
		},
		name: "uninstall",
	}
	nestedPlan := &planRun{
		ctx:      r.plan.ctx,
		id:       r.plan.id,
		logger:   observability.NewNullLogger(),
		recorder: r.plan.recorder,
	}
	ops, err := nested.resolve(nestedPlan, c.pkg)
	if err != nil {
		return err
	}

	for _, op := range ops {
		if op.Action == core.ActionUninstall && r.keep[op.Key()] {
			continue
		}
		r.operations.Add(op)
	}
	return nil
}

func (r *installRun) onAfterWalk(p *core.Package) error {
	if !r.planner.acceptedTargets.Has(r.walker.GetPackageInfo(p).Target) {
		r.plan.logger.DebugContext(r.plan.ctx, "Leaving {Package} untouched: target {Target} not accepted", p.String(), r.walker.GetPackageInfo(p).Target.String())
		return nil
	}

	if !r.planner.local.Exists(p) {
		r.operations.Add(core.NewOperation(p, core.ActionInstall))
		return nil
	}

	r.operations.Remove(p, core.ActionUninstall)
	r.keep[p.Key()] = true
	return nil
}

func (r *installRun) resolveDependency(dep core.PackageDependency) *core.Package {
	opts := r.planner.opts

	if p := core.ResolveDependency(r.planner.local, dep, core.ResolveOptions{
		AllowPrerelease:   true,
		DependencyVersion: opts.DependencyVersion,
		Constraints:       opts.Constraints,
	}); p != nil {
		r.plan.logger.DebugContext(r.plan.ctx, "Resolved {Dependency} to {Package} from {Repository}", dep.String(), p.String(), r.planner.local.Name())
		return p
	}

	r.plan.logger.InfoContext(r.plan.ctx, "Attempting to resolve dependency {Dependency} from {Repository}", dep.String(), r.planner.source.Name())
	return core.ResolveDependency(r.planner.source, dep, core.ResolveOptions{
		AllowPrerelease:   opts.AllowPrereleaseVersions,
		PreferListed:      true,
		DependencyVersion: opts.DependencyVersion,
		Constraints:       opts.Constraints,
	})
}

func (r *installRun) onDependencyResolveError(dep core.PackageDependency) error {
	if spec := r.planner.opts.Constraints.GetConstraint(dep.ID); spec != nil {
		return fmt.Errorf("%w '%s': '%s' has an additional constraint %s", ErrUnableToResolveDependency, dep, dep.ID, spec.PrettyPrint())
	}
	return fmt.Errorf("%w '%s'", ErrUnableToResolveDependency, dep)
}
