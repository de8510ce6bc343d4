// Package resolver plans package operations by walking dependency graphs.
//
// A single Walker drives every planner. Planners differ only in the hooks
// and options they hand to the walker: the install planner queues installs
// after each package is walked, the uninstall planner pushes removals onto a
// stack, the sorter appends packages in dependency order, and the dependents
// index simply lets the walker record reverse edges.
package resolver

import (
	"context"
	"fmt"

	"github.com/willibrandon/nuplan/core"
	"github.com/willibrandon/nuplan/frameworks"
	"github.com/willibrandon/nuplan/observability"
	"github.com/willibrandon/nuplan/version"
)

// DefaultEngineVersion is the engine version packages' minimum client
// version is checked against when WalkOptions.EngineVersion is nil.
var DefaultEngineVersion = version.MustParse("3.0.0")

// WalkOptions configures one walk. The zero value walks dependencies,
// prunes cycles silently and aborts the subtree of an unresolved dependency.
type WalkOptions struct {
	// IgnoreDependencies walks only the root package
	IgnoreDependencies bool

	// RaiseErrorOnCycle turns a detected cycle into ErrCircularDependency
	RaiseErrorOnCycle bool

	// SkipDependencyResolveError continues with the next dependency when one
	// cannot be resolved instead of abandoning the package
	SkipDependencyResolveError bool

	// IgnoreWalkInfo disables target classification and bubbling
	IgnoreWalkInfo bool

	// IgnoreMinClientVersion skips the engine version check, for walks over
	// packages that are already installed
	IgnoreMinClientVersion bool

	// AllowPrereleaseVersions admits pre-release packages when resolving
	// against packages already in the walk
	AllowPrereleaseVersions bool

	// DependencyVersion picks among several matching versions
	DependencyVersion version.DependencyVersion

	// TargetFramework filters dependency sets; nil uses all of them
	TargetFramework *frameworks.Framework

	// EngineVersion is compared with packages' MinClientVersion
	EngineVersion *version.SemanticVersion

	// Logger receives walk diagnostics (nil uses NullLogger)
	Logger observability.Logger

	// Recorder receives walk metrics (nil disables them)
	Recorder *observability.PlanRecorder
}

// WalkHooks are the override points a planner supplies. Nil hooks are no-ops;
// a nil ResolveDependency resolves nothing beyond the packages already walked.
type WalkHooks struct {
	// ResolveDependency finds a package for a dependency not satisfied by
	// any package already in the walk
	ResolveDependency func(dep core.PackageDependency) *core.Package

	// OnBeforeWalk runs before a package's dependencies are walked
	OnBeforeWalk func(p *core.Package) error

	// OnAfterWalk runs once a package and all its dependencies are walked
	OnAfterWalk func(p *core.Package) error

	// OnAfterResolveDependency returns false to keep the walker from
	// descending into dependency
	OnAfterResolveDependency func(p, dependency *core.Package) bool

	// OnDependencyResolveError is called for every unresolved dependency;
	// a non-nil error aborts the walk
	OnDependencyResolveError func(dep core.PackageDependency) error
}

// Walker performs a depth-first walk over a package's dependency closure,
// visiting every package at most once. Its marker and classification state
// live as long as the Walker, so a planner creates one per planning call.
type Walker struct {
	opts   WalkOptions
	hooks  WalkHooks
	logger observability.Logger

	marker   *Marker
	walkInfo map[core.PackageKey]*PackageWalkInfo
}

// walkFrame is one package on the explicit walk stack.
type walkFrame struct {
	pkg  *core.Package
	deps []core.PackageDependency
	next int
}

// NewWalker creates a walker with a fresh marker.
func NewWalker(opts WalkOptions, hooks WalkHooks) *Walker {
	if opts.EngineVersion == nil {
		opts.EngineVersion = DefaultEngineVersion
	}

	logger := opts.Logger
	if logger == nil {
		logger = observability.NewNullLogger()
	}

	return &Walker{
		opts:     opts,
		hooks:    hooks,
		logger:   logger,
		marker:   NewMarker(),
		walkInfo: make(map[core.PackageKey]*PackageWalkInfo),
	}
}

// Marker returns the walker's traversal state.
func (w *Walker) Marker() *Marker {
	return w.marker
}

// GetPackageInfo returns the classification state of p, creating it from
// p's own content on first use.
func (w *Walker) GetPackageInfo(p *core.Package) *PackageWalkInfo {
	key := p.Key()
	info, ok := w.walkInfo[key]
	if !ok {
		target := p.Target()
		info = &PackageWalkInfo{Target: target, InitialTarget: target}
		w.walkInfo[key] = info
	}
	return info
}

// Walk walks root and its dependency closure. Packages already visited by an
// earlier Walk on the same Walker are only re-classified.
//
// The walk keeps its own stack, so arbitrarily deep dependency chains do not
// grow the goroutine stack. ctx carries the span that cycle events are
// recorded on; the walk itself never blocks and does not observe
// cancellation.
func (w *Walker) Walk(ctx context.Context, root *core.Package) error {
	var stack []*walkFrame

	frame, err := w.enter(root)
	if err != nil {
		return err
	}
	if frame == nil {
		return nil
	}
	stack = append(stack, frame)

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.next >= len(top.deps) {
			stack = stack[:len(stack)-1]
			if err := w.leave(top.pkg); err != nil {
				return err
			}
			continue
		}

		dep := top.deps[top.next]
		top.next++

		resolved := core.ResolveDependency(w.marker, dep, core.ResolveOptions{
			AllowPrerelease:   w.opts.AllowPrereleaseVersions,
			DependencyVersion: w.opts.DependencyVersion,
		})
		if resolved == nil && w.hooks.ResolveDependency != nil {
			resolved = w.hooks.ResolveDependency(dep)
		}

		if resolved == nil {
			if w.hooks.OnDependencyResolveError != nil {
				if err := w.hooks.OnDependencyResolveError(dep); err != nil {
					return err
				}
			}
			if w.opts.SkipDependencyResolveError {
				w.logger.DebugContext(ctx, "Skipping unresolved dependency {Dependency} of {Package}", dep.String(), top.pkg.String())
				continue
			}
			// Abandon top: it stays Processing and never reaches OnAfterWalk.
			w.logger.DebugContext(ctx, "Abandoning {Package}: dependency {Dependency} is unresolved", top.pkg.String(), dep.String())
			stack = stack[:len(stack)-1]
			continue
		}

		if !w.opts.IgnoreWalkInfo {
			w.GetPackageInfo(resolved).Parent = top.pkg
		}

		w.marker.AddDependent(top.pkg, resolved)

		if w.hooks.OnAfterResolveDependency != nil && !w.hooks.OnAfterResolveDependency(top.pkg, resolved) {
			continue
		}

		if w.marker.IsCycle(resolved) || w.marker.IsVersionCycle(resolved.ID) {
			chain := make([]*core.Package, 0, len(stack)+1)
			for _, f := range stack {
				chain = append(chain, f.pkg)
			}
			chain = append(chain, resolved)
			cycle := &CircularDependencyError{Packages: chain}

			observability.RecordCycle(ctx, cycle.Chain(), w.opts.RaiseErrorOnCycle)
			if w.opts.Recorder != nil {
				w.opts.Recorder.CycleDetected(w.opts.RaiseErrorOnCycle)
			}
			if w.opts.RaiseErrorOnCycle {
				return cycle
			}
			w.logger.DebugContext(ctx, "Ignoring circular dependency {Chain}", cycle.Chain())
			continue
		}

		frame, err := w.enter(resolved)
		if err != nil {
			return err
		}
		if frame != nil {
			stack = append(stack, frame)
		}
	}

	return nil
}

// enter runs the pre-order half of walking p. It returns nil when p was
// already visited and needs no frame.
func (w *Walker) enter(p *core.Package) (*walkFrame, error) {
	if err := w.checkMinClientVersion(p); err != nil {
		return nil, err
	}

	if w.marker.IsVisited(p) {
		return nil, w.processPackageTarget(p)
	}

	if w.hooks.OnBeforeWalk != nil {
		if err := w.hooks.OnBeforeWalk(p); err != nil {
			return nil, err
		}
	}

	w.marker.MarkProcessing(p)

	frame := &walkFrame{pkg: p}
	if !w.opts.IgnoreDependencies {
		frame.deps = p.GetCompatibleDependencies(w.opts.TargetFramework)
	}
	return frame, nil
}

// leave runs the post-order half of walking p.
func (w *Walker) leave(p *core.Package) error {
	w.marker.MarkVisited(p)

	if err := w.processPackageTarget(p); err != nil {
		return err
	}

	if w.opts.Recorder != nil {
		w.opts.Recorder.PackageWalked()
	}

	if w.hooks.OnAfterWalk != nil {
		return w.hooks.OnAfterWalk(p)
	}
	return nil
}

func (w *Walker) checkMinClientVersion(p *core.Package) error {
	if w.opts.IgnoreMinClientVersion || p.MinClientVersion == nil {
		return nil
	}
	if w.opts.EngineVersion.LessThan(p.MinClientVersion) {
		return fmt.Errorf("%w: '%s' requires engine version '%s' or above, but the current version is '%s'",
			ErrVersionNotSatisfied, p, p.MinClientVersion, w.opts.EngineVersion)
	}
	return nil
}

// processPackageTarget bubbles p's target into a dependency-only parent and
// enforces that external packages never depend on project packages.
func (w *Walker) processPackageTarget(p *core.Package) error {
	if w.opts.IgnoreWalkInfo {
		return nil
	}

	info := w.GetPackageInfo(p)
	if info.Parent == nil {
		return nil
	}

	parent := w.GetPackageInfo(info.Parent)
	if parent.InitialTarget == core.TargetNone {
		parent.Target |= info.Target
		if parent.Target == core.TargetAll {
			return fmt.Errorf("%w: '%s'", ErrIllegalTargetMix, info.Parent)
		}
	}

	if parent.Target == core.TargetExternal && info.Target.Has(core.TargetProject) {
		return fmt.Errorf("%w: '%s' depends on '%s'", ErrExternalDependsOnProject, info.Parent, p)
	}

	return nil
}
