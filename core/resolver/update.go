package resolver

import "github.com/willibrandon/nuplan/core"

// UpdateOptions configures an UpdatePlanner.
type UpdateOptions struct {
	InstallOptions

	// UpdateDependencies also walks and updates the package's dependencies
	UpdateDependencies bool

	// AcceptedTargets limits the package classifications that may be queued.
	// TargetNone (the zero value) accepts everything. Dependency-only
	// packages are always accepted.
	AcceptedTargets core.PackageTarget
}

// UpdatePlanner is an InstallPlanner that leaves packages outside its
// accepted targets untouched.
type UpdatePlanner struct {
	*InstallPlanner
}

// NewUpdatePlanner creates a planner updating local from source.
func NewUpdatePlanner(local, source core.Repository, opts UpdateOptions) *UpdatePlanner {
	install := opts.InstallOptions
	install.IgnoreDependencies = !opts.UpdateDependencies

	p := NewInstallPlanner(local, source, install)
	p.name = "update"
	if opts.AcceptedTargets != core.TargetNone {
		p.acceptedTargets = opts.AcceptedTargets
	}
	return &UpdatePlanner{InstallPlanner: p}
}
