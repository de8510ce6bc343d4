package resolver

import (
	"context"

	"github.com/willibrandon/nuplan/core"
)

// PackageWalkInfo is the classification state of one package during a walk.
type PackageWalkInfo struct {
	// Target is the effective classification after bubbling from dependencies
	Target core.PackageTarget

	// InitialTarget is the classification of the package's own content
	InitialTarget core.PackageTarget

	// Parent is the package that most recently pulled this one in
	Parent *core.Package
}

// DependentsResolver answers which packages depend on a package.
// *DependentsIndex and *Marker implement it.
type DependentsResolver interface {
	GetDependents(p *core.Package) []*core.Package
}

// Planner is implemented by every planner producing operations.
type Planner interface {
	ResolveOperations(ctx context.Context, pkg *core.Package) ([]core.PackageOperation, error)
}
