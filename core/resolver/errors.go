package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/willibrandon/nuplan/core"
)

// Sentinel errors. Every fatal planning error wraps exactly one of them.
var (
	ErrVersionNotSatisfied       = errors.New("engine version not satisfied")
	ErrCircularDependency        = errors.New("circular dependency detected")
	ErrUnableToResolveDependency = errors.New("unable to resolve dependency")
	ErrPackageConflict           = errors.New("package conflict")
	ErrDowngradeRejected         = errors.New("downgrade rejected")
	ErrPackageHasDependents      = errors.New("package has dependents")
	ErrIllegalTargetMix          = errors.New("dependency-only package mixes project and external dependencies")
	ErrExternalDependsOnProject  = errors.New("external package depends on project package")
)

// CircularDependencyError reports a dependency cycle. Packages holds the
// chain from the walk root to the package that closes the cycle.
type CircularDependencyError struct {
	Packages []*core.Package
}

// Chain renders the cycle as "A 1.0 => B 1.0 => A 1.0".
func (e *CircularDependencyError) Chain() string {
	return joinPackages(e.Packages, " => ")
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected '%s'", e.Chain())
}

// Is matches ErrCircularDependency.
func (e *CircularDependencyError) Is(target error) bool {
	return target == ErrCircularDependency
}

// PackageConflictError reports installed packages whose dependency on
// Installed.ID is not satisfied by Requested.
type PackageConflictError struct {
	Installed  *core.Package
	Requested  *core.Package
	Dependents []*core.Package
}

func (e *PackageConflictError) Error() string {
	ids := make([]string, len(e.Dependents))
	for i, d := range e.Dependents {
		ids[i] = d.ID
	}
	return fmt.Sprintf("updating '%s' to '%s' failed: unable to find versions of '%s' that are compatible with '%s'",
		e.Installed, e.Requested, strings.Join(ids, ", "), e.Requested)
}

// Is matches ErrPackageConflict.
func (e *PackageConflictError) Is(target error) bool {
	return target == ErrPackageConflict
}

// PackageHasDependentsError reports an uninstall blocked by packages that
// still depend on Package.
type PackageHasDependentsError struct {
	Package    *core.Package
	Dependents []*core.Package
}

func (e *PackageHasDependentsError) Error() string {
	verb := "depends"
	if len(e.Dependents) > 1 {
		verb = "depend"
	}
	return fmt.Sprintf("unable to uninstall '%s' because '%s' %s on it", e.Package, joinPackages(e.Dependents, ", "), verb)
}

// Is matches ErrPackageHasDependents.
func (e *PackageHasDependentsError) Is(target error) bool {
	return target == ErrPackageHasDependents
}

func joinPackages(pkgs []*core.Package, sep string) string {
	names := make([]string, len(pkgs))
	for i, p := range pkgs {
		names[i] = p.String()
	}
	return strings.Join(names, sep)
}
