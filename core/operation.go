package core

import "strings"

// PackageAction is the kind of change an operation applies.
type PackageAction int

const (
	// ActionInstall materializes a package.
	ActionInstall PackageAction = iota
	// ActionUninstall removes a package.
	ActionUninstall
)

func (a PackageAction) String() string {
	switch a {
	case ActionInstall:
		return "Install"
	case ActionUninstall:
		return "Uninstall"
	default:
		return "Unknown"
	}
}

// Opposite returns the action that cancels a.
func (a PackageAction) Opposite() PackageAction {
	if a == ActionInstall {
		return ActionUninstall
	}
	return ActionInstall
}

// PackageOperation is one planned change. Executors apply operations strictly
// in the order a planner returns them.
type PackageOperation struct {
	Package *Package
	Action  PackageAction
}

// NewOperation creates an operation for pkg.
func NewOperation(pkg *Package, action PackageAction) PackageOperation {
	return PackageOperation{Package: pkg, Action: action}
}

// Key returns the package key the operation applies to.
func (o PackageOperation) Key() PackageKey {
	return o.Package.Key()
}

// Equals compares action, id (case-insensitively) and normalized version.
func (o PackageOperation) Equals(other PackageOperation) bool {
	return o.Action == other.Action && o.Key() == other.Key()
}

func (o PackageOperation) String() string {
	var sb strings.Builder
	sb.WriteString(o.Action.String())
	sb.WriteByte(' ')
	sb.WriteString(o.Package.ID)
	sb.WriteByte(' ')
	sb.WriteString(o.Package.Version.String())
	return sb.String()
}
