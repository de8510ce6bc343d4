package core

import "strings"

// PackageTarget classifies what a package is used for.
type PackageTarget int

const (
	// TargetNone marks a dependency-only package with no content of its own.
	TargetNone PackageTarget = 0
	// TargetProject marks packages that add content or references to a project.
	TargetProject PackageTarget = 1
	// TargetExternal marks tool-only packages that live outside any project.
	TargetExternal PackageTarget = 2
	// TargetAll is the union of TargetProject and TargetExternal.
	TargetAll = TargetProject | TargetExternal
)

func (t PackageTarget) String() string {
	switch t {
	case TargetNone:
		return "None"
	case TargetProject:
		return "Project"
	case TargetExternal:
		return "External"
	case TargetAll:
		return "All"
	default:
		return "Unknown"
	}
}

// Has reports whether every bit of other is set in t.
func (t PackageTarget) Has(other PackageTarget) bool {
	return t&other == other
}

// ParsePackageTargets parses a comma-separated list such as "project,external".
// An empty string yields TargetAll.
func ParsePackageTargets(s string) (PackageTarget, error) {
	if strings.TrimSpace(s) == "" {
		return TargetAll, nil
	}

	var t PackageTarget
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "project":
			t |= TargetProject
		case "external":
			t |= TargetExternal
		case "all":
			t |= TargetAll
		case "none", "":
		default:
			return TargetNone, &UnknownTargetError{Value: part}
		}
	}
	return t, nil
}

// UnknownTargetError is returned for an unrecognized target name.
type UnknownTargetError struct {
	Value string
}

func (e *UnknownTargetError) Error() string {
	return "unknown package target " + strings.TrimSpace(e.Value) + " (want project, external or all)"
}
