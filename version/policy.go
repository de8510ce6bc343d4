package version

import (
	"fmt"
	"strings"
)

// DependencyVersion selects one version among several that satisfy a
// dependency's spec.
type DependencyVersion int

const (
	// DependencyVersionLowest picks the lowest satisfying version.
	DependencyVersionLowest DependencyVersion = iota
	// DependencyVersionHighestPatch picks the highest patch of the lowest major.minor.
	DependencyVersionHighestPatch
	// DependencyVersionHighestMinor picks the highest minor of the lowest major.
	DependencyVersionHighestMinor
	// DependencyVersionHighest picks the highest satisfying version.
	DependencyVersionHighest
)

func (d DependencyVersion) String() string {
	switch d {
	case DependencyVersionLowest:
		return "Lowest"
	case DependencyVersionHighestPatch:
		return "HighestPatch"
	case DependencyVersionHighestMinor:
		return "HighestMinor"
	case DependencyVersionHighest:
		return "Highest"
	default:
		return "Unknown"
	}
}

// ParseDependencyVersion parses a policy name case-insensitively.
func ParseDependencyVersion(s string) (DependencyVersion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lowest":
		return DependencyVersionLowest, nil
	case "highestpatch":
		return DependencyVersionHighestPatch, nil
	case "highestminor":
		return DependencyVersionHighestMinor, nil
	case "highest":
		return DependencyVersionHighest, nil
	default:
		return DependencyVersionLowest, fmt.Errorf("unknown dependency version %q (want lowest, highestpatch, highestminor or highest)", s)
	}
}

// Pick returns the index of the version chosen by the policy, or -1 when
// versions is empty. Ties keep the earliest index.
func (d DependencyVersion) Pick(versions []*SemanticVersion) int {
	if len(versions) == 0 {
		return -1
	}

	lowest := 0
	for i, v := range versions {
		if v.LessThan(versions[lowest]) {
			lowest = i
		}
	}

	if d == DependencyVersionLowest {
		return lowest
	}

	floor := versions[lowest]
	best := -1
	for i, v := range versions {
		switch d {
		case DependencyVersionHighestPatch:
			if v.Major != floor.Major || v.Minor != floor.Minor {
				continue
			}
		case DependencyVersionHighestMinor:
			if v.Major != floor.Major {
				continue
			}
		case DependencyVersionHighest:
		default:
			return lowest
		}
		if best == -1 || v.GreaterThan(versions[best]) {
			best = i
		}
	}

	return best
}
