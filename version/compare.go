package version

import (
	"strconv"
	"strings"
)

// Compare compares v to other and returns -1, 0 or 1.
//
// Release segments are compared numerically. For equal segments a release
// version sorts above any pre-release of the same numbers. Pre-release labels
// are compared label by label: numeric labels numerically, numeric labels
// below alphanumeric ones, alphanumeric labels case-insensitively, and a label
// list that is a prefix of another sorts first. Metadata is ignored.
func (v *SemanticVersion) Compare(other *SemanticVersion) int {
	switch {
	case v == nil && other == nil:
		return 0
	case v == nil:
		return -1
	case other == nil:
		return 1
	}

	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, other.Patch); c != 0 {
		return c
	}
	if c := compareInt(v.Revision, other.Revision); c != 0 {
		return c
	}

	vPre, oPre := v.IsPrerelease(), other.IsPrerelease()
	switch {
	case !vPre && !oPre:
		return 0
	case !vPre:
		return 1
	case !oPre:
		return -1
	}

	return compareReleaseLabels(v.ReleaseLabels, other.ReleaseLabels)
}

// Equals reports whether both versions compare equal.
func (v *SemanticVersion) Equals(other *SemanticVersion) bool {
	return v.Compare(other) == 0
}

// LessThan reports whether v sorts before other.
func (v *SemanticVersion) LessThan(other *SemanticVersion) bool {
	return v.Compare(other) < 0
}

// GreaterThan reports whether v sorts after other.
func (v *SemanticVersion) GreaterThan(other *SemanticVersion) bool {
	return v.Compare(other) > 0
}

func compareReleaseLabels(a, b []string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if c := compareLabel(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareInt(len(a), len(b))
}

func compareLabel(a, b string) int {
	aNum, aErr := strconv.Atoi(a)
	bNum, bErr := strconv.Atoi(b)

	switch {
	case aErr == nil && bErr == nil:
		return compareInt(aNum, bNum)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}

	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
