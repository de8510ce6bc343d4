// Package version provides semantic version parsing, comparison, and
// version-range predicates for package dependencies.
//
// Versions have up to four numeric release segments and an optional
// pre-release label:
//
//	v, err := version.Parse("1.2.3-beta.1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(v.Major, v.Minor, v.Patch) // 1 2 3
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// SemanticVersion represents a package version.
//
// It supports both SemVer format (Major.Minor.Patch[-Prerelease][+Metadata])
// and legacy 4-part versions (Major.Minor.Build.Revision).
type SemanticVersion struct {
	// Major version number
	Major int

	// Minor version number
	Minor int

	// Patch version number (or Build for legacy versions)
	Patch int

	// Revision is only used for legacy 4-part versions
	Revision int

	// IsLegacyVersion indicates this is a 4-part version
	IsLegacyVersion bool

	// ReleaseLabels contains prerelease labels (e.g., ["beta", "1"] for "1.0.0-beta.1")
	ReleaseLabels []string

	// Metadata is the build metadata (e.g., "20241019" for "1.0.0+20241019").
	// Metadata never takes part in comparison.
	Metadata string

	originalString string
}

// String returns the string the version was parsed from, or a formatted
// representation for versions built in code.
func (v *SemanticVersion) String() string {
	if v == nil {
		return ""
	}
	if v.originalString != "" {
		return v.originalString
	}
	return v.format(true)
}

// IsPrerelease reports whether the version carries a pre-release label.
func (v *SemanticVersion) IsPrerelease() bool {
	return len(v.ReleaseLabels) > 0
}

// Release returns the pre-release label joined with dots, or "" for a release.
func (v *SemanticVersion) Release() string {
	return strings.Join(v.ReleaseLabels, ".")
}

func (v *SemanticVersion) format(withMetadata bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.IsLegacyVersion && v.Revision > 0 {
		fmt.Fprintf(&sb, ".%d", v.Revision)
	}

	if len(v.ReleaseLabels) > 0 {
		sb.WriteByte('-')
		sb.WriteString(v.Release())
	}

	if withMetadata && v.Metadata != "" {
		sb.WriteByte('+')
		sb.WriteString(v.Metadata)
	}

	return sb.String()
}

// Parse parses a version string into a SemanticVersion.
//
// Supported formats:
//   - Major[.Minor[.Patch]][-Prerelease][+Metadata]
//   - Legacy: Major.Minor.Build.Revision[-Prerelease]
//
// Missing segments are zero, so "1", "1.0", "1.0.0" and "1.0.0.0" compare equal.
func Parse(s string) (*SemanticVersion, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("version string cannot be empty")
	}

	v := &SemanticVersion{
		originalString: s,
	}

	versionPart, metadata, hasMetadata := strings.Cut(s, "+")
	if hasMetadata {
		if metadata == "" {
			return nil, fmt.Errorf("invalid version format: %q", s)
		}
		v.Metadata = metadata
	}

	numberPart, release, hasRelease := strings.Cut(versionPart, "-")
	if hasRelease {
		labels, err := parseReleaseLabels(release)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q: %w", s, err)
		}
		v.ReleaseLabels = labels
	}

	numbers := strings.Split(numberPart, ".")
	if len(numbers) > 4 {
		return nil, fmt.Errorf("invalid version format: %q", s)
	}

	segments := [4]int{}
	for i, n := range numbers {
		value, err := strconv.Atoi(n)
		if err != nil || value < 0 || strings.HasPrefix(n, "+") {
			return nil, fmt.Errorf("invalid version segment %q in %q", n, s)
		}
		segments[i] = value
	}

	v.Major, v.Minor, v.Patch, v.Revision = segments[0], segments[1], segments[2], segments[3]
	v.IsLegacyVersion = len(numbers) == 4

	return v, nil
}

// MustParse parses a version string and panics on error.
// Use this only when you know the version string is valid.
func MustParse(s string) *SemanticVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func parseReleaseLabels(s string) ([]string, error) {
	if s == "" {
		return nil, fmt.Errorf("empty pre-release label")
	}
	labels := strings.Split(s, ".")
	for _, label := range labels {
		if label == "" {
			return nil, fmt.Errorf("empty pre-release label")
		}
		for _, r := range label {
			if !isLabelRune(r) {
				return nil, fmt.Errorf("invalid character %q in pre-release label", r)
			}
		}
	}
	return labels, nil
}

func isLabelRune(r rune) bool {
	return r == '-' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
