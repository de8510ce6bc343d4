// Package frameworks parses target framework names and decides which
// framework-specific dependency set applies to a target.
//
// Example:
//
//	fw, err := frameworks.ParseFramework("net8.0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(fw.Identifier, fw.Version) // .NETCoreApp 8.0
package frameworks

import (
	"fmt"
	"strconv"
	"strings"
)

// Framework identifiers.
const (
	NetFramework = ".NETFramework"
	NetCoreApp   = ".NETCoreApp"
	NetStandard  = ".NETStandard"
)

// Framework represents a target framework.
type Framework struct {
	// Identifier is the framework family (e.g., ".NETFramework", ".NETStandard")
	Identifier string

	// Version is the framework version
	Version FrameworkVersion

	// Platform is the optional platform suffix (e.g., "windows")
	Platform string

	originalString string
}

// FrameworkVersion represents a framework version number.
type FrameworkVersion struct {
	Major    int
	Minor    int
	Build    int
	Revision int
}

// String trims trailing zero components: 4.7.2.0 → "4.7.2", 6.0.0.0 → "6.0".
func (v FrameworkVersion) String() string {
	if v.Revision > 0 {
		return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
	}
	if v.Build > 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1, 0 or 1.
func (v FrameworkVersion) Compare(other FrameworkVersion) int {
	a := [4]int{v.Major, v.Minor, v.Build, v.Revision}
	b := [4]int{other.Major, other.Minor, other.Build, other.Revision}
	for i := range a {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// String returns the name the framework was parsed from.
func (f *Framework) String() string {
	if f.originalString != "" {
		return f.originalString
	}
	return f.Identifier + ",Version=v" + f.Version.String()
}

// Equals compares identifier, version and platform case-insensitively.
func (f *Framework) Equals(other *Framework) bool {
	if f == nil || other == nil {
		return f == other
	}
	return strings.EqualFold(f.Identifier, other.Identifier) &&
		f.Version.Compare(other.Version) == 0 &&
		strings.EqualFold(f.Platform, other.Platform)
}

// ParseFramework parses a short folder name ("net45", "net8.0",
// "netstandard2.0", "netcoreapp3.1", "net8.0-windows") or a long name
// (".NETFramework,Version=v4.5").
func ParseFramework(s string) (*Framework, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("framework name cannot be empty")
	}

	if strings.Contains(s, ",") {
		return parseLongName(s)
	}

	name, platform, _ := strings.Cut(strings.ToLower(s), "-")

	identifier, versionPart := splitIdentifier(name)
	if identifier == "" {
		return nil, fmt.Errorf("invalid framework name: %q", s)
	}

	fw := &Framework{
		Platform:       platform,
		originalString: s,
	}

	var err error
	switch identifier {
	case "net":
		fw.Version, err = parseShortVersion(versionPart)
		// net5.0 and later are .NETCoreApp
		if fw.Version.Major >= 5 {
			fw.Identifier = NetCoreApp
		} else {
			fw.Identifier = NetFramework
		}
	case "netcoreapp":
		fw.Identifier = NetCoreApp
		fw.Version, err = parseShortVersion(versionPart)
	case "netstandard":
		fw.Identifier = NetStandard
		fw.Version, err = parseShortVersion(versionPart)
	default:
		fw.Identifier = identifier
		fw.Version, err = parseShortVersion(versionPart)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid framework name %q: %w", s, err)
	}

	return fw, nil
}

// MustParseFramework parses a framework name and panics on error.
func MustParseFramework(s string) *Framework {
	fw, err := ParseFramework(s)
	if err != nil {
		panic(err)
	}
	return fw
}

func parseLongName(s string) (*Framework, error) {
	identifier, rest, _ := strings.Cut(s, ",")
	identifier = strings.TrimSpace(identifier)

	for _, part := range strings.Split(rest, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || !strings.EqualFold(key, "Version") {
			continue
		}
		value = strings.TrimPrefix(strings.TrimPrefix(value, "v"), "V")
		v, err := parseDottedVersion(value)
		if err != nil {
			return nil, fmt.Errorf("invalid framework name %q: %w", s, err)
		}
		return &Framework{Identifier: canonicalIdentifier(identifier), Version: v, originalString: s}, nil
	}

	return nil, fmt.Errorf("invalid framework name %q: missing version", s)
}

func canonicalIdentifier(id string) string {
	for _, known := range []string{NetFramework, NetCoreApp, NetStandard} {
		if strings.EqualFold(id, known) {
			return known
		}
	}
	return id
}

func splitIdentifier(name string) (string, string) {
	i := strings.IndexFunc(name, func(r rune) bool { return r >= '0' && r <= '9' })
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i:]
}

// parseShortVersion accepts "45" (one digit per segment) and "4.5" forms.
func parseShortVersion(s string) (FrameworkVersion, error) {
	if s == "" {
		return FrameworkVersion{}, nil
	}
	if strings.Contains(s, ".") {
		return parseDottedVersion(s)
	}

	var v FrameworkVersion
	segments := []*int{&v.Major, &v.Minor, &v.Build, &v.Revision}
	if len(s) > len(segments) {
		return v, fmt.Errorf("version %q has too many digits", s)
	}
	for i, r := range s {
		if r < '0' || r > '9' {
			return v, fmt.Errorf("invalid version %q", s)
		}
		*segments[i] = int(r - '0')
	}
	return v, nil
}

func parseDottedVersion(s string) (FrameworkVersion, error) {
	var v FrameworkVersion
	parts := strings.Split(s, ".")
	if len(parts) > 4 {
		return v, fmt.Errorf("invalid version %q", s)
	}
	segments := []*int{&v.Major, &v.Minor, &v.Build, &v.Revision}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return v, fmt.Errorf("invalid version %q", s)
		}
		*segments[i] = n
	}
	return v, nil
}
