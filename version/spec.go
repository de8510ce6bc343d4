package version

import (
	"fmt"
	"strings"
)

// VersionSpec represents a range of acceptable versions.
//
// Syntax:
//
//	1.0          - x ≥ 1.0 (implicit minimum)
//	[1.0]        - x == 1.0 (exact)
//	[1.0, 2.0]   - 1.0 ≤ x ≤ 2.0 (inclusive)
//	(1.0, 2.0)   - 1.0 < x < 2.0 (exclusive)
//	[1.0, 2.0)   - 1.0 ≤ x < 2.0 (mixed)
//	[1.0, )      - x ≥ 1.0 (open upper)
//	(, 2.0]      - x ≤ 2.0 (open lower)
//
// A nil *VersionSpec accepts every version.
type VersionSpec struct {
	MinVersion   *SemanticVersion
	MaxVersion   *SemanticVersion
	MinInclusive bool
	MaxInclusive bool
}

// NewExactSpec returns a spec matching only v.
func NewExactSpec(v *SemanticVersion) *VersionSpec {
	return &VersionSpec{
		MinVersion:   v,
		MaxVersion:   v,
		MinInclusive: true,
		MaxInclusive: true,
	}
}

// NewMinSpec returns a spec matching v and everything above it.
func NewMinSpec(v *SemanticVersion) *VersionSpec {
	return &VersionSpec{
		MinVersion:   v,
		MinInclusive: true,
	}
}

// ParseVersionSpec parses a version spec string.
func ParseVersionSpec(s string) (*VersionSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("version spec cannot be empty")
	}

	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "(") {
		return parseRangeSyntax(s)
	}

	// A bare version means "at least this version"
	v, err := Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid version spec: %w", err)
	}

	return NewMinSpec(v), nil
}

// MustParseSpec parses a version spec string and panics on error.
// Use this only when you know the spec string is valid.
func MustParseSpec(s string) *VersionSpec {
	spec, err := ParseVersionSpec(s)
	if err != nil {
		panic(err)
	}
	return spec
}

// parseRangeSyntax parses bracket range syntax like [1.0, 2.0).
func parseRangeSyntax(s string) (*VersionSpec, error) {
	if len(s) < 3 {
		return nil, fmt.Errorf("invalid version spec: %q", s)
	}
	if !strings.HasSuffix(s, "]") && !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("range must end with ] or )")
	}

	minInclusive := strings.HasPrefix(s, "[")
	maxInclusive := strings.HasSuffix(s, "]")

	inner := s[1 : len(s)-1]
	parts := strings.Split(inner, ",")

	var minPart, maxPart string
	switch len(parts) {
	case 1:
		// [1.0] is the only legal single-part form
		if !minInclusive || !maxInclusive {
			return nil, fmt.Errorf("exact version spec must use square brackets: %q", s)
		}
		minPart = strings.TrimSpace(parts[0])
		maxPart = minPart
		if minPart == "" {
			return nil, fmt.Errorf("exact version spec requires a version: %q", s)
		}
	case 2:
		minPart = strings.TrimSpace(parts[0])
		maxPart = strings.TrimSpace(parts[1])
		if minPart == "" && maxPart == "" {
			return nil, fmt.Errorf("range requires at least one bound: %q", s)
		}
	default:
		return nil, fmt.Errorf("range must have one or two parts separated by comma")
	}

	spec := &VersionSpec{
		MinInclusive: minInclusive,
		MaxInclusive: maxInclusive,
	}

	var err error
	if minPart != "" {
		spec.MinVersion, err = Parse(minPart)
		if err != nil {
			return nil, fmt.Errorf("invalid min version: %w", err)
		}
	}
	if maxPart != "" {
		spec.MaxVersion, err = Parse(maxPart)
		if err != nil {
			return nil, fmt.Errorf("invalid max version: %w", err)
		}
	}

	if spec.MinVersion != nil && spec.MaxVersion != nil {
		c := spec.MinVersion.Compare(spec.MaxVersion)
		if c > 0 || (c == 0 && !(minInclusive && maxInclusive)) {
			return nil, fmt.Errorf("range %q matches no version", s)
		}
	}

	return spec, nil
}

// IsExact reports whether the spec matches a single version.
func (s *VersionSpec) IsExact() bool {
	return s != nil && s.MinVersion != nil && s.MaxVersion != nil &&
		s.MinInclusive && s.MaxInclusive && s.MinVersion.Equals(s.MaxVersion)
}

// Satisfies returns true if the version satisfies this spec.
func (s *VersionSpec) Satisfies(v *SemanticVersion) bool {
	if v == nil {
		return false
	}
	if s == nil {
		return true
	}

	if s.MinVersion != nil {
		c := v.Compare(s.MinVersion)
		if c < 0 || (c == 0 && !s.MinInclusive) {
			return false
		}
	}

	if s.MaxVersion != nil {
		c := v.Compare(s.MaxVersion)
		if c > 0 || (c == 0 && !s.MaxInclusive) {
			return false
		}
	}

	return true
}

// String returns the spec in bracket syntax.
func (s *VersionSpec) String() string {
	if s == nil {
		return ""
	}
	if s.IsExact() {
		return "[" + s.MinVersion.String() + "]"
	}
	if s.MinVersion != nil && s.MinInclusive && s.MaxVersion == nil {
		return s.MinVersion.String()
	}

	minBracket := "("
	if s.MinInclusive {
		minBracket = "["
	}
	maxBracket := ")"
	if s.MaxInclusive {
		maxBracket = "]"
	}

	return fmt.Sprintf("%s%s, %s%s", minBracket, s.MinVersion.String(), s.MaxVersion.String(), maxBracket)
}

// PrettyPrint renders the spec for humans, e.g. "(>= 1.0 && < 2.0)".
func (s *VersionSpec) PrettyPrint() string {
	if s == nil || (s.MinVersion == nil && s.MaxVersion == nil) {
		return ""
	}
	if s.IsExact() {
		return "(= " + s.MinVersion.String() + ")"
	}

	var parts []string
	if s.MinVersion != nil {
		op := ">"
		if s.MinInclusive {
			op = ">="
		}
		parts = append(parts, op+" "+s.MinVersion.String())
	}
	if s.MaxVersion != nil {
		op := "<"
		if s.MaxInclusive {
			op = "<="
		}
		parts = append(parts, op+" "+s.MaxVersion.String())
	}

	return "(" + strings.Join(parts, " && ") + ")"
}
