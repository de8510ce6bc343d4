package version

import "fmt"

// ToNormalizedString returns the canonical form of the version.
//
// Leading zeros are dropped, missing segments become zero, a zero revision is
// omitted and metadata is stripped. Two versions that compare equal and carry
// the same label casing have the same normalized string.
//
// Examples:
//   - "1.01.1" → "1.1.1"
//   - "1" → "1.0.0"
//   - "1.0.0.0" → "1.0.0"
//   - "2.5.3.1-beta+sha" → "2.5.3.1-beta"
func (v *SemanticVersion) ToNormalizedString() string {
	if v == nil {
		return ""
	}
	return v.format(false)
}

// Normalize parses a version string and returns its normalized form.
func Normalize(s string) (string, error) {
	v, err := Parse(s)
	if err != nil {
		return "", fmt.Errorf("cannot normalize invalid version: %w", err)
	}
	return v.ToNormalizedString(), nil
}

// MustNormalize normalizes a version string, panicking on error.
func MustNormalize(s string) string {
	normalized, err := Normalize(s)
	if err != nil {
		panic(err)
	}
	return normalized
}

// NormalizeOrOriginal attempts to normalize a version string.
// If normalization fails, returns the original string.
func NormalizeOrOriginal(s string) string {
	normalized, err := Normalize(s)
	if err != nil {
		return s
	}
	return normalized
}
