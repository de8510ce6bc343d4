package frameworks

import "strings"

// netStandardSupport maps a .NET Standard version to the lowest runtime
// versions implementing it.
var netStandardSupport = []struct {
	standard  FrameworkVersion
	coreApp   FrameworkVersion
	framework *FrameworkVersion
}{
	{FrameworkVersion{Major: 1, Minor: 6}, FrameworkVersion{Major: 1}, &FrameworkVersion{Major: 4, Minor: 6, Build: 1}},
	{FrameworkVersion{Major: 2}, FrameworkVersion{Major: 2}, &FrameworkVersion{Major: 4, Minor: 6, Build: 1}},
	{FrameworkVersion{Major: 2, Minor: 1}, FrameworkVersion{Major: 3}, nil},
}

// IsCompatible reports whether a package built for f can be used by a
// project targeting target.
func (f *Framework) IsCompatible(target *Framework) bool {
	if f == nil || target == nil {
		return false
	}

	if f.Platform != "" && !strings.EqualFold(f.Platform, target.Platform) {
		return false
	}

	if f.Identifier == target.Identifier {
		return f.Version.Compare(target.Version) <= 0
	}

	if f.Identifier != NetStandard {
		return false
	}

	for _, s := range netStandardSupport {
		if f.Version.Compare(s.standard) > 0 {
			continue
		}
		switch target.Identifier {
		case NetCoreApp:
			return target.Version.Compare(s.coreApp) >= 0
		case NetFramework:
			return s.framework != nil && target.Version.Compare(*s.framework) >= 0
		}
		return false
	}

	return false
}

// GetNearest returns the candidate best suited to target, or nil when no
// candidate is compatible.
//
// Preference order: same framework family over .NET Standard, a matching
// platform over a platform-neutral build, then the highest version.
func GetNearest(target *Framework, candidates []*Framework) *Framework {
	if target == nil {
		return nil
	}

	var best *Framework
	for _, fw := range candidates {
		if !fw.IsCompatible(target) {
			continue
		}
		if best == nil || better(fw, best, target) {
			best = fw
		}
	}

	return best
}

func better(a, b, target *Framework) bool {
	aSame := a.Identifier == target.Identifier
	bSame := b.Identifier == target.Identifier
	if aSame != bSame {
		return aSame
	}

	aPlatform := a.Platform != ""
	bPlatform := b.Platform != ""
	if aPlatform != bPlatform {
		return aPlatform
	}

	return a.Version.Compare(b.Version) > 0
}
