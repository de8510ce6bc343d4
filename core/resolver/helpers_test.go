package resolver

import (
	"strings"
	"testing"

	"github.com/willibrandon/nuplan/core"
	"github.com/willibrandon/nuplan/version"
)

// pkg builds a package from "Id Version" and dependencies written as
// "Id" or "Id Spec".
func pkg(identity string, deps ...string) *core.Package {
	id, ver, _ := strings.Cut(identity, " ")
	p := &core.Package{ID: id, Version: version.MustParse(ver)}
	if len(deps) > 0 {
		set := core.PackageDependencySet{}
		for _, d := range deps {
			depID, spec, _ := strings.Cut(d, " ")
			dep := core.PackageDependency{ID: depID}
			if spec != "" {
				dep.VersionSpec = version.MustParseSpec(spec)
			}
			set.Dependencies = append(set.Dependencies, dep)
		}
		p.DependencySets = []core.PackageDependencySet{set}
	}
	return p
}

// withFiles sets p's file manifest.
func withFiles(p *core.Package, files ...string) *core.Package {
	p.Files = files
	return p
}

func repo(name string, pkgs ...*core.Package) *core.MemoryRepository {
	return core.NewMemoryRepository(name, pkgs...)
}

func opsString(ops []core.PackageOperation) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, ", ")
}

func pkgsString(pkgs []*core.Package) string {
	parts := make([]string, len(pkgs))
	for i, p := range pkgs {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

func assertOps(t *testing.T, got []core.PackageOperation, want string) {
	t.Helper()
	if s := opsString(got); s != want {
		t.Errorf("operations = [%s], want [%s]", s, want)
	}
}
