package resolver

import (
	"testing"

	"github.com/willibrandon/nuplan/core"
	"github.com/willibrandon/nuplan/frameworks"
	"github.com/willibrandon/nuplan/version"
)

func TestDependentsIndex(t *testing.T) {
	local := repo("local", pkg("A 1.0", "B 1.0"), pkg("C 1.0", "B 1.0"), pkg("B 1.0"), pkg("D 1.0"))
	index := NewDependentsIndex(local, nil)

	tests := []struct {
		id   string
		want string
	}{
		{"B", "A 1.0, C 1.0"},
		{"A", ""},
		{"D", ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := pkgsString(index.GetDependents(local.FindPackagesByID(tt.id)[0]))
			if got != tt.want {
				t.Errorf("GetDependents(%s) = [%s], want [%s]", tt.id, got, tt.want)
			}
		})
	}
}

func TestDependentsIndex_TargetFramework(t *testing.T) {
	a := &core.Package{
		ID:      "A",
		Version: version.MustParse("1.0"),
		DependencySets: []core.PackageDependencySet{
			{TargetFramework: "net472", Dependencies: []core.PackageDependency{{ID: "B"}}},
			{TargetFramework: "net8.0"},
		},
	}
	local := repo("local", a, pkg("B 1.0"))
	b := local.FindPackagesByID("B")[0]

	if got := pkgsString(NewDependentsIndex(local, nil).GetDependents(b)); got != "A 1.0" {
		t.Errorf("without framework: GetDependents(B) = [%s], want [A 1.0]", got)
	}
	if got := pkgsString(NewDependentsIndex(local, frameworks.MustParseFramework("net8.0")).GetDependents(b)); got != "" {
		t.Errorf("net8.0: GetDependents(B) = [%s], want []", got)
	}
}

func TestDependentsIndex_UnresolvedAndCycles(t *testing.T) {
	local := repo("local", pkg("A 1.0", "B 1.0", "Missing 1.0"), pkg("B 1.0", "A 1.0"))
	index := NewDependentsIndex(local, nil)

	if got := pkgsString(index.GetDependents(local.FindPackagesByID("A")[0])); got != "B 1.0" {
		t.Errorf("GetDependents(A) = [%s], want [B 1.0]", got)
	}
	if got := pkgsString(index.GetDependents(local.FindPackagesByID("B")[0])); got != "A 1.0" {
		t.Errorf("GetDependents(B) = [%s], want [A 1.0]", got)
	}
}
