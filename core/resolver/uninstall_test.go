package resolver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/willibrandon/nuplan/core"
	"github.com/willibrandon/nuplan/observability"
)

func TestUninstallPlanner_RemoveDependencies(t *testing.T) {
	local := repo("local", pkg("A 1.0", "B 1.0"), pkg("B 1.0"))
	a := local.FindPackagesByID("A")[0]

	tests := []struct {
		name               string
		removeDependencies bool
		want               string
	}{
		{"with dependencies", true, "Uninstall A 1.0, Uninstall B 1.0"},
		{"package only", false, "Uninstall A 1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultUninstallOptions()
			opts.RemoveDependencies = tt.removeDependencies

			ops, err := NewUninstallPlanner(local, nil, opts).ResolveOperations(context.Background(), a)
			if err != nil {
				t.Fatalf("ResolveOperations() error = %v", err)
			}
			assertOps(t, ops, tt.want)
		})
	}
}

func TestUninstallPlanner_HasDependents(t *testing.T) {
	local := repo("local", pkg("A 1.0", "B 1.0"), pkg("B 1.0"))

	_, err := NewUninstallPlanner(local, nil, DefaultUninstallOptions()).
		ResolveOperations(context.Background(), local.FindPackagesByID("B")[0])

	var hasDependents *PackageHasDependentsError
	if !errors.As(err, &hasDependents) {
		t.Fatalf("ResolveOperations() error = %v, want *PackageHasDependentsError", err)
	}
	if !errors.Is(err, ErrPackageHasDependents) {
		t.Error("error should match ErrPackageHasDependents")
	}
	if got := pkgsString(hasDependents.Dependents); got != "A 1.0" {
		t.Errorf("Dependents = %s, want A 1.0", got)
	}
	if want := "unable to uninstall 'B 1.0' because 'A 1.0' depends on it"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestUninstallPlanner_Force(t *testing.T) {
	var buf strings.Builder
	local := repo("local", pkg("A 1.0", "B 1.0"), pkg("B 1.0"))

	opts := DefaultUninstallOptions()
	opts.Force = true
	opts.Logger = observability.NewLogger(&buf, observability.WarnLevel)

	ops, err := NewUninstallPlanner(local, nil, opts).ResolveOperations(context.Background(), local.FindPackagesByID("B")[0])
	if err != nil {
		t.Fatalf("ResolveOperations() error = %v", err)
	}
	assertOps(t, ops, "Uninstall B 1.0")

	if !strings.Contains(buf.String(), "will break") {
		t.Errorf("expected a warning about broken dependents, got:\n%s", buf.String())
	}
}

func TestUninstallPlanner_WarnInsteadOfThrow(t *testing.T) {
	var buf strings.Builder
	local := repo("local", pkg("A 1.0", "B 1.0"), pkg("B 1.0"))

	opts := UninstallOptions{Logger: observability.NewLogger(&buf, observability.WarnLevel)}

	ops, err := NewUninstallPlanner(local, nil, opts).ResolveOperations(context.Background(), local.FindPackagesByID("B")[0])
	if err != nil {
		t.Fatalf("ResolveOperations() error = %v", err)
	}
	assertOps(t, ops, "Uninstall B 1.0")

	if !strings.Contains(buf.String(), "although") {
		t.Errorf("expected a warning about dependents, got:\n%s", buf.String())
	}
}

func TestUninstallPlanner_SharedDependency(t *testing.T) {
	local := repo("local", pkg("A 1.0", "C 1.0"), pkg("B 1.0", "C 1.0"), pkg("C 1.0"))
	a := local.FindPackagesByID("A")[0]

	t.Run("skipped", func(t *testing.T) {
		var buf strings.Builder
		opts := DefaultUninstallOptions()
		opts.RemoveDependencies = true
		opts.Logger = observability.NewLogger(&buf, observability.WarnLevel)

		ops, err := NewUninstallPlanner(local, nil, opts).ResolveOperations(context.Background(), a)
		if err != nil {
			t.Fatalf("ResolveOperations() error = %v", err)
		}
		assertOps(t, ops, "Uninstall A 1.0")

		if !strings.Contains(buf.String(), "Skipped uninstalling") {
			t.Errorf("expected a skipped warning, got:\n%s", buf.String())
		}
	})

	t.Run("forced", func(t *testing.T) {
		opts := DefaultUninstallOptions()
		opts.RemoveDependencies = true
		opts.Force = true

		ops, err := NewUninstallPlanner(local, nil, opts).ResolveOperations(context.Background(), a)
		if err != nil {
			t.Fatalf("ResolveOperations() error = %v", err)
		}
		assertOps(t, ops, "Uninstall A 1.0, Uninstall C 1.0")
	})
}

func TestUninstallPlanner_ConnectedDependents(t *testing.T) {
	local := repo("local", pkg("A 1.0", "B 1.0", "C 1.0"), pkg("B 1.0"), pkg("C 1.0", "B 1.0"))

	opts := DefaultUninstallOptions()
	opts.RemoveDependencies = true

	ops, err := NewUninstallPlanner(local, nil, opts).ResolveOperations(context.Background(), local.FindPackagesByID("A")[0])
	if err != nil {
		t.Fatalf("ResolveOperations() error = %v", err)
	}
	assertOps(t, ops, "Uninstall A 1.0, Uninstall C 1.0, Uninstall B 1.0")
}

func TestUninstallPlanner_Cycle(t *testing.T) {
	local := repo("local", pkg("A 1.0", "B 1.0"), pkg("B 1.0", "A 1.0"))

	opts := DefaultUninstallOptions()
	opts.RemoveDependencies = true

	_, err := NewUninstallPlanner(local, nil, opts).ResolveOperations(context.Background(), local.FindPackagesByID("A")[0])
	if !errors.Is(err, ErrCircularDependency) {
		t.Fatalf("ResolveOperations() error = %v, want ErrCircularDependency", err)
	}
}

func TestUninstallPlanner_MixedTargets(t *testing.T) {
	tests := []struct {
		name  string
		local *core.MemoryRepository
		root  string
		want  string
	}{
		{
			name: "dependency-only package over project and tool packages",
			local: repo("local",
				pkg("M 1.0", "P 1.0", "T 1.0"),
				withFiles(pkg("P 1.0"), "lib/net45/P.dll"),
				withFiles(pkg("T 1.0"), "tools/install.ps1")),
			root: "M",
			want: "Uninstall M 1.0, Uninstall T 1.0, Uninstall P 1.0",
		},
		{
			name: "tool package over a project package",
			local: repo("local",
				withFiles(pkg("T 1.0", "P 1.0"), "tools/install.ps1"),
				withFiles(pkg("P 1.0"), "lib/net45/P.dll")),
			root: "T",
			want: "Uninstall T 1.0, Uninstall P 1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultUninstallOptions()
			opts.RemoveDependencies = true

			ops, err := NewUninstallPlanner(tt.local, nil, opts).
				ResolveOperations(context.Background(), tt.local.FindPackagesByID(tt.root)[0])
			if err != nil {
				t.Fatalf("ResolveOperations() error = %v", err)
			}
			assertOps(t, ops, tt.want)
		})
	}
}

func TestUninstallPlanner_MissingDependency(t *testing.T) {
	var buf strings.Builder
	local := repo("local", pkg("A 1.0", "B 1.0", "C 1.0"), pkg("C 1.0"))

	opts := DefaultUninstallOptions()
	opts.RemoveDependencies = true
	opts.Logger = observability.NewLogger(&buf, observability.WarnLevel)

	ops, err := NewUninstallPlanner(local, nil, opts).ResolveOperations(context.Background(), local.FindPackagesByID("A")[0])
	if err != nil {
		t.Fatalf("ResolveOperations() error = %v", err)
	}
	assertOps(t, ops, "Uninstall A 1.0, Uninstall C 1.0")

	if !strings.Contains(buf.String(), "Unable to locate dependency") {
		t.Errorf("expected a warning about the missing dependency, got:\n%s", buf.String())
	}
}

func TestUninstallPlanner_SharedIndex(t *testing.T) {
	local := repo("local", pkg("A 1.0", "B 1.0"), pkg("B 1.0"), pkg("C 1.0"))
	index := NewDependentsIndex(local, nil)
	planner := NewUninstallPlanner(local, index, DefaultUninstallOptions())

	if _, err := planner.ResolveOperations(context.Background(), local.FindPackagesByID("B")[0]); !errors.Is(err, ErrPackageHasDependents) {
		t.Fatalf("ResolveOperations(B) error = %v, want ErrPackageHasDependents", err)
	}

	ops, err := planner.ResolveOperations(context.Background(), local.FindPackagesByID("C")[0])
	if err != nil {
		t.Fatalf("ResolveOperations(C) error = %v", err)
	}
	assertOps(t, ops, "Uninstall C 1.0")
}
