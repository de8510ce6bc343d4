package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/nuplan/version"
)

func pkg(id, ver string, deps ...PackageDependency) *Package {
	p := &Package{ID: id, Version: version.MustParse(ver)}
	if len(deps) > 0 {
		p.DependencySets = []PackageDependencySet{{Dependencies: deps}}
	}
	return p
}

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository("local",
		pkg("B", "2.0"),
		pkg("A", "1.0"),
		pkg("b", "1.0"),
	)

	assert.Equal(t, "local", repo.Name())

	byID := repo.FindPackagesByID("B")
	require.Len(t, byID, 2)
	assert.Equal(t, "1.0", byID[0].Version.String())
	assert.Equal(t, "2.0", byID[1].Version.String())

	found := repo.FindPackage("a", version.MustParse("1.0.0.0"))
	require.NotNil(t, found)
	assert.Equal(t, "A", found.ID)
	assert.Nil(t, repo.FindPackage("A", version.MustParse("2.0")))

	assert.True(t, repo.Exists(pkg("A", "1.0.0")))
	assert.False(t, repo.Exists(pkg("C", "1.0")))

	var all []string
	for _, p := range repo.GetPackages() {
		all = append(all, p.String())
	}
	assert.Equal(t, []string{"A 1.0", "b 1.0", "B 2.0"}, all)

	assert.True(t, repo.RemovePackage(pkg("B", "2.0")))
	assert.False(t, repo.RemovePackage(pkg("B", "2.0")))
	assert.Len(t, repo.FindPackagesByID("B"), 1)

	assert.Error(t, repo.AddPackage(&Package{ID: "X"}))
}

func TestMemoryRepository_AddReplaces(t *testing.T) {
	repo := NewMemoryRepository("local", pkg("A", "1.0"))
	replacement := pkg("A", "1.0.0", PackageDependency{ID: "B"})
	require.NoError(t, repo.AddPackage(replacement))

	found := repo.FindPackagesByID("A")
	require.Len(t, found, 1)
	assert.Same(t, replacement, found[0])
}

func TestFindPackageByID(t *testing.T) {
	repo := NewMemoryRepository("local", pkg("A", "1.0"), pkg("A", "3.0"), pkg("A", "2.0"))
	assert.Equal(t, "3.0", FindPackageByID(repo, "a").Version.String())
	assert.Nil(t, FindPackageByID(repo, "missing"))
}

func TestFindLatestPackage(t *testing.T) {
	unlisted := pkg("A", "4.0")
	unlisted.Unlisted = true
	repo := NewMemoryRepository("source", pkg("A", "1.0"), pkg("A", "2.0"), pkg("A", "3.0-beta"), unlisted)

	assert.Equal(t, "2.0", FindLatestPackage(repo, "A", false).Version.String())
	assert.Equal(t, "3.0-beta", FindLatestPackage(repo, "A", true).Version.String())

	onlyUnlisted := NewMemoryRepository("source", unlisted)
	assert.Equal(t, "4.0", FindLatestPackage(onlyUnlisted, "A", false).Version.String())
}
