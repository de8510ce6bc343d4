// Package manifest loads the YAML repository manifest describing the local
// (installed) and source (available) package repositories.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/willibrandon/nuplan/core"
	"github.com/willibrandon/nuplan/version"
)

// Manifest is the content of a repository manifest file.
type Manifest struct {
	Local  []Package `yaml:"local"`
	Source []Package `yaml:"source"`

	// dir resolves relative nuspec paths
	dir string
}

// Package describes one package. Dependencies is shorthand for a single
// untargeted dependency set. When Nuspec names a .nuspec file, the fields
// left empty are read from it.
type Package struct {
	Nuspec              string          `yaml:"nuspec,omitempty"`
	ID                  string          `yaml:"id"`
	Version             string          `yaml:"version"`
	MinClientVersion    string          `yaml:"minClientVersion,omitempty"`
	Listed              *bool           `yaml:"listed,omitempty"`
	Dependencies        []Dependency    `yaml:"dependencies,omitempty"`
	DependencySets      []DependencySet `yaml:"dependencySets,omitempty"`
	Files               []string        `yaml:"files,omitempty"`
	FrameworkAssemblies []string        `yaml:"frameworkAssemblies,omitempty"`
}

// DependencySet groups dependencies for one target framework.
type DependencySet struct {
	TargetFramework string       `yaml:"targetFramework,omitempty"`
	Dependencies    []Dependency `yaml:"dependencies"`
}

// Dependency is a package id with an optional version range.
type Dependency struct {
	ID      string `yaml:"id"`
	Version string `yaml:"version,omitempty"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read repository manifest: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse repository manifest %s: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes a manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Repositories builds the local and source repositories.
func (m *Manifest) Repositories() (local, source *core.MemoryRepository, err error) {
	local, err = m.buildRepository("local", m.Local)
	if err != nil {
		return nil, nil, err
	}
	source, err = m.buildRepository("source", m.Source)
	if err != nil {
		return nil, nil, err
	}
	return local, source, nil
}

func (m *Manifest) buildRepository(name string, pkgs []Package) (*core.MemoryRepository, error) {
	repo := core.NewMemoryRepository(name)
	for i, p := range pkgs {
		if p.Nuspec != "" {
			path := p.Nuspec
			if !filepath.IsAbs(path) {
				path = filepath.Join(m.dir, path)
			}
			n, err := loadNuspec(path)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			p = p.merge(n)
		}

		pkg, err := p.ToPackage()
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
		if repo.Exists(pkg) {
			return nil, fmt.Errorf("%s[%d]: duplicate package '%s'", name, i, pkg)
		}
		if err := repo.AddPackage(pkg); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
	}
	return repo, nil
}

// ToPackage converts the description into a core.Package.
func (p Package) ToPackage() (*core.Package, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("package id is required")
	}

	ver, err := version.Parse(p.Version)
	if err != nil {
		return nil, fmt.Errorf("package '%s': invalid version: %w", p.ID, err)
	}

	pkg := &core.Package{
		ID:                  p.ID,
		Version:             ver,
		Unlisted:            p.Listed != nil && !*p.Listed,
		Files:               p.Files,
		FrameworkAssemblies: p.FrameworkAssemblies,
	}

	if p.MinClientVersion != "" {
		pkg.MinClientVersion, err = version.Parse(p.MinClientVersion)
		if err != nil {
			return nil, fmt.Errorf("package '%s': invalid minClientVersion: %w", p.ID, err)
		}
	}

	sets := p.DependencySets
	if len(p.Dependencies) > 0 {
		sets = append([]DependencySet{{Dependencies: p.Dependencies}}, sets...)
	}
	for _, s := range sets {
		set := core.PackageDependencySet{TargetFramework: s.TargetFramework}
		for _, d := range s.Dependencies {
			dep, err := d.toDependency()
			if err != nil {
				return nil, fmt.Errorf("package '%s': %w", p.ID, err)
			}
			set.Dependencies = append(set.Dependencies, dep)
		}
		pkg.DependencySets = append(pkg.DependencySets, set)
	}

	return pkg, nil
}

func (d Dependency) toDependency() (core.PackageDependency, error) {
	if d.ID == "" {
		return core.PackageDependency{}, fmt.Errorf("dependency id is required")
	}
	dep := core.PackageDependency{ID: d.ID}
	if d.Version != "" {
		spec, err := version.ParseVersionSpec(d.Version)
		if err != nil {
			return core.PackageDependency{}, fmt.Errorf("dependency '%s': invalid version range: %w", d.ID, err)
		}
		dep.VersionSpec = spec
	}
	return dep, nil
}
