package manifest

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// nuspec is the part of a .nuspec document that affects planning.
type nuspec struct {
	XMLName  xml.Name       `xml:"package"`
	Metadata nuspecMetadata `xml:"metadata"`
	Files    []nuspecFile   `xml:"files>file"`
}

type nuspecMetadata struct {
	ID               string `xml:"id"`
	Version          string `xml:"version"`
	MinClientVersion string `xml:"minClientVersion,attr"`

	Dependencies        *nuspecDependencies       `xml:"dependencies"`
	FrameworkAssemblies []nuspecFrameworkAssembly `xml:"frameworkAssemblies>frameworkAssembly"`
}

// nuspecDependencies holds either framework groups or, in older documents,
// ungrouped dependencies that apply to every framework.
type nuspecDependencies struct {
	Groups       []nuspecDependencyGroup `xml:"group"`
	Dependencies []nuspecDependency      `xml:"dependency"`
}

type nuspecDependencyGroup struct {
	TargetFramework string             `xml:"targetFramework,attr"`
	Dependencies    []nuspecDependency `xml:"dependency"`
}

type nuspecDependency struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`
}

type nuspecFrameworkAssembly struct {
	AssemblyName string `xml:"assemblyName,attr"`
}

type nuspecFile struct {
	Source string `xml:"src,attr"`
	Target string `xml:"target,attr"`
}

// ParseNuspec reads a .nuspec document into a package description. Files
// are taken from the <files> section, by target path when one is given.
func ParseNuspec(r io.Reader) (Package, error) {
	var n nuspec
	if err := xml.NewDecoder(r).Decode(&n); err != nil {
		return Package{}, fmt.Errorf("parse nuspec: %w", err)
	}

	p := Package{
		ID:               n.Metadata.ID,
		Version:          n.Metadata.Version,
		MinClientVersion: n.Metadata.MinClientVersion,
	}

	if deps := n.Metadata.Dependencies; deps != nil {
		if len(deps.Dependencies) > 0 {
			p.DependencySets = append(p.DependencySets, DependencySet{Dependencies: convertNuspecDependencies(deps.Dependencies)})
		}
		for _, g := range deps.Groups {
			p.DependencySets = append(p.DependencySets, DependencySet{
				TargetFramework: g.TargetFramework,
				Dependencies:    convertNuspecDependencies(g.Dependencies),
			})
		}
	}

	for _, fa := range n.Metadata.FrameworkAssemblies {
		p.FrameworkAssemblies = append(p.FrameworkAssemblies, fa.AssemblyName)
	}

	for _, f := range n.Files {
		if f.Target != "" {
			p.Files = append(p.Files, f.Target)
		} else {
			p.Files = append(p.Files, f.Source)
		}
	}

	return p, nil
}

func convertNuspecDependencies(deps []nuspecDependency) []Dependency {
	out := make([]Dependency, len(deps))
	for i, d := range deps {
		out[i] = Dependency{ID: d.ID, Version: d.Version}
	}
	return out
}

// loadNuspec reads the .nuspec file at path.
func loadNuspec(path string) (Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return Package{}, fmt.Errorf("failed to open nuspec: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseNuspec(f)
}

// merge fills the fields p leaves empty from the nuspec description n.
func (p Package) merge(n Package) Package {
	if p.ID == "" {
		p.ID = n.ID
	}
	if p.Version == "" {
		p.Version = n.Version
	}
	if p.MinClientVersion == "" {
		p.MinClientVersion = n.MinClientVersion
	}
	if len(p.Dependencies) == 0 && len(p.DependencySets) == 0 {
		p.DependencySets = n.DependencySets
	}
	if len(p.Files) == 0 {
		p.Files = n.Files
	}
	if len(p.FrameworkAssemblies) == 0 {
		p.FrameworkAssemblies = n.FrameworkAssemblies
	}
	return p
}
