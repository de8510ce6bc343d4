package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/willibrandon/nuplan/core"
)

// CurrentSchemaVersion is the schema version for all JSON outputs
const CurrentSchemaVersion = "1.0.0"

// PlanOutput is the JSON form of an install, uninstall or update plan.
type PlanOutput struct {
	SchemaVersion string            `json:"schemaVersion"`
	RunID         string            `json:"runId"`
	Command       string            `json:"command"`
	Package       PackageOutput     `json:"package"`
	Framework     string            `json:"framework,omitempty"`
	Operations    []OperationOutput `json:"operations"`
	ElapsedMs     int64             `json:"elapsedMs"`
}

// OperationOutput is one planned operation.
type OperationOutput struct {
	Action  string `json:"action"`
	ID      string `json:"id"`
	Version string `json:"version"`
}

// PackageOutput identifies a package.
type PackageOutput struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

// PackageListOutput is the JSON form of the order and dependents commands.
type PackageListOutput struct {
	SchemaVersion string          `json:"schemaVersion"`
	RunID         string          `json:"runId"`
	Command       string          `json:"command"`
	Package       *PackageOutput  `json:"package,omitempty"`
	Framework     string          `json:"framework,omitempty"`
	Packages      []PackageOutput `json:"packages"`
	ElapsedMs     int64           `json:"elapsedMs"`
}

// NewPackageOutput converts a package.
func NewPackageOutput(p *core.Package) PackageOutput {
	return PackageOutput{ID: p.ID, Version: p.Version.String()}
}

// NewPlanOutput creates a PlanOutput for ops planned for pkg.
func NewPlanOutput(runID, command string, pkg *core.Package, framework string, ops []core.PackageOperation, start time.Time) *PlanOutput {
	out := &PlanOutput{
		SchemaVersion: CurrentSchemaVersion,
		RunID:         runID,
		Command:       command,
		Package:       NewPackageOutput(pkg),
		Framework:     framework,
		Operations:    make([]OperationOutput, 0, len(ops)),
		ElapsedMs:     MeasureElapsed(start),
	}
	for _, op := range ops {
		out.Operations = append(out.Operations, OperationOutput{
			Action:  op.Action.String(),
			ID:      op.Package.ID,
			Version: op.Package.Version.String(),
		})
	}
	return out
}

// NewPackageListOutput creates a PackageListOutput. pkg is the subject of
// the listing and may be nil.
func NewPackageListOutput(runID, command string, pkg *core.Package, framework string, pkgs []*core.Package, start time.Time) *PackageListOutput {
	out := &PackageListOutput{
		SchemaVersion: CurrentSchemaVersion,
		RunID:         runID,
		Command:       command,
		Framework:     framework,
		Packages:      make([]PackageOutput, 0, len(pkgs)),
		ElapsedMs:     MeasureElapsed(start),
	}
	if pkg != nil {
		p := NewPackageOutput(pkg)
		out.Package = &p
	}
	for _, p := range pkgs {
		out.Packages = append(out.Packages, NewPackageOutput(p))
	}
	return out
}

// WriteJSON writes v as indented JSON. With --format json all JSON goes to
// stdout and all messages to stderr.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// MeasureElapsed returns elapsed time in milliseconds since start
func MeasureElapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
