package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/nuplan/cmd/nuplan/cli"
	"github.com/willibrandon/nuplan/cmd/nuplan/output"
	"github.com/willibrandon/nuplan/core/resolver"
)

const testRepository = `
local:
  - id: App
    version: 1.0.0
    files: [lib/net8.0/App.dll]
    dependencies:
      - id: Logging
        version: "[1.0, 2.0)"
  - id: Logging
    version: 1.0.0
    files: [lib/net8.0/Logging.dll]
  - id: Tool
    version: 1.0.0
    files: [tools/tool.exe]
source:
  - id: App
    version: 1.0.0
    files: [lib/net8.0/App.dll]
    dependencies:
      - id: Logging
        version: "[1.0, 2.0)"
  - id: Json
    version: 1.0.0
    files: [lib/net8.0/Json.dll]
    dependencies:
      - id: Buffers
  - id: Json
    version: 2.0.0-beta
    files: [lib/net8.0/Json.dll]
  - id: Buffers
    version: 4.5.0
    files: [lib/net8.0/Buffers.dll]
  - id: Tool
    version: 1.0.0
    files: [tools/tool.exe]
  - id: Tool
    version: 2.0.0
    files: [tools/tool.exe]
  - id: Logging
    version: 1.5.0
    files: [lib/net8.0/Logging.dll]
`

// setup writes the test repository and an empty settings file, and returns
// a console writing to the returned buffers.
func setup(t *testing.T) (*output.Console, *cli.GlobalOptions, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	repoPath := filepath.Join(dir, "repo.yaml")
	configPath := filepath.Join(dir, "nuplan.yaml")
	require.NoError(t, os.WriteFile(repoPath, []byte(testRepository), 0o644))
	require.NoError(t, os.WriteFile(configPath, nil, 0o644))

	var out, errOut bytes.Buffer
	console := output.NewConsole(&out, &errOut, output.VerbosityNormal)
	console.SetColors(false)

	global := &cli.GlobalOptions{ConfigFile: configPath, Repository: repoPath, Format: "text"}
	return console, global, &out, &errOut
}

func TestInstall(t *testing.T) {
	console, global, out, _ := setup(t)

	err := runInstall(context.Background(), console, global, &installOptions{}, []string{"Json"})
	require.NoError(t, err)

	assert.Equal(t, "Planned 2 operation(s) for install 'Json 1.0.0':\n"+
		"  + Install Buffers 4.5.0\n"+
		"  + Install Json 1.0.0\n", out.String())
}

func TestInstall_Prerelease(t *testing.T) {
	console, global, out, _ := setup(t)
	global.Prerelease = true

	require.NoError(t, runInstall(context.Background(), console, global, &installOptions{}, []string{"Json"}))
	assert.Contains(t, out.String(), "+ Install Json 2.0.0-beta")
}

func TestInstall_JSON(t *testing.T) {
	console, global, out, _ := setup(t)
	global.Format = "json"

	require.NoError(t, runInstall(context.Background(), console, global, &installOptions{ignoreDependencies: true}, []string{"Json", "1.0.0"}))

	var plan output.PlanOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &plan))
	assert.Equal(t, "install", plan.Command)
	assert.NotEmpty(t, plan.RunID)
	assert.Equal(t, []output.OperationOutput{{Action: "Install", ID: "Json", Version: "1.0.0"}}, plan.Operations)
}

func TestInstall_Errors(t *testing.T) {
	console, global, _, _ := setup(t)

	err := runInstall(context.Background(), console, global, &installOptions{}, []string{"Missing"})
	assert.ErrorIs(t, err, ErrPackageNotFound)

	err = runInstall(context.Background(), console, global, &installOptions{}, []string{"Json", "9.9.9"})
	assert.ErrorIs(t, err, ErrPackageNotFound)

	err = runInstall(context.Background(), console, global, &installOptions{}, []string{"Logging", "1.5.0"})
	require.NoError(t, err)

	global.DependencyVersion = "sideways"
	err = runInstall(context.Background(), console, global, &installOptions{}, []string{"Json"})
	assert.Error(t, err)
}

func TestInstall_MissingRepository(t *testing.T) {
	console, global, _, _ := setup(t)
	global.Repository = filepath.Join(t.TempDir(), "missing.yaml")

	err := runInstall(context.Background(), console, global, &installOptions{}, []string{"Json"})
	assert.Error(t, err)
}

func TestInstall_Constraints(t *testing.T) {
	console, global, _, _ := setup(t)
	require.NoError(t, os.WriteFile(global.ConfigFile, []byte("constraints:\n  Buffers: \"[5.0]\"\n"), 0o644))

	err := runInstall(context.Background(), console, global, &installOptions{}, []string{"Json"})
	assert.ErrorIs(t, err, resolver.ErrUnableToResolveDependency)
	assert.ErrorContains(t, err, "additional constraint (= 5.0)")

	require.NoError(t, os.WriteFile(global.ConfigFile, []byte("constraints:\n  Buffers: \"[4.5\"\n"), 0o644))
	err = runInstall(context.Background(), console, global, &installOptions{}, []string{"Json"})
	assert.ErrorContains(t, err, "invalid constraint")
}

func TestUninstall(t *testing.T) {
	console, global, out, _ := setup(t)

	err := runUninstall(context.Background(), console, global, &uninstallOptions{}, []string{"Logging"})
	assert.ErrorIs(t, err, resolver.ErrPackageHasDependents)

	require.NoError(t, runUninstall(context.Background(), console, global, &uninstallOptions{removeDependencies: true}, []string{"App"}))
	assert.Contains(t, out.String(), "  - Uninstall App 1.0.0\n  - Uninstall Logging 1.0.0\n")
}

func TestUninstall_Force(t *testing.T) {
	console, global, out, _ := setup(t)

	require.NoError(t, runUninstall(context.Background(), console, global, &uninstallOptions{force: true}, []string{"Logging", "1.0.0"}))
	assert.Contains(t, out.String(), "  - Uninstall Logging 1.0.0\n")
}

func TestUpdate(t *testing.T) {
	console, global, out, _ := setup(t)

	require.NoError(t, runUpdate(context.Background(), console, global, &updateOptions{}, []string{"Tool"}))
	assert.Contains(t, out.String(), "  - Uninstall Tool 1.0.0\n  + Install Tool 2.0.0\n")
}

func TestUpdate_UpToDate(t *testing.T) {
	console, global, out, _ := setup(t)

	require.NoError(t, runUpdate(context.Background(), console, global, &updateOptions{}, []string{"App"}))
	assert.Contains(t, out.String(), "'App 1.0.0' is up to date.")
}

func TestUpdate_Targets(t *testing.T) {
	console, global, out, _ := setup(t)

	require.NoError(t, runUpdate(context.Background(), console, global, &updateOptions{targets: "project"}, []string{"Tool"}))
	assert.Equal(t, "Nothing to do for 'Tool 2.0.0'.\n", out.String())

	err := runUpdate(context.Background(), console, global, &updateOptions{targets: "everything"}, []string{"Tool"})
	assert.Error(t, err)
}

func TestUpdate_NotInstalled(t *testing.T) {
	console, global, _, _ := setup(t)

	err := runUpdate(context.Background(), console, global, &updateOptions{}, []string{"Json"})
	assert.ErrorIs(t, err, ErrPackageNotInstalled)
}

func TestOrder(t *testing.T) {
	console, global, out, _ := setup(t)
	global.Format = "json"

	require.NoError(t, runOrder(context.Background(), console, global))

	var list output.PackageListOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &list))
	assert.Equal(t, []output.PackageOutput{
		{ID: "Logging", Version: "1.0.0"},
		{ID: "App", Version: "1.0.0"},
		{ID: "Tool", Version: "1.0.0"},
	}, list.Packages)
}

func TestDependents(t *testing.T) {
	console, global, out, _ := setup(t)

	require.NoError(t, runDependents(context.Background(), console, global, []string{"Logging"}))
	assert.Equal(t, "Packages depending on 'Logging 1.0.0':\n  App 1.0.0\n", out.String())

	out.Reset()
	require.NoError(t, runDependents(context.Background(), console, global, []string{"App"}))
	assert.Contains(t, out.String(), "No installed package depends on 'App 1.0.0'.")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	console := output.NewConsole(&out, &out, output.VerbosityNormal)

	cmd := NewVersionCommand(console)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "nuplan version")

	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.Execute())
}

func TestCommandDefinitions(t *testing.T) {
	var out bytes.Buffer
	console := output.NewConsole(&out, &out, output.VerbosityNormal)
	global := &cli.GlobalOptions{}

	tests := []struct {
		cmd   *cobra.Command
		name  string
		flags []string
	}{
		{NewInstallCommand(console, global), "install", []string{"ignore-dependencies"}},
		{NewUninstallCommand(console, global), "uninstall", []string{"force", "remove-dependencies"}},
		{NewUpdateCommand(console, global), "update", []string{"no-dependencies", "targets"}},
		{NewOrderCommand(console, global), "order", nil},
		{NewDependentsCommand(console, global), "dependents", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.cmd.Name())
		assert.NotEmpty(t, tt.cmd.Short)
		for _, f := range tt.flags {
			assert.NotNil(t, tt.cmd.Flags().Lookup(f), "%s --%s", tt.name, f)
		}
	}
}
