package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/nuplan/core"
	"github.com/willibrandon/nuplan/version"
)

func TestPlanOutput(t *testing.T) {
	a := &core.Package{ID: "A", Version: version.MustParse("1.0.0")}
	b := &core.Package{ID: "B", Version: version.MustParse("2.0.0-beta")}
	ops := []core.PackageOperation{
		core.NewOperation(b, core.ActionInstall),
		core.NewOperation(a, core.ActionInstall),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewPlanOutput("run-1", "install", a, "net8.0", ops, time.Now())))

	var decoded PlanOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, CurrentSchemaVersion, decoded.SchemaVersion)
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, PackageOutput{ID: "A", Version: "1.0.0"}, decoded.Package)
	assert.Equal(t, []OperationOutput{
		{Action: "Install", ID: "B", Version: "2.0.0-beta"},
		{Action: "Install", ID: "A", Version: "1.0.0"},
	}, decoded.Operations)
}

func TestPackageListOutput_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewPackageListOutput("run-1", "order", nil, "", nil, time.Now())))

	assert.Contains(t, buf.String(), `"packages": []`)
	assert.NotContains(t, buf.String(), `"package":`)
}
