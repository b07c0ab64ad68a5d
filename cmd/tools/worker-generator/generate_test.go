package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"financial-health-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerData_FromDefaultRegistry(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)

	data, err := newWorkerData(reg.Find("health.report.index"))
	require.NoError(t, err)

	assert.Equal(t, "indexhealthreport", data.PackageName)
	assert.Equal(t, 10*time.Second, data.Timeout)

	require.Len(t, data.InputFields, 3)
	assert.Equal(t, Field{Name: "Report", GoType: "map[string]interface{}", JSONName: "report", Required: true}, data.InputFields[0])
	assert.Equal(t, Field{Name: "ReportID", GoType: "string", JSONName: "reportId", Required: true}, data.InputFields[1])
	assert.Equal(t, Field{Name: "UserID", GoType: "string", JSONName: "userId"}, data.InputFields[2])
}

func TestNewWorkerData_InvalidTimeout(t *testing.T) {
	_, err := newWorkerData(&registry.Activity{ID: "a", TaskType: "a", Timeout: "soon"})
	assert.Error(t, err)
}

func TestGoTypeFromJSONType(t *testing.T) {
	tests := map[interface{}]string{
		"string":  "string",
		"integer": "int",
		"number":  "float64",
		"boolean": "bool",
		"object":  "map[string]interface{}",
		"array":   "[]interface{}",
		nil:       "interface{}",
	}
	for in, want := range tests {
		assert.Equal(t, want, goTypeFromJSONType(in), "%v", in)
	}
}

func TestGenerate(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)
	data, err := newWorkerData(reg.Find("health.report.notify"))
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "health", "notify-health-report")
	written, err := Generate(data, dir, false)
	require.NoError(t, err)
	assert.Len(t, written, 4)

	handler, err := os.ReadFile(filepath.Join(dir, "handler.go"))
	require.NoError(t, err)
	assert.Contains(t, string(handler), `TaskType = "notify-health-report"`)
	assert.Contains(t, string(handler), "package notifyhealthreport")

	models, err := os.ReadFile(filepath.Join(dir, "models.go"))
	require.NoError(t, err)
	assert.Regexp(t, `ReportID\s+string`, string(models))
	assert.Contains(t, string(models), `json:"phone,omitempty"`)

	config, err := os.ReadFile(filepath.Join(dir, "config.go"))
	require.NoError(t, err)
	assert.Contains(t, string(config), "15 * time.Second")

	_, err = Generate(data, dir, false)
	assert.Error(t, err, "existing files are not overwritten")

	_, err = Generate(data, dir, true)
	assert.NoError(t, err)
}
