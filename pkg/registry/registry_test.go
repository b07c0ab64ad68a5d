package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	taskTypes := make([]string, 0, len(reg.Activities))
	for _, a := range reg.Activities {
		taskTypes = append(taskTypes, a.TaskType)
	}
	assert.Equal(t, []string{
		"validate-financial-inputs",
		"calculate-health-score",
		"store-health-report",
		"index-health-report",
		"notify-health-report",
	}, taskTypes)

	calc := reg.Find("health.score.calculate")
	require.NotNil(t, calc)
	assert.Equal(t, "10s", calc.Timeout)
	assert.Contains(t, calc.ErrorCodes, "HEALTH_SCORE_FAILED")
}

func TestSaveLoad_RoundTripFormats(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	for _, name := range []string{"registry.json", "registry.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			require.NoError(t, Save(reg, path))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Len(t, loaded.Activities, len(reg.Activities))
			assert.NotEmpty(t, loaded.LastUpdated)
			require.NoError(t, loaded.Validate())
		})
	}
}

func TestLoad_YAMLKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: "1.0.0"
activities:
  - id: health.inputs.validate
    display_name: Validate
    category: health
    task_type: validate-financial-inputs
`), 0o644))

	reg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, reg.Activities, 1)
	assert.Equal(t, "validate-financial-inputs", reg.Activities[0].TaskType)
	assert.Equal(t, "Validate", reg.Activities[0].DisplayName)
}

func TestAdd_Duplicate(t *testing.T) {
	reg := &ActivityRegistry{}
	require.NoError(t, reg.Add(Activity{ID: "a"}))
	assert.Error(t, reg.Add(Activity{ID: "a"}))
}

func TestValidate(t *testing.T) {
	valid := func() Activity {
		return Activity{ID: "a", DisplayName: "A", Category: "health", TaskType: "task-a", Timeout: "5s"}
	}

	tests := []struct {
		name    string
		mutate  func(reg *ActivityRegistry)
		wantErr string
	}{
		{name: "valid", mutate: func(*ActivityRegistry) {}},
		{name: "empty", mutate: func(r *ActivityRegistry) { r.Activities = nil }, wantErr: "no activities"},
		{name: "missing_display_name", mutate: func(r *ActivityRegistry) { r.Activities[0].DisplayName = "" }, wantErr: "DisplayName"},
		{
			name: "duplicate_task_type",
			mutate: func(r *ActivityRegistry) {
				b := valid()
				b.ID = "b"
				r.Activities = append(r.Activities, b)
			},
			wantErr: "duplicate task type",
		},
		{name: "unknown_status", mutate: func(r *ActivityRegistry) { r.Activities[0].ImplementationStatus = "done" }, wantErr: "unknown status"},
		{name: "bad_timeout", mutate: func(r *ActivityRegistry) { r.Activities[0].Timeout = "ten seconds" }, wantErr: "invalid timeout"},
		{
			name: "bad_schema",
			mutate: func(r *ActivityRegistry) {
				r.Activities[0].InputSchema = map[string]interface{}{"type": 42}
			},
			wantErr: "invalid input schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Activities: []Activity{valid()}}
			tt.mutate(reg)
			err := reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
