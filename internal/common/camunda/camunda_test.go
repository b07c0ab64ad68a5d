package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "financial-health-workers/internal/common/errors"
	"financial-health-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ==========================
// Test Helpers
// ==========================

type fakeJobClient struct {
	worker.JobClient
	thrown *fakeThrowCommand
}

func (fakeJobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 { return nil }
func (fakeJobClient) NewFailJobCommand() commands.FailJobCommandStep1 { return nil }
func (c fakeJobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	if c.thrown == nil {
		return nil
	}
	return c.thrown
}

// fakeThrowCommand records a thrown BPMN error.
type fakeThrowCommand struct {
	commands.DispatchThrowErrorCommand
	jobKey    int64
	code      string
	message   string
	variables string
	sent      bool
}

func (f *fakeThrowCommand) JobKey(key int64) commands.ThrowErrorCommandStep2 {
	f.jobKey = key
	return f
}

func (f *fakeThrowCommand) ErrorCode(code string) commands.DispatchThrowErrorCommand {
	f.code = code
	return f
}

func (f *fakeThrowCommand) ErrorMessage(msg string) commands.DispatchThrowErrorCommand {
	f.message = msg
	return f
}

func (f *fakeThrowCommand) VariablesFromString(vars string) (commands.DispatchThrowErrorCommand, error) {
	f.variables = vars
	return f, nil
}

func (f *fakeThrowCommand) Send(context.Context) (*pb.ThrowErrorResponse, error) {
	f.sent = true
	return &pb.ThrowErrorResponse{}, nil
}

func createMockJob(key int64) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: key, Retries: 3}}
}

func testClient(maxRetries int) *Client {
	return newClient(nil, &ClientConfig{
		RetryConfig: &RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  time.Millisecond,
			MaxDelay:   2 * time.Millisecond,
		},
	})
}

// ==========================
// Instrument
// ==========================

func TestInstrument_RecordsOutcome(t *testing.T) {
	tests := []struct {
		name     string
		taskType string
		handler  worker.JobHandler
		check    func(t *testing.T, taskType string)
	}{
		{
			name:     "completed job",
			taskType: "instrument-complete",
			handler: func(c worker.JobClient, _ entities.Job) {
				c.NewCompleteJobCommand()
			},
			check: func(t *testing.T, taskType string) {
				assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsCompleted.WithLabelValues(taskType)))
			},
		},
		{
			name:     "failed job",
			taskType: "instrument-fail",
			handler: func(c worker.JobClient, _ entities.Job) {
				c.NewFailJobCommand()
			},
			check: func(t *testing.T, taskType string) {
				assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues(taskType, OutcomeFailed)))
			},
		},
		{
			name:     "thrown BPMN error",
			taskType: "instrument-throw",
			handler: func(c worker.JobClient, _ entities.Job) {
				c.NewThrowErrorCommand()
			},
			check: func(t *testing.T, taskType string) {
				assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues(taskType, OutcomeThrown)))
			},
		},
		{
			name:     "panicking handler is contained",
			taskType: "instrument-panic",
			handler: func(worker.JobClient, entities.Job) {
				panic("boom")
			},
			check: func(t *testing.T, taskType string) {
				assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues(taskType, OutcomePanic)))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Instrument(tt.taskType, tt.handler, nil, zaptest.NewLogger(t))
			assert.NotPanics(t, func() {
				wrapped(fakeJobClient{thrown: &fakeThrowCommand{}}, createMockJob(1))
			})
			tt.check(t, tt.taskType)
			assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(tt.taskType)))
		})
	}
}

func TestInstrument_PanickingHandlerResolvesJob(t *testing.T) {
	thrown := &fakeThrowCommand{}
	wrapped := Instrument("instrument-panic-resolve", func(worker.JobClient, entities.Job) {
		panic("nil report")
	}, nil, zaptest.NewLogger(t))

	require.NotPanics(t, func() {
		wrapped(fakeJobClient{thrown: thrown}, createMockJob(77))
	})

	assert.True(t, thrown.sent, "panicking job must not wait for its timeout")
	assert.Equal(t, int64(77), thrown.jobKey)
	assert.Equal(t, "HEALTH_SCORE_FAILED", thrown.code)
	assert.Contains(t, thrown.variables, "nil report")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsFailed.WithLabelValues("instrument-panic-resolve", OutcomePanic)))
}

// ==========================
// Retry and error mapping
// ==========================

func TestStartHealthCheck_RecoversFromTransientError(t *testing.T) {
	c := testClient(3)
	attempts := 0
	var gotProcess string
	var gotVars map[string]interface{}
	c.createInstance = func(_ context.Context, processID string, vars map[string]interface{}) (*pb.CreateProcessInstanceResponse, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("rpc error: code = Unavailable")
		}
		gotProcess, gotVars = processID, vars
		return &pb.CreateProcessInstanceResponse{
			ProcessInstanceKey:   42,
			ProcessDefinitionKey: 7,
			BpmnProcessId:        processID,
			Version:              2,
		}, nil
	}

	started, err := c.StartHealthCheck(context.Background(), map[string]interface{}{"requestId": "req-1"})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, DefaultProcessID, gotProcess)
	assert.Equal(t, "req-1", gotVars["requestId"])
	assert.Equal(t, &HealthCheckStart{
		ProcessInstanceKey:   42,
		ProcessDefinitionKey: 7,
		BPMNProcessID:        DefaultProcessID,
		Version:              2,
	}, started)
}

func TestStartHealthCheck_UsesConfiguredProcess(t *testing.T) {
	c := newClient(nil, &ClientConfig{ProcessID: "health-check-v2"})
	var gotProcess string
	c.createInstance = func(_ context.Context, processID string, _ map[string]interface{}) (*pb.CreateProcessInstanceResponse, error) {
		gotProcess = processID
		return &pb.CreateProcessInstanceResponse{BpmnProcessId: processID}, nil
	}

	_, err := c.StartHealthCheck(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "health-check-v2", gotProcess)
}

func TestStartHealthCheck_StopsOnPermanentError(t *testing.T) {
	c := testClient(3)
	attempts := 0
	c.createInstance = func(context.Context, string, map[string]interface{}) (*pb.CreateProcessInstanceResponse, error) {
		attempts++
		return nil, errors.New("process definition not found")
	}

	_, err := c.StartHealthCheck(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, 1, attempts)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrorCode("RESOURCE_NOT_FOUND"), stdErr.Code)
}

func TestStartHealthCheck_GivesUpAfterMaxRetries(t *testing.T) {
	c := testClient(2)
	attempts := 0
	c.createInstance = func(context.Context, string, map[string]interface{}) (*pb.CreateProcessInstanceResponse, error) {
		attempts++
		return nil, errors.New("context deadline exceeded")
	}

	_, err := c.StartHealthCheck(context.Background(), nil)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrorCode("TIMEOUT_ERROR"), stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Equal(t, 3, attempts)
}

func TestStartHealthCheck_PassesThroughStandardErrors(t *testing.T) {
	c := testClient(3)
	attempts := 0
	c.createInstance = func(context.Context, string, map[string]interface{}) (*pb.CreateProcessInstanceResponse, error) {
		attempts++
		return nil, apperrors.NewInvalidHealthInputError("encode process variables: bad value")
	}

	_, err := c.StartHealthCheck(context.Background(), nil)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeInvalidHealthInput, stdErr.Code)
	assert.Equal(t, 1, attempts)
}

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"connection refused", true},
		{"rpc error: code = Unavailable desc = transport is closing", true},
		{"context deadline exceeded", true},
		{"job not found", false},
		{"invalid argument", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableZeebeError(errors.New(tt.msg)))
		})
	}
}

func TestMapZeebeError(t *testing.T) {
	tests := []struct {
		msg  string
		code apperrors.ErrorCode
	}{
		{"connection reset by peer", "EXTERNAL_SERVICE_ERROR"},
		{"timeout waiting for broker", "TIMEOUT_ERROR"},
		{"process not found", "RESOURCE_NOT_FOUND"},
		{"instance already exists", "BUSINESS_RULE_VIOLATION"},
		{"permission denied", "BUSINESS_RULE_VIOLATION"},
		{"something odd", "EXTERNAL_SERVICE_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := mapZeebeError(errors.New(tt.msg), "op", 1)
			var stdErr *apperrors.StandardError
			require.ErrorAs(t, err, &stdErr)
			assert.Equal(t, tt.code, stdErr.Code)
		})
	}
}
