// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"
	"sync"
	"time"

	"financial-health-workers/internal/common/config"
	"financial-health-workers/internal/common/errors"
	"financial-health-workers/internal/common/logger"
	"financial-health-workers/internal/common/metrics"
	"financial-health-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Job outcomes as seen by the instrumentation wrapper.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeThrown    = "bpmn_error"
	OutcomeUnknown   = "unknown"
	OutcomePanic     = "panic"
)

// Manager opens and owns the job workers of one process.
type Manager struct {
	client  zbc.Client
	obs     *observability.Observability
	logger  *zap.Logger
	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewManager(client zbc.Client, obs *observability.Observability, logger *zap.Logger) *Manager {
	return &Manager{
		client:  client,
		obs:     obs,
		logger:  logger,
		workers: make(map[string]worker.JobWorker),
	}
}

// Register opens a job worker for taskType unless it is disabled. It
// reports whether a worker was started.
func (m *Manager) Register(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) bool {
	if !wcfg.Enabled {
		m.logger.Info("worker disabled", zap.String("taskType", taskType))
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.workers[taskType]; exists {
		m.logger.Warn("worker already registered", zap.String("taskType", taskType))
		return false
	}

	jobWorker := m.client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, m.obs, m.logger)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Name(fmt.Sprintf("%s-worker", taskType)).
		Open()
	m.workers[taskType] = jobWorker

	m.logger.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
	return true
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workers)
}

// Close stops polling on every worker and waits for in-flight jobs.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for taskType, w := range m.workers {
		m.logger.Info("stopping worker", zap.String("taskType", taskType))
		w.Close()
		w.AwaitClose()
	}
	m.workers = make(map[string]worker.JobWorker)
}

// Instrument wraps handler with a span, the job gauges and duration
// metrics, and panic recovery. The outcome is read from the command the
// handler issues on the job client. A panicking handler's job is resolved
// as HEALTH_SCORE_FAILED through the error handler.
func Instrument(taskType string, handler worker.JobHandler, obs *observability.Observability, zapLog *zap.Logger) worker.JobHandler {
	errHandler := errors.NewErrorHandler(logger.NewZapAdapter(zapLog))
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		ctx, span := obs.StartSpan(context.Background(), "job "+taskType,
			attribute.String("taskType", taskType),
			attribute.Int64("jobKey", job.Key),
			attribute.Int64("processInstanceKey", job.ProcessInstanceKey),
		)
		defer span.End()

		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

		rc := &recordingClient{JobClient: client, outcome: OutcomeUnknown}
		defer func() {
			if r := recover(); r != nil {
				rc.outcome = OutcomePanic
				zapLog.Error("job handler panicked",
					zap.String("taskType", taskType),
					zap.Int64("jobKey", job.Key),
					zap.Any("panic", r),
				)
				sendCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				errHandler.HandleJobError(sendCtx, client, job,
					errors.NewHealthScoreFailedError(fmt.Sprintf("%s handler panicked: %v", taskType, r)))
				cancel()
			}

			elapsed := time.Since(start)
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
			switch rc.outcome {
			case OutcomeCompleted:
				metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
			case OutcomeFailed, OutcomeThrown, OutcomePanic:
				metrics.WorkerJobsFailed.WithLabelValues(taskType, rc.outcome).Inc()
			}
			obs.RecordJobProcessed(ctx, taskType, rc.outcome)
			obs.RecordJobDuration(ctx, taskType, elapsed, rc.outcome)
			span.SetAttributes(attribute.String("outcome", rc.outcome))
		}()

		handler(rc, job)
	}
}

// recordingClient notes which terminal command a handler created.
type recordingClient struct {
	worker.JobClient
	outcome string
}

func (c *recordingClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.outcome = OutcomeCompleted
	return c.JobClient.NewCompleteJobCommand()
}

func (c *recordingClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.outcome = OutcomeFailed
	return c.JobClient.NewFailJobCommand()
}

func (c *recordingClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.outcome = OutcomeThrown
	return c.JobClient.NewThrowErrorCommand()
}
