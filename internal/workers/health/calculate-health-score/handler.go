// internal/workers/health/calculate-health-score/handler.go
package calculatehealthscore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"financial-health-workers/internal/common/database"
	"financial-health-workers/internal/common/errors"
	"financial-health-workers/internal/common/logger"
	"financial-health-workers/internal/common/metrics"
	"financial-health-workers/internal/common/observability"
	"financial-health-workers/internal/healthscore"
	"financial-health-workers/internal/healthscore/fields"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "calculate-health-score"

	cacheKeyPrefix = "health:report:"
)

type Handler struct {
	config     *Config
	engine     *healthscore.Engine
	cache      *database.RedisClient
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the worker. cache and obs may be nil; the report is
// then computed on every call and no spans are recorded.
func NewHandler(config *Config, engine *healthscore.Engine, cache *database.RedisClient, obs *observability.Observability, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if engine == nil {
		engine = healthscore.New()
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		engine:     engine,
		cache:      cache,
		obs:        obs,
		errHandler: errors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job,
			errors.NewInvalidHealthInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Inputs == nil {
		return nil, errors.NewInvalidHealthInputError("inputs variable is missing")
	}

	ctx, span := h.obs.StartSpan(ctx, "healthscore.calculate",
		attribute.String("requestId", input.RequestID),
	)
	defer span.End()

	key, err := CacheKey(h.engine.Version(), input.Inputs)
	if err != nil {
		return nil, errors.NewInvalidHealthInputError(err.Error())
	}

	useCache := h.cache != nil && !input.SkipCache
	if useCache {
		if report, ok := h.lookup(ctx, key); ok {
			span.SetAttributes(attribute.Bool("cached", true))
			return h.output(input, report, true), nil
		}
	}

	report := h.engine.Calculate(input.Inputs)

	metrics.ObserveReport(report.Metadata.PlanningType, report.Interpretation.Band, report.Score, factorScores(report), report.Degraded())
	h.obs.RecordScore(ctx, report.Score, report.Metadata.PlanningType)
	span.SetAttributes(
		attribute.Int("score", report.Score),
		attribute.String("band", report.Interpretation.Band),
		attribute.Bool("cached", false),
	)

	if report.Degraded() {
		h.logger.Warn("health score degraded", map[string]interface{}{
			"requestId": input.RequestID,
			"error":     report.Error,
		})
		if h.config.FailOnDegraded {
			return nil, errors.NewHealthScoreFailedError(report.Error)
		}
	} else if useCache {
		if err := h.cache.SetJSON(ctx, key, report, h.config.CacheTTL); err != nil {
			h.logger.Warn("failed to cache health report", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	h.logger.Info("health score calculated", map[string]interface{}{
		"requestId":    input.RequestID,
		"userId":       input.UserID,
		"score":        report.Score,
		"band":         report.Interpretation.Band,
		"planningType": report.Metadata.PlanningType,
		"completeness": report.Validation.Completeness,
	})

	return h.output(input, report, false), nil
}

// lookup returns a cached report. Cache failures are logged and treated
// as a miss.
func (h *Handler) lookup(ctx context.Context, key string) (*healthscore.HealthReport, bool) {
	var report healthscore.HealthReport
	found, err := h.cache.GetJSON(ctx, key, &report)
	switch {
	case err != nil:
		metrics.ReportCacheRequests.WithLabelValues("error").Inc()
		h.logger.Warn("health report cache unavailable", map[string]interface{}{
			"key":   key,
			"error": errors.NewCacheUnavailableError(err).Details,
		})
		return nil, false
	case !found:
		metrics.ReportCacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.ReportCacheRequests.WithLabelValues("hit").Inc()
	return &report, true
}

func (h *Handler) output(input *Input, report *healthscore.HealthReport, cached bool) *Output {
	return &Output{
		RequestID: input.RequestID,
		Score:     report.Score,
		Band:      report.Interpretation.Band,
		Degraded:  report.Degraded(),
		Cached:    cached,
		Report:    report,
	}
}

// Execute exposes execute for the HTTP API and tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// CacheKey derives the report cache key from the engine version and the
// canonical JSON of the record. Map keys are encoded in sorted order, so
// equal records share a key.
func CacheKey(version string, rec fields.Record) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode inputs: %w", err)
	}
	sum := sha256.Sum256(data)
	return cacheKeyPrefix + version + ":" + hex.EncodeToString(sum[:]), nil
}

func factorScores(report *healthscore.HealthReport) map[string]int {
	out := make(map[string]int, len(report.ScoreBreakdown))
	for f, r := range report.ScoreBreakdown {
		out[string(f)] = r.Score
	}
	return out
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey": job.Key,
		"score":  output.Score,
		"cached": output.Cached,
	})
}
