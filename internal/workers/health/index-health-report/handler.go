// internal/workers/health/index-health-report/handler.go
package indexhealthreport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"financial-health-workers/internal/common/database"
	"financial-health-workers/internal/common/errors"
	"financial-health-workers/internal/common/logger"
	"financial-health-workers/internal/healthscore"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	json "github.com/goccy/go-json"
)

const (
	TaskType = "index-health-report"
)

type Handler struct {
	config     *Config
	es         *database.ElasticsearchClient
	indexMu    sync.Mutex
	indexReady bool
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, es *database.ElasticsearchClient, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if config.Index == "" {
		config.Index = DefaultIndex
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		es:         es,
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
	if input.ReportID == "" {
		return nil, errors.NewInvalidHealthInputError("reportId variable is missing")
	}
	if input.Report == nil {
		return nil, errors.NewInvalidHealthInputError("report variable is missing")
	}

	if err := h.ensureIndex(ctx); err != nil {
		return nil, errors.NewReportIndexFailedError(h.config.Index, err)
	}

	doc := BuildDocument(input.ReportID, input.UserID, input.Report)
	result, err := h.es.IndexDocument(ctx, h.config.Index, input.ReportID, doc)
	if err != nil {
		return nil, errors.NewReportIndexFailedError(h.config.Index, err)
	}

	h.logger.Info("health report indexed", map[string]interface{}{
		"reportId": input.ReportID,
		"index":    h.config.Index,
		"result":   result,
	})

	return &Output{
		Indexed:    true,
		Index:      h.config.Index,
		DocumentID: input.ReportID,
		Result:     result,
	}, nil
}

// ensureIndex creates the index once per process. A failed attempt is
// retried on the next job.
func (h *Handler) ensureIndex(ctx context.Context) error {
	h.indexMu.Lock()
	defer h.indexMu.Unlock()
	if h.indexReady {
		return nil
	}
	if err := h.es.EnsureIndex(ctx, h.config.Index, []byte(IndexMapping)); err != nil {
		return err
	}
	h.indexReady = true
	return nil
}

// Execute exposes execute for tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// BuildDocument flattens a report for search and dashboards.
func BuildDocument(reportID, userID string, report *healthscore.HealthReport) Document {
	doc := Document{
		ReportID:        reportID,
		UserID:          userID,
		Score:           report.Score,
		Band:            report.Interpretation.Band,
		PlanningType:    report.Metadata.PlanningType,
		EngineVersion:   report.Metadata.Version,
		Degraded:        report.Degraded(),
		CalculatedAt:    report.Metadata.CalculatedAt,
		Factors:         make(map[string]int, len(report.ScoreBreakdown)),
		ZeroFactors:     make([]string, 0, len(report.ZeroScoreFactors)),
		Completeness:    report.Validation.Completeness,
		CriticalMissing: report.Validation.CriticalMissing,
		SuggestionTypes: make([]string, 0, len(report.Suggestions)),
	}
	for f, r := range report.ScoreBreakdown {
		doc.Factors[string(f)] = r.Score
	}
	for _, z := range report.ZeroScoreFactors {
		doc.ZeroFactors = append(doc.ZeroFactors, string(z.Factor))
	}
	for _, s := range report.Suggestions {
		doc.SuggestionTypes = append(doc.SuggestionTypes, s.Category)
	}
	if doc.CriticalMissing == nil {
		doc.CriticalMissing = []string{}
	}
	if p := report.PeerComparison; p != nil {
		doc.AgeGroup = p.AgeGroup
		doc.Percentile = p.Percentile
		doc.Comparison = p.Comparison
	}
	return doc
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
		"jobKey":     job.Key,
		"documentId": output.DocumentID,
	})
}
