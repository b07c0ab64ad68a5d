// internal/workers/health/store-health-report/handler.go
package storehealthreport

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"financial-health-workers/internal/common/database"
	"financial-health-workers/internal/common/errors"
	"financial-health-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	TaskType = "store-health-report"
)

type Handler struct {
	config     *Config
	store      *database.ReportStore
	clock      func() time.Time
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, store *database.ReportStore, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      store,
		clock:      time.Now,
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
	input.ProcessInstanceKey = job.ProcessInstanceKey

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
	if len(input.Report) == 0 || string(input.Report) == "null" {
		return nil, errors.NewInvalidHealthInputError("report variable is missing")
	}

	var summary reportSummary
	if err := json.Unmarshal(input.Report, &summary); err != nil {
		return nil, errors.NewInvalidHealthInputError(fmt.Sprintf("decode report: %v", err))
	}
	if summary.Score == nil {
		return nil, errors.NewInvalidHealthInputError("report has no score")
	}

	reportID := input.ReportID
	if reportID == "" {
		reportID = uuid.NewString()
	} else if _, err := uuid.Parse(reportID); err != nil {
		return nil, errors.NewInvalidHealthInputError(fmt.Sprintf("reportId %q is not a UUID", reportID))
	}

	now := h.clock().UTC()
	record := &database.StoredReport{
		ID:                 reportID,
		UserID:             input.UserID,
		ProcessInstanceKey: input.ProcessInstanceKey,
		Score:              *summary.Score,
		Band:               summary.Interpretation.Band,
		PlanningType:       summary.Metadata.PlanningType,
		EngineVersion:      summary.Metadata.Version,
		Degraded:           summary.Error != "",
		Report:             input.Report,
		CreatedAt:          now,
	}

	err := h.store.Save(ctx, record, h.config.Actor)
	if err != nil {
		var stdErr *errors.StandardError
		if input.ReportID != "" && stderrors.As(err, &stdErr) && stdErr.Code == errors.ErrCodeDuplicateReport {
			h.logger.Info("health report already stored", map[string]interface{}{
				"reportId": reportID,
			})
			return &Output{ReportID: reportID, StoredAt: now.Format(time.RFC3339), AlreadyStored: true}, nil
		}
		return nil, err
	}

	h.logger.Info("health report stored", map[string]interface{}{
		"reportId": reportID,
		"userId":   input.UserID,
		"score":    record.Score,
		"band":     record.Band,
	})

	return &Output{
		ReportID: reportID,
		StoredAt: now.Format(time.RFC3339),
	}, nil
}

// Execute exposes execute for the HTTP API and tests.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
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
		"jobKey":   job.Key,
		"reportId": output.ReportID,
	})
}
