// internal/workers/health/validate-financial-inputs/handler.go
package validatefinancialinputs

import (
	"context"
	"fmt"
	"time"

	"financial-health-workers/internal/common/errors"
	"financial-health-workers/internal/common/logger"
	"financial-health-workers/internal/common/validation"
	"financial-health-workers/internal/healthscore"
	"financial-health-workers/internal/healthscore/fields"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	json "github.com/goccy/go-json"
)

const (
	TaskType = "validate-financial-inputs"
)

type Handler struct {
	config     *Config
	engine     *healthscore.Engine
	schema     *validation.Schema
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, engine *healthscore.Engine, log logger.Logger) *Handler {
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
		schema:     InputSchema(),
		errHandler: errors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, input)
	if err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewInvalidHealthInputError(fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Inputs == nil {
		return nil, errors.NewInvalidHealthInputError("inputs variable is missing")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	schemaResult, err := h.schema.Validate(map[string]interface{}(input.Inputs))
	if err != nil {
		return nil, errors.NewInvalidHealthInputError(err.Error())
	}

	result := h.engine.Validate(input.Inputs)

	isValid := result.IsValid
	if h.config.StrictSchema && !schemaResult.Valid {
		isValid = false
	}

	planning := healthscore.PlanningIndividual
	if fields.IsCouple(input.Inputs) {
		planning = healthscore.PlanningCouple
	}

	schemaErrors := schemaResult.Errors
	if schemaErrors == nil {
		schemaErrors = []validation.ValidationError{}
	}

	h.logger.Info("financial inputs validated", map[string]interface{}{
		"requestId":       input.RequestID,
		"isValid":         isValid,
		"completeness":    result.Completeness,
		"criticalMissing": result.CriticalMissing,
		"schemaErrors":    len(schemaErrors),
	})

	return &Output{
		RequestID:    input.RequestID,
		IsValid:      isValid,
		PlanningType: planning,
		SchemaErrors: schemaErrors,
		Validation:   result,
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
		"jobKey":  job.Key,
		"isValid": output.IsValid,
	})
}
