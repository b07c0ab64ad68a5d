// internal/workers/health/notify-health-report/handler.go
package notifyhealthreport

import (
	"context"
	"fmt"
	"time"

	"financial-health-workers/internal/common/errors"
	"financial-health-workers/internal/common/logger"
	"financial-health-workers/internal/common/metrics"
	"financial-health-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-health-report"
)

// EmailSender is satisfied by aws.SESClient.
type EmailSender interface {
	SendEmail(ctx context.Context, from, to, subject, textBody, htmlBody string) (string, error)
}

// AlertPublisher is satisfied by aws.SNSClient.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, topicARN, subject, message string, attrs map[string]string) (string, error)
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config     *Config
	email      EmailSender
	alerts     AlertPublisher
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	clock      func() time.Time
}

func NewHandler(config *Config, email EmailSender, alerts AlertPublisher, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		email:      email,
		alerts:     alerts,
		errHandler: errors.NewErrorHandler(l),
		logger:     l,
		clock:      time.Now,
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

	data := newMessageData(input)
	output := &Output{
		NotificationID: uuid.New().String(),
		Status:         StatusSkipped,
	}
	partial := false

	if h.config.EmailEnabled && h.email != nil {
		if validation.ValidateEmail(input.Email) {
			id, err := h.sendEmail(ctx, input.Email, data)
			if err != nil {
				metrics.NotificationsSent.WithLabelValues("email", "failed").Inc()
				return nil, errors.NewNotificationSendFailedError("email", err)
			}
			metrics.NotificationsSent.WithLabelValues("email", "sent").Inc()
			output.EmailSent = true
			h.logger.Info("report email sent", map[string]interface{}{
				"reportId":  input.ReportID,
				"messageId": id,
			})
		} else {
			h.logger.Warn("no valid email address, skipping email", map[string]interface{}{
				"reportId": input.ReportID,
			})
		}
	}

	if input.Score < h.config.LowScoreThreshold && h.alerts != nil {
		if h.config.SMSEnabled && validation.ValidatePhone(input.Phone) {
			if err := h.sendSMS(ctx, input.Phone, data); err != nil {
				metrics.NotificationsSent.WithLabelValues("sms", "failed").Inc()
				h.logger.Warn("low score sms failed", map[string]interface{}{
					"reportId": input.ReportID,
					"error":    err.Error(),
				})
				partial = true
			} else {
				metrics.NotificationsSent.WithLabelValues("sms", "sent").Inc()
				output.SMSSent = true
			}
		}

		if h.config.AlertTopicARN != "" {
			if err := h.publishAlert(ctx, input); err != nil {
				metrics.NotificationsSent.WithLabelValues("alert", "failed").Inc()
				h.logger.Warn("low score alert failed", map[string]interface{}{
					"reportId": input.ReportID,
					"error":    err.Error(),
				})
				partial = true
			} else {
				metrics.NotificationsSent.WithLabelValues("alert", "sent").Inc()
				output.AlertPublished = true
			}
		}
	}

	switch {
	case partial:
		output.Status = StatusPartial
	case output.EmailSent || output.SMSSent || output.AlertPublished:
		output.Status = StatusSent
	}
	output.SentAt = h.clock().UTC().Format(time.RFC3339)
	return output, nil
}

func (h *Handler) sendEmail(ctx context.Context, to string, data messageData) (string, error) {
	subject, err := render(subjectTmpl, data)
	if err != nil {
		return "", err
	}
	text, err := render(textTmpl, data)
	if err != nil {
		return "", err
	}
	html, err := renderHTML(htmlTmpl, data)
	if err != nil {
		return "", err
	}
	return h.email.SendEmail(ctx, h.config.FromEmail, to, subject, text, html)
}

func (h *Handler) sendSMS(ctx context.Context, phone string, data messageData) error {
	msg, err := render(smsTmpl, data)
	if err != nil {
		return err
	}
	_, err = h.alerts.SendSMS(ctx, phone, msg)
	return err
}

func (h *Handler) publishAlert(ctx context.Context, input *Input) error {
	msg := fmt.Sprintf("Report %s scored %d (%s), below threshold %d",
		input.ReportID, input.Score, input.Band, h.config.LowScoreThreshold)
	_, err := h.alerts.PublishAlert(ctx, h.config.AlertTopicARN, "Low financial health score", msg,
		map[string]string{
			"reportId": input.ReportID,
			"band":     input.Band,
		})
	return err
}

// Execute exposes execute for tests.
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
		"jobKey":         job.Key,
		"notificationId": output.NotificationID,
		"status":         output.Status,
	})
}
