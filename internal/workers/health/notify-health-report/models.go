// internal/workers/health/notify-health-report/models.go
package notifyhealthreport

import "financial-health-workers/internal/healthscore"

type Input struct {
	ReportID    string                   `json:"reportId"`
	Email       string                   `json:"email"`
	Phone       string                   `json:"phone,omitempty"`
	Name        string                   `json:"name,omitempty"`
	Score       int                      `json:"score"`
	Band        string                   `json:"band"`
	Suggestions []healthscore.Suggestion `json:"suggestions,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`
	EmailSent      bool   `json:"emailSent"`
	SMSSent        bool   `json:"smsSent"`
	AlertPublished bool   `json:"alertPublished"`
	SentAt         string `json:"sentAt"`
}

const (
	StatusSent     = "sent"
	StatusPartial  = "partial"
	StatusSkipped  = "skipped"
)
