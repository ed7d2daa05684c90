// internal/workers/planning/deliver-plan/models.go
package deliverplan

import "github.com/sorabhv/social-media-strategist/internal/models"

// Delivery statuses.
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

type Input struct {
	RunID          string                  `json:"runId"`
	BusinessType   string                  `json:"businessType"`
	RecipientEmail string                  `json:"recipientEmail,omitempty"`
	RecipientPhone string                  `json:"recipientPhone,omitempty"`
	BusinessName   string                  `json:"businessName,omitempty"`
	Concepts       []models.ReelConcept    `json:"concepts"`
	Calendar       []models.ContentPlanDay `json:"calendar"`
}

type Output struct {
	DeliveryID string `json:"deliveryId"`
	Status     string `json:"status"`
	EmailSent  bool   `json:"emailSent"`
	SMSSent    bool   `json:"smsSent"`
	SentAt     string `json:"sentAt"`
}
