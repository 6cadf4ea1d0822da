package models

// Email log status values.
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// EmailLog records one delivery attempt made by the mail worker.
type EmailLog struct {
	ID             int64  `json:"id"`
	EmailType      string `json:"email_type"`
	RecipientEmail string `json:"recipient_email"`
	Subject        string `json:"subject,omitempty"`
	Status         string `json:"status"`
	ErrorMessage   string `json:"error_message,omitempty"`
	SentAt         int64  `json:"sent_at,omitempty"`
	CreatedAt      int64  `json:"created_at"`
}
