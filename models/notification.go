package models

import "time"

type Notification struct {
	NotificationID      int        `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID              int        `gorm:"column:user_id" json:"user_id"`
	Title               string     `gorm:"column:title" json:"title"`
	Message             string     `gorm:"column:message" json:"message"`
	Type                string     `gorm:"column:type" json:"type"` // info|success|warning|error
	RelatedSubmissionID *int       `gorm:"column:related_submission_id" json:"related_submission_id,omitempty"`
	IsRead              bool       `gorm:"column:is_read" json:"is_read"`
	CreateAt            time.Time  `gorm:"column:create_at" json:"created_at"`
	UpdateAt            *time.Time `gorm:"column:update_at" json:"-"`
}

func (Notification) TableName() string { return "notifications" }

// EmailOutbox records an intended email in the same transaction as the write
// that caused it. A background worker dispatches pending rows with bounded
// retries; exhausted rows stay behind as an audit trail.
type EmailOutbox struct {
	OutboxID       int        `gorm:"primaryKey;column:outbox_id" json:"outbox_id"`
	RecipientEmail string     `gorm:"column:recipient_email" json:"recipient_email"`
	Subject        string     `gorm:"column:subject" json:"subject"`
	BodyHTML       string     `gorm:"column:body_html" json:"-"`
	Status         string     `gorm:"column:status" json:"status"` // pending|sent|failed
	Attempts       int        `gorm:"column:attempts" json:"attempts"`
	NextAttemptAt  time.Time  `gorm:"column:next_attempt_at" json:"next_attempt_at"`
	LastError      *string    `gorm:"column:last_error" json:"last_error,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"created_at"`
	SentAt         *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
}

func (EmailOutbox) TableName() string { return "email_outbox" }
