package models

import "time"

// RevisionRequest asks the author for a minor or major revision. Requests are
// never deleted: responding marks the row responded, and issuing a new request
// marks older open ones superseded.
type RevisionRequest struct {
	RevisionRequestID int        `gorm:"primaryKey;column:revision_request_id" json:"revision_request_id"`
	SubmissionID      int        `gorm:"column:submission_id" json:"submission_id"`
	RevisionType      string     `gorm:"column:revision_type" json:"revision_type"` // minor|major
	RequestDetails    string     `gorm:"column:request_details" json:"request_details"`
	DeadlineDate      *time.Time `gorm:"column:deadline_date" json:"deadline_date,omitempty"`
	Status            string     `gorm:"column:status" json:"status"` // open|responded|superseded
	CreatedAt         time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

func (RevisionRequest) TableName() string {
	return "revision_requests"
}
