package models

import "time"

// EditorialDecision is an append-only log entry. Rows are never updated.
type EditorialDecision struct {
	DecisionID        int       `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	SubmissionID      int       `gorm:"column:submission_id" json:"submission_id"`
	EditorID          int       `gorm:"column:editor_id" json:"editor_id"`
	DecisionType      string    `gorm:"column:decision_type" json:"decision_type"` // accept|reject|revision_required|desk_reject|revision_submitted
	DecisionRationale *string   `gorm:"column:decision_rationale" json:"decision_rationale,omitempty"`
	CreatedAt         time.Time `gorm:"column:created_at" json:"created_at"`

	Editor *User `gorm:"foreignKey:EditorID" json:"editor,omitempty"`
}

func (EditorialDecision) TableName() string {
	return "editorial_decisions"
}
