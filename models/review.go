package models

import "time"

// Review is one reviewer's engagement with a submission. invitation_status is
// the explicit state (invited|accepted|declined|completed); submitted_at is
// set exactly when the review reaches completed and the row becomes read-only.
type Review struct {
	ReviewID         int        `gorm:"primaryKey;column:review_id" json:"review_id"`
	SubmissionID     int        `gorm:"column:submission_id" json:"submission_id"`
	ReviewerID       int        `gorm:"column:reviewer_id" json:"reviewer_id"`
	InvitationStatus string     `gorm:"column:invitation_status" json:"invitation_status"`
	InvitationSentAt time.Time  `gorm:"column:invitation_sent_at" json:"invitation_sent_at"`
	DeadlineDate     *time.Time `gorm:"column:deadline_date" json:"deadline_date,omitempty"`
	Recommendation   *string    `gorm:"column:recommendation" json:"recommendation,omitempty"`
	CommentsToAuthor *string    `gorm:"column:comments_to_author" json:"comments_to_author,omitempty"`
	CommentsToEditor *string    `gorm:"column:comments_to_editor" json:"comments_to_editor,omitempty"`
	SubmittedAt      *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
