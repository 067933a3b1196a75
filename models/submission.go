package models

import "time"

// Submission is the act-of-record linking a submitter to an article for
// review purposes. Its status column is the authoritative lifecycle state;
// articles.status is a mirror maintained transactionally.
type Submission struct {
	SubmissionID int        `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	ArticleID    int        `gorm:"column:article_id" json:"article_id"`
	SubmitterID  int        `gorm:"column:submitter_id" json:"submitter_id"`
	Status       string     `gorm:"column:status" json:"status"`
	SubmittedAt  *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CoverLetter  *string    `gorm:"column:cover_letter" json:"cover_letter,omitempty"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Article   *Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	Submitter *User    `gorm:"foreignKey:SubmitterID" json:"submitter,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}
