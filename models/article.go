package models

import "time"

type Article struct {
	ArticleID                int     `gorm:"primaryKey;column:article_id" json:"article_id"`
	Title                    string  `gorm:"column:title" json:"title"`
	Abstract                 string  `gorm:"column:abstract" json:"abstract"`
	Keywords                 string  `gorm:"column:keywords" json:"keywords"` // comma-joined
	CorrespondingAuthorEmail string  `gorm:"column:corresponding_author_email" json:"corresponding_author_email"`
	ManuscriptFileURL        *string `gorm:"column:manuscript_file_url" json:"manuscript_file_url,omitempty"`

	// Status mirrors the owning submission's status. Both columns are written
	// inside one transaction by services.TransitionSubmission.
	Status string `gorm:"column:status" json:"status"`

	DOI             *string    `gorm:"column:doi" json:"doi,omitempty"`
	Volume          *string    `gorm:"column:volume" json:"volume,omitempty"`
	Issue           *string    `gorm:"column:issue" json:"issue,omitempty"`
	PageStart       *int       `gorm:"column:page_start" json:"page_start,omitempty"`
	PageEnd         *int       `gorm:"column:page_end" json:"page_end,omitempty"`
	PublicationDate *time.Time `gorm:"column:publication_date" json:"publication_date,omitempty"`

	VettingFeePaid    bool `gorm:"column:vetting_fee_paid" json:"vetting_fee_paid"`
	ProcessingFeePaid bool `gorm:"column:processing_fee_paid" json:"processing_fee_paid"`

	SubmitterID int `gorm:"column:submitter_id" json:"submitter_id"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Authors []ArticleAuthor `gorm:"foreignKey:ArticleID" json:"authors,omitempty"`
}

type ArticleAuthor struct {
	AuthorID    int     `gorm:"primaryKey;column:author_id" json:"author_id"`
	ArticleID   int     `gorm:"column:article_id" json:"article_id"`
	Name        string  `gorm:"column:name" json:"name"`
	Email       string  `gorm:"column:email" json:"email"`
	Affiliation *string `gorm:"column:affiliation" json:"affiliation,omitempty"`
	ORCID       *string `gorm:"column:orcid" json:"orcid,omitempty"`
	AuthorOrder int     `gorm:"column:author_order" json:"author_order"`
}

// TableName overrides
func (Article) TableName() string {
	return "articles"
}

func (ArticleAuthor) TableName() string {
	return "article_authors"
}
