package models

import "time"

// FileVersion is one uploaded manuscript revision. version_number is assigned
// server-side inside the insert transaction, so it is strictly increasing and
// unique per article.
type FileVersion struct {
	FileVersionID   int       `gorm:"primaryKey;column:file_version_id" json:"file_version_id"`
	ArticleID       int       `gorm:"column:article_id" json:"article_id"`
	FileURL         string    `gorm:"column:file_url" json:"file_url"`
	VersionNumber   int       `gorm:"column:version_number" json:"version_number"`
	UploadedBy      int       `gorm:"column:uploaded_by" json:"uploaded_by"`
	FileDescription *string   `gorm:"column:file_description" json:"file_description,omitempty"`
	UploadedAt      time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`

	Uploader *User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

func (FileVersion) TableName() string {
	return "file_versions"
}
