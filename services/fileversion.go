package services

import (
	"journal-management-api/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsertFileVersion assigns the next version number for the article and
// inserts the row. The max read takes a row lock, so two concurrent uploads
// for the same article serialize instead of both reading a stale max. Must be
// called inside a transaction.
func InsertFileVersion(tx *gorm.DB, version *models.FileVersion) error {
	var current struct {
		MaxVersion int
	}
	if err := tx.Model(&models.FileVersion{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("COALESCE(MAX(version_number), 0) AS max_version").
		Where("article_id = ?", version.ArticleID).
		Scan(&current).Error; err != nil {
		return err
	}

	version.VersionNumber = current.MaxVersion + 1
	if version.UploadedAt.IsZero() {
		version.UploadedAt = time.Now()
	}

	return tx.Create(version).Error
}
