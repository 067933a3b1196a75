package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"
)

var allowedManuscriptExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

func uploadBasePath() string {
	base := os.Getenv("UPLOAD_PATH")
	if base == "" {
		base = "./uploads"
	}
	return base
}

// UploadManuscript stores a manuscript file for an article and records it as
// the next file version. The stored name is a UUID so uploads never collide.
func UploadManuscript(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil || articleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	var article models.Article
	if err := config.DB.Where("article_id = ? AND submitter_id = ? AND delete_at IS NULL", articleID, userID).
		First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A manuscript file is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedManuscriptExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Manuscript must be a PDF or Word document"})
		return
	}

	dir := filepath.Join(uploadBasePath(), "articles", strconv.Itoa(articleID))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store manuscript"})
		return
	}

	storedName := uuid.NewString() + ext
	storedPath := filepath.Join(dir, storedName)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store manuscript"})
		return
	}

	description := fmt.Sprintf("Original filename: %s", file.Filename)
	version := models.FileVersion{
		ArticleID:       articleID,
		FileURL:         storedPath,
		UploadedBy:      userID,
		FileDescription: &description,
		UploadedAt:      time.Now(),
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := services.InsertFileVersion(tx, &version); err != nil {
			return err
		}
		return tx.Model(&models.Article{}).
			Where("article_id = ?", articleID).
			Updates(map[string]interface{}{
				"manuscript_file_url": storedPath,
				"update_at":           time.Now(),
			}).Error
	})
	if err != nil {
		// Keep the filesystem consistent with the database.
		_ = os.Remove(storedPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record manuscript version"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"file_version": version,
	})
}

// GetFileVersions lists all manuscript versions for an article.
func GetFileVersions(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil || articleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	query := config.DB.Where("article_id = ? AND delete_at IS NULL", articleID)
	if !isEditor(c) {
		query = query.Where("submitter_id = ?", userID)
	}
	var article models.Article
	if err := query.First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	var versions []models.FileVersion
	if err := config.DB.Preload("Uploader").
		Where("article_id = ?", articleID).
		Order("version_number ASC").
		Find(&versions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch file versions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"versions": versions,
		"total":    len(versions),
	})
}
