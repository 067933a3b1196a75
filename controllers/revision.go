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

// GetRevisionRequest returns the newest open revision request for a
// submission. Superseded requests remain queryable by editors via the
// decision log but are not served here.
func GetRevisionRequest(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	query := config.DB.Where("submission_id = ? AND delete_at IS NULL", submissionID)
	if !isEditor(c) {
		query = query.Where("submitter_id = ?", userID)
	}
	var submission models.Submission
	if err := query.First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	var request models.RevisionRequest
	if err := config.DB.
		Where("submission_id = ? AND status = ?", submissionID, "open").
		Order("created_at DESC").
		First(&request).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No open revision request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"revision_request": request,
	})
}

// SubmitRevision uploads the revised manuscript and returns the submission to
// peer review. The file version insert, the revision_submitted decision, the
// status change and the notifications land in one transaction.
func SubmitRevision(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var submission models.Submission
	if err := config.DB.
		Where("submission_id = ? AND submitter_id = ? AND delete_at IS NULL", submissionID, userID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}
	if submission.Status != services.StatusRevisionRequested {
		c.JSON(http.StatusConflict, gin.H{"error": "Submission is not awaiting a revision"})
		return
	}

	var request models.RevisionRequest
	if err := config.DB.
		Where("submission_id = ? AND status = ?", submissionID, "open").
		Order("created_at DESC").
		First(&request).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No open revision request"})
		return
	}

	responseNotes := strings.TrimSpace(c.PostForm("response_notes"))
	if responseNotes == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Response notes are required"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A revised manuscript file is required"})
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedManuscriptExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Manuscript must be a PDF or Word document"})
		return
	}

	dir := filepath.Join(uploadBasePath(), "articles", strconv.Itoa(submission.ArticleID))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store manuscript"})
		return
	}
	storedPath := filepath.Join(dir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store manuscript"})
		return
	}

	description := fmt.Sprintf("Revision response to request #%d", request.RevisionRequestID)

	updated, err := services.TransitionSubmission(config.DB, submissionID, services.StatusUnderReview,
		services.TransitionOptions{
			EditorID:          userID,
			DecisionType:      services.DecisionRevisionSubmitted,
			DecisionRationale: responseNotes,
			Extra: func(tx *gorm.DB, s *models.Submission) error {
				now := time.Now()

				version := models.FileVersion{
					ArticleID:       s.ArticleID,
					FileURL:         storedPath,
					UploadedBy:      userID,
					FileDescription: &description,
					UploadedAt:      now,
				}
				if err := services.InsertFileVersion(tx, &version); err != nil {
					return err
				}

				if err := tx.Model(&models.Article{}).
					Where("article_id = ?", s.ArticleID).
					Updates(map[string]interface{}{
						"manuscript_file_url": storedPath,
						"update_at":           now,
					}).Error; err != nil {
					return err
				}

				if err := tx.Model(&models.RevisionRequest{}).
					Where("revision_request_id = ?", request.RevisionRequestID).
					Updates(map[string]interface{}{
						"status":     "responded",
						"updated_at": now,
					}).Error; err != nil {
					return err
				}

				var editors []models.User
				if err := tx.Where("is_editor = ? AND delete_at IS NULL", true).Find(&editors).Error; err != nil {
					return err
				}
				subject := fmt.Sprintf("Revision submitted for submission #%d", s.SubmissionID)
				for _, editor := range editors {
					if err := services.EnqueueEmail(tx, editor.Email, subject,
						services.FormalEmailHTML(subject, editor.FullName,
							"The author has uploaded a revised manuscript; the submission has returned to review.")); err != nil {
						return err
					}
					if err := createSubmissionNotification(tx, editor.UserID, s.SubmissionID,
						"Revision submitted", "A revised manuscript is ready for review.", "info"); err != nil {
						return err
					}
				}
				return nil
			},
		})
	if err != nil {
		_ = os.Remove(storedPath)
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": updated,
	})
}
