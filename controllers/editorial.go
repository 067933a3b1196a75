package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"
)

var editorialBuckets = map[string][]string{
	"submitted":          {services.StatusSubmitted},
	"under_review":       {services.StatusUnderReview},
	"revision_requested": {services.StatusRevisionRequested},
	"decided": {
		services.StatusAccepted,
		services.StatusRejected,
		services.StatusDeskRejected,
		services.StatusInProduction,
		services.StatusCopyediting,
		services.StatusProofreading,
		services.StatusTypesetting,
		services.StatusReadyForPublication,
		services.StatusPublished,
	},
}

// GetEditorialQueue lists submissions grouped into triage buckets.
func GetEditorialQueue(c *gin.Context) {
	bucket := strings.TrimSpace(c.Query("bucket"))
	if bucket == "" {
		bucket = "submitted"
	}

	statuses, ok := editorialBuckets[bucket]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bucket filter"})
		return
	}

	var submissions []models.Submission
	if err := config.DB.Preload("Article").
		Preload("Submitter").
		Where("status IN ? AND delete_at IS NULL", statuses).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"bucket":      bucket,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetEditorialDecisions returns the append-only decision log for a submission.
func GetEditorialDecisions(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var decisions []models.EditorialDecision
	if err := config.DB.Preload("Editor").
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&decisions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch decisions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"decisions": decisions,
		"total":     len(decisions),
	})
}

// submissionMailContext loads the bits needed to compose transition emails.
func submissionMailContext(submissionID int) (article models.Article, submitter models.User, err error) {
	var submission models.Submission
	if err = config.DB.Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		return
	}
	if err = config.DB.Where("article_id = ?", submission.ArticleID).First(&article).Error; err != nil {
		return
	}
	err = config.DB.Where("user_id = ?", submission.SubmitterID).First(&submitter).Error
	return
}

func respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
	}
}

// StartReview moves a submitted manuscript into peer review.
func StartReview(c *gin.Context) {
	editorID, _ := getCurrentUserID(c)
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	article, submitter, err := submissionMailContext(submissionID)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	subject := fmt.Sprintf("Your submission \"%s\" is under review", article.Title)
	submission, err := services.TransitionSubmission(config.DB, submissionID, services.StatusUnderReview,
		services.TransitionOptions{
			EditorID: editorID,
			Emails: []services.OutboxEmail{{
				Recipient: submitter.Email,
				Subject:   subject,
				BodyHTML: services.FormalEmailHTML(subject, submitter.FullName,
					"Your manuscript has passed editorial triage and entered peer review."),
			}},
			Extra: func(tx *gorm.DB, s *models.Submission) error {
				return createSubmissionNotification(tx, submitter.UserID, s.SubmissionID,
					"Review started", "Your manuscript is now under peer review.", "info")
			},
		})
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submission": submission})
}

type decisionRequest struct {
	Rationale string `json:"rationale"`
}

func editorialDecision(c *gin.Context, target, decisionType, notifSubject, notifBody string) {
	editorID, _ := getCurrentUserID(c)
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req decisionRequest
	_ = c.ShouldBindJSON(&req)
	rationale := strings.TrimSpace(req.Rationale)

	article, submitter, err := submissionMailContext(submissionID)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	subject := fmt.Sprintf("%s: %s", notifSubject, article.Title)
	body := notifBody
	if rationale != "" {
		body = fmt.Sprintf("%s\n\nEditor's comments:\n%s", notifBody, rationale)
	}

	notifType := "info"
	switch decisionType {
	case services.DecisionAccept:
		notifType = "success"
	case services.DecisionReject, services.DecisionDeskReject:
		notifType = "error"
	}

	submission, err := services.TransitionSubmission(config.DB, submissionID, target,
		services.TransitionOptions{
			EditorID:          editorID,
			DecisionType:      decisionType,
			DecisionRationale: rationale,
			Emails: []services.OutboxEmail{{
				Recipient: submitter.Email,
				Subject:   subject,
				BodyHTML:  services.FormalEmailHTML(subject, submitter.FullName, body),
			}},
			Extra: func(tx *gorm.DB, s *models.Submission) error {
				return createSubmissionNotification(tx, submitter.UserID, s.SubmissionID,
					notifSubject, notifBody, notifType)
			},
		})
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submission": submission})
}

// AcceptSubmission records an accept decision.
func AcceptSubmission(c *gin.Context) {
	editorialDecision(c, services.StatusAccepted, services.DecisionAccept,
		"Manuscript accepted", "Congratulations, your manuscript has been accepted for publication.")
}

// RejectSubmission records a reject decision.
func RejectSubmission(c *gin.Context) {
	editorialDecision(c, services.StatusRejected, services.DecisionReject,
		"Manuscript rejected", "We regret to inform you that your manuscript was not accepted.")
}

// DeskRejectSubmission rejects without sending to peer review.
func DeskRejectSubmission(c *gin.Context) {
	editorialDecision(c, services.StatusDeskRejected, services.DecisionDeskReject,
		"Manuscript desk-rejected", "Your manuscript was declined at editorial triage without peer review.")
}

type revisionRequestPayload struct {
	RevisionType   string  `json:"revision_type" binding:"required"`
	RequestDetails string  `json:"request_details" binding:"required"`
	DeadlineDate   *string `json:"deadline_date"` // YYYY-MM-DD
}

// RequestRevision asks the author for a minor or major revision. The revision
// request row, the decision entry and the status change land in one
// transaction; older open requests are marked superseded rather than becoming
// unreachable.
func RequestRevision(c *gin.Context) {
	editorID, _ := getCurrentUserID(c)
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req revisionRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	revisionType := strings.ToLower(strings.TrimSpace(req.RevisionType))
	if revisionType != "minor" && revisionType != "major" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Revision type must be 'minor' or 'major'"})
		return
	}

	var deadline *time.Time
	if req.DeadlineDate != nil && strings.TrimSpace(*req.DeadlineDate) != "" {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*req.DeadlineDate))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Deadline must be in YYYY-MM-DD format"})
			return
		}
		deadline = &parsed
	}

	article, submitter, err := submissionMailContext(submissionID)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	subject := fmt.Sprintf("Revision requested: %s", article.Title)
	body := fmt.Sprintf("A %s revision of your manuscript has been requested.\n\n%s", revisionType, req.RequestDetails)

	submission, err := services.TransitionSubmission(config.DB, submissionID, services.StatusRevisionRequested,
		services.TransitionOptions{
			EditorID:          editorID,
			DecisionType:      services.DecisionRevisionRequired,
			DecisionRationale: req.RequestDetails,
			Emails: []services.OutboxEmail{{
				Recipient: submitter.Email,
				Subject:   subject,
				BodyHTML:  services.FormalEmailHTML(subject, submitter.FullName, body),
			}},
			Extra: func(tx *gorm.DB, s *models.Submission) error {
				now := time.Now()
				if err := tx.Model(&models.RevisionRequest{}).
					Where("submission_id = ? AND status = ?", s.SubmissionID, "open").
					Updates(map[string]interface{}{
						"status":     "superseded",
						"updated_at": now,
					}).Error; err != nil {
					return err
				}

				request := models.RevisionRequest{
					SubmissionID:   s.SubmissionID,
					RevisionType:   revisionType,
					RequestDetails: req.RequestDetails,
					DeadlineDate:   deadline,
					Status:         "open",
					CreatedAt:      now,
				}
				if err := tx.Create(&request).Error; err != nil {
					return err
				}

				return createSubmissionNotification(tx, submitter.UserID, s.SubmissionID,
					"Revision requested",
					fmt.Sprintf("A %s revision of your manuscript has been requested.", revisionType),
					"warning")
			},
		})
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submission": submission})
}

func createSubmissionNotification(tx *gorm.DB, userID, submissionID int, title, message, notifType string) error {
	notif := models.Notification{
		UserID:              userID,
		Title:               title,
		Message:             message,
		Type:                notifType,
		RelatedSubmissionID: &submissionID,
		CreateAt:            time.Now(),
	}
	return tx.Create(&notif).Error
}
