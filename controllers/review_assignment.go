package controllers

import (
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

// GetReviewers lists users holding the reviewer capability.
func GetReviewers(c *gin.Context) {
	var reviewers []models.User
	if err := config.DB.
		Where("is_reviewer = ? AND delete_at IS NULL", true).
		Order("full_name ASC").
		Find(&reviewers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviewers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"reviewers": reviewers,
		"total":     len(reviewers),
	})
}

type assignReviewersRequest struct {
	ReviewerIDs  []int   `json:"reviewer_ids" binding:"required"`
	DeadlineDate *string `json:"deadline_date"` // YYYY-MM-DD
}

// AssignReviewers bulk-invites reviewers to a submission. Pairs that already
// have a review row are skipped and reported, never duplicated.
func AssignReviewers(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req assignReviewersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.ReviewerIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one reviewer is required"})
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

	var submission models.Submission
	if err := config.DB.Preload("Article").
		Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}
	if submission.Status != services.StatusUnderReview {
		c.JSON(http.StatusConflict, gin.H{"error": "Reviewers can only be assigned while a submission is under review"})
		return
	}

	var reviewers []models.User
	if err := config.DB.
		Where("user_id IN ? AND is_reviewer = ? AND delete_at IS NULL", req.ReviewerIDs, true).
		Find(&reviewers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviewers"})
		return
	}
	if len(reviewers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid reviewers in the selection"})
		return
	}

	articleTitle := ""
	if submission.Article != nil {
		articleTitle = submission.Article.Title
	}

	assigned := make([]models.Review, 0, len(reviewers))
	skipped := make([]int, 0)

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, reviewer := range reviewers {
			var existing int64
			if err := tx.Model(&models.Review{}).
				Where("submission_id = ? AND reviewer_id = ?", submissionID, reviewer.UserID).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				skipped = append(skipped, reviewer.UserID)
				continue
			}

			review := models.Review{
				SubmissionID:     submissionID,
				ReviewerID:       reviewer.UserID,
				InvitationStatus: services.ReviewInvited,
				InvitationSentAt: now,
				DeadlineDate:     deadline,
				CreateAt:         &now,
				UpdateAt:         &now,
			}
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
			assigned = append(assigned, review)

			subject := fmt.Sprintf("Review invitation: %s", articleTitle)
			body := services.FormalEmailHTML(subject, reviewer.FullName,
				fmt.Sprintf("You have been invited to review the manuscript \"%s\". Please accept or decline the invitation.", articleTitle))
			if err := services.EnqueueEmail(tx, reviewer.Email, subject, body); err != nil {
				return err
			}
			if err := createSubmissionNotification(tx, reviewer.UserID, submissionID,
				"Review invitation",
				fmt.Sprintf("You have been invited to review \"%s\".", articleTitle),
				"info"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign reviewers"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"assigned": assigned,
		"skipped":  skipped,
	})
}

type invitationResponse struct {
	Response string `json:"response" binding:"required"` // accept|decline
}

// RespondToInvitation lets a reviewer accept or decline an invitation.
func RespondToInvitation(c *gin.Context) {
	reviewerID, _ := getCurrentUserID(c)
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var req invitationResponse
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target := ""
	switch strings.ToLower(strings.TrimSpace(req.Response)) {
	case "accept":
		target = services.ReviewAccepted
	case "decline":
		target = services.ReviewDeclined
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Response must be 'accept' or 'decline'"})
		return
	}

	var review models.Review
	if err := config.DB.
		Where("review_id = ? AND reviewer_id = ?", reviewID, reviewerID).
		First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	if !services.CanReviewTransition(review.InvitationStatus, target) {
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation has already been answered"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.Review{}).
		Where("review_id = ?", review.ReviewID).
		Updates(map[string]interface{}{
			"invitation_status": target,
			"update_at":         now,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "invitation_status": target})
}
