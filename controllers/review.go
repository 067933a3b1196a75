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

// GetMyReviews lists the caller's review assignments.
func GetMyReviews(c *gin.Context) {
	reviewerID, _ := getCurrentUserID(c)

	status := strings.TrimSpace(c.Query("status"))

	var reviews []models.Review
	query := config.DB.Where("reviewer_id = ?", reviewerID)
	if status != "" {
		query = query.Where("invitation_status = ?", status)
	}
	if err := query.Order("invitation_sent_at DESC").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// GetReview returns one review. Reviewers see their own; editors see all.
func GetReview(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	query := config.DB.Preload("Reviewer").Where("review_id = ?", reviewID)
	if !isEditor(c) {
		query = query.Where("reviewer_id = ?", userID)
	}

	var review models.Review
	if err := query.First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"review":    review,
		"read_only": review.InvitationStatus == services.ReviewCompleted,
	})
}

type reviewFormPayload struct {
	Recommendation   *string `json:"recommendation"`
	CommentsToAuthor *string `json:"comments_to_author"`
	CommentsToEditor *string `json:"comments_to_editor"`
}

func loadOwnReview(c *gin.Context, reviewID int) (*models.Review, bool) {
	reviewerID, _ := getCurrentUserID(c)

	var review models.Review
	if err := config.DB.
		Where("review_id = ? AND reviewer_id = ?", reviewID, reviewerID).
		First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return nil, false
	}

	switch review.InvitationStatus {
	case services.ReviewCompleted:
		c.JSON(http.StatusConflict, gin.H{"error": services.ErrReviewReadOnly.Error()})
		return nil, false
	case services.ReviewDeclined:
		c.JSON(http.StatusConflict, gin.H{"error": "Declined invitations cannot be edited"})
		return nil, false
	case services.ReviewInvited:
		c.JSON(http.StatusConflict, gin.H{"error": "Accept the invitation before writing the review"})
		return nil, false
	}

	return &review, true
}

// SaveReviewDraft stores the form without completing the review. submitted_at
// is never touched here.
func SaveReviewDraft(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var req reviewFormPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, ok := loadOwnReview(c, reviewID)
	if !ok {
		return
	}

	if req.Recommendation != nil && strings.TrimSpace(*req.Recommendation) != "" &&
		!services.ValidRecommendation(strings.TrimSpace(*req.Recommendation)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recommendation"})
		return
	}

	updates := map[string]interface{}{"update_at": time.Now()}
	if req.Recommendation != nil {
		updates["recommendation"] = strings.TrimSpace(*req.Recommendation)
	}
	if req.CommentsToAuthor != nil {
		updates["comments_to_author"] = *req.CommentsToAuthor
	}
	if req.CommentsToEditor != nil {
		updates["comments_to_editor"] = *req.CommentsToEditor
	}

	if err := config.DB.Model(&models.Review{}).
		Where("review_id = ?", review.ReviewID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SubmitReview completes a review: recommendation and author-facing comments
// are mandatory, submitted_at is stamped, and the row becomes read-only.
func SubmitReview(c *gin.Context) {
	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil || reviewID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var req reviewFormPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, ok := loadOwnReview(c, reviewID)
	if !ok {
		return
	}

	// Body values win over the stored draft.
	recommendation := ""
	if review.Recommendation != nil {
		recommendation = *review.Recommendation
	}
	if req.Recommendation != nil {
		recommendation = strings.TrimSpace(*req.Recommendation)
	}

	commentsToAuthor := ""
	if review.CommentsToAuthor != nil {
		commentsToAuthor = *review.CommentsToAuthor
	}
	if req.CommentsToAuthor != nil {
		commentsToAuthor = *req.CommentsToAuthor
	}

	if !services.ValidRecommendation(recommendation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A recommendation is required"})
		return
	}
	if strings.TrimSpace(commentsToAuthor) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comments to the author are required"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"invitation_status":  services.ReviewCompleted,
		"recommendation":     recommendation,
		"comments_to_author": commentsToAuthor,
		"submitted_at":       now,
		"update_at":          now,
	}
	if req.CommentsToEditor != nil {
		updates["comments_to_editor"] = *req.CommentsToEditor
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Review{}).
			Where("review_id = ?", review.ReviewID).
			Updates(updates).Error; err != nil {
			return err
		}

		var editors []models.User
		if err := tx.Where("is_editor = ? AND delete_at IS NULL", true).Find(&editors).Error; err != nil {
			return err
		}
		subject := fmt.Sprintf("Review completed for submission #%d", review.SubmissionID)
		message := fmt.Sprintf("A reviewer has submitted a %q recommendation.", recommendation)
		for _, editor := range editors {
			if err := services.EnqueueEmail(tx, editor.Email, subject,
				services.FormalEmailHTML(subject, editor.FullName, message)); err != nil {
				return err
			}
			if err := createSubmissionNotification(tx, editor.UserID, review.SubmissionID,
				"Review completed", message, "info"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submitted_at": now})
}

// GetSubmissionReviews lists all reviews for a submission (editor view).
func GetSubmissionReviews(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var reviews []models.Review
	if err := config.DB.Preload("Reviewer").
		Where("submission_id = ?", submissionID).
		Order("invitation_sent_at ASC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": reviews,
		"total":   len(reviews),
	})
}
