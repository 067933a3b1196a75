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

// AdvanceProduction steps an accepted submission through the production
// pipeline one stage at a time.
func AdvanceProduction(c *gin.Context) {
	editorID, _ := getCurrentUserID(c)
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil || submissionID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	next, ok := services.NextProductionStage(submission.Status)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "Submission is not in a production stage"})
		return
	}

	updated, err := services.TransitionSubmission(config.DB, submissionID, next,
		services.TransitionOptions{
			EditorID: editorID,
			Extra: func(tx *gorm.DB, s *models.Submission) error {
				return createSubmissionNotification(tx, s.SubmitterID, s.SubmissionID,
					"Production update",
					fmt.Sprintf("Your article has moved to the %s stage.", strings.ReplaceAll(next, "_", " ")),
					"info")
			},
		})
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "submission": updated})
}

type publishRequest struct {
	DOI             string  `json:"doi"`
	Volume          string  `json:"volume"`
	Issue           string  `json:"issue"`
	PageStart       *int    `json:"page_start"`
	PageEnd         *int    `json:"page_end"`
	PublicationDate *string `json:"publication_date"` // YYYY-MM-DD, defaults to today
}

// PublishArticle assigns publication metadata and flips the lifecycle to
// published. The DOI is either the supplied one (checked for uniqueness) or a
// freshly minted one. The publication notification targets the submitter's
// user id.
func PublishArticle(c *gin.Context) {
	editorID, _ := getCurrentUserID(c)
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil || articleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var article models.Article
	if err := config.DB.Where("article_id = ? AND delete_at IS NULL", articleID).
		First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	var submission models.Submission
	if err := config.DB.Where("article_id = ? AND delete_at IS NULL", articleID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	pubDate := time.Now()
	if req.PublicationDate != nil && strings.TrimSpace(*req.PublicationDate) != "" {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*req.PublicationDate))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Publication date must be in YYYY-MM-DD format"})
			return
		}
		pubDate = parsed
	}

	doi := strings.TrimSpace(req.DOI)
	if doi == "" {
		doi, err = services.GenerateDOI(config.DB, pubDate.Year())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate DOI"})
			return
		}
	} else {
		exists, err := services.DOIExists(config.DB, doi)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify DOI"})
			return
		}
		if exists {
			c.JSON(http.StatusConflict, gin.H{"error": "DOI is already assigned to another article"})
			return
		}
	}

	var submitter models.User
	if err := config.DB.Where("user_id = ?", submission.SubmitterID).First(&submitter).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish article"})
		return
	}

	subject := fmt.Sprintf("Published: %s", article.Title)
	updated, err := services.TransitionSubmission(config.DB, submission.SubmissionID, services.StatusPublished,
		services.TransitionOptions{
			EditorID: editorID,
			Emails: []services.OutboxEmail{{
				Recipient: submitter.Email,
				Subject:   subject,
				BodyHTML: services.FormalEmailHTML(subject, submitter.FullName,
					fmt.Sprintf("Your article \"%s\" has been published with DOI %s.", article.Title, doi)),
			}},
			Extra: func(tx *gorm.DB, s *models.Submission) error {
				updates := map[string]interface{}{
					"doi":              doi,
					"publication_date": pubDate,
					"update_at":        time.Now(),
				}
				if strings.TrimSpace(req.Volume) != "" {
					updates["volume"] = strings.TrimSpace(req.Volume)
				}
				if strings.TrimSpace(req.Issue) != "" {
					updates["issue"] = strings.TrimSpace(req.Issue)
				}
				if req.PageStart != nil {
					updates["page_start"] = *req.PageStart
				}
				if req.PageEnd != nil {
					updates["page_end"] = *req.PageEnd
				}
				if err := tx.Model(&models.Article{}).
					Where("article_id = ?", article.ArticleID).
					Updates(updates).Error; err != nil {
					return err
				}

				return createSubmissionNotification(tx, s.SubmitterID, s.SubmissionID,
					"Article published",
					fmt.Sprintf("Your article has been published with DOI %s.", doi),
					"success")
			},
		})
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": updated,
		"doi":        doi,
	})
}
