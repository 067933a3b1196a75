// controllers/submission.go
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
	"journal-management-api/utils"
)

// ===================== SUBMISSION INTAKE =====================

type AuthorPayload struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Affiliation *string `json:"affiliation"`
	ORCID       *string `json:"orcid"`
}

type CreateArticleRequest struct {
	Title                    string          `json:"title" binding:"required"`
	Abstract                 string          `json:"abstract" binding:"required"`
	Keywords                 []string        `json:"keywords"`
	CorrespondingAuthorEmail string          `json:"corresponding_author_email" binding:"required,email"`
	Authors                  []AuthorPayload `json:"authors" binding:"required"`
}

func validateAuthors(authors []AuthorPayload) (string, bool) {
	if len(authors) == 0 {
		return "At least one author is required", false
	}
	for i, author := range authors {
		if strings.TrimSpace(author.Name) == "" {
			return fmt.Sprintf("Author %d is missing a name", i+1), false
		}
		if !utils.ValidateEmail(strings.TrimSpace(author.Email)) {
			return fmt.Sprintf("Author %d has an invalid email", i+1), false
		}
	}
	return "", true
}

// CreateArticle creates a draft article with its author list. The draft can
// be edited freely until it is submitted.
func CreateArticle(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if msg, ok := validateAuthors(req.Authors); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	now := time.Now()
	article := models.Article{
		Title:                    utils.SanitizeInput(req.Title),
		Abstract:                 utils.SanitizeInput(req.Abstract),
		Keywords:                 strings.Join(req.Keywords, ","),
		CorrespondingAuthorEmail: strings.TrimSpace(req.CorrespondingAuthorEmail),
		Status:                   services.StatusDraft,
		SubmitterID:              userID,
		CreateAt:                 &now,
		UpdateAt:                 &now,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&article).Error; err != nil {
			return err
		}
		for i, author := range req.Authors {
			row := models.ArticleAuthor{
				ArticleID:   article.ArticleID,
				Name:        strings.TrimSpace(author.Name),
				Email:       strings.TrimSpace(author.Email),
				Affiliation: author.Affiliation,
				ORCID:       author.ORCID,
				AuthorOrder: i + 1,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create article"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"article": article,
	})
}

// UpdateArticle edits a draft. Submitted articles are immutable through this
// endpoint; revisions go through the revision portal.
func UpdateArticle(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil || articleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg, ok := validateAuthors(req.Authors); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var article models.Article
	if err := config.DB.Where("article_id = ? AND submitter_id = ? AND delete_at IS NULL", articleID, userID).
		First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}
	if article.Status != services.StatusDraft {
		c.JSON(http.StatusConflict, gin.H{"error": "Only draft articles can be edited"})
		return
	}

	now := time.Now()
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Article{}).
			Where("article_id = ?", article.ArticleID).
			Updates(map[string]interface{}{
				"title":                      utils.SanitizeInput(req.Title),
				"abstract":                   utils.SanitizeInput(req.Abstract),
				"keywords":                   strings.Join(req.Keywords, ","),
				"corresponding_author_email": strings.TrimSpace(req.CorrespondingAuthorEmail),
				"update_at":                  now,
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("article_id = ?", article.ArticleID).
			Delete(&models.ArticleAuthor{}).Error; err != nil {
			return err
		}
		for i, author := range req.Authors {
			row := models.ArticleAuthor{
				ArticleID:   article.ArticleID,
				Name:        strings.TrimSpace(author.Name),
				Email:       strings.TrimSpace(author.Email),
				Affiliation: author.Affiliation,
				ORCID:       author.ORCID,
				AuthorOrder: i + 1,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update article"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type SubmitArticleRequest struct {
	CoverLetter *string `json:"cover_letter"`
}

// SubmitArticle moves a draft into the editorial pipeline: validates required
// fields, creates the submission row with status submitted, mirrors the
// article status and enqueues author + editor notifications, all in one
// transaction.
func SubmitArticle(c *gin.Context) {
	userID, _ := getCurrentUserID(c)
	articleID, err := strconv.Atoi(c.Param("id"))
	if err != nil || articleID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	var req SubmitArticleRequest
	_ = c.ShouldBindJSON(&req)

	var article models.Article
	if err := config.DB.Preload("Authors").
		Where("article_id = ? AND submitter_id = ? AND delete_at IS NULL", articleID, userID).
		First(&article).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	if article.Status != services.StatusDraft {
		c.JSON(http.StatusConflict, gin.H{"error": "Article has already been submitted"})
		return
	}

	// Required-field checks block submission before any write.
	if strings.TrimSpace(article.Title) == "" || strings.TrimSpace(article.Abstract) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and abstract are required"})
		return
	}
	if article.ManuscriptFileURL == nil || strings.TrimSpace(*article.ManuscriptFileURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A manuscript file must be uploaded before submitting"})
		return
	}
	if len(article.Authors) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one author is required"})
		return
	}
	for _, author := range article.Authors {
		if strings.TrimSpace(author.Name) == "" || !utils.ValidateEmail(author.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Every author needs a name and a valid email"})
			return
		}
	}

	var submitter models.User
	if err := config.DB.Where("user_id = ?", userID).First(&submitter).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit article"})
		return
	}

	now := time.Now()
	submission := models.Submission{
		ArticleID:   article.ArticleID,
		SubmitterID: userID,
		Status:      services.StatusSubmitted,
		SubmittedAt: &now,
		CoverLetter: req.CoverLetter,
		CreateAt:    &now,
		UpdateAt:    &now,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Article{}).
			Where("article_id = ?", article.ArticleID).
			Updates(map[string]interface{}{
				"status":    services.StatusSubmitted,
				"update_at": now,
			}).Error; err != nil {
			return err
		}

		subject := fmt.Sprintf("Submission received: %s", article.Title)
		body := services.FormalEmailHTML(subject, submitter.FullName,
			fmt.Sprintf("Your manuscript \"%s\" has been received and assigned submission #%d. You will be notified when editorial review begins.", article.Title, submission.SubmissionID))
		if err := services.EnqueueEmail(tx, submitter.Email, subject, body); err != nil {
			return err
		}

		var editors []models.User
		if err := tx.Where("is_editor = ? AND delete_at IS NULL", true).Find(&editors).Error; err != nil {
			return err
		}
		for _, editor := range editors {
			editorSubject := fmt.Sprintf("New submission #%d awaiting triage", submission.SubmissionID)
			editorBody := services.FormalEmailHTML(editorSubject, editor.FullName,
				fmt.Sprintf("A new manuscript \"%s\" was submitted by %s.", article.Title, submitter.FullName))
			if err := services.EnqueueEmail(tx, editor.Email, editorSubject, editorBody); err != nil {
				return err
			}
		}

		notif := models.Notification{
			UserID:              userID,
			Title:               "Submission received",
			Message:             fmt.Sprintf("Your manuscript \"%s\" has been submitted.", article.Title),
			Type:                "success",
			RelatedSubmissionID: &submission.SubmissionID,
			CreateAt:            now,
		}
		return tx.Create(&notif).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit article"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"submission": submission,
	})
}

// ===================== SUBMISSION LISTING =====================

// GetSubmissions returns the caller's submissions; editors see all.
func GetSubmissions(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	status := c.Query("status")

	var submissions []models.Submission
	query := config.DB.Preload("Article").
		Preload("Article.Authors").
		Preload("Submitter").
		Where("delete_at IS NULL")

	if !isEditor(c) {
		query = query.Where("submitter_id = ?", userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("create_at DESC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetSubmission returns a specific submission
func GetSubmission(c *gin.Context) {
	submissionID := c.Param("id")
	userID, _ := getCurrentUserID(c)

	query := config.DB.Preload("Article").
		Preload("Article.Authors").
		Preload("Submitter")

	if !isEditor(c) {
		query = query.Where("submitter_id = ?", userID)
	}

	var submission models.Submission
	if err := query.Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	var versions []models.FileVersion
	if err := config.DB.Where("article_id = ?", submission.ArticleID).
		Order("version_number ASC").
		Find(&versions).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"submission":    submission,
			"file_versions": versions,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": submission,
	})
}
