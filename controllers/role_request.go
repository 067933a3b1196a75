package controllers

import (
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

type roleRequestPayload struct {
	RequestEditor   *bool `json:"request_editor"`
	RequestReviewer *bool `json:"request_reviewer"`
}

// RequestRoles lets a user ask for editor/reviewer capabilities. The flags
// are requests only; an admin grants or denies them.
func RequestRoles(c *gin.Context) {
	userID, _ := getCurrentUserID(c)

	var req roleRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RequestEditor == nil && req.RequestReviewer == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to request"})
		return
	}

	updates := map[string]interface{}{"update_at": time.Now()}
	if req.RequestEditor != nil {
		updates["request_editor"] = *req.RequestEditor
	}
	if req.RequestReviewer != nil {
		updates["request_reviewer"] = *req.RequestReviewer
	}

	if err := config.DB.Model(&models.User{}).
		Where("user_id = ? AND delete_at IS NULL", userID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetRoleRequests lists users with a pending capability request.
func GetRoleRequests(c *gin.Context) {
	var users []models.User
	if err := config.DB.
		Where("(request_editor = ? OR request_reviewer = ?) AND delete_at IS NULL", true, true).
		Order("update_at ASC").
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch role requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"requests": users,
		"total":    len(users),
	})
}

type resolveRoleRequestPayload struct {
	Role     string `json:"role" binding:"required"`     // editor|reviewer
	Decision string `json:"decision" binding:"required"` // grant|deny
}

// ResolveRoleRequest grants or denies one pending capability request. Either
// way the request flag is cleared; a grant also flips the capability flag.
func ResolveRoleRequest(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil || targetID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req resolveRoleRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	decision := strings.ToLower(strings.TrimSpace(req.Decision))
	if role != "editor" && role != "reviewer" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be 'editor' or 'reviewer'"})
		return
	}
	if decision != "grant" && decision != "deny" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Decision must be 'grant' or 'deny'"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", targetID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{"update_at": time.Now()}
	if role == "editor" {
		updates["request_editor"] = false
		if decision == "grant" {
			updates["is_editor"] = true
		}
	} else {
		updates["request_reviewer"] = false
		if decision == "grant" {
			updates["is_reviewer"] = true
		}
	}

	title := "Role request " + map[string]string{"grant": "approved", "deny": "declined"}[decision]
	message := "Your request for the " + role + " role was " + map[string]string{"grant": "approved.", "deny": "declined."}[decision]
	notifType := "success"
	if decision == "deny" {
		notifType = "warning"
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("user_id = ?", user.UserID).
			Updates(updates).Error; err != nil {
			return err
		}

		notif := models.Notification{
			UserID:   user.UserID,
			Title:    title,
			Message:  message,
			Type:     notifType,
			CreateAt: time.Now(),
		}
		if err := tx.Create(&notif).Error; err != nil {
			return err
		}

		return services.EnqueueEmail(tx, user.Email, title,
			services.FormalEmailHTML(title, user.FullName, message))
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve role request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
