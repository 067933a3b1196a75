package controllers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"
	"journal-management-api/utils"
)

const passwordResetTokenTTL = time.Hour

var (
	passwordResetTokenGenerator = func() (string, error) {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		return hex.EncodeToString(buf), nil
	}

	passwordResetRepo passwordResetRepository = &gormPasswordResetRepository{}
)

type passwordResetRepository interface {
	FindUserByEmail(email string) (*models.User, error)
	RevokePasswordResetTokens(tx *gorm.DB, userID int, now time.Time) error
	CreateUserToken(tx *gorm.DB, token *models.UserToken) error
	FindActiveToken(tokenHash string, now time.Time) (*models.UserToken, error)
	UpdateUserPassword(userID int, hashedPassword string, now time.Time) error
	RevokeToken(tokenID int, now time.Time) error
}

type gormPasswordResetRepository struct{}

func (r *gormPasswordResetRepository) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormPasswordResetRepository) RevokePasswordResetTokens(tx *gorm.DB, userID int, now time.Time) error {
	if userID == 0 {
		return nil
	}

	return tx.Model(&models.UserToken{}).
		Where("user_id = ? AND token_type = ? AND is_revoked = ?", userID, "password_reset", false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

func (r *gormPasswordResetRepository) CreateUserToken(tx *gorm.DB, token *models.UserToken) error {
	return tx.Create(token).Error
}

func (r *gormPasswordResetRepository) FindActiveToken(tokenHash string, now time.Time) (*models.UserToken, error) {
	var token models.UserToken
	err := config.DB.Where("token_hash = ? AND token_type = ? AND is_revoked = ? AND expires_at > ?",
		tokenHash, "password_reset", false, now).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *gormPasswordResetRepository) UpdateUserPassword(userID int, hashedPassword string, now time.Time) error {
	return config.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"password":  hashedPassword,
			"update_at": now,
		}).Error
}

func (r *gormPasswordResetRepository) RevokeToken(tokenID int, now time.Time) error {
	return config.DB.Model(&models.UserToken{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ForgotPassword generates a reset token and enqueues the email. The response
// is identical whether or not the email exists.
func ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	genericResponse := gin.H{"message": "If the email is registered, a reset link has been sent"}

	user, err := passwordResetRepo.FindUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusOK, genericResponse)
		return
	}

	rawToken, err := passwordResetTokenGenerator()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reset token"})
		return
	}

	now := time.Now()
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := passwordResetRepo.RevokePasswordResetTokens(tx, user.UserID, now); err != nil {
			return err
		}

		token := models.UserToken{
			UserID:    user.UserID,
			TokenHash: hashResetToken(rawToken),
			TokenType: "password_reset",
			ExpiresAt: now.Add(passwordResetTokenTTL),
			CreatedAt: now,
		}
		if err := passwordResetRepo.CreateUserToken(tx, &token); err != nil {
			return err
		}

		resetURL := fmt.Sprintf("%sreset-password?token=%s", appBaseURL(), rawToken)
		body := services.FormalEmailHTML(
			"Password reset request",
			user.FullName,
			fmt.Sprintf("A password reset was requested for your account. The link below is valid for one hour.\n\n%s\n\nIf you did not request this, you can ignore this email.", resetURL),
		)
		return services.EnqueueEmail(tx, user.Email, "Password reset request", body)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reset token"})
		return
	}

	c.JSON(http.StatusOK, genericResponse)
}

// ResetPassword consumes a reset token and sets the new password.
func ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if strings.TrimSpace(req.Token) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reset token is required"})
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}

	now := time.Now()
	token, err := passwordResetRepo.FindActiveToken(hashResetToken(req.Token), now)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired reset token"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", token.UserID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired reset token"})
		return
	}

	if ok, reason := utils.ValidatePassword(req.NewPassword, user.FullName); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	if err := passwordResetRepo.UpdateUserPassword(user.UserID, hashed, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}
	if err := passwordResetRepo.RevokeToken(token.TokenID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

func appBaseURL() string {
	raw := strings.TrimSpace(os.Getenv("APP_BASE_URL"))
	if raw == "" {
		return "/"
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return raw
}
