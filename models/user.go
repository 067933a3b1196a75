package models

import (
	"time"
)

type User struct {
	UserID   int     `gorm:"primaryKey;column:user_id" json:"user_id"`
	FullName string  `gorm:"column:full_name" json:"full_name"`
	Email    string  `gorm:"column:email;unique" json:"email"`
	Password string  `gorm:"column:password" json:"-"`
	ORCID    *string `gorm:"column:orcid" json:"orcid,omitempty"`

	// Capabilities are additive flags, not exclusive roles. A user may hold
	// any combination; request flags feed the admin approval queue.
	IsAdmin         bool `gorm:"column:is_admin" json:"is_admin"`
	IsEditor        bool `gorm:"column:is_editor" json:"is_editor"`
	IsReviewer      bool `gorm:"column:is_reviewer" json:"is_reviewer"`
	RequestEditor   bool `gorm:"column:request_editor" json:"request_editor"`
	RequestReviewer bool `gorm:"column:request_reviewer" json:"request_reviewer"`

	Affiliation *string `gorm:"column:affiliation" json:"affiliation,omitempty"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// UserToken stores hashed single-purpose tokens such as password resets.
type UserToken struct {
	TokenID   int        `gorm:"primaryKey;column:token_id" json:"token_id"`
	UserID    int        `gorm:"column:user_id" json:"user_id"`
	TokenHash string     `gorm:"column:token_hash" json:"-"`
	TokenType string     `gorm:"column:token_type" json:"token_type"`
	ExpiresAt time.Time  `gorm:"column:expires_at" json:"expires_at"`
	IsRevoked bool       `gorm:"column:is_revoked" json:"is_revoked"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (UserToken) TableName() string {
	return "user_tokens"
}
