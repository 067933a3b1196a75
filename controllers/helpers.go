package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"journal-management-api/config"
)

func getDB() *gorm.DB { return config.DB }

func getCurrentUserID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(int); ok {
			return id, true
		}
	}
	return 0, false
}

func currentFlag(c *gin.Context, key string) bool {
	if v, ok := c.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func isAdmin(c *gin.Context) bool  { return currentFlag(c, "isAdmin") }
func isEditor(c *gin.Context) bool { return currentFlag(c, "isEditor") || currentFlag(c, "isAdmin") }
