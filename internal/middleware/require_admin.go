package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/models"
)

// RequireAdmin must run after AuthRequired.
func RequireAdmin(c *gin.Context) {
	if Role(c) != models.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
		return
	}
	c.Next()
}
