package middleware

import (
	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/auth"
)

const (
	ctxUserID    = "user_id"
	ctxRole      = "role"
	ctxClaims    = "claims"
	ctxRequestID = "request_id"
)

// UserID returns the authenticated user id, or 0 outside AuthRequired.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}

// Role returns the role from the verified token.
func Role(c *gin.Context) string {
	return c.GetString(ctxRole)
}

func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// RequestID returns the id set by RequestIDMiddleware.
func RequestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}
