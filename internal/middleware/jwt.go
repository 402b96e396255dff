package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/auth"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// RevocationChecker reports logged-out tokens and deleted accounts.
// Enabled is false when the backing store is not configured.
type RevocationChecker interface {
	Enabled() bool
	IsRevoked(ctx context.Context, jti string, userID int64, issuedAt time.Time) (bool, error)
}

// AccountChecker confirms that the account behind a token still exists.
type AccountChecker interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

// AuthRequired accepts "Authorization: Bearer <token>" and puts the verified
// user id, role and claims in the gin context. Identity never comes from
// the request body. accounts is consulted when revocations cannot answer.
func AuthRequired(tokens TokenParser, revocations RevocationChecker, accounts AccountChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			slog.DebugContext(c.Request.Context(), "token rejected", "request_id", RequestID(c), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx := c.Request.Context()
		checked := false
		if revocations != nil && revocations.Enabled() {
			var issuedAt time.Time
			if claims.IssuedAt != nil {
				issuedAt = claims.IssuedAt.Time
			}
			revoked, err := revocations.IsRevoked(ctx, claims.ID, claims.UserID, issuedAt)
			if err != nil {
				slog.WarnContext(ctx, "revocation check failed", "request_id", RequestID(c), "error", err)
			} else {
				checked = true
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
				return
			}
		}

		// Without a revocation list a deleted account would keep its tokens.
		if !checked && accounts != nil {
			exists, err := accounts.Exists(ctx, claims.UserID)
			if err != nil {
				slog.ErrorContext(ctx, "account check failed", "request_id", RequestID(c), "user_id", claims.UserID, "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
				return
			}
			if !exists {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
				return
			}
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}
