package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/auth"
)

// LoginLimiter tracks failed logins per email.
type LoginLimiter interface {
	LoginBlocked(ctx context.Context, email string) (time.Duration, error)
	LoginFailed(ctx context.Context, email string) (int, error)
	LoginSucceeded(ctx context.Context, email string) error
}

// maxLoginBody bounds how much of the body is buffered to find the email.
const maxLoginBody = 64 << 10

// LoginRateLimit throttles failed logins per email address. The handler's
// status decides: 401 counts as a failure, 200 resets the counter.
func LoginRateLimit(limiter LoginLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLoginBody))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(body, &input); err != nil || input.Email == "" {
			c.Next()
			return
		}
		email := auth.NormalizeEmail(input.Email)
		ctx := c.Request.Context()

		wait, err := limiter.LoginBlocked(ctx, email)
		if err != nil {
			slog.WarnContext(ctx, "login limiter unavailable", "error", err)
		}
		if wait > 0 {
			c.Header("Retry-After", strconv.Itoa(int(wait.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("too many failed attempts, retry in %d minutes", int(wait.Minutes())+1),
				"retry_after": int(wait.Seconds()),
			})
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			remaining, err := limiter.LoginFailed(ctx, email)
			if err != nil {
				slog.WarnContext(ctx, "login limiter unavailable", "error", err)
				return
			}
			slog.InfoContext(ctx, "login failed", "request_id", RequestID(c), "attempts_left", remaining)
		case http.StatusOK:
			if err := limiter.LoginSucceeded(ctx, email); err != nil {
				slog.WarnContext(ctx, "login limiter unavailable", "error", err)
			}
		}
	}
}
