package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/auth"
	"petshop_back_end/internal/middleware"
	"petshop_back_end/internal/models"
	"petshop_back_end/internal/repository"
)

// UserStore is the account persistence used by the auth and user handlers.
type UserStore interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	UpdateProfile(ctx context.Context, u models.User) (models.User, error)
	SetPasswordHash(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
}

// TokenRevoker invalidates tokens before they expire.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	RevokeUser(ctx context.Context, userID int64, ttl time.Duration) error
}

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	users   UserStore
	issuer  *auth.Issuer
	revoker TokenRevoker
	log     *slog.Logger
}

// NewAuthHandler wires the auth endpoints.
func NewAuthHandler(users UserStore, issuer *auth.Issuer, revoker TokenRevoker, log *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer, revoker: revoker, log: log}
}

const msgBadCredentials = "invalid email or password"

// Register creates a customer account. The role is never taken from the
// request.
func (h *AuthHandler) Register(c *gin.Context) {
	var input struct {
		Email           string `json:"email" binding:"required,email,max=255"`
		Username        string `json:"username" binding:"required,max=255"`
		Password        string `json:"password" binding:"required"`
		Phone           string `json:"phone" binding:"max=20"`
		ProfileImageURL string `json:"profile_image_url" binding:"max=255"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	email := auth.NormalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)
	if username == "" {
		fail(c, http.StatusBadRequest, "username must not be blank")
		return
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		failErr(c, h.log, err)
		return
	}

	u, err := h.users.Create(c.Request.Context(), models.User{
		Email:           email,
		Username:        username,
		PasswordHash:    hash,
		Phone:           strings.TrimSpace(input.Phone),
		ProfileImageURL: strings.TrimSpace(input.ProfileImageURL),
		Role:            models.RoleCustomer,
	})
	if err != nil {
		failErr(c, h.log, err)
		return
	}

	h.log.InfoContext(c.Request.Context(), "user registered", "user_id", u.ID, "request_id", middleware.RequestID(c))
	c.JSON(http.StatusCreated, gin.H{"message": "user registered", "id": u.ID})
}

// Login answers 401 with the same message for unknown emails and wrong
// passwords.
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}
	ctx := c.Request.Context()

	u, err := h.users.GetByEmail(ctx, auth.NormalizeEmail(input.Email))
	if errors.Is(err, repository.ErrNotFound) {
		fail(c, http.StatusUnauthorized, msgBadCredentials)
		return
	}
	if err != nil {
		failErr(c, h.log, err)
		return
	}

	ok, err := auth.VerifyPassword(input.Password, u.PasswordHash)
	if err != nil {
		h.log.WarnContext(ctx, "stored password hash unusable", "user_id", u.ID, "error", err)
	}
	if !ok {
		fail(c, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	if auth.NeedsRehash(u.PasswordHash) {
		if hash, err := auth.HashPassword(input.Password); err == nil {
			if err := h.users.SetPasswordHash(ctx, u.ID, hash); err != nil {
				h.log.WarnContext(ctx, "password rehash failed", "user_id", u.ID, "error", err)
			}
		}
	}

	token, _, err := h.issuer.Issue(u)
	if err != nil {
		failErr(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "login successful",
		"token":      token,
		"expires_in": int(h.issuer.TTL().Seconds()),
		"user":       u,
	})
}

// Logout revokes the presented token for the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		fail(c, http.StatusUnauthorized, "missing token")
		return
	}
	if err := h.revoker.RevokeToken(c.Request.Context(), claims.ID, claims.Remaining(time.Now())); err != nil {
		failErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
