package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/auth"
	"petshop_back_end/internal/middleware"
	"petshop_back_end/internal/models"
)

// UserHandler serves the caller's own profile.
type UserHandler struct {
	users   UserStore
	issuer  *auth.Issuer
	revoker TokenRevoker
	log     *slog.Logger
}

func NewUserHandler(users UserStore, issuer *auth.Issuer, revoker TokenRevoker, log *slog.Logger) *UserHandler {
	return &UserHandler{users: users, issuer: issuer, revoker: revoker, log: log}
}

// Me returns the authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.users.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		failErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ownID resolves ":id" and makes sure it is the caller's own account.
func ownID(c *gin.Context) (int64, bool) {
	id, ok := pathID(c)
	if !ok {
		return 0, false
	}
	if id != middleware.UserID(c) {
		fail(c, http.StatusForbidden, "you can only change your own profile")
		return 0, false
	}
	return id, true
}

// Update edits username, email and phone of the caller's own account.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := ownID(c)
	if !ok {
		return
	}

	var input struct {
		Username string `json:"username" binding:"required,max=255"`
		Email    string `json:"email" binding:"required,email,max=255"`
		Phone    string `json:"phone" binding:"required,max=20"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	u := models.User{
		ID:       id,
		Username: strings.TrimSpace(input.Username),
		Email:    auth.NormalizeEmail(input.Email),
		Phone:    strings.TrimSpace(input.Phone),
	}
	if u.Username == "" || u.Phone == "" {
		fail(c, http.StatusBadRequest, "username and phone must not be blank")
		return
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), u)
	if err != nil {
		failErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "user": updated})
}

// Delete removes the caller's account together with its orders and
// revokes every token issued to it.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := ownID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if err := h.users.Delete(ctx, id); err != nil {
		failErr(c, h.log, err)
		return
	}
	if err := h.revoker.RevokeUser(ctx, id, h.issuer.TTL()); err != nil {
		h.log.WarnContext(ctx, "token revocation after account deletion failed", "user_id", id, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
