package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/checkout"
	"petshop_back_end/internal/middleware"
	"petshop_back_end/internal/repository"
)

const msgInternal = "internal server error"

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// failErr maps domain errors to a status. Anything unrecognised is a 500
// whose detail only reaches the server log.
func failErr(c *gin.Context, log *slog.Logger, err error) {
	var unknown *checkout.UnknownProductError
	switch {
	case errors.As(err, &unknown):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "product_ids": unknown.IDs})
	case errors.Is(err, checkout.ErrInvalidCart), errors.Is(err, checkout.ErrInvalidQuantity):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrAuthorization):
		fail(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, checkout.ErrOrderNotFound):
		fail(c, http.StatusNotFound, "order not found")
	case errors.Is(err, repository.ErrNotFound):
		fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrDuplicateEmail):
		fail(c, http.StatusConflict, "email already in use")
	case errors.Is(err, repository.ErrProductInUse):
		fail(c, http.StatusConflict, "product is part of existing orders")
	default:
		_ = c.Error(err)
		log.ErrorContext(c.Request.Context(), "request failed",
			"request_id", middleware.RequestID(c),
			"user_id", middleware.UserID(c),
			"route", c.FullPath(),
			"error", err)
		fail(c, http.StatusInternalServerError, msgInternal)
	}
}

// pathID parses the ":id" route parameter as a positive integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
