package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/checkout"
	"petshop_back_end/internal/middleware"
)

// OrderHandler exposes checkout and order history.
type OrderHandler struct {
	orders *checkout.Service
	log    *slog.Logger
}

// NewOrderHandler wires the order endpoints.
func NewOrderHandler(orders *checkout.Service, log *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

// Create places an order for the authenticated user from {"cart": [...]}.
// Only product ids and quantities are read from the cart.
func (h *OrderHandler) Create(c *gin.Context) {
	var input struct {
		Cart json.RawMessage `json:"cart"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		fail(c, http.StatusBadRequest, "cart is empty or invalid")
		return
	}

	conf, err := h.orders.PlaceOrder(c.Request.Context(), middleware.UserID(c), input.Cart)
	if err != nil {
		failErr(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     conf.Message,
		"orderId":     conf.OrderID,
		"total_price": conf.Total.StringFixed(2),
	})
}

// Mine lists the caller's orders, newest first.
func (h *OrderHandler) Mine(c *gin.Context) {
	orders, err := h.orders.History(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		failErr(c, h.log, err)
		return
	}

	out := make([]orderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, toSummary(o))
	}
	c.JSON(http.StatusOK, out)
}

// Get returns one of the caller's orders with its items. Orders of other
// users are reported as not found.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	o, err := h.orders.Order(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		failErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toDetail(o))
}
