package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PriceLookup reads current prices for the audit trail.
type PriceLookup interface {
	FetchPrices(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error)
}

// AuditPriceChanges writes an audit log line when a successful product
// update changes the price.
func AuditPriceChanges(prices PriceLookup, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Next()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		var input struct {
			Price *decimal.Decimal `json:"price"`
		}
		if err := json.Unmarshal(body, &input); err != nil || input.Price == nil {
			c.Next()
			return
		}

		old, err := prices.FetchPrices(c.Request.Context(), []int64{id})
		if err != nil {
			log.WarnContext(c.Request.Context(), "audit: previous price unavailable", "product_id", id, "error", err)
		}
		oldPrice, known := old[id]

		c.Next()

		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}
		if known && oldPrice.Equal(*input.Price) {
			return
		}
		log.InfoContext(c.Request.Context(), "audit: product price changed",
			"request_id", RequestID(c),
			"admin_id", UserID(c),
			"product_id", id,
			"old_price", oldPrice.StringFixed(2),
			"new_price", input.Price.StringFixed(2))
	}
}

// AuditCriticalActions logs the outcome of a sensitive action on the
// resource named by the ":id" route parameter.
func AuditCriticalActions(action, resource string, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		attrs := []any{
			"request_id", RequestID(c),
			"action", action,
			"resource", resource,
			"resource_id", c.Param("id"),
			"actor_id", UserID(c),
			"status", c.Writer.Status(),
		}
		if status := c.Writer.Status(); status >= 200 && status < 300 {
			log.InfoContext(c.Request.Context(), "audit", attrs...)
		} else {
			log.WarnContext(c.Request.Context(), "audit: action failed", attrs...)
		}
	}
}
