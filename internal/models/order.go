package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusAwaitingPayment is the status every order is created with.
// Later transitions belong to the fulfillment side.
const OrderStatusAwaitingPayment = "awaiting payment"

// MaxAmount is the largest value a NUMERIC(10,2) money column holds. Prices
// and order totals above it are rejected before they reach the store.
var MaxAmount = decimal.New(9999999999, -2)

// Order is a placed order. TotalPrice equals the sum of its item line totals.
type Order struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	OrderDate  time.Time       `json:"order_date"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status"`
	Items      []OrderItem     `json:"items,omitempty"`
}

// OrderItem is immutable once written. PriceAtPurchase is the unit price
// read at checkout time and is never refreshed from the catalog.
type OrderItem struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"order_id"`
	ProductID       int64           `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// LineTotal returns Quantity x PriceAtPurchase.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
