package checkout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"petshop_back_end/internal/models"
)

// PriceOracle returns the current unit price of each id it knows. Missing
// ids are absent from the map.
type PriceOracle interface {
	FetchPrices(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error)
}

// OrderWriter persists an order header and its items atomically.
type OrderWriter interface {
	CreateOrder(ctx context.Context, o models.Order) (int64, error)
}

// OrderReader reads orders scoped to their owner. GetForUser reports
// ErrOrderNotFound for missing orders and for orders of other users.
type OrderReader interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	GetForUser(ctx context.Context, userID, orderID int64) (models.Order, error)
}

// OrderStore is what the Service needs from persistence.
type OrderStore interface {
	OrderWriter
	OrderReader
}

// Notifier is told about committed orders. It must not block for long.
type Notifier interface {
	OrderPlaced(ctx context.Context, o models.Order)
}

// Observer records the outcome of every checkout attempt.
type Observer interface {
	ObserveCheckout(outcome string, elapsed time.Duration, total decimal.Decimal)
}

type nopNotifier struct{}

func (nopNotifier) OrderPlaced(context.Context, models.Order) {}

type nopObserver struct{}

func (nopObserver) ObserveCheckout(string, time.Duration, decimal.Decimal) {}
