package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"petshop_back_end/internal/models"
)

// ConfirmationMessage is returned with every placed order.
const ConfirmationMessage = "Order placed successfully"

// Outcome labels reported to the Observer.
const (
	OutcomeOK             = "ok"
	OutcomeInvalidCart    = "invalid_cart"
	OutcomeInvalidQty     = "invalid_quantity"
	OutcomeUnknownProduct = "unknown_product"
	OutcomeTxFailure      = "transaction_failure"
	OutcomeUnauthorized   = "unauthorized"
	OutcomeError          = "error"
)

// Confirmation describes a committed order.
type Confirmation struct {
	OrderID int64
	Message string
	Total   decimal.Decimal
}

// Service places orders and reads them back for their owner.
type Service struct {
	prices   PriceOracle
	orders   OrderStore
	notifier Notifier
	observer Observer
	log      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets who hears about committed orders.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithObserver sets where checkout outcomes are recorded.
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService builds a Service with no-op notifier and observer unless
// options say otherwise.
func NewService(prices PriceOracle, orders OrderStore, opts ...Option) *Service {
	s := &Service{
		prices:   prices,
		orders:   orders,
		notifier: nopNotifier{},
		observer: nopObserver{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder validates the raw cart, prices it from the oracle and writes
// the order in a single transaction. Nothing is written unless every step
// succeeds.
func (s *Service) PlaceOrder(ctx context.Context, userID int64, raw json.RawMessage) (Confirmation, error) {
	start := time.Now()
	conf, err := s.placeOrder(ctx, userID, raw)
	s.observer.ObserveCheckout(outcome(err), time.Since(start), conf.Total)
	return conf, err
}

func (s *Service) placeOrder(ctx context.Context, userID int64, raw json.RawMessage) (Confirmation, error) {
	if userID <= 0 {
		return Confirmation{}, ErrAuthorization
	}

	lines, err := ParseCart(raw)
	if err != nil {
		return Confirmation{}, err
	}
	return s.place(ctx, userID, lines)
}

func (s *Service) place(ctx context.Context, userID int64, lines []models.CartLine) (Confirmation, error) {
	if err := ValidateLines(lines); err != nil {
		return Confirmation{}, err
	}
	prices, err := s.prices.FetchPrices(ctx, DistinctProductIDs(lines))
	if err != nil {
		return Confirmation{}, err
	}

	quote, err := Price(lines, prices)
	if err != nil {
		return Confirmation{}, err
	}

	order := models.Order{
		UserID:     userID,
		TotalPrice: quote.Total,
		Status:     models.OrderStatusAwaitingPayment,
		Items:      quote.Items(),
	}
	orderID, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		s.log.ErrorContext(ctx, "order transaction failed",
			slog.Int64("user_id", userID),
			slog.Int("lines", len(lines)),
			slog.Any("error", err))
		return Confirmation{}, &TransactionError{Err: err}
	}

	order.ID = orderID
	for i := range order.Items {
		order.Items[i].OrderID = orderID
	}
	s.log.InfoContext(ctx, "order placed",
		slog.Int64("order_id", orderID),
		slog.Int64("user_id", userID),
		slog.String("total", quote.Total.StringFixed(2)))
	s.notifier.OrderPlaced(ctx, order)

	return Confirmation{
		OrderID: orderID,
		Message: ConfirmationMessage,
		Total:   quote.Total,
	}, nil
}

// History lists the caller's orders, newest first. The result is never nil.
func (s *Service) History(ctx context.Context, userID int64) ([]models.Order, error) {
	if userID <= 0 {
		return nil, ErrAuthorization
	}
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// Order returns one of the caller's orders with its items.
func (s *Service) Order(ctx context.Context, userID, orderID int64) (models.Order, error) {
	if userID <= 0 {
		return models.Order{}, ErrAuthorization
	}
	if orderID <= 0 {
		return models.Order{}, ErrOrderNotFound
	}
	return s.orders.GetForUser(ctx, userID, orderID)
}

func outcome(err error) string {
	var txErr *TransactionError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInvalidCart):
		return OutcomeInvalidCart
	case errors.Is(err, ErrInvalidQuantity):
		return OutcomeInvalidQty
	case errors.Is(err, ErrUnknownProduct):
		return OutcomeUnknownProduct
	case errors.As(err, &txErr):
		return OutcomeTxFailure
	case errors.Is(err, ErrAuthorization):
		return OutcomeUnauthorized
	default:
		return OutcomeError
	}
}
