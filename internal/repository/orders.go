package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"petshop_back_end/internal/checkout"
	"petshop_back_end/internal/database"
	"petshop_back_end/internal/models"
)

// itemBatchSize rows go into one multi-row INSERT, which keeps every
// statement well below SQLite's bound variable limit.
const itemBatchSize = 200

// OrderRepo stores orders and their items.
type OrderRepo struct {
	db *database.DB
}

// NewOrderRepo returns an OrderRepo backed by db.
func NewOrderRepo(db *database.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// CreateOrder writes the order header and all of its items in one
// transaction and returns the new order id. Nothing is visible to other
// readers unless every statement succeeds.
func (r *OrderRepo) CreateOrder(ctx context.Context, o models.Order) (int64, error) {
	if len(o.Items) == 0 {
		return 0, errors.New("order has no items")
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = now()
	}
	if o.Status == "" {
		o.Status = models.OrderStatusAwaitingPayment
	}

	var orderID int64
	err := r.db.WithTx(ctx, func(q database.Querier) error {
		err := q.QueryRowContext(ctx,
			`INSERT INTO orders (user_id, order_date, total_price, status) VALUES (?, ?, ?, ?) RETURNING id`,
			o.UserID, o.OrderDate, money(o.TotalPrice), o.Status,
		).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for start := 0; start < len(o.Items); start += itemBatchSize {
			batch := o.Items[start:min(start+itemBatchSize, len(o.Items))]
			values := make([]string, 0, len(batch))
			args := make([]any, 0, len(batch)*4)
			for _, it := range batch {
				values = append(values, "(?, ?, ?, ?)")
				args = append(args, orderID, it.ProductID, it.Quantity, money(it.PriceAtPurchase))
			}

			query := `INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase) VALUES ` + strings.Join(values, ", ")
			if _, err := q.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert order items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// ListByUser returns order headers owned by userID, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := r.db.Q().QueryContext(ctx,
		`SELECT id, user_id, order_date, total_price, status FROM orders WHERE user_id = ? ORDER BY order_date DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderDate, &o.TotalPrice, &o.Status); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// GetForUser loads one order with its items. The owner is part of the
// filter, so another user's order is indistinguishable from a missing one.
func (r *OrderRepo) GetForUser(ctx context.Context, userID, orderID int64) (models.Order, error) {
	var o models.Order
	err := r.db.Q().QueryRowContext(ctx,
		`SELECT id, user_id, order_date, total_price, status FROM orders WHERE id = ? AND user_id = ?`,
		orderID, userID,
	).Scan(&o.ID, &o.UserID, &o.OrderDate, &o.TotalPrice, &o.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, fmt.Errorf("%w: %w", ErrNotFound, checkout.ErrOrderNotFound)
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("select order %d: %w", orderID, err)
	}

	rows, err := r.db.Q().QueryContext(ctx,
		`SELECT id, order_id, product_id, quantity, price_at_purchase FROM order_items WHERE order_id = ? ORDER BY id`,
		o.ID)
	if err != nil {
		return models.Order{}, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.PriceAtPurchase); err != nil {
			return models.Order{}, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return models.Order{}, fmt.Errorf("iterate order items: %w", err)
	}
	return o, nil
}
