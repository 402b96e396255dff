package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"petshop_back_end/internal/database"
	"petshop_back_end/internal/models"
)

// ProductRepo stores the catalog and answers price lookups.
type ProductRepo struct {
	db *database.DB
}

// NewProductRepo returns a ProductRepo backed by db.
func NewProductRepo(db *database.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// FetchPrices returns the current unit price of every requested product
// that exists. Long id lists are read in batches. Missing ids are absent
// from the map.
func (r *ProductRepo) FetchPrices(ctx context.Context, ids []int64) (map[int64]decimal.Decimal, error) {
	prices := make(map[int64]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	for start := 0; start < len(ids); start += priceBatchSize {
		if err := r.fetchPrices(ctx, ids[start:min(start+priceBatchSize, len(ids))], prices); err != nil {
			return nil, err
		}
	}
	return prices, nil
}

// priceBatchSize bounds the IN list of one price lookup.
const priceBatchSize = 500

func (r *ProductRepo) fetchPrices(ctx context.Context, ids []int64, into map[int64]decimal.Decimal) error {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := `SELECT id, price FROM products WHERE id IN (` + database.Placeholders(len(ids)) + `)`
	rows, err := r.db.Q().QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("select prices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    int64
			price decimal.Decimal
		)
		if err := rows.Scan(&id, &price); err != nil {
			return fmt.Errorf("scan price: %w", err)
		}
		into[id] = price
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate prices: %w", err)
	}
	return nil
}

const productColumns = `id, title, description, COALESCE(image_url, ''), price, created_at`

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.Price, &p.CreatedAt)
	return p, err
}

// List returns every product, newest first.
func (r *ProductRepo) List(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.Q().QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Get returns ErrNotFound for unknown ids.
func (r *ProductRepo) Get(ctx context.Context, id int64) (models.Product, error) {
	p, err := scanProduct(r.db.Q().QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("select product %d: %w", id, err)
	}
	return p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p models.Product) (models.Product, error) {
	p.CreatedAt = now()
	err := r.db.Q().QueryRowContext(ctx,
		`INSERT INTO products (title, description, image_url, price, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		p.Title, p.Description, nullable(p.ImageURL), money(p.Price), p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

// Update returns ErrNotFound when no product has p.ID.
func (r *ProductRepo) Update(ctx context.Context, p models.Product) error {
	res, err := r.db.Q().ExecContext(ctx,
		`UPDATE products SET title = ?, description = ?, image_url = ?, price = ? WHERE id = ?`,
		p.Title, p.Description, nullable(p.ImageURL), money(p.Price), p.ID)
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return expectOneRow(res)
}

// Delete removes a product. Products referenced by an order item are kept
// by the foreign key and reported as ErrProductInUse.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Q().ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if database.IsForeignKeyViolation(err) {
		return ErrProductInUse
	}
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
