package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petshop_back_end/internal/checkout"
	"petshop_back_end/internal/database"
	"petshop_back_end/internal/database/dbtest"
	"petshop_back_end/internal/models"
	"petshop_back_end/internal/repository"
)

func countRows(t *testing.T, db *database.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Q().QueryRowContext(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestOrderRepo_CreateAndRead(t *testing.T) {
	db := dbtest.Open(t)
	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	orders := repository.NewOrderRepo(db)
	ctx := context.Background()

	u := mustUser(t, users, "a@example.com")
	food := mustProduct(t, products, "food", "149.90")
	ball := mustProduct(t, products, "ball", "29.90")

	id, err := orders.CreateOrder(ctx, models.Order{
		UserID:     u.ID,
		TotalPrice: decimal.RequireFromString("239.60"),
		Items: []models.OrderItem{
			{ProductID: food.ID, Quantity: 1, PriceAtPurchase: food.Price},
			{ProductID: ball.ID, Quantity: 3, PriceAtPurchase: ball.Price},
		},
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := orders.GetForUser(ctx, u.ID, id)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAwaitingPayment, got.Status)
	assert.Equal(t, "239.60", got.TotalPrice.StringFixed(2))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "149.90", got.Items[0].PriceAtPurchase.StringFixed(2))
	assert.Equal(t, "29.90", got.Items[1].PriceAtPurchase.StringFixed(2))

	sum := decimal.Zero
	for _, it := range got.Items {
		sum = sum.Add(it.LineTotal())
	}
	assert.True(t, sum.Equal(got.TotalPrice))
}

func TestOrderRepo_ItemFailureRollsBackHeader(t *testing.T) {
	db := dbtest.Open(t)
	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	orders := repository.NewOrderRepo(db)
	ctx := context.Background()

	u := mustUser(t, users, "a@example.com")
	food := mustProduct(t, products, "food", "10.00")

	// The header insert succeeds, the item insert hits the product foreign key.
	_, err := orders.CreateOrder(ctx, models.Order{
		UserID:     u.ID,
		TotalPrice: decimal.RequireFromString("15.00"),
		Items: []models.OrderItem{
			{ProductID: food.ID, Quantity: 1, PriceAtPurchase: food.Price},
			{ProductID: 9999, Quantity: 1, PriceAtPurchase: decimal.RequireFromString("5.00")},
		},
	})
	require.Error(t, err)
	assert.True(t, database.IsForeignKeyViolation(err))

	assert.Zero(t, countRows(t, db, "orders"))
	assert.Zero(t, countRows(t, db, "order_items"))
	assert.Equal(t, 0, db.Stats().InUse)
}

func TestOrderRepo_ListByUser(t *testing.T) {
	db := dbtest.Open(t)
	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	orders := repository.NewOrderRepo(db)
	ctx := context.Background()

	alice := mustUser(t, users, "alice@example.com")
	bob := mustUser(t, users, "bob@example.com")
	p := mustProduct(t, products, "food", "1.00")

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	place := func(userID int64, at time.Time) int64 {
		id, err := orders.CreateOrder(ctx, models.Order{
			UserID:     userID,
			OrderDate:  at,
			TotalPrice: decimal.RequireFromString("1.00"),
			Items:      []models.OrderItem{{ProductID: p.ID, Quantity: 1, PriceAtPurchase: p.Price}},
		})
		require.NoError(t, err)
		return id
	}

	older := place(alice.ID, base)
	newer := place(alice.ID, base.Add(time.Hour))
	place(bob.ID, base.Add(2*time.Hour))

	list, err := orders.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer, list[0].ID)
	assert.Equal(t, older, list[1].ID)
	for _, o := range list {
		assert.Equal(t, alice.ID, o.UserID)
	}

	none, err := orders.ListByUser(ctx, 4242)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = orders.GetForUser(ctx, bob.ID, older)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, err, checkout.ErrOrderNotFound)
}

func TestOrderRepo_ManyItemsSpanSeveralStatements(t *testing.T) {
	db := dbtest.Open(t)
	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	orders := repository.NewOrderRepo(db)
	ctx := context.Background()

	u := mustUser(t, users, "bulk@example.com")
	ball := mustProduct(t, products, "ball", "1.25")

	// 2500 rows x 4 values is past SQLite's default bound variable limit.
	items := make([]models.OrderItem, 2500)
	for i := range items {
		items[i] = models.OrderItem{ProductID: ball.ID, Quantity: 1, PriceAtPurchase: ball.Price}
	}
	id, err := orders.CreateOrder(ctx, models.Order{
		UserID:     u.ID,
		TotalPrice: decimal.RequireFromString("3125.00"),
		Items:      items,
	})
	require.NoError(t, err)

	got, err := orders.GetForUser(ctx, u.ID, id)
	require.NoError(t, err)
	assert.Len(t, got.Items, len(items))
	assert.Equal(t, len(items), countRows(t, db, "order_items"))
}
