package repository_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"petshop_back_end/internal/models"
	"petshop_back_end/internal/repository"
)

func mustUser(t *testing.T, users *repository.UserRepo, email string) models.User {
	t.Helper()
	u, err := users.Create(context.Background(), models.User{Email: email, Username: email, PasswordHash: "x"})
	require.NoError(t, err)
	return u
}

func mustProduct(t *testing.T, products *repository.ProductRepo, title, price string) models.Product {
	t.Helper()
	p, err := products.Create(context.Background(), models.Product{
		Title:       title,
		Description: title + " description",
		Price:       decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return p
}
