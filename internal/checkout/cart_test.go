package checkout

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petshop_back_end/internal/models"
)

func TestParseCart(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []models.CartLine
		wantErr error
	}{
		{name: "two lines", raw: `[{"id":1,"quantity":1},{"id":2,"quantity":3}]`,
			want: []models.CartLine{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 3}}},
		{name: "client price ignored", raw: `[{"id":1,"quantity":2,"price":0.01,"title":"x"}]`,
			want: []models.CartLine{{ProductID: 1, Quantity: 2}}},
		{name: "duplicate ids kept as lines", raw: `[{"id":1,"quantity":1},{"id":1,"quantity":2}]`,
			want: []models.CartLine{{ProductID: 1, Quantity: 1}, {ProductID: 1, Quantity: 2}}},
		{name: "empty payload", raw: ``, wantErr: ErrInvalidCart},
		{name: "null", raw: `null`, wantErr: ErrInvalidCart},
		{name: "object", raw: `{"id":1,"quantity":1}`, wantErr: ErrInvalidCart},
		{name: "empty list", raw: `[]`, wantErr: ErrInvalidCart},
		{name: "element not object", raw: `[1,2]`, wantErr: ErrInvalidCart},
		{name: "null element", raw: `[null]`, wantErr: ErrInvalidCart},
		{name: "missing id", raw: `[{"quantity":1}]`, wantErr: ErrInvalidCart},
		{name: "string id", raw: `[{"id":"1","quantity":1}]`, wantErr: ErrInvalidCart},
		{name: "zero id", raw: `[{"id":0,"quantity":1}]`, wantErr: ErrInvalidCart},
		{name: "zero quantity", raw: `[{"id":1,"quantity":0}]`, wantErr: ErrInvalidQuantity},
		{name: "negative quantity", raw: `[{"id":1,"quantity":-2}]`, wantErr: ErrInvalidQuantity},
		{name: "fractional quantity", raw: `[{"id":1,"quantity":1.5}]`, wantErr: ErrInvalidQuantity},
		{name: "string quantity", raw: `[{"id":1,"quantity":"2"}]`, wantErr: ErrInvalidQuantity},
		{name: "missing quantity", raw: `[{"id":1}]`, wantErr: ErrInvalidQuantity},
		{name: "huge quantity", raw: `[{"id":1,"quantity":99999999999}]`, wantErr: ErrInvalidQuantity},
		{name: "second line bad", raw: `[{"id":1,"quantity":1},{"id":2,"quantity":0}]`, wantErr: ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCart(json.RawMessage(tt.raw))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateLines(t *testing.T) {
	assert.ErrorIs(t, ValidateLines(nil), ErrInvalidCart)
	assert.ErrorIs(t, ValidateLines([]models.CartLine{{ProductID: -1, Quantity: 1}}), ErrInvalidCart)
	assert.ErrorIs(t, ValidateLines([]models.CartLine{{ProductID: 1, Quantity: 0}}), ErrInvalidQuantity)
	assert.NoError(t, ValidateLines([]models.CartLine{{ProductID: 1, Quantity: 4}}))
}

func TestCheckExistence(t *testing.T) {
	known := map[int64]decimal.Decimal{1: decimal.RequireFromString("149.90")}
	lines := []models.CartLine{
		{ProductID: 9999, Quantity: 1},
		{ProductID: 1, Quantity: 1},
		{ProductID: 42, Quantity: 1},
		{ProductID: 9999, Quantity: 2},
	}

	err := CheckExistence(lines, known)
	require.ErrorIs(t, err, ErrUnknownProduct)

	var unknown *UnknownProductError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []int64{42, 9999}, unknown.IDs)
	assert.Equal(t, "unknown product: 42, 9999", err.Error())

	assert.NoError(t, CheckExistence(lines[1:2], known))
}

func TestPrice(t *testing.T) {
	prices := map[int64]decimal.Decimal{
		1: decimal.RequireFromString("149.90"),
		2: decimal.RequireFromString("29.90"),
	}

	t.Run("mixed cart", func(t *testing.T) {
		q, err := Price([]models.CartLine{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 3}}, prices)
		require.NoError(t, err)
		assert.Equal(t, "239.60", q.Total.StringFixed(2))
		require.Len(t, q.Lines, 2)
		assert.Equal(t, "89.70", q.Lines[1].LineTotal.StringFixed(2))
	})

	t.Run("repeating decimal is exact", func(t *testing.T) {
		q, err := Price([]models.CartLine{{ProductID: 2, Quantity: 3}}, prices)
		require.NoError(t, err)
		assert.True(t, q.Total.Equal(decimal.RequireFromString("89.7")), q.Total.String())
	})

	t.Run("total equals sum of items", func(t *testing.T) {
		q, err := Price([]models.CartLine{{ProductID: 2, Quantity: 7}, {ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}}, prices)
		require.NoError(t, err)
		sum := decimal.Zero
		for _, it := range q.Items() {
			sum = sum.Add(it.LineTotal())
		}
		assert.True(t, sum.Equal(q.Total))
		assert.Len(t, q.Items(), 3)
	})

	t.Run("missing price", func(t *testing.T) {
		_, err := Price([]models.CartLine{{ProductID: 3, Quantity: 1}}, prices)
		assert.ErrorIs(t, err, ErrUnknownProduct)
	})

	t.Run("total past the money column range", func(t *testing.T) {
		_, err := Price([]models.CartLine{{ProductID: 1, Quantity: 1_000_000}}, prices)
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		q, err := Price([]models.CartLine{{ProductID: 1, Quantity: 100_000}}, prices)
		require.NoError(t, err)
		assert.Equal(t, "14990000.00", q.Total.StringFixed(2))
	})
}

func TestCartLineLimit(t *testing.T) {
	line := `{"id":1,"quantity":1}`
	cart := func(n int) json.RawMessage {
		return json.RawMessage("[" + strings.TrimSuffix(strings.Repeat(line+",", n), ",") + "]")
	}

	lines, err := ParseCart(cart(MaxCartLines))
	require.NoError(t, err)
	assert.Len(t, lines, MaxCartLines)

	_, err = ParseCart(cart(MaxCartLines + 1))
	assert.ErrorIs(t, err, ErrInvalidCart)

	tooMany := make([]models.CartLine, MaxCartLines+1)
	for i := range tooMany {
		tooMany[i] = models.CartLine{ProductID: 1, Quantity: 1}
	}
	assert.ErrorIs(t, ValidateLines(tooMany), ErrInvalidCart)
}

func TestDistinctProductIDs(t *testing.T) {
	ids := DistinctProductIDs([]models.CartLine{{ProductID: 5}, {ProductID: 2}, {ProductID: 5}, {ProductID: 1}})
	assert.Equal(t, []int64{5, 2, 1}, ids)
}

func TestTransactionErrorMatchesCause(t *testing.T) {
	cause := assert.AnError
	err := error(&TransactionError{Err: cause})
	assert.ErrorIs(t, err, ErrTransactionFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, OutcomeTxFailure, outcome(err))
}
