package checkout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"petshop_back_end/internal/models"
)

// maxQuantity keeps quantities inside a 32-bit INTEGER column.
const maxQuantity = math.MaxInt32

// MaxCartLines bounds the number of lines one order may carry.
const MaxCartLines = 500

// ParseCart decodes a client cart: a non-empty JSON array of objects with
// an integer "id" and an integer "quantity". Other fields, a client price
// included, are dropped.
func ParseCart(raw json.RawMessage) ([]models.CartLine, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: cart must be a list", ErrInvalidCart)
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: cart items must be objects", ErrInvalidCart)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidCart)
	}
	if len(items) > MaxCartLines {
		return nil, fmt.Errorf("%w: cart has more than %d lines", ErrInvalidCart, MaxCartLines)
	}

	lines := make([]models.CartLine, 0, len(items))
	for i, item := range items {
		id, ok := parseInteger(item["id"])
		if !ok || id <= 0 {
			return nil, fmt.Errorf("%w: item %d has no valid product id", ErrInvalidCart, i)
		}
		qty, ok := parseInteger(item["quantity"])
		if !ok || qty <= 0 || qty > maxQuantity {
			return nil, fmt.Errorf("%w: product %d needs a positive integer quantity", ErrInvalidQuantity, id)
		}
		lines = append(lines, models.CartLine{ProductID: id, Quantity: int(qty)})
	}
	return lines, nil
}

// parseInteger accepts a bare JSON integer. Fractions, exponents, strings
// and null are rejected.
func parseInteger(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return 0, false
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ValidateLines applies the ParseCart rules to lines built in code.
func ValidateLines(lines []models.CartLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: cart is empty", ErrInvalidCart)
	}
	if len(lines) > MaxCartLines {
		return fmt.Errorf("%w: cart has more than %d lines", ErrInvalidCart, MaxCartLines)
	}
	for i, l := range lines {
		if l.ProductID <= 0 {
			return fmt.Errorf("%w: item %d has no valid product id", ErrInvalidCart, i)
		}
		if l.Quantity <= 0 || l.Quantity > maxQuantity {
			return fmt.Errorf("%w: product %d needs a positive integer quantity", ErrInvalidQuantity, l.ProductID)
		}
	}
	return nil
}

// CheckExistence fails with *UnknownProductError when a line refers to a
// product missing from known.
func CheckExistence(lines []models.CartLine, known map[int64]decimal.Decimal) error {
	var missing []int64
	for _, l := range lines {
		if _, ok := known[l.ProductID]; !ok && !slices.Contains(missing, l.ProductID) {
			missing = append(missing, l.ProductID)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return &UnknownProductError{IDs: missing}
}

// DistinctProductIDs lists each product id once, in first-seen order.
func DistinctProductIDs(lines []models.CartLine) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}
