package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"petshop_back_end/internal/models"
)

// QuoteLine is one priced cart line.
type QuoteLine struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Quote holds the priced lines of a cart and their sum.
type Quote struct {
	Lines []QuoteLine
	Total decimal.Decimal
}

// Price computes line totals and the order total from authoritative unit
// prices. Everything stays in decimal so the stored total always equals the
// sum of the stored lines.
func Price(lines []models.CartLine, prices map[int64]decimal.Decimal) (Quote, error) {
	if err := CheckExistence(lines, prices); err != nil {
		return Quote{}, err
	}

	q := Quote{
		Lines: make([]QuoteLine, 0, len(lines)),
		Total: decimal.Zero,
	}
	for _, l := range lines {
		unit := prices[l.ProductID]
		lineTotal := unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
		q.Lines = append(q.Lines, QuoteLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: unit,
			LineTotal: lineTotal,
		})
		q.Total = q.Total.Add(lineTotal)
	}
	if q.Total.GreaterThan(models.MaxAmount) {
		return Quote{}, fmt.Errorf("%w: order total %s exceeds %s", ErrInvalidQuantity, q.Total.StringFixed(2), models.MaxAmount.StringFixed(2))
	}
	return q, nil
}

// Items converts the quote into order items carrying the price snapshot.
func (q Quote) Items() []models.OrderItem {
	items := make([]models.OrderItem, len(q.Lines))
	for i, l := range q.Lines {
		items[i] = models.OrderItem{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			PriceAtPurchase: l.UnitPrice,
		}
	}
	return items
}
