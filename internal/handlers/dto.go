package handlers

import (
	"time"

	"petshop_back_end/internal/models"
)

// Money leaves the API as a fixed two-decimal string so clients never see
// binary floating point.

type productResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	Price       string    `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

func toProduct(p models.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.Price.StringFixed(2),
		CreatedAt:   p.CreatedAt,
	}
}

type orderSummary struct {
	ID         int64     `json:"id"`
	OrderDate  time.Time `json:"order_date"`
	TotalPrice string    `json:"total_price"`
	Status     string    `json:"status"`
}

type orderItemResponse struct {
	ProductID       int64  `json:"product_id"`
	Quantity        int    `json:"quantity"`
	PriceAtPurchase string `json:"price_at_purchase"`
	LineTotal       string `json:"line_total"`
}

type orderDetail struct {
	orderSummary
	Items []orderItemResponse `json:"items"`
}

func toSummary(o models.Order) orderSummary {
	return orderSummary{
		ID:         o.ID,
		OrderDate:  o.OrderDate,
		TotalPrice: o.TotalPrice.StringFixed(2),
		Status:     o.Status,
	}
}

func toDetail(o models.Order) orderDetail {
	d := orderDetail{orderSummary: toSummary(o), Items: make([]orderItemResponse, 0, len(o.Items))}
	for _, it := range o.Items {
		d.Items = append(d.Items, orderItemResponse{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase.StringFixed(2),
			LineTotal:       it.LineTotal().StringFixed(2),
		})
	}
	return d
}
