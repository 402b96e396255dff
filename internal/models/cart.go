package models

// CartLine is one product/quantity pair submitted at checkout. It only
// lives for the duration of the request.
type CartLine struct {
	ProductID int64 `json:"id"`
	Quantity  int   `json:"quantity"`
}
