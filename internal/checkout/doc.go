// Package checkout turns a client cart into a persisted order.
//
// The flow for one checkout is:
//
//	ParseCart       shape and quantity checks, no I/O
//	PriceOracle     one read of current catalog prices
//	CheckExistence  every referenced product must have a price
//	Price           decimal line totals and order total
//	OrderStore      header and items written in one transaction
//
// Prices come from the PriceOracle only. Anything price-like in the client
// payload is ignored.
package checkout
