package models

import "time"

// Order is immutable once created. Monetary fields are snapshots rounded to
// currency precision at commit time; VATRate is the process-wide rate in
// effect when the order was placed.
type Order struct {
	ID        string      `json:"order_id"`
	OrderDate time.Time   `json:"order_date"`
	Subtotal  float64     `json:"subtotal"`
	VATRate   float64     `json:"vat_rate"`
	VATAmount float64     `json:"vat_amount"`
	Total     float64     `json:"total"`
	Items     []OrderItem `json:"items"`
}

// OrderItem is one basket line as committed: the dish price at order time
// times the quantity, rounded. Duplicate dish lines in a basket stay
// separate items.
type OrderItem struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"order_id"`
	DishID    string  `json:"dish_id"`
	DishName  string  `json:"dish_name"`
	Quantity  int     `json:"quantity"`
	LinePrice float64 `json:"line_price"`
}

// BasketLine is one unvalidated (dish, quantity) pair submitted to the order
// engine.
type BasketLine struct {
	DishID   string `json:"dish_id"`
	Quantity int    `json:"quantity"`
}

// OrderFilter narrows order listings. DishName matches any contained item's
// dish name after items are loaded; the date bounds are inclusive and
// compare calendar dates only.
type OrderFilter struct {
	DishName  string
	StartDate *time.Time
	EndDate   *time.Time
}
