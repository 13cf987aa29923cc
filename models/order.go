package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

// LineItems maps a food item name to the ordered quantity. It is a snapshot
// taken at submission time: deleting a menu item later leaves it untouched.
type LineItems map[string]int

// Order is a row from the orders table. Items holds the line-items map as a
// serialized JSON string, exactly as stored and as sent on the wire.
type Order struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"order_datetime"`
	TableNumber string    `json:"table_number"`
	Items       string    `json:"items"`
	TotalPrice  float64   `json:"total_price"`
	Status      string    `json:"status"`
}

type SubmitOrderInput struct {
	TableNumber string
	Items       LineItems
	TotalPrice  float64
}
