package models

// MenuItem is a row from the menu table. Items are only ever created and
// deleted by the admin console; there is no edit operation.
type MenuItem struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
