package services

import (
	"context"
	"encoding/json"

	"restaurant-sync/db"
	"restaurant-sync/models"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ValidOrderStatus reports whether s belongs to the controlled status
// vocabulary. Transitions are not checked here: the mutator is permissive
// and forward-only movement is a policy-layer concern.
func ValidOrderStatus(s string) bool {
	return s == models.OrderStatusPending || s == models.OrderStatusCompleted
}

// EncodeLineItems serializes the name->quantity map to the JSON text stored
// in orders.items and sent on the wire.
func EncodeLineItems(items models.LineItems) (string, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func validateOrderInput(in models.SubmitOrderInput) error {
	if len(in.Items) == 0 {
		return validationErr("items", "at least one line item is required")
	}
	for name, qty := range in.Items {
		if qty <= 0 {
			return validationErr("items", "quantity for "+name+" must be > 0")
		}
	}
	if in.TotalPrice < 0 {
		return validationErr("totalPrice", "must be >= 0")
	}
	return nil
}

func SubmitOrder(ctx context.Context, in models.SubmitOrderInput) (*models.Order, error) {
	if err := validateOrderInput(in); err != nil {
		return nil, err
	}
	itemsJSON, err := EncodeLineItems(in.Items)
	if err != nil {
		return nil, validationErr("items", "not serializable")
	}

	var o models.Order
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO orders (table_number, items, total_price)
		VALUES ($1, $2, $3)
		RETURNING id, order_datetime, table_number, items, total_price, status`,
		in.TableNumber, itemsJSON, in.TotalPrice,
	).Scan(&o.ID, &o.CreatedAt, &o.TableNumber, &o.Items, &o.TotalPrice, &o.Status)
	if err != nil {
		return nil, storageErr("insert", "orders", err)
	}
	return &o, nil
}

func GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := db.Pool.QueryRow(ctx, `
		SELECT id, order_datetime, table_number, items, total_price, status
		FROM orders WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.CreatedAt, &o.TableNumber, &o.Items, &o.TotalPrice, &o.Status)
	if err != nil {
		return nil, storageErr("select", "orders", err)
	}
	return &o, nil
}

// UpdateOrderStatus applies a bare field update. Updating an absent id is a
// no-op success, mirroring the delete contract.
func UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	if !ValidOrderStatus(status) {
		return validationErr("status", "must be pending or completed")
	}
	if _, err := db.Pool.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id); err != nil {
		return storageErr("update", "orders", err)
	}
	return nil
}

// DeleteOrder is idempotent and accepts any order regardless of status.
func DeleteOrder(ctx context.Context, id int64) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return storageErr("delete", "orders", err)
	}
	return nil
}

func ListOrders(ctx context.Context, sort string) ([]models.Order, error) {
	query := `
		SELECT id, order_datetime, table_number, items, total_price, status
		FROM orders ORDER BY id DESC`
	if sort == SortAsc {
		query = `
		SELECT id, order_datetime, table_number, items, total_price, status
		FROM orders ORDER BY id ASC`
	}

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, storageErr("select", "orders", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.CreatedAt, &o.TableNumber, &o.Items, &o.TotalPrice, &o.Status); err != nil {
			return nil, storageErr("scan", "orders", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("select", "orders", err)
	}
	return orders, nil
}
