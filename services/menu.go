package services

import (
	"context"
	"math"

	"restaurant-sync/db"
	"restaurant-sync/models"
)

func AddMenuItem(ctx context.Context, name string, price float64) (*models.MenuItem, error) {
	if name == "" {
		return nil, validationErr("name", "is required")
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, validationErr("price", "must be a number")
	}
	if price < 0 {
		return nil, validationErr("price", "must be >= 0")
	}

	var item models.MenuItem
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO menu (name, price) VALUES ($1, $2)
		RETURNING id, name, price`,
		name, price,
	).Scan(&item.ID, &item.Name, &item.Price)
	if err != nil {
		return nil, storageErr("insert", "menu", err)
	}
	return &item, nil
}

func GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	var item models.MenuItem
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, price FROM menu WHERE id = $1`,
		id,
	).Scan(&item.ID, &item.Name, &item.Price)
	if err != nil {
		return nil, storageErr("select", "menu", err)
	}
	return &item, nil
}

// DeleteMenuItem is idempotent: deleting an absent id is a no-op success.
func DeleteMenuItem(ctx context.Context, id int64) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM menu WHERE id = $1`, id); err != nil {
		return storageErr("delete", "menu", err)
	}
	return nil
}

func ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, name, price FROM menu ORDER BY id`)
	if err != nil {
		return nil, storageErr("select", "menu", err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			return nil, storageErr("scan", "menu", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("select", "menu", err)
	}
	return items, nil
}
