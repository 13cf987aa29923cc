package engine

import (
	"context"

	"restaurant-sync/models"
	"restaurant-sync/services"
)

// Store is the narrow mutator/reader contract the engine drives. The
// production implementation delegates to the services package; tests swap in
// an in-memory one.
type Store interface {
	AddMenuItem(ctx context.Context, name string, price float64) (*models.MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int64) error
	ListMenu(ctx context.Context) ([]models.MenuItem, error)

	SubmitOrder(ctx context.Context, in models.SubmitOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status string) error
	DeleteOrder(ctx context.Context, id int64) error
	ListOrders(ctx context.Context, sort string) ([]models.Order, error)
}

// PGStore is the postgres-backed Store over db.Pool.
type PGStore struct{}

func NewPGStore() PGStore { return PGStore{} }

func (PGStore) AddMenuItem(ctx context.Context, name string, price float64) (*models.MenuItem, error) {
	return services.AddMenuItem(ctx, name, price)
}

func (PGStore) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	return services.GetMenuItem(ctx, id)
}

func (PGStore) DeleteMenuItem(ctx context.Context, id int64) error {
	return services.DeleteMenuItem(ctx, id)
}

func (PGStore) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	return services.ListMenu(ctx)
}

func (PGStore) SubmitOrder(ctx context.Context, in models.SubmitOrderInput) (*models.Order, error) {
	return services.SubmitOrder(ctx, in)
}

func (PGStore) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return services.GetOrder(ctx, id)
}

func (PGStore) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	return services.UpdateOrderStatus(ctx, id, status)
}

func (PGStore) DeleteOrder(ctx context.Context, id int64) error {
	return services.DeleteOrder(ctx, id)
}

func (PGStore) ListOrders(ctx context.Context, sort string) ([]models.Order, error) {
	return services.ListOrders(ctx, sort)
}
