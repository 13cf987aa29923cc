package engine

import (
	"context"
	"log/slog"
	"sync"

	"restaurant-sync/models"
	"restaurant-sync/realtime"
	"restaurant-sync/services"
)

// Event names pushed to viewers. Customer and admin pages key off these
// exact strings.
const (
	EventNewFoodItem     = "newFoodItem"
	EventFoodItemDeleted = "foodItemDeleted"
	EventNewOrder        = "newOrder"
	EventOrderUpdated    = "orderUpdated"
	EventOrderDeleted    = "orderDeleted"
	EventInitialMenu     = "initialMenu"
	EventInitialOrders   = "initialOrders"
)

// RobotDispatcher sends the delivery robot to a table. Fire-and-forget.
type RobotDispatcher interface {
	Dispatch(ctx context.Context, tableNumber string) error
}

// ReceiptSender mails an order receipt. Fire-and-forget.
type ReceiptSender interface {
	SendReceipt(to string, o *models.Order) error
}

// OrderNotifier tells the staff channel about a new order. Fire-and-forget.
type OrderNotifier interface {
	NotifyNewOrder(o *models.Order) error
}

// Engine wires mutations to broadcasts: every successful mutation runs as a
// [mutate -> re-read -> broadcast] chain under one mutex, and every new
// connection gets its snapshot under the same mutex. That single lock is
// what keeps a snapshot from going stale against a concurrent broadcast and
// keeps per-record broadcasts in commit order.
//
// Robot, Mailer and Notifier are nil-safe: leave them nil to disable.
type Engine struct {
	mu    sync.Mutex
	store Store
	hub   *realtime.Hub

	Robot    RobotDispatcher
	Mailer   ReceiptSender
	Notifier OrderNotifier
}

func New(store Store, hub *realtime.Hub) *Engine {
	return &Engine{store: store, hub: hub}
}

// AddMenuItem inserts the item and broadcasts newFoodItem with the record
// re-read from the store.
func (e *Engine) AddMenuItem(ctx context.Context, name string, price float64) (*models.MenuItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, err := e.store.AddMenuItem(ctx, name, price)
	if err != nil {
		return nil, err
	}
	fresh, err := e.store.GetMenuItem(ctx, item.ID)
	if err != nil {
		// The insert committed; only the broadcast is lost.
		slog.Error("re-read after insert failed, broadcast skipped", "collection", "menu", "id", item.ID, "error", err)
		return item, nil
	}
	e.hub.Broadcast(EventNewFoodItem, fresh)
	return fresh, nil
}

// DeleteMenuItem deletes by id and broadcasts foodItemDeleted. The broadcast
// fires even when the id never existed: deletes are idempotent and the
// listing pages treat a stale id as already gone.
func (e *Engine) DeleteMenuItem(ctx context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	e.hub.Broadcast(EventFoodItemDeleted, id)
	return nil
}

// SubmitOrder inserts the order, broadcasts newOrder, and kicks off the
// receipt mail (when an address was given) and the staff notification. The
// side effects never gate the result.
func (e *Engine) SubmitOrder(ctx context.Context, in models.SubmitOrderInput, email string) (*models.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.store.SubmitOrder(ctx, in)
	if err != nil {
		return nil, err
	}
	fresh, err := e.store.GetOrder(ctx, o.ID)
	if err != nil {
		slog.Error("re-read after insert failed, broadcast skipped", "collection", "orders", "id", o.ID, "error", err)
		fresh = o
	} else {
		e.hub.Broadcast(EventNewOrder, fresh)
	}

	if email != "" && e.Mailer != nil {
		go func(o models.Order) {
			if err := e.Mailer.SendReceipt(email, &o); err != nil {
				slog.Error("receipt mail failed", "order", o.ID, "error", err)
			}
		}(*fresh)
	}
	if e.Notifier != nil {
		go func(o models.Order) {
			if err := e.Notifier.NotifyNewOrder(&o); err != nil {
				slog.Error("order notification failed", "order", o.ID, "error", err)
			}
		}(*fresh)
	}
	return fresh, nil
}

// UpdateOrderStatus applies the status change, broadcasts orderUpdated with
// the re-read record, and on completion dispatches the robot to the order's
// table. Updating an id that no longer exists succeeds without a broadcast.
func (e *Engine) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.UpdateOrderStatus(ctx, id, status); err != nil {
		return err
	}
	fresh, err := e.store.GetOrder(ctx, id)
	if err != nil {
		slog.Warn("re-read after update failed, broadcast skipped", "collection", "orders", "id", id, "error", err)
		return nil
	}
	e.hub.Broadcast(EventOrderUpdated, fresh)

	if fresh.Status == models.OrderStatusCompleted && e.Robot != nil {
		robotCtx := context.WithoutCancel(ctx)
		go func(table string) {
			if err := e.Robot.Dispatch(robotCtx, table); err != nil {
				slog.Error("robot dispatch failed", "table", table, "error", err)
			}
		}(fresh.TableNumber)
	}
	return nil
}

// DeleteOrder deletes by id and broadcasts orderDeleted with the bare id,
// present or not, same as menu deletion.
func (e *Engine) DeleteOrder(ctx context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.DeleteOrder(ctx, id); err != nil {
		return err
	}
	e.hub.Broadcast(EventOrderDeleted, id)
	return nil
}

func (e *Engine) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	return e.store.ListMenu(ctx)
}

func (e *Engine) ListOrders(ctx context.Context, sort string) ([]models.Order, error) {
	return e.store.ListOrders(ctx, sort)
}

// Connect attaches a viewer and hands it the initial snapshot. Attachment
// and snapshot happen under the engine mutex, so every mutation either lands
// in the snapshot or arrives later as its own broadcast; nothing falls in
// between.
func (e *Engine) Connect(ctx context.Context) (*realtime.Viewer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := e.hub.Attach()
	menu, err := e.store.ListMenu(ctx)
	if err != nil {
		e.hub.Detach(v)
		return nil, err
	}
	orders, err := e.store.ListOrders(ctx, services.SortAsc)
	if err != nil {
		e.hub.Detach(v)
		return nil, err
	}
	v.Send(EventInitialMenu, menu)
	v.Send(EventInitialOrders, orders)
	return v, nil
}

// Disconnect detaches a viewer. Safe on already-detached viewers.
func (e *Engine) Disconnect(v *realtime.Viewer) {
	e.hub.Detach(v)
}
