package ports

import (
	"context"

	"sales-manager/internal/features/orders/domain"
)

// OrderGateway performs reads and writes against the signed-in user's order tree.
// This is a Secondary Port (Driven Port). Every failure is a *failure.Error;
// the user is resolved from ctx via the identity package.
type OrderGateway interface {
	// AddOrder stores a new order and returns its generated id.
	AddOrder(ctx context.Context, order domain.Order) (string, error)
	// AddItem stores a new item under orderID and returns its generated id.
	AddItem(ctx context.Context, item domain.Item, orderID string) (string, error)
	// GetOrders returns every order with its items. No orders is an empty list.
	GetOrders(ctx context.Context) ([]domain.Order, error)
	// GetItems returns the items of orderID. No items is an empty list.
	GetItems(ctx context.Context, orderID string) ([]domain.Item, error)
	// DeleteOrder removes an order and its items. Missing ids are not an error.
	DeleteOrder(ctx context.Context, orderID string) error
	// DeleteItem removes one item. Missing ids are not an error.
	DeleteItem(ctx context.Context, orderID, itemID string) error
}
