package service

import (
	"context"
	"sync"

	"sales-manager/internal/core/failure"
	"sales-manager/internal/core/logger"
	"sales-manager/internal/core/viewstate"
	"sales-manager/internal/features/orders/domain"
	"sales-manager/internal/features/orders/ports"

	"go.uber.org/zap"
)

// ItemList drives the item list screen of an order.
type ItemList struct {
	gateway ports.OrderGateway
	scope   *viewstate.Scope
	items   *viewstate.Stream[[]domain.Item]
	deletes *viewstate.Stream[deleted]
	logger  *zap.Logger

	mu      sync.RWMutex
	orderID string
}

// NewItemList creates the orchestrator with both streams in Idle.
func NewItemList(gateway ports.OrderGateway, scope *viewstate.Scope) *ItemList {
	return &ItemList{
		gateway: gateway,
		scope:   scope,
		items:   viewstate.NewStream[[]domain.Item](),
		deletes: viewstate.NewStream[deleted](),
		logger:  logger.Named("item-list"),
	}
}

// State returns the read-only list stream.
func (o *ItemList) State() viewstate.Observable[[]domain.Item] {
	return o.items
}

// DeleteState returns the read-only delete stream.
func (o *ItemList) DeleteState() viewstate.Observable[deleted] {
	return o.deletes
}

// OrderID returns the order of the most recent fetch, or "" before any.
func (o *ItemList) OrderID() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.orderID
}

// GetItems fetches the items of orderID. From here on the streams belong to orderID.
func (o *ItemList) GetItems(orderID string) *viewstate.Job {
	o.mu.Lock()
	o.orderID = orderID
	o.mu.Unlock()

	return run(o.scope, o.items, o.logger, "get_items", failure.MsgUnknownShort,
		func(ctx context.Context) ([]domain.Item, error) {
			return o.gateway.GetItems(ctx, orderID)
		})
}

// DeleteItem removes one item and, on success, refetches the order's items.
func (o *ItemList) DeleteItem(orderID, itemID string) *viewstate.Job {
	return o.scope.Start(o.ResetDeleteState, func(ctx context.Context) {
		if err := o.gateway.DeleteItem(ctx, orderID, itemID); err != nil {
			o.logger.Warn("Failed to delete item",
				zap.String("order_id", orderID),
				zap.String("item_id", itemID),
				zap.Error(err),
			)
			o.deletes.Publish(viewstate.Failed[deleted](failure.PersistenceMessage(err, failure.MsgDeleteFailed)))
			return
		}
		o.deletes.Publish(viewstate.Success(deleted{}))
		o.items.Publish(viewstate.Deleted[[]domain.Item]())
		o.GetItems(orderID)
	})
}

// ResetDeleteState puts the delete stream back to Idle.
func (o *ItemList) ResetDeleteState() {
	o.deletes.Publish(viewstate.Idle[deleted]())
}
