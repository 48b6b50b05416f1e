package service

import (
	"context"

	"sales-manager/internal/core/failure"
	"sales-manager/internal/core/logger"
	"sales-manager/internal/core/viewstate"
	"sales-manager/internal/features/orders/domain"
	"sales-manager/internal/features/orders/ports"

	"go.uber.org/zap"
)

// OrderList drives the order list screen: one stream for the list and an
// independent one for deletions.
type OrderList struct {
	gateway ports.OrderGateway
	scope   *viewstate.Scope
	orders  *viewstate.Stream[[]domain.Order]
	deletes *viewstate.Stream[deleted]
	logger  *zap.Logger
}

// NewOrderList creates the orchestrator with both streams in Idle.
func NewOrderList(gateway ports.OrderGateway, scope *viewstate.Scope) *OrderList {
	return &OrderList{
		gateway: gateway,
		scope:   scope,
		orders:  viewstate.NewStream[[]domain.Order](),
		deletes: viewstate.NewStream[deleted](),
		logger:  logger.Named("order-list"),
	}
}

// State returns the read-only list stream.
func (o *OrderList) State() viewstate.Observable[[]domain.Order] {
	return o.orders
}

// DeleteState returns the read-only delete stream.
func (o *OrderList) DeleteState() viewstate.Observable[deleted] {
	return o.deletes
}

// GetOrders fetches the user's orders.
func (o *OrderList) GetOrders() *viewstate.Job {
	return run(o.scope, o.orders, o.logger, "get_orders", failure.MsgUnknownShort,
		func(ctx context.Context) ([]domain.Order, error) {
			return o.gateway.GetOrders(ctx)
		})
}

// DeleteOrder removes an order and, on success, refetches the list.
func (o *OrderList) DeleteOrder(orderID string) *viewstate.Job {
	return o.scope.Start(o.ResetDeleteState, func(ctx context.Context) {
		if err := o.gateway.DeleteOrder(ctx, orderID); err != nil {
			o.logger.Warn("Failed to delete order", zap.String("order_id", orderID), zap.Error(err))
			o.deletes.Publish(viewstate.Failed[deleted](failure.PersistenceMessage(err, failure.MsgDeleteFailed)))
			return
		}
		o.deletes.Publish(viewstate.Success(deleted{}))
		o.orders.Publish(viewstate.Deleted[[]domain.Order]())
		o.GetOrders()
	})
}

// ResetDeleteState puts the delete stream back to Idle, so a result from a
// previous visit of the screen is not shown again.
func (o *OrderList) ResetDeleteState() {
	o.deletes.Publish(viewstate.Idle[deleted]())
}
