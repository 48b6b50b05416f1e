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

// AddOrder drives the new-order screen. Success carries the new order id,
// which the presentation layer uses to open the item list.
type AddOrder struct {
	gateway ports.OrderGateway
	scope   *viewstate.Scope
	state   *viewstate.Stream[string]
	logger  *zap.Logger
}

// NewAddOrder creates the orchestrator with its stream in Idle.
func NewAddOrder(gateway ports.OrderGateway, scope *viewstate.Scope) *AddOrder {
	return &AddOrder{
		gateway: gateway,
		scope:   scope,
		state:   viewstate.NewStream[string](),
		logger:  logger.Named("add-order"),
	}
}

// State returns the read-only order stream.
func (o *AddOrder) State() viewstate.Observable[string] {
	return o.state
}

// AddOrder stores order through the gateway.
func (o *AddOrder) AddOrder(order domain.Order) *viewstate.Job {
	return run(o.scope, o.state, o.logger, "add_order", failure.MsgUnknownShort,
		func(ctx context.Context) (string, error) {
			return o.gateway.AddOrder(ctx, order)
		})
}
