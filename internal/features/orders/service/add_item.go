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

// AddItem drives the new-item screen of one order. Success carries the new item id.
type AddItem struct {
	gateway ports.OrderGateway
	scope   *viewstate.Scope
	state   *viewstate.Stream[string]
	logger  *zap.Logger
}

// NewAddItem creates the orchestrator with its stream in Idle.
func NewAddItem(gateway ports.OrderGateway, scope *viewstate.Scope) *AddItem {
	return &AddItem{
		gateway: gateway,
		scope:   scope,
		state:   viewstate.NewStream[string](),
		logger:  logger.Named("add-item"),
	}
}

// State returns the read-only item stream.
func (o *AddItem) State() viewstate.Observable[string] {
	return o.state
}

// AddItem stores item under orderID through the gateway.
func (o *AddItem) AddItem(item domain.Item, orderID string) *viewstate.Job {
	return run(o.scope, o.state, o.logger, "add_item", failure.MsgUnknownShort,
		func(ctx context.Context) (string, error) {
			return o.gateway.AddItem(ctx, item, orderID)
		})
}
