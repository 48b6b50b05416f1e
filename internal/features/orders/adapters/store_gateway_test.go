package adapter

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"sales-manager/internal/core/failure"
	"sales-manager/internal/core/identity"
	"sales-manager/internal/core/store"
	"sales-manager/internal/features/orders/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialKeys returns k001, k002, ... so tests can predict ids.
func sequentialKeys() KeyFunc {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("k%03d", n), nil
	}
}

func setupGateway(t *testing.T) (*StoreOrderGateway, *miniredis.Miniredis, context.Context) {
	t.Helper()

	mr := miniredis.RunT(t)
	s, err := store.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := identity.WithResolver(context.Background(), identity.Static("u1"))
	return NewStoreOrderGateway(s, sequentialKeys()), mr, ctx
}

func TestStoreOrderGateway_AddOrder(t *testing.T) {
	gw, mr, ctx := setupGateway(t)

	id, err := gw.AddOrder(ctx, domain.NewOrder("Order A", "Alice"))
	require.NoError(t, err)
	assert.Equal(t, "k001", id)

	assert.JSONEq(t, `{"description":"Order A","clientName":"Alice"}`, mr.HGet("users/u1/orders", "k001"))
}

func TestStoreOrderGateway_AddItem(t *testing.T) {
	gw, mr, ctx := setupGateway(t)

	id, err := gw.AddItem(ctx, domain.NewItem("Widget", 2, 5.0), "order1")
	require.NoError(t, err)
	assert.Equal(t, "k001", id)

	assert.JSONEq(t, `{"productName":"Widget","quantity":2,"value":5}`, mr.HGet("users/u1/orders/order1/items", "k001"))
}

func TestStoreOrderGateway_GetOrdersEmpty(t *testing.T) {
	gw, _, ctx := setupGateway(t)

	orders, err := gw.GetOrders(ctx)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestStoreOrderGateway_GetOrdersWithItems(t *testing.T) {
	gw, _, ctx := setupGateway(t)

	first, err := gw.AddOrder(ctx, domain.NewOrder("Order A", "Alice"))
	require.NoError(t, err)
	second, err := gw.AddOrder(ctx, domain.NewOrder("Order B", "Bob"))
	require.NoError(t, err)

	_, err = gw.AddItem(ctx, domain.NewItem("Widget", 2, 5.0), first)
	require.NoError(t, err)
	_, err = gw.AddItem(ctx, domain.NewItem("Gadget", 1, 2.5), first)
	require.NoError(t, err)

	orders, err := gw.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, first, orders[0].ID)
	assert.Equal(t, "Alice", orders[0].ClientName)
	assert.Len(t, orders[0].Items, 2)
	assert.Equal(t, 12.5, orders[0].TotalValue())

	assert.Equal(t, second, orders[1].ID)
	assert.Empty(t, orders[1].Items)
	assert.Equal(t, 0.0, orders[1].TotalValue())
}

func TestStoreOrderGateway_GetItemsSortedAndSkipsCorrupt(t *testing.T) {
	gw, mr, ctx := setupGateway(t)

	mr.HSet("users/u1/orders/o1/items", "k002", `{"productName":"B","quantity":1,"value":1}`)
	mr.HSet("users/u1/orders/o1/items", "k001", `{"productName":"A","quantity":2,"value":3}`)
	mr.HSet("users/u1/orders/o1/items", "k003", `not-json`)

	items, err := gw.GetItems(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.Item{ID: "k001", ProductName: "A", Quantity: 2, Value: 3}, items[0])
	assert.Equal(t, "k002", items[1].ID)
}

func TestStoreOrderGateway_GetItemsEmpty(t *testing.T) {
	gw, _, ctx := setupGateway(t)

	items, err := gw.GetItems(ctx, "nothing-here")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestStoreOrderGateway_DeleteOrderCascades(t *testing.T) {
	gw, mr, ctx := setupGateway(t)

	orderID, err := gw.AddOrder(ctx, domain.NewOrder("Order A", "Alice"))
	require.NoError(t, err)
	_, err = gw.AddItem(ctx, domain.NewItem("Widget", 1, 1), orderID)
	require.NoError(t, err)

	require.NoError(t, gw.DeleteOrder(ctx, orderID))

	assert.False(t, mr.Exists("users/u1/orders/"+orderID+"/items"))
	orders, err := gw.GetOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStoreOrderGateway_DeleteMissingIsSuccess(t *testing.T) {
	gw, _, ctx := setupGateway(t)

	assert.NoError(t, gw.DeleteOrder(ctx, "ghost"))
	assert.NoError(t, gw.DeleteItem(ctx, "ghost", "ghost-item"))
}

func TestStoreOrderGateway_DeleteItem(t *testing.T) {
	gw, _, ctx := setupGateway(t)

	keep, err := gw.AddItem(ctx, domain.NewItem("Keep", 1, 1), "o1")
	require.NoError(t, err)
	drop, err := gw.AddItem(ctx, domain.NewItem("Drop", 1, 1), "o1")
	require.NoError(t, err)

	require.NoError(t, gw.DeleteItem(ctx, "o1", drop))

	items, err := gw.GetItems(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, keep, items[0].ID)
}

func TestStoreOrderGateway_UsersAreIsolated(t *testing.T) {
	gw, _, ctx := setupGateway(t)

	_, err := gw.AddOrder(ctx, domain.NewOrder("Order A", "Alice"))
	require.NoError(t, err)

	other := identity.WithResolver(context.Background(), identity.Static("u2"))
	orders, err := gw.GetOrders(other)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStoreOrderGateway_NotAuthenticated(t *testing.T) {
	gw, _, _ := setupGateway(t)
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["AddOrder"] = gw.AddOrder(ctx, domain.NewOrder("a", "b"))
	_, checks["AddItem"] = gw.AddItem(ctx, domain.NewItem("a", 1, 1), "o1")
	_, checks["GetOrders"] = gw.GetOrders(ctx)
	_, checks["GetItems"] = gw.GetItems(ctx, "o1")
	checks["DeleteOrder"] = gw.DeleteOrder(ctx, "o1")
	checks["DeleteItem"] = gw.DeleteItem(ctx, "o1", "i1")

	for name, err := range checks {
		t.Run(name, func(t *testing.T) {
			fe, ok := failure.As(err)
			require.True(t, ok)
			assert.Equal(t, failure.KindAuth, fe.Kind)
			assert.Equal(t, failure.CauseNotAuthenticated, fe.Cause)
			assert.Equal(t, "Usuário não logado", fe.Detail)
		})
	}
}

func TestStoreOrderGateway_KeyGenerationFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := store.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer s.Close()

	gw := NewStoreOrderGateway(s, func() (string, error) { return "", errors.New("entropy exhausted") })
	ctx := identity.WithResolver(context.Background(), identity.Static("u1"))

	_, err = gw.AddOrder(ctx, domain.NewOrder("Order A", "Alice"))
	assert.Equal(t, failure.CauseKeyGeneration, failure.CauseOf(err))
	assert.Equal(t, "Falha ao gerar chave única", failure.PersistenceMessage(err, failure.MsgUnknownShort))
}

func TestStoreOrderGateway_StoreUnavailable(t *testing.T) {
	gw, mr, ctx := setupGateway(t)
	mr.Close()

	_, err := gw.AddOrder(ctx, domain.NewOrder("Order A", "Alice"))
	assert.Equal(t, failure.CauseWrite, failure.CauseOf(err))
	assert.NotEmpty(t, failure.PersistenceMessage(err, failure.MsgUnknownShort))

	_, err = gw.GetOrders(ctx)
	assert.Equal(t, failure.CauseRead, failure.CauseOf(err))
}

func TestStoreOrderGateway_MissingOrderID(t *testing.T) {
	gw, _, ctx := setupGateway(t)

	_, err := gw.GetItems(ctx, "")
	assert.Equal(t, failure.CauseInvalidInput, failure.CauseOf(err))
}

func TestNewUUIDv7(t *testing.T) {
	a, err := NewUUIDv7()
	require.NoError(t, err)
	b, err := NewUUIDv7()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
