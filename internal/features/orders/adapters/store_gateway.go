package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"sales-manager/internal/core/failure"
	"sales-manager/internal/core/identity"
	"sales-manager/internal/core/logger"
	"sales-manager/internal/core/store"
	"sales-manager/internal/features/orders/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KeyFunc generates a unique document key.
type KeyFunc func() (string, error)

// NewUUIDv7 generates time-ordered keys, so sorting by key yields creation order.
func NewUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// StoreOrderGateway implements ports.OrderGateway on top of a document store.
// Layout: users/{uid}/orders holds order documents and
// users/{uid}/orders/{orderId}/items holds the item documents of one order.
type StoreOrderGateway struct {
	// store is the remote document tree.
	store store.DocumentStore
	// newKey generates order and item ids.
	newKey KeyFunc
	// logger reports skipped documents.
	logger *zap.Logger
}

// NewStoreOrderGateway creates a gateway. A nil keyFunc defaults to NewUUIDv7.
func NewStoreOrderGateway(s store.DocumentStore, keyFunc KeyFunc) *StoreOrderGateway {
	if keyFunc == nil {
		keyFunc = NewUUIDv7
	}
	return &StoreOrderGateway{
		store:  s,
		newKey: keyFunc,
		logger: logger.Named("order-gateway"),
	}
}

// AddOrder generates an id and writes the order document under it.
func (g *StoreOrderGateway) AddOrder(ctx context.Context, order domain.Order) (string, error) {
	uid, ok := identity.CurrentUserID(ctx)
	if !ok {
		return "", failure.NotAuthenticated()
	}

	orderID, err := g.generateKey()
	if err != nil {
		return "", err
	}

	doc, err := json.Marshal(orderDocument{Description: order.Description, ClientName: order.ClientName})
	if err != nil {
		return "", failure.Persistence(failure.CauseWrite, "", fmt.Errorf("failed to marshal order: %w", err))
	}

	if err := g.store.Put(ctx, ordersPath(uid), orderID, doc); err != nil {
		return "", failure.Persistence(failure.CauseWrite, "", err)
	}

	return orderID, nil
}

// AddItem generates an id and writes the item document under the order.
func (g *StoreOrderGateway) AddItem(ctx context.Context, item domain.Item, orderID string) (string, error) {
	uid, ok := identity.CurrentUserID(ctx)
	if !ok {
		return "", failure.NotAuthenticated()
	}
	if orderID == "" {
		return "", errMissingOrder()
	}

	itemID, err := g.generateKey()
	if err != nil {
		return "", err
	}

	doc, err := json.Marshal(itemDocument{ProductName: item.ProductName, Quantity: item.Quantity, Value: item.Value})
	if err != nil {
		return "", failure.Persistence(failure.CauseWrite, "", fmt.Errorf("failed to marshal item: %w", err))
	}

	if err := g.store.Put(ctx, itemsPath(uid, orderID), itemID, doc); err != nil {
		return "", failure.Persistence(failure.CauseWrite, "", err)
	}

	return itemID, nil
}

// GetOrders lists the orders of the signed-in user, each with its items, in key order.
func (g *StoreOrderGateway) GetOrders(ctx context.Context) ([]domain.Order, error) {
	uid, ok := identity.CurrentUserID(ctx)
	if !ok {
		return nil, failure.NotAuthenticated()
	}

	docs, err := g.store.List(ctx, ordersPath(uid))
	if err != nil {
		return nil, failure.Persistence(failure.CauseRead, "", err)
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, id := range sortedKeys(docs) {
		var doc orderDocument
		if err := json.Unmarshal(docs[id], &doc); err != nil {
			g.logger.Warn("Skipping unreadable order", zap.String("order_id", id), zap.Error(err))
			continue
		}
		orders = append(orders, domain.Order{ID: id, Description: doc.Description, ClientName: doc.ClientName})
	}

	if len(orders) == 0 {
		return orders, nil
	}

	collections := make([]string, len(orders))
	for i, order := range orders {
		collections[i] = itemsPath(uid, order.ID)
	}

	itemDocs, err := g.store.ListMany(ctx, collections)
	if err != nil {
		return nil, failure.Persistence(failure.CauseRead, "", err)
	}

	for i := range orders {
		items := g.decodeItems(itemDocs[i])
		if len(items) == 0 {
			continue
		}
		orders[i].Items = make(map[string]domain.Item, len(items))
		for _, item := range items {
			orders[i].Items[item.ID] = item
		}
	}

	return orders, nil
}

// GetItems lists the items of one order in key order.
func (g *StoreOrderGateway) GetItems(ctx context.Context, orderID string) ([]domain.Item, error) {
	uid, ok := identity.CurrentUserID(ctx)
	if !ok {
		return nil, failure.NotAuthenticated()
	}
	if orderID == "" {
		return nil, errMissingOrder()
	}

	docs, err := g.store.List(ctx, itemsPath(uid, orderID))
	if err != nil {
		return nil, failure.Persistence(failure.CauseRead, "", err)
	}

	return g.decodeItems(docs), nil
}

// DeleteOrder removes the order document and its items collection.
func (g *StoreOrderGateway) DeleteOrder(ctx context.Context, orderID string) error {
	uid, ok := identity.CurrentUserID(ctx)
	if !ok {
		return failure.NotAuthenticated()
	}
	if orderID == "" {
		return errMissingOrder()
	}

	if err := g.store.Remove(ctx, ordersPath(uid), orderID, itemsPath(uid, orderID)); err != nil {
		return failure.Persistence(failure.CauseWrite, "", err)
	}
	return nil
}

// DeleteItem removes one item document.
func (g *StoreOrderGateway) DeleteItem(ctx context.Context, orderID, itemID string) error {
	uid, ok := identity.CurrentUserID(ctx)
	if !ok {
		return failure.NotAuthenticated()
	}
	if orderID == "" || itemID == "" {
		return errMissingOrder()
	}

	if err := g.store.Remove(ctx, itemsPath(uid, orderID), itemID); err != nil {
		return failure.Persistence(failure.CauseWrite, "", err)
	}
	return nil
}

func (g *StoreOrderGateway) generateKey() (string, error) {
	key, err := g.newKey()
	if err != nil || key == "" {
		return "", failure.Persistence(failure.CauseKeyGeneration, "Falha ao gerar chave única", err)
	}
	return key, nil
}

// decodeItems converts item documents to domain items sorted by id, skipping unreadable ones.
func (g *StoreOrderGateway) decodeItems(docs map[string][]byte) []domain.Item {
	items := make([]domain.Item, 0, len(docs))
	for _, id := range sortedKeys(docs) {
		var doc itemDocument
		if err := json.Unmarshal(docs[id], &doc); err != nil {
			g.logger.Warn("Skipping unreadable item", zap.String("item_id", id), zap.Error(err))
			continue
		}
		items = append(items, domain.Item{
			ID:          id,
			ProductName: doc.ProductName,
			Quantity:    doc.Quantity,
			Value:       doc.Value,
		})
	}
	return items
}

func errMissingOrder() error {
	return failure.Persistence(failure.CauseInvalidInput, "Pedido não informado", nil)
}

func ordersPath(uid string) string {
	return store.Path("users", uid, "orders")
}

func itemsPath(uid, orderID string) string {
	return store.Path("users", uid, "orders", orderID, "items")
}

func sortedKeys(docs map[string][]byte) []string {
	keys := make([]string, 0, len(docs))
	for k := range docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// internal structs for mapping

// orderDocument is the stored shape of an order. Items live in their own collection.
type orderDocument struct {
	// Description is the order label.
	Description string `json:"description"`
	// ClientName is the customer name.
	ClientName string `json:"clientName"`
}

// itemDocument is the stored shape of an item. The total is never stored.
type itemDocument struct {
	// ProductName is the product label.
	ProductName string `json:"productName"`
	// Quantity is the number of units.
	Quantity int `json:"quantity"`
	// Value is the unit price.
	Value float64 `json:"value"`
}
