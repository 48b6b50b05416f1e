package domain

import "sort"

const (
	// MaxTextLength is the longest description, client name or product name accepted from a client.
	MaxTextLength = 30
	// MaxQuantity is the largest quantity a four-digit input can hold.
	MaxQuantity = 9999
)

// Item represents a line entry within an order.
type Item struct {
	// ID is the server-assigned key. Empty until persisted.
	ID string `json:"id"`
	// ProductName is the descriptive name of the product.
	ProductName string `json:"productName"`
	// Quantity is the number of units sold.
	Quantity int `json:"quantity"`
	// Value is the unit price.
	Value float64 `json:"value"`
}

// TotalValue returns quantity × unit value. It is never stored.
func (i Item) TotalValue() float64 {
	return float64(i.Quantity) * i.Value
}

// Order represents a sales order owned by the signed-in user.
type Order struct {
	// ID is the server-assigned key. Empty until persisted.
	ID string `json:"id"`
	// Description is a free-text label for the order.
	Description string `json:"description"`
	// ClientName is the customer the order was taken for.
	ClientName string `json:"clientName"`
	// Items holds the line entries keyed by item id.
	// Only a gateway fetch fills it; item changes go through the gateway.
	Items map[string]Item `json:"items,omitempty"`
}

// NewOrder returns an unsaved order without items.
func NewOrder(description, clientName string) Order {
	return Order{Description: description, ClientName: clientName}
}

// NewItem returns an unsaved item.
func NewItem(productName string, quantity int, value float64) Item {
	return Item{ProductName: productName, Quantity: quantity, Value: value}
}

// TotalValue returns the sum of the item totals.
func (o Order) TotalValue() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.TotalValue()
	}
	return total
}

// SortedItems returns the items ordered by id, which is creation order for time-ordered keys.
func (o Order) SortedItems() []Item {
	items := make([]Item, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, item)
	}
	sort.Slice(items, func(a, b int) bool { return items[a].ID < items[b].ID })
	return items
}
