package handler

import (
	"sales-manager/internal/features/orders/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders v as Brazilian real, e.g. "R$ 1.234,50".
func FormatBRL(v float64) string {
	return "R$ " + brl.Sprintf("%.2f", v)
}

// ItemView is the wire shape of an item.
type ItemView struct {
	ID             string  `json:"id"`
	ProductName    string  `json:"productName"`
	Quantity       int     `json:"quantity"`
	Value          float64 `json:"value"`
	TotalValue     float64 `json:"totalValue"`
	FormattedValue string  `json:"formattedValue"`
	FormattedTotal string  `json:"formattedTotal"`
}

// OrderView is the wire shape of an order with its items.
type OrderView struct {
	ID             string     `json:"id"`
	Description    string     `json:"description"`
	ClientName     string     `json:"clientName"`
	Items          []ItemView `json:"items"`
	TotalValue     float64    `json:"totalValue"`
	FormattedTotal string     `json:"formattedTotal"`
}

func presentItem(i domain.Item) ItemView {
	total := i.TotalValue()
	return ItemView{
		ID:             i.ID,
		ProductName:    i.ProductName,
		Quantity:       i.Quantity,
		Value:          i.Value,
		TotalValue:     total,
		FormattedValue: FormatBRL(i.Value),
		FormattedTotal: FormatBRL(total),
	}
}

func presentItems(items []domain.Item) []ItemView {
	out := make([]ItemView, 0, len(items))
	for _, i := range items {
		out = append(out, presentItem(i))
	}
	return out
}

func presentOrders(orders []domain.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		total := o.TotalValue()
		out = append(out, OrderView{
			ID:             o.ID,
			Description:    o.Description,
			ClientName:     o.ClientName,
			Items:          presentItems(o.SortedItems()),
			TotalValue:     total,
			FormattedTotal: FormatBRL(total),
		})
	}
	return out
}
