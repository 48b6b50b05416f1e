package swagger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

type document struct {
	Paths       map[string]map[string]json.RawMessage `json:"paths"`
	Definitions map[string]struct {
		Properties map[string]json.RawMessage `json:"properties"`
	} `json:"definitions"`
}

// TestDocument verifies the registered document renders and lists every route.
func TestDocument(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	routes := map[string][]string{
		"/auth/accounts":                   {"post"},
		"/auth/login":                      {"post"},
		"/auth/federated":                  {"post"},
		"/auth/logout":                     {"post"},
		"/orders":                          {"get", "post"},
		"/orders/{id}":                     {"delete"},
		"/orders/{id}/items":               {"get", "post"},
		"/orders/{id}/items/{itemId}":      {"delete"},
		"/screens/orders":                  {"get"},
		"/screens/orders/enter":            {"post"},
		"/screens/orders/{id}/items":       {"get"},
		"/screens/orders/{id}/items/enter": {"post"},
		"/health":                          {"get"},
	}
	for path, methods := range routes {
		for _, m := range methods {
			assert.Contains(t, doc.Paths[path], m, "%s %s", m, path)
		}
	}

	assert.Contains(t, doc.Definitions["handler.ItemsScreen"].Properties, "orderId")
}
