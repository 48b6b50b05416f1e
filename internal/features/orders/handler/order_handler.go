package handler

import (
	"errors"
	"net/http"

	"sales-manager/internal/core/failure"
	"sales-manager/internal/core/logger"
	"sales-manager/internal/core/server"
	"sales-manager/internal/core/viewstate"
	"sales-manager/internal/features/orders/domain"
	"sales-manager/internal/features/sessions"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests on a session's order screens.
// Every route expects sessions.Middleware to have run.
type OrderHandler struct{}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler() *OrderHandler {
	return &OrderHandler{}
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	Description string `json:"description"`
	ClientName  string `json:"clientName"`
}

// CreateItemRequest is the body of POST /orders/:id/items.
type CreateItemRequest struct {
	ProductName string   `json:"productName"`
	Quantity    *int     `json:"quantity"`
	Value       *float64 `json:"value"`
}

// OrdersScreen is the snapshot of the order list screen.
type OrdersScreen struct {
	Orders server.StateResponse[[]OrderView] `json:"orders"`
	Delete server.StateResponse[struct{}]    `json:"delete"`
}

// ItemsScreen is the snapshot of an order's item list screen.
type ItemsScreen struct {
	OrderID string                           `json:"orderId"`
	Items   server.StateResponse[[]ItemView] `json:"items"`
	Delete  server.StateResponse[struct{}]   `json:"delete"`
}

// ListOrders handles GET /orders.
// @Summary List orders
// @Description Fetches the signed-in user's orders with their items.
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} server.StateResponse[[]OrderView]
// @Failure 401 {object} server.StateResponse[[]OrderView]
// @Failure 502 {object} server.StateResponse[[]OrderView]
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	s, ok := sessions.FromCtx(c)
	if !ok {
		return server.Fail(c, http.StatusUnauthorized, "Sessão não informada")
	}

	if done, err := await(c, s.Orders.GetOrders()); done {
		return err
	}

	st := s.Orders.State().Current()
	return respond(c, s, http.StatusOK, server.RenderState(viewstate.Map(st, presentOrders)), st.Kind)
}

// CreateOrder handles POST /orders.
// @Summary Create an order
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateOrderRequest true "Order"
// @Success 201 {object} server.StateResponse[string]
// @Failure 400 {object} server.ErrorResponse
// @Failure 401 {object} server.StateResponse[string]
// @Failure 502 {object} server.StateResponse[string]
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	s, ok := sessions.FromCtx(c)
	if !ok {
		return server.Fail(c, http.StatusUnauthorized, "Sessão não informada")
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, failure.MsgMissingFields)
	}
	order := domain.NewOrder(req.Description, req.ClientName)
	if err := domain.ValidateOrder(order); err != nil {
		return server.Fail(c, http.StatusBadRequest, validationMessage(err))
	}

	if done, err := await(c, s.AddOrder.AddOrder(order)); done {
		return err
	}

	st := s.AddOrder.State().Current()
	return respond(c, s, http.StatusCreated, server.RenderState(st), st.Kind)
}

// DeleteOrder handles DELETE /orders/:id.
// @Summary Delete an order and its items
// @Description The list is refetched after a successful delete; see GET /screens/orders.
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} OrdersScreen
// @Failure 401 {object} OrdersScreen
// @Failure 502 {object} OrdersScreen
// @Router /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	s, ok := sessions.FromCtx(c)
	if !ok {
		return server.Fail(c, http.StatusUnauthorized, "Sessão não informada")
	}

	if done, err := await(c, s.Orders.DeleteOrder(param(c, "id"))); done {
		return err
	}

	screen := ordersScreen(s)
	return respond(c, s, http.StatusOK, screen, s.Orders.DeleteState().Current().Kind)
}

// ListItems handles GET /orders/:id/items.
// @Summary List the items of an order
// @Tags Items
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} server.StateResponse[[]ItemView]
// @Failure 401 {object} server.StateResponse[[]ItemView]
// @Failure 502 {object} server.StateResponse[[]ItemView]
// @Router /orders/{id}/items [get]
func (h *OrderHandler) ListItems(c *fiber.Ctx) error {
	s, ok := sessions.FromCtx(c)
	if !ok {
		return server.Fail(c, http.StatusUnauthorized, "Sessão não informada")
	}

	if done, err := await(c, s.Items.GetItems(param(c, "id"))); done {
		return err
	}

	st := s.Items.State().Current()
	return respond(c, s, http.StatusOK, server.RenderState(viewstate.Map(st, presentItems)), st.Kind)
}

// CreateItem handles POST /orders/:id/items.
// @Summary Add an item to an order
// @Tags Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param body body CreateItemRequest true "Item"
// @Success 201 {object} server.StateResponse[string]
// @Failure 400 {object} server.ErrorResponse
// @Failure 401 {object} server.StateResponse[string]
// @Failure 502 {object} server.StateResponse[string]
// @Router /orders/{id}/items [post]
func (h *OrderHandler) CreateItem(c *fiber.Ctx) error {
	s, ok := sessions.FromCtx(c)
	if !ok {
		return server.Fail(c, http.StatusUnauthorized, "Sessão não informada")
	}

	var req CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, failure.MsgMissingFields)
	}
	if req.Quantity == nil || req.Value == nil {
		return server.Fail(c, http.StatusBadRequest, failure.MsgMissingFields)
	}
	item := domain.NewItem(req.ProductName, *req.Quantity, *req.Value)
	if err := domain.ValidateItem(item); err != nil {
		return server.Fail(c, http.StatusBadRequest, validationMessage(err))
	}

	if done, err := await(c, s.AddItem.AddItem(item, param(c, "id"))); done {
		return err
	}

	st := s.AddItem.State().Current()
	return respond(c, s, http.StatusCreated, server.RenderState(st), st.Kind)
}

// DeleteItem handles DELETE /orders/:id/items/:itemId.
// @Summary Delete an item
// @Description The item list is refetched after a successful delete; see GET /screens/orders/{id}/items.
// @Tags Items
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param itemId path string true "Item ID"
// @Success 200 {object} ItemsScreen
// @Failure 401 {object} ItemsScreen
// @Failure 502 {object} ItemsScreen
// @Router /orders/{id}/items/{itemId} [delete]
func (h *OrderHandler) DeleteItem(c *fiber.Ctx) error {
	s, ok := sessions.FromCtx(c)
	if !ok {
		return server.Fail(c, http.StatusUnauthorized, "Sessão não informada")
	}

	if done, err := await(c, s.Items.DeleteItem(param(c, "id"), param(c, "itemId"))); done {
		return err
	}

	screen := itemsScreen(s, s.Items.OrderID())
	return respond(c, s, http.StatusOK, screen, s.Items.DeleteState().Current().Kind)
}

// GetOrdersScreen handles GET /screens/orders.
// @Summary Current state of the order list screen
// @Tags Screens
// @Produce json
// @Security BearerAuth
// @Success 200 {object} OrdersScreen
// @Router /screens/orders [get]
func (h *OrderHandler) GetOrdersScreen(c *fiber.Ctx) error {
	s, ok := sessions.FromCtx(c)
	if !ok {
		return server.Fail(c, http.StatusUnauthorized, "Sessão não informada")
	}
	return c.Status(http.StatusOK).JSON(ordersScreen(s))
}

// EnterOrdersScreen handles POST /screens/orders/enter.
// @Summary Enter the order list screen
// @Description Clears the previous delete result and starts fetching the list without waiting.
// @Tags Screens
// @Produce json
// @Security BearerAuth
// @Success 202 {object} OrdersScreen
// @Router /screens/orders/enter [post]
func (h *OrderHandler) EnterOrdersScreen(c *fiber.Ctx) error {
	s, ok := sessions.FromCtx(c)
	if !ok {
		return server.Fail(c, http.StatusUnauthorized, "Sessão não informada")
	}

	s.Orders.ResetDeleteState()
	s.Orders.GetOrders()
	return c.Status(http.StatusAccepted).JSON(ordersScreen(s))
}

// GetItemsScreen handles GET /screens/orders/:id/items.
// @Summary Current state of the item list screen
// @Tags Screens
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} ItemsScreen
// @Router /screens/orders/{id}/items [get]
func (h *OrderHandler) GetItemsScreen(c *fiber.Ctx) error {
	s, ok := sessions.FromCtx(c)
	if !ok {
		return server.Fail(c, http.StatusUnauthorized, "Sessão não informada")
	}
	return c.Status(http.StatusOK).JSON(itemsScreen(s, param(c, "id")))
}

// EnterItemsScreen handles POST /screens/orders/:id/items/enter.
// @Summary Enter the item list screen of an order
// @Description Clears the previous delete result and starts fetching the items without waiting.
// @Tags Screens
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 202 {object} ItemsScreen
// @Router /screens/orders/{id}/items/enter [post]
func (h *OrderHandler) EnterItemsScreen(c *fiber.Ctx) error {
	s, ok := sessions.FromCtx(c)
	if !ok {
		return server.Fail(c, http.StatusUnauthorized, "Sessão não informada")
	}

	orderID := param(c, "id")
	s.Items.ResetDeleteState()
	s.Items.GetItems(orderID)
	return c.Status(http.StatusAccepted).JSON(itemsScreen(s, orderID))
}

func ordersScreen(s *sessions.Session) OrdersScreen {
	return OrdersScreen{
		Orders: server.RenderState(viewstate.Map(s.Orders.State().Current(), presentOrders)),
		Delete: server.RenderState(s.Orders.DeleteState().Current()),
	}
}

// itemsScreen renders the item list of orderID. The session keeps a single
// item list, so any other order reads as a screen not entered yet.
func itemsScreen(s *sessions.Session, orderID string) ItemsScreen {
	if s.Items.OrderID() != orderID {
		return ItemsScreen{
			OrderID: orderID,
			Items:   server.RenderState(viewstate.Idle[[]ItemView]()),
			Delete:  server.RenderState(viewstate.Idle[struct{}]()),
		}
	}
	return ItemsScreen{
		OrderID: orderID,
		Items:   server.RenderState(viewstate.Map(s.Items.State().Current(), presentItems)),
		Delete:  server.RenderState(s.Items.DeleteState().Current()),
	}
}

// param copies a route parameter out of the request buffer, which fiber
// reuses once the handler returns. Actions outlive the handler.
func param(c *fiber.Ctx, key string) string {
	return utils.CopyString(c.Params(key))
}

// await waits for job. When it returns true the response has been written:
// 401 for a job refused by a closed session, 504 when the request ends first.
func await(c *fiber.Ctx, job *viewstate.Job) (bool, error) {
	if job.Refused() {
		return true, server.Fail(c, http.StatusUnauthorized, "Sessão expirada ou inválida")
	}
	if err := job.Wait(c.UserContext()); err != nil {
		return true, server.Fail(c, http.StatusGatewayTimeout, failure.MsgUnknown)
	}
	return false, nil
}

// respond writes body with okStatus, or with an error status when kind is
// KindError: 401 for a signed-out session, 502 otherwise.
func respond(c *fiber.Ctx, s *sessions.Session, okStatus int, body any, kind viewstate.Kind) error {
	if kind != viewstate.KindError {
		return c.Status(okStatus).JSON(body)
	}

	status := http.StatusBadGateway
	if _, signedIn := s.Auth.CurrentUser(); !signedIn {
		status = http.StatusUnauthorized
	}

	logger.ForRequest(server.RayID(c)).Warn("Order request failed",
		zap.String("path", c.Path()),
		zap.Int("status", status),
	)
	return c.Status(status).JSON(body)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrFieldTooLong):
		return "Os campos devem ter no máximo 30 caracteres"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "A quantidade deve estar entre 1 e 9999"
	case errors.Is(err, domain.ErrInvalidValue):
		return "O valor não pode ser negativo"
	default:
		return failure.MsgMissingFields
	}
}
