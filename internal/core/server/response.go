package server

import (
	"sales-manager/internal/core/viewstate"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// StateResponse is the JSON rendering of a view-state.
type StateResponse[T any] struct {
	State   string `json:"state"`
	Data    *T     `json:"data"`
	Message string `json:"message,omitempty"`
}

// RenderState converts st for the wire. Data is only set for Success.
func RenderState[T any](st viewstate.State[T]) StateResponse[T] {
	out := StateResponse[T]{State: st.Kind.String(), Message: st.Message}
	if st.Kind == viewstate.KindSuccess {
		data := st.Data
		out.Data = &data
	}
	return out
}

// RayID returns the request id assigned by the requestid middleware.
func RayID(c *fiber.Ctx) string {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return rayID
}

// Fail writes an ErrorResponse with the given status.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Message: message,
		RayID:   RayID(c),
	})
}
