package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kivu-pay/kivu_pay/internal/item"
)

// RegisterItemRoutes wires item record endpoints. The status update is how the
// external fulfillment process reports completion.
func RegisterItemRoutes(r fiber.Router, h *item.Handler) {
	r.Get("/items/:phone", h.Get)
	r.Patch("/items/:phone/status", h.UpdateStatus)
}
