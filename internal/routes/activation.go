package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kivu-pay/kivu_pay/internal/activation"
)

// RegisterActivationRoutes wires the staged-activation endpoints.
func RegisterActivationRoutes(r fiber.Router, h *activation.Handler) {
	r.Post("/accounts/register", h.Register)
	r.Post("/accounts/verify", h.Verify)
}
