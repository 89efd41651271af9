package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kivu-pay/kivu_pay/internal/wallet"
)

// RegisterWalletRoutes wires wallet read endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Get("/wallets/:phone", h.Get)
}
