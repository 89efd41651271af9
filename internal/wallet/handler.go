package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	repo Repository
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type walletResponse struct {
	ID         string `json:"id"`
	OwnerPhone string `json:"owner_phone"`
	Balance    int64  `json:"balance"`
}

// Get returns the wallet for a phone number.
func (h *Handler) Get(c *fiber.Ctx) error {
	phone := c.Params("phone")
	w, err := h.repo.FindByOwnerPhone(c.UserContext(), phone)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(walletResponse{
		ID:         w.ID,
		OwnerPhone: w.OwnerPhone,
		Balance:    w.Balance,
	})
}
