package item

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes item record HTTP endpoints.
type Handler struct {
	repo Repository
}

// NewHandler builds an item HTTP handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type statusRequest struct {
	Status string `json:"status"`
}

type recordResponse struct {
	ID         string   `json:"id"`
	OwnerPhone string   `json:"owner_phone"`
	Status     string   `json:"status"`
	ItemNames  []string `json:"item_names"`
}

// Get returns the item record for a phone number.
func (h *Handler) Get(c *fiber.Ctx) error {
	rec, err := h.repo.FindByOwnerPhone(c.UserContext(), c.Params("phone"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(rec))
}

// UpdateStatus transitions the fulfillment status of an item record. Fulfillment
// itself runs outside this service; this endpoint is how it reports completion.
func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != StatusPending && status != StatusSuccess {
		return fiber.NewError(http.StatusBadRequest, "status must be PENDING or SUCCESS")
	}

	rec, err := h.repo.FindByOwnerPhone(c.UserContext(), c.Params("phone"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	rec.Status = status
	if err := h.repo.Save(c.UserContext(), rec); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(rec))
}

func toResponse(rec Record) recordResponse {
	return recordResponse{
		ID:         rec.ID,
		OwnerPhone: rec.OwnerPhone,
		Status:     rec.Status,
		ItemNames:  rec.ItemNames,
	}
}
