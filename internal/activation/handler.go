package activation

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the activation HTTP endpoints.
type Handler struct {
	coordinator *Coordinator
}

// NewHandler constructs an activation handler.
func NewHandler(coordinator *Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

type registerRequest struct {
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	Phone          string   `json:"phone"`
	Password       string   `json:"password"`
	ItemNames      []string `json:"item_names"`
	ReferredByCode string   `json:"referred_by_code"`
}

type registerResponse struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type accountResponse struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	Phone         string   `json:"phone"`
	Status        string   `json:"status"`
	ReferenceCode string   `json:"reference_code"`
	ItemNames     []string `json:"item_names"`
	ReferralCount int      `json:"referral_count"`
}

// Register stages a registration or re-sends a code to an existing account.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.coordinator.Register(c.UserContext(), RegisterInput{
		Email:          req.Email,
		Name:           req.Name,
		Phone:          req.Phone,
		Password:       req.Password,
		ItemNames:      req.ItemNames,
		ReferredByCode: req.ReferredByCode,
	})
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	message := "verification code sent for new registration"
	if result.Existing {
		message = "verification code sent to existing account"
	}
	return c.Status(http.StatusAccepted).JSON(registerResponse{Email: result.Email, Message: message})
}

// Verify consumes a submitted code and finalizes the activation.
func (h *Handler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	acct, err := h.coordinator.VerifyAndActivate(c.UserContext(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCode):
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		case errors.Is(err, ErrAccountNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrReferralIneligible):
			return fiber.NewError(http.StatusConflict, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusOK).JSON(accountResponse{
		ID:            acct.ID,
		Email:         acct.Email,
		Name:          acct.Name,
		Phone:         acct.Phone,
		Status:        acct.Status,
		ReferenceCode: acct.ReferenceCode,
		ItemNames:     acct.ItemNames,
		ReferralCount: acct.ReferralCount,
	})
}
