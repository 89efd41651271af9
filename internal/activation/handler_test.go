package activation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/kivu-pay/kivu_pay/internal/account"
	"github.com/kivu-pay/kivu_pay/internal/item"
	"github.com/kivu-pay/kivu_pay/internal/logging"
	"github.com/kivu-pay/kivu_pay/internal/referral"
	"github.com/kivu-pay/kivu_pay/internal/wallet"
)

func setupHandlerApp(t *testing.T) (*fiber.App, CodeRegister) {
	t.Helper()

	codes := NewMemoryCodeRegister()
	coordinator := NewCoordinator(Deps{
		Accounts:  account.NewMemoryRepository(),
		Wallets:   wallet.NewMemoryRepository(),
		Items:     item.NewMemoryRepository(),
		Referrals: referral.NewMemoryRepository(),
		Codes:     codes,
		Hasher:    NewBcryptHasher(bcrypt.MinCost),
		Logger:    logging.Discard(),
	})

	app := fiber.New()
	handler := NewHandler(coordinator)
	app.Post("/accounts/register", handler.Register)
	app.Post("/accounts/verify", handler.Verify)
	return app, codes
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (int, map[string]any) {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

func TestHandlerRegisterAndVerify(t *testing.T) {
	app, codes := setupHandlerApp(t)

	status, body := postJSON(t, app, "/accounts/register", fiber.Map{
		"email":    "a@x.com",
		"name":     "A",
		"phone":    "111",
		"password": "pw1",
	})
	if status != fiber.StatusAccepted {
		t.Fatalf("expected %d, got %d (%v)", fiber.StatusAccepted, status, body)
	}

	code, ok := OutstandingCode(codes, "a@x.com")
	if !ok {
		t.Fatal("no outstanding code after register")
	}

	status, body = postJSON(t, app, "/accounts/verify", fiber.Map{
		"email": "a@x.com",
		"code":  code,
	})
	if status != fiber.StatusOK {
		t.Fatalf("expected %d, got %d (%v)", fiber.StatusOK, status, body)
	}
	if body["status"] != account.StatusActive {
		t.Fatalf("expected active account, got %v", body["status"])
	}
	if ref, _ := body["reference_code"].(string); ref == "" {
		t.Fatal("expected a reference code in the response")
	}
}

func TestHandlerRejectsInvalidInput(t *testing.T) {
	app, _ := setupHandlerApp(t)

	status, _ := postJSON(t, app, "/accounts/register", fiber.Map{"email": "a@x.com"})
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected %d, got %d", fiber.StatusBadRequest, status)
	}
}

func TestHandlerRejectsWrongCode(t *testing.T) {
	app, _ := setupHandlerApp(t)

	status, _ := postJSON(t, app, "/accounts/register", fiber.Map{
		"email":    "a@x.com",
		"name":     "A",
		"phone":    "111",
		"password": "pw1",
	})
	if status != fiber.StatusAccepted {
		t.Fatalf("register failed with %d", status)
	}

	status, _ = postJSON(t, app, "/accounts/verify", fiber.Map{
		"email": "a@x.com",
		"code":  "badcode",
	})
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", fiber.StatusUnauthorized, status)
	}
}

func TestHandlerVerifyUnknownAddress(t *testing.T) {
	app, codes := setupHandlerApp(t)

	if err := codes.Put(context.Background(), "ghost@x.com", "123456"); err != nil {
		t.Fatalf("put code: %v", err)
	}
	status, _ := postJSON(t, app, "/accounts/verify", fiber.Map{
		"email": "ghost@x.com",
		"code":  "123456",
	})
	if status != fiber.StatusNotFound {
		t.Fatalf("expected %d, got %d", fiber.StatusNotFound, status)
	}
}
