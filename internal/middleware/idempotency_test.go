package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kivu-pay/kivu_pay/internal/logging"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	calls := 0
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/accounts/register", func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"calls": calls})
	})

	return app
}

func postWithKey(t *testing.T, app *fiber.App, key string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/accounts/register", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	app := setupTestApp(t)

	status, _ := postWithKey(t, app, "")
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected %d got %d", fiber.StatusBadRequest, status)
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	app := setupTestApp(t)

	status, first := postWithKey(t, app, "reg-abc123")
	if status != fiber.StatusAccepted {
		t.Fatalf("expected %d got %d", fiber.StatusAccepted, status)
	}

	// A retry with the same key must replay the first response without
	// running the handler again.
	status, second := postWithKey(t, app, "reg-abc123")
	if status != fiber.StatusAccepted {
		t.Fatalf("expected replayed status %d got %d", fiber.StatusAccepted, status)
	}
	if first != second {
		t.Fatalf("expected replayed payload %q, got %q", first, second)
	}
}

func TestIdempotencyDistinctKeysRunSeparately(t *testing.T) {
	app := setupTestApp(t)

	_, first := postWithKey(t, app, "key-1")
	_, second := postWithKey(t, app, "key-2")
	if first == second {
		t.Fatalf("distinct keys must not share responses, both got %q", first)
	}
}
