package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/kivu-pay/kivu_pay/internal/account"
	"github.com/kivu-pay/kivu_pay/internal/activation"
	"github.com/kivu-pay/kivu_pay/internal/config"
	"github.com/kivu-pay/kivu_pay/internal/item"
	"github.com/kivu-pay/kivu_pay/internal/middleware"
	"github.com/kivu-pay/kivu_pay/internal/notification"
	"github.com/kivu-pay/kivu_pay/internal/referral"
	"github.com/kivu-pay/kivu_pay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories, falling back to in-memory stores in dev.
	var (
		accountRepo  account.Repository
		walletRepo   wallet.Repository
		itemRepo     item.Repository
		referralRepo referral.Repository
	)
	if d.DB != nil {
		accountRepo = account.NewPostgresRepository(d.DB)
		walletRepo = wallet.NewPostgresRepository(d.DB)
		itemRepo = item.NewPostgresRepository(d.DB)
		referralRepo = referral.NewPostgresRepository(d.DB)
	} else {
		accountRepo = account.NewMemoryRepository()
		walletRepo = wallet.NewMemoryRepository()
		itemRepo = item.NewMemoryRepository()
		referralRepo = referral.NewMemoryRepository()
	}

	var codes activation.CodeRegister
	if d.Cache != nil {
		codes = activation.NewRedisCodeRegister(d.Cache, d.Cfg.OTPTTL)
	} else {
		codes = activation.NewMemoryCodeRegister()
	}

	coordinator := activation.NewCoordinator(activation.Deps{
		Accounts:  accountRepo,
		Wallets:   walletRepo,
		Items:     itemRepo,
		Referrals: referralRepo,
		Codes:     codes,
		Notifier:  notification.NewLoggerNotifier(d.Logger),
		Logger:    d.Logger,
		Bonus:     d.Cfg.ReferralBonus,
	})

	activationHandler := activation.NewHandler(coordinator)
	walletHandler := wallet.NewHandler(walletRepo)
	itemHandler := item.NewHandler(itemRepo)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterActivationRoutes(api, activationHandler)
	RegisterWalletRoutes(api, walletHandler)
	RegisterItemRoutes(api, itemHandler)

	return nil
}
