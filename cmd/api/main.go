package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Lubricantes-api/internal/application/auth"
	"github.com/jhoicas/Lubricantes-api/internal/application/pricing"
	"github.com/jhoicas/Lubricantes-api/internal/application/usecase"
	"github.com/jhoicas/Lubricantes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Lubricantes-api/internal/infrastructure/redislock"
	"github.com/jhoicas/Lubricantes-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/Lubricantes-api/internal/interfaces/http"
	"github.com/jhoicas/Lubricantes-api/pkg/config"
	"github.com/jhoicas/Lubricantes-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	ledgerRepo := postgres.NewCompanyProductRepository(pool)
	scheduleRepo := postgres.NewPriceScheduleRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Candado entre réplicas para el lote de precios (opcional).
	var runLock pricing.RunLock
	if cfg.Redis.URL != "" {
		rdb, err := redislock.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		runLock = redislock.New(rdb, "", cfg.Pricing.LockTTL, log.Named("redislock"))
	}

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	companyProductUC := usecase.NewCompanyProductUseCase(txRunner, ledgerRepo, companyRepo, productRepo)
	auditUC := usecase.NewAuditUseCase(auditRepo)
	scheduleUC := pricing.NewScheduleUseCase(txRunner, scheduleRepo)
	applyUC := pricing.NewApplyScheduledPricesUseCase(txRunner, runLock, log.Named("pricing"))
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		CompanyUC:        companyUC,
		UserUC:           userUC,
		ProductUC:        productUC,
		CompanyProductUC: companyProductUC,
		AuditUC:          auditUC,
		ScheduleUC:       scheduleUC,
		Applier:          applyUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	var priceCron *scheduler.PriceScheduler
	if cfg.Pricing.CronSpec != "" {
		priceCron, err = scheduler.New(cfg.Pricing.CronSpec, applyUC, cfg.Pricing.SystemActorID, cfg.Pricing.LockTTL, log.Named("scheduler"))
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler de precios")
		}
		priceCron.Start()
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if priceCron != nil {
		priceCron.Stop(shutdownCtx)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
