package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/labstock-api/internal/application/codes"
	"github.com/jhoicas/labstock-api/internal/application/inventory"
	"github.com/jhoicas/labstock-api/internal/infrastructure/notification"
	"github.com/jhoicas/labstock-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/labstock-api/internal/interfaces/http"
	"github.com/jhoicas/labstock-api/pkg/config"
	"github.com/jhoicas/labstock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando motor de inventario")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	lotRepo := postgres.NewStockLotRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	alertRepo := postgres.NewStockAlertRepository(pool)
	articleRepo := postgres.NewArticleRepository(pool)
	codeRepo := postgres.NewCodeRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	allocator := codes.NewAllocator(codeRepo, codes.WithMaxRetries(cfg.Engine.MaxCodeAttempts))
	dispatcher := notification.NewLogDispatcher(log)
	evaluator := inventory.NewAlertEvaluator(lotRepo, alertRepo, allocator, log)
	consumeUC := inventory.NewConsumeStockUseCase(
		txRunner, lotRepo, articleRepo, allocator, evaluator, dispatcher, log,
		inventory.WithMaxAttempts(cfg.Engine.MaxConsumeAttempts),
	)
	queryUC := inventory.NewQueryUseCase(lotRepo, movRepo, alertRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ConsumeUC: consumeUC,
		QueryUC:   queryUC,
		Allocator: allocator,
		JWTSecret: cfg.JWT.Secret,
	})

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

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
