package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/labstock-api/internal/application/codes"
	"github.com/jhoicas/labstock-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ConsumeUC *inventory.ConsumeStockUseCase
	QueryUC   *inventory.QueryUseCase
	Allocator *codes.Allocator
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Observabilidad (público)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token con tenant)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Motor de consumo de inventario
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.ConsumeUC, deps.QueryUC)
	invGroup.Post("/consumptions", inventoryHandler.ConsumeStock)
	invGroup.Get("/lots", inventoryHandler.ListLots)
	invGroup.Get("/lots/:id/alerts", inventoryHandler.GetLotAlerts)
	invGroup.Get("/movements", inventoryHandler.GetMovements)

	// Códigos legibles para flujos hermanos
	codesGroup := protected.Group("/codes")
	codesHandler := NewCodesHandler(deps.Allocator)
	codesGroup.Post("/", codesHandler.AllocateCode)
}
