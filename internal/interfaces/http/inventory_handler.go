package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/labstock-api/internal/application/dto"
	appinv "github.com/jhoicas/labstock-api/internal/application/inventory"
	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	dominv "github.com/jhoicas/labstock-api/internal/domain/inventory"
)

// InventoryHandler maneja las peticiones HTTP del motor de consumo (protegido).
type InventoryHandler struct {
	consumeUC *appinv.ConsumeStockUseCase
	queryUC   *appinv.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(consumeUC *appinv.ConsumeStockUseCase, queryUC *appinv.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{consumeUC: consumeUC, queryUC: queryUC}
}

// ConsumeStock registra el consumo de stock de un examen: planifica sobre
// los lotes disponibles según la política pedida y aplica el batch atómico.
// POST /api/inventory/consumptions
func (h *InventoryHandler) ConsumeStock(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ConsumeStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	result, err := h.consumeUC.ConsumeStock(c.Context(), appinv.ConsumeInput{
		TenantID:  tenantID,
		ArticleID: in.ArticleID,
		Quantity:  in.Quantity,
		Policy:    dominv.Policy(in.Policy),
		Reference: in.Reference,
	})
	if err != nil {
		return consumeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toConsumeResponse(result))
}

// ListLots devuelve los lotes disponibles de un artículo.
// GET /api/inventory/lots?article_id=
func (h *InventoryHandler) ListLots(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	articleID := c.Query("article_id")

	lots, err := h.queryUC.ListAvailableLots(c.Context(), tenantID, articleID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "article_id requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out := make([]dto.LotDTO, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.LotDTO{
			ID:         l.ID,
			ArticleID:  l.ArticleID,
			Quantity:   l.Quantity,
			ReceivedAt: l.ReceivedAt,
			ExpiresAt:  l.ExpiresAt,
			Threshold:  l.Threshold,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "lots": out})
}

// GetLotAlerts devuelve las alertas de un lote en orden de creación.
// GET /api/inventory/lots/:id/alerts
func (h *InventoryHandler) GetLotAlerts(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	lotID := c.Params("id")

	alerts, err := h.queryUC.GetAlertsForLot(c.Context(), tenantID, lotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "lote no encontrado"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out := make([]dto.AlertDTO, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toAlertDTO(a))
	}
	return c.JSON(fiber.Map{"total": len(out), "alerts": out})
}

// GetMovements devuelve el batch de movimientos de una referencia (auditoría).
// GET /api/inventory/movements?reference=
func (h *InventoryHandler) GetMovements(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	reference := c.Query("reference")

	movements, err := h.queryUC.GetMovementsForReference(c.Context(), tenantID, reference)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reference requerida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementDTO{
			ID:        m.ID,
			LotID:     m.LotID,
			Delta:     m.Delta,
			Reference: m.Reference,
			Code:      m.Code,
			CreatedAt: m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// consumeError mapea la taxonomía de errores del motor a HTTP.
func consumeError(c *fiber.Ctx, err error) error {
	var insuf *domain.InsufficientStockError
	if errors.As(err, &insuf) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":      "INSUFFICIENT_STOCK",
			"message":   "stock insuficiente",
			"shortfall": insuf.Shortfall,
		})
	}
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConcurrentStockChange):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENT_CHANGE", Message: "el stock cambió durante el consumo, reintente"})
	case errors.Is(err, domain.ErrCodeGenerationFailed):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "CODE_GENERATION", Message: "no se pudo generar el código"})
	case errors.Is(err, domain.ErrTenantMismatch):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "artículo no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toConsumeResponse(result *appinv.ConsumeResult) dto.ConsumeStockResponse {
	movements := make([]dto.MovementDTO, 0, len(result.Movements))
	for _, m := range result.Movements {
		movements = append(movements, dto.MovementDTO{
			ID:        m.ID,
			LotID:     m.LotID,
			Delta:     m.Delta,
			Reference: m.Reference,
			Code:      m.Code,
			CreatedAt: m.CreatedAt,
		})
	}
	alerts := make([]dto.AlertDTO, 0, len(result.Alerts))
	for _, a := range result.Alerts {
		alerts = append(alerts, toAlertDTO(a))
	}
	return dto.ConsumeStockResponse{
		Reference:  result.Reference,
		Movements:  movements,
		Alerts:     alerts,
		AlertError: result.AlertError,
		Attempts:   result.Attempts,
	}
}

func toAlertDTO(a *entity.StockAlert) dto.AlertDTO {
	return dto.AlertDTO{
		ID:               a.ID,
		LotID:            a.LotID,
		QuantityAtAlert:  a.QuantityAtAlert,
		ThresholdAtAlert: a.ThresholdAtAlert,
		Code:             a.Code,
		CreatedAt:        a.CreatedAt,
	}
}
