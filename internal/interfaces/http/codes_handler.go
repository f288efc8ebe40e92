package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/labstock-api/internal/application/codes"
	"github.com/jhoicas/labstock-api/internal/application/dto"
	"github.com/jhoicas/labstock-api/internal/domain"
)

// CodesHandler expone la asignación de códigos legibles a flujos hermanos
// de creación de registros.
type CodesHandler struct {
	allocator *codes.Allocator
}

// NewCodesHandler construye el handler.
func NewCodesHandler(allocator *codes.Allocator) *CodesHandler {
	return &CodesHandler{allocator: allocator}
}

// AllocateCode asigna un código único para la tabla indicada.
// POST /api/codes
func (h *CodesHandler) AllocateCode(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AllocateCodeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	code, err := h.allocator.Allocate(c.Context(), tenantID, in.Table)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "table requerida"})
		}
		if errors.Is(err, domain.ErrCodeGenerationFailed) {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "CODE_GENERATION", Message: "no se pudo generar el código"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AllocateCodeResponse{Code: code})
}
