package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrTenantMismatch        = errors.New("el recurso pertenece a otro tenant")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrConcurrentStockChange = errors.New("el stock cambió por un consumo concurrente")
	ErrCodeGenerationFailed  = errors.New("no se pudo generar un código único")
)

// InsufficientStockError transporta el faltante exacto cuando los lotes
// disponibles de un artículo no alcanzan la cantidad solicitada.
type InsufficientStockError struct {
	Shortfall decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: faltan %s unidades", e.Shortfall.String())
}

// Is hace que errors.Is(err, ErrInsufficientStock) funcione con este tipo.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
