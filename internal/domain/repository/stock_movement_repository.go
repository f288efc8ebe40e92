package repository

import (
	"context"

	"github.com/jhoicas/labstock-api/internal/domain/entity"
)

// StockMovementRepository persistencia del libro de movimientos (append-only).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error

	// ListByLot devuelve los movimientos de un lote, más antiguos primero.
	ListByLot(ctx context.Context, tenantID, lotID string) ([]*entity.StockMovement, error)

	// ListByReference devuelve los movimientos generados por una misma
	// referencia (examen/solicitud), más antiguos primero.
	ListByReference(ctx context.Context, tenantID, reference string) ([]*entity.StockMovement, error)
}
