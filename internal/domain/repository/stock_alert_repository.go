package repository

import (
	"context"

	"github.com/jhoicas/labstock-api/internal/domain/entity"
)

// StockAlertRepository persistencia de alertas de stock crítico (append-only).
type StockAlertRepository interface {
	Create(ctx context.Context, alert *entity.StockAlert) error

	// ListByLot devuelve las alertas de un lote, más antiguas primero.
	ListByLot(ctx context.Context, tenantID, lotID string) ([]*entity.StockAlert, error)
}
