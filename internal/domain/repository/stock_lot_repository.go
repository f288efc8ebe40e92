package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
)

// StockLotRepository acceso a los lotes de stock, siempre acotado por tenant.
type StockLotRepository interface {
	// ListAvailable devuelve los lotes con cantidad > 0 de un artículo del tenant.
	ListAvailable(ctx context.Context, tenantID, articleID string) ([]*entity.StockLot, error)

	// GetByID devuelve el lote del tenant, o domain.ErrNotFound si no existe.
	GetByID(ctx context.Context, tenantID, lotID string) (*entity.StockLot, error)

	// DecrementIfAvailable resta qty del lote solo si la cantidad actual >= qty,
	// como una sola operación indivisible. Devuelve false si la precondición
	// falló (otro consumo se adelantó); el caller debe abortar y replanificar.
	DecrementIfAvailable(ctx context.Context, tenantID, lotID string, qty decimal.Decimal) (bool, error)
}
