package inventory

import (
	"context"

	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

// QueryUseCase lecturas del motor para dashboard y colaboradores de
// notificación. Solo lectura: nunca muta lotes ni el libro de movimientos.
type QueryUseCase struct {
	lotRepo   repository.StockLotRepository
	movRepo   repository.StockMovementRepository
	alertRepo repository.StockAlertRepository
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(
	lotRepo repository.StockLotRepository,
	movRepo repository.StockMovementRepository,
	alertRepo repository.StockAlertRepository,
) *QueryUseCase {
	return &QueryUseCase{lotRepo: lotRepo, movRepo: movRepo, alertRepo: alertRepo}
}

// GetAlertsForLot devuelve las alertas de un lote en orden de creación.
// El lote debe existir y pertenecer al tenant; la consulta scoped hace
// invisible cualquier lote ajeno.
func (uc *QueryUseCase) GetAlertsForLot(ctx context.Context, tenantID, lotID string) ([]*entity.StockAlert, error) {
	if tenantID == "" || lotID == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.lotRepo.GetByID(ctx, tenantID, lotID); err != nil {
		return nil, err
	}
	return uc.alertRepo.ListByLot(ctx, tenantID, lotID)
}

// ListAvailableLots devuelve los lotes con existencias de un artículo
// (lo consume el flujo de recepción y el dashboard).
func (uc *QueryUseCase) ListAvailableLots(ctx context.Context, tenantID, articleID string) ([]*entity.StockLot, error) {
	if tenantID == "" || articleID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.lotRepo.ListAvailable(ctx, tenantID, articleID)
}

// GetMovementsForReference devuelve el batch de movimientos de una
// referencia (auditoría de un examen).
func (uc *QueryUseCase) GetMovementsForReference(ctx context.Context, tenantID, reference string) ([]*entity.StockMovement, error) {
	if tenantID == "" || reference == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByReference(ctx, tenantID, reference)
}
