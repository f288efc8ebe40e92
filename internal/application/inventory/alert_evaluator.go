package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/labstock-api/internal/application/codes"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
	"github.com/jhoicas/labstock-api/pkg/logger"
	"github.com/jhoicas/labstock-api/pkg/metrics"
)

// AlertEvaluator inspecciona los lotes tocados por un consumo confirmado y
// genera una alerta por cada lote en o bajo su umbral crítico. Lee el estado
// post-commit, así refleja también el efecto de consumidores concurrentes.
// Cada caída bajo el umbral produce una fila nueva: no hay deduplicación
// contra alertas abiertas del mismo lote.
type AlertEvaluator struct {
	lotRepo   repository.StockLotRepository
	alertRepo repository.StockAlertRepository
	allocator *codes.Allocator
	log       *logger.Logger
	now       func() time.Time
}

// NewAlertEvaluator construye el evaluador. El allocator debe venir atado al
// repositorio de códigos del mismo almacén que alertRepo.
func NewAlertEvaluator(
	lotRepo repository.StockLotRepository,
	alertRepo repository.StockAlertRepository,
	allocator *codes.Allocator,
	log *logger.Logger,
) *AlertEvaluator {
	return &AlertEvaluator{
		lotRepo:   lotRepo,
		alertRepo: alertRepo,
		allocator: allocator,
		log:       log,
		now:       time.Now,
	}
}

// Evaluate revisa cada lote y crea las alertas que correspondan.
// Devuelve las alertas creadas hasta el momento aunque alguna falle: el
// caller decide reportar el error sin revertir nada.
func (e *AlertEvaluator) Evaluate(ctx context.Context, tenantID string, lotIDs []string) ([]*entity.StockAlert, error) {
	created := make([]*entity.StockAlert, 0, len(lotIDs))
	for _, lotID := range lotIDs {
		lot, err := e.lotRepo.GetByID(ctx, tenantID, lotID)
		if err != nil {
			return created, fmt.Errorf("leer lote %s: %w", lotID, err)
		}
		if !lot.BelowThreshold() {
			continue
		}

		code, err := e.allocator.Allocate(ctx, tenantID, "stock_alerts")
		if err != nil {
			return created, fmt.Errorf("código de alerta para lote %s: %w", lotID, err)
		}
		alert := &entity.StockAlert{
			ID:               uuid.New().String(),
			TenantID:         tenantID,
			LotID:            lotID,
			QuantityAtAlert:  lot.Quantity,
			ThresholdAtAlert: lot.Threshold,
			Code:             code,
			CreatedAt:        e.now(),
		}
		if err := e.alertRepo.Create(ctx, alert); err != nil {
			return created, fmt.Errorf("crear alerta para lote %s: %w", lotID, err)
		}
		metrics.AlertsEmittedTotal.Inc()
		e.log.Info().
			Str("tenant_id", tenantID).
			Str("lot_id", lotID).
			Str("code", code).
			Str("quantity", lot.Quantity.String()).
			Str("threshold", lot.Threshold.String()).
			Msg("lote en nivel crítico, alerta emitida")
		created = append(created, alert)
	}
	return created, nil
}
