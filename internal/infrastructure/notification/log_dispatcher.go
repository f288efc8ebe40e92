package notification

import (
	"context"

	"github.com/jhoicas/labstock-api/internal/application/inventory"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/pkg/logger"
)

var _ inventory.AlertDispatcher = (*LogDispatcher)(nil)

// LogDispatcher entrega las alertas al log estructurado. El despachador real
// (correo, webhook) vive fuera de este servicio y consume el mismo puerto;
// la entrega siempre queda desacoplada de la transacción del motor.
type LogDispatcher struct {
	log *logger.Logger
}

// NewLogDispatcher construye el dispatcher.
func NewLogDispatcher(log *logger.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

// Dispatch registra cada alerta emitida.
func (d *LogDispatcher) Dispatch(_ context.Context, alerts []*entity.StockAlert) {
	for _, a := range alerts {
		d.log.Info().
			Str("tenant_id", a.TenantID).
			Str("lot_id", a.LotID).
			Str("code", a.Code).
			Str("quantity_at_alert", a.QuantityAtAlert.String()).
			Str("threshold_at_alert", a.ThresholdAtAlert.String()).
			Msg("alerta de stock crítico despachada")
	}
}
