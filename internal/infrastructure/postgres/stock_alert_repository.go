package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

var _ repository.StockAlertRepository = (*StockAlertRepo)(nil)

// StockAlertRepo implementación sobre PostgreSQL (usable con pool o tx).
// Las alertas son hechos de auditoría: append-only.
type StockAlertRepo struct {
	q Querier
}

// NewStockAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAlertRepository(q Querier) *StockAlertRepo {
	return &StockAlertRepo{q: q}
}

// Create persiste una alerta de stock crítico.
func (r *StockAlertRepo) Create(ctx context.Context, alert *entity.StockAlert) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_alerts (id, tenant_id, lot_id, quantity_at_alert, threshold_at_alert, code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		alert.ID, alert.TenantID, alert.LotID,
		alert.QuantityAtAlert, alert.ThresholdAtAlert, alert.Code, alert.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código %s ya reservado", domain.ErrCodeGenerationFailed, alert.Code)
		}
		return fmt.Errorf("create stock alert: %w", err)
	}
	return nil
}

// ListByLot lista las alertas de un lote, más antiguas primero.
func (r *StockAlertRepo) ListByLot(ctx context.Context, tenantID, lotID string) ([]*entity.StockAlert, error) {
	query := `
		SELECT id, tenant_id, lot_id, quantity_at_alert, threshold_at_alert, code, created_at
		FROM stock_alerts
		WHERE tenant_id = $1 AND lot_id = $2
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, tenantID, lotID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockAlert
	for rows.Next() {
		var a entity.StockAlert
		if err := rows.Scan(&a.ID, &a.TenantID, &a.LotID, &a.QuantityAtAlert, &a.ThresholdAtAlert, &a.Code, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
