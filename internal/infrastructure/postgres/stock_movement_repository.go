package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// El libro es append-only: solo hay Create y lecturas.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento del libro. El índice único (tenant_id, code)
// convierte una carrera de códigos en violación 23505, que se reporta como
// fallo de generación de código.
func (r *StockMovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, tenant_id, lot_id, delta, reference, code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.TenantID, movement.LotID,
		movement.Delta, movement.Reference, movement.Code, movement.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código %s ya reservado", domain.ErrCodeGenerationFailed, movement.Code)
		}
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByLot lista los movimientos de un lote, más antiguos primero.
func (r *StockMovementRepo) ListByLot(ctx context.Context, tenantID, lotID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, tenant_id, lot_id, delta, reference, code, created_at
		FROM stock_movements
		WHERE tenant_id = $1 AND lot_id = $2
		ORDER BY created_at, id`
	return r.list(ctx, query, tenantID, lotID)
}

// ListByReference lista el batch de una referencia, más antiguos primero.
func (r *StockMovementRepo) ListByReference(ctx context.Context, tenantID, reference string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, tenant_id, lot_id, delta, reference, code, created_at
		FROM stock_movements
		WHERE tenant_id = $1 AND reference = $2
		ORDER BY created_at, id`
	return r.list(ctx, query, tenantID, reference)
}

func (r *StockMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.TenantID, &m.LotID, &m.Delta, &m.Reference, &m.Code, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
