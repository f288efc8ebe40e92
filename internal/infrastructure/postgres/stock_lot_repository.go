package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

var _ repository.StockLotRepository = (*StockLotRepo)(nil)

// StockLotRepo implementación de StockLotRepository sobre PostgreSQL
// (usable con pool o tx).
type StockLotRepo struct {
	q Querier
}

// NewStockLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLotRepository(q Querier) *StockLotRepo {
	return &StockLotRepo{q: q}
}

const lotColumns = "id, tenant_id, article_id, quantity, received_at, expiry_at, threshold, updated_at"

// ListAvailable devuelve los lotes con existencias de un artículo del tenant.
// El orden aquí es solo estabilidad de lectura; el planner reordena según la
// política de agotamiento.
func (r *StockLotRepo) ListAvailable(ctx context.Context, tenantID, articleID string) ([]*entity.StockLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM stock_lots
		WHERE tenant_id = $1 AND article_id = $2 AND quantity > 0
		ORDER BY received_at, id`
	rows, err := r.q.Query(ctx, query, tenantID, articleID)
	if err != nil {
		return nil, fmt.Errorf("list available lots: %w", err)
	}
	defer rows.Close()

	var lots []*entity.StockLot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

// GetByID devuelve el lote del tenant, o domain.ErrNotFound.
func (r *StockLotRepo) GetByID(ctx context.Context, tenantID, lotID string) (*entity.StockLot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM stock_lots
		WHERE tenant_id = $1 AND id = $2`
	lot, err := scanLot(r.q.QueryRow(ctx, query, tenantID, lotID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

// DecrementIfAvailable resta qty solo si la cantidad actual alcanza, en una
// sola sentencia: la condición y la resta son indivisibles, así dos consumos
// en carrera sobre el mismo lote se serializan sin bloqueo pesimista.
// RowsAffected == 0 significa que otro consumo se adelantó.
func (r *StockLotRepo) DecrementIfAvailable(ctx context.Context, tenantID, lotID string, qty decimal.Decimal) (bool, error) {
	query := `
		UPDATE stock_lots
		SET quantity = quantity - $3, updated_at = now()
		WHERE tenant_id = $1 AND id = $2 AND quantity >= $3`
	tag, err := r.q.Exec(ctx, query, tenantID, lotID, qty)
	if err != nil {
		return false, fmt.Errorf("decrement lot: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// scanLot lee una fila de stock_lots (de Row o Rows).
func scanLot(row pgx.Row) (*entity.StockLot, error) {
	var l entity.StockLot
	if err := row.Scan(
		&l.ID, &l.TenantID, &l.ArticleID, &l.Quantity,
		&l.ReceivedAt, &l.ExpiresAt, &l.Threshold, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &l, nil
}
