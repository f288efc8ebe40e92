package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/labstock-api/internal/application/inventory"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// El conjunto de filas tocadas por el callback (decrementos de lotes +
// movimientos + códigos) se confirma o revierte como una unidad.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.StockLotRepository,
	movRepo repository.StockMovementRepository,
	alertRepo repository.StockAlertRepository,
	codeRepo repository.CodeRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lotRepo := NewStockLotRepository(tx)
	movRepo := NewStockMovementRepository(tx)
	alertRepo := NewStockAlertRepository(tx)
	codeRepo := NewCodeRepository(tx)

	if err := fn(lotRepo, movRepo, alertRepo, codeRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
