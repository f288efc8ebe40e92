package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

var _ repository.CodeRepository = (*CodeRepo)(nil)

// Tablas con columna code; cerrado a propósito: una tabla no listada es un
// error de programación, no un caso a tolerar.
var codeTables = map[string]bool{
	"stock_movements": true,
	"stock_alerts":    true,
}

// CodeRepo verifica unicidad de códigos por (tenant, tabla) sobre PostgreSQL.
// Usado dentro de la misma transacción que inserta la fila del código.
type CodeRepo struct {
	q Querier
}

// NewCodeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCodeRepository(q Querier) *CodeRepo {
	return &CodeRepo{q: q}
}

// Exists indica si el código ya está tomado en la tabla para el tenant.
func (r *CodeRepo) Exists(ctx context.Context, tenantID, table, code string) (bool, error) {
	if !codeTables[table] {
		return false, fmt.Errorf("tabla sin columna code: %s", table)
	}
	// table proviene del mapa cerrado de arriba, nunca de entrada del usuario.
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE tenant_id = $1 AND code = $2)`, table)
	var exists bool
	if err := r.q.QueryRow(ctx, query, tenantID, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("check code: %w", err)
	}
	return exists, nil
}
