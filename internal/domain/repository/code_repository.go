package repository

import "context"

// CodeRepository verificación de unicidad de códigos legibles por tabla.
// La verificación debe correr en la misma transacción que el insert de la
// fila que usará el código; el índice único (tenant_id, code) de cada tabla
// es el árbitro final ante dos allocators concurrentes.
type CodeRepository interface {
	Exists(ctx context.Context, tenantID, table, code string) (bool, error)
}
