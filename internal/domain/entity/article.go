package entity

import "time"

// Article representa un artículo consumible del laboratorio (reactivo, insumo).
// El stock físico vive en lotes (StockLot), nunca en el artículo.
type Article struct {
	ID        string
	TenantID  string
	Name      string
	Unit      string // unidad de medida: ml, und, caja...
	CreatedAt time.Time
}
