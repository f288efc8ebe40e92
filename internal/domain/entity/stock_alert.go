package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAlert es el aviso puntual de stock crítico de un lote. Congela la
// cantidad y el umbral al instante de la evaluación; cada nueva caída bajo
// el umbral produce una fila nueva (sin deduplicación).
type StockAlert struct {
	ID               string
	TenantID         string
	LotID            string
	QuantityAtAlert  decimal.Decimal
	ThresholdAtAlert decimal.Decimal
	Code             string // código legible ALR-YYMM-XXXX
	CreatedAt        time.Time
}
