package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLot representa un lote físico de un artículo: una recepción concreta
// con su fecha de ingreso, vencimiento opcional y umbral crítico propio.
// Invariante: Quantity nunca es negativa; el lote solo se decrementa desde
// el motor de consumo (las entradas las hace el flujo de recepción).
type StockLot struct {
	ID        string
	TenantID  string
	ArticleID string
	Quantity  decimal.Decimal
	ReceivedAt time.Time
	ExpiresAt  *time.Time // nil = sin fecha de vencimiento
	Threshold  decimal.Decimal
	UpdatedAt  time.Time
}

// BelowThreshold indica si el lote quedó en nivel crítico.
func (l *StockLot) BelowThreshold() bool {
	return l.Quantity.LessThanOrEqual(l.Threshold)
}
