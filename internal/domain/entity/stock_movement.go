package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement es una fila inmutable del libro de movimientos: registra el
// delta aplicado a un lote (negativo para consumos) con la referencia del
// examen que lo causó. Append-only: nunca se actualiza ni se borra.
type StockMovement struct {
	ID        string
	TenantID  string
	LotID     string
	Delta     decimal.Decimal // negativo para consumo
	Reference string          // examen / solicitud que originó el movimiento
	Code      string          // código legible MOV-YYMM-XXXX
	CreatedAt time.Time
}
