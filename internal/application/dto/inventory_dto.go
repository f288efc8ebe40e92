package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsumeStockRequest body para POST /api/inventory/consumptions.
// policy: oldest_first | soonest_expiry. reference: examen/solicitud origen.
type ConsumeStockRequest struct {
	ArticleID string          `json:"article_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Policy    string          `json:"policy"`
	Reference string          `json:"reference"`
}

// MovementDTO una línea del batch confirmado.
type MovementDTO struct {
	ID        string          `json:"id"`
	LotID     string          `json:"lot_id"`
	Delta     decimal.Decimal `json:"delta"`
	Reference string          `json:"reference"`
	Code      string          `json:"code"`
	CreatedAt time.Time       `json:"created_at"`
}

// AlertDTO una alerta de stock crítico emitida.
type AlertDTO struct {
	ID               string          `json:"id"`
	LotID            string          `json:"lot_id"`
	QuantityAtAlert  decimal.Decimal `json:"quantity_at_alert"`
	ThresholdAtAlert decimal.Decimal `json:"threshold_at_alert"`
	Code             string          `json:"code"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ConsumeStockResponse respuesta de un consumo confirmado.
// alert_error presente solo si la evaluación de alertas falló después del
// commit (el batch sigue siendo válido).
type ConsumeStockResponse struct {
	Reference  string        `json:"reference"`
	Movements  []MovementDTO `json:"movements"`
	Alerts     []AlertDTO    `json:"alerts"`
	AlertError string        `json:"alert_error,omitempty"`
	Attempts   int           `json:"attempts"`
}

// LotDTO un lote disponible de un artículo.
type LotDTO struct {
	ID         string          `json:"id"`
	ArticleID  string          `json:"article_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	ReceivedAt time.Time       `json:"received_at"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
	Threshold  decimal.Decimal `json:"threshold"`
}

// AllocateCodeRequest body para POST /api/codes.
type AllocateCodeRequest struct {
	Table string `json:"table"`
}

// AllocateCodeResponse código asignado.
type AllocateCodeResponse struct {
	Code string `json:"code"`
}
