package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
)

// Policy define el orden de agotamiento de lotes.
type Policy string

const (
	// PolicyOldestFirst agota primero el lote recibido hace más tiempo (FIFO).
	PolicyOldestFirst Policy = "oldest_first"
	// PolicySoonestExpiry agota primero el lote más próximo a vencer (FEFO);
	// los lotes sin vencimiento van al final.
	PolicySoonestExpiry Policy = "soonest_expiry"
)

// Valid indica si la política es una de las soportadas.
func (p Policy) Valid() bool {
	return p == PolicyOldestFirst || p == PolicySoonestExpiry
}

// Allocation es una línea del plan: cuánto tomar de qué lote.
type Allocation struct {
	LotID    string
	Quantity decimal.Decimal
}

// Plan propone una asignación ordenada sobre una foto de los lotes
// disponibles. Es una función pura: nunca muta los lotes ni produce efectos;
// para entradas idénticas el plan es idéntico (desempate por ID de lote).
//
// Devuelve *domain.InsufficientStockError con el faltante exacto si el total
// disponible no alcanza, y domain.ErrInvalidInput si needed <= 0.
func Plan(lots []*entity.StockLot, needed decimal.Decimal, policy Policy) ([]Allocation, error) {
	if needed.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if !policy.Valid() {
		return nil, domain.ErrInvalidInput
	}

	// Foto de candidatos: solo lotes con cantidad positiva; copia para no
	// reordenar el slice del caller.
	candidates := make([]*entity.StockLot, 0, len(lots))
	total := decimal.Zero
	for _, lot := range lots {
		if lot.Quantity.GreaterThan(decimal.Zero) {
			candidates = append(candidates, lot)
			total = total.Add(lot.Quantity)
		}
	}
	if total.LessThan(needed) {
		return nil, &domain.InsufficientStockError{Shortfall: needed.Sub(total)}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return lessByPolicy(candidates[i], candidates[j], policy)
	})

	// Asignación voraz desde la cabeza del orden.
	plan := make([]Allocation, 0, len(candidates))
	remaining := needed
	for _, lot := range candidates {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := lot.Quantity
		if take.GreaterThan(remaining) {
			take = remaining
		}
		plan = append(plan, Allocation{LotID: lot.ID, Quantity: take})
		remaining = remaining.Sub(take)
	}
	return plan, nil
}

// lessByPolicy ordena según la política; empates por ID de lote ascendente
// para que el plan sea determinista y reproducible.
func lessByPolicy(a, b *entity.StockLot, policy Policy) bool {
	switch policy {
	case PolicySoonestExpiry:
		switch {
		case a.ExpiresAt == nil && b.ExpiresAt == nil:
			// ambos sin vencimiento: desempate por ID
		case a.ExpiresAt == nil:
			return false // sin vencimiento al final
		case b.ExpiresAt == nil:
			return true
		case !a.ExpiresAt.Equal(*b.ExpiresAt):
			return a.ExpiresAt.Before(*b.ExpiresAt)
		}
	default: // PolicyOldestFirst
		if !a.ReceivedAt.Equal(b.ReceivedAt) {
			return a.ReceivedAt.Before(b.ReceivedAt)
		}
	}
	return a.ID < b.ID
}
