package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores del motor de consumo. Se registran en el registry global y se
// exponen en GET /metrics.
var (
	// ConsumptionsTotal consumos por resultado (ok, insufficient_stock,
	// conflict, code_generation_failed, invalid_input, ...).
	ConsumptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "labstock",
		Name:      "consumptions_total",
		Help:      "Consumos de stock procesados, por resultado.",
	}, []string{"outcome"})

	// ConflictRetriesTotal ciclos replanificar-reintentar por carreras
	// perdidas sobre un lote.
	ConflictRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "labstock",
		Name:      "conflict_retries_total",
		Help:      "Replanificaciones por cambio concurrente de stock.",
	})

	// AlertsEmittedTotal alertas de stock crítico emitidas.
	AlertsEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "labstock",
		Name:      "alerts_emitted_total",
		Help:      "Alertas de stock crítico emitidas.",
	})
)
