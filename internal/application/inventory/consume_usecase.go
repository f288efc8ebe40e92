package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/labstock-api/internal/application/codes"
	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	dominv "github.com/jhoicas/labstock-api/internal/domain/inventory"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
	"github.com/jhoicas/labstock-api/pkg/logger"
	"github.com/jhoicas/labstock-api/pkg/metrics"
)

const defaultMaxAttempts = 3

// ConsumeInput entrada transitoria de un consumo (no se persiste).
type ConsumeInput struct {
	TenantID  string
	ArticleID string
	Quantity  decimal.Decimal
	Policy    dominv.Policy
	Reference string // examen / solicitud que origina el consumo
}

// ConsumeResult batch de movimientos confirmado más las alertas emitidas.
// AlertError no vacío significa que la evaluación de alertas falló DESPUÉS
// de confirmar el consumo: el batch es válido y la evaluación puede
// reintentarse fuera de línea.
type ConsumeResult struct {
	Reference  string
	Movements  []*entity.StockMovement
	LotsTouched []string
	Alerts     []*entity.StockAlert
	AlertError string
	Attempts   int
}

// ConsumeStockUseCase orquesta el consumo de stock de un examen:
// planifica sobre una foto de los lotes, aplica el plan como una unidad
// atómica con decrementos condicionales, y evalúa alertas sobre el estado
// post-commit. Ante un cambio concurrente replanifica con reintentos
// acotados.
type ConsumeStockUseCase struct {
	txRunner    TxRunner
	lotRepo     repository.StockLotRepository
	articleRepo repository.ArticleRepository
	allocator   *codes.Allocator
	evaluator   *AlertEvaluator
	dispatcher  AlertDispatcher
	log         *logger.Logger
	now         func() time.Time
	maxAttempts int
}

// ConsumeOption configura el caso de uso.
type ConsumeOption func(*ConsumeStockUseCase)

// WithMaxAttempts ajusta los ciclos replanificar-reintentar ante conflicto.
func WithMaxAttempts(n int) ConsumeOption {
	return func(uc *ConsumeStockUseCase) {
		if n > 0 {
			uc.maxAttempts = n
		}
	}
}

// WithClock sustituye el reloj (tests).
func WithClock(now func() time.Time) ConsumeOption {
	return func(uc *ConsumeStockUseCase) { uc.now = now }
}

// NewConsumeStockUseCase construye el caso de uso.
func NewConsumeStockUseCase(
	txRunner TxRunner,
	lotRepo repository.StockLotRepository,
	articleRepo repository.ArticleRepository,
	allocator *codes.Allocator,
	evaluator *AlertEvaluator,
	dispatcher AlertDispatcher,
	log *logger.Logger,
	opts ...ConsumeOption,
) *ConsumeStockUseCase {
	uc := &ConsumeStockUseCase{
		txRunner:    txRunner,
		lotRepo:     lotRepo,
		articleRepo: articleRepo,
		allocator:   allocator,
		evaluator:   evaluator,
		dispatcher:  dispatcher,
		log:         log,
		now:         time.Now,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ConsumeStock ejecuta el ciclo completo: plan → apply → alertas.
// El tenant llega siempre como parámetro explícito; nada se infiere de
// estado ambiente.
func (uc *ConsumeStockUseCase) ConsumeStock(ctx context.Context, input ConsumeInput) (*ConsumeResult, error) {
	if err := uc.validate(ctx, input); err != nil {
		metrics.ConsumptionsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, err
	}

	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		result, err := uc.planAndApply(ctx, input, attempt)
		if err == nil {
			uc.finishWithAlerts(ctx, input.TenantID, result)
			metrics.ConsumptionsTotal.WithLabelValues("ok").Inc()
			return result, nil
		}
		if errors.Is(err, domain.ErrConcurrentStockChange) {
			metrics.ConflictRetriesTotal.Inc()
			uc.log.Warn().
				Str("tenant_id", input.TenantID).
				Str("article_id", input.ArticleID).
				Int("attempt", attempt).
				Msg("consumo perdió la carrera por un lote, replanificando")
			continue
		}
		metrics.ConsumptionsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, err
	}

	// Reintentos agotados: el veredicto final sale de la foto más fresca.
	// Si ya no alcanza el stock el caller recibe el faltante; si alcanza
	// pero seguimos perdiendo carreras, surfar el conflicto.
	lots, err := uc.lotRepo.ListAvailable(ctx, input.TenantID, input.ArticleID)
	if err == nil {
		if _, planErr := dominv.Plan(lots, input.Quantity, input.Policy); planErr != nil {
			metrics.ConsumptionsTotal.WithLabelValues(outcomeLabel(planErr)).Inc()
			return nil, planErr
		}
	}
	metrics.ConsumptionsTotal.WithLabelValues("conflict").Inc()
	return nil, domain.ErrConcurrentStockChange
}

func (uc *ConsumeStockUseCase) validate(ctx context.Context, input ConsumeInput) error {
	if input.TenantID == "" || input.ArticleID == "" || input.Reference == "" {
		return domain.ErrInvalidInput
	}
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if !input.Policy.Valid() {
		return domain.ErrInvalidInput
	}

	article, err := uc.articleRepo.GetByID(ctx, input.ArticleID)
	if err != nil {
		return err
	}
	if article == nil {
		return domain.ErrNotFound
	}
	if article.TenantID != input.TenantID {
		return domain.ErrTenantMismatch
	}
	return nil
}

// planAndApply toma la foto, planifica y aplica el plan en una transacción.
// Un decremento condicional fallido aborta la tx completa con
// ErrConcurrentStockChange; no queda ninguna línea aplicada parcialmente.
func (uc *ConsumeStockUseCase) planAndApply(ctx context.Context, input ConsumeInput, attempt int) (*ConsumeResult, error) {
	lots, err := uc.lotRepo.ListAvailable(ctx, input.TenantID, input.ArticleID)
	if err != nil {
		return nil, err
	}
	plan, err := dominv.Plan(lots, input.Quantity, input.Policy)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	movements := make([]*entity.StockMovement, 0, len(plan))
	touched := make([]string, 0, len(plan))

	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.StockLotRepository,
		movRepo repository.StockMovementRepository,
		_ repository.StockAlertRepository,
		codeRepo repository.CodeRepository,
	) error {
		alloc := uc.allocator.WithRepo(codeRepo)
		for _, line := range plan {
			ok, err := lotRepo.DecrementIfAvailable(ctx, input.TenantID, line.LotID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrConcurrentStockChange
			}
			code, err := alloc.Allocate(ctx, input.TenantID, "stock_movements")
			if err != nil {
				return err
			}
			mov := &entity.StockMovement{
				ID:        uuid.New().String(),
				TenantID:  input.TenantID,
				LotID:     line.LotID,
				Delta:     line.Quantity.Neg(),
				Reference: input.Reference,
				Code:      code,
				CreatedAt: now,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
			movements = append(movements, mov)
			touched = append(touched, line.LotID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ConsumeResult{
		Reference:   input.Reference,
		Movements:   movements,
		LotsTouched: touched,
		Attempts:    attempt,
	}, nil
}

// finishWithAlerts evalúa alertas sobre el estado post-commit y las entrega
// al dispatcher. Un fallo aquí se reporta en el resultado pero nunca
// revierte el consumo ya confirmado.
func (uc *ConsumeStockUseCase) finishWithAlerts(ctx context.Context, tenantID string, result *ConsumeResult) {
	alerts, err := uc.evaluator.Evaluate(ctx, tenantID, result.LotsTouched)
	result.Alerts = alerts
	if err != nil {
		result.AlertError = err.Error()
		uc.log.Error().Err(err).
			Str("tenant_id", tenantID).
			Str("reference", result.Reference).
			Msg("evaluación de alertas falló después del commit; reintentar fuera de línea")
	}
	if len(alerts) > 0 && uc.dispatcher != nil {
		uc.dispatcher.Dispatch(ctx, alerts)
	}
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrConcurrentStockChange):
		return "conflict"
	case errors.Is(err, domain.ErrCodeGenerationFailed):
		return "code_generation_failed"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrTenantMismatch):
		return "tenant_mismatch"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
