package inventory_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/labstock-api/internal/application/inventory"
	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional (snapshot + restore).
// Sustituye a PostgreSQL en los tests del caso de uso: mismo contrato de
// decremento condicional y de atomicidad del batch.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex // serializa transacciones (equivalente a la serialización por filas)

	articles  map[string]*entity.Article
	lots      map[string]*entity.StockLot
	movements []*entity.StockMovement
	alerts    []*entity.StockAlert
	codes     map[string]bool // tenant|tabla|código ya reservados

	// failDecrements simula carreras perdidas: mientras el contador de un
	// lote sea > 0, DecrementIfAvailable devuelve false y lo descuenta.
	failDecrements map[string]int
	// failAlertCreate fuerza el fallo de persistencia de alertas.
	failAlertCreate bool
}

func newMemStore() *memStore {
	return &memStore{
		articles:       make(map[string]*entity.Article),
		lots:           make(map[string]*entity.StockLot),
		codes:          make(map[string]bool),
		failDecrements: make(map[string]int),
	}
}

func (s *memStore) addArticle(id, tenantID string) {
	s.articles[id] = &entity.Article{ID: id, TenantID: tenantID, Name: "art " + id, Unit: "und"}
}

func (s *memStore) addLot(l *entity.StockLot) {
	clone := *l
	s.lots[l.ID] = &clone
}

func (s *memStore) lotQty(id string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lots[id].Quantity
}

func codeKey(tenantID, table, code string) string {
	return tenantID + "|" + table + "|" + code
}

type storeSnapshot struct {
	lots      map[string]entity.StockLot
	movements int
	alerts    int
	codes     map[string]bool
}

func (s *memStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := storeSnapshot{
		lots:      make(map[string]entity.StockLot, len(s.lots)),
		movements: len(s.movements),
		alerts:    len(s.alerts),
		codes:     make(map[string]bool, len(s.codes)),
	}
	for id, l := range s.lots {
		snap.lots[id] = *l
	}
	for k := range s.codes {
		snap.codes[k] = true
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, l := range snap.lots {
		clone := l
		s.lots[id] = &clone
	}
	s.movements = s.movements[:snap.movements]
	s.alerts = s.alerts[:snap.alerts]
	s.codes = snap.codes
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

type memTxRunner struct {
	store *memStore
}

func (r *memTxRunner) Run(_ context.Context, fn func(
	lotRepo repository.StockLotRepository,
	movRepo repository.StockMovementRepository,
	alertRepo repository.StockAlertRepository,
	codeRepo repository.CodeRepository,
) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()

	snap := r.store.snapshot()
	err := fn(
		&memLotRepo{store: r.store},
		&memMovementRepo{store: r.store},
		&memAlertRepo{store: r.store},
		&memCodeRepo{store: r.store},
	)
	if err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// ── Repositorios ──────────────────────────────────────────────────────────────

type memLotRepo struct {
	store *memStore
}

func (r *memLotRepo) ListAvailable(_ context.Context, tenantID, articleID string) ([]*entity.StockLot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var lots []*entity.StockLot
	for _, l := range r.store.lots {
		if l.TenantID == tenantID && l.ArticleID == articleID && l.Quantity.GreaterThan(decimal.Zero) {
			clone := *l
			lots = append(lots, &clone)
		}
	}
	return lots, nil
}

func (r *memLotRepo) GetByID(_ context.Context, tenantID, lotID string) (*entity.StockLot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	l, ok := r.store.lots[lotID]
	if !ok || l.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *memLotRepo) DecrementIfAvailable(_ context.Context, tenantID, lotID string, qty decimal.Decimal) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if n := r.store.failDecrements[lotID]; n > 0 {
		r.store.failDecrements[lotID] = n - 1
		return false, nil
	}
	l, ok := r.store.lots[lotID]
	if !ok || l.TenantID != tenantID || l.Quantity.LessThan(qty) {
		return false, nil
	}
	l.Quantity = l.Quantity.Sub(qty)
	return true, nil
}

type memMovementRepo struct {
	store *memStore
}

func (r *memMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	clone := *m
	r.store.movements = append(r.store.movements, &clone)
	r.store.codes[codeKey(m.TenantID, "stock_movements", m.Code)] = true
	return nil
}

func (r *memMovementRepo) ListByLot(_ context.Context, tenantID, lotID string) ([]*entity.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var list []*entity.StockMovement
	for _, m := range r.store.movements {
		if m.TenantID == tenantID && m.LotID == lotID {
			list = append(list, m)
		}
	}
	return list, nil
}

func (r *memMovementRepo) ListByReference(_ context.Context, tenantID, reference string) ([]*entity.StockMovement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var list []*entity.StockMovement
	for _, m := range r.store.movements {
		if m.TenantID == tenantID && m.Reference == reference {
			list = append(list, m)
		}
	}
	return list, nil
}

type memAlertRepo struct {
	store *memStore
}

func (r *memAlertRepo) Create(_ context.Context, a *entity.StockAlert) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failAlertCreate {
		return fmt.Errorf("almacén de alertas no disponible")
	}
	clone := *a
	r.store.alerts = append(r.store.alerts, &clone)
	r.store.codes[codeKey(a.TenantID, "stock_alerts", a.Code)] = true
	return nil
}

func (r *memAlertRepo) ListByLot(_ context.Context, tenantID, lotID string) ([]*entity.StockAlert, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var list []*entity.StockAlert
	for _, a := range r.store.alerts {
		if a.TenantID == tenantID && a.LotID == lotID {
			list = append(list, a)
		}
	}
	return list, nil
}

type memCodeRepo struct {
	store *memStore
}

func (r *memCodeRepo) Exists(_ context.Context, tenantID, table, code string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.codes[codeKey(tenantID, table, code)], nil
}

type memArticleRepo struct {
	store *memStore
}

func (r *memArticleRepo) GetByID(_ context.Context, articleID string) (*entity.Article, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.articles[articleID]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

// ── Dispatcher ────────────────────────────────────────────────────────────────

type collectDispatcher struct {
	mu     sync.Mutex
	alerts []*entity.StockAlert
}

func (d *collectDispatcher) Dispatch(_ context.Context, alerts []*entity.StockAlert) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts = append(d.alerts, alerts...)
}

var _ inventory.AlertDispatcher = (*collectDispatcher)(nil)
var _ inventory.TxRunner = (*memTxRunner)(nil)
var _ repository.StockLotRepository = (*memLotRepo)(nil)
var _ repository.StockMovementRepository = (*memMovementRepo)(nil)
var _ repository.StockAlertRepository = (*memAlertRepo)(nil)
var _ repository.CodeRepository = (*memCodeRepo)(nil)
var _ repository.ArticleRepository = (*memArticleRepo)(nil)
