package codes_test

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/labstock-api/internal/application/codes"
	"github.com/jhoicas/labstock-api/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: repositorio de códigos en memoria y fuente de aleatoriedad fija
// ──────────────────────────────────────────────────────────────────────────────

// memCodeRepo guarda los códigos ya reservados por (tenant, tabla).
type memCodeRepo struct {
	mu    sync.Mutex
	taken map[string]bool
}

func newMemCodeRepo() *memCodeRepo {
	return &memCodeRepo{taken: make(map[string]bool)}
}

func (r *memCodeRepo) key(tenantID, table, code string) string {
	return tenantID + "|" + table + "|" + code
}

func (r *memCodeRepo) Exists(_ context.Context, tenantID, table, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.taken[r.key(tenantID, table, code)], nil
}

func (r *memCodeRepo) reserve(tenantID, table, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.taken[r.key(tenantID, table, code)] = true
}

// seqSource devuelve sufijos de una secuencia fija (determinismo en tests).
type seqSource struct {
	mu   sync.Mutex
	seq  []string
	next int
}

func (s *seqSource) Suffix(_ int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.seq) {
		return "", fmt.Errorf("secuencia agotada")
	}
	v := s.seq[s.next]
	s.next++
	return v, nil
}

func fixedClock() time.Time {
	return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
}

// ──────────────────────────────────────────────────────────────────────────────
// Formato y prefijos
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_FormatoPrefijoYYMMSufijo(t *testing.T) {
	alloc := codes.NewAllocator(newMemCodeRepo(),
		codes.WithRandomSource(&seqSource{seq: []string{"7K2Q"}}),
		codes.WithClock(fixedClock),
	)

	code, err := alloc.Allocate(context.Background(), "tenant-1", "stock_movements")
	require.NoError(t, err)
	assert.Equal(t, "MOV-2403-7K2Q", code,
		"formato esperado: PREFIX-YYMM-RAND4 con el mes de asignación")
}

func TestAllocate_PrefijoAlertas(t *testing.T) {
	alloc := codes.NewAllocator(newMemCodeRepo(),
		codes.WithRandomSource(&seqSource{seq: []string{"AAAA"}}),
		codes.WithClock(fixedClock),
	)
	code, err := alloc.Allocate(context.Background(), "tenant-1", "stock_alerts")
	require.NoError(t, err)
	assert.Equal(t, "ALR-2403-AAAA", code)
}

// Tabla sin prefijo mapeado: iniciales de las palabras en mayúscula.
func TestAllocate_PrefijoPorDefectoIniciales(t *testing.T) {
	alloc := codes.NewAllocator(newMemCodeRepo(),
		codes.WithRandomSource(&seqSource{seq: []string{"Z9Z9"}}),
		codes.WithClock(fixedClock),
	)
	code, err := alloc.Allocate(context.Background(), "tenant-1", "exam_requests")
	require.NoError(t, err)
	assert.Equal(t, "ER-2403-Z9Z9", code, "fallback: iniciales de exam_requests")
}

// ──────────────────────────────────────────────────────────────────────────────
// Colisiones y reintentos
// ──────────────────────────────────────────────────────────────────────────────

// Si el candidato ya existe, se reintenta con un sufijo nuevo.
func TestAllocate_ColisionReintenta(t *testing.T) {
	repo := newMemCodeRepo()
	repo.reserve("tenant-1", "stock_movements", "MOV-2403-AAAA")
	repo.reserve("tenant-1", "stock_movements", "MOV-2403-BBBB")

	alloc := codes.NewAllocator(repo,
		codes.WithRandomSource(&seqSource{seq: []string{"AAAA", "BBBB", "CCCC"}}),
		codes.WithClock(fixedClock),
	)

	code, err := alloc.Allocate(context.Background(), "tenant-1", "stock_movements")
	require.NoError(t, err)
	assert.Equal(t, "MOV-2403-CCCC", code, "debe saltar los dos códigos tomados")
}

// Reintentos agotados → ErrCodeGenerationFailed, nunca un código repetido.
func TestAllocate_ReintentosAgotados(t *testing.T) {
	repo := newMemCodeRepo()
	repo.reserve("tenant-1", "stock_movements", "MOV-2403-XXXX")

	alloc := codes.NewAllocator(repo,
		codes.WithRandomSource(&seqSource{seq: []string{"XXXX", "XXXX", "XXXX"}}),
		codes.WithClock(fixedClock),
		codes.WithMaxRetries(3),
	)

	_, err := alloc.Allocate(context.Background(), "tenant-1", "stock_movements")
	assert.ErrorIs(t, err, domain.ErrCodeGenerationFailed,
		"agotar los reintentos debe surfar ErrCodeGenerationFailed")
}

// La unicidad es por tabla: el mismo sufijo sirve en tablas distintas.
func TestAllocate_UnicidadPorTabla(t *testing.T) {
	repo := newMemCodeRepo()
	repo.reserve("tenant-1", "stock_movements", "MOV-2403-AAAA")

	alloc := codes.NewAllocator(repo,
		codes.WithRandomSource(&seqSource{seq: []string{"AAAA"}}),
		codes.WithClock(fixedClock),
	)
	code, err := alloc.Allocate(context.Background(), "tenant-1", "stock_alerts")
	require.NoError(t, err)
	assert.Equal(t, "ALR-2403-AAAA", code)
}

func TestAllocate_EntradaInvalida(t *testing.T) {
	alloc := codes.NewAllocator(newMemCodeRepo())
	_, err := alloc.Allocate(context.Background(), "", "stock_movements")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = alloc.Allocate(context.Background(), "tenant-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: N asignaciones concurrentes, N códigos distintos
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocate_ConcurrentesTodosDistintos(t *testing.T) {
	const n = 50
	repo := newMemCodeRepo()
	alloc := codes.NewAllocator(repo, codes.WithClock(fixedClock))

	var mu sync.Mutex
	seen := make(map[string]bool, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			code, err := alloc.Allocate(context.Background(), "tenant-1", "stock_movements")
			require.NoError(t, err)
			// Reservar simula el insert que acompaña la asignación.
			mu.Lock()
			assert.False(t, seen[code], "dos asignaciones concurrentes no pueden repetir código")
			seen[code] = true
			mu.Unlock()
			repo.reserve("tenant-1", "stock_movements", code)
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n, "los N códigos deben ser distintos dos a dos")
	format := regexp.MustCompile(`^MOV-2403-[A-Z0-9]{4}$`)
	for code := range seen {
		assert.Regexp(t, format, code)
	}
}
