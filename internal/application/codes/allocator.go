package codes

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/labstock-api/internal/domain"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

// Prefijos estáticos por tabla. Si la tabla no está mapeada se usan las
// iniciales de sus palabras en mayúscula (stock_requests → SR).
var tablePrefixes = map[string]string{
	"stock_movements": "MOV",
	"stock_alerts":    "ALR",
}

const (
	codeCharset       = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffixLen         = 4
	defaultMaxRetries = 5
)

// RandomSource produce el sufijo aleatorio del código. Inyectable para que
// los tests puedan sustituir una secuencia fija y volver el flujo determinista.
type RandomSource interface {
	Suffix(n int) (string, error)
}

// CryptoSource implementación por defecto sobre crypto/rand.
type CryptoSource struct{}

// Suffix devuelve n caracteres alfanuméricos en mayúscula.
func (CryptoSource) Suffix(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("leer crypto/rand: %w", err)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(out), nil
}

// Allocator genera códigos legibles únicos por tabla y tenant, con el
// formato PREFIX-YYMM-XXXX. La unicidad se verifica contra el repositorio
// (que debe estar atado a la misma transacción del insert que usará el
// código) con reintentos acotados ante colisión.
type Allocator struct {
	repo       repository.CodeRepository
	randSource RandomSource
	now        func() time.Time
	maxRetries int
}

// Option configura el Allocator (fuente de aleatoriedad, reloj, reintentos).
type Option func(*Allocator)

// WithRandomSource sustituye la fuente de aleatoriedad (tests).
func WithRandomSource(src RandomSource) Option {
	return func(a *Allocator) { a.randSource = src }
}

// WithClock sustituye el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(a *Allocator) { a.now = now }
}

// WithMaxRetries ajusta el máximo de intentos ante colisiones.
func WithMaxRetries(n int) Option {
	return func(a *Allocator) {
		if n > 0 {
			a.maxRetries = n
		}
	}
}

// NewAllocator construye el allocator sobre un repositorio de códigos.
func NewAllocator(repo repository.CodeRepository, opts ...Option) *Allocator {
	a := &Allocator{
		repo:       repo,
		randSource: CryptoSource{},
		now:        time.Now,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WithRepo devuelve una copia del allocator atada a otro repositorio
// (típicamente el repo de códigos de una transacción en curso).
func (a *Allocator) WithRepo(repo repository.CodeRepository) *Allocator {
	clone := *a
	clone.repo = repo
	return &clone
}

// Allocate genera un código único dentro de la tabla para el tenant.
// Genera candidato → verifica existencia → reintenta con sufijo nuevo; al
// agotar reintentos devuelve domain.ErrCodeGenerationFailed.
func (a *Allocator) Allocate(ctx context.Context, tenantID, table string) (string, error) {
	if tenantID == "" || table == "" {
		return "", domain.ErrInvalidInput
	}
	prefix := prefixFor(table)
	yymm := a.now().Format("0601")

	for attempt := 0; attempt < a.maxRetries; attempt++ {
		suffix, err := a.randSource.Suffix(suffixLen)
		if err != nil {
			return "", err
		}
		code := fmt.Sprintf("%s-%s-%s", prefix, yymm, suffix)

		exists, err := a.repo.Exists(ctx, tenantID, table, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: tabla %s, %d intentos", domain.ErrCodeGenerationFailed, table, a.maxRetries)
}

// prefixFor devuelve el prefijo mapeado o las iniciales de la tabla.
func prefixFor(table string) string {
	if p, ok := tablePrefixes[table]; ok {
		return p
	}
	var b strings.Builder
	for _, word := range strings.Split(table, "_") {
		if word != "" {
			b.WriteByte(word[0])
		}
	}
	return strings.ToUpper(b.String())
}
