package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
	"github.com/jhoicas/labstock-api/internal/domain/repository"
)

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

// ArticleRepo lectura de artículos sobre PostgreSQL (usable con pool o tx).
type ArticleRepo struct {
	q Querier
}

// NewArticleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

// GetByID obtiene un artículo por ID; nil si no existe. No filtra por tenant:
// el caso de uso compara TenantID para fallar rápido con ErrTenantMismatch.
func (r *ArticleRepo) GetByID(ctx context.Context, articleID string) (*entity.Article, error) {
	query := `
		SELECT id, tenant_id, name, unit, created_at
		FROM articles WHERE id = $1`
	var a entity.Article
	err := r.q.QueryRow(ctx, query, articleID).Scan(&a.ID, &a.TenantID, &a.Name, &a.Unit, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return &a, nil
}
