package repository

import (
	"context"

	"github.com/jhoicas/labstock-api/internal/domain/entity"
)

// ArticleRepository lectura de artículos. GetByID no filtra por tenant:
// el caso de uso compara TenantID para distinguir "no existe" de
// "pertenece a otro tenant" (fail-fast con ErrTenantMismatch).
type ArticleRepository interface {
	GetByID(ctx context.Context, articleID string) (*entity.Article, error)
}
