package category

import (
	"context"

	"autoparts-catalog/internal/domain"
)

// Repository is the category store. Read primitives are safe for concurrent
// invocation; ListChildren is the single-level lookup the tree builder
// composes, ordered by (sort_order asc, name asc).
type Repository interface {
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	ListChildren(ctx context.Context, parentID string) ([]domain.Category, error)
	List(ctx context.Context, f domain.CategoryFilter) ([]domain.Category, error)
	CountByPartType(ctx context.Context) (map[domain.PartType]int, error)
	CountByCriticality(ctx context.Context) (map[domain.CriticalityLevel]int, error)
	CountByCompatibility(ctx context.Context) (map[domain.CompatibilityLevel]int, error)
}
