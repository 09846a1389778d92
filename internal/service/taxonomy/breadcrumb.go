package taxonomy

import (
	"context"
	"fmt"

	"autoparts-catalog/internal/domain"
)

// breadcrumbs walks parent links upward from c and returns the root-first
// path ending with c itself. A revisited id fails with ErrCycleDetected:
// the forest invariant makes that unreachable on healthy data, so a hit
// means store corruption and is surfaced untouched.
func (s *Service) breadcrumbs(ctx context.Context, c *domain.Category) ([]domain.Breadcrumb, error) {
	crumbs := []domain.Breadcrumb{crumbOf(c)}
	seen := map[string]struct{}{c.ID: {}}

	current := c
	for current.ParentID != "" {
		if _, ok := seen[current.ParentID]; ok {
			return nil, fmt.Errorf("%w: id %s revisited walking up from %s", domain.ErrCycleDetected, current.ParentID, c.ID)
		}
		parent, err := s.repo.GetByID(ctx, current.ParentID)
		if err != nil {
			return nil, fmt.Errorf("resolve ancestor %s: %w", current.ParentID, err)
		}
		seen[parent.ID] = struct{}{}
		crumbs = append([]domain.Breadcrumb{crumbOf(parent)}, crumbs...)
		current = parent
	}
	return crumbs, nil
}

// rootOf returns the id of the root of c's tree, reusing the breadcrumb
// walk's cycle guard.
func (s *Service) rootOf(ctx context.Context, c *domain.Category) (string, error) {
	crumbs, err := s.breadcrumbs(ctx, c)
	if err != nil {
		return "", err
	}
	return crumbs[0].ID, nil
}

func crumbOf(c *domain.Category) domain.Breadcrumb {
	return domain.Breadcrumb{
		ID:       c.ID,
		Name:     c.Name,
		Slug:     c.Slug,
		PartType: c.PartType,
	}
}
