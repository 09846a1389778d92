package taxonomy

import (
	"context"
	"fmt"

	"autoparts-catalog/internal/domain"
)

// buildTree materializes root and its descendants down to maxDepth with a
// worklist instead of recursion, so the depth bound is a first-class counter
// rather than an implicit call-stack guard. A node at depth == maxDepth keeps
// an empty child list even when children exist; the store's single-level
// child lookup is the only I/O, one call per visited node.
func (s *Service) buildTree(ctx context.Context, root domain.Category, maxDepth int) (*domain.CategoryTreeNode, error) {
	if maxDepth < 0 {
		return nil, fmt.Errorf("%w: maxDepth must be non-negative, got %d", domain.ErrValidation, maxDepth)
	}

	node := &domain.CategoryTreeNode{Category: root, Children: []*domain.CategoryTreeNode{}}

	type frame struct {
		node  *domain.CategoryTreeNode
		depth int
	}
	work := []frame{{node: node, depth: 0}}

	for len(work) > 0 {
		f := work[len(work)-1]
		work = work[:len(work)-1]

		if f.depth == maxDepth {
			continue
		}

		children, err := s.repo.ListChildren(ctx, f.node.ID)
		if err != nil {
			return nil, fmt.Errorf("list children of %s: %w", f.node.ID, err)
		}
		for _, child := range children {
			childNode := &domain.CategoryTreeNode{Category: child, Children: []*domain.CategoryTreeNode{}}
			f.node.Children = append(f.node.Children, childNode)
			work = append(work, frame{node: childNode, depth: f.depth + 1})
		}
	}
	return node, nil
}

// Tree builds one tree per root matched by filter, each bounded by maxDepth.
// The filter's ParentOnly flag is forced on; sibling order at every level is
// (order asc, name asc).
func (s *Service) Tree(ctx context.Context, filter domain.CategoryFilter, maxDepth int) ([]*domain.CategoryTreeNode, error) {
	if maxDepth < 0 {
		return nil, fmt.Errorf("%w: maxDepth must be non-negative, got %d", domain.ErrValidation, maxDepth)
	}

	filter.ParentOnly = true
	roots, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	forest := make([]*domain.CategoryTreeNode, 0, len(roots))
	for _, root := range roots {
		node, err := s.buildTree(ctx, root, maxDepth)
		if err != nil {
			return nil, err
		}
		forest = append(forest, node)
	}
	return forest, nil
}
