package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"

	"autoparts-catalog/internal/domain"
	"autoparts-catalog/internal/repository/category"
	"autoparts-catalog/internal/slug"
	"github.com/google/uuid"
)

// Service is the taxonomy engine: facet-filtered listing, tree and
// breadcrumb materialization, stats, and invariant-enforcing mutations with
// write-time metadata inheritance. Reads run concurrently; mutations
// serialize per root subtree.
type Service struct {
	repo   category.Repository
	logger *log.Logger

	// locks holds one mutex per root category id. Entries are never
	// evicted; the set is bounded by the number of roots.
	locks sync.Map
}

func New(repo category.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

// CreateInput carries a create request. Zero-valued automotive fields
// (empty PartType, nil VehicleCategories, empty CompatibilityLevel, empty
// CriticalityLevel, nil IsAutomotiveSpecific) inherit from the parent or
// fall back to defaults; non-zero values are explicit overrides.
type CreateInput struct {
	Name                   string                        `json:"name"`
	Slug                   string                        `json:"slug"`
	Description            string                        `json:"description"`
	Image                  *domain.CategoryImage         `json:"image"`
	Featured               bool                          `json:"featured"`
	ParentID               string                        `json:"parentId"`
	SortOrder              int                           `json:"order"`
	PartType               domain.PartType               `json:"partType"`
	VehicleCategories      []domain.VehicleCategory      `json:"vehicleCategory"`
	IsAutomotiveSpecific   *bool                         `json:"isAutomotiveSpecific"`
	CompatibilityLevel     domain.CompatibilityLevel     `json:"compatibilityLevel"`
	InstallationDifficulty domain.InstallationDifficulty `json:"installationDifficulty"`
	MaintenanceFrequency   domain.MaintenanceFrequency   `json:"maintenanceFrequency"`
	CriticalityLevel       domain.CriticalityLevel       `json:"criticalityLevel"`
}

// UpdateInput is a partial update; nil fields stay unchanged.
type UpdateInput struct {
	Name                   *string                        `json:"name"`
	Slug                   *string                        `json:"slug"`
	Description            *string                        `json:"description"`
	Image                  *domain.CategoryImage          `json:"image"`
	Featured               *bool                          `json:"featured"`
	ParentID               *string                        `json:"parentId"`
	SortOrder              *int                           `json:"order"`
	PartType               *domain.PartType               `json:"partType"`
	VehicleCategories      []domain.VehicleCategory       `json:"vehicleCategory"`
	IsAutomotiveSpecific   *bool                          `json:"isAutomotiveSpecific"`
	CompatibilityLevel     *domain.CompatibilityLevel     `json:"compatibilityLevel"`
	InstallationDifficulty *domain.InstallationDifficulty `json:"installationDifficulty"`
	MaintenanceFrequency   *domain.MaintenanceFrequency   `json:"maintenanceFrequency"`
	CriticalityLevel       *domain.CriticalityLevel       `json:"criticalityLevel"`
}

// Detail is a category together with its root-first ancestor path and
// direct children.
type Detail struct {
	domain.Category
	Breadcrumbs []domain.Breadcrumb `json:"breadcrumbs"`
	Children    []domain.Category   `json:"children"`
}

// VehicleTypeListing is the result of a by-vehicle-type query: the flat
// match list plus the same categories grouped by part type, both keeping
// (order asc, name asc) ordering. Categories without a part type appear in
// the flat list only.
type VehicleTypeListing struct {
	Flat              []domain.Category                     `json:"flat"`
	GroupedByPartType map[domain.PartType][]domain.Category `json:"groupedByPartType"`
}

// List returns categories matching filter in (order asc, name asc) order.
func (s *Service) List(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error) {
	return s.repo.List(ctx, filter)
}

// Get returns the category with its breadcrumbs and direct children.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	crumbs, err := s.breadcrumbs(ctx, c)
	if err != nil {
		return nil, err
	}
	children, err := s.repo.ListChildren(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &Detail{Category: *c, Breadcrumbs: crumbs, Children: children}, nil
}

// ByVehicleType lists categories whose vehicle set contains vehicleType,
// optionally narrowed by part type and criticality, grouped by part type.
func (s *Service) ByVehicleType(ctx context.Context, vehicleType domain.VehicleCategory, partType domain.PartType, criticality domain.CriticalityLevel) (*VehicleTypeListing, error) {
	if !vehicleType.Valid() {
		return nil, fmt.Errorf("%w: unknown vehicle category %q", domain.ErrValidation, vehicleType)
	}
	if partType != "" && !partType.Valid() {
		return nil, fmt.Errorf("%w: unknown part type %q", domain.ErrValidation, partType)
	}
	if criticality != "" && !criticality.Valid() {
		return nil, fmt.Errorf("%w: unknown criticality level %q", domain.ErrValidation, criticality)
	}

	flat, err := s.repo.List(ctx, domain.CategoryFilter{
		VehicleCategories: []domain.VehicleCategory{vehicleType},
		PartType:          partType,
		CriticalityLevel:  criticality,
	})
	if err != nil {
		return nil, err
	}

	grouped := make(map[domain.PartType][]domain.Category)
	for _, c := range flat {
		// Categories without a part type stay in the flat list only.
		if c.PartType == "" {
			continue
		}
		grouped[c.PartType] = append(grouped[c.PartType], c)
	}
	return &VehicleTypeListing{Flat: flat, GroupedByPartType: grouped}, nil
}

// Create validates the input, resolves inherited automotive metadata from
// the parent, and persists the new category. Name and slug collisions fail
// with ErrDuplicateKey.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Category, error) {
	c := domain.Category{
		ID:                     uuid.NewString(),
		Name:                   in.Name,
		Slug:                   in.Slug,
		Description:            in.Description,
		Image:                  in.Image,
		Featured:               in.Featured,
		ParentID:               in.ParentID,
		SortOrder:              in.SortOrder,
		PartType:               in.PartType,
		VehicleCategories:      in.VehicleCategories,
		CompatibilityLevel:     in.CompatibilityLevel,
		InstallationDifficulty: in.InstallationDifficulty,
		MaintenanceFrequency:   in.MaintenanceFrequency,
		CriticalityLevel:       in.CriticalityLevel,
	}
	if c.Slug == "" && c.Name != "" {
		c.Slug = slug.Generate(c.Name)
	}
	if err := validateCore(&c); err != nil {
		return nil, err
	}

	var parent *domain.Category
	if c.ParentID != "" {
		var err error
		parent, err = s.repo.GetByID(ctx, c.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent %s does not exist", domain.ErrValidation, c.ParentID)
			}
			return nil, err
		}
		rootID, err := s.rootOf(ctx, parent)
		if err != nil {
			return nil, err
		}
		unlock := s.lockRoots(rootID)
		defer unlock()
	}

	applyInheritance(&c, parent)
	if in.IsAutomotiveSpecific != nil {
		c.IsAutomotiveSpecific = *in.IsAutomotiveSpecific
	} else if parent != nil {
		c.IsAutomotiveSpecific = parent.IsAutomotiveSpecific
	} else {
		c.IsAutomotiveSpecific = true
	}

	if err := validateResolved(&c); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("taxonomy: created category id=%s slug=%s parent=%s", created.ID, created.Slug, created.ParentID)
	return created, nil
}

// Update applies a partial update, re-resolving inherited metadata when the
// parent changes, and cascades automotive field changes to descendants that
// had not overridden them.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Category, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newParentID := existing.ParentID
	if in.ParentID != nil {
		newParentID = *in.ParentID
	}

	var newParent *domain.Category
	if newParentID != "" {
		newParent, err = s.repo.GetByID(ctx, newParentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent %s does not exist", domain.ErrValidation, newParentID)
			}
			return nil, err
		}
		if err := s.ensureNotDescendant(ctx, id, newParent); err != nil {
			return nil, err
		}
	}

	lockIDs, err := s.mutationRoots(ctx, existing, newParent)
	if err != nil {
		return nil, err
	}
	unlock := s.lockRoots(lockIDs...)
	defer unlock()

	updated := *existing
	applyPatch(&updated, in)
	if updated.Slug == "" && updated.Name != "" {
		updated.Slug = slug.Generate(updated.Name)
	}
	if err := validateCore(&updated); err != nil {
		return nil, err
	}

	if newParentID != existing.ParentID {
		var oldParent *domain.Category
		if existing.ParentID != "" {
			oldParent, err = s.repo.GetByID(ctx, existing.ParentID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, err
			}
		}
		reinheritFrom(&updated, oldParent, newParent, explicitFieldsOf(in))
	}
	if err := validateResolved(&updated); err != nil {
		return nil, err
	}

	persisted, err := s.repo.Update(ctx, updated)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("taxonomy: updated category id=%s slug=%s", persisted.ID, persisted.Slug)

	s.cascade(ctx, existing, persisted)
	return persisted, nil
}

// Delete removes a category. Deleting a category that still has children
// fails with ErrHasChildren; callers cascade explicitly, leaves first.
func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	rootID, err := s.rootOf(ctx, existing)
	if err != nil {
		return err
	}
	unlock := s.lockRoots(rootID)
	defer unlock()

	children, err := s.repo.ListChildren(ctx, id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return fmt.Errorf("%w: %d subcategories reference %s", domain.ErrHasChildren, len(children), id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Printf("taxonomy: deleted category id=%s slug=%s", id, existing.Slug)
	return nil
}

// cascade re-propagates changed automotive fields from parent to every
// direct child that had inherited them (value equal to the parent's previous
// value), then recurses through each updated child. A failing child is
// logged and skipped; its siblings still propagate.
func (s *Service) cascade(ctx context.Context, before, after *domain.Category) {
	changed := before.PartType != after.PartType ||
		!vehicleSetEqual(before.VehicleCategories, after.VehicleCategories) ||
		before.CompatibilityLevel != after.CompatibilityLevel ||
		before.CriticalityLevel != after.CriticalityLevel
	if !changed {
		return
	}

	children, err := s.repo.ListChildren(ctx, after.ID)
	if err != nil {
		s.logger.Printf("taxonomy: cascade list children of %s failed: %v", after.ID, err)
		return
	}

	for i := range children {
		child := children[i]
		childBefore := child

		touched := false
		if before.PartType != after.PartType && child.PartType == before.PartType {
			child.PartType = after.PartType
			touched = true
		}
		if !vehicleSetEqual(before.VehicleCategories, after.VehicleCategories) &&
			vehicleSetEqual(child.VehicleCategories, before.VehicleCategories) {
			child.VehicleCategories = append([]domain.VehicleCategory(nil), after.VehicleCategories...)
			touched = true
		}
		if before.CompatibilityLevel != after.CompatibilityLevel && child.CompatibilityLevel == before.CompatibilityLevel {
			child.CompatibilityLevel = after.CompatibilityLevel
			touched = true
		}
		if before.CriticalityLevel != after.CriticalityLevel && child.CriticalityLevel == before.CriticalityLevel {
			child.CriticalityLevel = after.CriticalityLevel
			touched = true
		}
		if !touched {
			continue
		}

		persisted, err := s.repo.Update(ctx, child)
		if err != nil {
			s.logger.Printf("taxonomy: cascade update child=%s of parent=%s failed: %v", child.ID, after.ID, err)
			continue
		}
		s.cascade(ctx, &childBefore, persisted)
	}
}

// ensureNotDescendant rejects a reparent that would make c an ancestor of
// itself by walking newParent's chain to the root.
func (s *Service) ensureNotDescendant(ctx context.Context, id string, newParent *domain.Category) error {
	if newParent.ID == id {
		return fmt.Errorf("%w: category cannot be its own parent", domain.ErrValidation)
	}
	crumbs, err := s.breadcrumbs(ctx, newParent)
	if err != nil {
		return err
	}
	for _, crumb := range crumbs {
		if crumb.ID == id {
			return fmt.Errorf("%w: category %s cannot be moved under its own descendant", domain.ErrValidation, id)
		}
	}
	return nil
}

// mutationRoots resolves the root ids of every subtree a mutation touches:
// the category's current tree and, when reparenting, the target tree.
func (s *Service) mutationRoots(ctx context.Context, existing *domain.Category, newParent *domain.Category) ([]string, error) {
	rootID, err := s.rootOf(ctx, existing)
	if err != nil {
		return nil, err
	}
	ids := []string{rootID}
	if newParent != nil {
		targetRoot, err := s.rootOf(ctx, newParent)
		if err != nil {
			return nil, err
		}
		if targetRoot != rootID {
			ids = append(ids, targetRoot)
		}
	}
	return ids, nil
}

// lockRoots acquires the per-root mutexes in sorted order (stable order
// avoids inversion when two roots are involved) and returns the release
// function.
func (s *Service) lockRoots(ids ...string) func() {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, id := range sorted {
		mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
		m := mu.(*sync.Mutex)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func applyPatch(c *domain.Category, in UpdateInput) {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Slug != nil {
		c.Slug = *in.Slug
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Image != nil {
		c.Image = in.Image
	}
	if in.Featured != nil {
		c.Featured = *in.Featured
	}
	if in.ParentID != nil {
		c.ParentID = *in.ParentID
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	if in.PartType != nil {
		c.PartType = *in.PartType
	}
	if in.VehicleCategories != nil {
		c.VehicleCategories = in.VehicleCategories
	}
	if in.IsAutomotiveSpecific != nil {
		c.IsAutomotiveSpecific = *in.IsAutomotiveSpecific
	}
	if in.CompatibilityLevel != nil {
		c.CompatibilityLevel = *in.CompatibilityLevel
	}
	if in.InstallationDifficulty != nil {
		c.InstallationDifficulty = *in.InstallationDifficulty
	}
	if in.MaintenanceFrequency != nil {
		c.MaintenanceFrequency = *in.MaintenanceFrequency
	}
	if in.CriticalityLevel != nil {
		c.CriticalityLevel = *in.CriticalityLevel
	}
}

// validateCore checks required fields and enum membership of explicitly
// provided values; it runs before inheritance resolution.
func validateCore(c *domain.Category) error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if c.Description == "" {
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if c.Slug == "" {
		return fmt.Errorf("%w: slug is required", domain.ErrValidation)
	}
	if !slug.Valid(c.Slug) {
		return fmt.Errorf("%w: slug %q is not URL-safe", domain.ErrValidation, c.Slug)
	}
	if c.SortOrder < 0 {
		return fmt.Errorf("%w: order must be non-negative, got %d", domain.ErrValidation, c.SortOrder)
	}
	if c.PartType != "" && !c.PartType.Valid() {
		return fmt.Errorf("%w: unknown part type %q", domain.ErrValidation, c.PartType)
	}
	for _, vc := range c.VehicleCategories {
		if !vc.Valid() {
			return fmt.Errorf("%w: unknown vehicle category %q", domain.ErrValidation, vc)
		}
	}
	if c.CompatibilityLevel != "" && !c.CompatibilityLevel.Valid() {
		return fmt.Errorf("%w: unknown compatibility level %q", domain.ErrValidation, c.CompatibilityLevel)
	}
	if c.InstallationDifficulty != "" && !c.InstallationDifficulty.Valid() {
		return fmt.Errorf("%w: unknown installation difficulty %q", domain.ErrValidation, c.InstallationDifficulty)
	}
	if c.MaintenanceFrequency != "" && !c.MaintenanceFrequency.Valid() {
		return fmt.Errorf("%w: unknown maintenance frequency %q", domain.ErrValidation, c.MaintenanceFrequency)
	}
	if c.CriticalityLevel != "" && !c.CriticalityLevel.Valid() {
		return fmt.Errorf("%w: unknown criticality level %q", domain.ErrValidation, c.CriticalityLevel)
	}
	return nil
}

// validateResolved checks the invariants that must hold after inheritance:
// the defaulted enums carry valid values.
func validateResolved(c *domain.Category) error {
	if !c.CompatibilityLevel.Valid() {
		return fmt.Errorf("%w: unresolved compatibility level %q", domain.ErrValidation, c.CompatibilityLevel)
	}
	if !c.InstallationDifficulty.Valid() {
		return fmt.Errorf("%w: unresolved installation difficulty %q", domain.ErrValidation, c.InstallationDifficulty)
	}
	if !c.CriticalityLevel.Valid() {
		return fmt.Errorf("%w: unresolved criticality level %q", domain.ErrValidation, c.CriticalityLevel)
	}
	return nil
}
