package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"autoparts-catalog/internal/domain"
)

// fakeRepo is an in-memory category store honoring the Repository contract:
// unique name/slug, (order asc, name asc) ordering, facet AND semantics with
// vehicle-set intersection.
type fakeRepo struct {
	mu   sync.Mutex
	byID map[string]domain.Category

	// failUpdate forces Update to fail for the given ids.
	failUpdate map[string]error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]domain.Category)}
}

func (f *fakeRepo) Create(_ context.Context, c domain.Category) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Name == c.Name {
			return nil, fmt.Errorf("%w: name already in use", domain.ErrDuplicateKey)
		}
		if existing.Slug == c.Slug {
			return nil, fmt.Errorf("%w: slug already in use", domain.ErrDuplicateKey)
		}
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	f.byID[c.ID] = c
	out := c
	return &out, nil
}

func (f *fakeRepo) Update(_ context.Context, c domain.Category) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failUpdate[c.ID]; ok {
		return nil, err
	}
	existing, ok := f.byID[c.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for id, other := range f.byID {
		if id == c.ID {
			continue
		}
		if other.Name == c.Name {
			return nil, fmt.Errorf("%w: name already in use", domain.ErrDuplicateKey)
		}
		if other.Slug == c.Slug {
			return nil, fmt.Errorf("%w: slug already in use", domain.ErrDuplicateKey)
		}
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	f.byID[c.ID] = c
	out := c
	return &out, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := c
	return &out, nil
}

func (f *fakeRepo) ListChildren(_ context.Context, parentID string) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Category
	for _, c := range f.byID {
		if c.ParentID == parentID {
			result = append(result, c)
		}
	}
	sortCategories(result)
	return result, nil
}

func (f *fakeRepo) List(_ context.Context, filter domain.CategoryFilter) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Category
	for _, c := range f.byID {
		if matches(c, filter) {
			result = append(result, c)
		}
	}
	sortCategories(result)
	return result, nil
}

func (f *fakeRepo) CountByPartType(_ context.Context) (map[domain.PartType]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[domain.PartType]int)
	for _, c := range f.byID {
		if c.IsAutomotiveSpecific && c.PartType != "" {
			counts[c.PartType]++
		}
	}
	return counts, nil
}

func (f *fakeRepo) CountByCriticality(_ context.Context) (map[domain.CriticalityLevel]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[domain.CriticalityLevel]int)
	for _, c := range f.byID {
		if c.IsAutomotiveSpecific {
			counts[c.CriticalityLevel]++
		}
	}
	return counts, nil
}

func (f *fakeRepo) CountByCompatibility(_ context.Context) (map[domain.CompatibilityLevel]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[domain.CompatibilityLevel]int)
	for _, c := range f.byID {
		if c.IsAutomotiveSpecific {
			counts[c.CompatibilityLevel]++
		}
	}
	return counts, nil
}

func sortCategories(cs []domain.Category) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].SortOrder != cs[j].SortOrder {
			return cs[i].SortOrder < cs[j].SortOrder
		}
		return cs[i].Name < cs[j].Name
	})
}

func matches(c domain.Category, f domain.CategoryFilter) bool {
	if f.ParentOnly && c.ParentID != "" {
		return false
	}
	if f.PartType != "" && c.PartType != f.PartType {
		return false
	}
	if len(f.VehicleCategories) > 0 && !intersects(c.VehicleCategories, f.VehicleCategories) {
		return false
	}
	if f.CompatibilityLevel != "" && c.CompatibilityLevel != f.CompatibilityLevel {
		return false
	}
	if f.CriticalityLevel != "" && c.CriticalityLevel != f.CriticalityLevel {
		return false
	}
	if f.InstallationDifficulty != "" && c.InstallationDifficulty != f.InstallationDifficulty {
		return false
	}
	if f.Featured != nil && c.Featured != *f.Featured {
		return false
	}
	return true
}

func intersects(a, b []domain.VehicleCategory) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func newService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	return New(repo, nil), repo
}

func mustCreate(t *testing.T, svc *Service, in CreateInput) *domain.Category {
	t.Helper()
	created, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create %q: %v", in.Name, err)
	}
	return created
}

func TestCreate_RootDefaults(t *testing.T) {
	svc, _ := newService(t)

	created := mustCreate(t, svc, CreateInput{
		Name:        "Consumables",
		Description: "Fluids and wear items",
	})

	if created.Slug != "consumables" {
		t.Fatalf("expected generated slug, got %q", created.Slug)
	}
	if created.CompatibilityLevel != domain.CompatibilityUniversal {
		t.Fatalf("expected universal default, got %q", created.CompatibilityLevel)
	}
	if created.InstallationDifficulty != domain.InstallMedium {
		t.Fatalf("expected medium default, got %q", created.InstallationDifficulty)
	}
	if created.CriticalityLevel != domain.CriticalityPerformance {
		t.Fatalf("expected performance-critical default, got %q", created.CriticalityLevel)
	}
	if !created.IsAutomotiveSpecific {
		t.Fatalf("expected automotive-specific default true")
	}
}

func TestCreate_ValidationFailures(t *testing.T) {
	svc, _ := newService(t)

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"missing name", CreateInput{Description: "d"}},
		{"missing description", CreateInput{Name: "A"}},
		{"negative order", CreateInput{Name: "A", Description: "d", SortOrder: -1}},
		{"bad part type", CreateInput{Name: "A", Description: "d", PartType: "wheels"}},
		{"bad vehicle category", CreateInput{Name: "A", Description: "d", VehicleCategories: []domain.VehicleCategory{"tank"}}},
		{"bad slug", CreateInput{Name: "A", Description: "d", Slug: "Not A Slug"}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), tc.in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreate_UnknownParentIsValidationError(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		Name:        "Orphan",
		Description: "d",
		ParentID:    "no-such-id",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_DuplicateNameAndSlug(t *testing.T) {
	svc, _ := newService(t)

	mustCreate(t, svc, CreateInput{Name: "Brake System", Description: "d"})

	if _, err := svc.Create(context.Background(), CreateInput{Name: "Brake System", Description: "d", Slug: "other"}); !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("expected duplicate key on name, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateInput{Name: "Other", Description: "d", Slug: "brake-system"}); !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("expected duplicate key on slug, got %v", err)
	}
}

func TestCreate_ChildInheritsParentMetadata(t *testing.T) {
	svc, _ := newService(t)

	root := mustCreate(t, svc, CreateInput{
		Name:              "Brake System",
		Slug:              "brake-system",
		Description:       "Brakes",
		PartType:          domain.PartTypeBrake,
		VehicleCategories: []domain.VehicleCategory{domain.VehicleSedan, domain.VehicleSUV},
		CriticalityLevel:  domain.CriticalitySafety,
	})

	child := mustCreate(t, svc, CreateInput{
		Name:        "Brake Pads",
		Slug:        "brake-pads",
		Description: "Pads",
		ParentID:    root.ID,
	})

	if child.PartType != domain.PartTypeBrake {
		t.Fatalf("expected inherited part type brake, got %q", child.PartType)
	}
	if child.CriticalityLevel != domain.CriticalitySafety {
		t.Fatalf("expected inherited safety-critical, got %q", child.CriticalityLevel)
	}
	if len(child.VehicleCategories) != 2 {
		t.Fatalf("expected inherited vehicle set, got %v", child.VehicleCategories)
	}

	override := mustCreate(t, svc, CreateInput{
		Name:        "Brake Sensors",
		Slug:        "brake-sensors",
		Description: "Wear sensors",
		ParentID:    root.ID,
		PartType:    domain.PartTypeElectrical,
	})
	if override.PartType != domain.PartTypeElectrical {
		t.Fatalf("expected explicit override kept, got %q", override.PartType)
	}
	if override.CriticalityLevel != domain.CriticalitySafety {
		t.Fatalf("expected non-overridden field inherited, got %q", override.CriticalityLevel)
	}
}

func TestGet_BreadcrumbsRootFirst(t *testing.T) {
	svc, _ := newService(t)

	root := mustCreate(t, svc, CreateInput{Name: "Root", Description: "d", PartType: domain.PartTypeEngine})
	a := mustCreate(t, svc, CreateInput{Name: "A", Description: "d", ParentID: root.ID})
	b := mustCreate(t, svc, CreateInput{Name: "B", Description: "d", ParentID: a.ID})

	detail, err := svc.Get(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got := make([]string, len(detail.Breadcrumbs))
	for i, crumb := range detail.Breadcrumbs {
		got[i] = crumb.Name
	}
	if strings.Join(got, ">") != "Root>A>B" {
		t.Fatalf("unexpected breadcrumb order %v", got)
	}
	if detail.Breadcrumbs[0].PartType != domain.PartTypeEngine {
		t.Fatalf("expected part type carried on crumbs, got %+v", detail.Breadcrumbs[0])
	}
}

func TestGet_CycleDetected(t *testing.T) {
	svc, repo := newService(t)

	// Corrupt the store directly: a <-> b parent loop.
	repo.byID["a"] = domain.Category{ID: "a", Name: "A", Slug: "a", ParentID: "b"}
	repo.byID["b"] = domain.Category{ID: "b", Name: "B", Slug: "b", ParentID: "a"}

	_, err := svc.Get(context.Background(), "a")
	if !errors.Is(err, domain.ErrCycleDetected) {
		t.Fatalf("expected cycle detection, got %v", err)
	}
}

func TestTree_DepthBounds(t *testing.T) {
	svc, _ := newService(t)

	root := mustCreate(t, svc, CreateInput{Name: "Root", Description: "d"})
	child := mustCreate(t, svc, CreateInput{Name: "Child", Description: "d", ParentID: root.ID})
	mustCreate(t, svc, CreateInput{Name: "Grandchild", Description: "d", ParentID: child.ID})

	forest, err := svc.Tree(context.Background(), domain.CategoryFilter{}, 0)
	if err != nil {
		t.Fatalf("tree depth 0: %v", err)
	}
	if len(forest) != 1 || len(forest[0].Children) != 0 {
		t.Fatalf("expected bare root at depth 0, got %+v", forest)
	}

	forest, err = svc.Tree(context.Background(), domain.CategoryFilter{}, 1)
	if err != nil {
		t.Fatalf("tree depth 1: %v", err)
	}
	if len(forest[0].Children) != 1 {
		t.Fatalf("expected direct children at depth 1, got %+v", forest[0].Children)
	}
	if len(forest[0].Children[0].Children) != 0 {
		t.Fatalf("expected grandchildren omitted at depth 1")
	}

	forest, err = svc.Tree(context.Background(), domain.CategoryFilter{}, 2)
	if err != nil {
		t.Fatalf("tree depth 2: %v", err)
	}
	if len(forest[0].Children[0].Children) != 1 {
		t.Fatalf("expected grandchildren at depth 2")
	}
}

func TestTree_NegativeDepthRejected(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.Tree(context.Background(), domain.CategoryFilter{}, -1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTree_SiblingOrdering(t *testing.T) {
	svc, _ := newService(t)

	root := mustCreate(t, svc, CreateInput{Name: "Root", Description: "d"})
	mustCreate(t, svc, CreateInput{Name: "Zulu", Description: "d", ParentID: root.ID, SortOrder: 2})
	mustCreate(t, svc, CreateInput{Name: "Echo", Description: "d", ParentID: root.ID, SortOrder: 0})
	mustCreate(t, svc, CreateInput{Name: "Bravo", Description: "d", ParentID: root.ID, SortOrder: 1})
	mustCreate(t, svc, CreateInput{Name: "Alpha", Description: "d", ParentID: root.ID, SortOrder: 1})

	forest, err := svc.Tree(context.Background(), domain.CategoryFilter{}, 1)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	got := make([]string, len(forest[0].Children))
	for i, child := range forest[0].Children {
		got[i] = child.Name
	}
	want := "Echo>Alpha>Bravo>Zulu"
	if strings.Join(got, ">") != want {
		t.Fatalf("expected sibling order %s, got %v", want, got)
	}
}

func TestByVehicleType_IntersectionAndGrouping(t *testing.T) {
	svc, _ := newService(t)

	mustCreate(t, svc, CreateInput{
		Name: "Towing", Description: "d",
		PartType:          domain.PartTypeAccessories,
		VehicleCategories: []domain.VehicleCategory{domain.VehicleSedan, domain.VehiclePickup},
	})
	mustCreate(t, svc, CreateInput{
		Name: "City Kits", Description: "d",
		PartType:          domain.PartTypeAccessories,
		VehicleCategories: []domain.VehicleCategory{domain.VehicleSedan, domain.VehicleHatchback},
	})
	mustCreate(t, svc, CreateInput{
		Name: "Bed Liners", Description: "d",
		PartType:          domain.PartTypeBody,
		VehicleCategories: []domain.VehicleCategory{domain.VehiclePickup},
	})
	mustCreate(t, svc, CreateInput{
		Name: "Misc Pickup Gear", Description: "d",
		VehicleCategories: []domain.VehicleCategory{domain.VehiclePickup},
	})

	listing, err := svc.ByVehicleType(context.Background(), domain.VehiclePickup, "", "")
	if err != nil {
		t.Fatalf("by vehicle type: %v", err)
	}
	if len(listing.Flat) != 3 {
		t.Fatalf("expected 3 pickup matches, got %+v", listing.Flat)
	}
	for _, c := range listing.Flat {
		if c.Name == "City Kits" {
			t.Fatalf("empty intersection must not match")
		}
	}
	if len(listing.GroupedByPartType[domain.PartTypeAccessories]) != 1 {
		t.Fatalf("unexpected accessories group %+v", listing.GroupedByPartType)
	}
	if len(listing.GroupedByPartType[domain.PartTypeBody]) != 1 {
		t.Fatalf("unexpected body group %+v", listing.GroupedByPartType)
	}
	if _, ok := listing.GroupedByPartType[""]; ok {
		t.Fatalf("categories without a part type must stay out of the grouping, got %+v", listing.GroupedByPartType)
	}

	if _, err := svc.ByVehicleType(context.Background(), "tank", "", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for unknown vehicle type, got %v", err)
	}
}

func TestUpdate_CascadesToInheritingChildren(t *testing.T) {
	svc, _ := newService(t)

	root := mustCreate(t, svc, CreateInput{
		Name: "Brake System", Description: "d",
		PartType:         domain.PartTypeBrake,
		CriticalityLevel: domain.CriticalitySafety,
	})
	inheriting := mustCreate(t, svc, CreateInput{
		Name: "Brake Pads", Description: "d", ParentID: root.ID,
	})
	overriding := mustCreate(t, svc, CreateInput{
		Name: "Brake Sensors", Description: "d", ParentID: root.ID,
		PartType: domain.PartTypeElectrical,
	})
	grandchild := mustCreate(t, svc, CreateInput{
		Name: "Ceramic Pads", Description: "d", ParentID: inheriting.ID,
	})

	newType := domain.PartTypeConsumables
	if _, err := svc.Update(context.Background(), root.ID, UpdateInput{PartType: &newType}); err != nil {
		t.Fatalf("update root: %v", err)
	}

	got, err := svc.Get(context.Background(), inheriting.ID)
	if err != nil {
		t.Fatalf("get child: %v", err)
	}
	if got.PartType != newType {
		t.Fatalf("expected cascaded part type, got %q", got.PartType)
	}

	got, err = svc.Get(context.Background(), overriding.ID)
	if err != nil {
		t.Fatalf("get overriding child: %v", err)
	}
	if got.PartType != domain.PartTypeElectrical {
		t.Fatalf("override must survive cascade, got %q", got.PartType)
	}

	got, err = svc.Get(context.Background(), grandchild.ID)
	if err != nil {
		t.Fatalf("get grandchild: %v", err)
	}
	if got.PartType != newType {
		t.Fatalf("expected cascade to reach grandchild, got %q", got.PartType)
	}
}

func TestUpdate_RejectsOwnDescendantAsParent(t *testing.T) {
	svc, _ := newService(t)

	root := mustCreate(t, svc, CreateInput{Name: "Root", Description: "d"})
	child := mustCreate(t, svc, CreateInput{Name: "Child", Description: "d", ParentID: root.ID})

	if _, err := svc.Update(context.Background(), root.ID, UpdateInput{ParentID: &child.ID}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error on cycle-producing reparent, got %v", err)
	}
	self := root.ID
	if _, err := svc.Update(context.Background(), root.ID, UpdateInput{ParentID: &self}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error on self-parent, got %v", err)
	}
}

func TestUpdate_ReparentReinheritsTrackedFields(t *testing.T) {
	svc, _ := newService(t)

	brakes := mustCreate(t, svc, CreateInput{
		Name: "Brake System", Description: "d",
		PartType:         domain.PartTypeBrake,
		CriticalityLevel: domain.CriticalitySafety,
	})
	engine := mustCreate(t, svc, CreateInput{
		Name: "Engine Components", Description: "d",
		PartType:         domain.PartTypeEngine,
		CriticalityLevel: domain.CriticalityPerformance,
	})
	child := mustCreate(t, svc, CreateInput{
		Name: "Mount Kits", Description: "d", ParentID: brakes.ID,
	})

	moved, err := svc.Update(context.Background(), child.ID, UpdateInput{ParentID: &engine.ID})
	if err != nil {
		t.Fatalf("reparent: %v", err)
	}
	if moved.PartType != domain.PartTypeEngine {
		t.Fatalf("expected re-inherited part type engine, got %q", moved.PartType)
	}
	if moved.CriticalityLevel != domain.CriticalityPerformance {
		t.Fatalf("expected re-inherited criticality, got %q", moved.CriticalityLevel)
	}
}

func TestUpdate_ReparentKeepsExplicitFields(t *testing.T) {
	svc, _ := newService(t)

	brakes := mustCreate(t, svc, CreateInput{
		Name: "Brake System", Description: "d",
		PartType:         domain.PartTypeBrake,
		CriticalityLevel: domain.CriticalitySafety,
	})
	engine := mustCreate(t, svc, CreateInput{
		Name: "Engine Components", Description: "d",
		PartType:         domain.PartTypeEngine,
		CriticalityLevel: domain.CriticalityPerformance,
	})
	child := mustCreate(t, svc, CreateInput{
		Name: "Sensor Kits", Description: "d", ParentID: brakes.ID,
	})

	// The patch sets partType to the same value the old parent carried.
	// That is an explicit choice and must survive the reparent; criticality
	// is untouched by the patch and re-resolves against the new parent.
	keep := domain.PartTypeBrake
	moved, err := svc.Update(context.Background(), child.ID, UpdateInput{
		ParentID: &engine.ID,
		PartType: &keep,
	})
	if err != nil {
		t.Fatalf("reparent: %v", err)
	}
	if moved.PartType != domain.PartTypeBrake {
		t.Fatalf("explicit part type lost on reparent, got %q", moved.PartType)
	}
	if moved.CriticalityLevel != domain.CriticalityPerformance {
		t.Fatalf("expected re-inherited criticality, got %q", moved.CriticalityLevel)
	}
}

func TestUpdate_CascadeFailureSkipsOnlyThatChild(t *testing.T) {
	svc, repo := newService(t)

	root := mustCreate(t, svc, CreateInput{
		Name: "Brake System", Description: "d",
		PartType: domain.PartTypeBrake,
	})
	broken := mustCreate(t, svc, CreateInput{
		Name: "Broken Child", Description: "d", ParentID: root.ID,
	})
	healthy := mustCreate(t, svc, CreateInput{
		Name: "Healthy Child", Description: "d", ParentID: root.ID,
	})

	repo.failUpdate = map[string]error{broken.ID: errors.New("write refused")}

	newType := domain.PartTypeConsumables
	if _, err := svc.Update(context.Background(), root.ID, UpdateInput{PartType: &newType}); err != nil {
		t.Fatalf("update root: %v", err)
	}

	got, err := svc.Get(context.Background(), healthy.ID)
	if err != nil {
		t.Fatalf("get sibling: %v", err)
	}
	if got.PartType != newType {
		t.Fatalf("sibling must still receive the cascade, got %q", got.PartType)
	}

	got, err = svc.Get(context.Background(), broken.ID)
	if err != nil {
		t.Fatalf("get failed child: %v", err)
	}
	if got.PartType != domain.PartTypeBrake {
		t.Fatalf("failed child must keep its previous value, got %q", got.PartType)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newService(t)
	name := "X"
	if _, err := svc.Update(context.Background(), "missing", UpdateInput{Name: &name}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDelete_RestrictsWithChildren(t *testing.T) {
	svc, _ := newService(t)

	root := mustCreate(t, svc, CreateInput{Name: "Root", Description: "d"})
	child := mustCreate(t, svc, CreateInput{Name: "Child", Description: "d", ParentID: root.ID})

	if err := svc.Delete(context.Background(), root.ID); !errors.Is(err, domain.ErrHasChildren) {
		t.Fatalf("expected has-children restriction, got %v", err)
	}
	if err := svc.Delete(context.Background(), child.ID); err != nil {
		t.Fatalf("delete leaf: %v", err)
	}
	if err := svc.Delete(context.Background(), root.ID); err != nil {
		t.Fatalf("delete emptied root: %v", err)
	}
	if err := svc.Delete(context.Background(), root.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestStats_AutomotiveOnlyAndOrdering(t *testing.T) {
	svc, _ := newService(t)

	generic := false
	mustCreate(t, svc, CreateInput{Name: "Gift Cards", Description: "d", IsAutomotiveSpecific: &generic, PartType: domain.PartTypeAccessories})

	mustCreate(t, svc, CreateInput{Name: "Pads", Description: "d", PartType: domain.PartTypeBrake})
	mustCreate(t, svc, CreateInput{Name: "Discs", Description: "d", PartType: domain.PartTypeBrake})
	mustCreate(t, svc, CreateInput{Name: "Springs", Description: "d", PartType: domain.PartTypeSuspension})
	mustCreate(t, svc, CreateInput{Name: "Shocks", Description: "d", PartType: domain.PartTypeSuspension})
	mustCreate(t, svc, CreateInput{Name: "Pistons", Description: "d", PartType: domain.PartTypeEngine})

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	got := make([]string, len(stats.ByPartType))
	for i, e := range stats.ByPartType {
		got[i] = fmt.Sprintf("%s=%d", e.Key, e.Count)
	}
	// brake and suspension tie at 2; brake wins by declaration order. The
	// non-automotive accessories category is excluded entirely.
	want := "brake=2>suspension=2>engine=1"
	if strings.Join(got, ">") != want {
		t.Fatalf("expected %s, got %v", want, got)
	}

	if len(stats.ByCriticality) == 0 || stats.ByCriticality[0].Key != string(domain.CriticalityPerformance) {
		t.Fatalf("unexpected criticality stats %+v", stats.ByCriticality)
	}
}

func TestScenario_BrakeSystemEndToEnd(t *testing.T) {
	svc, _ := newService(t)

	root := mustCreate(t, svc, CreateInput{
		Name:             "Brake System",
		Slug:             "brake-system",
		Description:      "Brakes and hydraulics",
		PartType:         domain.PartTypeBrake,
		CriticalityLevel: domain.CriticalitySafety,
	})
	child := mustCreate(t, svc, CreateInput{
		Name:        "Brake Pads",
		Slug:        "brake-pads",
		Description: "Friction pads",
		ParentID:    root.ID,
	})

	if child.PartType != domain.PartTypeBrake {
		t.Fatalf("expected inherited brake part type, got %q", child.PartType)
	}
	if child.CriticalityLevel != domain.CriticalitySafety {
		t.Fatalf("expected inherited safety-critical, got %q", child.CriticalityLevel)
	}

	detail, err := svc.Get(context.Background(), child.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(detail.Breadcrumbs) != 2 ||
		detail.Breadcrumbs[0].Name != "Brake System" ||
		detail.Breadcrumbs[1].Name != "Brake Pads" {
		t.Fatalf("unexpected breadcrumbs %+v", detail.Breadcrumbs)
	}
}

func TestInheritanceResolver_Unit(t *testing.T) {
	parent := &domain.Category{
		PartType:           domain.PartTypeFuel,
		VehicleCategories:  []domain.VehicleCategory{domain.VehicleCommercial},
		CompatibilityLevel: domain.CompatibilityBrandSpecific,
		CriticalityLevel:   domain.CriticalityPerformance,
	}

	c := domain.Category{}
	applyInheritance(&c, parent)
	if c.PartType != domain.PartTypeFuel || c.CompatibilityLevel != domain.CompatibilityBrandSpecific {
		t.Fatalf("expected parent values copied, got %+v", c)
	}

	c = domain.Category{PartType: domain.PartTypeElectrical}
	applyInheritance(&c, parent)
	if c.PartType != domain.PartTypeElectrical {
		t.Fatalf("explicit value must win, got %q", c.PartType)
	}

	c = domain.Category{}
	applyInheritance(&c, nil)
	if c.CompatibilityLevel != domain.CompatibilityUniversal ||
		c.InstallationDifficulty != domain.InstallMedium ||
		c.CriticalityLevel != domain.CriticalityPerformance {
		t.Fatalf("expected documented defaults, got %+v", c)
	}
}

func TestVehicleSetEqual(t *testing.T) {
	a := []domain.VehicleCategory{domain.VehicleSedan, domain.VehicleSUV}
	b := []domain.VehicleCategory{domain.VehicleSUV, domain.VehicleSedan}
	if !vehicleSetEqual(a, b) {
		t.Fatalf("order must not matter")
	}
	if vehicleSetEqual(a, []domain.VehicleCategory{domain.VehicleSedan}) {
		t.Fatalf("different sets must not be equal")
	}
	if !vehicleSetEqual(nil, nil) {
		t.Fatalf("empty sets are equal")
	}
}
