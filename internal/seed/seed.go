package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type categorySeed struct {
	Name          string
	Slug          string
	Description   string
	ParentSlug    string
	SortOrder     int
	Featured      bool
	PartType      string
	Vehicles      []string
	Compatibility string
	Installation  string
	Maintenance   string
	Criticality   string
}

// Apply inserts a small two-level automotive taxonomy for manual testing.
// It is idempotent via ON CONFLICT on slug. Subcategory automotive fields
// are written fully resolved, matching what the inheritance resolver would
// produce at create time.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	roots := []categorySeed{
		{
			Name: "Brake System", Slug: "brake-system",
			Description: "Pads, discs, calipers and hydraulics",
			SortOrder:   0, Featured: true,
			PartType: "brake", Vehicles: []string{"sedan", "hatchback", "suv", "pickup"},
			Compatibility: "model-specific", Installation: "professional",
			Maintenance: "annual", Criticality: "safety-critical",
		},
		{
			Name: "Engine Components", Slug: "engine-components",
			Description: "Internal engine parts and gaskets",
			SortOrder:   1, Featured: true,
			PartType: "engine", Vehicles: []string{"sedan", "suv", "pickup", "commercial"},
			Compatibility: "model-specific", Installation: "professional",
			Maintenance: "as-needed", Criticality: "performance-critical",
		},
		{
			Name: "Interior Accessories", Slug: "interior-accessories",
			Description: "Mats, covers and cabin add-ons",
			SortOrder:   2,
			PartType:    "interior", Vehicles: []string{"sedan", "hatchback", "crossover", "suv"},
			Compatibility: "universal", Installation: "easy",
			Maintenance: "as-needed", Criticality: "comfort",
		},
	}
	children := []categorySeed{
		{
			Name: "Brake Pads", Slug: "brake-pads", ParentSlug: "brake-system",
			Description: "Friction pads for disc brakes",
			SortOrder:   0,
			PartType:    "brake", Vehicles: []string{"sedan", "hatchback", "suv", "pickup"},
			Compatibility: "model-specific", Installation: "medium",
			Maintenance: "annual", Criticality: "safety-critical",
		},
		{
			Name: "Brake Discs", Slug: "brake-discs", ParentSlug: "brake-system",
			Description: "Rotors for disc brake assemblies",
			SortOrder:   1,
			PartType:    "brake", Vehicles: []string{"sedan", "hatchback", "suv", "pickup"},
			Compatibility: "model-specific", Installation: "professional",
			Maintenance: "annual", Criticality: "safety-critical",
		},
		{
			Name: "Timing Belts", Slug: "timing-belts", ParentSlug: "engine-components",
			Description: "Belts and tensioner kits",
			SortOrder:   0,
			PartType:    "engine", Vehicles: []string{"sedan", "suv", "pickup", "commercial"},
			Compatibility: "year-specific", Installation: "professional",
			Maintenance: "annual", Criticality: "performance-critical",
		},
	}

	for _, c := range roots {
		if err := upsertCategory(ctx, pool, c); err != nil {
			return fmt.Errorf("upsert root %s: %w", c.Slug, err)
		}
	}
	for _, c := range children {
		if err := upsertCategory(ctx, pool, c); err != nil {
			return fmt.Errorf("upsert child %s: %w", c.Slug, err)
		}
	}
	return nil
}

func upsertCategory(ctx context.Context, pool *pgxpool.Pool, c categorySeed) error {
	const q = `
INSERT INTO categories (
    name, slug, description, featured, parent_id, sort_order, part_type,
    vehicle_categories, compatibility_level, installation_difficulty,
    maintenance_frequency, criticality_level
)
VALUES (
    $1, $2, $3, $4,
    (SELECT id FROM categories WHERE slug = NULLIF($5, '')),
    $6, NULLIF($7, ''), $8, $9, $10, NULLIF($11, ''), $12
)
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    featured = EXCLUDED.featured,
    parent_id = EXCLUDED.parent_id,
    sort_order = EXCLUDED.sort_order,
    part_type = EXCLUDED.part_type,
    vehicle_categories = EXCLUDED.vehicle_categories,
    compatibility_level = EXCLUDED.compatibility_level,
    installation_difficulty = EXCLUDED.installation_difficulty,
    maintenance_frequency = EXCLUDED.maintenance_frequency,
    criticality_level = EXCLUDED.criticality_level,
    updated_at = now()
`
	_, err := pool.Exec(ctx, q,
		c.Name, c.Slug, c.Description, c.Featured, c.ParentSlug,
		c.SortOrder, c.PartType, c.Vehicles, c.Compatibility,
		c.Installation, c.Maintenance, c.Criticality,
	)
	return err
}
