package category

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"autoparts-catalog/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `
id::text, name, slug, description, COALESCE(image_url, ''), COALESCE(image_alt, ''),
featured, COALESCE(parent_id::text, ''), sort_order, COALESCE(part_type, ''),
vehicle_categories, is_automotive_specific, compatibility_level,
installation_difficulty, COALESCE(maintenance_frequency, ''), criticality_level,
created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var (
		c         domain.Category
		imageURL  string
		imageAlt  string
		partType  string
		vehicles  []string
		frequency string
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &imageURL, &imageAlt,
		&c.Featured, &c.ParentID, &c.SortOrder, &partType,
		&vehicles, &c.IsAutomotiveSpecific, &c.CompatibilityLevel,
		&c.InstallationDifficulty, &frequency, &c.CriticalityLevel,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageURL != "" {
		c.Image = &domain.CategoryImage{URL: imageURL, Alt: imageAlt}
	}
	c.PartType = domain.PartType(partType)
	c.MaintenanceFrequency = domain.MaintenanceFrequency(frequency)
	c.VehicleCategories = make([]domain.VehicleCategory, 0, len(vehicles))
	for _, v := range vehicles {
		c.VehicleCategories = append(c.VehicleCategories, domain.VehicleCategory(v))
	}
	if len(c.VehicleCategories) == 0 {
		c.VehicleCategories = nil
	}
	return &c, nil
}

func categoryArgs(c domain.Category) []any {
	var imageURL, imageAlt string
	if c.Image != nil {
		imageURL = c.Image.URL
		imageAlt = c.Image.Alt
	}
	vehicles := make([]string, len(c.VehicleCategories))
	for i, v := range c.VehicleCategories {
		vehicles[i] = string(v)
	}
	return []any{
		c.Name, c.Slug, c.Description, imageURL, imageAlt,
		c.Featured, c.ParentID, c.SortOrder, string(c.PartType),
		vehicles, c.IsAutomotiveSpecific, string(c.CompatibilityLevel),
		string(c.InstallationDifficulty), string(c.MaintenanceFrequency), string(c.CriticalityLevel),
	}
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (
    id, name, slug, description, image_url, image_alt, featured, parent_id,
    sort_order, part_type, vehicle_categories, is_automotive_specific,
    compatibility_level, installation_difficulty, maintenance_frequency, criticality_level
)
VALUES (
    COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4,
    NULLIF($5, ''), NULLIF($6, ''), $7, NULLIF($8, '')::uuid, $9,
    NULLIF($10, ''), $11, $12, $13, $14, NULLIF($15, ''), $16
)
RETURNING ` + categoryColumns
	args := append([]any{c.ID}, categoryArgs(c)...)
	created, err := scanCategory(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if mapped := mapPgError(err); mapped != nil {
			r.logger.Printf("category repo: create slug=%s conflict=%v", c.Slug, mapped)
			return nil, mapped
		}
		r.logger.Printf("category repo: create slug=%s error=%v", c.Slug, err)
		return nil, err
	}
	r.logger.Printf("category repo: created id=%s slug=%s", created.ID, created.Slug)
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
UPDATE categories SET
    name = $2,
    slug = $3,
    description = $4,
    image_url = NULLIF($5, ''),
    image_alt = NULLIF($6, ''),
    featured = $7,
    parent_id = NULLIF($8, '')::uuid,
    sort_order = $9,
    part_type = NULLIF($10, ''),
    vehicle_categories = $11,
    is_automotive_specific = $12,
    compatibility_level = $13,
    installation_difficulty = $14,
    maintenance_frequency = NULLIF($15, ''),
    criticality_level = $16,
    updated_at = now()
WHERE id = $1::uuid
RETURNING ` + categoryColumns
	args := append([]any{c.ID}, categoryArgs(c)...)
	updated, err := scanCategory(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if mapped := mapPgError(err); mapped != nil {
			r.logger.Printf("category repo: update id=%s conflict=%v", c.ID, mapped)
			return nil, mapped
		}
		r.logger.Printf("category repo: update id=%s error=%v", c.ID, err)
		return nil, err
	}
	r.logger.Printf("category repo: updated id=%s slug=%s", updated.ID, updated.Slug)
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1::uuid`, id)
	if err != nil {
		if mapped := mapPgError(err); mapped != nil {
			return mapped
		}
		r.logger.Printf("category repo: delete id=%s error=%v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("category repo: deleted id=%s", id)
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1::uuid`
	c, err := scanCategory(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("category repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) ListChildren(ctx context.Context, parentID string) ([]domain.Category, error) {
	const q = `
SELECT ` + categoryColumns + `
FROM categories
WHERE parent_id = $1::uuid
ORDER BY sort_order ASC, name ASC`
	return r.queryList(ctx, q, parentID)
}

func (r *postgresRepo) List(ctx context.Context, f domain.CategoryFilter) ([]domain.Category, error) {
	where, args := filterWhere(f)
	q := `SELECT ` + categoryColumns + ` FROM categories ` + where + ` ORDER BY sort_order ASC, name ASC`
	return r.queryList(ctx, q, args...)
}

func (r *postgresRepo) queryList(ctx context.Context, q string, args ...any) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Printf("category repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("category repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) CountByPartType(ctx context.Context) (map[domain.PartType]int, error) {
	const q = `
SELECT part_type, COUNT(*)
FROM categories
WHERE is_automotive_specific AND part_type IS NOT NULL
GROUP BY part_type`
	raw, err := r.countGroups(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.PartType]int, len(raw))
	for k, v := range raw {
		out[domain.PartType(k)] = v
	}
	return out, nil
}

func (r *postgresRepo) CountByCriticality(ctx context.Context) (map[domain.CriticalityLevel]int, error) {
	const q = `
SELECT criticality_level, COUNT(*)
FROM categories
WHERE is_automotive_specific
GROUP BY criticality_level`
	raw, err := r.countGroups(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.CriticalityLevel]int, len(raw))
	for k, v := range raw {
		out[domain.CriticalityLevel(k)] = v
	}
	return out, nil
}

func (r *postgresRepo) CountByCompatibility(ctx context.Context) (map[domain.CompatibilityLevel]int, error) {
	const q = `
SELECT compatibility_level, COUNT(*)
FROM categories
WHERE is_automotive_specific
GROUP BY compatibility_level`
	raw, err := r.countGroups(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.CompatibilityLevel]int, len(raw))
	for k, v := range raw {
		out[domain.CompatibilityLevel(k)] = v
	}
	return out, nil
}

func (r *postgresRepo) countGroups(ctx context.Context, q string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("category repo: count error=%v", err)
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// mapPgError translates postgres constraint violations into domain errors.
// Returns nil when the error is not a recognized constraint violation.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case "23505": // unique_violation on name or slug
		switch pgErr.ConstraintName {
		case "categories_name_key":
			return fmt.Errorf("%w: name already in use", domain.ErrDuplicateKey)
		case "categories_slug_key":
			return fmt.Errorf("%w: slug already in use", domain.ErrDuplicateKey)
		}
		return domain.ErrDuplicateKey
	case "23503": // foreign_key_violation: children still reference the row
		return domain.ErrHasChildren
	}
	return nil
}
