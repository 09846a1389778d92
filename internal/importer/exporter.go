package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"autoparts-catalog/internal/domain"
)

// CategoryLister is the read primitive the exporter needs.
type CategoryLister interface {
	List(ctx context.Context, f domain.CategoryFilter) ([]domain.Category, error)
}

// ExportCSV writes every category as a flat record in (order asc, name asc)
// sequence, the inverse of the import format.
func ExportCSV(ctx context.Context, lister CategoryLister, w io.Writer) (int, error) {
	categories, err := lister.List(ctx, domain.CategoryFilter{})
	if err != nil {
		return 0, fmt.Errorf("list categories: %w", err)
	}

	csvw := csv.NewWriter(w)
	if err := csvw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for _, c := range categories {
		if err := csvw.Write(formatRecord(c)); err != nil {
			return 0, fmt.Errorf("write record %s: %w", c.Slug, err)
		}
	}
	csvw.Flush()
	if err := csvw.Error(); err != nil {
		return 0, err
	}
	return len(categories), nil
}

func formatRecord(c domain.Category) []string {
	vehicles := make([]string, len(c.VehicleCategories))
	for i, v := range c.VehicleCategories {
		vehicles[i] = string(v)
	}
	return []string{
		c.Name,
		c.Slug,
		c.Description,
		string(c.PartType),
		strings.Join(vehicles, ","),
		string(c.CompatibilityLevel),
		strconv.FormatBool(c.IsAutomotiveSpecific),
		strconv.FormatBool(c.Featured),
	}
}
