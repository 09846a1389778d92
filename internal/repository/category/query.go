package category

import (
	"fmt"
	"strings"

	"autoparts-catalog/internal/domain"
)

// filterWhere composes a CategoryFilter into a SQL WHERE fragment and its
// positional args. All provided facets combine with AND; omitted facets add
// no clause. Vehicle categories match on non-empty array overlap (&&), not
// containment. The composer performs no I/O, so it is unit-testable on its
// own; the returned fragment is empty when no facet is set.
func filterWhere(f domain.CategoryFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if f.ParentOnly {
		clauses = append(clauses, "parent_id IS NULL")
	}
	if f.PartType != "" {
		args = append(args, string(f.PartType))
		clauses = append(clauses, fmt.Sprintf("part_type = $%d", len(args)))
	}
	if len(f.VehicleCategories) > 0 {
		vcs := make([]string, len(f.VehicleCategories))
		for i, vc := range f.VehicleCategories {
			vcs[i] = string(vc)
		}
		args = append(args, vcs)
		clauses = append(clauses, fmt.Sprintf("vehicle_categories && $%d", len(args)))
	}
	if f.CompatibilityLevel != "" {
		args = append(args, string(f.CompatibilityLevel))
		clauses = append(clauses, fmt.Sprintf("compatibility_level = $%d", len(args)))
	}
	if f.CriticalityLevel != "" {
		args = append(args, string(f.CriticalityLevel))
		clauses = append(clauses, fmt.Sprintf("criticality_level = $%d", len(args)))
	}
	if f.InstallationDifficulty != "" {
		args = append(args, string(f.InstallationDifficulty))
		clauses = append(clauses, fmt.Sprintf("installation_difficulty = $%d", len(args)))
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		clauses = append(clauses, fmt.Sprintf("featured = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}
