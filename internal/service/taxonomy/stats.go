package taxonomy

import (
	"context"
	"sort"

	"autoparts-catalog/internal/domain"
)

// Stats computes distribution counts over automotive-specific categories.
// Each distribution is sorted by count descending; ties keep enum
// declaration order. Counts are exact and computed on demand; callers
// wanting caching put it in front of this method.
func (s *Service) Stats(ctx context.Context) (*domain.TaxonomyStats, error) {
	byPart, err := s.repo.CountByPartType(ctx)
	if err != nil {
		return nil, err
	}
	byCrit, err := s.repo.CountByCriticality(ctx)
	if err != nil {
		return nil, err
	}
	byCompat, err := s.repo.CountByCompatibility(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.TaxonomyStats{
		ByPartType:      rankEntries(domain.PartTypes, byPart),
		ByCriticality:   rankEntries(domain.CriticalityLevels, byCrit),
		ByCompatibility: rankEntries(domain.CompatibilityLevels, byCompat),
	}, nil
}

// rankEntries turns a count map into entries ordered by count descending.
// Iterating the enum's declaration slice before the stable sort makes
// declaration order the tie-break.
func rankEntries[T ~string](order []T, counts map[T]int) []domain.StatEntry {
	entries := make([]domain.StatEntry, 0, len(counts))
	for _, key := range order {
		if count, ok := counts[key]; ok {
			entries = append(entries, domain.StatEntry{Key: string(key), Count: count})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}
