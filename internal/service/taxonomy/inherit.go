package taxonomy

import "autoparts-catalog/internal/domain"

// applyInheritance resolves the automotive fields of c against its parent at
// write time. Fields the caller set explicitly survive untouched; unset
// fields copy the parent's value when the parent carries one; whatever is
// still unset falls back to the documented default. The result is persisted,
// never re-derived on read.
func applyInheritance(c *domain.Category, parent *domain.Category) {
	if parent != nil {
		if c.PartType == "" {
			c.PartType = parent.PartType
		}
		if len(c.VehicleCategories) == 0 && len(parent.VehicleCategories) > 0 {
			c.VehicleCategories = append([]domain.VehicleCategory(nil), parent.VehicleCategories...)
		}
		if c.CompatibilityLevel == "" {
			c.CompatibilityLevel = parent.CompatibilityLevel
		}
		if c.CriticalityLevel == "" {
			c.CriticalityLevel = parent.CriticalityLevel
		}
	}
	if c.CompatibilityLevel == "" {
		c.CompatibilityLevel = domain.CompatibilityUniversal
	}
	if c.CriticalityLevel == "" {
		c.CriticalityLevel = domain.CriticalityPerformance
	}
	if c.InstallationDifficulty == "" {
		c.InstallationDifficulty = domain.InstallMedium
	}
}

// explicitPatch records which inherited automotive fields the incoming
// update set directly. Those fields keep the caller's value through a
// reparent instead of being re-resolved against the new parent.
type explicitPatch struct {
	partType      bool
	vehicles      bool
	compatibility bool
	criticality   bool
}

func explicitFieldsOf(in UpdateInput) explicitPatch {
	return explicitPatch{
		partType:      in.PartType != nil,
		vehicles:      in.VehicleCategories != nil,
		compatibility: in.CompatibilityLevel != nil,
		criticality:   in.CriticalityLevel != nil,
	}
}

// reinheritFrom re-resolves fields on c that still equal the values of
// oldParent, replacing them with newParent's values (or defaults when
// newParent is nil). Fields the update set explicitly are never cleared;
// for the rest, the persisted model records no per-field explicitness, so
// equality with the previous parent value is the inheritance signal.
func reinheritFrom(c *domain.Category, oldParent, newParent *domain.Category, explicit explicitPatch) {
	if oldParent == nil {
		return
	}
	if !explicit.partType && c.PartType == oldParent.PartType {
		c.PartType = ""
	}
	if !explicit.vehicles && vehicleSetEqual(c.VehicleCategories, oldParent.VehicleCategories) {
		c.VehicleCategories = nil
	}
	if !explicit.compatibility && c.CompatibilityLevel == oldParent.CompatibilityLevel {
		c.CompatibilityLevel = ""
	}
	if !explicit.criticality && c.CriticalityLevel == oldParent.CriticalityLevel {
		c.CriticalityLevel = ""
	}
	applyInheritance(c, newParent)
}

// vehicleSetEqual compares two vehicle category sets ignoring order and
// duplicates.
func vehicleSetEqual(a, b []domain.VehicleCategory) bool {
	return vehicleSetContains(a, b) && vehicleSetContains(b, a)
}

func vehicleSetContains(outer, inner []domain.VehicleCategory) bool {
	set := make(map[domain.VehicleCategory]struct{}, len(outer))
	for _, v := range outer {
		set[v] = struct{}{}
	}
	for _, v := range inner {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}
