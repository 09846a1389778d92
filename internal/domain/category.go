package domain

import "time"

// PartType is the functional group a category of parts belongs to.
type PartType string

const (
	PartTypeEngine       PartType = "engine"
	PartTypeBrake        PartType = "brake"
	PartTypeElectrical   PartType = "electrical"
	PartTypeSuspension   PartType = "suspension"
	PartTypeSteering     PartType = "steering"
	PartTypeFuel         PartType = "fuel"
	PartTypeCooling      PartType = "cooling"
	PartTypeBody         PartType = "body"
	PartTypeInterior     PartType = "interior"
	PartTypeTransmission PartType = "transmission"
	PartTypeAccessories  PartType = "accessories"
	PartTypeConsumables  PartType = "consumables"
	PartTypeCondition    PartType = "condition"
)

// PartTypes lists all part types in declaration order. Stats ranking ties
// break by position in this slice.
var PartTypes = []PartType{
	PartTypeEngine,
	PartTypeBrake,
	PartTypeElectrical,
	PartTypeSuspension,
	PartTypeSteering,
	PartTypeFuel,
	PartTypeCooling,
	PartTypeBody,
	PartTypeInterior,
	PartTypeTransmission,
	PartTypeAccessories,
	PartTypeConsumables,
	PartTypeCondition,
}

// VehicleCategory is a body style a part category applies to.
type VehicleCategory string

const (
	VehicleSedan       VehicleCategory = "sedan"
	VehicleHatchback   VehicleCategory = "hatchback"
	VehicleCrossover   VehicleCategory = "crossover"
	VehicleSUV         VehicleCategory = "suv"
	VehiclePickup      VehicleCategory = "pickup"
	VehicleCoupe       VehicleCategory = "coupe"
	VehicleConvertible VehicleCategory = "convertible"
	VehicleWagon       VehicleCategory = "wagon"
	VehicleCommercial  VehicleCategory = "commercial"
	VehicleMotorcycle  VehicleCategory = "motorcycle"
)

var VehicleCategories = []VehicleCategory{
	VehicleSedan,
	VehicleHatchback,
	VehicleCrossover,
	VehicleSUV,
	VehiclePickup,
	VehicleCoupe,
	VehicleConvertible,
	VehicleWagon,
	VehicleCommercial,
	VehicleMotorcycle,
}

// CompatibilityLevel describes how narrowly a part category fits vehicles.
type CompatibilityLevel string

const (
	CompatibilityUniversal     CompatibilityLevel = "universal"
	CompatibilityBrandSpecific CompatibilityLevel = "brand-specific"
	CompatibilityModelSpecific CompatibilityLevel = "model-specific"
	CompatibilityYearSpecific  CompatibilityLevel = "year-specific"
)

var CompatibilityLevels = []CompatibilityLevel{
	CompatibilityUniversal,
	CompatibilityBrandSpecific,
	CompatibilityModelSpecific,
	CompatibilityYearSpecific,
}

// InstallationDifficulty grades the skill needed to fit parts in a category.
type InstallationDifficulty string

const (
	InstallEasy         InstallationDifficulty = "easy"
	InstallMedium       InstallationDifficulty = "medium"
	InstallProfessional InstallationDifficulty = "professional"
)

var InstallationDifficulties = []InstallationDifficulty{
	InstallEasy,
	InstallMedium,
	InstallProfessional,
}

// MaintenanceFrequency is the recommended service interval for a category.
type MaintenanceFrequency string

const (
	MaintenanceDaily    MaintenanceFrequency = "daily"
	MaintenanceWeekly   MaintenanceFrequency = "weekly"
	MaintenanceMonthly  MaintenanceFrequency = "monthly"
	MaintenanceSeasonal MaintenanceFrequency = "seasonal"
	MaintenanceAnnual   MaintenanceFrequency = "annual"
	MaintenanceAsNeeded MaintenanceFrequency = "as-needed"
)

var MaintenanceFrequencies = []MaintenanceFrequency{
	MaintenanceDaily,
	MaintenanceWeekly,
	MaintenanceMonthly,
	MaintenanceSeasonal,
	MaintenanceAnnual,
	MaintenanceAsNeeded,
}

// CriticalityLevel ranks how much a part category matters to safe operation.
type CriticalityLevel string

const (
	CriticalitySafety      CriticalityLevel = "safety-critical"
	CriticalityPerformance CriticalityLevel = "performance-critical"
	CriticalityComfort     CriticalityLevel = "comfort"
	CriticalityAesthetic   CriticalityLevel = "aesthetic"
)

var CriticalityLevels = []CriticalityLevel{
	CriticalitySafety,
	CriticalityPerformance,
	CriticalityComfort,
	CriticalityAesthetic,
}

func (p PartType) Valid() bool               { return indexOf(PartTypes, p) >= 0 }
func (v VehicleCategory) Valid() bool        { return indexOf(VehicleCategories, v) >= 0 }
func (c CompatibilityLevel) Valid() bool     { return indexOf(CompatibilityLevels, c) >= 0 }
func (i InstallationDifficulty) Valid() bool { return indexOf(InstallationDifficulties, i) >= 0 }
func (m MaintenanceFrequency) Valid() bool   { return indexOf(MaintenanceFrequencies, m) >= 0 }
func (c CriticalityLevel) Valid() bool       { return indexOf(CriticalityLevels, c) >= 0 }

func indexOf[T comparable](values []T, v T) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return -1
}

// CategoryImage is an optional display image attached to a category.
type CategoryImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Category is a node in the automotive part taxonomy. ParentID is empty for
// roots; the forest owns the tree structure through it. Automotive fields
// (PartType, VehicleCategories, CompatibilityLevel, CriticalityLevel) are
// resolved against the parent at write time, never derived on read.
type Category struct {
	ID                     string                 `json:"id"`
	Name                   string                 `json:"name"`
	Slug                   string                 `json:"slug"`
	Description            string                 `json:"description"`
	Image                  *CategoryImage         `json:"image,omitempty"`
	Featured               bool                   `json:"featured"`
	ParentID               string                 `json:"parentId,omitempty"`
	SortOrder              int                    `json:"order"`
	PartType               PartType               `json:"partType,omitempty"`
	VehicleCategories      []VehicleCategory      `json:"vehicleCategory,omitempty"`
	IsAutomotiveSpecific   bool                   `json:"isAutomotiveSpecific"`
	CompatibilityLevel     CompatibilityLevel     `json:"compatibilityLevel"`
	InstallationDifficulty InstallationDifficulty `json:"installationDifficulty"`
	MaintenanceFrequency   MaintenanceFrequency   `json:"maintenanceFrequency,omitempty"`
	CriticalityLevel       CriticalityLevel       `json:"criticalityLevel"`
	CreatedAt              time.Time              `json:"createdAt"`
	UpdatedAt              time.Time              `json:"updatedAt"`
}

// CategoryTreeNode wraps a category with its materialized children, ordered
// by (order asc, name asc).
type CategoryTreeNode struct {
	Category
	Children []*CategoryTreeNode `json:"children"`
}

// Breadcrumb is one hop in a root-first ancestor path.
type Breadcrumb struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	PartType PartType `json:"partType,omitempty"`
}

// CategoryFilter selects categories along orthogonal facets. Zero values
// impose no constraint; provided facets combine with logical AND.
// VehicleCategories matches on non-empty set intersection with the
// category's own vehicle set.
type CategoryFilter struct {
	ParentOnly             bool
	PartType               PartType
	VehicleCategories      []VehicleCategory
	CompatibilityLevel     CompatibilityLevel
	CriticalityLevel       CriticalityLevel
	InstallationDifficulty InstallationDifficulty
	Featured               *bool
}

// StatEntry is one bucket of a taxonomy distribution.
type StatEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// TaxonomyStats holds distribution counts over automotive-specific
// categories, each sorted by count descending with ties broken by enum
// declaration order.
type TaxonomyStats struct {
	ByPartType      []StatEntry `json:"byPartType"`
	ByCriticality   []StatEntry `json:"byCriticality"`
	ByCompatibility []StatEntry `json:"byCompatibility"`
}
