package category

import (
	"reflect"
	"strings"
	"testing"

	"autoparts-catalog/internal/domain"
)

func TestFilterWhere_Empty(t *testing.T) {
	where, args := filterWhere(domain.CategoryFilter{})
	if where != "" || args != nil {
		t.Fatalf("expected no clause for empty filter, got %q %v", where, args)
	}
}

func TestFilterWhere_ParentOnly(t *testing.T) {
	where, args := filterWhere(domain.CategoryFilter{ParentOnly: true})
	if where != "WHERE parent_id IS NULL" {
		t.Fatalf("unexpected clause %q", where)
	}
	if len(args) != 0 {
		t.Fatalf("parent-only must not bind args, got %v", args)
	}
}

func TestFilterWhere_VehicleSetUsesOverlap(t *testing.T) {
	where, args := filterWhere(domain.CategoryFilter{
		VehicleCategories: []domain.VehicleCategory{domain.VehicleSUV, domain.VehiclePickup},
	})
	if where != "WHERE vehicle_categories && $1" {
		t.Fatalf("expected array overlap operator, got %q", where)
	}
	want := []string{"suv", "pickup"}
	if !reflect.DeepEqual(args, []any{want}) {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestFilterWhere_AllFacetsCombineWithAND(t *testing.T) {
	featured := true
	where, args := filterWhere(domain.CategoryFilter{
		ParentOnly:             true,
		PartType:               domain.PartTypeBrake,
		VehicleCategories:      []domain.VehicleCategory{domain.VehicleSedan},
		CompatibilityLevel:     domain.CompatibilityModelSpecific,
		CriticalityLevel:       domain.CriticalitySafety,
		InstallationDifficulty: domain.InstallProfessional,
		Featured:               &featured,
	})

	wantClauses := []string{
		"parent_id IS NULL",
		"part_type = $1",
		"vehicle_categories && $2",
		"compatibility_level = $3",
		"criticality_level = $4",
		"installation_difficulty = $5",
		"featured = $6",
	}
	want := "WHERE " + strings.Join(wantClauses, " AND ")
	if where != want {
		t.Fatalf("unexpected clause\n got: %s\nwant: %s", where, want)
	}
	if len(args) != 6 {
		t.Fatalf("expected 6 bound args, got %v", args)
	}
	if args[0] != "brake" || args[5] != true {
		t.Fatalf("unexpected arg binding %v", args)
	}
}

func TestFilterWhere_SingleFacet(t *testing.T) {
	where, args := filterWhere(domain.CategoryFilter{CriticalityLevel: domain.CriticalityComfort})
	if where != "WHERE criticality_level = $1" {
		t.Fatalf("unexpected clause %q", where)
	}
	if len(args) != 1 || args[0] != "comfort" {
		t.Fatalf("unexpected args %v", args)
	}
}
