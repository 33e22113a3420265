package model

import "github.com/google/uuid"

type UnitType string

const (
	UnitCount        UnitType = "count"
	UnitLinearMeters UnitType = "linear_meters"
)

type RoofType struct {
	ID           uuid.UUID
	Name         string
	MaterialCost int
}

type MaterialType struct {
	ID         uuid.UUID
	Name       string
	CostPerKvm int
}

type ScaffoldingSize struct {
	ID   uuid.UUID
	Name string
	Cost int
}

type ChimneyType struct {
	ID           uuid.UUID
	Name         string
	MaterialCost int
	LaborCost    int
}

// CategoryPrice is the unit price of one dynamic quote line (e.g. "takfönster",
// "hängränna"), keyed by category name in the quote form.
type CategoryPrice struct {
	ID       uuid.UUID
	Name     string
	Material int
	Labor    int
	UnitType UnitType
}

type FixedConstant struct {
	Name  string
	Value float64
}

// Fixed constant names. All of them must exist in the fixed_constants table
// for the engine to price a quote.
const (
	ConstRaspontRemovalMaterial   = "raspont_removal_material"
	ConstRaspontRemovalLabor      = "raspont_removal_labor"
	ConstRaspontNoRemovalMaterial = "raspont_no_removal_material"
	ConstRaspontNoRemovalLabor    = "raspont_no_removal_labor"
	ConstDisposalFee              = "disposal_fee"
	ConstAdvancedScaffoldingFee   = "advanced_scaffolding_fee"
	ConstTwoFloorScaffoldingFee   = "two_floor_scaffolding_fee"
	ConstMileRate                 = "mile_rate"
	ConstMaterialMarkupPercent    = "material_markup_percent"
	ConstTotalMarkupPercent       = "total_markup_percent"
	ConstRotPercent               = "rot_percent"
)

func KnownConstants() []string {
	return []string{
		ConstRaspontRemovalMaterial,
		ConstRaspontRemovalLabor,
		ConstRaspontNoRemovalMaterial,
		ConstRaspontNoRemovalLabor,
		ConstDisposalFee,
		ConstAdvancedScaffoldingFee,
		ConstTwoFloorScaffoldingFee,
		ConstMileRate,
		ConstMaterialMarkupPercent,
		ConstTotalMarkupPercent,
		ConstRotPercent,
	}
}

func IsKnownConstant(name string) bool {
	for _, known := range KnownConstants() {
		if known == name {
			return true
		}
	}
	return false
}
