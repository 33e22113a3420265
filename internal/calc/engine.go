// Package calc implements the quote cost engine and the margin price
// derivation. Both are pure: all catalog reads happen before the math starts.
package calc

import (
	"math"

	"github.com/aldervall/takkalkyl/internal/catalog"
	"github.com/aldervall/takkalkyl/internal/model"
)

const (
	// Labor for laying the roofing material, SEK per m².
	laborPerKvm = 950
	// Underlay/membrane material, SEK per m², flat regardless of variant.
	underlayPerKvm = 100
	// ROT deduction ceiling per property owner, SEK.
	rotCapPerOwner = 50000
)

// Breakdown is the cost outcome of one quote computation, in whole SEK.
// MaterialCost includes the material markup; TotalCost additionally includes
// the total markup. LaborCost is never marked up.
type Breakdown struct {
	MaterialCost int
	LaborCost    int
	TotalCost    int
	RotAvdrag    int
}

// Compute prices one quote against a catalog snapshot.
//
// Line items accumulate in a fixed order, then the material markup is applied,
// then the total markup on the combined sum. The two markups must stay
// separate: collapsing them into one factor changes the result whenever the
// material markup is nonzero, because each stage rounds up on its own.
// Optional catalog references that do not resolve contribute zero; a missing
// fixed constant aborts with catalog.ErrMissingConstant.
func Compute(input model.CalculationInput, cat catalog.Snapshot) (Breakdown, error) {
	var material, labor float64

	if roof, ok := cat.RoofType(input.RoofTypeID); ok {
		material += float64(roof.MaterialCost)
	}

	if mat, ok := cat.MaterialType(input.MaterialTypeID); ok {
		area := float64(input.Area)
		material += float64(mat.CostPerKvm) * area
		labor += area * laborPerKvm
		material += area * underlayPerKvm
	}

	// Scaffolding is priced as labor, not material.
	if scaffolding, ok := cat.ScaffoldingSize(input.ScaffoldingSizeID); ok {
		labor += float64(scaffolding.Cost)
	}

	if chimney, ok := cat.ChimneyType(input.ChimneyTypeID); ok {
		material += float64(chimney.MaterialCost)
		labor += float64(chimney.LaborCost)
	}

	for name, quantity := range input.Categories {
		if quantity <= 0 {
			continue
		}
		entry, ok := cat.Category(name)
		if !ok {
			continue
		}
		material += quantity * float64(entry.Material)
		labor += quantity * float64(entry.Labor)
	}

	// Every job incurs the disposal fee.
	disposal, err := cat.Constant(model.ConstDisposalFee)
	if err != nil {
		return Breakdown{}, err
	}
	material += disposal

	raspontMaterial, raspontLabor, err := raspontRates(cat, input.RaspontRivning)
	if err != nil {
		return Breakdown{}, err
	}
	material += raspontMaterial * float64(input.Raspont)
	labor += raspontLabor * float64(input.Raspont)

	if input.AdvancedScaffolding {
		fee, err := cat.Constant(model.ConstAdvancedScaffoldingFee)
		if err != nil {
			return Breakdown{}, err
		}
		material += fee
	}

	if input.TwoFloorScaffolding {
		fee, err := cat.Constant(model.ConstTwoFloorScaffoldingFee)
		if err != nil {
			return Breakdown{}, err
		}
		labor += fee
	}

	if input.Milage > 0 {
		mileRate, err := cat.Constant(model.ConstMileRate)
		if err != nil {
			return Breakdown{}, err
		}
		labor += float64(input.Milage) * mileRate
	}

	materialMarkup, err := cat.Constant(model.ConstMaterialMarkupPercent)
	if err != nil {
		return Breakdown{}, err
	}
	material = math.Ceil(material * (1 + materialMarkup/100))

	// Labor is persisted whole. The total and the ROT deduction build on the
	// stored figure, so a later re-derivation from the record agrees exactly.
	labor = math.Round(labor)

	total := material + labor

	totalMarkup, err := cat.Constant(model.ConstTotalMarkupPercent)
	if err != nil {
		return Breakdown{}, err
	}
	total = math.Ceil(total * (1 + totalMarkup/100))

	rotPercent, err := cat.Constant(model.ConstRotPercent)
	if err != nil {
		return Breakdown{}, err
	}

	return Breakdown{
		MaterialCost: int(material),
		LaborCost:    int(labor),
		TotalCost:    int(total),
		// ROT is computed from the pre-total-markup labor figure.
		RotAvdrag: cappedRot(labor, rotPercent, input.OwnerAmount),
	}, nil
}

func raspontRates(cat catalog.Snapshot, withRemoval bool) (material, labor float64, err error) {
	materialName := model.ConstRaspontNoRemovalMaterial
	laborName := model.ConstRaspontNoRemovalLabor
	if withRemoval {
		materialName = model.ConstRaspontRemovalMaterial
		laborName = model.ConstRaspontRemovalLabor
	}
	material, err = cat.Constant(materialName)
	if err != nil {
		return 0, 0, err
	}
	labor, err = cat.Constant(laborName)
	if err != nil {
		return 0, 0, err
	}
	return material, labor, nil
}

// cappedRot applies the Swedish ROT deduction: a percentage of the labor
// cost, capped at 50 000 SEK per property owner.
func cappedRot(labor, rotPercent float64, ownerAmount int) int {
	calculated := int(math.Round(labor * rotPercent / 100))
	owners := ownerAmount
	if owners < 1 {
		owners = 1
	}
	limit := rotCapPerOwner * owners
	if calculated > limit {
		return limit
	}
	return calculated
}
