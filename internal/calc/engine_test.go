package calc

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/aldervall/takkalkyl/internal/catalog"
	"github.com/aldervall/takkalkyl/internal/model"
)

// testSnapshot returns a catalog with every required constant present:
// disposal 500, material markup 10%, total markup 5%, ROT 50%, boarding
// with-removal 200/300, without-removal 180/200, advanced fee 10000, two-floor
// fee 15000, mile rate 50.
func testSnapshot() catalog.Snapshot {
	return catalog.Snapshot{
		RoofTypes:        map[uuid.UUID]model.RoofType{},
		MaterialTypes:    map[uuid.UUID]model.MaterialType{},
		ScaffoldingSizes: map[uuid.UUID]model.ScaffoldingSize{},
		ChimneyTypes:     map[uuid.UUID]model.ChimneyType{},
		Categories:       map[string]model.CategoryPrice{},
		Constants: map[string]float64{
			model.ConstRaspontRemovalMaterial:   200,
			model.ConstRaspontRemovalLabor:      300,
			model.ConstRaspontNoRemovalMaterial: 180,
			model.ConstRaspontNoRemovalLabor:    200,
			model.ConstDisposalFee:              500,
			model.ConstAdvancedScaffoldingFee:   10000,
			model.ConstTwoFloorScaffoldingFee:   15000,
			model.ConstMileRate:                 50,
			model.ConstMaterialMarkupPercent:    10,
			model.ConstTotalMarkupPercent:       5,
			model.ConstRotPercent:               50,
		},
	}
}

func baseInput() model.CalculationInput {
	return model.CalculationInput{
		CustomerName: "Karin Lindqvist",
		OwnerAmount:  1,
	}
}

func mustCompute(t *testing.T, input model.CalculationInput, cat catalog.Snapshot) Breakdown {
	t.Helper()
	breakdown, err := Compute(input, cat)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	return breakdown
}

func TestCompute_ZeroInputFloor(t *testing.T) {
	// Only the unconditional disposal fee contributes.
	breakdown := mustCompute(t, baseInput(), testSnapshot())

	if breakdown.MaterialCost != 550 { // ceil(500 * 1.10)
		t.Errorf("materialCost = %d, want 550", breakdown.MaterialCost)
	}
	if breakdown.LaborCost != 0 {
		t.Errorf("laborCost = %d, want 0", breakdown.LaborCost)
	}
	if breakdown.TotalCost != 578 { // ceil(550 * 1.05)
		t.Errorf("totalCost = %d, want 578", breakdown.TotalCost)
	}
	if breakdown.RotAvdrag != 0 {
		t.Errorf("rotAvdrag = %d, want 0", breakdown.RotAvdrag)
	}
}

func TestCompute_ScenarioFullRoof(t *testing.T) {
	cat := testSnapshot()
	materialTypeID := uuid.New()
	cat.MaterialTypes[materialTypeID] = model.MaterialType{ID: materialTypeID, Name: "Betongpanna", CostPerKvm: 200}

	input := baseInput()
	input.Area = 100
	input.MaterialTypeID = &materialTypeID

	breakdown := mustCompute(t, input, cat)

	// Raw material 200*100 + 100*100 underlay + 500 disposal = 30 500,
	// marked up to 33 550. Labor 100*950 = 95 000, never marked up.
	if breakdown.MaterialCost != 33550 {
		t.Errorf("materialCost = %d, want 33550", breakdown.MaterialCost)
	}
	if breakdown.LaborCost != 95000 {
		t.Errorf("laborCost = %d, want 95000", breakdown.LaborCost)
	}
	if breakdown.TotalCost != 134978 { // ceil(128550 * 1.05)
		t.Errorf("totalCost = %d, want 134978", breakdown.TotalCost)
	}
	if breakdown.RotAvdrag != 47500 { // min(round(95000*0.5), 50000)
		t.Errorf("rotAvdrag = %d, want 47500", breakdown.RotAvdrag)
	}
}

func TestCompute_TwoOwnersRaiseCapNotValue(t *testing.T) {
	cat := testSnapshot()
	materialTypeID := uuid.New()
	cat.MaterialTypes[materialTypeID] = model.MaterialType{ID: materialTypeID, Name: "Betongpanna", CostPerKvm: 200}

	input := baseInput()
	input.Area = 100
	input.MaterialTypeID = &materialTypeID
	input.OwnerAmount = 2

	breakdown := mustCompute(t, input, cat)

	// 47 500 is below the 100 000 cap for two owners, so the value is
	// unchanged. The cap is a ceiling, not a multiplier.
	if breakdown.RotAvdrag != 47500 {
		t.Errorf("rotAvdrag = %d, want 47500", breakdown.RotAvdrag)
	}
}

func TestCompute_RotCap(t *testing.T) {
	cat := testSnapshot()
	scaffoldingID := uuid.New()
	cat.ScaffoldingSizes[scaffoldingID] = model.ScaffoldingSize{ID: scaffoldingID, Name: "Stor", Cost: 300000}

	input := baseInput()
	input.ScaffoldingSizeID = &scaffoldingID

	one := mustCompute(t, input, cat)
	if one.RotAvdrag != 50000 { // round(300000*0.5) = 150000, capped
		t.Errorf("rotAvdrag for one owner = %d, want 50000", one.RotAvdrag)
	}

	input.OwnerAmount = 2
	two := mustCompute(t, input, cat)
	if two.RotAvdrag != 100000 {
		t.Errorf("rotAvdrag for two owners = %d, want 100000", two.RotAvdrag)
	}
	if two.RotAvdrag < one.RotAvdrag {
		t.Errorf("rotAvdrag must not shrink with more owners: %d < %d", two.RotAvdrag, one.RotAvdrag)
	}
	if two.RotAvdrag > 100000 {
		t.Errorf("rotAvdrag = %d, exceeds the two-owner cap", two.RotAvdrag)
	}
}

func TestCompute_MarkupStagesAreSeparate(t *testing.T) {
	cat := testSnapshot()
	materialTypeID := uuid.New()
	cat.MaterialTypes[materialTypeID] = model.MaterialType{ID: materialTypeID, Name: "Betongpanna", CostPerKvm: 200}

	input := baseInput()
	input.Area = 100
	input.MaterialTypeID = &materialTypeID

	breakdown := mustCompute(t, input, cat)

	// A single combined markup over the raw sums would give
	// ceil((30500 + 95000) * 1.05) = 131775.
	if breakdown.TotalCost == 131775 {
		t.Fatal("totalCost matches the single-stage markup; material markup was skipped")
	}
	if breakdown.TotalCost != 134978 {
		t.Errorf("totalCost = %d, want 134978", breakdown.TotalCost)
	}
}

func TestCompute_UnresolvedReferencesContributeZero(t *testing.T) {
	cat := testSnapshot()

	withMissing := baseInput()
	missingID := uuid.New()
	withMissing.RoofTypeID = &missingID
	withMissing.MaterialTypeID = &missingID
	withMissing.ScaffoldingSizeID = &missingID
	withMissing.ChimneyTypeID = &missingID
	withMissing.Area = 100

	got := mustCompute(t, withMissing, cat)
	want := mustCompute(t, baseInput(), cat)

	if got != want {
		t.Errorf("breakdown with unresolved references = %+v, want %+v", got, want)
	}
}

func TestCompute_AreaWithoutMaterialType(t *testing.T) {
	// Area alone triggers nothing: the per-m² labor and underlay additions
	// are gated on the material type resolving.
	input := baseInput()
	input.Area = 100

	got := mustCompute(t, input, testSnapshot())
	want := mustCompute(t, baseInput(), testSnapshot())

	if got != want {
		t.Errorf("breakdown with area only = %+v, want %+v", got, want)
	}
}

func TestCompute_RoofTypeAndChimney(t *testing.T) {
	cat := testSnapshot()
	roofTypeID := uuid.New()
	chimneyTypeID := uuid.New()
	cat.RoofTypes[roofTypeID] = model.RoofType{ID: roofTypeID, Name: "Sadeltak", MaterialCost: 4000}
	cat.ChimneyTypes[chimneyTypeID] = model.ChimneyType{ID: chimneyTypeID, Name: "Murad", MaterialCost: 3000, LaborCost: 2000}

	input := baseInput()
	input.RoofTypeID = &roofTypeID
	input.ChimneyTypeID = &chimneyTypeID

	breakdown := mustCompute(t, input, cat)

	if breakdown.MaterialCost != 8250 { // ceil((4000+3000+500) * 1.10)
		t.Errorf("materialCost = %d, want 8250", breakdown.MaterialCost)
	}
	if breakdown.LaborCost != 2000 {
		t.Errorf("laborCost = %d, want 2000", breakdown.LaborCost)
	}
}

func TestCompute_DynamicCategories(t *testing.T) {
	cat := testSnapshot()
	cat.Categories["takfönster"] = model.CategoryPrice{Name: "takfönster", Material: 1000, Labor: 500, UnitType: model.UnitCount}
	cat.Categories["hängränna"] = model.CategoryPrice{Name: "hängränna", Material: 100, Labor: 50, UnitType: model.UnitLinearMeters}

	input := baseInput()
	// One priced line, one zero quantity, one key the catalog does not know.
	input.Categories = map[string]float64{
		"takfönster": 2,
		"hängränna":  0,
		"solpanel":   3,
	}

	breakdown := mustCompute(t, input, cat)

	if breakdown.MaterialCost != 2750 { // ceil((2*1000 + 500) * 1.10)
		t.Errorf("materialCost = %d, want 2750", breakdown.MaterialCost)
	}
	if breakdown.LaborCost != 1000 {
		t.Errorf("laborCost = %d, want 1000", breakdown.LaborCost)
	}
}

func TestCompute_RaspontRatePairs(t *testing.T) {
	input := baseInput()
	input.Raspont = 10

	without := mustCompute(t, input, testSnapshot())
	if without.MaterialCost != 2530 { // ceil((10*180 + 500) * 1.10)
		t.Errorf("materialCost without removal = %d, want 2530", without.MaterialCost)
	}
	if without.LaborCost != 2000 { // 10*200
		t.Errorf("laborCost without removal = %d, want 2000", without.LaborCost)
	}

	input.RaspontRivning = true
	with := mustCompute(t, input, testSnapshot())
	if with.MaterialCost != 2750 { // ceil((10*200 + 500) * 1.10)
		t.Errorf("materialCost with removal = %d, want 2750", with.MaterialCost)
	}
	if with.LaborCost != 3000 { // 10*300
		t.Errorf("laborCost with removal = %d, want 3000", with.LaborCost)
	}
}

func TestCompute_ScaffoldingAddOns(t *testing.T) {
	input := baseInput()
	input.AdvancedScaffolding = true
	input.TwoFloorScaffolding = true

	breakdown := mustCompute(t, input, testSnapshot())

	// Advanced scaffolding lands on material, two-floor on labor.
	// 10500 * 1.1 sits just above 11550 in float64, so the ceil takes 11551.
	if breakdown.MaterialCost != 11551 {
		t.Errorf("materialCost = %d, want 11551", breakdown.MaterialCost)
	}
	if breakdown.LaborCost != 15000 {
		t.Errorf("laborCost = %d, want 15000", breakdown.LaborCost)
	}
}

func TestCompute_Milage(t *testing.T) {
	input := baseInput()
	input.Milage = 4

	breakdown := mustCompute(t, input, testSnapshot())

	if breakdown.LaborCost != 200 { // 4 * 50
		t.Errorf("laborCost = %d, want 200", breakdown.LaborCost)
	}
}

func TestCompute_MissingConstantIsFatal(t *testing.T) {
	cat := testSnapshot()
	delete(cat.Constants, model.ConstDisposalFee)

	_, err := Compute(baseInput(), cat)
	if !errors.Is(err, catalog.ErrMissingConstant) {
		t.Fatalf("expected ErrMissingConstant, got %v", err)
	}
}

func TestCompute_MissingMarkupIsFatal(t *testing.T) {
	cat := testSnapshot()
	delete(cat.Constants, model.ConstMaterialMarkupPercent)

	_, err := Compute(baseInput(), cat)
	if !errors.Is(err, catalog.ErrMissingConstant) {
		t.Fatalf("expected ErrMissingConstant, got %v", err)
	}
}

func TestCompute_RotMatchesStoredLabor(t *testing.T) {
	// Fractional linear meters leave labor at 101.5, stored as 102. The ROT
	// deduction must come from the stored figure: round(102 * 0.30) = 31,
	// not round(101.5 * 0.30) = 30.
	cat := testSnapshot()
	cat.Constants[model.ConstRotPercent] = 30
	cat.Categories["hängränna"] = model.CategoryPrice{Name: "hängränna", Material: 0, Labor: 203, UnitType: model.UnitLinearMeters}

	input := baseInput()
	input.Categories = map[string]float64{"hängränna": 0.5}

	breakdown := mustCompute(t, input, cat)

	if breakdown.LaborCost != 102 {
		t.Errorf("laborCost = %d, want 102", breakdown.LaborCost)
	}
	if breakdown.RotAvdrag != 31 {
		t.Errorf("rotAvdrag = %d, want 31", breakdown.RotAvdrag)
	}

	derived := DerivePayable(breakdown.TotalCost, breakdown.LaborCost, 1, 0, 30)
	if derived.RotAvdrag != breakdown.RotAvdrag {
		t.Errorf("re-derived rotAvdrag = %d, stored %d; must agree", derived.RotAvdrag, breakdown.RotAvdrag)
	}
}

func TestCompute_MissingAddOnFeeOnlyFatalWhenUsed(t *testing.T) {
	cat := testSnapshot()
	delete(cat.Constants, model.ConstAdvancedScaffoldingFee)

	if _, err := Compute(baseInput(), cat); err != nil {
		t.Fatalf("fee unused, expected no error, got %v", err)
	}

	input := baseInput()
	input.AdvancedScaffolding = true
	if _, err := Compute(input, cat); !errors.Is(err, catalog.ErrMissingConstant) {
		t.Fatalf("expected ErrMissingConstant, got %v", err)
	}
}
