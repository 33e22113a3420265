package model

import (
	"time"

	"github.com/google/uuid"
)

type CalculationType string

const (
	CalculationTypeCalc    CalculationType = "calc"
	CalculationTypeDemo    CalculationType = "demo"
	CalculationTypeDeal    CalculationType = "deal"
	CalculationTypeProject CalculationType = "project"
)

type UnderlayType string

const (
	UnderlayPapp UnderlayType = "underlagspapp"
	UnderlayDuk  UnderlayType = "underlagsduk"
)

// CalculationInput is one customer roofing-quote request as submitted by the
// sales person. Catalog references are optional; an id that no longer exists
// in the catalog contributes zero cost.
type CalculationInput struct {
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerAddress string `json:"customerAddress"`

	// Number of property owners, 1 or 2. Drives the ROT cap.
	OwnerAmount int `json:"ownerAmount"`

	Area           int  `json:"area"`    // roof area, m²
	Raspont        int  `json:"raspont"` // boarding area, m²
	RaspontRivning bool `json:"raspontRivning"`

	RoofTypeID        *uuid.UUID `json:"roofTypeId"`
	MaterialTypeID    *uuid.UUID `json:"materialTypeId"`
	ScaffoldingSizeID *uuid.UUID `json:"scaffoldingSizeId"`
	ChimneyTypeID     *uuid.UUID `json:"chimneyTypeId"`

	Underlay UnderlayType `json:"underlay"`

	// Quantities for dynamic quote lines, keyed by category name. Only keys
	// that also exist in the price catalog are priced.
	Categories map[string]float64 `json:"categories"`

	ExtraWork string `json:"extraWork"`
	Milage    int    `json:"milage"`

	AdvancedScaffolding bool `json:"advancedScaffolding"`
	TwoFloorScaffolding bool `json:"twoFloorScaffolding"`
}

// Calculation is the persisted outcome of one quote computation. The cost
// fields are written once at creation and never recomputed; only the pipeline
// fields (CalculationType, MarginPercent, MarginPrice) change afterwards.
type Calculation struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	TotalCost       int
	LaborCost       int
	MaterialCost    int
	RotAvdrag       int
	MarginPrice     *int
	MarginPercent   *int
	CalculationType CalculationType
	InputData       CalculationInput
	CreatedAt       time.Time
}
