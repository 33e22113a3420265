package calc

import "math"

// Payable is the customer-facing price derived from a stored calculation and
// a margin percentage.
type Payable struct {
	MarginPrice int
	RotAvdrag   int
	PriceToPay  int
}

// DerivePayable recomputes the payable price for a stored calculation as the
// margin slider moves. It never touches the stored cost fields.
//
// The ROT deduction is re-derived from the stored labor cost with the same
// cap rule the engine uses. PriceToPay rounds once, over the whole sum; the
// terms are not rounded individually.
func DerivePayable(totalCost, laborCost, ownerAmount, marginPercent int, rotPercent float64) Payable {
	total := float64(totalCost)
	rot := cappedRot(float64(laborCost), rotPercent, ownerAmount)
	priceToPay := int(math.Ceil(total - float64(rot) + total*float64(marginPercent)/100))

	return Payable{
		MarginPrice: MarginPrice(totalCost, marginPercent),
		RotAvdrag:   rot,
		PriceToPay:  priceToPay,
	}
}

// MarginPrice is the margin amount in SEK for a total cost and margin percent.
func MarginPrice(totalCost, marginPercent int) int {
	return int(math.Ceil(float64(totalCost) * float64(marginPercent) / 100))
}
