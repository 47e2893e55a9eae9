package orders

import (
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
)

// Totals is the money breakdown computed when an order is created.
type Totals struct {
	Items       []Item
	TotalAmount float64
	Tax         float64
	Discount    float64
	FinalAmount float64
}

// ComputeTotals prices each line as quantity times the exact unit price and sums
// them in decimal. No intermediate rounding is applied, so finalAmount is always
// the item total plus tax minus discount. A discount larger than total plus tax
// is rejected.
func ComputeTotals(items []ItemInput, tax, discount float64) (Totals, error) {
	out := Totals{Items: make([]Item, 0, len(items))}
	total := decimal.Zero
	for _, in := range items {
		unit := decimal.NewFromFloat(in.UnitPrice)
		line := unit.Mul(decimal.NewFromInt(int64(in.Quantity)))
		total = total.Add(line)
		out.Items = append(out.Items, Item{
			MedicineID: in.MedicineID,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
			TotalPrice: line.InexactFloat64(),
		})
	}
	taxD := decimal.NewFromFloat(tax)
	discountD := decimal.NewFromFloat(discount)
	final := total.Add(taxD).Sub(discountD)
	if final.IsNegative() {
		return Totals{}, shared.NewValidationError("discount", "must not exceed total amount plus tax")
	}
	out.TotalAmount = total.InexactFloat64()
	out.Tax = tax
	out.Discount = discount
	out.FinalAmount = final.InexactFloat64()
	return out, nil
}
