package checkout

import (
	"encoding/json"

	"potosi-be/internal/cart"

	"github.com/shopspring/decimal"
)

// TaxRate applies to the item subtotal only; shipping is not taxed.
var TaxRate = decimal.RequireFromString("0.16")

type Totals struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
}

// CalculateTotals works at full precision. Rounding happens in Display.
func CalculateTotals(items []cart.Item) Totals {
	subtotal := decimal.Zero
	shipping := decimal.Zero

	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		subtotal = subtotal.Add(item.UnitPrice.Mul(qty))
		if item.ShippingFee != nil {
			shipping = shipping.Add(item.ShippingFee.Mul(qty))
		}
	}

	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Tax:         tax,
		Total:       subtotal.Add(shipping).Add(tax),
	}
}

type DisplayTotals struct {
	Subtotal    string `json:"subtotal"`
	ShippingFee string `json:"shippingFee"`
	Tax         string `json:"tax"`
	Total       string `json:"total"`
}

func (t Totals) Display() DisplayTotals {
	return DisplayTotals{
		Subtotal:    t.Subtotal.StringFixed(2),
		ShippingFee: t.ShippingFee.StringFixed(2),
		Tax:         t.Tax.StringFixed(2),
		Total:       t.Total.StringFixed(2),
	}
}

func (t Totals) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Display())
}
