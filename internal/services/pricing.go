package services

import (
	"sneakerhead/internal/config"

	"github.com/shopspring/decimal"
)

// Pricing computes order totals in decimal and rounds every amount to cents.
type Pricing struct {
	TaxRate          decimal.Decimal
	FreeShippingOver decimal.Decimal
	ShippingFee      decimal.Decimal
}

// NewPricing reads the tax and shipping constants from cfg.
func NewPricing(cfg *config.Config) Pricing {
	return Pricing{
		TaxRate:          decimal.NewFromFloat(cfg.TaxRate),
		FreeShippingOver: decimal.NewFromFloat(cfg.FreeShippingOver),
		ShippingFee:      decimal.NewFromFloat(cfg.ShippingFee),
	}
}

// Totals is the money breakdown of an order or of a checkout preview.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// PricedLine is a unit price and a quantity.
type PricedLine struct {
	Price    float64
	Quantity int
}

// LineTotal is price * quantity rounded to cents.
func LineTotal(price float64, qty int) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty))).Round(2).InexactFloat64()
}

// Compute sums the lines. Shipping is waived only when the subtotal is
// strictly greater than FreeShippingOver.
func (p Pricing) Compute(lines []PricedLine) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(p.TaxRate).Round(2)
	shipping := p.ShippingFee
	if subtotal.GreaterThan(p.FreeShippingOver) {
		shipping = decimal.Zero
	}
	total := subtotal.Add(tax).Add(shipping).Round(2)

	return Totals{
		Subtotal: subtotal.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Shipping: shipping.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}
