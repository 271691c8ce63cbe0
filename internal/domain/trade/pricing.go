package trade

import "github.com/shopspring/decimal"

// DefaultTaxRate is the sales tax applied at checkout
var DefaultTaxRate = decimal.RequireFromString("0.08")

// Pricing turns a subtotal into the amount charged
type Pricing struct {
	TaxRate  decimal.Decimal
	Shipping decimal.Decimal
}

// DefaultPricing returns 8% tax and free shipping
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:  DefaultTaxRate,
		Shipping: decimal.Zero,
	}
}

// Totals is the breakdown of a checkout amount
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Compute applies tax and shipping to the subtotal, rounding each figure to cents
func (p Pricing) Compute(subtotal decimal.Decimal) Totals {
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(p.TaxRate).Round(2)
	shipping := p.Shipping.Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}

// AmountInCents converts the total to the smallest currency unit
func (t Totals) AmountInCents() int64 {
	return ToCents(t.Total)
}

// ToCents converts a decimal amount to integer cents
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
