package pricing

import "github.com/shopspring/decimal"

// QuantityDiscount is the outcome of the tiered quantity discount policy.
type QuantityDiscount struct {
	Applicable  bool            `json:"applicable"`
	Percent     decimal.Decimal `json:"percent"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	MinQuantity int             `json:"minQuantity"`
}

// quantityTiers are evaluated highest threshold first; the first match wins
// and tiers never stack.
var quantityTiers = []struct {
	minQuantity int
	percent     int64
	description string
}{
	{10, 15, "Large group discount (10+)"},
	{5, 10, "Medium group discount (5-9)"},
	{3, 5, "Small group discount (3-4)"},
}

// ComputeQuantityDiscount derives the single best-matching tier for the
// aggregate cart quantity. The discount applies to the whole subtotal, not
// per line.
func ComputeQuantityDiscount(totalQuantity int, subtotal decimal.Decimal) QuantityDiscount {
	for _, tier := range quantityTiers {
		if totalQuantity >= tier.minQuantity {
			percent := decimal.NewFromInt(tier.percent)
			return QuantityDiscount{
				Applicable:  true,
				Percent:     percent,
				Amount:      percentOf(subtotal, percent),
				Description: tier.description,
				MinQuantity: tier.minQuantity,
			}
		}
	}
	return QuantityDiscount{Percent: decimal.Zero, Amount: decimal.Zero}
}
