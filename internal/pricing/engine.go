// Package pricing implements the per-line price engine and the aggregate
// quantity discount policy. All functions are pure: they take an explicit
// evaluation instant instead of reading the wall clock, so identical inputs
// always produce identical output.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kalzeracode/ingressosc/internal/catalog"
)

var hundred = decimal.NewFromInt(100)

// Adjustment kinds recorded in a Breakdown.
const (
	AdjustTicketDiscount   = "ticket_discount"
	AdjustEarlyBird        = "early_bird"
	AdjustWeekendSurcharge = "weekend_surcharge"
	AdjustLastMinute       = "last_minute"
)

// Adjustment records one applied discount or surcharge. Amount is the
// per-unit delta at the point in the sequence where the adjustment ran,
// before quantity scaling.
type Adjustment struct {
	Type    string          `json:"type"`
	Name    string          `json:"name"`
	Percent decimal.Decimal `json:"percent"`
	Amount  decimal.Decimal `json:"amount"`
}

// Breakdown is the full result of pricing one cart line.
type Breakdown struct {
	TicketID        string          `json:"ticketId"`
	BasePrice       decimal.Decimal `json:"basePrice"`
	Quantity        int             `json:"quantity"`
	BaseSubtotal    decimal.Decimal `json:"baseSubtotal"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	LineTotal       decimal.Decimal `json:"lineTotal"`
	Discounts       []Adjustment    `json:"discounts,omitempty"`
	Surcharges      []Adjustment    `json:"surcharges,omitempty"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	SurchargeAmount decimal.Decimal `json:"surchargeAmount"`
	Savings         decimal.Decimal `json:"savings"`
}

// ComputeLine derives the unit and line price for one ticket type under the
// given rule set. Adjustments apply sequentially and multiplicatively, each
// compounding on the already-adjusted price, in fixed order: ticket-type
// discount, early-bird discount, weekend surcharge, last-minute surcharge.
// A quantity below 1 is treated as 1; callers are expected to clamp to the
// per-purchase maximum before calling.
func ComputeLine(t catalog.TicketType, qty int, rules catalog.RuleSet, weekend bool, now time.Time) Breakdown {
	if qty < 1 {
		qty = 1
	}
	quantity := decimal.NewFromInt(int64(qty))
	b := Breakdown{
		TicketID:     t.ID,
		BasePrice:    t.BasePrice,
		Quantity:     qty,
		BaseSubtotal: t.BasePrice.Mul(quantity),
	}

	price := t.BasePrice

	if t.HasTypeDiscount() {
		amount := percentOf(price, t.DiscountPercent)
		b.Discounts = append(b.Discounts, Adjustment{
			Type:    AdjustTicketDiscount,
			Name:    t.Name + " discount",
			Percent: t.DiscountPercent,
			Amount:  amount,
		})
		price = price.Sub(amount)
	}

	if rules.EarlyBird.AppliesAt(now) {
		amount := percentOf(price, rules.EarlyBird.Percent)
		b.Discounts = append(b.Discounts, Adjustment{
			Type:    AdjustEarlyBird,
			Name:    rules.EarlyBird.Description,
			Percent: rules.EarlyBird.Percent,
			Amount:  amount,
		})
		price = price.Sub(amount)
	}

	if weekend && rules.WeekendSurcharge.Active {
		amount := percentOf(price, rules.WeekendSurcharge.Percent)
		b.Surcharges = append(b.Surcharges, Adjustment{
			Type:    AdjustWeekendSurcharge,
			Name:    rules.WeekendSurcharge.Description,
			Percent: rules.WeekendSurcharge.Percent,
			Amount:  amount,
		})
		price = price.Add(amount)
	}

	if rules.LastMinute.AppliesAt(now) {
		amount := percentOf(price, rules.LastMinute.Percent)
		b.Surcharges = append(b.Surcharges, Adjustment{
			Type:    AdjustLastMinute,
			Name:    rules.LastMinute.Description,
			Percent: rules.LastMinute.Percent,
			Amount:  amount,
		})
		price = price.Add(amount)
	}

	if price.IsNegative() {
		price = decimal.Zero
	}
	b.UnitPrice = price
	b.LineTotal = price.Mul(quantity)
	b.DiscountAmount = sumAmounts(b.Discounts).Mul(quantity)
	b.SurchargeAmount = sumAmounts(b.Surcharges).Mul(quantity)
	b.Savings = t.BasePrice.Sub(price).Mul(quantity)
	return b
}

func percentOf(v, pct decimal.Decimal) decimal.Decimal {
	return v.Mul(pct).Div(hundred)
}

func sumAmounts(adjs []Adjustment) decimal.Decimal {
	total := decimal.Zero
	for _, a := range adjs {
		total = total.Add(a.Amount)
	}
	return total
}
