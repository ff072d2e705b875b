// Package cart composes the pricing engine, quantity discount policy and
// promo ledger into cart-level totals, and validates cart lines against the
// live catalog.
package cart

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kalzeracode/ingressosc/internal/catalog"
	"github.com/Kalzeracode/ingressosc/internal/pricing"
	"github.com/Kalzeracode/ingressosc/internal/promo"
)

// Line is one cart entry. Quantity is clamped to [1, maxPerPurchase] by the
// caller; the validation pass re-checks it against the catalog.
type Line struct {
	TicketID string `json:"ticketId"`
	Quantity int    `json:"quantity"`
}

// Totals is the complete cart calculation.
type Totals struct {
	Items            []pricing.Breakdown      `json:"items"`
	Subtotal         decimal.Decimal          `json:"subtotal"`
	TotalQuantity    int                      `json:"totalQuantity"`
	QuantityDiscount pricing.QuantityDiscount `json:"quantityDiscount"`
	Promo            *promo.Result            `json:"promo,omitempty"`
	PromoDiscount    decimal.Decimal          `json:"promoDiscount"`
	TotalDiscounts   decimal.Decimal          `json:"totalDiscounts"`
	FinalTotal       decimal.Decimal          `json:"finalTotal"`
	BaseAmount       decimal.Decimal          `json:"baseAmount"`
	DiscountAmount   decimal.Decimal          `json:"discountAmount"`
	SurchargeAmount  decimal.Decimal          `json:"surchargeAmount"`
}

// Aggregator is the single entry point the surrounding UI calls for cart
// math. Catalog and registry are injected; Now is overridable for tests.
type Aggregator struct {
	Catalog  *catalog.Catalog
	Registry *promo.Registry
	Now      func() time.Time
}

func (a *Aggregator) now() time.Time {
	if a != nil && a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Totals prices every line, applies the quantity discount to the aggregate
// subtotal, then applies the promo code (if any) to the remainder. The
// promo is validated against the post-quantity-discount subtotal, so the
// two discounts are sequential rather than both hitting the raw subtotal.
func (a *Aggregator) Totals(lines []Line, promoCode string, weekend bool) (Totals, error) {
	if a == nil || a.Catalog == nil {
		return Totals{}, fmt.Errorf("cart aggregator not configured")
	}
	now := a.now()
	rules := a.Catalog.Rules()

	t := Totals{
		Subtotal:        decimal.Zero,
		PromoDiscount:   decimal.Zero,
		TotalDiscounts:  decimal.Zero,
		FinalTotal:      decimal.Zero,
		BaseAmount:      decimal.Zero,
		DiscountAmount:  decimal.Zero,
		SurchargeAmount: decimal.Zero,
	}
	for _, line := range lines {
		ticket, ok := a.Catalog.Ticket(line.TicketID)
		if !ok {
			return Totals{}, fmt.Errorf("unknown ticket id %q", line.TicketID)
		}
		b := pricing.ComputeLine(ticket, line.Quantity, rules, weekend, now)
		t.Items = append(t.Items, b)
		t.Subtotal = t.Subtotal.Add(b.LineTotal)
		t.TotalQuantity += b.Quantity
		t.BaseAmount = t.BaseAmount.Add(b.BaseSubtotal)
		t.DiscountAmount = t.DiscountAmount.Add(b.DiscountAmount)
		t.SurchargeAmount = t.SurchargeAmount.Add(b.SurchargeAmount)
	}

	t.QuantityDiscount = pricing.ComputeQuantityDiscount(t.TotalQuantity, t.Subtotal)

	if promoCode != "" && a.Registry != nil {
		remainder := t.Subtotal.Sub(t.QuantityDiscount.Amount)
		result := a.Registry.Apply(promoCode, remainder, t.TotalQuantity)
		t.Promo = &result
		if result.Valid {
			t.PromoDiscount = result.Discount
		}
	}

	t.TotalDiscounts = t.QuantityDiscount.Amount.Add(t.PromoDiscount)
	t.FinalTotal = decimal.Max(decimal.Zero, t.Subtotal.Sub(t.TotalDiscounts))
	return t, nil
}
