package cart_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Kalzeracode/ingressosc/internal/cart"
	"github.com/Kalzeracode/ingressosc/internal/catalog"
	"github.com/Kalzeracode/ingressosc/internal/promo"
)

var saleDay = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(catalog.Document{
		Tickets: []catalog.TicketType{
			{
				ID:             "standard",
				Name:           "Standard",
				BasePrice:      decimal.NewFromInt(150),
				Available:      500,
				MaxPerPurchase: 10,
				Category:       "general",
			},
			{
				ID:             "vip",
				Name:           "VIP",
				BasePrice:      decimal.NewFromInt(300),
				Available:      100,
				MaxPerPurchase: 5,
				Category:       "premium",
			},
			{
				ID:              "student",
				Name:            "Student",
				BasePrice:       decimal.NewFromInt(150),
				DiscountPercent: decimal.NewFromInt(50),
				Available:       200,
				MaxPerPurchase:  2,
				Category:        "general",
			},
		},
		Rules: catalog.RuleSet{
			EarlyBird: catalog.EarlyBirdRule{
				Active:      true,
				Percent:     decimal.NewFromInt(15),
				EndsAt:      time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
				Description: "Early bird discount",
			},
			WeekendSurcharge: catalog.WeekendSurchargeRule{
				Active:      true,
				Percent:     decimal.NewFromInt(10),
				Description: "Weekend surcharge",
			},
		},
		Promos: []catalog.PromoConfig{
			{
				Code:       "PROMO10",
				Kind:       catalog.PromoPercentage,
				Value:      decimal.NewFromInt(10),
				UsageLimit: 100,
				Active:     true,
			},
		},
	})
	require.NoError(t, err)
	return cat
}

func testAggregator(t *testing.T) *cart.Aggregator {
	t.Helper()
	cat := testCatalog(t)
	return &cart.Aggregator{
		Catalog:  cat,
		Registry: promo.NewRegistry(cat.Promos()),
		Now:      func() time.Time { return saleDay },
	}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.RequireFromString(want)), "want %s got %s", want, got)
}

func TestTotalsGroupDiscount(t *testing.T) {
	agg := testAggregator(t)

	totals, err := agg.Totals([]cart.Line{{TicketID: "standard", Quantity: 10}}, "", false)
	require.NoError(t, err)

	// 10 x 127.50 early bird units, then 15% off the aggregate.
	requireDecimal(t, "1275", totals.Subtotal)
	require.Equal(t, 10, totals.TotalQuantity)
	require.True(t, totals.QuantityDiscount.Applicable)
	requireDecimal(t, "191.25", totals.QuantityDiscount.Amount)
	requireDecimal(t, "1083.75", totals.FinalTotal)
	require.Nil(t, totals.Promo)
}

func TestTotalsPromoAfterQuantityDiscount(t *testing.T) {
	agg := testAggregator(t)

	totals, err := agg.Totals([]cart.Line{{TicketID: "standard", Quantity: 10}}, "PROMO10", false)
	require.NoError(t, err)

	// The promo hits the post-quantity-discount remainder of 1083.75.
	require.NotNil(t, totals.Promo)
	require.True(t, totals.Promo.Valid)
	requireDecimal(t, "108.375", totals.PromoDiscount)
	requireDecimal(t, "299.625", totals.TotalDiscounts)
	requireDecimal(t, "975.375", totals.FinalTotal)
}

func TestTotalsInvalidPromoKeepsSubtotal(t *testing.T) {
	agg := testAggregator(t)

	totals, err := agg.Totals([]cart.Line{{TicketID: "standard", Quantity: 2}}, "NOPE", false)
	require.NoError(t, err)

	require.NotNil(t, totals.Promo)
	require.False(t, totals.Promo.Valid)
	require.Equal(t, promo.ReasonInvalidCode, totals.Promo.Reason)
	require.True(t, totals.PromoDiscount.IsZero())
	requireDecimal(t, "255", totals.FinalTotal)
}

func TestTotalsMixedLines(t *testing.T) {
	agg := testAggregator(t)

	totals, err := agg.Totals([]cart.Line{
		{TicketID: "standard", Quantity: 2},
		{TicketID: "vip", Quantity: 1},
	}, "", false)
	require.NoError(t, err)

	// 2 x 127.50 + 1 x 255, with the 3-ticket tier taking 5% off.
	requireDecimal(t, "510", totals.Subtotal)
	require.Equal(t, 3, totals.TotalQuantity)
	requireDecimal(t, "25.5", totals.QuantityDiscount.Amount)
	requireDecimal(t, "484.5", totals.FinalTotal)
	require.Len(t, totals.Items, 2)
}

func TestTotalsUnknownTicket(t *testing.T) {
	agg := testAggregator(t)

	_, err := agg.Totals([]cart.Line{{TicketID: "ghost", Quantity: 1}}, "", false)
	require.Error(t, err)
}

func TestTotalsEmptyCart(t *testing.T) {
	agg := testAggregator(t)

	totals, err := agg.Totals(nil, "", false)
	require.NoError(t, err)

	require.Zero(t, totals.TotalQuantity)
	require.True(t, totals.Subtotal.IsZero())
	require.True(t, totals.FinalTotal.IsZero())
	require.False(t, totals.QuantityDiscount.Applicable)
}

func TestTotalsWeekendSurcharge(t *testing.T) {
	agg := testAggregator(t)

	plain, err := agg.Totals([]cart.Line{{TicketID: "vip", Quantity: 1}}, "", false)
	require.NoError(t, err)
	weekend, err := agg.Totals([]cart.Line{{TicketID: "vip", Quantity: 1}}, "", true)
	require.NoError(t, err)

	require.True(t, weekend.Subtotal.GreaterThan(plain.Subtotal))
	requireDecimal(t, "25.5", weekend.SurchargeAmount)
}

type fixedAvailability map[string]int

func (f fixedAvailability) Available(id string) (int, bool) {
	n, ok := f[id]
	return n, ok
}

func TestValidateCollectsAllViolations(t *testing.T) {
	cat := testCatalog(t)
	avail := fixedAvailability{"standard": 1, "vip": 100, "student": 0}

	v := cart.ValidateAgainstCatalog([]cart.Line{
		{TicketID: "ghost", Quantity: 1},
		{TicketID: "standard", Quantity: 5},
		{TicketID: "vip", Quantity: 9},
		{TicketID: "student", Quantity: 1},
	}, cat, avail)

	require.False(t, v.IsValid)
	require.Len(t, v.Errors, 4)
	require.Contains(t, v.Errors[0], "not found")
	require.Contains(t, v.Errors[1], "available")
	require.Contains(t, v.Errors[2], "per purchase")
	require.Contains(t, v.Errors[3], "available")
}

func TestValidateOK(t *testing.T) {
	cat := testCatalog(t)
	avail := fixedAvailability{"standard": 500, "vip": 100, "student": 200}

	v := cart.ValidateAgainstCatalog([]cart.Line{
		{TicketID: "standard", Quantity: 10},
		{TicketID: "student", Quantity: 2},
	}, cat, avail)

	require.True(t, v.IsValid)
	require.Empty(t, v.Errors)
}

func TestValidateWithoutAvailability(t *testing.T) {
	cat := testCatalog(t)

	v := cart.ValidateAgainstCatalog([]cart.Line{{TicketID: "vip", Quantity: 3}}, cat, nil)

	require.True(t, v.IsValid)
}
