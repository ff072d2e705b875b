package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Kalzeracode/ingressosc/internal/analytics"
)

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.RequireFromString(want)), "want %s got %s", want, got)
}

func sampleSales() []analytics.SaleRecord {
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return []analytics.SaleRecord{
		{
			SaleID: "s1",
			Items: []analytics.ItemSale{
				{TicketID: "standard", Quantity: 2, Amount: decimal.NewFromInt(255)},
			},
			Revenue:          decimal.NewFromInt(255),
			Tickets:          2,
			QuantityDiscount: decimal.Zero,
			PromoDiscount:    decimal.Zero,
			OccurredAt:       at,
		},
		{
			SaleID: "s2",
			Items: []analytics.ItemSale{
				{TicketID: "standard", Quantity: 10, Amount: decimal.RequireFromString("1275")},
			},
			Revenue:          decimal.RequireFromString("975.375"),
			Tickets:          10,
			QuantityDiscount: decimal.RequireFromString("191.25"),
			PromoDiscount:    decimal.RequireFromString("108.375"),
			PromoCode:        "PROMO10",
			OccurredAt:       at.Add(time.Hour),
		},
		{
			SaleID: "s3",
			Items: []analytics.ItemSale{
				{TicketID: "vip", Quantity: 1, Amount: decimal.NewFromInt(255)},
			},
			Revenue:    decimal.NewFromInt(255),
			Tickets:    1,
			OccurredAt: at.Add(2 * time.Hour),
		},
	}
}

func TestStatisticsEmpty(t *testing.T) {
	s := analytics.NewStore()

	stats := s.Statistics()
	require.Zero(t, stats.TotalSales)
	require.True(t, stats.TotalRevenue.IsZero())
	require.True(t, stats.AverageOrderValue.IsZero())
	require.Empty(t, stats.ByTicketType)
}

func TestStatisticsAggregates(t *testing.T) {
	s := analytics.NewStore()
	for _, sale := range sampleSales() {
		s.Record(sale)
	}

	stats := s.Statistics()
	require.Equal(t, 3, stats.TotalSales)
	require.Equal(t, 13, stats.TotalTickets)
	requireDecimal(t, "1485.375", stats.TotalRevenue)
	requireDecimal(t, "495.125", stats.AverageOrderValue)

	require.Equal(t, 12, stats.ByTicketType["standard"].Tickets)
	requireDecimal(t, "1530", stats.ByTicketType["standard"].Revenue)
	require.Equal(t, 1, stats.ByTicketType["vip"].Tickets)

	requireDecimal(t, "191.25", stats.DiscountUsage.Quantity)
	requireDecimal(t, "108.375", stats.DiscountUsage.Promo)
	requireDecimal(t, "299.625", stats.DiscountUsage.Total)
}

func TestRecent(t *testing.T) {
	s := analytics.NewStore()
	for _, sale := range sampleSales() {
		s.Record(sale)
	}

	recent := s.Recent(2)
	require.Len(t, recent, 2)
	require.Equal(t, "s2", recent[0].SaleID)
	require.Equal(t, "s3", recent[1].SaleID)

	all := s.Recent(0)
	require.Len(t, all, 3)
}
