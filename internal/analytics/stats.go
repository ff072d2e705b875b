// Package analytics accumulates confirmed sales in memory and derives the
// sales statistics surface from them.
package analytics

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ItemSale is one ticket line inside a confirmed sale.
type ItemSale struct {
	TicketID string          `json:"ticketId"`
	Quantity int             `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// SaleRecord is one confirmed checkout.
type SaleRecord struct {
	SaleID           string          `json:"saleId"`
	Items            []ItemSale      `json:"items"`
	Revenue          decimal.Decimal `json:"revenue"`
	Tickets          int             `json:"tickets"`
	QuantityDiscount decimal.Decimal `json:"quantityDiscount"`
	PromoDiscount    decimal.Decimal `json:"promoDiscount"`
	PromoCode        string          `json:"promoCode,omitempty"`
	OccurredAt       time.Time       `json:"occurredAt"`
}

// TypeBreakdown aggregates sales for one ticket type.
type TypeBreakdown struct {
	Tickets int             `json:"tickets"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DiscountUsage totals the money given away per discount channel.
type DiscountUsage struct {
	Quantity decimal.Decimal `json:"quantity"`
	Promo    decimal.Decimal `json:"promo"`
	Total    decimal.Decimal `json:"total"`
}

// Statistics is the aggregate view over all recorded sales.
type Statistics struct {
	TotalSales        int                      `json:"totalSales"`
	TotalRevenue      decimal.Decimal          `json:"totalRevenue"`
	TotalTickets      int                      `json:"totalTickets"`
	AverageOrderValue decimal.Decimal          `json:"averageOrderValue"`
	ByTicketType      map[string]TypeBreakdown `json:"byTicketType"`
	DiscountUsage     DiscountUsage            `json:"discountUsage"`
}

// Store keeps sale records in memory. It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	sales []SaleRecord
}

// NewStore returns an empty sales store.
func NewStore() *Store {
	return &Store{}
}

// Record appends one confirmed sale.
func (s *Store) Record(rec SaleRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, rec)
}

// Len returns the number of recorded sales.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sales)
}

// Recent returns up to n most recent sales, newest last.
func (s *Store) Recent(n int) []SaleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || n > len(s.sales) {
		n = len(s.sales)
	}
	out := make([]SaleRecord, n)
	copy(out, s.sales[len(s.sales)-n:])
	return out
}

// Statistics derives the aggregate view from the recorded sales.
func (s *Store) Statistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Statistics{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
		ByTicketType:      make(map[string]TypeBreakdown),
		DiscountUsage: DiscountUsage{
			Quantity: decimal.Zero,
			Promo:    decimal.Zero,
			Total:    decimal.Zero,
		},
	}
	for _, sale := range s.sales {
		stats.TotalSales++
		stats.TotalRevenue = stats.TotalRevenue.Add(sale.Revenue)
		stats.TotalTickets += sale.Tickets
		stats.DiscountUsage.Quantity = stats.DiscountUsage.Quantity.Add(sale.QuantityDiscount)
		stats.DiscountUsage.Promo = stats.DiscountUsage.Promo.Add(sale.PromoDiscount)
		for _, item := range sale.Items {
			agg := stats.ByTicketType[item.TicketID]
			agg.Tickets += item.Quantity
			agg.Revenue = agg.Revenue.Add(item.Amount)
			stats.ByTicketType[item.TicketID] = agg
		}
	}
	stats.DiscountUsage.Total = stats.DiscountUsage.Quantity.Add(stats.DiscountUsage.Promo)
	if stats.TotalSales > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.Div(decimal.NewFromInt(int64(stats.TotalSales)))
	}
	return stats
}
