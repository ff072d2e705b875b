// Package checkout turns a validated cart into a confirmed sale: it claims
// stock from the inventory ledger, burns the promo use, records the sale for
// analytics and emits the sale event.
package checkout

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Kalzeracode/ingressosc/internal/analytics"
	"github.com/Kalzeracode/ingressosc/internal/cart"
	"github.com/Kalzeracode/ingressosc/internal/common"
	"github.com/Kalzeracode/ingressosc/internal/events"
	"github.com/Kalzeracode/ingressosc/internal/inventory"
	"github.com/Kalzeracode/ingressosc/internal/obs"
	"github.com/Kalzeracode/ingressosc/internal/promo"
)

// Request is a checkout submission.
type Request struct {
	Lines     []cart.Line `json:"lines"`
	PromoCode string      `json:"promoCode"`
	Weekend   bool        `json:"weekend"`
}

// Receipt is the outcome of a confirmed sale.
type Receipt struct {
	SaleID      string                      `json:"saleId"`
	Totals      cart.Totals                 `json:"totals"`
	Inventory   map[string]inventory.Record `json:"inventory"`
	ConfirmedAt time.Time                   `json:"confirmedAt"`
}

// Service coordinates the checkout across the cart aggregator, inventory
// ledger, promo registry and sales store.
type Service struct {
	Agg      *cart.Aggregator
	Ledger   *inventory.Ledger
	Registry *promo.Registry
	Sales    *analytics.Store
	Events   *events.Bus
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Confirm runs the full checkout. Stock is claimed in two phases, reserve
// then confirm, and every line must be fully reservable or the whole sale
// is rolled back; a sale never partially depletes the ledger.
func (s *Service) Confirm(ctx context.Context, req Request) (Receipt, error) {
	if s.Agg == nil || s.Ledger == nil {
		return Receipt{}, common.NewAppError("INTERNAL", "checkout service not configured", http.StatusInternalServerError, nil)
	}
	if len(req.Lines) == 0 {
		return Receipt{}, common.NewAppError("EMPTY_CART", "cart has no lines", http.StatusUnprocessableEntity, nil)
	}

	v := cart.ValidateAgainstCatalog(req.Lines, s.Agg.Catalog, s.Ledger)
	if !v.IsValid {
		err := common.NewAppError("CART_INVALID", "cart failed validation", http.StatusUnprocessableEntity, nil)
		err.Details = v.Errors
		s.countCheckout("rejected")
		return Receipt{}, err
	}

	totals, aggErr := s.Agg.Totals(req.Lines, req.PromoCode, req.Weekend)
	if aggErr != nil {
		s.countCheckout("rejected")
		return Receipt{}, common.NewAppError("CART_INVALID", aggErr.Error(), http.StatusUnprocessableEntity, aggErr)
	}
	if req.PromoCode != "" && (totals.Promo == nil || !totals.Promo.Valid) {
		err := common.NewAppError("PROMO_INVALID", "promo code rejected", http.StatusUnprocessableEntity, nil)
		if totals.Promo != nil {
			err.Details = map[string]any{"reason": totals.Promo.Reason, "message": totals.Promo.Message}
		}
		s.countCheckout("rejected")
		return Receipt{}, err
	}

	if err := s.claimStock(req.Lines); err != nil {
		s.countCheckout("rejected")
		return Receipt{}, err
	}

	records := make(map[string]inventory.Record, len(req.Lines))
	for _, line := range req.Lines {
		rec, err := s.Ledger.ConfirmSale(line.TicketID, line.Quantity)
		if err != nil {
			s.countCheckout("failed")
			return Receipt{}, common.NewAppError("INTERNAL", "inventory confirmation failed", http.StatusInternalServerError, err)
		}
		records[line.TicketID] = rec
		if obs.TicketsSoldTotal != nil {
			obs.TicketsSoldTotal.WithLabelValues(line.TicketID).Add(float64(line.Quantity))
		}
	}

	if req.PromoCode != "" && s.Registry != nil {
		if _, err := s.Registry.Redeem(req.PromoCode); err == nil && obs.PromoRedemptionsTotal != nil {
			obs.PromoRedemptionsTotal.WithLabelValues(totals.Promo.Code).Inc()
		}
	}

	confirmedAt := s.now()
	saleID := uuid.NewString()

	if s.Sales != nil {
		items := make([]analytics.ItemSale, 0, len(totals.Items))
		for _, b := range totals.Items {
			items = append(items, analytics.ItemSale{
				TicketID: b.TicketID,
				Quantity: b.Quantity,
				Amount:   b.LineTotal,
			})
		}
		s.Sales.Record(analytics.SaleRecord{
			SaleID:           saleID,
			Items:            items,
			Revenue:          totals.FinalTotal,
			Tickets:          totals.TotalQuantity,
			QuantityDiscount: totals.QuantityDiscount.Amount,
			PromoDiscount:    totals.PromoDiscount,
			PromoCode:        promoCodeOf(totals),
			OccurredAt:       confirmedAt,
		})
	}

	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicSaleConfirmed, saleID, map[string]any{
			"tickets": totals.TotalQuantity,
			"total":   totals.FinalTotal,
			"promo":   promoCodeOf(totals),
		})
	}
	s.countCheckout("confirmed")

	return Receipt{
		SaleID:      saleID,
		Totals:      totals,
		Inventory:   records,
		ConfirmedAt: confirmedAt,
	}, nil
}

// claimStock reserves every line in full or rolls the whole claim back.
func (s *Service) claimStock(lines []cart.Line) error {
	claimed := make([]inventory.Reservation, 0, len(lines))
	for _, line := range lines {
		res, err := s.Ledger.Reserve(line.TicketID, line.Quantity)
		if err != nil {
			s.rollback(claimed)
			return common.NewAppError("INTERNAL", "inventory reservation failed", http.StatusInternalServerError, err)
		}
		claimed = append(claimed, res)
		if !res.Fulfilled() {
			s.rollback(claimed)
			appErr := common.NewAppError("INSUFFICIENT_STOCK", "not enough tickets available", http.StatusConflict, nil)
			appErr.Details = map[string]any{
				"ticketId":  line.TicketID,
				"requested": res.Requested,
				"granted":   res.Granted,
			}
			return appErr
		}
	}
	return nil
}

func (s *Service) rollback(claimed []inventory.Reservation) {
	for _, res := range claimed {
		if res.Granted > 0 {
			_, _ = s.Ledger.Release(res.TicketID, res.Granted)
		}
	}
}

func (s *Service) countCheckout(result string) {
	if obs.CheckoutTotal != nil {
		obs.CheckoutTotal.WithLabelValues(result).Inc()
	}
}

func promoCodeOf(t cart.Totals) string {
	if t.Promo != nil && t.Promo.Valid {
		return t.Promo.Code
	}
	return ""
}
