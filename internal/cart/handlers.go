package cart

import (
	"encoding/json"
	"net/http"

	"github.com/Kalzeracode/ingressosc/internal/common"
	"github.com/Kalzeracode/ingressosc/internal/pricing"
)

// Handler exposes cart quoting and validation endpoints.
type Handler struct {
	Agg          *Aggregator
	Availability Availability
}

type lineQuoteRequest struct {
	TicketID string `json:"ticketId"`
	Quantity int    `json:"quantity"`
	Weekend  bool   `json:"weekend"`
}

type cartQuoteRequest struct {
	Lines     []Line `json:"lines"`
	PromoCode string `json:"promoCode"`
	Weekend   bool   `json:"weekend"`
}

type validateRequest struct {
	Lines []Line `json:"lines"`
}

// QuoteLine handles POST /api/v1/quotes/line.
func (h *Handler) QuoteLine(w http.ResponseWriter, r *http.Request) {
	if h.Agg == nil || h.Agg.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart aggregator not configured", nil)
		return
	}
	var req lineQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	ticket, ok := h.Agg.Catalog.Ticket(req.TicketID)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "ticket type not found", nil)
		return
	}
	b := pricing.ComputeLine(ticket, req.Quantity, h.Agg.Catalog.Rules(), req.Weekend, h.Agg.now())
	common.JSON(w, http.StatusOK, map[string]any{"data": b})
}

// QuoteCart handles POST /api/v1/quotes/cart.
func (h *Handler) QuoteCart(w http.ResponseWriter, r *http.Request) {
	if h.Agg == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart aggregator not configured", nil)
		return
	}
	var req cartQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	totals, err := h.Agg.Totals(req.Lines, req.PromoCode, req.Weekend)
	if err != nil {
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_CART", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": totals})
}

// Validate handles POST /api/v1/cart/validate. All violations are
// collected and returned together.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	if h.Agg == nil || h.Agg.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart aggregator not configured", nil)
		return
	}
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	v := ValidateAgainstCatalog(req.Lines, h.Agg.Catalog, h.Availability)
	common.JSON(w, http.StatusOK, map[string]any{"data": v})
}
