package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Kalzeracode/ingressosc/internal/common"
	"github.com/Kalzeracode/ingressosc/internal/events"
	"github.com/Kalzeracode/ingressosc/internal/obs"
)

// Handler exposes the inventory ledger over HTTP.
type Handler struct {
	Ledger *Ledger
	Bus    *events.Bus
}

type mutateRequest struct {
	Quantity int `json:"quantity"`
}

// List handles GET /api/v1/inventory.
func (h *Handler) List(w http.ResponseWriter, _ *http.Request) {
	if h.Ledger == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "inventory ledger not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Ledger.Snapshot()})
}

// Get handles GET /api/v1/inventory/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	rec, _, ok := h.lookup(w, r)
	if !ok {
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rec})
}

// Status handles GET /api/v1/inventory/{id}/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.lookup(w, r)
	if !ok {
		return
	}
	status, err := h.Ledger.Status(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": status})
}

// Stats handles GET /api/v1/inventory/stats.
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	if h.Ledger == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "inventory ledger not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Ledger.OverallStats()})
}

// Reserve handles POST /api/v1/inventory/{id}/reserve. The response always
// carries requested vs granted so callers can detect partial fulfilment.
func (h *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.lookup(w, r)
	if !ok {
		return
	}
	qty, ok := decodeQuantity(w, r)
	if !ok {
		return
	}
	res, err := h.Ledger.Reserve(id, qty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if obs.ReservationsTotal != nil {
		obs.ReservationsTotal.WithLabelValues(id, reservationResult(res)).Inc()
	}
	if h.Bus != nil && res.Granted > 0 {
		_, _ = h.Bus.Emit(r.Context(), events.TopicTicketReserved, id, map[string]any{
			"requested": res.Requested,
			"granted":   res.Granted,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": res, "fulfilled": res.Fulfilled()})
}

// Release handles POST /api/v1/inventory/{id}/release.
func (h *Handler) Release(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.lookup(w, r)
	if !ok {
		return
	}
	qty, ok := decodeQuantity(w, r)
	if !ok {
		return
	}
	rec, err := h.Ledger.Release(id, qty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if obs.ReleasesTotal != nil {
		obs.ReleasesTotal.WithLabelValues(id).Inc()
	}
	if h.Bus != nil {
		_, _ = h.Bus.Emit(r.Context(), events.TopicTicketReleased, id, map[string]any{"quantity": qty})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rec})
}

// AddStock handles POST /api/v1/inventory/{id}/add-stock.
func (h *Handler) AddStock(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.lookup(w, r)
	if !ok {
		return
	}
	qty, ok := decodeQuantity(w, r)
	if !ok {
		return
	}
	rec, err := h.Ledger.AddStock(id, qty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if obs.StockAddedTotal != nil {
		obs.StockAddedTotal.WithLabelValues(id).Add(float64(qty))
	}
	if h.Bus != nil {
		_, _ = h.Bus.Emit(r.Context(), events.TopicStockAdded, id, map[string]any{"quantity": qty})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rec})
}

// Reset handles POST /api/v1/inventory/{id}/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	_, id, ok := h.lookup(w, r)
	if !ok {
		return
	}
	rec, err := h.Ledger.Reset(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if h.Bus != nil {
		_, _ = h.Bus.Emit(r.Context(), events.TopicStockReset, id, nil)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rec})
}

// lookup resolves the path id and rejects unknown ticket types. The ledger
// itself may run permissive, but an HTTP caller always gets a 404 instead
// of a silent no-op.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (Record, string, bool) {
	if h.Ledger == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "inventory ledger not configured", nil)
		return Record{}, "", false
	}
	id := chi.URLParam(r, "id")
	rec, ok := h.Ledger.Get(id)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "ticket type not found", nil)
		return Record{}, "", false
	}
	return rec, id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUnknownTicket) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "ticket type not found", nil)
		return
	}
	common.WriteAppError(w, err)
}

func decodeQuantity(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req mutateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return 0, false
	}
	if req.Quantity <= 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST",
			"quantity must be positive, got "+strconv.Itoa(req.Quantity), nil)
		return 0, false
	}
	return req.Quantity, true
}

func reservationResult(res Reservation) string {
	switch {
	case res.Granted == 0:
		return "none"
	case res.Fulfilled():
		return "full"
	default:
		return "partial"
	}
}
