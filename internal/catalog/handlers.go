package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Kalzeracode/ingressosc/internal/common"
)

// Handler exposes public catalog endpoints.
type Handler struct {
	Catalog *Catalog
}

// Tickets handles GET /api/v1/tickets.
func (h *Handler) Tickets(w http.ResponseWriter, _ *http.Request) {
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Catalog.Tickets()})
}

// TicketDetail handles GET /api/v1/tickets/{id}.
func (h *Handler) TicketDetail(w http.ResponseWriter, r *http.Request) {
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	id := chi.URLParam(r, "id")
	t, ok := h.Catalog.Ticket(id)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "ticket type not found", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": t})
}

// Rules handles GET /api/v1/rules.
func (h *Handler) Rules(w http.ResponseWriter, _ *http.Request) {
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Catalog.Rules()})
}
