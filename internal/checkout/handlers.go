package checkout

import (
	"encoding/json"
	"net/http"

	"github.com/Kalzeracode/ingressosc/internal/common"
)

// Handler exposes the checkout endpoint.
type Handler struct {
	Service *Service
}

// Confirm handles POST /api/v1/checkout.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	receipt, err := h.Service.Confirm(r.Context(), req)
	if err != nil {
		common.WriteAppError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": receipt})
}
