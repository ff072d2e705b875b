package promo

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Kalzeracode/ingressosc/internal/common"
)

// Handler exposes promo validation over HTTP.
type Handler struct {
	Registry *Registry
}

type validateRequest struct {
	Code          string          `json:"code"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalQuantity int             `json:"totalQuantity"`
}

// Validate handles POST /api/v1/promos/validate. The subtotal in the
// request is the post-quantity-discount subtotal. Validation failures are
// part of the 200 response body, not HTTP errors.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	if h.Registry == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "promo registry not configured", nil)
		return
	}
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}
	if req.Code == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "code is required", nil)
		return
	}
	result := h.Registry.Apply(req.Code, req.Subtotal, req.TotalQuantity)
	common.JSON(w, http.StatusOK, map[string]any{"data": result})
}
