package analytics

import (
	"net/http"

	"github.com/Kalzeracode/ingressosc/internal/common"
)

// Handler exposes the sales statistics endpoint.
type Handler struct {
	Store *Store
}

// Sales handles GET /api/v1/analytics/sales.
func (h *Handler) Sales(w http.ResponseWriter, _ *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "sales store not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Store.Statistics()})
}
