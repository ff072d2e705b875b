package health

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Checker represents dependencies that can be probed for readiness.
type Checker interface {
	// CatalogSize reports how many ticket types are loaded.
	CatalogSize() int
	// AuditInventory returns the ids of any inconsistent inventory records.
	AuditInventory() []string
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checker Checker
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness: the catalog must be loaded and the inventory
// ledger must hold its accounting invariant on every record.
func (h Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	if h.Checker == nil {
		http.Error(w, "dependencies unavailable", http.StatusServiceUnavailable)
		return
	}
	catalogStatus := "ok"
	if h.Checker.CatalogSize() == 0 {
		catalogStatus = "catalog empty"
	}
	inventoryStatus := "ok"
	if bad := h.Checker.AuditInventory(); len(bad) > 0 {
		inventoryStatus = "inconsistent records: " + strings.Join(bad, ", ")
	}
	status := map[string]string{
		"catalog":   catalogStatus,
		"inventory": inventoryStatus,
	}
	w.Header().Set("Content-Type", "application/json")
	if catalogStatus != "ok" || inventoryStatus != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(status)
}
