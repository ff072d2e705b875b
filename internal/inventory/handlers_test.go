package inventory_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Kalzeracode/ingressosc/internal/events"
	"github.com/Kalzeracode/ingressosc/internal/inventory"
)

func newInventoryRouter(t *testing.T, counts map[string]int) (http.Handler, *inventory.Ledger, *events.MemoryStore) {
	t.Helper()
	l := inventory.New(counts, inventory.Config{})
	log := events.NewMemoryStore(64)
	h := &inventory.Handler{Ledger: l, Bus: &events.Bus{Store: log}}

	r := chi.NewRouter()
	r.Route("/api/v1/inventory", func(inv chi.Router) {
		inv.Get("/", h.List)
		inv.Get("/stats", h.Stats)
		inv.Route("/{id}", func(one chi.Router) {
			one.Get("/", h.Get)
			one.Get("/status", h.Status)
			one.Post("/reserve", h.Reserve)
			one.Post("/release", h.Release)
			one.Post("/add-stock", h.AddStock)
			one.Post("/reset", h.Reset)
		})
	})
	return r, l, log
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestListEndpoint(t *testing.T) {
	router, _, _ := newInventoryRouter(t, map[string]int{"vip": 10, "standard": 20})

	rr := do(t, router, http.MethodGet, "/api/v1/inventory/", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data map[string]inventory.Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, 10, body.Data["vip"].Available)
}

func TestReserveEndpointFull(t *testing.T) {
	router, _, log := newInventoryRouter(t, map[string]int{"vip": 10})

	rr := do(t, router, http.MethodPost, "/api/v1/inventory/vip/reserve", `{"quantity":4}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data      inventory.Reservation `json:"data"`
		Fulfilled bool                  `json:"fulfilled"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.True(t, body.Fulfilled)
	require.Equal(t, 4, body.Data.Granted)

	recent := log.Recent(1)
	require.Len(t, recent, 1)
	require.Equal(t, events.TopicTicketReserved, recent[0].Topic)
}

func TestReserveEndpointPartial(t *testing.T) {
	router, _, _ := newInventoryRouter(t, map[string]int{"vip": 3})

	rr := do(t, router, http.MethodPost, "/api/v1/inventory/vip/reserve", `{"quantity":5}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data      inventory.Reservation `json:"data"`
		Fulfilled bool                  `json:"fulfilled"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.False(t, body.Fulfilled)
	require.Equal(t, 3, body.Data.Granted)
	require.Equal(t, 5, body.Data.Requested)
}

func TestReserveEndpointUnknownTicket(t *testing.T) {
	router, _, _ := newInventoryRouter(t, map[string]int{"vip": 3})

	rr := do(t, router, http.MethodPost, "/api/v1/inventory/ghost/reserve", `{"quantity":1}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReserveEndpointBadQuantity(t *testing.T) {
	router, _, _ := newInventoryRouter(t, map[string]int{"vip": 3})

	rr := do(t, router, http.MethodPost, "/api/v1/inventory/vip/reserve", `{"quantity":0}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, router, http.MethodPost, "/api/v1/inventory/vip/reserve", `{broken`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReleaseEndpoint(t *testing.T) {
	router, l, _ := newInventoryRouter(t, map[string]int{"vip": 10})
	_, err := l.Reserve("vip", 6)
	require.NoError(t, err)

	rr := do(t, router, http.MethodPost, "/api/v1/inventory/vip/release", `{"quantity":6}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rec, _ := l.Get("vip")
	require.Equal(t, inventory.Record{Total: 10, Available: 10}, rec)
}

func TestAddStockEndpoint(t *testing.T) {
	router, l, _ := newInventoryRouter(t, map[string]int{"vip": 10})

	rr := do(t, router, http.MethodPost, "/api/v1/inventory/vip/add-stock", `{"quantity":5}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rec, _ := l.Get("vip")
	require.Equal(t, inventory.Record{Total: 15, Available: 15}, rec)
}

func TestResetEndpoint(t *testing.T) {
	router, l, _ := newInventoryRouter(t, map[string]int{"vip": 10})
	_, err := l.Reserve("vip", 4)
	require.NoError(t, err)

	rr := do(t, router, http.MethodPost, "/api/v1/inventory/vip/reset", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rec, _ := l.Get("vip")
	require.Equal(t, inventory.Record{Total: 10, Available: 10}, rec)
}

func TestStatusEndpoint(t *testing.T) {
	router, _, _ := newInventoryRouter(t, map[string]int{"vip": 10})

	rr := do(t, router, http.MethodGet, "/api/v1/inventory/vip/status", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data inventory.Status `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, inventory.LevelAvailable, body.Data.Level)
}

func TestStatsEndpoint(t *testing.T) {
	router, _, _ := newInventoryRouter(t, map[string]int{"vip": 10, "standard": 30})

	rr := do(t, router, http.MethodGet, "/api/v1/inventory/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data inventory.OverallStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, 40, body.Data.TotalTickets)
}
