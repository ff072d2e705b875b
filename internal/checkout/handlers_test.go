package checkout_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kalzeracode/ingressosc/internal/checkout"
)

func postCheckout(t *testing.T, h *checkout.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.Confirm(rr, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))
	return rr
}

func TestConfirmEndpoint(t *testing.T) {
	f := newFixture(t, map[string]int{"standard": 20, "vip": 100})
	h := &checkout.Handler{Service: f.service}

	rr := postCheckout(t, h,
		`{"lines":[{"ticketId":"standard","quantity":10}],"promoCode":"PROMO10"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var body struct {
		Data checkout.Receipt `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.SaleID)
	requireDecimal(t, "975.375", body.Data.Totals.FinalTotal)
}

func TestConfirmEndpointCartInvalid(t *testing.T) {
	f := newFixture(t, map[string]int{"standard": 20, "vip": 100})
	h := &checkout.Handler{Service: f.service}

	rr := postCheckout(t, h, `{"lines":[{"ticketId":"vip","quantity":9}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var body struct {
		Error struct {
			Code    string   `json:"code"`
			Details []string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "CART_INVALID", body.Error.Code)
	require.NotEmpty(t, body.Error.Details)
}

func TestConfirmEndpointBadBody(t *testing.T) {
	f := newFixture(t, map[string]int{"standard": 20})
	h := &checkout.Handler{Service: f.service}

	rr := postCheckout(t, h, `{broken`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
