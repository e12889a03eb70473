package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestAPIBalances(t *testing.T) {
	_, mux := newTestServer(t, testBook)

	req := httptest.NewRequest(http.MethodGet, "/api/balances", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response BalancesResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

	assert.Equal(t, []string{"USD", "CZK"}, response.Currencies)
	assert.Equal(t, "", response.Converted)

	assert.Equal(t, 1, len(response.Groups))
	bank := response.Groups[0]
	assert.Equal(t, "Bank", bank.Name)
	assert.Equal(t, "Bank", bank.Path)
	assert.Equal(t, "750", bank.Balance["USD"].String())
	assert.Zero(t, bank.Total)

	assert.Equal(t, 1, len(bank.Children))
	checking := bank.Children[0]
	assert.Equal(t, "Bank/Checking", checking.Path)
	assert.Equal(t, "750", checking.Balance["USD"].String())

	assert.Equal(t, 1, len(response.Categories))
	food := response.Categories[0]
	assert.Equal(t, "Food", food.Name)
	assert.Equal(t, "expense", food.Type)
	assert.Equal(t, "-250", food.Balance["USD"].String())
}

func TestAPIBalances_Convert(t *testing.T) {
	_, mux := newTestServer(t, testBook)

	req := httptest.NewRequest(http.MethodGet, "/api/balances?convert=CZK", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response BalancesResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

	assert.Equal(t, "CZK", response.Converted)
	bank := response.Groups[0]
	assert.NotZero(t, bank.Total)
	assert.Equal(t, "17250", bank.Total.String())
}

func TestAPIBalances_UnknownConvertCurrency(t *testing.T) {
	_, mux := newTestServer(t, testBook)

	req := httptest.NewRequest(http.MethodGet, "/api/balances?convert=XXX", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown currency")
}

func TestAPIBalances_BookNotLoaded(t *testing.T) {
	server := New(8080, "missing.book")
	server.sseClients = make(map[chan string]struct{})
	mux := server.router()

	req := httptest.NewRequest(http.MethodGet, "/api/balances", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
