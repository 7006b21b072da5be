package quote_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bazaar-dev/storefront-api/internal/catalog"
	"github.com/bazaar-dev/storefront-api/internal/currency"
	"github.com/bazaar-dev/storefront-api/internal/quote"
)

func newHandler(opts ...func(*quote.Service)) *quote.Handler {
	return &quote.Handler{
		Svc:       newService(opts...),
		Presenter: currency.Presenter{Base: "PKR"},
	}
}

func postQuote(t *testing.T, h *quote.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Quote(rec, req)
	return rec
}

func TestHandlerQuoteOK(t *testing.T) {
	t.Parallel()

	rec := postQuote(t, newHandler(), `{"items":[{"productId":"p1","quantity":2}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data quote.Quote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "1200", resp.Data.TotalAmount.String())
	require.Nil(t, resp.Data.Display)
}

func TestHandlerRejectsMalformedPayload(t *testing.T) {
	t.Parallel()

	rec := postQuote(t, newHandler(), `{"items":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION")
}

func TestHandlerValidatesQuantities(t *testing.T) {
	t.Parallel()

	rec := postQuote(t, newHandler(), `{"items":[{"productId":"p1","quantity":0}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "quantity")
}

func TestHandlerValidatesProductID(t *testing.T) {
	t.Parallel()

	rec := postQuote(t, newHandler(), `{"items":[{"productId":"","quantity":1}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerCatalogUnavailable(t *testing.T) {
	t.Parallel()

	h := newHandler(func(s *quote.Service) {
		s.Catalog = fakeCatalog{err: catalog.ErrUnavailable}
	})
	rec := postQuote(t, h, `{"items":[{"productId":"p1","quantity":1}]}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "CATALOG_UNAVAILABLE")
}

func TestHandlerDisplayConversion(t *testing.T) {
	t.Parallel()

	rec := postQuote(t, newHandler(), `{"items":[{"productId":"p1","quantity":2}],"displayCurrency":"usd","exchangeRate":0.0036}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data quote.Quote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Display)
	require.Equal(t, "USD", resp.Data.Display.Currency)
	require.Equal(t, "4.32", resp.Data.Display.TotalAmount.String())
	// Base amounts stay authoritative.
	require.Equal(t, "1200", resp.Data.TotalAmount.String())
}

func TestHandlerResponsesAreIdempotent(t *testing.T) {
	t.Parallel()

	h := newHandler()
	body := `{"items":[{"productId":"p1","quantity":2}],"city":"Lahore","couponCode":"NOPE"}`
	first := postQuote(t, h, body)
	second := postQuote(t, h, body)
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, first.Body.String(), second.Body.String())
}
