package quote

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bazaar-dev/storefront-api/internal/catalog"
	"github.com/bazaar-dev/storefront-api/internal/common"
	"github.com/bazaar-dev/storefront-api/internal/currency"
)

// Handler exposes the quote computation over HTTP.
type Handler struct {
	Svc       *Service
	Presenter currency.Presenter
}

// Quote handles POST /api/v1/quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid payload", nil)
		return
	}
	if appErr := common.ValidateStruct(req); appErr != nil {
		common.JSONAppError(w, appErr)
		return
	}
	q, err := h.Svc.Quote(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if h.Presenter.ShouldConvert(req.DisplayCurrency, req.ExchangeRate) {
		q.Display = &DisplayTotals{
			Currency:       currency.Normalize(req.DisplayCurrency),
			ItemsSubtotal:  h.Presenter.Convert(q.ItemsSubtotal, req.DisplayCurrency, req.ExchangeRate),
			DiscountAmount: h.Presenter.Convert(q.DiscountAmount, req.DisplayCurrency, req.ExchangeRate),
			ShippingAmount: h.Presenter.Convert(q.ShippingAmount, req.DisplayCurrency, req.ExchangeRate),
			TaxAmount:      h.Presenter.Convert(q.TaxAmount, req.DisplayCurrency, req.ExchangeRate),
			TotalAmount:    h.Presenter.Convert(q.TotalAmount, req.DisplayCurrency, req.ExchangeRate),
		}
	}
	common.JSONData(w, http.StatusOK, q)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnavailable):
		common.JSONError(w, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "could not price your cart, try again", nil)
	case errors.Is(err, ErrInvalidLine):
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	default:
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			common.JSONAppError(w, appErr)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to compute quote", nil)
	}
}
