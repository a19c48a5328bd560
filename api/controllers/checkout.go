package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/shopfront-labs/shopfront-backend/api/responses"
	checkoutsvc "github.com/shopfront-labs/shopfront-backend/internal/checkout"
	"github.com/shopfront-labs/shopfront-backend/pkg/config"
	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
	"github.com/shopfront-labs/shopfront-backend/pkg/enums"
	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
	"github.com/shopfront-labs/shopfront-backend/pkg/logger"
)

type checkoutResponse struct {
	Status                 enums.CheckoutStatus        `json:"status"`
	Items                  []models.CartItem           `json:"items"`
	InsufficientStockItems []checkoutsvc.ShortfallItem `json:"insufficientStockItems,omitempty"`
	Subtotal               decimal.Decimal             `json:"subtotal"`
	DeliveryFee            decimal.Decimal             `json:"deliveryFee"`
	Total                  decimal.Decimal             `json:"total"`
	Catalog                []models.Product            `json:"catalog"`
}

// Checkout runs the mock checkout and returns the fulfillment outcome.
func Checkout(svc checkoutsvc.Service, cartCfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		result, err := svc.Execute(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fee := decimal.Zero
		if len(result.Items) > 0 {
			fee = cartCfg.DeliveryFee()
		}

		responses.WriteSuccess(w, checkoutResponse{
			Status:                 result.Status,
			Items:                  result.Items,
			InsufficientStockItems: result.InsufficientStockItems,
			Subtotal:               result.Subtotal,
			DeliveryFee:            fee,
			Total:                  result.Subtotal.Add(fee),
			Catalog:                result.Catalog,
		})
	}
}
