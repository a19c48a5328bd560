package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/shopfront-labs/shopfront-backend/api/responses"
	"github.com/shopfront-labs/shopfront-backend/api/validators"
	cartsvc "github.com/shopfront-labs/shopfront-backend/internal/cart"
	"github.com/shopfront-labs/shopfront-backend/pkg/config"
	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
	"github.com/shopfront-labs/shopfront-backend/pkg/logger"
)

type cartView struct {
	Items       []models.CartItem `json:"items"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
	DeliveryFee decimal.Decimal   `json:"deliveryFee"`
	Total       decimal.Decimal   `json:"total"`
}

// newCartView totals the ledger. The flat delivery fee applies only to
// non-empty carts.
func newCartView(items []models.CartItem, cfg config.CartConfig) cartView {
	subtotal := cartsvc.Subtotal(items)
	fee := decimal.Zero
	if len(items) > 0 {
		fee = cfg.DeliveryFee()
	}
	return cartView{
		Items:       items,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
	}
}

type addItemRequest struct {
	ProductID int64  `json:"productId" validate:"required,min=1"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type changeQuantityRequest struct {
	Size  string `json:"size"`
	Delta int    `json:"delta" validate:"required"`
}

// CartFetch returns the ledger with its totals.
func CartFetch(svc cartsvc.Service, cartCfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		items, err := svc.Items(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(items, cartCfg))
	}
}

// CartAdd merges a quantity into the ledger and returns the updated totals.
func CartAdd(svc cartsvc.Service, cartCfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddItem(r.Context(), body.ProductID, body.Size, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Items(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, struct {
			Item    models.CartItem  `json:"item"`
			Warning *cartsvc.Warning `json:"warning,omitempty"`
			Cart    cartView         `json:"cart"`
		}{
			Item:    result.Item,
			Warning: result.Warning,
			Cart:    newCartView(items, cartCfg),
		})
	}
}

// CartChangeQuantity applies a signed delta to one ledger line.
func CartChangeQuantity(svc cartsvc.Service, cartCfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID, err := validators.PathInt64(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body changeQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.ChangeQuantity(r.Context(), productID, body.Size, body.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Items(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, struct {
			Item models.CartItem `json:"item"`
			Cart cartView        `json:"cart"`
		}{
			Item: *line,
			Cart: newCartView(items, cartCfg),
		})
	}
}

// CartRemove deletes one ledger line. The size rides in ?size= because
// DELETE bodies are unreliable across clients.
func CartRemove(svc cartsvc.Service, cartCfg config.CartConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		productID, err := validators.PathInt64(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveItem(r.Context(), productID, r.URL.Query().Get("size")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Items(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(items, cartCfg))
	}
}
