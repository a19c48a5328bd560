package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shopfront-labs/shopfront-backend/internal/cart"
	"github.com/shopfront-labs/shopfront-backend/internal/catalog"
	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
	"github.com/shopfront-labs/shopfront-backend/pkg/enums"
	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
	"github.com/shopfront-labs/shopfront-backend/pkg/logger"
)

// ShortfallItem records a cart line the simulated stock could not fully cover.
type ShortfallItem struct {
	ProductID    int64  `json:"productId"`
	Title        string `json:"title"`
	Size         string `json:"size,omitempty"`
	RequestedQty int    `json:"requestedQty"`
	AvailableQty int    `json:"availableQty"`
}

// Result is the outcome of a checkout attempt. On partial failure the cart
// keeps the clamped lines; on success it is cleared. Catalog is the stock
// snapshot after the run so callers can refresh their product views.
type Result struct {
	Status                 enums.CheckoutStatus `json:"status"`
	Items                  []models.CartItem    `json:"items"`
	InsufficientStockItems []ShortfallItem      `json:"insufficientStockItems,omitempty"`
	Subtotal               decimal.Decimal      `json:"subtotal"`
	Catalog                []models.Product     `json:"catalog"`
}

// Service runs the mock checkout against the simulated stock.
type Service interface {
	// Execute walks the ledger in order, fulfills each line up to the live
	// stock and decrements what it takes. Stock consumed by earlier lines is
	// gone for later ones; there is no rollback.
	Execute(ctx context.Context) (*Result, error)
}

type service struct {
	cart    cart.Service
	catalog catalog.Service
	logger  *logger.Logger
}

// NewService builds a checkout service over the cart and catalog.
func NewService(cartService cart.Service, catalogService catalog.Service, logg *logger.Logger) (Service, error) {
	if cartService == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if catalogService == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{cart: cartService, catalog: catalogService, logger: logg}, nil
}

func (s *service) Execute(ctx context.Context) (*Result, error) {
	items, err := s.cart.Items(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	fulfilled := make([]models.CartItem, 0, len(items))
	shortfalls := make([]ShortfallItem, 0)

	for _, item := range items {
		product, err := s.catalog.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		take := item.Quantity
		if take > product.Stock {
			take = product.Stock
			shortfalls = append(shortfalls, ShortfallItem{
				ProductID:    item.ProductID,
				Title:        item.Title,
				Size:         item.Size,
				RequestedQty: item.Quantity,
				AvailableQty: product.Stock,
			})
		}
		if take == 0 {
			continue
		}

		if err := s.catalog.DecrementStock(ctx, item.ProductID, take); err != nil {
			return nil, err
		}
		line := item
		line.Quantity = take
		fulfilled = append(fulfilled, line)
	}

	snapshot, err := s.catalog.LoadOrInitialize(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Items:                  fulfilled,
		InsufficientStockItems: shortfalls,
		Subtotal:               cart.Subtotal(fulfilled),
		Catalog:                snapshot,
	}

	if len(shortfalls) > 0 {
		result.Status = enums.CheckoutStatusPartialFailure
		if err := s.cart.Replace(ctx, fulfilled); err != nil {
			return nil, err
		}
		s.logger.Warn(ctx, fmt.Sprintf("checkout partially fulfilled, %d line(s) short", len(shortfalls)))
		return result, nil
	}

	result.Status = enums.CheckoutStatusSuccess
	if err := s.cart.Clear(ctx); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "checkout completed")
	return result, nil
}
