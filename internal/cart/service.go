package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopfront-labs/shopfront-backend/internal/catalog"
	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
	"github.com/shopfront-labs/shopfront-backend/pkg/enums"
	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
)

// Warning is a non-fatal outcome attached to a cart mutation that succeeded
// with an adjustment, such as a quantity clamped to the available stock.
type Warning struct {
	Type    enums.CartWarningType `json:"type"`
	Message string                `json:"message"`
}

// AddItemResult reports the line an add landed on and any adjustment made.
type AddItemResult struct {
	Item    models.CartItem `json:"item"`
	Warning *Warning        `json:"warning,omitempty"`
}

// Service maintains the cart ledger. Lines are keyed by (productID, size);
// the same product in two sizes is two lines.
type Service interface {
	// AddItem merges the requested quantity into the matching line, capping
	// the line at the product's current stock. A cap that still adds units
	// returns a warning; a cap that cannot add anything is an error and the
	// ledger is left untouched.
	AddItem(ctx context.Context, productID int64, size string, quantity int) (*AddItemResult, error)
	// ChangeQuantity applies a signed delta to an existing line and clamps
	// the result to [1, stock] without erroring. With stock exhausted the
	// line pins to quantity 1.
	ChangeQuantity(ctx context.Context, productID int64, size string, delta int) (*models.CartItem, error)
	// RemoveItem deletes the matching line. Removing an absent line is a no-op.
	RemoveItem(ctx context.Context, productID int64, size string) error
	Items(ctx context.Context) ([]models.CartItem, error)
	// Replace overwrites the ledger verbatim without stock checks. Checkout
	// uses it to persist quantities already reconciled against stock.
	Replace(ctx context.Context, items []models.CartItem) error
	Clear(ctx context.Context) error
}

type service struct {
	repo    Repository
	catalog catalog.Service
}

// NewService builds a cart service over the provided ledger and catalog.
func NewService(repo Repository, catalogService catalog.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogService == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &service{repo: repo, catalog: catalogService}, nil
}

func (s *service) AddItem(ctx context.Context, productID int64, size string, quantity int) (*AddItemResult, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.InStock() {
		return nil, pkgerrors.New(pkgerrors.CodeOutOfStock, "product is out of stock")
	}

	size = strings.TrimSpace(size)
	if product.RequiresVariant && size == "" {
		return nil, pkgerrors.New(pkgerrors.CodeSizeRequired, "a size must be selected for this product")
	}
	if !product.RequiresVariant {
		size = ""
	}

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var warning *Warning
	index := findLine(items, productID, size)
	if index >= 0 {
		current := items[index].Quantity
		next := current + quantity
		if next > product.Stock {
			next = product.Stock
		}
		if next == current {
			return nil, pkgerrors.New(pkgerrors.CodeStockLimit, "cart already holds all available stock for this product").
				WithDetails(map[string]any{"productId": productID, "size": size, "stock": product.Stock})
		}
		if next < current+quantity {
			warning = stockLimitWarning(product.Stock)
		}
		items[index].Quantity = next
	} else {
		next := quantity
		if next > product.Stock {
			next = product.Stock
			warning = stockLimitWarning(product.Stock)
		}
		items = append(items, models.CartItem{
			ProductID:     product.ID,
			Size:          size,
			Quantity:      next,
			PriceSnapshot: product.Price,
			Title:         product.Title,
			Image:         product.Image,
		})
		index = len(items) - 1
	}

	if err := s.repo.Save(ctx, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return &AddItemResult{Item: items[index], Warning: warning}, nil
}

func (s *service) ChangeQuantity(ctx context.Context, productID int64, size string, delta int) (*models.CartItem, error) {
	product, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	size = strings.TrimSpace(size)
	index := findLine(items, productID, size)
	if index < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	// Clamp to stock before the floor so a zero-stock line pins to 1.
	next := items[index].Quantity + delta
	if next > product.Stock {
		next = product.Stock
	}
	if next < 1 {
		next = 1
	}
	items[index].Quantity = next

	if err := s.repo.Save(ctx, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	line := items[index]
	return &line, nil
}

func (s *service) RemoveItem(ctx context.Context, productID int64, size string) error {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	size = strings.TrimSpace(size)
	index := findLine(items, productID, size)
	if index < 0 {
		return nil
	}

	items = append(items[:index], items[index+1:]...)
	if err := s.repo.Save(ctx, items); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (s *service) Items(ctx context.Context) ([]models.CartItem, error) {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return items, nil
}

func (s *service) Replace(ctx context.Context, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	if err := s.repo.Save(ctx, items); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (s *service) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// Subtotal sums quantity times snapshot price across the ledger.
func Subtotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func findLine(items []models.CartItem, productID int64, size string) int {
	for i := range items {
		if items[i].Matches(productID, size) {
			return i
		}
	}
	return -1
}

func stockLimitWarning(stock int) *Warning {
	return &Warning{
		Type:    enums.CartWarningStockLimitReached,
		Message: fmt.Sprintf("quantity reduced to the %d units in stock", stock),
	}
}
