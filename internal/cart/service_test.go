package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
	"github.com/shopfront-labs/shopfront-backend/pkg/kvstore"
)

type fakeCatalog struct {
	products map[int64]models.Product
}

func (f *fakeCatalog) LoadOrInitialize(ctx context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalog) List(ctx context.Context, category string) ([]models.Product, error) {
	return f.LoadOrInitialize(ctx)
}

func (f *fakeCatalog) Categories(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeCatalog) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return &p, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (f *fakeCatalog) DecrementStock(ctx context.Context, id int64, amount int) error {
	p, ok := f.products[id]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	p.Stock -= amount
	if p.Stock < 0 {
		p.Stock = 0
	}
	f.products[id] = p
	return nil
}

func newTestService(t *testing.T, products ...models.Product) (Service, *fakeCatalog) {
	t.Helper()
	cat := &fakeCatalog{products: map[int64]models.Product{}}
	for _, p := range products {
		cat.products[p.ID] = p
	}
	svc, err := NewService(NewKVRepository(kvstore.NewMemoryStore()), cat)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, cat
}

func shirt() models.Product {
	return models.Product{
		ID:              1,
		Title:           "Slim Fit T-Shirt",
		Price:           decimal.RequireFromString("22.30"),
		Category:        "men's clothing",
		Stock:           5,
		RequiresVariant: true,
	}
}

func bracelet() models.Product {
	return models.Product{
		ID:       2,
		Title:    "Gold Chain Bracelet",
		Price:    decimal.RequireFromString("695"),
		Category: "jewelery",
		Stock:    3,
	}
}

func TestAddItemCreatesAndMergesLines(t *testing.T) {
	svc, _ := newTestService(t, shirt())
	ctx := context.Background()

	result, err := svc.AddItem(ctx, 1, "M", 2)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if result.Item.Quantity != 2 || result.Warning != nil {
		t.Fatalf("unexpected result: %+v", result)
	}

	result, err = svc.AddItem(ctx, 1, "M", 1)
	if err != nil {
		t.Fatalf("second AddItem: %v", err)
	}
	if result.Item.Quantity != 3 {
		t.Fatalf("same size should merge into one line, got qty %d", result.Item.Quantity)
	}

	// A different size is a distinct line.
	if _, err := svc.AddItem(ctx, 1, "L", 1); err != nil {
		t.Fatalf("AddItem other size: %v", err)
	}
	items, err := svc.Items(ctx)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
}

func TestAddItemRequiresSizeForVariantProducts(t *testing.T) {
	svc, _ := newTestService(t, shirt())
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, "  ", 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeSizeRequired {
		t.Fatalf("expected size-required error, got %v", err)
	}

	items, err := svc.Items(ctx)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("rejected add must not touch the ledger, got %+v", items)
	}
}

func TestAddItemIgnoresSizeForNonVariantProducts(t *testing.T) {
	svc, _ := newTestService(t, bracelet())
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 2, "M", 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.AddItem(ctx, 2, "", 1); err != nil {
		t.Fatalf("AddItem without size: %v", err)
	}

	items, _ := svc.Items(ctx)
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("non-variant sizes should collapse into one line, got %+v", items)
	}
}

func TestAddItemRejectsOutOfStock(t *testing.T) {
	product := bracelet()
	product.Stock = 0
	svc, _ := newTestService(t, product)

	_, err := svc.AddItem(context.Background(), 2, "", 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeOutOfStock {
		t.Fatalf("expected out-of-stock error, got %v", err)
	}
}

func TestAddItemClampsToStockWithWarning(t *testing.T) {
	svc, _ := newTestService(t, bracelet())
	ctx := context.Background()

	result, err := svc.AddItem(ctx, 2, "", 10)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if result.Item.Quantity != 3 {
		t.Fatalf("expected clamp to stock 3, got %d", result.Item.Quantity)
	}
	if result.Warning == nil {
		t.Fatalf("clamped add should carry a warning")
	}
}

func TestAddItemAtStockLimitErrorsWithoutMutation(t *testing.T) {
	svc, _ := newTestService(t, bracelet())
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 2, "", 3); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	_, err := svc.AddItem(ctx, 2, "", 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStockLimit {
		t.Fatalf("expected stock-limit error, got %v", err)
	}

	items, _ := svc.Items(ctx)
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("failed add must not mutate the ledger, got %+v", items)
	}
}

func TestChangeQuantityClamps(t *testing.T) {
	svc, _ := newTestService(t, bracelet())
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 2, "", 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	line, err := svc.ChangeQuantity(ctx, 2, "", -100)
	if err != nil {
		t.Fatalf("ChangeQuantity: %v", err)
	}
	if line.Quantity != 1 {
		t.Fatalf("large negative delta should clamp to 1, got %d", line.Quantity)
	}

	line, err = svc.ChangeQuantity(ctx, 2, "", 100)
	if err != nil {
		t.Fatalf("ChangeQuantity up: %v", err)
	}
	if line.Quantity != 3 {
		t.Fatalf("large positive delta should clamp to stock 3, got %d", line.Quantity)
	}
}

func TestChangeQuantityPinsToOneWhenStockExhausted(t *testing.T) {
	svc, cat := newTestService(t, bracelet())
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 2, "", 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// Stock runs out after the line was added, as after a partial checkout.
	product := cat.products[2]
	product.Stock = 0
	cat.products[2] = product

	line, err := svc.ChangeQuantity(ctx, 2, "", 100)
	if err != nil {
		t.Fatalf("ChangeQuantity: %v", err)
	}
	if line.Quantity != 1 {
		t.Fatalf("zero-stock line should pin to 1, got %d", line.Quantity)
	}

	line, err = svc.ChangeQuantity(ctx, 2, "", -100)
	if err != nil {
		t.Fatalf("ChangeQuantity down: %v", err)
	}
	if line.Quantity != 1 {
		t.Fatalf("quantity floor is 1 regardless of stock, got %d", line.Quantity)
	}
}

func TestChangeQuantityMissingLine(t *testing.T) {
	svc, _ := newTestService(t, bracelet())

	_, err := svc.ChangeQuantity(context.Background(), 2, "", 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t, shirt())
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 1, "M", 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.RemoveItem(ctx, 1, "M"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if err := svc.RemoveItem(ctx, 1, "M"); err != nil {
		t.Fatalf("second RemoveItem should be a no-op: %v", err)
	}

	items, _ := svc.Items(ctx)
	if len(items) != 0 {
		t.Fatalf("expected empty ledger, got %+v", items)
	}
}

func TestSubtotal(t *testing.T) {
	items := []models.CartItem{
		{ProductID: 1, Size: "M", Quantity: 2, PriceSnapshot: decimal.RequireFromString("22.30")},
		{ProductID: 2, Quantity: 1, PriceSnapshot: decimal.RequireFromString("695")},
	}

	got := Subtotal(items)
	want := decimal.RequireFromString("739.60")
	if !got.Equal(want) {
		t.Fatalf("subtotal mismatch: got %s want %s", got, want)
	}

	if !Subtotal(nil).Equal(decimal.Zero) {
		t.Fatalf("empty ledger subtotal should be zero")
	}
}

func TestSnapshotPriceSurvivesCatalogChanges(t *testing.T) {
	svc, cat := newTestService(t, bracelet())
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, 2, "", 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// Reprice the catalog after the add; the ledger keeps its snapshot.
	updated := cat.products[2]
	updated.Price = decimal.RequireFromString("999")
	cat.products[2] = updated

	items, _ := svc.Items(ctx)
	if !items[0].PriceSnapshot.Equal(decimal.RequireFromString("695")) {
		t.Fatalf("snapshot price changed: %s", items[0].PriceSnapshot)
	}
}
