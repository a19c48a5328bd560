package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
)

type remoteFetcher interface {
	FetchProducts(ctx context.Context) ([]RemoteProduct, error)
}

// Service exposes the catalog with its simulated stock.
type Service interface {
	// LoadOrInitialize returns the persisted catalog, fetching and seeding
	// it from the remote API on first use. Simulated stock survives reloads.
	LoadOrInitialize(ctx context.Context) ([]models.Product, error)
	List(ctx context.Context, category string) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	// DecrementStock floors stock at zero; over-decrementing is not an error.
	DecrementStock(ctx context.Context, id int64, amount int) error
}

type service struct {
	repo              Repository
	remote            remoteFetcher
	stock             StockPolicy
	variantCategories map[string]struct{}
}

// NewService builds a catalog service backed by the provided stack.
func NewService(repo Repository, remote remoteFetcher, stock StockPolicy, variantCategories []string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if remote == nil {
		return nil, fmt.Errorf("remote catalog client required")
	}

	variants := make(map[string]struct{}, len(variantCategories))
	for _, category := range variantCategories {
		variants[normalizeCategory(category)] = struct{}{}
	}

	return &service{
		repo:              repo,
		remote:            remote,
		stock:             stock,
		variantCategories: variants,
	}, nil
}

func (s *service) LoadOrInitialize(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.Load(ctx)
	if err == nil {
		return products, nil
	}
	if !errors.Is(err, ErrNotInitialized) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
	}

	remote, err := s.remote.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}

	products = make([]models.Product, 0, len(remote))
	for _, entry := range remote {
		products = append(products, models.Product{
			ID:              entry.ID,
			Title:           entry.Title,
			Price:           entry.Price,
			Category:        entry.Category,
			Image:           entry.Image,
			Description:     entry.Description,
			RatingRate:      entry.Rating.Rate,
			RatingCount:     entry.Rating.Count,
			Stock:           s.stock.Next(),
			RequiresVariant: s.requiresVariant(entry.Category),
		})
	}

	if err := s.repo.Save(ctx, products); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist catalog")
	}
	return products, nil
}

func (s *service) List(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.LoadOrInitialize(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(category) == "" {
		return products, nil
	}

	wanted := normalizeCategory(category)
	filtered := make([]models.Product, 0, len(products))
	for _, product := range products {
		if normalizeCategory(product.Category) == wanted {
			filtered = append(filtered, product)
		}
	}
	return filtered, nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.LoadOrInitialize(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	categories := make([]string, 0, 4)
	for _, product := range products {
		if _, ok := seen[product.Category]; ok {
			continue
		}
		seen[product.Category] = struct{}{}
		categories = append(categories, product.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	products, err := s.LoadOrInitialize(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			product := products[i]
			return &product, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *service) DecrementStock(ctx context.Context, id int64, amount int) error {
	if amount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "decrement amount cannot be negative")
	}

	products, err := s.LoadOrInitialize(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range products {
		if products[i].ID != id {
			continue
		}
		found = true
		products[i].Stock -= amount
		if products[i].Stock < 0 {
			products[i].Stock = 0
		}
		break
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if err := s.repo.Save(ctx, products); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist catalog")
	}
	return nil
}

func (s *service) requiresVariant(category string) bool {
	_, ok := s.variantCategories[normalizeCategory(category)]
	return ok
}

func normalizeCategory(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
