package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
	"github.com/shopfront-labs/shopfront-backend/pkg/kvstore"
)

// StorageKey is the logical key the catalog persists under in key-value backends.
const StorageKey = "products"

// ErrNotInitialized is returned when no catalog has been persisted yet.
var ErrNotInitialized = errors.New("catalog: not initialized")

// Repository persists the catalog as one unit: reads return the full product
// list and writes replace it, so callers never observe partial catalogs.
type Repository interface {
	Load(ctx context.Context) ([]models.Product, error)
	Save(ctx context.Context, products []models.Product) error
}

// KVRepository stores the catalog as a JSON array under StorageKey.
type KVRepository struct {
	store kvstore.Store
}

// NewKVRepository builds a catalog repository over the provided store.
func NewKVRepository(store kvstore.Store) *KVRepository {
	return &KVRepository{store: store}
}

func (r *KVRepository) Load(ctx context.Context) ([]models.Product, error) {
	data, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return products, nil
}

func (r *KVRepository) Save(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	if err := r.store.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	return nil
}

// GormRepository stores the catalog in the products table.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository builds a catalog repository bound to the provided DB.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Load(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNotInitialized
	}
	return products, nil
}

func (r *GormRepository) Save(ctx context.Context, products []models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.Create(&products).Error
	})
}
