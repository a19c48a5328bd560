package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
	"github.com/shopfront-labs/shopfront-backend/pkg/kvstore"
)

// StorageKey is the logical key the cart ledger persists under in key-value
// backends.
const StorageKey = "cart"

// Repository persists the cart ledger as one unit. A missing ledger reads as
// an empty cart rather than an error.
type Repository interface {
	Load(ctx context.Context) ([]models.CartItem, error)
	Save(ctx context.Context, items []models.CartItem) error
	Clear(ctx context.Context) error
}

// KVRepository stores the ledger as a JSON array under StorageKey.
type KVRepository struct {
	store kvstore.Store
}

// NewKVRepository builds a cart repository over the provided store.
func NewKVRepository(store kvstore.Store) *KVRepository {
	return &KVRepository{store: store}
}

func (r *KVRepository) Load(ctx context.Context) ([]models.CartItem, error) {
	data, err := r.store.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return []models.CartItem{}, nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}
	return items, nil
}

func (r *KVRepository) Save(ctx context.Context, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := r.store.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

func (r *KVRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}

// GormRepository stores the ledger in the cart_items table.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository builds a cart repository bound to the provided DB.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Load(ctx context.Context) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

func (r *GormRepository) Save(ctx context.Context, items []models.CartItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].Position = i
		}
		return tx.Create(&items).Error
	})
}

func (r *GormRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.CartItem{}).Error
}
