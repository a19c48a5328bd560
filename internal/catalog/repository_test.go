package catalog

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
	"github.com/shopfront-labs/shopfront-backend/pkg/kvstore"
)

func catalogFixture() []models.Product {
	return []models.Product{
		{ID: 1, Title: "Backpack", Price: decimal.RequireFromString("109.95"), Category: "men's clothing", Stock: 12, RequiresVariant: true},
		{ID: 2, Title: "Bracelet", Price: decimal.RequireFromString("695"), Category: "jewelery", Stock: 3},
	}
}

func TestKVRepositoryRoundtrip(t *testing.T) {
	repo := NewKVRepository(kvstore.NewMemoryStore())
	ctx := context.Background()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, repo.Save(ctx, catalogFixture()))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, int64(1), loaded[0].ID)
	require.True(t, loaded[0].Price.Equal(decimal.RequireFromString("109.95")))
	require.True(t, loaded[0].RequiresVariant)
	require.Equal(t, 3, loaded[1].Stock)
}

func TestKVRepositorySaveReplaces(t *testing.T) {
	repo := NewKVRepository(kvstore.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, catalogFixture()))
	require.NoError(t, repo.Save(ctx, catalogFixture()[:1]))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
}

// openTestDB connects to the database named by SHOPFRONT_TEST_DB_DSN. Tests
// that need a real database skip when the variable is unset.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("SHOPFRONT_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("SHOPFRONT_TEST_DB_DSN not set; skipping database test")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	t.Cleanup(func() {
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Product{})
	})
	return db
}

func TestGormRepositoryRoundtrip(t *testing.T) {
	repo := NewGormRepository(openTestDB(t))
	ctx := context.Background()

	_, err := repo.Load(ctx)
	require.True(t, errors.Is(err, ErrNotInitialized))

	require.NoError(t, repo.Save(ctx, catalogFixture()))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, "Backpack", loaded[0].Title)
	require.True(t, loaded[1].Price.Equal(decimal.RequireFromString("695")))
}
