package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/shopfront-labs/shopfront-backend/pkg/enums"
)

const (
	EnvPrefix = "shopfront"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	DB       DBConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Cart     CartConfig
	Demo     DemoUserConfig
	JWT      JWTConfig
	Password PasswordConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if !c.Storage.BackendKind().IsValid() {
		return fmt.Errorf("invalid storage backend %q", c.Storage.Backend)
	}
	if !c.Catalog.StockModeKind().IsValid() {
		return fmt.Errorf("invalid stock mode %q", c.Catalog.StockMode)
	}
	if c.Catalog.StockMin < 1 || c.Catalog.StockMax < c.Catalog.StockMin {
		return fmt.Errorf("invalid stock range [%d,%d]", c.Catalog.StockMin, c.Catalog.StockMax)
	}
	if c.Storage.BackendKind() == enums.StorageBackendPostgres && c.DB.DSN == "" {
		return fmt.Errorf("SHOPFRONT_DB_DSN is required for the postgres backend")
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"SHOPFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHOPFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPFRONT_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"SHOPFRONT_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StorageConfig struct {
	Backend string `envconfig:"SHOPFRONT_STORAGE_BACKEND" default:"file"`
	DataDir string `envconfig:"SHOPFRONT_STORAGE_DATA_DIR" default:"./data"`
}

// BackendKind returns the backend as a typed enum.
func (s StorageConfig) BackendKind() enums.StorageBackend {
	return enums.StorageBackend(strings.ToLower(strings.TrimSpace(s.Backend)))
}

type DBConfig struct {
	DSN        string `envconfig:"SHOPFRONT_DB_DSN"`
	SQLitePath string `envconfig:"SHOPFRONT_DB_SQLITE_PATH" default:"shopfront.db"`

	MaxOpenConns    int           `envconfig:"SHOPFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SHOPFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPFRONT_REDIS_URL"`
	Address      string        `envconfig:"SHOPFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type CatalogConfig struct {
	BaseURL      string        `envconfig:"SHOPFRONT_CATALOG_BASE_URL" default:"https://fakestoreapi.com"`
	FetchTimeout time.Duration `envconfig:"SHOPFRONT_CATALOG_FETCH_TIMEOUT" default:"10s"`

	StockMode  string `envconfig:"SHOPFRONT_STOCK_MODE" default:"random"`
	StockFixed int    `envconfig:"SHOPFRONT_STOCK_FIXED" default:"10"`
	StockMin   int    `envconfig:"SHOPFRONT_STOCK_MIN" default:"1"`
	StockMax   int    `envconfig:"SHOPFRONT_STOCK_MAX" default:"20"`
	StockSeed  int64  `envconfig:"SHOPFRONT_STOCK_SEED" default:"0"`

	VariantCategories []string `envconfig:"SHOPFRONT_VARIANT_CATEGORIES" default:"men's clothing,women's clothing"`
}

// StockModeKind returns the stock mode as a typed enum.
func (c CatalogConfig) StockModeKind() enums.StockMode {
	return enums.StockMode(strings.ToLower(strings.TrimSpace(c.StockMode)))
}

type CartConfig struct {
	DeliveryFeeCents int64 `envconfig:"SHOPFRONT_CART_DELIVERY_FEE_CENTS" default:"1500"`
}

// DeliveryFee returns the configured flat delivery fee as a decimal amount.
func (c CartConfig) DeliveryFee() decimal.Decimal {
	return decimal.New(c.DeliveryFeeCents, -2)
}

type DemoUserConfig struct {
	Username string `envconfig:"SHOPFRONT_DEMO_USERNAME" default:"johnd"`
	Password string `envconfig:"SHOPFRONT_DEMO_PASSWORD" default:"m38rmF$"`
	Email    string `envconfig:"SHOPFRONT_DEMO_EMAIL" default:"johnd@example.com"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SHOPFRONT_JWT_SECRET" default:"shopfront-demo-secret"`
	Issuer            string `envconfig:"SHOPFRONT_JWT_ISSUER" default:"shopfront"`
	ExpirationMinutes int    `envconfig:"SHOPFRONT_JWT_EXPIRATION_MINUTES" default:"720"`
}

// Expiration returns the access token TTL.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SHOPFRONT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHOPFRONT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHOPFRONT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHOPFRONT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHOPFRONT_ARGON_KEY_LEN" default:"32"`
}
