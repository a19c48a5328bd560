package catalog

import (
	"math/rand"
	"time"

	"github.com/shopfront-labs/shopfront-backend/pkg/config"
	"github.com/shopfront-labs/shopfront-backend/pkg/enums"
)

// StockPolicy decides the simulated stock attached to each product when the
// catalog is first initialized. Random mode draws uniformly from [Min,Max];
// fixed mode assigns the same count everywhere.
type StockPolicy struct {
	mode  enums.StockMode
	fixed int
	min   int
	max   int
	rng   *rand.Rand
}

// NewStockPolicy builds a policy from config. A zero seed falls back to the
// clock so repeated demo runs differ; any other seed is reproducible.
func NewStockPolicy(cfg config.CatalogConfig) StockPolicy {
	seed := cfg.StockSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return StockPolicy{
		mode:  cfg.StockModeKind(),
		fixed: cfg.StockFixed,
		min:   cfg.StockMin,
		max:   cfg.StockMax,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Next returns the stock count for the next product.
func (p StockPolicy) Next() int {
	if p.mode == enums.StockModeFixed {
		return p.fixed
	}
	return p.min + p.rng.Intn(p.max-p.min+1)
}
