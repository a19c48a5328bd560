package enums

import "fmt"

// StockMode selects how simulated stock is synthesized at catalog initialization.
type StockMode string

const (
	StockModeRandom StockMode = "random"
	StockModeFixed  StockMode = "fixed"
)

var validStockModes = []StockMode{
	StockModeRandom,
	StockModeFixed,
}

// String implements fmt.Stringer.
func (m StockMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known StockMode.
func (m StockMode) IsValid() bool {
	for _, candidate := range validStockModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseStockMode converts raw input into a StockMode.
func ParseStockMode(value string) (StockMode, error) {
	for _, candidate := range validStockModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock mode %q", value)
}
