package enums

// CartWarningType flags a non-fatal condition attached to a cart mutation.
type CartWarningType string

const (
	CartWarningStockLimitReached CartWarningType = "stock_limit_reached"
)

// String implements fmt.Stringer.
func (w CartWarningType) String() string {
	return string(w)
}

// IsValid reports whether the value is a known CartWarningType.
func (w CartWarningType) IsValid() bool {
	return w == CartWarningStockLimitReached
}
