// Package l2type holds the closed tagged variant shared between the
// gas-price cache (which stores an optional L2 snapshot alongside a
// CacheEntry) and internal/l2fee (which produces the snapshots). Kept
// separate from both so neither package has to import the other.
package l2type

// FeeData is the L2 fee-oracle snapshot variant. Optimism is the only
// member today; a new L2 family is added as a new implementation, never as
// a widening of this interface.
type FeeData interface {
	isL2FeeData()
}
