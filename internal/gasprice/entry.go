// Package gasprice implements the stale-while-revalidate gas-price cache:
// one entry per chain, a Fresh/Stale/Expired freshness model, and
// single-flight background refresh.
package gasprice

import (
	"time"

	"github.com/chainrelay/gas-core/internal/evmiface"
	"github.com/chainrelay/gas-core/internal/l2type"
	"github.com/holiman/uint256"
)

// nowFunc is the injectable clock. Tests override it to drive the
// freshness state machine without real sleeps.
var nowFunc = time.Now

// CacheEntry is one network's cached gas-price snapshot.
type CacheEntry struct {
	GasPrice      *uint256.Int
	BaseFeePerGas *uint256.Int
	FeeHistory    evmiface.FeeHistory
	L2FeeData     l2type.FeeData

	FetchedAt   time.Time
	StaleAfter  time.Duration
	ExpireAfter time.Duration
}

// NewCacheEntry builds an entry stamped with the current time.
func NewCacheEntry(gasPrice, baseFeePerGas *uint256.Int, feeHistory evmiface.FeeHistory, l2FeeData l2type.FeeData, staleAfter, expireAfter time.Duration) *CacheEntry {
	return &CacheEntry{
		GasPrice:      gasPrice,
		BaseFeePerGas: baseFeePerGas,
		FeeHistory:    feeHistory,
		L2FeeData:     l2FeeData,
		FetchedAt:     nowFunc(),
		StaleAfter:    staleAfter,
		ExpireAfter:   expireAfter,
	}
}

// Age is how long ago this entry was fetched.
func (e *CacheEntry) Age() time.Duration {
	return nowFunc().Sub(e.FetchedAt)
}

// IsFresh reports whether the entry is within its stale threshold.
func (e *CacheEntry) IsFresh() bool {
	return e.Age() < e.StaleAfter
}

// IsStale reports whether the entry is past its stale threshold but still
// within its expire threshold — servable, but a background refresh should
// be triggered.
func (e *CacheEntry) IsStale() bool {
	age := e.Age()
	return age >= e.StaleAfter && age < e.ExpireAfter
}

// IsExpired reports whether the entry is past its expire threshold and must
// not be served.
func (e *CacheEntry) IsExpired() bool {
	return e.Age() >= e.ExpireAfter
}

// Clone copies the entry and its FeeHistory slices (see
// evmiface.FeeHistory.Clone). The GasPrice, BaseFeePerGas and L2FeeData
// values are shared with the original, not copied.
func (e *CacheEntry) Clone() *CacheEntry {
	clone := *e
	clone.FeeHistory = e.FeeHistory.Clone()
	return &clone
}
