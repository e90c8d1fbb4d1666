package gasprice

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chainrelay/gas-core/internal/evmiface"
	"github.com/chainrelay/gas-core/internal/gaserrors"
	"github.com/chainrelay/gas-core/internal/gaspricecfg"
	"github.com/chainrelay/gas-core/internal/l2fee"
	"github.com/chainrelay/gas-core/internal/l2type"
	"github.com/chainrelay/gas-core/internal/xlog"
	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"
)

// GasPriceCacheRefreshTimeout bounds a single background refresh. A refresh
// still running past this deadline is treated as stuck by the next caller
// that sweeps refreshing.
const GasPriceCacheRefreshTimeout = 30 * time.Second

// HistoricalBlocks is the block-count argument used for eth_feeHistory
// during a refresh.
const HistoricalBlocks uint64 = 10

// GasPriceSnapshot is the read-only view handed to callers: a gas price and
// fee history, without the cache's internal bookkeeping. IsStale reports
// whether the cache would already be triggering a background refresh for
// this entry.
type GasPriceSnapshot struct {
	GasPrice      *uint256.Int
	BaseFeePerGas *uint256.Int
	FeeHistory    evmiface.FeeHistory
	IsStale       bool
}

type entryHandle struct {
	mu    sync.RWMutex
	entry *CacheEntry
}

type refreshMark struct {
	startedAt time.Time
}

// GasPriceCache is a concurrent, per-chain stale-while-revalidate cache. Its
// entries, per-chain configuration, and in-flight refresh markers are each
// stored in their own sync.Map so a reader on one chain never blocks a
// writer on another.
type GasPriceCache struct {
	entries    sync.Map // uint64 -> *entryHandle
	configs    sync.Map // uint64 -> *gaspricecfg.Config
	refreshing sync.Map // uint64 -> *refreshMark
	count      atomic.Int64

	resolver evmiface.ProviderResolver
	log      xlog.Logger
}

// New builds a GasPriceCache that resolves chain RPC access through
// resolver and logs background-refresh failures through log (xlog.Nop() if
// log is nil).
func New(resolver evmiface.ProviderResolver, log xlog.Logger) *GasPriceCache {
	if log == nil {
		log = xlog.Nop()
	}
	return &GasPriceCache{resolver: resolver, log: log}
}

var (
	globalOnce     sync.Once
	globalCache    *GasPriceCache
	globalResolver evmiface.ProviderResolver
	globalLogger   xlog.Logger
)

// SetGlobalProviderResolver sets the resolver the process-wide cache is
// built with. Must be called before the first call to Global(); later
// calls have no effect on an already-initialized singleton.
func SetGlobalProviderResolver(resolver evmiface.ProviderResolver) {
	globalResolver = resolver
}

// SetGlobalLogger sets the logger the process-wide cache is built with.
// Same before-first-Global-call caveat as SetGlobalProviderResolver.
func SetGlobalLogger(log xlog.Logger) {
	globalLogger = log
}

// Global returns the process-wide GasPriceCache, building it lazily on
// first use from whatever resolver/logger were set via
// SetGlobalProviderResolver/SetGlobalLogger.
func Global() *GasPriceCache {
	globalOnce.Do(func() {
		globalCache = New(globalResolver, globalLogger)
	})
	return globalCache
}

// ConfigureNetwork installs or replaces the cache configuration for a
// chain. Passing a disabled config does not evict any existing entry, but
// while it is in place GetSnapshot withholds that entry, SetSnapshot drops
// writes, and no new background refresh is scheduled.
func (c *GasPriceCache) ConfigureNetwork(chainID uint64, cfg *gaspricecfg.Config) {
	c.configs.Store(chainID, cfg)
}

// HasConfigurationForNetwork reports whether a chain has been configured.
func (c *GasPriceCache) HasConfigurationForNetwork(chainID uint64) bool {
	_, ok := c.configs.Load(chainID)
	return ok
}

// configFor returns the stored config for a chain, or nil.
func (c *GasPriceCache) configFor(chainID uint64) *gaspricecfg.Config {
	v, ok := c.configs.Load(chainID)
	if !ok {
		return nil
	}
	return v.(*gaspricecfg.Config)
}

// RemoveNetwork drops a chain's configuration and its cached entry.
func (c *GasPriceCache) RemoveNetwork(chainID uint64) {
	c.configs.Delete(chainID)
	c.Remove(chainID)
}

func (c *GasPriceCache) handleFor(chainID uint64, create bool) (*entryHandle, bool) {
	if v, ok := c.entries.Load(chainID); ok {
		return v.(*entryHandle), true
	}
	if !create {
		return nil, false
	}
	h := &entryHandle{}
	actual, loaded := c.entries.LoadOrStore(chainID, h)
	if !loaded {
		c.count.Add(1)
	}
	return actual.(*entryHandle), loaded
}

// Get returns the cached entry for a chain if one exists and is not
// expired. A stale-but-unexpired entry is still returned; it is up to the
// caller (or RefreshNetworkInBackground) to trigger a refresh.
func (c *GasPriceCache) Get(chainID uint64) (*CacheEntry, bool) {
	h, ok := c.handleFor(chainID, false)
	if !ok {
		return nil, false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.entry == nil || h.entry.IsExpired() {
		return nil, false
	}
	return h.entry.Clone(), true
}

// GetSnapshot is Get narrowed to the publicly servable fields. Unlike Get,
// it re-checks the chain's configuration on every call and returns
// (nil, false) if the chain has no configuration or caching has been
// disabled for it, even if a stale entry is still sitting in the cache
// (e.g. after ConfigureNetwork disables a previously-enabled chain).
func (c *GasPriceCache) GetSnapshot(chainID uint64) (*GasPriceSnapshot, bool) {
	cfg := c.configFor(chainID)
	if cfg == nil || !cfg.Enabled {
		return nil, false
	}

	entry, ok := c.Get(chainID)
	if !ok {
		return nil, false
	}
	return &GasPriceSnapshot{
		GasPrice:      entry.GasPrice,
		BaseFeePerGas: entry.BaseFeePerGas,
		FeeHistory:    entry.FeeHistory,
		IsStale:       entry.IsStale(),
	}, true
}

// Set installs an entry unconditionally, bypassing the enabled gate. Used
// by background refresh (which already checked the gate before doing the
// work) and by tests seeding cache state directly.
func (c *GasPriceCache) Set(chainID uint64, entry *CacheEntry) {
	h, _ := c.handleFor(chainID, true)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entry = entry
}

// SetSnapshot installs a freshly-fetched snapshot as a new entry, but only
// if the chain's configuration is enabled — unlike Set, which writes
// unconditionally. cfg's own StaleAfter/ExpireAfter stamp the new entry.
func (c *GasPriceCache) SetSnapshot(chainID uint64, snap *GasPriceSnapshot, l2FeeData l2type.FeeData) bool {
	cfg := c.configFor(chainID)
	if cfg == nil || !cfg.Enabled {
		return false
	}
	c.Set(chainID, NewCacheEntry(snap.GasPrice, snap.BaseFeePerGas, snap.FeeHistory, l2FeeData, cfg.StaleAfter(), cfg.ExpireAfter()))
	return true
}

// Update applies fn to the chain's existing entry in place and returns
// gaserrors.ErrNotFound if no entry exists yet.
func (c *GasPriceCache) Update(chainID uint64, fn func(entry *CacheEntry)) error {
	h, ok := c.handleFor(chainID, false)
	if !ok {
		return gaserrors.ErrNotFound
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.entry == nil {
		return gaserrors.ErrNotFound
	}
	fn(h.entry)
	return nil
}

// Remove evicts a chain's cached entry, if any.
func (c *GasPriceCache) Remove(chainID uint64) {
	if _, loaded := c.entries.LoadAndDelete(chainID); loaded {
		c.count.Add(-1)
	}
}

// Clear evicts every cached entry (configuration is left untouched).
func (c *GasPriceCache) Clear() {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		c.count.Add(-1)
		return true
	})
}

// Len reports the number of chains currently holding a cached entry.
func (c *GasPriceCache) Len() int {
	return int(c.count.Load())
}

// IsEmpty reports whether the cache currently holds no entries.
func (c *GasPriceCache) IsEmpty() bool {
	return c.Len() == 0
}

// RefreshNetworkInBackground starts an asynchronous refresh for a chain
// unless one is already in flight, unless the chain is unconfigured, or
// unless caching is disabled for it. It returns true only if this call
// started a new refresh; a chain that is unconfigured, disabled, or
// already being refreshed returns false.
//
// Before checking for an in-flight refresh it sweeps refreshing for any
// marker older than GasPriceCacheRefreshTimeout: a goroutine that panicked
// or was killed before reaching its deferred cleanup would otherwise wedge
// that chain's refreshes forever.
func (c *GasPriceCache) RefreshNetworkInBackground(network evmiface.EvmNetwork, rewardPercentiles []float64) bool {
	chainID := network.ChainID()

	cfg := c.configFor(chainID)
	if cfg == nil || !cfg.Enabled {
		return false
	}

	now := nowFunc()
	c.refreshing.Range(func(key, v any) bool {
		if now.Sub(v.(*refreshMark).startedAt) > GasPriceCacheRefreshTimeout {
			c.refreshing.Delete(key)
		}
		return true
	})

	mark := &refreshMark{startedAt: now}
	if _, loaded := c.refreshing.LoadOrStore(chainID, mark); loaded {
		return false
	}

	go c.runRefresh(network, rewardPercentiles)
	return true
}

func (c *GasPriceCache) runRefresh(network evmiface.EvmNetwork, rewardPercentiles []float64) {
	chainID := network.ChainID()
	defer c.refreshing.Delete(chainID)

	ctx, cancel := context.WithTimeout(context.Background(), GasPriceCacheRefreshTimeout)
	defer cancel()

	entry, err := c.refreshOnce(ctx, network, rewardPercentiles)
	if err != nil {
		c.log.Warn("gas price refresh failed", "chain_id", chainID, "error", err)
		return
	}

	cfg := c.configFor(chainID)
	if cfg == nil || !cfg.Enabled {
		return
	}

	c.Set(chainID, entry)
}

func (c *GasPriceCache) refreshOnce(ctx context.Context, network evmiface.EvmNetwork, rewardPercentiles []float64) (*CacheEntry, error) {
	cfg := c.configFor(network.ChainID())
	if cfg == nil {
		return nil, gaserrors.NewNetworkConfigurationError("no gas price cache configuration for chain")
	}

	provider, err := c.resolver.Resolve(network)
	if err != nil {
		return nil, err
	}

	var (
		gasPrice   *uint256.Int
		block      *evmiface.Block
		feeHistory *evmiface.FeeHistory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := provider.GetGasPrice(gctx)
		if err != nil {
			return err
		}
		gasPrice = v
		return nil
	})
	g.Go(func() error {
		v, err := provider.GetBlockByNumber(gctx)
		if err != nil {
			return err
		}
		block = v
		return nil
	})
	g.Go(func() error {
		v, err := provider.GetFeeHistory(gctx, HistoricalBlocks, rewardPercentiles)
		if err != nil {
			return err
		}
		feeHistory = v
		return nil
	})

	var l2FeeData l2type.FeeData
	l2Service := l2fee.NewL2FeeService(network, provider)
	if l2Service != nil {
		g.Go(func() error {
			v, err := l2Service.FetchFeeData(gctx)
			if err != nil {
				return err
			}
			l2FeeData = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	baseFee := uint256.NewInt(0)
	if block != nil && block.Header.BaseFeePerGas != nil {
		baseFee = block.Header.BaseFeePerGas
	}

	return NewCacheEntry(gasPrice, baseFee, *feeHistory, l2FeeData, cfg.StaleAfter(), cfg.ExpireAfter()), nil
}
