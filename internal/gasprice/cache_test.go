package gasprice

import (
	"context"
	"testing"
	"time"

	"github.com/chainrelay/gas-core/internal/evmiface"
	"github.com/chainrelay/gas-core/internal/gaserrors"
	"github.com/chainrelay/gas-core/internal/gaspricecfg"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (f *fixedClock) now() time.Time { return f.t }

func withClock(t *testing.T, start time.Time) *fixedClock {
	t.Helper()
	clock := &fixedClock{t: start}
	orig := nowFunc
	nowFunc = clock.now
	t.Cleanup(func() { nowFunc = orig })
	return clock
}

type stubProvider struct{}

func (stubProvider) GetGasPrice(ctx context.Context) (*uint256.Int, error) {
	return uint256.NewInt(1), nil
}
func (stubProvider) GetBlockByNumber(ctx context.Context) (*evmiface.Block, error) {
	return &evmiface.Block{}, nil
}
func (stubProvider) GetFeeHistory(ctx context.Context, blockCount uint64, rewardPercentiles []float64) (*evmiface.FeeHistory, error) {
	return &evmiface.FeeHistory{}, nil
}
func (stubProvider) CallContract(ctx context.Context, req evmiface.CallContractRequest) ([]byte, error) {
	return nil, nil
}

// blockingProvider blocks GetGasPrice until release is closed, so a refresh
// started against it stays in flight for as long as the test needs.
type blockingProvider struct {
	release chan struct{}
}

func (p *blockingProvider) GetGasPrice(ctx context.Context) (*uint256.Int, error) {
	<-p.release
	return uint256.NewInt(1), nil
}
func (p *blockingProvider) GetBlockByNumber(ctx context.Context) (*evmiface.Block, error) {
	return &evmiface.Block{}, nil
}
func (p *blockingProvider) GetFeeHistory(ctx context.Context, blockCount uint64, rewardPercentiles []float64) (*evmiface.FeeHistory, error) {
	return &evmiface.FeeHistory{}, nil
}
func (p *blockingProvider) CallContract(ctx context.Context, req evmiface.CallContractRequest) ([]byte, error) {
	return nil, nil
}

func TestCacheEntryFreshnessTransitions(t *testing.T) {
	start := time.Unix(0, 0)
	clock := withClock(t, start)

	cache := New(evmiface.ProviderResolverFunc(func(evmiface.EvmNetwork) (evmiface.EvmProvider, error) {
		return stubProvider{}, nil
	}), nil)

	cfg := &gaspricecfg.Config{Enabled: true, StaleAfterMs: 20000, ExpireAfterMs: 45000}
	cache.ConfigureNetwork(1, cfg)

	cache.Set(1, NewCacheEntry(uint256.NewInt(1), uint256.NewInt(1), evmiface.FeeHistory{}, nil, cfg.StaleAfter(), cfg.ExpireAfter()))

	entry, ok := cache.Get(1)
	require.True(t, ok)
	assert.True(t, entry.IsFresh())

	clock.t = start.Add(25 * time.Second)
	entry, ok = cache.Get(1)
	require.True(t, ok)
	assert.False(t, entry.IsFresh())
	assert.True(t, entry.IsStale())

	clock.t = start.Add(46 * time.Second)
	_, ok = cache.Get(1)
	assert.False(t, ok, "expired entry must not be served")
}

func TestRefreshDeclinedWhenDisabled(t *testing.T) {
	cache := New(nil, nil)
	cache.ConfigureNetwork(7, &gaspricecfg.Config{Enabled: false, StaleAfterMs: 1, ExpireAfterMs: 2})

	network := evmiface.NetworkDescriptor{ChainIDValue: 7}
	started := cache.RefreshNetworkInBackground(network, nil)
	assert.False(t, started)
}

func TestRefreshSecondImmediateCallReturnsFalse(t *testing.T) {
	provider := &blockingProvider{release: make(chan struct{})}
	defer close(provider.release)

	cache := New(evmiface.ProviderResolverFunc(func(evmiface.EvmNetwork) (evmiface.EvmProvider, error) {
		return provider, nil
	}), nil)
	cache.ConfigureNetwork(3, &gaspricecfg.Config{Enabled: true, StaleAfterMs: 20000, ExpireAfterMs: 45000})

	network := evmiface.NetworkDescriptor{ChainIDValue: 3}

	first := cache.RefreshNetworkInBackground(network, nil)
	assert.True(t, first, "first call should start a refresh")

	second := cache.RefreshNetworkInBackground(network, nil)
	assert.False(t, second, "second immediate call must not start another refresh")
}

func TestRefreshDeclinedWhenUnconfigured(t *testing.T) {
	cache := New(nil, nil)
	network := evmiface.NetworkDescriptor{ChainIDValue: 99}
	started := cache.RefreshNetworkInBackground(network, nil)
	assert.False(t, started)
}

func TestUpdateReturnsNotFoundForUnknownChain(t *testing.T) {
	cache := New(nil, nil)
	err := cache.Update(5, func(*CacheEntry) {})
	assert.ErrorIs(t, err, gaserrors.ErrNotFound)
}

func TestGetSnapshotDeclinedWhenDisabledDespiteCachedEntry(t *testing.T) {
	cache := New(nil, nil)
	cache.ConfigureNetwork(1, &gaspricecfg.Config{Enabled: true, StaleAfterMs: 20000, ExpireAfterMs: 45000})
	cache.Set(1, NewCacheEntry(uint256.NewInt(1), uint256.NewInt(1), evmiface.FeeHistory{}, nil, 20*time.Second, 45*time.Second))

	_, ok := cache.GetSnapshot(1)
	require.True(t, ok, "snapshot should be servable while enabled")

	cache.ConfigureNetwork(1, &gaspricecfg.Config{Enabled: false, StaleAfterMs: 20000, ExpireAfterMs: 45000})

	_, ok = cache.GetSnapshot(1)
	assert.False(t, ok, "snapshot must be withheld once the network is disabled, even though the entry is still cached")
}

func TestGetSnapshotReportsStale(t *testing.T) {
	start := time.Unix(0, 0)
	clock := withClock(t, start)

	cache := New(nil, nil)
	cfg := &gaspricecfg.Config{Enabled: true, StaleAfterMs: 20000, ExpireAfterMs: 45000}
	cache.ConfigureNetwork(1, cfg)
	cache.Set(1, NewCacheEntry(uint256.NewInt(1), uint256.NewInt(1), evmiface.FeeHistory{}, nil, cfg.StaleAfter(), cfg.ExpireAfter()))

	snap, ok := cache.GetSnapshot(1)
	require.True(t, ok)
	assert.False(t, snap.IsStale)

	clock.t = start.Add(25 * time.Second)
	snap, ok = cache.GetSnapshot(1)
	require.True(t, ok)
	assert.True(t, snap.IsStale)
}

func TestRemoveAndLenBookkeeping(t *testing.T) {
	cache := New(nil, nil)
	cache.ConfigureNetwork(1, &gaspricecfg.Config{Enabled: true, StaleAfterMs: 20000, ExpireAfterMs: 45000})
	cache.Set(1, NewCacheEntry(uint256.NewInt(1), uint256.NewInt(1), evmiface.FeeHistory{}, nil, 20*time.Second, 45*time.Second))

	assert.Equal(t, 1, cache.Len())
	cache.Remove(1)
	assert.Equal(t, 0, cache.Len())
	assert.True(t, cache.IsEmpty())
}
