// Package evmiface declares the upward-facing EVM capability sets this
// module consumes but does not implement: the provider used to talk to a
// chain's RPC endpoint, the network identity used to route to an L2
// variant, and the transaction request shape the fee calculator reads
// from. The network configuration loader, RPC client, and transaction
// signing/broadcast implementations are all external collaborators and
// stay out of this module.
package evmiface

import (
	"context"
	"encoding/hex"

	"github.com/holiman/uint256"
)

// Address is a 20-byte EVM account/contract address.
type Address [20]byte

// Hex renders the address as a "0x"-prefixed lowercase hex string.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// BlockHeader carries the one header field this module reads. A nil
// BaseFeePerGas (pre-London chains) is treated as zero by the caller.
type BlockHeader struct {
	BaseFeePerGas *uint256.Int
}

// Block is the minimal block shape this module needs.
type Block struct {
	Header BlockHeader
}

// FeeHistory mirrors the standard eth_feeHistory result: a base-fee-per-gas
// series anchored at OldestBlock, the corresponding gas-used ratios, and
// optional reward and blob-fee series.
type FeeHistory struct {
	OldestBlock       uint64
	BaseFeePerGas     []*uint256.Int
	GasUsedRatio      []float64
	Reward            [][]*uint256.Int
	BaseFeePerBlobGas []*uint256.Int
}

// Clone returns a copy with its own slices, so replacing or appending
// elements on the copy never touches the original's series. The
// *uint256.Int values themselves are shared, not copied.
func (f FeeHistory) Clone() FeeHistory {
	clone := FeeHistory{
		OldestBlock:   f.OldestBlock,
		BaseFeePerGas: append([]*uint256.Int(nil), f.BaseFeePerGas...),
		GasUsedRatio:  append([]float64(nil), f.GasUsedRatio...),
	}
	if f.Reward != nil {
		clone.Reward = make([][]*uint256.Int, len(f.Reward))
		for i, row := range f.Reward {
			clone.Reward[i] = append([]*uint256.Int(nil), row...)
		}
	}
	if f.BaseFeePerBlobGas != nil {
		clone.BaseFeePerBlobGas = append([]*uint256.Int(nil), f.BaseFeePerBlobGas...)
	}
	return clone
}

// CallContractRequest is a read-only contract call: an address and input
// data, everything else defaulted (matches §4.4's "all other fields
// defaulted").
type CallContractRequest struct {
	To    Address
	Input []byte
}

// EvmProvider is the RPC surface this module needs from a chain client.
type EvmProvider interface {
	GetGasPrice(ctx context.Context) (*uint256.Int, error)
	GetBlockByNumber(ctx context.Context) (*Block, error)
	GetFeeHistory(ctx context.Context, blockCount uint64, rewardPercentiles []float64) (*FeeHistory, error)
	CallContract(ctx context.Context, req CallContractRequest) ([]byte, error)
}

// EvmNetwork is the network identity + classification surface this module
// needs. The classification predicate (IsOptimism) is provided by the
// caller's network model; this module never guesses it from chain id.
type EvmNetwork interface {
	ChainID() uint64
	IsOptimism() bool
}

// EvmTransactionRequest is the only transaction shape the fee calculator
// reads: the call data, as an optional "0x"-prefixed (or bare) hex string.
type EvmTransactionRequest struct {
	Data *string
}

// ProviderResolver obtains an EvmProvider for a given network. Injected
// into the cache so background refreshes can reach a chain's RPC endpoint
// without this module depending on a concrete client implementation.
type ProviderResolver interface {
	Resolve(network EvmNetwork) (EvmProvider, error)
}

// ProviderResolverFunc adapts a plain function to a ProviderResolver.
type ProviderResolverFunc func(network EvmNetwork) (EvmProvider, error)

// Resolve implements ProviderResolver.
func (f ProviderResolverFunc) Resolve(network EvmNetwork) (EvmProvider, error) {
	return f(network)
}

// NetworkDescriptor is a minimal, concrete EvmNetwork for callers that
// don't need the full (out-of-scope) network configuration and
// inheritance system — enough to configure the cache and route to an L2
// fee service in tests and small integrations.
type NetworkDescriptor struct {
	ChainIDValue   uint64
	Symbol         string
	OptimismFamily bool
}

// ChainID implements EvmNetwork.
func (n NetworkDescriptor) ChainID() uint64 { return n.ChainIDValue }

// IsOptimism implements EvmNetwork.
func (n NetworkDescriptor) IsOptimism() bool { return n.OptimismFamily }
