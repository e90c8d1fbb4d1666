package evmiface

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestAddressHex(t *testing.T) {
	addr := Address{0x42, 0x00, 0x00, 0x00, 0x0F}
	assert.Equal(t, "0x420000000f000000000000000000000000000000", addr.Hex())
}

func TestFeeHistoryCloneIsIndependent(t *testing.T) {
	original := FeeHistory{
		OldestBlock:   100,
		BaseFeePerGas: []*uint256.Int{uint256.NewInt(1), uint256.NewInt(2)},
		GasUsedRatio:  []float64{0.5, 0.6},
		Reward:        [][]*uint256.Int{{uint256.NewInt(10)}},
	}

	clone := original.Clone()
	clone.BaseFeePerGas[0] = uint256.NewInt(999)
	clone.Reward[0][0] = uint256.NewInt(999)

	assert.Equal(t, uint64(1), original.BaseFeePerGas[0].Uint64())
	assert.Equal(t, uint64(10), original.Reward[0][0].Uint64())
}

func TestProviderResolverFuncAdapts(t *testing.T) {
	called := false
	var resolver ProviderResolver = ProviderResolverFunc(func(network EvmNetwork) (EvmProvider, error) {
		called = true
		return nil, nil
	})

	_, _ = resolver.Resolve(NetworkDescriptor{ChainIDValue: 1})
	assert.True(t, called)
}
