package l2fee

import (
	"context"
	"testing"

	"github.com/chainrelay/gas-core/internal/evmiface"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

type fakeOracleProvider struct {
	values map[[4]byte]*uint256.Int
}

func (p *fakeOracleProvider) GetGasPrice(ctx context.Context) (*uint256.Int, error) {
	return nil, nil
}

func (p *fakeOracleProvider) GetBlockByNumber(ctx context.Context) (*evmiface.Block, error) {
	return nil, nil
}

func (p *fakeOracleProvider) GetFeeHistory(ctx context.Context, blockCount uint64, rewardPercentiles []float64) (*evmiface.FeeHistory, error) {
	return nil, nil
}

func (p *fakeOracleProvider) CallContract(ctx context.Context, req evmiface.CallContractRequest) ([]byte, error) {
	var sel [4]byte
	copy(sel[:], req.Input)
	return p.values[sel].Bytes(), nil
}

func newFakeOracleProvider() *fakeOracleProvider {
	return &fakeOracleProvider{values: map[[4]byte]*uint256.Int{
		selectorL1BaseFee:         uint256.NewInt(1_000_000_000),
		selectorDecimals:          uint256.NewInt(6),
		selectorBlobBaseFee:       uint256.NewInt(1),
		selectorBaseFeeScalar:     uint256.NewInt(684000),
		selectorBlobBaseFeeScalar: uint256.NewInt(0),
		selectorBaseFee:           uint256.NewInt(100_000_000),
	}}
}

func TestExtraFeeFacadeOptimismChain(t *testing.T) {
	network := evmiface.NetworkDescriptor{ChainIDValue: 10, OptimismFamily: true}
	provider := newFakeOracleProvider()
	facade := NewExtraFeeFacade(network, provider)

	tx := evmiface.EvmTransactionRequest{Data: strPtr("0x0000000000000000ffffffffffffffff")}
	fee, err := facade.GetExtraFee(context.Background(), tx)
	require.NoError(t, err)

	want := uint256.MustFromDecimal("109440000000000000")
	require.Equal(t, 0, fee.Cmp(want))
}

func TestExtraFeeFacadeNonOptimismChainIsZero(t *testing.T) {
	network := evmiface.NetworkDescriptor{ChainIDValue: 1, OptimismFamily: false}
	facade := NewExtraFeeFacade(network, nil)

	fee, err := facade.GetExtraFee(context.Background(), evmiface.EvmTransactionRequest{})
	require.NoError(t, err)
	require.Equal(t, 0, fee.Cmp(uint256.NewInt(0)))
}
