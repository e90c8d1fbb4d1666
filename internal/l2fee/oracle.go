// Package l2fee computes the additional, L1-data-availability fee an L2
// rollup charges on top of its own execution gas, by reading the rollup's
// on-chain gas-price oracle predeploy.
package l2fee

import (
	"context"

	"github.com/chainrelay/gas-core/internal/evmiface"
	"github.com/chainrelay/gas-core/internal/gaserrors"
	"github.com/chainrelay/gas-core/internal/l2type"
	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"
)

// OptimismGasPriceOracleAddress is the fixed predeploy address of the
// Optimism GasPriceOracle contract, identical across every OP-stack chain.
var OptimismGasPriceOracleAddress = evmiface.Address{
	0x42, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x0F,
}

var (
	selectorL1BaseFee         = [4]byte{0x51, 0x9b, 0x4b, 0xd3}
	selectorDecimals          = [4]byte{0x31, 0x3c, 0xe5, 0x67}
	selectorBlobBaseFee       = [4]byte{0xf8, 0x20, 0x61, 0x40}
	selectorBaseFeeScalar     = [4]byte{0xc5, 0x98, 0x59, 0x18}
	selectorBlobBaseFeeScalar = [4]byte{0x68, 0xd5, 0xdc, 0xa6}
	selectorBaseFee           = [4]byte{0x6e, 0xf2, 0x5c, 0x3a}
)

// OptimismFeeData is the L2 fee-oracle snapshot for an OP-stack chain.
type OptimismFeeData struct {
	L1BaseFee         *uint256.Int
	Decimals          *uint256.Int
	BlobBaseFee       *uint256.Int
	BaseFeeScalar     *uint256.Int
	BlobBaseFeeScalar *uint256.Int
	BaseFee           *uint256.Int
}

func (*OptimismFeeData) isL2FeeData() {}

var _ l2type.FeeData = (*OptimismFeeData)(nil)

// OracleClient reads the GasPriceOracle predeploy through an EvmProvider.
type OracleClient struct {
	provider evmiface.EvmProvider
}

// NewOracleClient builds an OracleClient bound to provider.
func NewOracleClient(provider evmiface.EvmProvider) *OracleClient {
	return &OracleClient{provider: provider}
}

func (o *OracleClient) readU256(ctx context.Context, selector [4]byte) (*uint256.Int, error) {
	out, err := o.provider.CallContract(ctx, evmiface.CallContractRequest{
		To:    OptimismGasPriceOracleAddress,
		Input: selector[:],
	})
	if err != nil {
		return nil, gaserrors.NewUnexpectedError("gas price oracle call failed", err)
	}
	return new(uint256.Int).SetBytes(out), nil
}

// FetchFeeData reads all six oracle values concurrently. Any single read
// failing fails the whole fetch — a partial snapshot is never stored.
func (o *OracleClient) FetchFeeData(ctx context.Context) (*OptimismFeeData, error) {
	data := &OptimismFeeData{}

	g, gctx := errgroup.WithContext(ctx)

	fetch := func(selector [4]byte, dst **uint256.Int) func() error {
		return func() error {
			v, err := o.readU256(gctx, selector)
			if err != nil {
				return err
			}
			*dst = v
			return nil
		}
	}

	g.Go(fetch(selectorL1BaseFee, &data.L1BaseFee))
	g.Go(fetch(selectorDecimals, &data.Decimals))
	g.Go(fetch(selectorBlobBaseFee, &data.BlobBaseFee))
	g.Go(fetch(selectorBaseFeeScalar, &data.BaseFeeScalar))
	g.Go(fetch(selectorBlobBaseFeeScalar, &data.BlobBaseFeeScalar))
	g.Go(fetch(selectorBaseFee, &data.BaseFee))

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return data, nil
}
