package l2fee

import (
	"encoding/hex"
	"strings"

	"github.com/chainrelay/gas-core/internal/evmiface"
	"github.com/chainrelay/gas-core/internal/u256x"
	"github.com/holiman/uint256"
)

// OptimismFeeCalculator computes the OP-stack L1 data-availability fee from
// an OptimismFeeData snapshot and a transaction's call data.
type OptimismFeeCalculator struct{}

// NewOptimismFeeCalculator builds an OptimismFeeCalculator.
func NewOptimismFeeCalculator() *OptimismFeeCalculator {
	return &OptimismFeeCalculator{}
}

// compressedTxSize computes (zeroBytes*4 + nonZeroBytes*16) / 16 over the
// transaction's call data. Call data that is absent, empty, or not valid
// hex is treated as an empty payload — the fee model degrades to zero
// extra bytes rather than failing the whole calculation.
func compressedTxSize(tx evmiface.EvmTransactionRequest) *uint256.Int {
	var raw []byte
	if tx.Data != nil {
		clean := strings.TrimPrefix(*tx.Data, "0x")
		if decoded, err := hex.DecodeString(clean); err == nil {
			raw = decoded
		}
	}

	var zero, nonZero uint64
	for _, b := range raw {
		if b == 0 {
			zero++
		} else {
			nonZero++
		}
	}

	weighted := u256x.SaturatingAdd(
		u256x.SaturatingMul(uint256.NewInt(zero), uint256.NewInt(4)),
		u256x.SaturatingMul(uint256.NewInt(nonZero), uint256.NewInt(16)),
	)
	return new(uint256.Int).Div(weighted, uint256.NewInt(16))
}

// CalculateFee computes weightedGasPrice = 16*baseFeeScalar*l1BaseFee +
// blobBaseFeeScalar*blobBaseFee, then extraFee = compressedTxSize *
// weightedGasPrice, all arithmetic saturating rather than panicking on
// overflow.
func (c *OptimismFeeCalculator) CalculateFee(data *OptimismFeeData, tx evmiface.EvmTransactionRequest) *uint256.Int {
	l1Term := u256x.SaturatingMul(
		u256x.SaturatingMul(uint256.NewInt(16), data.BaseFeeScalar),
		data.L1BaseFee,
	)
	blobTerm := u256x.SaturatingMul(data.BlobBaseFeeScalar, data.BlobBaseFee)
	weightedGasPrice := u256x.SaturatingAdd(l1Term, blobTerm)

	size := compressedTxSize(tx)
	return u256x.SaturatingMul(size, weightedGasPrice)
}
