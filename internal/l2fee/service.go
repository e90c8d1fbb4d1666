package l2fee

import (
	"context"

	"github.com/chainrelay/gas-core/internal/evmiface"
	"github.com/chainrelay/gas-core/internal/gaserrors"
	"github.com/chainrelay/gas-core/internal/l2type"
	"github.com/holiman/uint256"
)

// L2FeeService fetches an L2 rollup's fee-oracle snapshot and computes the
// extra fee a transaction owes on top of its own execution gas.
type L2FeeService interface {
	FetchFeeData(ctx context.Context) (l2type.FeeData, error)
	CalculateFee(data l2type.FeeData, tx evmiface.EvmTransactionRequest) (*uint256.Int, error)
}

type optimismL2FeeService struct {
	oracle *OracleClient
	calc   *OptimismFeeCalculator
}

func (s *optimismL2FeeService) FetchFeeData(ctx context.Context) (l2type.FeeData, error) {
	return s.oracle.FetchFeeData(ctx)
}

func (s *optimismL2FeeService) CalculateFee(data l2type.FeeData, tx evmiface.EvmTransactionRequest) (*uint256.Int, error) {
	opData, ok := data.(*OptimismFeeData)
	if !ok {
		return nil, gaserrors.NewUnexpectedError("l2 fee data is not an Optimism snapshot", nil)
	}
	return s.calc.CalculateFee(opData, tx), nil
}

// NewL2FeeService returns the L2FeeService for network, or nil if network
// is not a member of any L2 family this module knows how to price.
func NewL2FeeService(network evmiface.EvmNetwork, provider evmiface.EvmProvider) L2FeeService {
	if !network.IsOptimism() {
		return nil
	}
	return &optimismL2FeeService{
		oracle: NewOracleClient(provider),
		calc:   NewOptimismFeeCalculator(),
	}
}
