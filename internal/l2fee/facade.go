package l2fee

import (
	"context"

	"github.com/chainrelay/gas-core/internal/evmiface"
	"github.com/holiman/uint256"
)

// ExtraFeeFacade is the single entry point callers use to price a
// transaction's L2 extra fee without caring which (if any) L2 family the
// network belongs to.
type ExtraFeeFacade struct {
	network  evmiface.EvmNetwork
	provider evmiface.EvmProvider
}

// NewExtraFeeFacade builds an ExtraFeeFacade for network, reachable through
// provider.
func NewExtraFeeFacade(network evmiface.EvmNetwork, provider evmiface.EvmProvider) *ExtraFeeFacade {
	return &ExtraFeeFacade{network: network, provider: provider}
}

// GetExtraFee returns the transaction's L2 extra fee, or zero if network
// belongs to no known L2 family.
func (f *ExtraFeeFacade) GetExtraFee(ctx context.Context, tx evmiface.EvmTransactionRequest) (*uint256.Int, error) {
	svc := NewL2FeeService(f.network, f.provider)
	if svc == nil {
		return uint256.NewInt(0), nil
	}

	data, err := svc.FetchFeeData(ctx)
	if err != nil {
		return nil, err
	}

	return svc.CalculateFee(data, tx)
}
