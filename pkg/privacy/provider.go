package privacy

import (
	"context"
)

// ShieldRequest asks the pool provider to move value from a public address
// into the shielded pool.
type ShieldRequest struct {
	Source    string
	Token     string
	Amount    string
	NetworkID uint64
}

// Validate fails fast with CategoryInvalidInput before any external call.
func (r ShieldRequest) Validate() error {
	if err := ValidateAddress(r.Source); err != nil {
		return err
	}
	_, err := ParseAmount(r.Amount)
	return err
}

// UnshieldRequest asks the pool provider to move value from the shielded
// pool to a destination address.
type UnshieldRequest struct {
	Destination string
	Token       string
	Amount      string
	NetworkID   uint64
}

// Validate fails fast with CategoryInvalidInput before any external call.
func (r UnshieldRequest) Validate() error {
	if err := ValidateAddress(r.Destination); err != nil {
		return err
	}
	_, err := ParseAmount(r.Amount)
	return err
}

// AddressDeriver derives an unlinkable incognito address from a main wallet
// identity. Derivation must be deterministic for identical inputs, differ
// when either input differs, and never return the public address itself.
type AddressDeriver interface {
	DeriveAddress(ctx context.Context, publicAddress string, networkID uint64) (string, error)
}

// PoolProvider is the contract the external privacy-pool provider must
// honor. Shield and Unshield submit without waiting for confirmation;
// OperationState is the pull-based status query confirmation polling runs
// against.
type PoolProvider interface {
	AddressDeriver
	Shield(ctx context.Context, req ShieldRequest) (*Operation, error)
	Unshield(ctx context.Context, req UnshieldRequest) (*Operation, error)
	OperationState(ctx context.Context, ref string) (OperationState, error)
	ShieldedBalance(ctx context.Context, address, token string, networkID uint64) (string, error)
}

// ChainDataProvider is the contract the external chain-data provider must
// honor for wallet balance reads. Balances are decimal strings.
type ChainDataProvider interface {
	IncognitoBalance(ctx context.Context, address, token string, networkID uint64) (string, error)
	MainBalance(ctx context.Context, address, token string, networkID uint64) (string, error)
}
