package pool

import (
	"bytes"
	"context"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/mmchougule/private-position-ee/pkg/privacy"
)

// LocalDeriver derives incognito addresses in-process instead of calling
// the provider's derive endpoint. The construction is a contract-compatible
// placeholder: deterministic, sensitive to both inputs, and never equal to
// the public address. Real unlinkability guarantees come from the
// provider's key material, not from this hash.
type LocalDeriver struct{}

// NewLocalDeriver creates an in-process address deriver.
func NewLocalDeriver() *LocalDeriver {
	return &LocalDeriver{}
}

// DeriveAddress implements privacy.AddressDeriver.
func (d *LocalDeriver) DeriveAddress(_ context.Context, publicAddress string, networkID uint64) (string, error) {
	if err := privacy.ValidateAddress(publicAddress); err != nil {
		return "", err
	}

	source := common.HexToAddress(publicAddress)

	buf := make([]byte, 0, common.AddressLength+8)
	buf = append(buf, source.Bytes()...)
	buf = binary.BigEndian.AppendUint64(buf, networkID)

	digest := crypto.Keccak256(buf)
	derived := common.BytesToAddress(digest[12:])
	for bytes.Equal(derived.Bytes(), source.Bytes()) {
		digest = crypto.Keccak256(digest)
		derived = common.BytesToAddress(digest[12:])
	}

	return derived.Hex(), nil
}
