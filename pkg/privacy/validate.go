package privacy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	apperrors "github.com/mmchougule/private-position-ee/pkg/app/errors"
)

// Operation references are 32-byte values rendered as 0x + 64 hex characters.
var operationRefRe = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// ValidateAddress checks that addr is a 20-byte hex address rendered as
// 0x + 40 hex characters. Returns a CategoryInvalidInput error otherwise.
func ValidateAddress(addr string) error {
	if !strings.HasPrefix(addr, "0x") || !common.IsHexAddress(addr) {
		return apperrors.InvalidInput(nil, fmt.Sprintf("invalid address %q: expected 0x-prefixed 20-byte hex address", addr))
	}
	return nil
}

// ValidateOperationRef checks that ref is a 32-byte hex operation reference.
func ValidateOperationRef(ref string) error {
	if !operationRefRe.MatchString(ref) {
		return apperrors.InvalidInput(nil, fmt.Sprintf("invalid operation reference %q: expected 0x-prefixed 32-byte hex value", ref))
	}
	return nil
}

// ParseAmount parses a decimal amount string and requires it to be strictly
// positive. Empty, zero, negative and non-numeric amounts are rejected with
// a CategoryInvalidInput error.
func ParseAmount(amount string) (decimal.Decimal, error) {
	if amount == "" {
		return decimal.Zero, apperrors.InvalidInput(nil, "amount is required")
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, apperrors.InvalidInput(err, fmt.Sprintf("invalid amount %q", amount))
	}
	if !d.IsPositive() {
		return decimal.Zero, apperrors.InvalidInput(nil, fmt.Sprintf("amount must be positive, got %q", amount))
	}
	return d, nil
}
