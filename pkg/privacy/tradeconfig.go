package privacy

import (
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/mmchougule/private-position-ee/pkg/app/errors"
)

var tradeConfigValidate = validator.New()

// TradeConfig is an entry or exit directive. Immutable once normalized;
// one config drives exactly one shield or unshield call.
type TradeConfig struct {
	Token  string `json:"token" validate:"required"`
	Amount string `json:"amount" validate:"required"`

	// SlippagePct is a non-negative percentage tolerance, carried through
	// to the trading layer that consumes the unshielded funds.
	SlippagePct float64 `json:"slippage_pct" validate:"gte=0" default:"0.5"`

	// AutoUnshield controls whether the entry flow submits the unshield to
	// the incognito wallet as soon as the shield confirms.
	AutoUnshield *bool `json:"auto_unshield,omitempty" default:"true"`

	// MaxIndexingWait overrides the confirmation deadline for operations
	// driven by this config.
	MaxIndexingWait time.Duration `json:"max_indexing_wait,omitempty" default:"70s"`
}

// Normalize applies defaults and validates the config, including the
// positive-amount rule. Returns a CategoryInvalidInput error on violation.
func (c *TradeConfig) Normalize() error {
	if err := defaults.Set(c); err != nil {
		return apperrors.GeneralError(err)
	}
	if err := tradeConfigValidate.Struct(c); err != nil {
		return apperrors.InvalidInput(err, "invalid trade config")
	}
	if _, err := ParseAmount(c.Amount); err != nil {
		return err
	}
	return nil
}

// ShouldAutoUnshield reports the AutoUnshield setting, defaulting to true.
func (c *TradeConfig) ShouldAutoUnshield() bool {
	return c.AutoUnshield == nil || *c.AutoUnshield
}
