// Package trading implements the orchestration service for the private
// position workflow: derive an incognito wallet, shield funds from the
// main wallet, unshield them to the incognito wallet for trading, and
// shield them back on exit.
package trading

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mmchougule/private-position-ee/internal/metrics"
	apperrors "github.com/mmchougule/private-position-ee/pkg/app/errors"
	"github.com/mmchougule/private-position-ee/pkg/privacy"
	"github.com/mmchougule/private-position-ee/pkg/tracker"
)

var (
	ErrNilWallet       = errors.New("incognito wallet is required")
	ErrDerivedSame     = errors.New("derived address equals the public address")
	ErrInactiveWallet  = errors.New("incognito wallet is not active")
	ErrNetworkMismatch = errors.New("wallet network does not match service network")
)

// ConfirmationWaiter blocks until an operation reaches a terminal state or
// a deadline elapses.
type ConfirmationWaiter interface {
	Await(ctx context.Context, ref string, maxWait time.Duration) (privacy.OperationState, error)
}

// StatusChecker produces funds status snapshots. Implementations never
// return an error; failures degrade into the snapshot itself.
type StatusChecker interface {
	Check(ctx context.Context, mainAddress, incognitoAddress, token string) privacy.FundsStatus
}

// Journal records submitted operations and their terminal states.
// Journaling is best effort: failures are logged and never fail the flow.
type Journal interface {
	Record(ctx context.Context, op *privacy.Operation) error
	UpdateState(ctx context.Context, ref string, state privacy.OperationState, errMsg string) error
}

// Config holds the service's immutable defaults. Modeled as fields rather
// than mutable globals so multiple services with different network ids can
// coexist safely.
type Config struct {
	NetworkID           uint64
	ConfirmationMaxWait time.Duration
	PollInterval        time.Duration
}

func (c *Config) applyDefaults() {
	if c.ConfirmationMaxWait <= 0 {
		c.ConfirmationMaxWait = tracker.DefaultMaxWait
	}
	if c.PollInterval <= 0 {
		c.PollInterval = tracker.DefaultPollInterval
	}
}

// Service is the top-level facade over derivation, shield/unshield
// submission, confirmation tracking and status aggregation. Read-only
// after construction; independent sessions share no mutable state and
// need no locking.
type Service struct {
	cfg     Config
	pool    privacy.PoolProvider
	deriver privacy.AddressDeriver
	waiter  ConfirmationWaiter
	status  StatusChecker
	journal Journal
	logger  *zap.Logger
}

// Option configures the trading service.
type Option func(*Service)

// WithDeriver overrides address derivation (e.g. with the in-process
// deriver). The pool provider is used by default.
func WithDeriver(d privacy.AddressDeriver) Option {
	return func(s *Service) { s.deriver = d }
}

// WithJournal attaches an operation journal.
func WithJournal(j Journal) Option {
	return func(s *Service) { s.journal = j }
}

// NewService creates the orchestration service.
func NewService(
	cfg Config,
	pool privacy.PoolProvider,
	waiter ConfirmationWaiter,
	status StatusChecker,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	cfg.applyDefaults()
	s := &Service{
		cfg:     cfg,
		pool:    pool,
		deriver: pool,
		waiter:  waiter,
		status:  status,
		logger:  logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// DeriveIncognitoWallet derives the unlinkable trading wallet for a main
// address and marks it active. Derivation is deterministic per
// (mainAddress, network id); repeating the call yields the same address.
func (s *Service) DeriveIncognitoWallet(ctx context.Context, mainAddress, label string) (*privacy.IncognitoWallet, error) {
	if err := privacy.ValidateAddress(mainAddress); err != nil {
		return nil, apperrors.Wrap(apperrors.PhaseDerive, "failed to derive incognito wallet", err)
	}

	derived, err := s.deriver.DeriveAddress(ctx, mainAddress, s.cfg.NetworkID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.PhaseDerive, "failed to derive incognito wallet", err)
	}
	if equalAddress(derived, mainAddress) {
		return nil, apperrors.Wrap(apperrors.PhaseDerive, "failed to derive incognito wallet", ErrDerivedSame)
	}

	wallet := &privacy.IncognitoWallet{
		Address:     derived,
		MainAddress: mainAddress,
		NetworkID:   s.cfg.NetworkID,
		Label:       label,
		CreatedAt:   time.Now().UTC(),
		Active:      true,
	}

	metrics.WalletsDerived.Inc()
	s.logger.Info("Incognito wallet derived",
		zap.String("main_address", mainAddress),
		zap.String("incognito_address", derived),
		zap.Uint64("network_id", s.cfg.NetworkID))
	return wallet, nil
}

// PreparePrivateFunds shields funds from the main wallet into the pool,
// returning the pending operation handle. It does not wait for
// confirmation.
func (s *Service) PreparePrivateFunds(ctx context.Context, mainAddress string, cfg privacy.TradeConfig) (*privacy.Operation, error) {
	op, err := s.shield(ctx, mainAddress, cfg)
	if err != nil {
		metrics.OperationsSubmitted.WithLabelValues(string(privacy.KindShield), "error").Inc()
		return nil, apperrors.Wrap(apperrors.PhasePrepare, "failed to prepare private funds", err)
	}
	metrics.OperationsSubmitted.WithLabelValues(string(privacy.KindShield), "submitted").Inc()
	return op, nil
}

// UnshieldForTrading unshields funds from the pool to the incognito
// wallet, returning the pending operation handle.
func (s *Service) UnshieldForTrading(ctx context.Context, wallet *privacy.IncognitoWallet, cfg privacy.TradeConfig) (*privacy.Operation, error) {
	if err := s.checkWallet(wallet); err != nil {
		metrics.OperationsSubmitted.WithLabelValues(string(privacy.KindUnshield), "error").Inc()
		return nil, apperrors.Wrap(apperrors.PhaseUnshield, "failed to unshield for trading", err)
	}
	if err := cfg.Normalize(); err != nil {
		metrics.OperationsSubmitted.WithLabelValues(string(privacy.KindUnshield), "error").Inc()
		return nil, apperrors.Wrap(apperrors.PhaseUnshield, "failed to unshield for trading", err)
	}

	op, err := s.pool.Unshield(ctx, privacy.UnshieldRequest{
		Destination: wallet.Address,
		Token:       cfg.Token,
		Amount:      cfg.Amount,
		NetworkID:   s.cfg.NetworkID,
	})
	if err != nil {
		metrics.OperationsSubmitted.WithLabelValues(string(privacy.KindUnshield), "error").Inc()
		return nil, apperrors.Wrap(apperrors.PhaseUnshield, "failed to unshield for trading", err)
	}

	metrics.OperationsSubmitted.WithLabelValues(string(privacy.KindUnshield), "submitted").Inc()
	s.record(ctx, op)
	return op, nil
}

// ExitPrivatePosition shields funds from the incognito wallet back toward
// the pool on exit, returning the pending operation handle.
func (s *Service) ExitPrivatePosition(ctx context.Context, wallet *privacy.IncognitoWallet, cfg privacy.TradeConfig) (*privacy.Operation, error) {
	if err := s.checkWallet(wallet); err != nil {
		metrics.OperationsSubmitted.WithLabelValues(string(privacy.KindShield), "error").Inc()
		return nil, apperrors.Wrap(apperrors.PhaseExit, "failed to exit private position", err)
	}

	op, err := s.shield(ctx, wallet.Address, cfg)
	if err != nil {
		metrics.OperationsSubmitted.WithLabelValues(string(privacy.KindShield), "error").Inc()
		return nil, apperrors.Wrap(apperrors.PhaseExit, "failed to exit private position", err)
	}
	metrics.OperationsSubmitted.WithLabelValues(string(privacy.KindShield), "submitted").Inc()
	return op, nil
}

// CheckPrivateFundsStatus delegates to the aggregator. No additional
// wrapping: the aggregator already degrades failures into the snapshot.
func (s *Service) CheckPrivateFundsStatus(ctx context.Context, mainAddress, incognitoAddress, token string) privacy.FundsStatus {
	return s.status.Check(ctx, mainAddress, incognitoAddress, token)
}

// WaitForTransactionConfirmation blocks until the operation reaches a
// terminal state or maxWait elapses. A maxWait of zero uses the service
// default. The observed terminal state is journaled when a journal is
// attached.
func (s *Service) WaitForTransactionConfirmation(ctx context.Context, ref string, maxWait time.Duration) (privacy.OperationState, error) {
	if maxWait <= 0 {
		maxWait = s.cfg.ConfirmationMaxWait
	}

	state, err := s.waiter.Await(ctx, ref, maxWait)
	if state.Terminal() {
		errMsg := ""
		if err != nil {
			errMsg = err.Error()
		}
		s.updateJournal(ctx, ref, state, errMsg)
	}
	return state, err
}

func (s *Service) shield(ctx context.Context, source string, cfg privacy.TradeConfig) (*privacy.Operation, error) {
	if err := privacy.ValidateAddress(source); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}

	op, err := s.pool.Shield(ctx, privacy.ShieldRequest{
		Source:    source,
		Token:     cfg.Token,
		Amount:    cfg.Amount,
		NetworkID: s.cfg.NetworkID,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, op)
	return op, nil
}

func (s *Service) checkWallet(wallet *privacy.IncognitoWallet) error {
	if wallet == nil {
		return apperrors.InvalidInput(ErrNilWallet, "incognito wallet is required")
	}
	if err := privacy.ValidateAddress(wallet.Address); err != nil {
		return err
	}
	if !wallet.Active {
		return apperrors.InvalidInput(ErrInactiveWallet, "incognito wallet is not active")
	}
	if wallet.NetworkID != 0 && wallet.NetworkID != s.cfg.NetworkID {
		return apperrors.InvalidInput(ErrNetworkMismatch,
			fmt.Sprintf("wallet network %d does not match service network %d", wallet.NetworkID, s.cfg.NetworkID))
	}
	return nil
}

func (s *Service) record(ctx context.Context, op *privacy.Operation) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, op); err != nil {
		s.logger.Warn("Failed to journal operation",
			zap.String("operation_ref", op.Ref), zap.Error(err))
	}
}

func (s *Service) updateJournal(ctx context.Context, ref string, state privacy.OperationState, errMsg string) {
	if s.journal == nil {
		return
	}
	if err := s.journal.UpdateState(ctx, ref, state, errMsg); err != nil {
		s.logger.Warn("Failed to journal operation state",
			zap.String("operation_ref", ref), zap.Error(err))
	}
}

func equalAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}
