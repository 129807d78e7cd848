package trading

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/mmchougule/private-position-ee/pkg/app/errors"
	"github.com/mmchougule/private-position-ee/pkg/privacy"
)

// Session tracks one trading session: the wallet it owns and the
// operations submitted for it, in submission order. A session is driven by
// a single caller; operations within it are strictly sequential, and
// independent sessions share no mutable state.
type Session struct {
	ID         string
	Wallet     *privacy.IncognitoWallet
	Operations []*privacy.Operation
	StartedAt  time.Time
}

// EnterPrivatePosition runs the entry flow for one trade intent:
// derive → shield from the main wallet → await confirmation → unshield to
// the incognito wallet → await confirmation. The unshield leg is skipped
// when the config disables auto-unshield. Confirmation of an operation is
// never awaited before that operation has been submitted.
func (s *Service) EnterPrivatePosition(ctx context.Context, mainAddress, label string, cfg privacy.TradeConfig) (*Session, error) {
	wallet, err := s.DeriveIncognitoWallet(ctx, mainAddress, label)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        uuid.NewString(),
		Wallet:    wallet,
		StartedAt: time.Now().UTC(),
	}

	shieldOp, err := s.PreparePrivateFunds(ctx, mainAddress, cfg)
	if err != nil {
		return session, err
	}
	session.Operations = append(session.Operations, shieldOp)

	state, err := s.WaitForTransactionConfirmation(ctx, shieldOp.Ref, cfg.MaxIndexingWait)
	shieldOp.State = state
	if err != nil {
		return session, err
	}

	if !cfg.ShouldAutoUnshield() {
		s.logger.Info("Entry shield confirmed, auto-unshield disabled",
			zap.String("session_id", session.ID),
			zap.String("operation_ref", shieldOp.Ref))
		return session, nil
	}

	unshieldOp, err := s.UnshieldForTrading(ctx, wallet, cfg)
	if err != nil {
		return session, err
	}
	session.Operations = append(session.Operations, unshieldOp)

	state, err = s.WaitForTransactionConfirmation(ctx, unshieldOp.Ref, cfg.MaxIndexingWait)
	unshieldOp.State = state
	if err != nil {
		return session, err
	}

	s.logger.Info("Private position entered",
		zap.String("session_id", session.ID),
		zap.String("incognito_address", wallet.Address),
		zap.String("token", cfg.Token),
		zap.String("amount", cfg.Amount))
	return session, nil
}

// ClosePrivatePosition runs the exit flow: shield the traded funds from
// the incognito wallet back toward the pool and await confirmation. The
// session's wallet stays usable for further exits until superseded.
func (s *Service) ClosePrivatePosition(ctx context.Context, session *Session, cfg privacy.TradeConfig) (*privacy.Operation, error) {
	if session == nil {
		return nil, apperrors.Wrap(apperrors.PhaseExit, "failed to exit private position",
			apperrors.InvalidInput(ErrNilWallet, "session is required"))
	}

	exitOp, err := s.ExitPrivatePosition(ctx, session.Wallet, cfg)
	if err != nil {
		return nil, err
	}
	session.Operations = append(session.Operations, exitOp)

	state, err := s.WaitForTransactionConfirmation(ctx, exitOp.Ref, cfg.MaxIndexingWait)
	exitOp.State = state
	if err != nil {
		return exitOp, err
	}

	s.logger.Info("Private position closed",
		zap.String("session_id", session.ID),
		zap.String("operation_ref", exitOp.Ref))
	return exitOp, nil
}
