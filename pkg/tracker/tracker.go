// Package tracker polls asynchronous pool operations until they reach a
// terminal state or a deadline elapses.
package tracker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mmchougule/private-position-ee/internal/metrics"
	apperrors "github.com/mmchougule/private-position-ee/pkg/app/errors"
	"github.com/mmchougule/private-position-ee/pkg/privacy"
)

const (
	// DefaultMaxWait matches the pool's expected indexing latency.
	DefaultMaxWait = 70 * time.Second
	// DefaultPollInterval is the fixed interval between status queries.
	DefaultPollInterval = 2 * time.Second
)

// StatePoller is the narrow status-query interface the tracker polls.
type StatePoller interface {
	OperationState(ctx context.Context, ref string) (privacy.OperationState, error)
}

// Tracker awaits operation confirmation with fixed-interval polling.
// The underlying indexing process exposes only pull-based status, so
// polling is used rather than event subscription. Immutable after
// construction; safe for concurrent use across sessions.
type Tracker struct {
	poller   StatePoller
	interval time.Duration
	maxWait  time.Duration
	logger   *zap.Logger
}

// New creates a tracker. Non-positive interval or maxWait fall back to the
// defaults.
func New(poller StatePoller, interval, maxWait time.Duration, logger *zap.Logger) *Tracker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	return &Tracker{
		poller:   poller,
		interval: interval,
		maxWait:  maxWait,
		logger:   logger,
	}
}

// Await blocks until the operation reaches a terminal state or the deadline
// elapses. Outcomes, first observation wins:
//   - completed: returned with a nil error
//   - failed: CategoryOperationFailed
//   - deadline elapsed while non-terminal: CategoryConfirmationTimeout
//
// A maxWait of zero uses the tracker default. Transient status-query errors
// propagate immediately: state ambiguity is preferred over silently
// lengthening the wait past the caller's declared budget. Only one status
// request is in flight per call.
func (t *Tracker) Await(ctx context.Context, ref string, maxWait time.Duration) (privacy.OperationState, error) {
	if err := privacy.ValidateOperationRef(ref); err != nil {
		return privacy.StateIdle, err
	}
	if maxWait <= 0 {
		maxWait = t.maxWait
	}

	started := time.Now()
	deadline := started.Add(maxWait)
	waitCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	last := privacy.StateIdle
	for {
		state, err := t.poller.OperationState(waitCtx, ref)
		metrics.ConfirmationPolls.Inc()
		if err != nil {
			// The query may have been cut short by our own deadline.
			if waitCtx.Err() != nil {
				return t.finish(ctx, ref, last, started, deadline)
			}
			metrics.ConfirmationDuration.WithLabelValues("query_error").Observe(time.Since(started).Seconds())
			return last, apperrors.Wrap(apperrors.PhaseConfirm, "operation status query failed", err)
		}
		last = state

		switch state {
		case privacy.StateCompleted:
			t.logger.Info("Operation confirmed",
				zap.String("operation_ref", ref),
				zap.Duration("elapsed", time.Since(started)))
			metrics.ConfirmationDuration.WithLabelValues("completed").Observe(time.Since(started).Seconds())
			return state, nil
		case privacy.StateFailed:
			metrics.ConfirmationDuration.WithLabelValues("failed").Observe(time.Since(started).Seconds())
			return state, apperrors.OperationFailed(nil,
				fmt.Sprintf("operation %s reached failed state", ref))
		}

		select {
		case <-waitCtx.Done():
			return t.finish(ctx, ref, last, started, deadline)
		case <-ticker.C:
		}
	}
}

// finish classifies a context-terminated wait: our own deadline becomes a
// confirmation timeout, a canceled parent context propagates as-is.
func (t *Tracker) finish(parent context.Context, ref string, last privacy.OperationState, started time.Time, deadline time.Time) (privacy.OperationState, error) {
	if parent.Err() != nil && time.Now().Before(deadline) {
		metrics.ConfirmationDuration.WithLabelValues("canceled").Observe(time.Since(started).Seconds())
		return last, parent.Err()
	}

	t.logger.Warn("Confirmation deadline exceeded",
		zap.String("operation_ref", ref),
		zap.String("last_state", string(last)),
		zap.Duration("waited", time.Since(started)))
	metrics.ConfirmationDuration.WithLabelValues("timeout").Observe(time.Since(started).Seconds())
	return last, apperrors.ConfirmationTimeout(nil,
		fmt.Sprintf("operation %s still %s after %s", ref, last, time.Since(started).Round(time.Millisecond)))
}
