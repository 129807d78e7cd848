// Package status aggregates independently-fetched balances into one
// coherent funds readiness snapshot.
package status

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmchougule/private-position-ee/internal/metrics"
	"github.com/mmchougule/private-position-ee/pkg/privacy"
)

// ShieldedBalanceReader reads the shielded-pool balance for an address.
type ShieldedBalanceReader interface {
	ShieldedBalance(ctx context.Context, address, token string, networkID uint64) (string, error)
}

// Aggregator combines the shielded-pool balance and the incognito-wallet
// balance into a FundsStatus snapshot. It never returns an error: status
// checks must not crash a polling loop, so read failures degrade to an
// ERROR snapshot instead.
type Aggregator struct {
	pool      ShieldedBalanceReader
	chain     privacy.ChainDataProvider
	networkID uint64
	logger    *zap.Logger
}

// New creates an aggregator. chain may be nil; main-wallet balance is then
// omitted from snapshots and the incognito balance is read from the pool
// provider's view of the address.
func New(pool ShieldedBalanceReader, chain privacy.ChainDataProvider, networkID uint64, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		pool:      pool,
		chain:     chain,
		networkID: networkID,
		logger:    logger,
	}
}

// Check performs the balance reads and computes readiness. Both primary
// reads run concurrently and may complete in any order; either failure
// yields PoolStatus ERROR with the captured message. Every call re-queries
// both sources; LastUpdated is the read time, never a cache time.
func (a *Aggregator) Check(ctx context.Context, mainAddress, incognitoAddress, token string) privacy.FundsStatus {
	now := time.Now().UTC()

	if err := privacy.ValidateAddress(mainAddress); err != nil {
		return a.degraded(err, now)
	}
	if err := privacy.ValidateAddress(incognitoAddress); err != nil {
		return a.degraded(err, now)
	}

	var (
		wg                sync.WaitGroup
		shielded, incog   string
		shieldErr, incErr error
		mainBalance       string
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		shielded, shieldErr = a.pool.ShieldedBalance(ctx, mainAddress, token, a.networkID)
	}()
	go func() {
		defer wg.Done()
		incog, incErr = a.incognitoBalance(ctx, incognitoAddress, token)
	}()
	wg.Wait()

	if shieldErr != nil {
		return a.degraded(shieldErr, now)
	}
	if incErr != nil {
		return a.degraded(incErr, now)
	}

	// Main-wallet balance is informational only; readiness never depends
	// on it and a failed read does not degrade the snapshot.
	if a.chain != nil {
		mb, err := a.chain.MainBalance(ctx, mainAddress, token, a.networkID)
		if err != nil {
			a.logger.Debug("Main wallet balance read failed", zap.Error(err))
		} else {
			mainBalance = mb
		}
	}

	shieldedDec, err := decimal.NewFromString(shielded)
	if err != nil {
		return a.degraded(err, now)
	}
	incogDec, err := decimal.NewFromString(incog)
	if err != nil {
		return a.degraded(err, now)
	}

	isReady := shieldedDec.IsPositive() || incogDec.IsPositive()
	poolStatus := privacy.PoolStatusNotInitialized
	if isReady {
		poolStatus = privacy.PoolStatusReady
	}

	metrics.StatusChecks.WithLabelValues(string(poolStatus)).Inc()
	return privacy.FundsStatus{
		ShieldedBalance:  shielded,
		IncognitoBalance: incog,
		MainBalance:      mainBalance,
		PoolStatus:       poolStatus,
		IsReady:          isReady,
		TransactionState: privacy.StateIdle,
		LastUpdated:      now,
	}
}

func (a *Aggregator) incognitoBalance(ctx context.Context, address, token string) (string, error) {
	if a.chain != nil {
		return a.chain.IncognitoBalance(ctx, address, token, a.networkID)
	}
	return a.pool.ShieldedBalance(ctx, address, token, a.networkID)
}

func (a *Aggregator) degraded(err error, now time.Time) privacy.FundsStatus {
	a.logger.Warn("Funds status check degraded", zap.Error(err))
	metrics.StatusChecks.WithLabelValues("error").Inc()
	return privacy.FundsStatus{
		ShieldedBalance:  "0",
		IncognitoBalance: "0",
		PoolStatus:       privacy.PoolStatusError,
		IsReady:          false,
		TransactionState: privacy.StateFailed,
		Error:            err.Error(),
		LastUpdated:      now,
	}
}
