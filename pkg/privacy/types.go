// Package privacy defines the domain types shared by the private-position
// workflow: operations moving value in and out of the shielded pool, the
// derived incognito wallet, and point-in-time funds status snapshots.
package privacy

import (
	"time"
)

// OperationState represents the lifecycle state of a shield or unshield
// operation. completed and failed are terminal; no transition leaves them.
type OperationState string

const (
	StateIdle       OperationState = "idle"
	StateSubmitted  OperationState = "submitted"
	StateConfirming OperationState = "confirming"
	StateIndexing   OperationState = "indexing"
	StateCompleted  OperationState = "completed"
	StateFailed     OperationState = "failed"
)

// Terminal reports whether no further transitions can leave the state.
func (s OperationState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// OperationKind indicates the direction of a pool operation
type OperationKind string

const (
	// KindShield moves value from a public address into the shielded pool
	KindShield OperationKind = "shield"
	// KindUnshield moves value from the shielded pool to a destination address
	KindUnshield OperationKind = "unshield"
)

// Operation is the handle for one shield or unshield submission. It is
// created in the submitted state and mutated only as confirmation polling
// observes new states; it is never resurrected after reaching a terminal
// state.
type Operation struct {
	Ref         string
	Kind        OperationKind
	Token       string
	Amount      string
	Source      string
	Destination string
	NetworkID   uint64
	State       OperationState
	SubmittedAt time.Time
	ConfirmedAt *time.Time
}

// IncognitoWallet is an address derived from a main wallet such that the
// two cannot be linked on-chain. Created once per session and never
// mutated, only superseded by deriving a new one.
type IncognitoWallet struct {
	Address     string
	MainAddress string
	NetworkID   uint64
	Label       string
	CreatedAt   time.Time
	Active      bool
}

// PoolStatus summarizes shielded-pool availability for a funds snapshot
type PoolStatus string

const (
	PoolStatusNotInitialized PoolStatus = "NOT_INITIALIZED"
	PoolStatusReady          PoolStatus = "READY"
	PoolStatusError          PoolStatus = "ERROR"
)

// FundsStatus is a point-in-time view of where funds currently sit. It is
// never persisted; every snapshot is recomputed from live balance queries.
// A snapshot may race an in-flight operation and legitimately observe a
// stale balance, so callers must treat it as a hint, not a transactional
// read.
type FundsStatus struct {
	ShieldedBalance  string         `json:"shielded_balance"`
	IncognitoBalance string         `json:"incognito_balance"`
	MainBalance      string         `json:"main_balance,omitempty"`
	PoolStatus       PoolStatus     `json:"pool_status"`
	IsReady          bool           `json:"is_ready"`
	TransactionState OperationState `json:"transaction_state"`
	Error            string         `json:"error,omitempty"`
	LastUpdated      time.Time      `json:"last_updated"`
}
