package trading

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/mmchougule/private-position-ee/pkg/privacy"
)

type poolProviderMock struct {
	DeriveAddressFunc   func(ctx context.Context, publicAddress string, networkID uint64) (string, error)
	ShieldFunc          func(ctx context.Context, req privacy.ShieldRequest) (*privacy.Operation, error)
	UnshieldFunc        func(ctx context.Context, req privacy.UnshieldRequest) (*privacy.Operation, error)
	OperationStateFunc  func(ctx context.Context, ref string) (privacy.OperationState, error)
	ShieldedBalanceFunc func(ctx context.Context, address, token string, networkID uint64) (string, error)
}

func (m *poolProviderMock) DeriveAddress(ctx context.Context, publicAddress string, networkID uint64) (string, error) {
	return m.DeriveAddressFunc(ctx, publicAddress, networkID)
}

func (m *poolProviderMock) Shield(ctx context.Context, req privacy.ShieldRequest) (*privacy.Operation, error) {
	return m.ShieldFunc(ctx, req)
}

func (m *poolProviderMock) Unshield(ctx context.Context, req privacy.UnshieldRequest) (*privacy.Operation, error) {
	return m.UnshieldFunc(ctx, req)
}

func (m *poolProviderMock) OperationState(ctx context.Context, ref string) (privacy.OperationState, error) {
	return m.OperationStateFunc(ctx, ref)
}

func (m *poolProviderMock) ShieldedBalance(ctx context.Context, address, token string, networkID uint64) (string, error) {
	return m.ShieldedBalanceFunc(ctx, address, token, networkID)
}

type waiterMock struct {
	AwaitFunc func(ctx context.Context, ref string, maxWait time.Duration) (privacy.OperationState, error)
}

func (m *waiterMock) Await(ctx context.Context, ref string, maxWait time.Duration) (privacy.OperationState, error) {
	return m.AwaitFunc(ctx, ref, maxWait)
}

// completedWaiter resolves every awaited ref as completed.
func completedWaiter() *waiterMock {
	return &waiterMock{
		AwaitFunc: func(context.Context, string, time.Duration) (privacy.OperationState, error) {
			return privacy.StateCompleted, nil
		},
	}
}

type statusMock struct {
	CheckFunc func(ctx context.Context, mainAddress, incognitoAddress, token string) privacy.FundsStatus
}

func (m *statusMock) Check(ctx context.Context, mainAddress, incognitoAddress, token string) privacy.FundsStatus {
	return m.CheckFunc(ctx, mainAddress, incognitoAddress, token)
}

type journalMock struct {
	mu       sync.Mutex
	recorded []*privacy.Operation
	states   map[string]privacy.OperationState
}

func newJournalMock() *journalMock {
	return &journalMock{states: make(map[string]privacy.OperationState)}
}

func (m *journalMock) Record(_ context.Context, op *privacy.Operation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, op)
	return nil
}

func (m *journalMock) UpdateState(_ context.Context, ref string, state privacy.OperationState, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[ref] = state
	return nil
}

// fakePool is a stateful provider for end to end flow tests. It records
// every submission and immediately reports completed operations.
type fakePool struct {
	mu     sync.Mutex
	nextOp int
	ops    []*privacy.Operation
}

func (p *fakePool) submit(kind privacy.OperationKind, source, destination, token, amount string, networkID uint64) *privacy.Operation {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextOp++
	op := &privacy.Operation{
		Ref:         fmt.Sprintf("0x%064x", p.nextOp),
		Kind:        kind,
		Token:       token,
		Amount:      amount,
		Source:      source,
		Destination: destination,
		NetworkID:   networkID,
		State:       privacy.StateSubmitted,
		SubmittedAt: time.Now().UTC(),
	}
	p.ops = append(p.ops, op)
	return op
}

func (p *fakePool) DeriveAddress(_ context.Context, publicAddress string, networkID uint64) (string, error) {
	return deriveForTest(publicAddress, networkID), nil
}

func (p *fakePool) Shield(_ context.Context, req privacy.ShieldRequest) (*privacy.Operation, error) {
	return p.submit(privacy.KindShield, req.Source, "", req.Token, req.Amount, req.NetworkID), nil
}

func (p *fakePool) Unshield(_ context.Context, req privacy.UnshieldRequest) (*privacy.Operation, error) {
	return p.submit(privacy.KindUnshield, "", req.Destination, req.Token, req.Amount, req.NetworkID), nil
}

func (p *fakePool) OperationState(context.Context, string) (privacy.OperationState, error) {
	return privacy.StateCompleted, nil
}

func (p *fakePool) ShieldedBalance(context.Context, string, string, uint64) (string, error) {
	return "0", nil
}

// deriveForTest is a stand in derivation: stable per input and never equal
// to the public address.
func deriveForTest(publicAddress string, networkID uint64) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(publicAddress))
	_ = binary.Write(h, binary.BigEndian, networkID)
	return fmt.Sprintf("0x%040x", h.Sum64())
}
