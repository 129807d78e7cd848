// Package journal persists a record of submitted pool operations and the
// terminal states confirmation polling observed for them. The journal is
// an audit trail, not a source of truth: funds status is always recomputed
// from live balance queries.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/mmchougule/private-position-ee/pkg/privacy"
)

var ErrOperationNotFound = errors.New("operation not found")

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the operation journal
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

// Record inserts a newly submitted operation.
func (s *pgStore) Record(ctx context.Context, op *privacy.Operation) error {
	dao := toDao(op)

	_, err := s.db.NewInsert().
		Model(dao).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record operation: %w", err)
	}
	return nil
}

// UpdateState records the state confirmation polling observed. Terminal
// states also stamp the confirmation time; operations are never
// resurrected from a terminal state.
func (s *pgStore) UpdateState(ctx context.Context, ref string, state privacy.OperationState, errMsg string) error {
	q := s.db.NewUpdate().
		Model((*OperationDao)(nil)).
		Set("state = ?", string(state)).
		Set("updated_at = ?", time.Now().UTC()).
		Where("ref = ?", ref).
		Where("state NOT IN (?, ?)", string(privacy.StateCompleted), string(privacy.StateFailed))

	if state.Terminal() {
		q = q.Set("confirmed_at = ?", time.Now().UTC())
	}
	if errMsg != "" {
		q = q.Set("error_message = ?", errMsg)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update operation state: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrOperationNotFound
	}
	return nil
}

// Get retrieves an operation by its reference.
func (s *pgStore) Get(ctx context.Context, ref string) (*privacy.Operation, error) {
	dao := new(OperationDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("ref = ?", ref).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOperationNotFound
		}
		return nil, fmt.Errorf("failed to get operation: %w", err)
	}
	return toOperation(dao), nil
}

// ListPending returns operations that have not reached a terminal state.
func (s *pgStore) ListPending(ctx context.Context) ([]*privacy.Operation, error) {
	var daos []*OperationDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("state NOT IN (?, ?)", string(privacy.StateCompleted), string(privacy.StateFailed)).
		Order("submitted_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending operations: %w", err)
	}

	ops := make([]*privacy.Operation, 0, len(daos))
	for _, dao := range daos {
		ops = append(ops, toOperation(dao))
	}
	return ops, nil
}
