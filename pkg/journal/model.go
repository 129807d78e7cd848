package journal

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/mmchougule/private-position-ee/pkg/privacy"
)

// OperationDao maps directly to the 'operations' table.
type OperationDao struct {
	bun.BaseModel `bun:"table:operations"`

	Ref          string     `bun:"ref,pk,type:VARCHAR(66)"`
	Kind         string     `bun:"kind,notnull,type:VARCHAR(16)"`
	Token        string     `bun:"token,notnull,type:VARCHAR(32)"`
	Amount       string     `bun:"amount,notnull,type:NUMERIC(38,18)"`
	Source       string     `bun:"source,type:VARCHAR(42)"`
	Destination  string     `bun:"destination,type:VARCHAR(42)"`
	NetworkID    int64      `bun:"network_id,notnull"`
	State        string     `bun:"state,notnull,type:VARCHAR(20)"`
	ErrorMessage *string    `bun:"error_message,type:TEXT"`
	SubmittedAt  time.Time  `bun:"submitted_at,notnull"`
	ConfirmedAt  *time.Time `bun:"confirmed_at"`
	UpdatedAt    time.Time  `bun:"updated_at,notnull,default:now()"`
}

func toDao(op *privacy.Operation) *OperationDao {
	return &OperationDao{
		Ref:         op.Ref,
		Kind:        string(op.Kind),
		Token:       op.Token,
		Amount:      op.Amount,
		Source:      op.Source,
		Destination: op.Destination,
		NetworkID:   int64(op.NetworkID),
		State:       string(op.State),
		SubmittedAt: op.SubmittedAt,
		ConfirmedAt: op.ConfirmedAt,
		UpdatedAt:   time.Now().UTC(),
	}
}

func toOperation(dao *OperationDao) *privacy.Operation {
	return &privacy.Operation{
		Ref:         dao.Ref,
		Kind:        privacy.OperationKind(dao.Kind),
		Token:       dao.Token,
		Amount:      dao.Amount,
		Source:      dao.Source,
		Destination: dao.Destination,
		NetworkID:   uint64(dao.NetworkID),
		State:       privacy.OperationState(dao.State),
		SubmittedAt: dao.SubmittedAt,
		ConfirmedAt: dao.ConfirmedAt,
	}
}
