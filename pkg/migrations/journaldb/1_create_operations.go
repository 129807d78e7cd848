package journaldb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/mmchougule/private-position-ee/pkg/journal"
	mghelper "github.com/mmchougule/private-position-ee/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating operations table...")
		if err := mghelper.CreateSchema(ctx, db, &journal.OperationDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &journal.OperationDao{}, "state", "kind")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping operations table...")
		return mghelper.DropTables(ctx, db, &journal.OperationDao{})
	})
}
