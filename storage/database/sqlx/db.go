// Package sqlxrepos implements the gateway repositories on PostgreSQL with sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/classhub/core"
	"github.com/trezcool/classhub/core/gateway"
)

const uniqueViolation = "unique_violation"

// Repositories returns the repositories backed by db, with files as object store.
func Repositories(db core.DB, files gateway.FileStore) gateway.Repositories {
	return gateway.Repositories{
		Identities: NewIdentityRepository(db),
		Items:      NewItemRepository(db),
		Resources:  NewResourceRepository(db),
		Timetable:  NewTimetableRepository(db),
		Files:      files,
	}
}

// trapNoRowsErr maps psql "no rows" err to core.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return core.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == uniqueViolation
}

// inTx runs fn in a transaction, committed when fn succeeds.
func inTx(ctx context.Context, db core.DB, fn func(tx core.DBTransactor) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}
