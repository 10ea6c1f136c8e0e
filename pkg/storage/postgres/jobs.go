package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
)

// AddJob inserts a river job. On a transaction-bound handle the insert joins
// the transaction; otherwise it is visible as soon as it returns.
func (p *PgSQL) AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	if tx, ok := p.DB.(*sql.Tx); ok {
		client, err := river.NewClient[*sql.Tx](riverdatabasesql.New(nil), &river.Config{})
		if err != nil {
			return false, fmt.Errorf("could not create river queue client: %w", err)
		}

		job, err := client.InsertTx(ctx, tx, args, opts)
		if err != nil {
			return false, fmt.Errorf("could not insert job: %w", err)
		}

		return !job.UniqueSkippedAsDuplicate, nil
	}

	db, ok := p.DB.(*sql.DB)
	if !ok {
		return false, fmt.Errorf("unsupported executor %T", p.DB)
	}

	client, err := river.NewClient(riverdatabasesql.New(db), &river.Config{})
	if err != nil {
		return false, fmt.Errorf("could not create river queue client: %w", err)
	}

	job, err := client.Insert(ctx, args, opts)
	if err != nil {
		return false, fmt.Errorf("could not insert job: %w", err)
	}

	return !job.UniqueSkippedAsDuplicate, nil
}
