package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"userservice/pkg/domain"
	"userservice/pkg/storage"

	"github.com/doug-martin/goqu/v9"
)

const (
	usersTable = "users"
)

// FindUser returns the name stored for id, or an empty string if no such user exists.
func (p *PgSQL) FindUser(ctx context.Context, id domain.UserID) (string, error) {
	var name string
	found, err := p.Builder.From(usersTable).
		Select("name").
		Where(goqu.I("id").Eq(int64(id))).
		Executor().ScanValContext(ctx, &name)
	if err != nil {
		return "", fmt.Errorf("could not find user in pg: %w", err)
	}
	if !found {
		return "", nil
	}

	return name, nil
}

// SaveUser upserts the user by ID and enqueues a UserSaved job in the same
// transaction. A handle that is not bound to a transaction opens one.
func (p *PgSQL) SaveUser(ctx context.Context, user domain.User) error {
	if _, inTx := p.DB.(*sql.Tx); !inTx {
		return p.WithTx(ctx, func(tx storage.AllStorage) error {
			return tx.SaveUser(ctx, user)
		})
	}

	var row PgUser
	row.FromDomain(user)

	_, err := p.Builder.Insert(usersTable).
		Rows(row).
		OnConflict(goqu.DoUpdate("id", goqu.Record{
			"name":       goqu.L("EXCLUDED.name"),
			"email":      goqu.L("EXCLUDED.email"),
			"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		})).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not upsert user in pg: %w", err)
	}

	if _, err := p.AddJob(ctx, storage.UserSavedArgs{UserID: user.ID}, nil); err != nil {
		return fmt.Errorf("could not enqueue user saved job: %w", err)
	}

	return nil
}
