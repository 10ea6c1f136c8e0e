package postgres

import (
	"database/sql"
	"time"
	"userservice/pkg/domain"
)

// PgUser is the row shape of the users table.
type PgUser struct {
	ID    int64          `db:"id"`
	Name  string         `db:"name"`
	Email sql.NullString `db:"email"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
}

func (p *PgUser) ToDomain() domain.User {
	return domain.User{
		ID:        domain.UserID(p.ID),
		Name:      p.Name,
		Email:     p.Email.String,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt.Time,
	}
}

func (p *PgUser) FromDomain(user domain.User) {
	*p = PgUser{
		ID:   int64(user.ID),
		Name: user.Name,
		Email: sql.NullString{
			String: user.Email,
			Valid:  user.Email != "",
		},
	}
}
