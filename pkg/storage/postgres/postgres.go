package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"userservice/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// Options holds the connection settings of the PostgreSQL backend.
type Options struct {
	Username string
	Password string
	Host     string
	// SslMode is passed verbatim as the sslmode connection parameter.
	SslMode  string
	Port     int
	Database string

	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	// MaxOpenConnections caps the pool size; zero keeps the pgx default.
	MaxOpenConnections int
	// MaxIdleConnections is the number of connections kept warm in the pool.
	MaxIdleConnections int
}

// ConnString renders the options as a libpq key/value connection string.
func (o Options) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=%s",
		o.Host,
		o.Port,
		o.Username,
		o.Database,
		o.Password,
		o.SslMode)
}

// DB is the part of database/sql shared by *sql.DB and *sql.Tx.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Builder is the part of goqu shared by *goqu.Database and *goqu.TxDatabase.
type Builder interface {
	From(table ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
	Update(table interface{}) *goqu.UpdateDataset
}

// PgSQL is the PostgreSQL implementation of storage.Storage and
// storage.TxStorage. A handle whose DB is a *sql.Tx is bound to a transaction.
type PgSQL struct {
	DB      DB
	Builder Builder
	// Pool is nil on transaction-bound handles.
	Pool *pgxpool.Pool
}

var (
	_ storage.Storage   = (*PgSQL)(nil)
	_ storage.TxStorage = (*PgSQL)(nil)
)

// Close closes the *sql.DB wrapper and the pgx pool beneath it.
func (p *PgSQL) Close() error {
	if db, ok := p.DB.(*sql.DB); ok {
		if err := db.Close(); err != nil {
			return fmt.Errorf("could not close sql db: %w", err)
		}
	}
	if p.Pool != nil {
		p.Pool.Close()
	}

	return nil
}

// Ping checks that the database is reachable.
func (p *PgSQL) Ping(ctx context.Context) error {
	db, ok := p.DB.(*sql.DB)
	if !ok {
		return storage.ErrAlreadyInTx
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("could not ping postgres: %w", err)
	}

	return nil
}

// Commit commits the bound transaction.
func (p *PgSQL) Commit() error {
	db, ok := p.DB.(*sql.Tx)
	if !ok {
		return storage.ErrNotInTx
	}

	if err := db.Commit(); err != nil {
		return fmt.Errorf("could not commit tx: %w", err)
	}

	return nil
}

// Rollback aborts the bound transaction.
func (p *PgSQL) Rollback() error {
	db, ok := p.DB.(*sql.Tx)
	if !ok {
		return storage.ErrNotInTx
	}

	if err := db.Rollback(); err != nil {
		return fmt.Errorf("could not rollback tx: %w", err)
	}

	return nil
}

// Begin opens a transaction. Nested transactions are not supported.
func (p *PgSQL) Begin(ctx context.Context) (storage.TxStorage, error) {
	db, ok := p.DB.(*sql.DB)
	if !ok {
		return nil, storage.ErrAlreadyInTx
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin tx: %w", err)
	}

	return &PgSQL{
		DB:      tx,
		Builder: goqu.NewTx("postgres", tx),
	}, nil
}

// WithTx runs cb in a transaction and commits unless cb fails.
func (p *PgSQL) WithTx(ctx context.Context, cb func(storage storage.AllStorage) error) error {
	tx, err := p.Begin(ctx)
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		_ = tx.Rollback()

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit tx: %w", err)
	}

	return nil
}

// New opens a pgx pool and wraps it in a *sql.DB so goqu, goose and the
// river database/sql driver can share it.
func New(ctx context.Context, options Options) (*PgSQL, error) {
	cfg, err := pgxpool.ParseConfig(options.ConnString())
	if err != nil {
		return nil, fmt.Errorf("could not parse pgxpool config: %w", err)
	}
	if options.MaxOpenConnections > 0 {
		cfg.MaxConns = int32(options.MaxOpenConnections) //nolint: gosec
	}
	if options.MaxIdleConnections > 0 {
		cfg.MinConns = int32(options.MaxIdleConnections) //nolint: gosec
	}
	if options.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = options.ConnMaxLifetime
	}
	if options.ConnMaxIdleTime > 0 {
		cfg.MaxConnIdleTime = options.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create pgx Pool: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	return &PgSQL{
		DB:      sqlDB,
		Builder: goqu.Dialect("postgres").DB(sqlDB),
		Pool:    pool,
	}, nil
}
