package sqlxrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/SELab-2/Dwengo-1/core"
	"github.com/SELab-2/Dwengo-1/core/classroom"
)

const uniqueViolation = "23505"

// psql builds postgres statements ($n placeholders).
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type txKey struct{}

// Transactor runs functions inside a sqlx transaction stored in the context.
type Transactor struct {
	db *sqlx.DB
}

var _ core.Transactor = (*Transactor)(nil)

func NewTransactor(db *sqlx.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

// base gives repositories access to the transaction in ctx, or the pool.
type base struct {
	db *sqlx.DB
}

func (b base) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return b.db
}

func (b base) get(ctx context.Context, dest interface{}, q sq.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return sqlx.GetContext(ctx, b.ext(ctx), dest, query, args...)
}

func (b base) selectAll(ctx context.Context, dest interface{}, q sq.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return sqlx.SelectContext(ctx, b.ext(ctx), dest, query, args...)
}

func (b base) exec(ctx context.Context, q sq.Sqlizer) (sql.Result, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	return b.ext(ctx).ExecContext(ctx, query, args...)
}

func (b base) exists(ctx context.Context, q sq.SelectBuilder) (bool, error) {
	query, args, err := existsQuery(q)
	if err != nil {
		return false, errors.Wrap(err, "building query")
	}
	var ok bool
	err = sqlx.GetContext(ctx, b.ext(ctx), &ok, query, args...)
	return ok, err
}

func existsQuery(q sq.SelectBuilder) (string, []interface{}, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "SELECT EXISTS (" + query + ")", args, nil
}

// isUniqueViolation understands both lib/pq and pgx errors.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}

func isNoRows(err error) bool {
	return errors.Cause(err) == sql.ErrNoRows
}

// NewStore bundles the sqlx repositories into a classroom.Store.
func NewStore(db *sqlx.DB) classroom.Store {
	return classroom.Store{
		Tx:            NewTransactor(db),
		Users:         NewUserRepository(db),
		LearningPaths: NewLearningRepository(db),
		Classes:       NewClassRepository(db),
		Assignments:   NewAssignmentRepository(db),
		Teams:         NewTeamRepository(db),
	}
}
