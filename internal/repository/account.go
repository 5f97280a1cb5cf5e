package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/briefboard/briefboard-server/internal/model"
)

type AccountRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Account, error)
	FindByHandle(ctx context.Context, handle string) (*model.Account, error)
	FindAll(ctx context.Context, limit, offset int) ([]model.Account, error)
	Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error)
	RecordLogin(ctx context.Context, id int64) error
	SetBlocked(ctx context.Context, id int64, blocked bool) (*model.Account, error)
	SetPasswordHash(ctx context.Context, id int64, hash string) (*model.Account, error)
	SetRole(ctx context.Context, id int64, role model.Role) (*model.Account, error)
	Count(ctx context.Context) (int, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) AccountRepository
}

type accountRepo struct {
	db sqlxDB
}

// sqlxDB is an interface satisfied by both *sqlx.DB and *sqlx.Tx
type sqlxDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func NewAccountRepository(db *sqlx.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) WithTx(tx *sqlx.Tx) AccountRepository {
	return &accountRepo{db: tx}
}

func (r *accountRepo) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		SELECT * FROM accounts WHERE id = $1
	`, id)
	return HandleNotFound(&account, err)
}

func (r *accountRepo) FindByHandle(ctx context.Context, handle string) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		SELECT * FROM accounts WHERE handle = $1
	`, handle)
	return HandleNotFound(&account, err)
}

func (r *accountRepo) FindAll(ctx context.Context, limit, offset int) ([]model.Account, error) {
	var accounts []model.Account
	err := r.db.SelectContext(ctx, &accounts, `
		SELECT * FROM accounts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepo) Create(ctx context.Context, params model.CreateAccountParams) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		INSERT INTO accounts (handle, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.Handle, params.PasswordHash, params.Role)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepo) RecordLogin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE accounts SET
			login_count = login_count + 1,
			last_login_at = $2
		WHERE id = $1
	`, id, time.Now())
	return err
}

func (r *accountRepo) SetBlocked(ctx context.Context, id int64, blocked bool) (*model.Account, error) {
	var blockedAt *time.Time
	if blocked {
		now := time.Now()
		blockedAt = &now
	}

	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		UPDATE accounts SET blocked_at = $2
		WHERE id = $1
		RETURNING *
	`, id, blockedAt)
	return HandleNotFound(&account, err)
}

func (r *accountRepo) SetPasswordHash(ctx context.Context, id int64, hash string) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		UPDATE accounts SET password_hash = $2
		WHERE id = $1
		RETURNING *
	`, id, hash)
	return HandleNotFound(&account, err)
}

func (r *accountRepo) SetRole(ctx context.Context, id int64, role model.Role) (*model.Account, error) {
	var account model.Account
	err := r.db.GetContext(ctx, &account, `
		UPDATE accounts SET role = $2
		WHERE id = $1
		RETURNING *
	`, id, role)
	return HandleNotFound(&account, err)
}

func (r *accountRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM accounts`)
	return count, err
}
