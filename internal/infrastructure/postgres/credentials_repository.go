package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-accounts-service/internal/domain/entity"
	"github.com/oksasatya/go-accounts-service/internal/domain/repository"
	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
)

// CredentialsRepository persists authentication records in user_credentials,
// unique per email.
type CredentialsRepository struct {
	pool *pgxpool.Pool
}

func NewCredentialsRepository(pool *pgxpool.Pool) *CredentialsRepository {
	return &CredentialsRepository{pool: pool}
}

func (r *CredentialsRepository) q(tx repository.Transaction) querier {
	if h, ok := tx.(*pgTx); ok && h != nil {
		return h.tx
	}
	return r.pool
}

const credColumns = `email, password_hash, user_id, is_active, last_login_at, created_at, updated_at`

func scanCredentials(row pgx.Row) (entity.UserCredentials, error) {
	var (
		emailRaw  string
		hash      string
		userID    string
		isActive  bool
		lastLogin *time.Time
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&emailRaw, &hash, &userID, &isActive, &lastLogin, &createdAt, &updatedAt); err != nil {
		return entity.UserCredentials{}, err
	}
	email, err := valueobject.NewEmail(emailRaw)
	if err != nil {
		return entity.UserCredentials{}, err
	}
	password, err := valueobject.PasswordFromHash(hash)
	if err != nil {
		return entity.UserCredentials{}, err
	}
	return entity.UserCredentials{
		Email:       email,
		Password:    password,
		UserID:      userID,
		IsActive:    isActive,
		LastLoginAt: lastLogin,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func (r *CredentialsRepository) Create(ctx context.Context, c entity.UserCredentials, tx repository.Transaction) error {
	_, err := r.q(tx).Exec(ctx, `
		INSERT INTO user_credentials (email, password_hash, user_id, is_active, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.Email.String(), c.Password.Hash(), c.UserID, c.IsActive, c.LastLoginAt, c.CreatedAt, c.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: email %s", repository.ErrUserAlreadyExists, c.Email)
	}
	return err
}

func (r *CredentialsRepository) Save(ctx context.Context, c entity.UserCredentials, tx repository.Transaction) error {
	_, err := r.q(tx).Exec(ctx, `
		INSERT INTO user_credentials (email, password_hash, user_id, is_active, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			is_active = EXCLUDED.is_active,
			last_login_at = EXCLUDED.last_login_at,
			updated_at = EXCLUDED.updated_at
	`, c.Email.String(), c.Password.Hash(), c.UserID, c.IsActive, c.LastLoginAt, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *CredentialsRepository) GetByEmail(ctx context.Context, email valueobject.Email, tx repository.Transaction) (entity.UserCredentials, error) {
	c, err := scanCredentials(r.q(tx).QueryRow(ctx, `SELECT `+credColumns+` FROM user_credentials WHERE email = $1`, email.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.UserCredentials{}, fmt.Errorf("%w: email %s", repository.ErrCredentialsNotFound, email)
	}
	return c, err
}

func (r *CredentialsRepository) GetByUserID(ctx context.Context, userID string, tx repository.Transaction) (entity.UserCredentials, error) {
	c, err := scanCredentials(r.q(tx).QueryRow(ctx, `SELECT `+credColumns+` FROM user_credentials WHERE user_id = $1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.UserCredentials{}, fmt.Errorf("%w: user %s", repository.ErrCredentialsNotFound, userID)
	}
	return c, err
}

func (r *CredentialsRepository) Delete(ctx context.Context, userID string, tx repository.Transaction) error {
	res, err := r.q(tx).Exec(ctx, `DELETE FROM user_credentials WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", repository.ErrCredentialsNotFound, userID)
	}
	return nil
}

var _ repository.UserCredentialsRepository = (*CredentialsRepository)(nil)
