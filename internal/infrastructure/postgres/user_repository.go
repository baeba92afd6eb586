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

const uniqueViolation = "23505"

// querier is satisfied by both the pool and a pgx transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository persists profiles in the users table. The unique index on
// email is what makes Create race-free.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) q(tx repository.Transaction) querier {
	if h, ok := tx.(*pgTx); ok && h != nil {
		return h.tx
	}
	return r.pool
}

type userRow struct {
	ID           string
	Email        string
	Name         string
	ProfileImage *string
	IsActive     bool
	IsVerified   bool
	Role         string
	Plan         string
	CreatedAt    time.Time
}

func (row userRow) toEntity() (entity.User, error) {
	id, err := valueobject.NewUserID(row.ID)
	if err != nil {
		return entity.User{}, err
	}
	email, err := valueobject.NewEmail(row.Email)
	if err != nil {
		return entity.User{}, err
	}
	name, err := valueobject.NewUserName(row.Name)
	if err != nil {
		return entity.User{}, err
	}
	u := entity.User{
		ID:         id,
		Email:      email,
		Name:       name,
		IsActive:   row.IsActive,
		IsVerified: row.IsVerified,
		Role:       valueobject.Role(row.Role),
		Plan:       valueobject.Plan(row.Plan),
		CreatedAt:  row.CreatedAt,
	}
	if row.ProfileImage != nil {
		u.ProfileImage = *row.ProfileImage
	}
	return u, nil
}

func profileImageParam(u entity.User) *string {
	if u.ProfileImage == "" {
		return nil
	}
	v := u.ProfileImage
	return &v
}

const userColumns = `id, email, name, profile_image, is_active, is_verified, role, plan, created_at`

func scanUser(row pgx.Row) (entity.User, error) {
	var r userRow
	if err := row.Scan(&r.ID, &r.Email, &r.Name, &r.ProfileImage, &r.IsActive, &r.IsVerified, &r.Role, &r.Plan, &r.CreatedAt); err != nil {
		return entity.User{}, err
	}
	return r.toEntity()
}

func (r *UserRepository) Create(ctx context.Context, u entity.User, tx repository.Transaction) error {
	_, err := r.q(tx).Exec(ctx, `
		INSERT INTO users (id, email, name, profile_image, is_active, is_verified, role, plan, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, u.ID.String(), u.Email.String(), u.Name.String(), profileImageParam(u), u.IsActive, u.IsVerified, u.Role.String(), u.Plan.String(), u.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: email %s", repository.ErrUserAlreadyExists, u.Email)
	}
	return err
}

func (r *UserRepository) Save(ctx context.Context, u entity.User, tx repository.Transaction) error {
	_, err := r.q(tx).Exec(ctx, `
		INSERT INTO users (id, email, name, profile_image, is_active, is_verified, role, plan, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			profile_image = EXCLUDED.profile_image,
			is_active = EXCLUDED.is_active,
			is_verified = EXCLUDED.is_verified,
			role = EXCLUDED.role,
			plan = EXCLUDED.plan
	`, u.ID.String(), u.Email.String(), u.Name.String(), profileImageParam(u), u.IsActive, u.IsVerified, u.Role.String(), u.Plan.String(), u.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: email %s", repository.ErrUserAlreadyExists, u.Email)
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id valueobject.UserID, tx repository.Transaction) (entity.User, error) {
	u, err := scanUser(r.q(tx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.User{}, fmt.Errorf("%w: id %s", repository.ErrUserNotFound, id)
	}
	return u, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email valueobject.Email, tx repository.Transaction) (entity.User, error) {
	u, err := scanUser(r.q(tx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.User{}, fmt.Errorf("%w: email %s", repository.ErrUserNotFound, email)
	}
	return u, err
}

func (r *UserRepository) GetAll(ctx context.Context, tx repository.Transaction) ([]entity.User, error) {
	rows, err := r.q(tx).Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Delete(ctx context.Context, id valueobject.UserID, tx repository.Transaction) error {
	res, err := r.q(tx).Exec(ctx, `DELETE FROM users WHERE id = $1`, id.String())
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%w: id %s", repository.ErrUserNotFound, id)
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
