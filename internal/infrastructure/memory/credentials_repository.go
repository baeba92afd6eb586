package memory

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-accounts-service/internal/domain/entity"
	"github.com/oksasatya/go-accounts-service/internal/domain/repository"
	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
)

// CredentialsRepository stores authentication records keyed by email, which
// doubles as the uniqueness constraint.
type CredentialsRepository struct {
	creds *store[entity.UserCredentials]
}

func NewCredentialsRepository() *CredentialsRepository {
	return &CredentialsRepository{creds: newStore[entity.UserCredentials]()}
}

func (r *CredentialsRepository) Create(ctx context.Context, c entity.UserCredentials, tx repository.Transaction) error {
	if !r.creds.putIfAbsent(c.Email.String(), c, txID(tx)) {
		return fmt.Errorf("%w: email %s", repository.ErrUserAlreadyExists, c.Email)
	}
	return nil
}

func (r *CredentialsRepository) Save(ctx context.Context, c entity.UserCredentials, tx repository.Transaction) error {
	r.creds.put(c.Email.String(), c, txID(tx))
	return nil
}

func (r *CredentialsRepository) GetByEmail(ctx context.Context, email valueobject.Email, tx repository.Transaction) (entity.UserCredentials, error) {
	c, ok := r.creds.get(email.String(), txID(tx))
	if !ok {
		return entity.UserCredentials{}, fmt.Errorf("%w: email %s", repository.ErrCredentialsNotFound, email)
	}
	return c, nil
}

func (r *CredentialsRepository) GetByUserID(ctx context.Context, userID string, tx repository.Transaction) (entity.UserCredentials, error) {
	for _, c := range r.creds.all(txID(tx)) {
		if c.UserID == userID {
			return c, nil
		}
	}
	return entity.UserCredentials{}, fmt.Errorf("%w: user %s", repository.ErrCredentialsNotFound, userID)
}

func (r *CredentialsRepository) Delete(ctx context.Context, userID string, tx repository.Transaction) error {
	c, err := r.GetByUserID(ctx, userID, tx)
	if err != nil {
		return err
	}
	r.creds.remove(c.Email.String(), txID(tx))
	return nil
}

var _ repository.UserCredentialsRepository = (*CredentialsRepository)(nil)

// Backend bundles the in-memory adapters with a tx manager that coordinates
// their stores. This is the wiring unit handed to the composition root.
type Backend struct {
	Users       *UserRepository
	Credentials *CredentialsRepository
	Tx          *TxManager
}

func NewBackend() *Backend {
	users := NewUserRepository()
	creds := NewCredentialsRepository()
	return &Backend{
		Users:       users,
		Credentials: creds,
		Tx:          NewTxManager(users.users, users.emails, creds.creds),
	}
}
