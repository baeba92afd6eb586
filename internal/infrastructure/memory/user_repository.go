package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/oksasatya/go-accounts-service/internal/domain/entity"
	"github.com/oksasatya/go-accounts-service/internal/domain/repository"
	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
)

func txID(tx repository.Transaction) string {
	if tx == nil {
		return ""
	}
	return tx.ID()
}

// UserRepository stores profiles keyed by user id, with a unique email index
// so concurrent creates for the same address cannot both win. Writes span
// both stores, so mu serializes them to keep the index and the entities in
// agreement at every point.
type UserRepository struct {
	mu     sync.Mutex
	users  *store[entity.User]
	emails *store[string] // email -> user id
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: newStore[entity.User](), emails: newStore[string]()}
}

func (r *UserRepository) Create(ctx context.Context, u entity.User, tx repository.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := txID(tx)
	if !r.emails.putIfAbsent(u.Email.String(), u.ID.String(), id) {
		return fmt.Errorf("%w: email %s", repository.ErrUserAlreadyExists, u.Email)
	}
	if !r.users.putIfAbsent(u.ID.String(), u, id) {
		r.emails.remove(u.Email.String(), id)
		return fmt.Errorf("%w: id %s", repository.ErrUserAlreadyExists, u.ID)
	}
	return nil
}

func (r *UserRepository) Save(ctx context.Context, u entity.User, tx repository.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := txID(tx)
	if prev, ok := r.users.get(u.ID.String(), id); ok && !prev.Email.Equals(u.Email) {
		if !r.emails.putIfAbsent(u.Email.String(), u.ID.String(), id) {
			return fmt.Errorf("%w: email %s", repository.ErrUserAlreadyExists, u.Email)
		}
		r.emails.remove(prev.Email.String(), id)
	} else if !ok {
		r.emails.put(u.Email.String(), u.ID.String(), id)
	}
	r.users.put(u.ID.String(), u, id)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id valueobject.UserID, tx repository.Transaction) (entity.User, error) {
	u, ok := r.users.get(id.String(), txID(tx))
	if !ok {
		return entity.User{}, fmt.Errorf("%w: id %s", repository.ErrUserNotFound, id)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email valueobject.Email, tx repository.Transaction) (entity.User, error) {
	id, ok := r.emails.get(email.String(), txID(tx))
	if !ok {
		return entity.User{}, fmt.Errorf("%w: email %s", repository.ErrUserNotFound, email)
	}
	u, ok := r.users.get(id, txID(tx))
	if !ok {
		return entity.User{}, fmt.Errorf("%w: email %s", repository.ErrUserNotFound, email)
	}
	return u, nil
}

func (r *UserRepository) GetAll(ctx context.Context, tx repository.Transaction) ([]entity.User, error) {
	return r.users.all(txID(tx)), nil
}

func (r *UserRepository) Delete(ctx context.Context, id valueobject.UserID, tx repository.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users.get(id.String(), txID(tx))
	if !ok {
		return fmt.Errorf("%w: id %s", repository.ErrUserNotFound, id)
	}
	r.emails.remove(u.Email.String(), txID(tx))
	r.users.remove(id.String(), txID(tx))
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
