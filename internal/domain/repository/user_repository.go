package repository

import (
	"context"

	"github.com/oksasatya/go-accounts-service/internal/domain/entity"
	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
)

// UserRepository is the persistence port for user profiles. A nil tx means
// the operation runs outside any transaction; implementations that ignore
// transactions must still accept the parameter.
type UserRepository interface {
	// Create fails with ErrUserAlreadyExists when the id is taken. The
	// insert is atomic with respect to concurrent creates for the same id.
	Create(ctx context.Context, u entity.User, tx Transaction) error
	// Save writes the full entity under its id, creating or replacing.
	Save(ctx context.Context, u entity.User, tx Transaction) error
	GetByID(ctx context.Context, id valueobject.UserID, tx Transaction) (entity.User, error)
	GetByEmail(ctx context.Context, email valueobject.Email, tx Transaction) (entity.User, error)
	GetAll(ctx context.Context, tx Transaction) ([]entity.User, error)
	Delete(ctx context.Context, id valueobject.UserID, tx Transaction) error
}

// UserCredentialsRepository is the persistence port for authentication
// records, keyed by the owning user id.
type UserCredentialsRepository interface {
	// Create fails with ErrUserAlreadyExists when credentials for the same
	// email already exist.
	Create(ctx context.Context, c entity.UserCredentials, tx Transaction) error
	Save(ctx context.Context, c entity.UserCredentials, tx Transaction) error
	GetByEmail(ctx context.Context, email valueobject.Email, tx Transaction) (entity.UserCredentials, error)
	GetByUserID(ctx context.Context, userID string, tx Transaction) (entity.UserCredentials, error)
	Delete(ctx context.Context, userID string, tx Transaction) error
}
