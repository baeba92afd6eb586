package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-accounts-service/internal/domain/entity"
	"github.com/oksasatya/go-accounts-service/internal/domain/repository"
	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so error messages cannot be used to enumerate accounts.
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrUserInactive           = errors.New("user is inactive")
	ErrInvalidCurrentPassword = errors.New("current password is incorrect")
)

// AuthService owns the credential lifecycle: registration, authentication
// and password changes. It never commits or rolls back; transaction
// boundaries belong to the calling use case.
type AuthService struct {
	Creds  repository.UserCredentialsRepository
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewAuthService(creds repository.UserCredentialsRepository, logger *logrus.Logger) *AuthService {
	return &AuthService{Creds: creds, Logger: logger, Now: time.Now}
}

func (s *AuthService) RegisterCredentials(ctx context.Context, email valueobject.Email, password valueobject.Password, userID string, tx repository.Transaction) (entity.UserCredentials, error) {
	if _, err := s.Creds.GetByEmail(ctx, email, tx); err == nil {
		return entity.UserCredentials{}, fmt.Errorf("%w: email %s", repository.ErrUserAlreadyExists, email)
	}
	c := entity.NewUserCredentials(email, password, userID, s.Now())
	if err := s.Creds.Create(ctx, c, tx); err != nil {
		return entity.UserCredentials{}, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": userID, "email": email.String()}).Info("credentials registered")
	}
	return c, nil
}

// Authenticate verifies email/password, refreshes LastLoginAt and persists
// the updated record before returning it.
func (s *AuthService) Authenticate(ctx context.Context, email valueobject.Email, plain string, tx repository.Transaction) (entity.UserCredentials, error) {
	c, err := s.Creds.GetByEmail(ctx, email, tx)
	if err != nil {
		return entity.UserCredentials{}, ErrInvalidCredentials
	}
	if !c.IsActive {
		return entity.UserCredentials{}, fmt.Errorf("%w: user %s", ErrUserInactive, c.UserID)
	}
	if !c.Password.Compare(plain) {
		if s.Logger != nil {
			s.Logger.WithField("email", email.String()).Warn("failed login attempt")
		}
		return entity.UserCredentials{}, ErrInvalidCredentials
	}
	c = c.WithLogin(s.Now())
	if err := s.Creds.Save(ctx, c, tx); err != nil {
		return entity.UserCredentials{}, err
	}
	return c, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, currentPlain string, newPassword valueobject.Password, tx repository.Transaction) error {
	c, err := s.Creds.GetByUserID(ctx, userID, tx)
	if err != nil {
		return fmt.Errorf("%w: user %s", repository.ErrUserNotFound, userID)
	}
	if !c.Password.Compare(currentPlain) {
		return ErrInvalidCurrentPassword
	}
	if err := s.Creds.Save(ctx, c.WithPassword(newPassword, s.Now()), tx); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", userID).Info("password changed")
	}
	return nil
}

func (s *AuthService) DeactivateUser(ctx context.Context, userID string, tx repository.Transaction) error {
	c, err := s.Creds.GetByUserID(ctx, userID, tx)
	if err != nil {
		return err
	}
	return s.Creds.Save(ctx, c.Deactivated(s.Now()), tx)
}

func (s *AuthService) ReactivateUser(ctx context.Context, userID string, tx repository.Transaction) error {
	c, err := s.Creds.GetByUserID(ctx, userID, tx)
	if err != nil {
		return err
	}
	return s.Creds.Save(ctx, c.Reactivated(s.Now()), tx)
}

// RemoveCredentials drops the credential record, used when the account
// itself is being deleted. A missing record is not an error here.
func (s *AuthService) RemoveCredentials(ctx context.Context, userID string, tx repository.Transaction) error {
	if err := s.Creds.Delete(ctx, userID, tx); err != nil {
		if errors.Is(err, repository.ErrCredentialsNotFound) {
			return nil
		}
		return err
	}
	return nil
}
