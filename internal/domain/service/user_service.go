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
	ErrUserCannotBeDeleted = errors.New("user cannot be deleted before 24 hours")
	ErrEmailTaken          = errors.New("email belongs to another user")
)

// UserService enforces profile-level invariants on top of the user
// repository: email uniqueness, the 24h deletion rule, and statistics.
type UserService struct {
	Repo   repository.UserRepository
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewUserService(repo repository.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Logger: logger, Now: time.Now}
}

func (s *UserService) CreateUser(ctx context.Context, email valueobject.Email, name valueobject.UserName, tx repository.Transaction) (entity.User, error) {
	if _, err := s.Repo.GetByEmail(ctx, email, tx); err == nil {
		return entity.User{}, fmt.Errorf("%w: email %s", repository.ErrUserAlreadyExists, email)
	}
	u := entity.NewUser(valueobject.GenerateUserID(), email, name, s.Now())
	if err := s.Repo.Create(ctx, u, tx); err != nil {
		return entity.User{}, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID.String(), "email": email.String()}).Info("user created")
	}
	return u, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id valueobject.UserID, tx repository.Transaction) (entity.User, error) {
	return s.Repo.GetByID(ctx, id, tx)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email valueobject.Email, tx repository.Transaction) (entity.User, error) {
	return s.Repo.GetByEmail(ctx, email, tx)
}

func (s *UserService) GetAllUsers(ctx context.Context, tx repository.Transaction) ([]entity.User, error) {
	return s.Repo.GetAll(ctx, tx)
}

// UpdateUserProfile replaces the name and, when non-nil, the profile image.
func (s *UserService) UpdateUserProfile(ctx context.Context, id valueobject.UserID, name valueobject.UserName, profileImage *string, tx repository.Transaction) (entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id, tx)
	if err != nil {
		return entity.User{}, err
	}
	u = u.WithName(name)
	if profileImage != nil {
		u = u.WithProfileImage(*profileImage)
	}
	if err := s.Repo.Save(ctx, u, tx); err != nil {
		return entity.User{}, err
	}
	return u, nil
}

// ChangeUserEmail rejects the change when the address belongs to a
// different existing user. Re-submitting the current address is a no-op.
func (s *UserService) ChangeUserEmail(ctx context.Context, id valueobject.UserID, newEmail valueobject.Email, tx repository.Transaction) (entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id, tx)
	if err != nil {
		return entity.User{}, err
	}
	if other, err := s.Repo.GetByEmail(ctx, newEmail, tx); err == nil && !other.ID.Equals(id) {
		return entity.User{}, fmt.Errorf("%w: %s", ErrEmailTaken, newEmail)
	}
	u = u.WithEmail(newEmail)
	if err := s.Repo.Save(ctx, u, tx); err != nil {
		return entity.User{}, err
	}
	return u, nil
}

// SetUserActive flips the profile's active flag. Flipping to the current
// state is a no-op save.
func (s *UserService) SetUserActive(ctx context.Context, id valueobject.UserID, active bool, tx repository.Transaction) (entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id, tx)
	if err != nil {
		return entity.User{}, err
	}
	if active {
		u = u.Reactivated()
	} else {
		u = u.Deactivated()
	}
	if err := s.Repo.Save(ctx, u, tx); err != nil {
		return entity.User{}, err
	}
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id valueobject.UserID, tx repository.Transaction) error {
	u, err := s.Repo.GetByID(ctx, id, tx)
	if err != nil {
		return err
	}
	if !u.CanBeDeleted(s.Now()) {
		return fmt.Errorf("%w: created at %s", ErrUserCannotBeDeleted, u.CreatedAt.Format(time.RFC3339))
	}
	if err := s.Repo.Delete(ctx, id, tx); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", id.String()).Info("user deleted")
	}
	return nil
}

// UserStatistics buckets all users by creation time against cutoffs
// computed from now. One full scan, no incremental counters.
type UserStatistics struct {
	Total            int `json:"total"`
	Active           int `json:"active"`
	Verified         int `json:"verified"`
	CreatedToday     int `json:"created_today"`
	CreatedThisWeek  int `json:"created_this_week"`
	CreatedThisMonth int `json:"created_this_month"`
}

func (s *UserService) GetUserStatistics(ctx context.Context, tx repository.Transaction) (UserStatistics, error) {
	users, err := s.Repo.GetAll(ctx, tx)
	if err != nil {
		return UserStatistics{}, err
	}
	now := s.Now()
	day := now.Add(-24 * time.Hour)
	week := now.Add(-7 * 24 * time.Hour)
	month := now.Add(-30 * 24 * time.Hour)

	stats := UserStatistics{Total: len(users)}
	for _, u := range users {
		if u.IsActive {
			stats.Active++
		}
		if u.IsVerified {
			stats.Verified++
		}
		if u.CreatedAt.After(day) {
			stats.CreatedToday++
		}
		if u.CreatedAt.After(week) {
			stats.CreatedThisWeek++
		}
		if u.CreatedAt.After(month) {
			stats.CreatedThisMonth++
		}
	}
	return stats, nil
}
