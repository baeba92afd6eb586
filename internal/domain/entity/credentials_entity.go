package entity

import (
	"time"

	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
)

// UserCredentials is the authentication record for a user, stored apart from
// the profile and correlated by UserID. Like User, it is immutable.
type UserCredentials struct {
	Email       valueobject.Email
	Password    valueobject.Password
	UserID      string
	IsActive    bool
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewUserCredentials(email valueobject.Email, password valueobject.Password, userID string, now time.Time) UserCredentials {
	ts := now.UTC()
	return UserCredentials{
		Email:     email,
		Password:  password,
		UserID:    userID,
		IsActive:  true,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// WithLogin returns a copy with LastLoginAt refreshed.
func (c UserCredentials) WithLogin(now time.Time) UserCredentials {
	ts := now.UTC()
	c.LastLoginAt = &ts
	c.UpdatedAt = ts
	return c
}

// WithPassword returns a copy with a new hash and a refreshed UpdatedAt.
func (c UserCredentials) WithPassword(password valueobject.Password, now time.Time) UserCredentials {
	c.Password = password
	c.UpdatedAt = now.UTC()
	return c
}

func (c UserCredentials) Deactivated(now time.Time) UserCredentials {
	c.IsActive = false
	c.UpdatedAt = now.UTC()
	return c
}

func (c UserCredentials) Reactivated(now time.Time) UserCredentials {
	c.IsActive = true
	c.UpdatedAt = now.UTC()
	return c
}
