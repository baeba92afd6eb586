package entity

import (
	"time"

	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
)

// deletionGracePeriod is the minimum account age before deletion is allowed.
const deletionGracePeriod = 24 * time.Hour

// User is the aggregate root for the accounts domain. Instances are
// immutable; updates return a new value with the same identity.
type User struct {
	ID           valueobject.UserID
	Email        valueobject.Email
	Name         valueobject.UserName
	ProfileImage string // empty means not set
	IsActive     bool
	IsVerified   bool
	Role         valueobject.Role
	Plan         valueobject.Plan
	CreatedAt    time.Time
}

// NewUser creates a user with the default role, plan and flags.
func NewUser(id valueobject.UserID, email valueobject.Email, name valueobject.UserName, now time.Time) User {
	return User{
		ID:        id,
		Email:     email,
		Name:      name,
		IsActive:  true,
		Role:      valueobject.RoleUser,
		Plan:      valueobject.PlanStandard,
		CreatedAt: now.UTC(),
	}
}

// CanBeDeleted reports whether the account is old enough to be deleted.
func (u User) CanBeDeleted(now time.Time) bool {
	return now.Sub(u.CreatedAt) >= deletionGracePeriod
}

// WithName returns a copy with the name replaced.
func (u User) WithName(name valueobject.UserName) User {
	u.Name = name
	return u
}

// WithEmail returns a copy with the email replaced.
func (u User) WithEmail(email valueobject.Email) User {
	u.Email = email
	return u
}

// WithProfileImage returns a copy with the profile image URL replaced.
func (u User) WithProfileImage(url string) User {
	u.ProfileImage = url
	return u
}

// WithRole returns a copy with the role replaced.
func (u User) WithRole(role valueobject.Role) User {
	u.Role = role
	return u
}

// WithPlan returns a copy with the plan replaced.
func (u User) WithPlan(plan valueobject.Plan) User {
	u.Plan = plan
	return u
}

// Verified returns a copy marked as email-verified.
func (u User) Verified() User {
	u.IsVerified = true
	return u
}

// Deactivated returns a copy with the active flag cleared.
func (u User) Deactivated() User {
	u.IsActive = false
	return u
}

// Reactivated returns a copy with the active flag set.
func (u User) Reactivated() User {
	u.IsActive = true
	return u
}
