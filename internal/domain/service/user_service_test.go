package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-accounts-service/internal/domain/entity"
	"github.com/oksasatya/go-accounts-service/internal/domain/repository"
	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
	"github.com/oksasatya/go-accounts-service/internal/infrastructure/memory"
)

func newUserService(t *testing.T) (*UserService, *memory.Backend) {
	t.Helper()
	b := memory.NewBackend()
	svc := NewUserService(b.Users, nil)
	return svc, b
}

func mustEmail(t *testing.T, raw string) valueobject.Email {
	t.Helper()
	e, err := valueobject.NewEmail(raw)
	require.NoError(t, err)
	return e
}

func mustName(t *testing.T, raw string) valueobject.UserName {
	t.Helper()
	n, err := valueobject.NewUserName(raw)
	require.NoError(t, err)
	return n
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	u, err := svc.CreateUser(ctx, mustEmail(t, "new@example.com"), mustName(t, "New User"), nil)
	require.NoError(t, err)
	assert.False(t, u.ID.IsZero())
	assert.True(t, u.IsActive)
	assert.Equal(t, valueobject.RoleUser, u.Role)
	assert.Equal(t, valueobject.PlanStandard, u.Plan)

	_, err = svc.CreateUser(ctx, mustEmail(t, "new@example.com"), mustName(t, "Other User"), nil)
	assert.ErrorIs(t, err, repository.ErrUserAlreadyExists)
}

func TestUserService_UpdateUserProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	u, err := svc.CreateUser(ctx, mustEmail(t, "upd@example.com"), mustName(t, "Before"), nil)
	require.NoError(t, err)

	t.Run("rename only keeps the image", func(t *testing.T) {
		img := "https://cdn.example.com/a.png"
		_, err := svc.UpdateUserProfile(ctx, u.ID, mustName(t, "Middle"), &img, nil)
		require.NoError(t, err)

		got, err := svc.UpdateUserProfile(ctx, u.ID, mustName(t, "After"), nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "After", got.Name.String())
		assert.Equal(t, img, got.ProfileImage, "nil image must leave the current one")
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateUserProfile(ctx, valueobject.GenerateUserID(), mustName(t, "Nobody"), nil, nil)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})
}

func TestUserService_ChangeUserEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	a, err := svc.CreateUser(ctx, mustEmail(t, "a@example.com"), mustName(t, "User A"), nil)
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, mustEmail(t, "b@example.com"), mustName(t, "User B"), nil)
	require.NoError(t, err)

	got, err := svc.ChangeUserEmail(ctx, a.ID, mustEmail(t, "a2@example.com"), nil)
	require.NoError(t, err)
	assert.Equal(t, "a2@example.com", got.Email.String())

	_, err = svc.ChangeUserEmail(ctx, a.ID, mustEmail(t, "b@example.com"), nil)
	assert.ErrorIs(t, err, ErrEmailTaken)

	// changing to the address you already hold is a no-op
	_, err = svc.ChangeUserEmail(ctx, a.ID, mustEmail(t, "a2@example.com"), nil)
	assert.NoError(t, err)
}

func TestUserService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return created }

	u, err := svc.CreateUser(ctx, mustEmail(t, "del@example.com"), mustName(t, "Short Lived"), nil)
	require.NoError(t, err)

	t.Run("too young", func(t *testing.T) {
		svc.Now = func() time.Time { return created.Add(23 * time.Hour) }
		assert.ErrorIs(t, svc.DeleteUser(ctx, u.ID, nil), ErrUserCannotBeDeleted)
	})

	t.Run("exactly at the boundary", func(t *testing.T) {
		svc.Now = func() time.Time { return created.Add(24 * time.Hour) }
		require.NoError(t, svc.DeleteUser(ctx, u.ID, nil))
		_, err := svc.GetUserByID(ctx, u.ID, nil)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteUser(ctx, valueobject.GenerateUserID(), nil), repository.ErrUserNotFound)
	})
}

func TestUserService_GetUserStatistics(t *testing.T) {
	ctx := context.Background()
	svc, b := newUserService(t)

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	seed := func(email string, age time.Duration, active, verified bool) {
		u := entity.NewUser(valueobject.GenerateUserID(), mustEmail(t, email), mustName(t, "Stat User"), now.Add(-age))
		if !active {
			u = u.Deactivated()
		}
		if verified {
			u = u.Verified()
		}
		require.NoError(t, b.Users.Create(ctx, u, nil))
	}

	seed("h1@example.com", time.Hour, true, true)
	seed("d3@example.com", 3*24*time.Hour, true, false)
	seed("d10@example.com", 10*24*time.Hour, false, true)
	seed("d40@example.com", 40*24*time.Hour, true, false)

	stats, err := svc.GetUserStatistics(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Active)
	assert.Equal(t, 2, stats.Verified)
	assert.Equal(t, 1, stats.CreatedToday)
	assert.Equal(t, 2, stats.CreatedThisWeek)
	assert.Equal(t, 3, stats.CreatedThisMonth)
}

func TestUserService_SetUserActive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	u, err := svc.CreateUser(ctx, mustEmail(t, "flip@example.com"), mustName(t, "Flip Flop"), nil)
	require.NoError(t, err)

	off, err := svc.SetUserActive(ctx, u.ID, false, nil)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	on, err := svc.SetUserActive(ctx, u.ID, true, nil)
	require.NoError(t, err)
	assert.True(t, on.IsActive)
}
