package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-accounts-service/internal/domain/repository"
	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
	"github.com/oksasatya/go-accounts-service/internal/infrastructure/memory"
)

func newAuthService(t *testing.T) (*AuthService, *memory.Backend) {
	t.Helper()
	b := memory.NewBackend()
	return NewAuthService(b.Credentials, nil), b
}

func mustPassword(t *testing.T, raw string) valueobject.Password {
	t.Helper()
	p, err := valueobject.NewPassword(raw)
	require.NoError(t, err)
	return p
}

func TestAuthService_RegisterCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)
	email := mustEmail(t, "reg@example.com")

	c, err := svc.RegisterCredentials(ctx, email, mustPassword(t, "Sup3rSecret"), valueobject.GenerateUserID().String(), nil)
	require.NoError(t, err)
	assert.True(t, c.IsActive)
	assert.Nil(t, c.LastLoginAt)

	_, err = svc.RegisterCredentials(ctx, email, mustPassword(t, "An0therSecret"), valueobject.GenerateUserID().String(), nil)
	assert.ErrorIs(t, err, repository.ErrUserAlreadyExists)
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)
	email := mustEmail(t, "login@example.com")
	userID := valueobject.GenerateUserID().String()

	_, err := svc.RegisterCredentials(ctx, email, mustPassword(t, "Sup3rSecret"), userID, nil)
	require.NoError(t, err)

	t.Run("success records the login time", func(t *testing.T) {
		at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
		svc.Now = func() time.Time { return at }

		c, err := svc.Authenticate(ctx, email, "Sup3rSecret", nil)
		require.NoError(t, err)
		require.NotNil(t, c.LastLoginAt)
		assert.Equal(t, at, *c.LastLoginAt)
	})

	t.Run("wrong password and unknown email look identical", func(t *testing.T) {
		_, errWrong := svc.Authenticate(ctx, email, "WrongPass1", nil)
		_, errUnknown := svc.Authenticate(ctx, mustEmail(t, "ghost@example.com"), "Sup3rSecret", nil)

		assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.Equal(t, errWrong.Error(), errUnknown.Error())
	})

	t.Run("inactive credentials", func(t *testing.T) {
		require.NoError(t, svc.DeactivateUser(ctx, userID, nil))
		_, err := svc.Authenticate(ctx, email, "Sup3rSecret", nil)
		assert.ErrorIs(t, err, ErrUserInactive)

		require.NoError(t, svc.ReactivateUser(ctx, userID, nil))
		_, err = svc.Authenticate(ctx, email, "Sup3rSecret", nil)
		assert.NoError(t, err)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, b := newAuthService(t)
	email := mustEmail(t, "chg@example.com")
	userID := valueobject.GenerateUserID().String()

	_, err := svc.RegisterCredentials(ctx, email, mustPassword(t, "Sup3rSecret"), userID, nil)
	require.NoError(t, err)

	t.Run("wrong current password leaves the hash intact", func(t *testing.T) {
		before, err := b.Credentials.GetByEmail(ctx, email, nil)
		require.NoError(t, err)

		err = svc.ChangePassword(ctx, userID, "NotTheCurrent1", mustPassword(t, "BrandNew99"), nil)
		assert.ErrorIs(t, err, ErrInvalidCurrentPassword)

		after, err := b.Credentials.GetByEmail(ctx, email, nil)
		require.NoError(t, err)
		assert.Equal(t, before.Password.Hash(), after.Password.Hash())
	})

	t.Run("success swaps the hash", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, userID, "Sup3rSecret", mustPassword(t, "BrandNew99"), nil))

		_, err := svc.Authenticate(ctx, email, "Sup3rSecret", nil)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = svc.Authenticate(ctx, email, "BrandNew99", nil)
		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := svc.ChangePassword(ctx, valueobject.GenerateUserID().String(), "Sup3rSecret", mustPassword(t, "BrandNew99"), nil)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)
	})
}

func TestAuthService_RemoveCredentials(t *testing.T) {
	ctx := context.Background()
	svc, b := newAuthService(t)
	email := mustEmail(t, "rm@example.com")
	userID := valueobject.GenerateUserID().String()

	_, err := svc.RegisterCredentials(ctx, email, mustPassword(t, "Sup3rSecret"), userID, nil)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveCredentials(ctx, userID, nil))
	_, err = b.Credentials.GetByEmail(ctx, email, nil)
	assert.ErrorIs(t, err, repository.ErrCredentialsNotFound)

	// removing again is not an error
	assert.NoError(t, svc.RemoveCredentials(ctx, userID, nil))
}
