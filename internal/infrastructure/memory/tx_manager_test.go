package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-accounts-service/internal/domain/entity"
	"github.com/oksasatya/go-accounts-service/internal/domain/repository"
	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
)

func mustUser(t *testing.T, email string) entity.User {
	t.Helper()
	e, err := valueobject.NewEmail(email)
	require.NoError(t, err)
	n, err := valueobject.NewUserName("Test User")
	require.NoError(t, err)
	return entity.NewUser(valueobject.GenerateUserID(), e, n, time.Now())
}

func TestTxManager_Lifecycle(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()

	t.Run("commit is terminal", func(t *testing.T) {
		tx, err := b.Tx.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, b.Tx.Commit(ctx, tx))

		assert.ErrorIs(t, b.Tx.Commit(ctx, tx), repository.ErrTransactionCompleted)
		assert.ErrorIs(t, b.Tx.Rollback(ctx, tx), repository.ErrTransactionCompleted)
	})

	t.Run("rollback is terminal", func(t *testing.T) {
		tx, err := b.Tx.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, b.Tx.Rollback(ctx, tx))

		assert.ErrorIs(t, b.Tx.Commit(ctx, tx), repository.ErrTransactionCompleted)
	})

	t.Run("abort behaves as rollback", func(t *testing.T) {
		tx, err := b.Tx.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, b.Tx.Abort(ctx, tx))
		assert.ErrorIs(t, b.Tx.Rollback(ctx, tx), repository.ErrTransactionCompleted)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		other := NewBackend()
		tx, err := other.Tx.Begin(ctx)
		require.NoError(t, err)

		assert.ErrorIs(t, b.Tx.Commit(ctx, tx), repository.ErrTransactionNotFound)
		assert.ErrorIs(t, b.Tx.Rollback(ctx, tx), repository.ErrTransactionNotFound)
	})

	t.Run("nil transaction", func(t *testing.T) {
		assert.ErrorIs(t, b.Tx.Commit(ctx, nil), repository.ErrTransactionNotFound)
	})

	t.Run("handle delegates to manager", func(t *testing.T) {
		tx, err := b.Tx.Begin(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, tx.ID())
		require.NoError(t, tx.Commit(ctx))
		assert.ErrorIs(t, tx.Rollback(ctx), repository.ErrTransactionCompleted)
	})
}

func TestTxManager_Isolation(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	u := mustUser(t, "iso@example.com")

	tx, err := b.Tx.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, b.Users.Create(ctx, u, tx))

	// visible inside the transaction
	got, err := b.Users.GetByID(ctx, u.ID, tx)
	require.NoError(t, err)
	assert.True(t, got.ID.Equals(u.ID))

	// invisible outside until commit
	_, err = b.Users.GetByID(ctx, u.ID, nil)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = b.Users.GetByEmail(ctx, u.Email, nil)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	require.NoError(t, b.Tx.Commit(ctx, tx))

	got, err = b.Users.GetByID(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.True(t, got.Email.Equals(u.Email))
}

func TestTxManager_RollbackDiscards(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	u := mustUser(t, "discard@example.com")

	tx, err := b.Tx.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, b.Users.Create(ctx, u, tx))
	require.NoError(t, b.Tx.Rollback(ctx, tx))

	_, err = b.Users.GetByID(ctx, u.ID, nil)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	// the email claim is released as well
	again := mustUser(t, "discard@example.com")
	require.NoError(t, b.Users.Create(ctx, again, nil))
}

func TestTxManager_ConflictingInserts(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()

	tx1, err := b.Tx.Begin(ctx)
	require.NoError(t, err)
	tx2, err := b.Tx.Begin(ctx)
	require.NoError(t, err)

	u1 := mustUser(t, "race@example.com")
	u2 := mustUser(t, "race@example.com")
	require.NoError(t, b.Users.Create(ctx, u1, tx1))
	require.NoError(t, b.Users.Create(ctx, u2, tx2))

	require.NoError(t, b.Tx.Commit(ctx, tx1))
	err = b.Tx.Commit(ctx, tx2)
	assert.ErrorIs(t, err, repository.ErrUserAlreadyExists)

	// the losing transaction is rolled back, not left hanging
	assert.ErrorIs(t, b.Tx.Rollback(ctx, tx2), repository.ErrTransactionCompleted)

	// the winner's row survived
	got, err := b.Users.GetByEmail(ctx, u1.Email, nil)
	require.NoError(t, err)
	assert.True(t, got.ID.Equals(u1.ID))
}

func TestTxManager_ConcurrentCommits(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tx, err := b.Tx.Begin(ctx)
			if err != nil {
				errs[i] = err
				return
			}
			u := mustUser(t, "same@example.com")
			if err := b.Users.Create(ctx, u, tx); err != nil {
				errs[i] = err
				_ = b.Tx.Rollback(ctx, tx)
				return
			}
			errs[i] = b.Tx.Commit(ctx, tx)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, repository.ErrUserAlreadyExists)
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent insert may win")
}
