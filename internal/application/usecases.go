package application

import (
	"context"
	"errors"

	"cloud.google.com/go/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-accounts-service/internal/domain/repository"
	"github.com/oksasatya/go-accounts-service/internal/domain/service"
	"github.com/oksasatya/go-accounts-service/internal/infrastructure/search"
	"github.com/oksasatya/go-accounts-service/pkg/helpers"
)

// UseCases bundles the application operations over the domain services.
// Redis, the publisher, the indexer and GCS are optional; every use of them
// is nil-guarded so the core runs with just the repositories.
type UseCases struct {
	Users   *service.UserService
	Auth    *service.AuthService
	Tx      repository.TxManager
	JWT     *helpers.JWTManager
	Redis   *redis.Client
	Queue   *helpers.RabbitPublisher
	Indexer *search.Indexer
	GCS     *storage.Client
	Bucket  string
	Logger  *logrus.Logger
}

var errSessionExpired = errors.New("session expired")

func NewUseCases(users *service.UserService, auth *service.AuthService, tx repository.TxManager, jwt *helpers.JWTManager, logger *logrus.Logger) *UseCases {
	return &UseCases{Users: users, Auth: auth, Tx: tx, JWT: jwt, Logger: logger}
}

// rollback is the shared failure-path cleanup: never attempted after a
// successful commit, and lifecycle errors only get logged.
func (uc *UseCases) rollback(ctx context.Context, tx repository.Transaction, committed bool) {
	if tx == nil || committed {
		return
	}
	if err := uc.Tx.Rollback(ctx, tx); err != nil && uc.Logger != nil {
		uc.Logger.WithError(err).WithField("tx_id", tx.ID()).Error("rollback failed")
	}
}

func (uc *UseCases) writeSession(ctx context.Context, userID string, fields map[string]any) {
	if uc.Redis == nil {
		return
	}
	if err := helpers.SessionWrite(ctx, uc.Redis, userID, fields); err != nil && uc.Logger != nil {
		uc.Logger.WithError(err).WithField("user_id", userID).Warn("session write failed")
	}
}

// sessionAlive reports whether the stored session still matches sessionID.
// Without redis there is nothing to revoke against, so the token alone wins.
func (uc *UseCases) sessionAlive(ctx context.Context, userID, sessionID string) bool {
	if uc.Redis == nil {
		return true
	}
	sess, err := helpers.SessionRead(ctx, uc.Redis, userID)
	if err != nil {
		if uc.Logger != nil {
			uc.Logger.WithError(err).WithField("user_id", userID).Warn("session read failed")
		}
		return false
	}
	return sess["session_id"] == sessionID
}

func (uc *UseCases) dropSession(ctx context.Context, userID string) {
	if uc.Redis == nil {
		return
	}
	if err := helpers.SessionDelete(ctx, uc.Redis, userID); err != nil && uc.Logger != nil {
		uc.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}
