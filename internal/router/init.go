package router

import (
	"github.com/oksasatya/go-accounts-service/internal/application"
	"github.com/oksasatya/go-accounts-service/internal/container"
	"github.com/oksasatya/go-accounts-service/internal/domain/repository"
	"github.com/oksasatya/go-accounts-service/internal/domain/service"
	"github.com/oksasatya/go-accounts-service/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-accounts-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-accounts-service/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-accounts-service/internal/interface/http"
	"github.com/oksasatya/go-accounts-service/internal/router/modules"
)

// buildUseCases wires repositories, domain services and the application layer
// from the container singletons. The storage backend is the postgres pool
// when one was connected, otherwise the in-memory transactional store.
func buildUseCases() *application.UseCases {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	var (
		users *service.UserService
		auth  *service.AuthService
		txm   repository.TxManager
	)
	if pool := container.GetPGPool(); pool != nil {
		users = service.NewUserService(pginfra.NewUserRepository(pool), logger)
		auth = service.NewAuthService(pginfra.NewCredentialsRepository(pool), logger)
		txm = pginfra.NewTxManager(pool)
	} else {
		backend := memory.NewBackend()
		users = service.NewUserService(backend.Users, logger)
		auth = service.NewAuthService(backend.Credentials, logger)
		txm = backend.Tx
	}

	uc := application.NewUseCases(users, auth, txm, container.GetJWT(), logger)
	uc.Redis = container.GetRedis()
	uc.Queue = container.GetRabbitPub()
	uc.Indexer = search.NewIndexer(container.GetES(), cfg.ESUsersIndex, logger)
	uc.GCS = container.GetGCS()
	uc.Bucket = cfg.GCSBucket
	return uc
}

// InitModules initializes all application modules and registers them with the
// router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	uc := buildUseCases()
	container.SetUseCases(uc)

	accountHandler := handlers.NewAccountHandler(uc, container.GetLogger(), cfg.CookieDomain, cfg.CookieSecure)
	adminHandler := handlers.NewAdminHandler(uc, container.GetLogger())

	r.Add(modules.NewAccountModule(accountHandler, container.GetJWT()))
	r.Add(modules.NewAdminModule(adminHandler, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
