//POST /api/auth/register      # Регистрация (публичный)
//POST /api/auth/login         # Логин (публичный)
//GET  /api/health             # Проверка доступности (публичный)
//POST /api/operations/start   # Запустить операцию (auth)
//POST /api/operations/{id}/stop # Остановить операцию (auth)
//GET  /api/operations         # Список операций (auth)
//GET  /api/equipment          # Справочник техники (auth)
//GET  /api/activities         # Справочник видов работ (auth)
//GET  /api/materials          # Справочник материалов (auth)

package api

import (
	catalogAPI "minetrack/internal/app/server/api/http/catalog"
	healthAPI "minetrack/internal/app/server/api/http/health"
	"minetrack/internal/app/server/api/http/middleware"
	"minetrack/internal/app/server/api/http/middleware/auth"
	"minetrack/internal/app/server/api/http/middleware/logger"
	operationAPI "minetrack/internal/app/server/api/http/operation"
	userAPI "minetrack/internal/app/server/api/http/user"
	"minetrack/internal/domain/catalog"
	"minetrack/internal/domain/operation"
	"minetrack/internal/domain/session"
	"minetrack/internal/domain/user"
	"minetrack/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health    *healthAPI.Handler
	User      *userAPI.Handler
	Operation *operationAPI.Handler
	Catalog   *catalogAPI.Handler
}

// New создает *chi.Mux с ВСЕМИ операциями через huma.Register
func New(storage *postgres.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("Minetrack API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(storage, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Operation.SetupRoutes(API)
	h.Catalog.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, log *slog.Logger) *Handlers {
	sessionRepo := postgres.NewSessionRepository(storage, log)
	sessionService := session.NewService(sessionRepo, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage, log)
	userService := user.NewService(userRepo, user.NewCredentialsValidator(), log)
	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(userService, sessionService, log, middlewares.GetAllAndClear())

	operationRepo := postgres.NewOperationRepository(storage, log)
	operationService := operation.NewService(operationRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	operationHandler := operationAPI.NewHandler(operationService, log, middlewares.GetAllAndClear())

	catalogRepo := postgres.NewCatalogRepository(storage, log)
	catalogService := catalog.NewService(catalogRepo, log)
	middlewares.Add(authMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	catalogHandler := catalogAPI.NewHandler(catalogService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:    healthHandler,
		User:      userHandler,
		Operation: operationHandler,
		Catalog:   catalogHandler,
	}
}
