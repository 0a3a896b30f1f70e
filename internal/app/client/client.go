package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"minetrack/internal/app/client/config"
	"minetrack/internal/domain/user"
)

// App собирает клиентские подсистемы воедино: хранилище, очередь,
// сессию, справочники и движок синхронизации.
type App struct {
	Config     *config.Config
	Log        *slog.Logger
	Store      Storage
	API        *httpClient
	Oracle     Oracle
	Queue      *OperationQueue
	Session    *Session
	State      *ActiveState
	Refs       *RefCache
	Sync       *SyncService
	Operations *Operations
}

// New строит приложение. Если локальная база не открывается, клиент
// продолжает работу на хранилище в памяти: без долговечности, но
// работоспособным.
func New(cfg *config.Config, log *slog.Logger) *App {
	var store Storage
	sqlStore, err := NewSQLiteStorage(cfg.DataPath)
	if err != nil {
		log.Error("локальная база недоступна, используется хранилище в памяти",
			"path", cfg.DataPath,
			"error", err,
		)
		store = NewMemoryStorage()
	} else {
		store = sqlStore
	}

	api := NewHTTPClient(cfg, log)
	oracle := NewProbeOracle(cfg.ServerAddress, log)
	queue := NewOperationQueue(store, log)
	session := NewSession(store, log)
	state := NewActiveState()
	refs := NewRefCache(store, log)

	syncService := NewSyncService(
		queue,
		oracle,
		api,
		store,
		log,
		time.Duration(cfg.SyncInterval)*time.Minute,
		cfg.MaxSyncAttempts,
	)

	ops := NewOperations(queue, oracle, api, state, refs, session, log)

	return &App{
		Config:     cfg,
		Log:        log,
		Store:      store,
		API:        api,
		Oracle:     oracle,
		Queue:      queue,
		Session:    session,
		State:      state,
		Refs:       refs,
		Sync:       syncService,
		Operations: ops,
	}
}

// Restore поднимает сохраненную сессию при старте процесса.
func (a *App) Restore() error {
	if err := a.Session.Restore(); err != nil {
		return err
	}
	a.API.SetToken(a.Session.Token())
	return nil
}

// Login выполняет вход: онлайн через сервер с обновлением кэша учетных
// данных, офлайн — по кэшу. После онлайн-входа состояние активной
// операции и справочники сверяются с сервером.
func (a *App) Login(ctx context.Context, email, password string) (user.Account, error) {
	if !a.Oracle.IsOnline(ctx) {
		return a.loginOffline(email, password)
	}

	token, account, err := a.API.Login(ctx, email, password)
	if err != nil {
		// Явный отказ сервера кэшем не перекрывается: устаревшие учетные
		// данные не должны воскрешать отключенный аккаунт. Откат на кэш
		// допустим только при транспортной ошибке.
		if errors.Is(err, ErrLoginRejected) {
			return user.Account{}, err
		}
		a.Log.Warn("онлайн-вход не прошел, пробуем кэш учетных данных", "error", err)
		return a.loginOffline(email, password)
	}

	if err := a.Session.SetAuth(token, account); err != nil {
		return user.Account{}, err
	}
	a.API.SetToken(token)

	if err := a.Session.CacheCredentials(email, password, token, account); err != nil {
		a.Log.Warn("ошибка обновления кэша учетных данных", "error", err)
	}

	if err := a.Operations.SyncActiveOperations(ctx); err != nil {
		a.Log.Warn("ошибка сверки активной операции", "error", err)
	}
	if err := a.Operations.RefreshReferenceData(ctx); err != nil {
		a.Log.Warn("ошибка обновления справочников", "error", err)
	}

	return account, nil
}

func (a *App) loginOffline(email, password string) (user.Account, error) {
	if err := a.Session.LoginOffline(email, password); err != nil {
		return user.Account{}, err
	}
	a.API.SetToken(a.Session.Token())

	account, _ := a.Session.Account()
	return account, nil
}

// Register создает нового пользователя. Работает только в сети.
func (a *App) Register(ctx context.Context, name, email, password string) (user.Account, error) {
	if !a.Oracle.IsOnline(ctx) {
		return user.Account{}, fmt.Errorf("регистрация доступна только при наличии сети")
	}

	token, account, err := a.API.Register(ctx, name, email, password)
	if err != nil {
		return user.Account{}, err
	}

	if err := a.Session.SetAuth(token, account); err != nil {
		return user.Account{}, err
	}
	a.API.SetToken(token)

	if err := a.Session.CacheCredentials(email, password, token, account); err != nil {
		a.Log.Warn("ошибка обновления кэша учетных данных", "error", err)
	}

	return account, nil
}

// Logout завершает сессию. Очередь и кэш учетных данных сохраняются:
// несинхронизированные операции не должны теряться при выходе.
func (a *App) Logout() error {
	if err := a.Session.Logout(); err != nil {
		return err
	}
	a.API.SetToken("")
	a.State.Clear()
	return nil
}

// Close останавливает фоновую синхронизацию и закрывает хранилище.
func (a *App) Close() error {
	a.Sync.StopAutoSync()
	return a.Store.Close()
}
