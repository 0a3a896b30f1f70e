package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minetrack/internal/app/client/config"
	"minetrack/internal/domain/user"
)

// newLoginApp собирает приложение поверх настоящего httpClient,
// направленного на тестовый сервер. Оракул подменен: онлайновость
// задается явно, чтобы различать отказ сервера и транспортную ошибку.
func newLoginApp(serverURL string, online bool) *App {
	cfg := &config.Config{
		Env:             "local",
		ServerAddress:   serverURL,
		RequestTimeout:  2,
		SyncInterval:    60,
		MaxSyncAttempts: 10,
	}
	log := testLogger()
	store := NewMemoryStorage()
	api := NewHTTPClient(cfg, log)
	oracle := &fakeOracle{online: online}
	queue := NewOperationQueue(store, log)
	session := NewSession(store, log)
	state := NewActiveState()
	refs := NewRefCache(store, log)

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
		Sync:       NewSyncService(queue, oracle, api, store, log, time.Hour, 10),
		Operations: NewOperations(queue, oracle, api, state, refs, session, log),
	}
}

func TestApp_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("ExplicitRejectionNotMaskedByCache", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "account disabled"})
		}))
		defer srv.Close()

		app := newLoginApp(srv.URL, true)
		require.NoError(t, app.Session.CacheCredentials("op@mine.example", "digger42", "tok-stale", testAccount()))

		_, err := app.Login(ctx, "op@mine.example", "digger42")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrLoginRejected)

		// Отказ сервера не воскрешается кэшем: сессия не поднята.
		assert.False(t, app.Session.IsAuthenticated())
		assert.Empty(t, app.Session.Token())
	})

	t.Run("TransportErrorFallsBackToCache", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		url := srv.URL
		srv.Close() // сервер недоступен, хотя оракул считает сеть живой

		app := newLoginApp(url, true)
		require.NoError(t, app.Session.CacheCredentials("op@mine.example", "digger42", "tok-cached", testAccount()))

		account, err := app.Login(ctx, "op@mine.example", "digger42")
		require.NoError(t, err)
		assert.Equal(t, "u-1", account.ID)
		assert.True(t, app.Session.IsAuthenticated())
	})

	t.Run("OnlineSuccess", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Path == "/api/auth/login" {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"token": "tok-1",
					"user":  user.Account{ID: "u-1", Name: "Operator", Email: "op@mine.example"},
				})
				return
			}
			// Сверка активной операции и справочники после входа.
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []any{}})
		}))
		defer srv.Close()

		app := newLoginApp(srv.URL, true)

		account, err := app.Login(ctx, "op@mine.example", "digger42")
		require.NoError(t, err)
		assert.Equal(t, "u-1", account.ID)
		assert.Equal(t, "tok-1", app.Session.Token())
	})
}
