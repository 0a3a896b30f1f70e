package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minetrack/internal/domain/user"
)

func testAccount() user.Account {
	return user.Account{ID: "u-1", Name: "Operator", Email: "op@mine.example", Role: user.RoleOperator}
}

func TestSession_LoginOffline(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		s := NewSession(NewMemoryStorage(), testLogger())
		require.NoError(t, s.CacheCredentials("Op@Mine.Example", "digger42", "tok-1", testAccount()))

		// Регистр e-mail не важен.
		require.NoError(t, s.LoginOffline("op@MINE.example", "digger42"))

		assert.True(t, s.IsAuthenticated())
		assert.Equal(t, "tok-1", s.Token())

		account, ok := s.Account()
		require.True(t, ok)
		assert.Equal(t, "u-1", account.ID)
	})

	t.Run("NoCache", func(t *testing.T) {
		s := NewSession(NewMemoryStorage(), testLogger())

		err := s.LoginOffline("op@mine.example", "digger42")
		assert.ErrorIs(t, err, ErrNoCachedCredentials)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		s := NewSession(NewMemoryStorage(), testLogger())
		require.NoError(t, s.CacheCredentials("op@mine.example", "digger42", "tok-1", testAccount()))

		err := s.LoginOffline("op@mine.example", "wrong99")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.False(t, s.IsAuthenticated())
	})

	t.Run("WrongEmail", func(t *testing.T) {
		s := NewSession(NewMemoryStorage(), testLogger())
		require.NoError(t, s.CacheCredentials("op@mine.example", "digger42", "tok-1", testAccount()))

		err := s.LoginOffline("other@mine.example", "digger42")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestSession_CacheSurvivesLogout(t *testing.T) {
	store := NewMemoryStorage()
	s := NewSession(store, testLogger())

	require.NoError(t, s.CacheCredentials("op@mine.example", "digger42", "tok-1", testAccount()))
	require.NoError(t, s.LoginOffline("op@mine.example", "digger42"))
	require.NoError(t, s.Logout())

	assert.False(t, s.IsAuthenticated())

	// Выход не трогает кэш учетных данных: следующий офлайн-вход возможен.
	require.NoError(t, s.LoginOffline("op@mine.example", "digger42"))
	assert.True(t, s.IsAuthenticated())
}

func TestSession_Restore(t *testing.T) {
	store := NewMemoryStorage()

	s := NewSession(store, testLogger())
	require.NoError(t, s.SetAuth("tok-1", testAccount()))

	// Новый процесс поверх того же хранилища.
	restored := NewSession(store, testLogger())
	require.NoError(t, restored.Restore())

	assert.Equal(t, "tok-1", restored.Token())
	account, ok := restored.Account()
	require.True(t, ok)
	assert.Equal(t, "op@mine.example", account.Email)
}

func TestSession_RestoreEmptyStore(t *testing.T) {
	s := NewSession(NewMemoryStorage(), testLogger())
	require.NoError(t, s.Restore())
	assert.False(t, s.IsAuthenticated())
}

func TestSession_PasswordStoredHashed(t *testing.T) {
	store := NewMemoryStorage()
	s := NewSession(store, testLogger())
	require.NoError(t, s.CacheCredentials("op@mine.example", "digger42", "tok-1", testAccount()))

	raw, ok, err := store.Get(keyCachedCredentials)
	require.NoError(t, err)
	require.True(t, ok)

	// Пароль не должен лежать в хранилище в открытом виде.
	assert.NotContains(t, raw, "digger42")
}
