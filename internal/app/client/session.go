package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	"minetrack/internal/domain/user"
)

var (
	// ErrNoCachedCredentials — офлайн-вход невозможен, пока не было хотя бы
	// одного успешного входа в сети. Сообщение намеренно отличается от
	// «неверный пароль».
	ErrNoCachedCredentials = errors.New("no cached credentials, connect to the network for your first login")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// cachedCredentials — запись кэша для офлайн-входа. Перезаписывается при
// каждом успешном онлайн-входе, читается только когда сеть недоступна,
// автоматически не истекает. Пароль хранится как bcrypt-хэш: обратимое
// кодирование исходной версии здесь сознательно не воспроизводится.
type cachedCredentials struct {
	Email        string       `json:"email"`
	PasswordHash string       `json:"passwordHash"`
	Token        string       `json:"token"`
	User         user.Account `json:"user"`
}

// Session — аутентификационное состояние клиента: токен и пользователь
// в памяти плюс их копии в долговременном хранилище.
type Session struct {
	store Storage
	log   *slog.Logger

	mu      sync.RWMutex
	token   string
	account *user.Account
}

func NewSession(store Storage, log *slog.Logger) *Session {
	return &Session{
		store: store,
		log:   log.With("component", "session"),
	}
}

// SetAuth устанавливает сессию и сохраняет токен/пользователя в хранилище.
func (s *Session) SetAuth(token string, account user.Account) error {
	encoded, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("ошибка сериализации пользователя: %w", err)
	}

	if err := s.store.Set(keyAuthToken, token); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	if err := s.store.Set(keyAuthUser, string(encoded)); err != nil {
		return fmt.Errorf("ошибка сохранения пользователя: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.account = &account
	s.mu.Unlock()

	return nil
}

// CacheCredentials перезаписывает кэш учетных данных после успешного
// онлайн-входа.
func (s *Session) CacheCredentials(email, password, token string, account user.Account) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("хэш пароля: %w", err)
	}

	creds := cachedCredentials{
		Email:        user.NormalizeEmail(email),
		PasswordHash: string(hash),
		Token:        token,
		User:         account,
	}

	encoded, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("ошибка сериализации кэша учетных данных: %w", err)
	}

	if err := s.store.Set(keyCachedCredentials, string(encoded)); err != nil {
		return fmt.Errorf("ошибка сохранения кэша учетных данных: %w", err)
	}
	return nil
}

// LoginOffline выполняет вход по кэшированным учетным данным. Токен и
// пользователь берутся из кэша, никаких сетевых вызовов.
func (s *Session) LoginOffline(email, password string) error {
	raw, ok, err := s.store.Get(keyCachedCredentials)
	if err != nil {
		return fmt.Errorf("ошибка чтения кэша учетных данных: %w", err)
	}
	if !ok || raw == "" {
		return ErrNoCachedCredentials
	}

	var creds cachedCredentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return fmt.Errorf("ошибка разбора кэша учетных данных: %w", err)
	}

	if creds.Email != user.NormalizeEmail(email) {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	s.log.Info("офлайн-вход по кэшированным учетным данным", "email", creds.Email)
	return s.SetAuth(creds.Token, creds.User)
}

// Restore поднимает сохраненную сессию при старте приложения.
func (s *Session) Restore() error {
	token, ok, err := s.store.Get(keyAuthToken)
	if err != nil {
		return fmt.Errorf("ошибка чтения токена: %w", err)
	}
	if !ok || token == "" {
		return nil
	}

	rawUser, ok, err := s.store.Get(keyAuthUser)
	if err != nil {
		return fmt.Errorf("ошибка чтения пользователя: %w", err)
	}
	if !ok {
		return nil
	}

	var account user.Account
	if err := json.Unmarshal([]byte(rawUser), &account); err != nil {
		return fmt.Errorf("ошибка разбора пользователя: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.account = &account
	s.mu.Unlock()

	return nil
}

// Logout очищает сессию в памяти и в хранилище. Кэш учетных данных
// НЕ трогается: он нужен для следующего офлайн-входа.
func (s *Session) Logout() error {
	if err := s.store.Delete(keyAuthToken); err != nil {
		return fmt.Errorf("ошибка удаления токена: %w", err)
	}
	if err := s.store.Delete(keyAuthUser); err != nil {
		return fmt.Errorf("ошибка удаления пользователя: %w", err)
	}

	s.mu.Lock()
	s.token = ""
	s.account = nil
	s.mu.Unlock()

	return nil
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Account() (user.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return user.Account{}, false
	}
	return *s.account, true
}
