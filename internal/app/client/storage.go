package client

import (
	"sync"
)

// Ключи долговременного хранилища. Значения — JSON, кроме last_sync_time
// (epoch в миллисекундах, строкой).
const (
	keyPendingOperations = "pending_operations"
	keyLastSyncTime      = "last_sync_time"
	keySyncAttempts      = "sync_attempts"
	keyCachedEquipment   = "cached_equipment"
	keyCachedActivities  = "cached_activities"
	keyCachedMaterials   = "cached_materials"
	keyCachedCredentials = "cached_credentials"
	keyAuthToken         = "auth_token"
	keyAuthUser          = "auth_user"
)

// Storage - долговременное key-value хранилище на устройстве.
// Переживает перезапуск процесса; каждая запись выполняется синхронно.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// MemoryStorage - временное in-memory хранилище (тесты и fallback,
// когда SQLite не удалось открыть).
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values: make(map[string]string),
	}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
