package client

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type OpType string

const (
	OpStart OpType = "start"
	OpStop  OpType = "stop"
)

// PendingOperation — локально записанная мутация (старт/стоп), еще не
// подтвержденная сервером. После создания запись не изменяется; замена
// возможна только через удаление и повторное добавление.
type PendingOperation struct {
	ID        string         `json:"id"`
	Type      OpType         `json:"type"`
	Data      map[string]any `json:"data"`
	CreatedAt int64          `json:"createdAt"` // epoch, миллисекунды
}

// OperationQueue — очередь отложенных операций поверх долговременного
// хранилища. Единственный путь записи для мутаций старт/стоп: UI никогда
// не различает «онлайн-путь» и «офлайн-путь» на месте вызова.
type OperationQueue struct {
	store Storage
	log   *slog.Logger
	mu    sync.Mutex
}

func NewOperationQueue(store Storage, log *slog.Logger) *OperationQueue {
	return &OperationQueue{
		store: store,
		log:   log.With("component", "operation_queue"),
	}
}

// Enqueue добавляет операцию в очередь и синхронно сохраняет всю очередь
// перед возвратом. Ошибка записи в хранилище всегда доходит до вызывающего:
// потерянная запись очереди — потерянная операция.
func (q *OperationQueue) Enqueue(typ OpType, data map[string]any) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.load()
	if err != nil {
		return "", err
	}

	now := time.Now().UnixMilli()
	id := fmt.Sprintf("local_%d_%s", now, shortID())

	op := PendingOperation{
		ID:        id,
		Type:      typ,
		Data:      data,
		CreatedAt: now,
	}

	pending = append(pending, op)
	if err := q.save(pending); err != nil {
		return "", err
	}

	q.log.Debug("операция поставлена в очередь", "id", id, "type", typ)
	return id, nil
}

// List возвращает все записи в порядке добавления. Порядок значим:
// это порядок повторного воспроизведения.
func (q *OperationQueue) List() ([]PendingOperation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load()
}

// Remove удаляет запись по id. Идемпотентна: отсутствующий id — не ошибка.
func (q *OperationQueue) Remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.load()
	if err != nil {
		return err
	}

	filtered := pending[:0]
	for _, op := range pending {
		if op.ID != id {
			filtered = append(filtered, op)
		}
	}

	if len(filtered) == len(pending) {
		return nil
	}

	if err := q.save(filtered); err != nil {
		return err
	}

	return q.dropAttempts(id)
}

// Clear удаляет все записи. Используется только для явного сброса,
// обычный цикл синхронизации сюда не ходит.
func (q *OperationQueue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.store.Delete(keyPendingOperations); err != nil {
		return fmt.Errorf("ошибка очистки очереди: %w", err)
	}
	return q.store.Delete(keySyncAttempts)
}

// Count возвращает число отложенных операций (индикатор «ожидает
// синхронизации» в UI).
func (q *OperationQueue) Count() (int, error) {
	pending, err := q.List()
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}

// RecordAttempt увеличивает счетчик неудачных попыток отправки записи.
// Счетчики живут под отдельным ключом и не трогают сами записи очереди.
func (q *OperationQueue) RecordAttempt(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	attempts, err := q.loadAttempts()
	if err != nil {
		return err
	}

	attempts[id]++
	return q.saveAttempts(attempts)
}

// Attempts возвращает число неудачных попыток отправки записи.
func (q *OperationQueue) Attempts(id string) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	attempts, err := q.loadAttempts()
	if err != nil {
		return 0, err
	}
	return attempts[id], nil
}

// Stale возвращает записи, исчерпавшие лимит попыток. Они пропускаются
// при синхронизации и ждут явного решения оператора, а не бесконечных
// повторов.
func (q *OperationQueue) Stale(maxAttempts int) ([]PendingOperation, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending, err := q.load()
	if err != nil {
		return nil, err
	}
	attempts, err := q.loadAttempts()
	if err != nil {
		return nil, err
	}

	var stale []PendingOperation
	for _, op := range pending {
		if attempts[op.ID] >= maxAttempts {
			stale = append(stale, op)
		}
	}
	return stale, nil
}

func (q *OperationQueue) load() ([]PendingOperation, error) {
	raw, ok, err := q.store.Get(keyPendingOperations)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения очереди: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var pending []PendingOperation
	if err := json.Unmarshal([]byte(raw), &pending); err != nil {
		return nil, fmt.Errorf("ошибка разбора очереди: %w", err)
	}
	return pending, nil
}

func (q *OperationQueue) save(pending []PendingOperation) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("ошибка сериализации очереди: %w", err)
	}

	if err := q.store.Set(keyPendingOperations, string(data)); err != nil {
		return fmt.Errorf("ошибка сохранения очереди: %w", err)
	}
	return nil
}

func (q *OperationQueue) loadAttempts() (map[string]int, error) {
	raw, ok, err := q.store.Get(keySyncAttempts)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения счетчиков попыток: %w", err)
	}

	attempts := make(map[string]int)
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &attempts); err != nil {
			return nil, fmt.Errorf("ошибка разбора счетчиков попыток: %w", err)
		}
	}
	return attempts, nil
}

func (q *OperationQueue) saveAttempts(attempts map[string]int) error {
	data, err := json.Marshal(attempts)
	if err != nil {
		return fmt.Errorf("ошибка сериализации счетчиков попыток: %w", err)
	}
	return q.store.Set(keySyncAttempts, string(data))
}

func (q *OperationQueue) dropAttempts(id string) error {
	attempts, err := q.loadAttempts()
	if err != nil {
		return err
	}
	if _, ok := attempts[id]; !ok {
		return nil
	}
	delete(attempts, id)
	return q.saveAttempts(attempts)
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
