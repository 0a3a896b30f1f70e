package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"minetrack/internal/domain/operation"
)

// ErrSyncInProgress возвращается при попытке запустить проход
// синхронизации, пока предыдущий не завершился. Таймер и ручной запуск
// делят один и тот же guard.
var ErrSyncInProgress = errors.New("синхронизация уже выполняется")

// SyncResult — итог одного прохода по очереди.
type SyncResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// remoteAPI — часть HTTP клиента, которой пользуется движок синхронизации.
type remoteAPI interface {
	StartOperation(ctx context.Context, payload map[string]any) (operation.Operation, error)
	StopOperation(ctx context.Context, operationID string, payload map[string]any) (operation.Operation, error)
}

// SyncService воспроизводит очередь отложенных операций против сервера,
// когда сеть доступна: по расписанию и по требованию.
type SyncService struct {
	queue       *OperationQueue
	oracle      Oracle
	api         remoteAPI
	store       Storage
	log         *slog.Logger
	interval    time.Duration
	maxAttempts int

	mu      sync.Mutex
	syncing bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewSyncService(
	queue *OperationQueue,
	oracle Oracle,
	api remoteAPI,
	store Storage,
	log *slog.Logger,
	interval time.Duration,
	maxAttempts int,
) *SyncService {
	return &SyncService{
		queue:       queue,
		oracle:      oracle,
		api:         api,
		store:       store,
		log:         log.With("component", "sync"),
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

// SyncToServer выполняет один проход: сортирует очередь по времени
// создания и отправляет записи по одной. Неудача одной записи не
// останавливает проход — запись остается в очереди до следующего раза.
// Время последней синхронизации фиксируется после прохода независимо от
// того, все ли записи прошли.
func (s *SyncService) SyncToServer(ctx context.Context) (SyncResult, error) {
	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		return SyncResult{}, ErrSyncInProgress
	}
	s.syncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.syncing = false
		s.mu.Unlock()
	}()

	if !s.oracle.IsOnline(ctx) {
		s.log.Debug("офлайн — синхронизация пропущена")
		return SyncResult{}, nil
	}

	pending, err := s.queue.List()
	if err != nil {
		return SyncResult{}, err
	}
	if len(pending) == 0 {
		return SyncResult{}, nil
	}

	s.log.Info("синхронизация отложенных операций", "count", len(pending))

	// Порядок воспроизведения — строго по времени создания: стоп не должен
	// уйти раньше, чем его старт получил шанс подтвердиться.
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].CreatedAt < pending[j].CreatedAt
	})

	// Соответствие локальных id серверным в рамках этого прохода: стоп,
	// ссылающийся на локальный id операции, чей старт только что прошел,
	// переписывается на серверный id.
	serverIDs := make(map[string]string)

	var result SyncResult
	for _, op := range pending {
		if s.maxAttempts > 0 {
			attempts, err := s.queue.Attempts(op.ID)
			if err == nil && attempts >= s.maxAttempts {
				s.log.Warn("запись исчерпала лимит попыток, пропущена",
					"id", op.ID,
					"attempts", attempts,
				)
				continue
			}
		}

		if err := s.sendOne(ctx, op, serverIDs); err != nil {
			s.log.Error("ошибка синхронизации операции", "id", op.ID, "error", err)
			result.Failed++
			if aerr := s.queue.RecordAttempt(op.ID); aerr != nil {
				s.log.Warn("ошибка учета попытки", "id", op.ID, "error", aerr)
			}
			continue
		}

		if err := s.queue.Remove(op.ID); err != nil {
			return result, err
		}
		result.Synced++
	}

	if err := s.recordLastSync(); err != nil {
		return result, err
	}

	s.log.Info("синхронизация завершена",
		"synced", result.Synced,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *SyncService) sendOne(ctx context.Context, op PendingOperation, serverIDs map[string]string) error {
	switch op.Type {
	case OpStart:
		srvOp, err := s.api.StartOperation(ctx, startPayload(op.Data))
		if err != nil {
			return err
		}
		serverIDs[op.ID] = srvOp.ID
		return nil

	case OpStop:
		operationID, _ := stringField(op.Data, "operationId")
		if mapped, ok := serverIDs[operationID]; ok && isLocalID(operationID) {
			operationID = mapped
		}
		_, err := s.api.StopOperation(ctx, operationID, stopPayload(op.Data))
		return err

	default:
		return fmt.Errorf("неизвестный тип операции: %s", op.Type)
	}
}

// startPayload готовит тело запроса старта: localStartTime превращается
// в поле startTime в формате RFC 3339 и сам из payload исключается.
func startPayload(data map[string]any) map[string]any {
	payload := make(map[string]any, len(data))
	for k, v := range data {
		payload[k] = v
	}

	if ms, ok := numberField(payload, "localStartTime"); ok {
		payload["startTime"] = time.UnixMilli(ms).UTC().Format(time.RFC3339)
	}
	delete(payload, "localStartTime")

	return payload
}

// stopPayload готовит тело запроса остановки: distance (по умолчанию 0)
// и endTime из localEndTime.
func stopPayload(data map[string]any) map[string]any {
	payload := map[string]any{
		"distance": float64(0),
	}
	if d, ok := data["distance"]; ok {
		payload["distance"] = d
	}
	if ms, ok := numberField(data, "localEndTime"); ok {
		payload["endTime"] = time.UnixMilli(ms).UTC().Format(time.RFC3339)
	}
	return payload
}

// ShouldSync — чисто временной триггер: синхронизация нужна, если ее еще
// не было или с последней прошло больше интервала. Размер очереди не
// учитывается.
func (s *SyncService) ShouldSync() bool {
	last, ok, err := s.LastSyncTime()
	if err != nil || !ok {
		return true
	}
	return time.Since(last) >= s.interval
}

// LastSyncTime возвращает время последней синхронизации, если оно было
// зафиксировано.
func (s *SyncService) LastSyncTime() (time.Time, bool, error) {
	raw, ok, err := s.store.Get(keyLastSyncTime)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("ошибка чтения времени синхронизации: %w", err)
	}
	if !ok || raw == "" {
		return time.Time{}, false, nil
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("ошибка разбора времени синхронизации: %w", err)
	}
	return time.UnixMilli(ms), true, nil
}

func (s *SyncService) recordLastSync() error {
	value := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := s.store.Set(keyLastSyncTime, value); err != nil {
		return fmt.Errorf("ошибка сохранения времени синхронизации: %w", err)
	}
	return nil
}

// IsSyncing проверяет, выполняется ли проход синхронизации.
func (s *SyncService) IsSyncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncing
}

// StartAutoSync запускает периодическую синхронизацию. Повторный вызов
// сбрасывает работающий таймер, а не добавляет второй: активен максимум
// один. Запуск сопровождается немедленной попыткой синхронизации.
func (s *SyncService) StartAutoSync(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.trySync(runCtx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				s.trySync(runCtx)
			}
		}
	}()
}

// StopAutoSync останавливает периодическую синхронизацию и дожидается
// завершения фоновой горутины.
func (s *SyncService) StopAutoSync() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *SyncService) trySync(ctx context.Context) {
	if _, err := s.SyncToServer(ctx); err != nil && !errors.Is(err, ErrSyncInProgress) {
		s.log.Error("ошибка автоматической синхронизации", "error", err)
	}
}

// numberField достает целочисленное значение из JSON-данных: после
// round-trip через encoding/json числа приходят как float64.
func numberField(data map[string]any, key string) (int64, bool) {
	v, ok := data[key]
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func stringField(data map[string]any, key string) (string, bool) {
	v, ok := data[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}
