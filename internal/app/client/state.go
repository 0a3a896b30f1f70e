package client

import (
	"sync"

	"minetrack/internal/domain/catalog"
	"minetrack/internal/domain/operation"
)

// ActiveOperation — текущая рабочая сессия на устройстве: техника,
// операция (серверная или локальная заглушка до подтверждения) и момент
// старта по локальным часам.
type ActiveOperation struct {
	Equipment   catalog.Equipment   `json:"equipment"`
	Operation   operation.Operation `json:"operation"`
	StartTime   int64               `json:"startTime"` // epoch, миллисекунды
	RepeatCount int                 `json:"repeatCount"`
}

// ActiveState — одно-слотовое состояние «что сейчас запущено».
// Инвариант смоделирован типом: опциональное одиночное значение, а не
// коллекция, которая по договоренности не длиннее единицы. Зеркальные
// поля currentOperation/operationStartTime сохранены для старых
// вызывающих.
type ActiveState struct {
	mu                 sync.RWMutex
	slot               *ActiveOperation
	currentOperation   *operation.Operation
	operationStartTime *int64
}

func NewActiveState() *ActiveState {
	return &ActiveState{}
}

// Add безусловно замещает текущий слот. На устройстве одновременно
// активна ровно одна операция.
func (s *ActiveState) Add(op ActiveOperation) {
	if op.RepeatCount < 1 {
		op.RepeatCount = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.slot = &op
	opCopy := op.Operation
	start := op.StartTime
	s.currentOperation = &opCopy
	s.operationStartTime = &start
}

// Remove очищает слот только при совпадении id операции. Несовпадение —
// no-op: защита от запоздалого удаления, пришедшего после нового старта.
func (s *ActiveState) Remove(operationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slot == nil || s.slot.Operation.ID != operationID {
		return false
	}

	s.slot = nil
	s.currentOperation = nil
	s.operationStartTime = nil
	return true
}

// IncrementRepeat увеличивает отображаемый счетчик повторов при
// совпадении id. Чисто косметика, на сервер не уходит.
func (s *ActiveState) IncrementRepeat(operationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slot == nil || s.slot.Operation.ID != operationID {
		return false
	}

	s.slot.RepeatCount++
	return true
}

func (s *ActiveState) Active() (ActiveOperation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.slot == nil {
		return ActiveOperation{}, false
	}
	return *s.slot, true
}

func (s *ActiveState) CurrentOperation() (operation.Operation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentOperation == nil {
		return operation.Operation{}, false
	}
	return *s.currentOperation, true
}

func (s *ActiveState) OperationStartTime() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.operationStartTime == nil {
		return 0, false
	}
	return *s.operationStartTime, true
}

// Clear сбрасывает слот без проверки id (используется при выходе).
func (s *ActiveState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slot = nil
	s.currentOperation = nil
	s.operationStartTime = nil
}
