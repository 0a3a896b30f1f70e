package operation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Start(ctx context.Context, operatorID string, req StartRequest) (Operation, error)
	Stop(ctx context.Context, operationID string, req StopRequest) (Operation, error)
	List(ctx context.Context, operatorID string) ([]Operation, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "operation_service"),
	}
}

// Start создает новую операцию. Сервер — источник истины для правила
// «на единице техники не может быть двух незавершенных операций»:
// попытка запуска при живой операции отклоняется.
func (s *Service) Start(ctx context.Context, operatorID string, req StartRequest) (Operation, error) {
	if req.Equipment == "" || req.Activity == "" {
		return Operation{}, fmt.Errorf("%w: equipment and activity are required", ErrInvalidInput)
	}

	existing, err := s.repo.FindActiveByEquipment(ctx, req.Equipment)
	if err == nil {
		s.log.Warn("start rejected, equipment busy",
			"equipment", req.Equipment,
			"active_operation", existing.ID,
		)
		return Operation{}, ErrEquipmentBusy
	}
	if !errors.Is(err, ErrNotFound) {
		return Operation{}, fmt.Errorf("check active operation: %w", err)
	}

	now := time.Now().UTC()
	startTime := now
	if req.StartTime != nil {
		// Клиент передает локальное время старта для операций,
		// начатых офлайн и досланных позже.
		startTime = req.StartTime.UTC()
	}

	op := Operation{
		ID:               uuid.NewString(),
		Equipment:        req.Equipment,
		Activity:         req.Activity,
		Material:         req.Material,
		Operator:         operatorID,
		TruckBeingLoaded: req.TruckBeingLoaded,
		MiningFront:      req.MiningFront,
		Destination:      req.Destination,
		ActivityDetails:  req.ActivityDetails,
		StartTime:        startTime,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, op); err != nil {
		return Operation{}, fmt.Errorf("create operation: %w", err)
	}

	s.log.Info("operation started",
		"operation", op.ID,
		"equipment", op.Equipment,
		"operator", operatorID,
	)

	return op, nil
}

// Stop завершает операцию. Повторная остановка — ошибка.
func (s *Service) Stop(ctx context.Context, operationID string, req StopRequest) (Operation, error) {
	op, err := s.repo.FindByID(ctx, operationID)
	if err != nil {
		return Operation{}, err
	}

	if !op.Active() {
		return Operation{}, ErrAlreadyStopped
	}

	now := time.Now().UTC()
	endTime := now
	if req.EndTime != nil {
		endTime = req.EndTime.UTC()
	}
	if endTime.Before(op.StartTime) {
		return Operation{}, fmt.Errorf("%w: end time before start time", ErrInvalidInput)
	}

	op.EndTime = &endTime
	op.Distance = req.Distance
	op.UpdatedAt = now

	if err := s.repo.Update(ctx, op); err != nil {
		return Operation{}, fmt.Errorf("update operation: %w", err)
	}

	s.log.Info("operation stopped",
		"operation", op.ID,
		"distance", op.Distance,
	)

	return op, nil
}

// List возвращает операции аутентифицированного оператора. Чужие
// операции наружу не отдаются.
func (s *Service) List(ctx context.Context, operatorID string) ([]Operation, error) {
	ops, err := s.repo.List(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	return ops, nil
}
