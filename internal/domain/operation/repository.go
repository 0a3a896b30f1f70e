package operation

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, op Operation) error
	FindByID(ctx context.Context, id string) (Operation, error)
	// FindActiveByEquipment возвращает незавершенную операцию для техники,
	// если такая есть. Отсутствие — ErrNotFound.
	FindActiveByEquipment(ctx context.Context, equipmentID string) (Operation, error)
	Update(ctx context.Context, op Operation) error
	// List возвращает операции только указанного оператора.
	List(ctx context.Context, operatorID string) ([]Operation, error)
}
