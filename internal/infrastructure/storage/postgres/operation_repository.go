package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"minetrack/internal/domain/operation"
)

type OperationRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewOperationRepository(db *Storage, log *slog.Logger) *OperationRepository {
	return &OperationRepository{
		db:  db,
		log: log.With("component", "operation_repository"),
	}
}

const operationColumns = `
	id, equipment, activity, material, operator, truck_being_loaded,
	mining_front, destination, activity_details, distance,
	start_time, end_time, created_at, updated_at
	`

func (r *OperationRepository) Create(ctx context.Context, op operation.Operation) error {
	const query = `
		INSERT INTO operations (
			id, equipment, activity, material, operator, truck_being_loaded,
			mining_front, destination, activity_details, distance,
			start_time, end_time, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Pool().Exec(ctx, query,
		op.ID, op.Equipment, op.Activity, nullable(op.Material), op.Operator,
		nullable(op.TruckBeingLoaded), nullable(op.MiningFront),
		nullable(op.Destination), nullable(op.ActivityDetails), op.Distance,
		op.StartTime, op.EndTime, op.CreatedAt, op.UpdatedAt,
	)
	if err != nil {
		r.log.Error("failed to create operation", "operation", op.ID, "error", err)
		return fmt.Errorf("create operation: %w", err)
	}
	return nil
}

func (r *OperationRepository) FindByID(ctx context.Context, id string) (operation.Operation, error) {
	query := `SELECT` + operationColumns + `FROM operations WHERE id = $1`

	row := r.db.Pool().QueryRow(ctx, query, id)
	op, err := r.scanOperation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return operation.Operation{}, operation.ErrNotFound
		}
		r.log.Error("failed to find operation", "operation", id, "error", err)
		return operation.Operation{}, fmt.Errorf("find operation: %w", err)
	}
	return op, nil
}

func (r *OperationRepository) FindActiveByEquipment(ctx context.Context, equipmentID string) (operation.Operation, error) {
	query := `SELECT` + operationColumns + `
		FROM operations
		WHERE equipment = $1 AND end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1`

	row := r.db.Pool().QueryRow(ctx, query, equipmentID)
	op, err := r.scanOperation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return operation.Operation{}, operation.ErrNotFound
		}
		return operation.Operation{}, fmt.Errorf("find active operation: %w", err)
	}
	return op, nil
}

func (r *OperationRepository) Update(ctx context.Context, op operation.Operation) error {
	const query = `
		UPDATE operations
		SET equipment = $1, activity = $2, material = $3, operator = $4,
			truck_being_loaded = $5, mining_front = $6, destination = $7,
			activity_details = $8, distance = $9, start_time = $10,
			end_time = $11, updated_at = $12
		WHERE id = $13`

	result, err := r.db.Pool().Exec(ctx, query,
		op.Equipment, op.Activity, nullable(op.Material), op.Operator,
		nullable(op.TruckBeingLoaded), nullable(op.MiningFront),
		nullable(op.Destination), nullable(op.ActivityDetails), op.Distance,
		op.StartTime, op.EndTime, op.UpdatedAt, op.ID,
	)
	if err != nil {
		r.log.Error("failed to update operation", "operation", op.ID, "error", err)
		return fmt.Errorf("update operation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return operation.ErrNotFound
	}
	return nil
}

func (r *OperationRepository) List(ctx context.Context, operatorID string) ([]operation.Operation, error) {
	query := `SELECT` + operationColumns + `
		FROM operations
		WHERE operator = $1
		ORDER BY start_time DESC`

	rows, err := r.db.Pool().Query(ctx, query, operatorID)
	if err != nil {
		r.log.Error("failed to list operations", "error", err)
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()

	var ops []operation.Operation
	for rows.Next() {
		op, err := r.scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

func (r *OperationRepository) scanOperation(row interface {
	Scan(dest ...interface{}) error
}) (operation.Operation, error) {
	var op operation.Operation
	var material, truck, front, destination, details sql.NullString
	var endTime sql.NullTime

	err := row.Scan(
		&op.ID, &op.Equipment, &op.Activity, &material, &op.Operator,
		&truck, &front, &destination, &details, &op.Distance,
		&op.StartTime, &endTime, &op.CreatedAt, &op.UpdatedAt,
	)
	if err != nil {
		return op, err
	}

	op.Material = material.String
	op.TruckBeingLoaded = truck.String
	op.MiningFront = front.String
	op.Destination = destination.String
	op.ActivityDetails = details.String
	if endTime.Valid {
		op.EndTime = &endTime.Time
	}

	return op, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
