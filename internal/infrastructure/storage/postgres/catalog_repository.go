package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/exp/slog"

	"minetrack/internal/domain/catalog"
)

type CatalogRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewCatalogRepository(db *Storage, log *slog.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:  db,
		log: log.With("component", "catalog_repository"),
	}
}

func (r *CatalogRepository) ListEquipment(ctx context.Context) ([]catalog.Equipment, error) {
	const query = `
		SELECT id, name, type, registration_number, status, owner, created_at, updated_at
		FROM equipment
		ORDER BY name`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list equipment", "error", err)
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	var items []catalog.Equipment
	for rows.Next() {
		var e catalog.Equipment
		var regNumber, owner sql.NullString

		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &regNumber, &e.Status,
			&owner, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		e.RegistrationNumber = regNumber.String
		e.Owner = owner.String
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *CatalogRepository) ListActivities(ctx context.Context) ([]catalog.Activity, error) {
	const query = `
		SELECT id, title, type, status, notes, created_at, updated_at
		FROM activities
		ORDER BY title`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list activities", "error", err)
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var items []catalog.Activity
	for rows.Next() {
		var a catalog.Activity
		var status, notes sql.NullString

		if err := rows.Scan(&a.ID, &a.Title, &a.Type, &status, &notes,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Status = status.String
		a.Notes = notes.String
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *CatalogRepository) ListMaterials(ctx context.Context) ([]catalog.Material, error) {
	const query = `
		SELECT id, name, category, quantity, unit, location, created_at, updated_at
		FROM materials
		ORDER BY name`

	rows, err := r.db.Pool().Query(ctx, query)
	if err != nil {
		r.log.Error("failed to list materials", "error", err)
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var items []catalog.Material
	for rows.Next() {
		var m catalog.Material
		var unit, location sql.NullString

		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.Quantity, &unit,
			&location, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		m.Unit = unit.String
		m.Location = location.String
		items = append(items, m)
	}
	return items, rows.Err()
}
