package catalog

import "context"

type Repository interface {
	ListEquipment(ctx context.Context) ([]Equipment, error)
	ListActivities(ctx context.Context) ([]Activity, error)
	ListMaterials(ctx context.Context) ([]Material, error)
}
