package catalog

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	Equipment(ctx context.Context) ([]Equipment, error)
	Activities(ctx context.Context) ([]Activity, error)
	Materials(ctx context.Context) ([]Material, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

func (s *Service) Equipment(ctx context.Context) ([]Equipment, error) {
	items, err := s.repo.ListEquipment(ctx)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	return items, nil
}

func (s *Service) Activities(ctx context.Context) ([]Activity, error) {
	items, err := s.repo.ListActivities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return items, nil
}

func (s *Service) Materials(ctx context.Context) ([]Material, error) {
	items, err := s.repo.ListMaterials(ctx)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return items, nil
}
