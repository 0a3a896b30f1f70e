package catalog

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"minetrack/internal/app/server/api/http/middleware/auth"
	"minetrack/internal/domain/catalog"
)

type Handler struct {
	service    catalog.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service catalog.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.equipmentOp(), h.equipment)
	huma.Register(api, h.activitiesOp(), h.activities)
	huma.Register(api, h.materialsOp(), h.materials)
}

func (h *Handler) equipment(ctx context.Context, _ *struct{}) (*equipmentOutput, error) {
	if _, ok := auth.GetUserID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	items, err := h.service.Equipment(ctx)
	if err != nil {
		h.log.Error("list equipment", "error", err)
		return &equipmentOutput{
			Body: EquipmentResponse{Success: false, Error: "Internal error"},
		}, nil
	}

	return &equipmentOutput{
		Body: EquipmentResponse{Success: true, Data: items},
	}, nil
}

func (h *Handler) activities(ctx context.Context, _ *struct{}) (*activitiesOutput, error) {
	if _, ok := auth.GetUserID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	items, err := h.service.Activities(ctx)
	if err != nil {
		h.log.Error("list activities", "error", err)
		return &activitiesOutput{
			Body: ActivitiesResponse{Success: false, Error: "Internal error"},
		}, nil
	}

	return &activitiesOutput{
		Body: ActivitiesResponse{Success: true, Data: items},
	}, nil
}

func (h *Handler) materials(ctx context.Context, _ *struct{}) (*materialsOutput, error) {
	if _, ok := auth.GetUserID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	items, err := h.service.Materials(ctx)
	if err != nil {
		h.log.Error("list materials", "error", err)
		return &materialsOutput{
			Body: MaterialsResponse{Success: false, Error: "Internal error"},
		}, nil
	}

	return &materialsOutput{
		Body: MaterialsResponse{Success: true, Data: items},
	}, nil
}
