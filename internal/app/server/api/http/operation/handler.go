package operation

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"minetrack/internal/app/server/api/http/middleware/auth"
	"minetrack/internal/domain/operation"
)

type Handler struct {
	service    operation.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service operation.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.startOp(), h.start)
	huma.Register(api, h.stopOp(), h.stop)
	huma.Register(api, h.listOp(), h.list)
}

func (h *Handler) start(ctx context.Context, input *startInput) (*operationOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	op, err := h.service.Start(ctx, userID, input.Body)
	if err != nil {
		return &operationOutput{
			Body: OperationResponse{Success: false, Error: startErrorMessage(err)},
		}, nil
	}

	return &operationOutput{
		Body: OperationResponse{Success: true, Data: &op},
	}, nil
}

func (h *Handler) stop(ctx context.Context, input *stopInput) (*operationOutput, error) {
	if _, ok := auth.GetUserID(ctx); !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	op, err := h.service.Stop(ctx, input.ID, input.Body)
	if err != nil {
		return &operationOutput{
			Body: OperationResponse{Success: false, Error: stopErrorMessage(err)},
		}, nil
	}

	return &operationOutput{
		Body: OperationResponse{Success: true, Data: &op},
	}, nil
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*listOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	ops, err := h.service.List(ctx, userID)
	if err != nil {
		h.log.Error("list operations", "error", err)
		return &listOutput{
			Body: ListResponse{Success: false, Error: "Internal error"},
		}, nil
	}

	return &listOutput{
		Body: ListResponse{Success: true, Data: ops},
	}, nil
}

func startErrorMessage(err error) string {
	switch {
	case errors.Is(err, operation.ErrEquipmentBusy):
		return "Equipment already has an active operation"
	case errors.Is(err, operation.ErrInvalidInput):
		return err.Error()
	default:
		return "Internal error"
	}
}

func stopErrorMessage(err error) string {
	switch {
	case errors.Is(err, operation.ErrNotFound):
		return "Operation not found"
	case errors.Is(err, operation.ErrAlreadyStopped):
		return "Operation already stopped"
	case errors.Is(err, operation.ErrInvalidInput):
		return err.Error()
	default:
		return "Internal error"
	}
}
