package user

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"minetrack/internal/domain/session"
	"minetrack/internal/domain/user"
)

type Handler struct {
	service    user.Servicer
	session    session.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service user.Servicer, session session.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		session:    session,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*registerOutput, error) {
	u, err := h.service.Register(ctx, input.Body.Name, input.Body.Email, input.Body.Password)
	if err != nil {
		if errors.Is(err, user.ErrDuplicate) {
			return &registerOutput{
				Body: AuthResponse{Error: "User already exists"},
			}, nil
		}
		return &registerOutput{
			Body: AuthResponse{Error: err.Error()},
		}, nil
	}

	token, err := h.session.Create(ctx, u.ID)
	if err != nil {
		h.log.Error("create session", "error", err)
		return &registerOutput{
			Body: AuthResponse{Error: "Internal error"},
		}, nil
	}

	account := u.Account()
	return &registerOutput{
		Body: AuthResponse{Token: token, User: &account},
	}, nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	u, err := h.service.Authenticate(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		// Причина не раскрывается: «нет такого пользователя» и «неверный
		// пароль» выглядят для клиента одинаково.
		return &loginOutput{
			Body: AuthResponse{Error: "Invalid credentials"},
		}, nil
	}

	token, err := h.session.Create(ctx, u.ID)
	if err != nil {
		h.log.Error("create session", "error", err)
		return &loginOutput{
			Body: AuthResponse{Error: "Internal error"},
		}, nil
	}

	account := u.Account()
	return &loginOutput{
		Body: AuthResponse{Token: token, User: &account},
	}, nil
}
