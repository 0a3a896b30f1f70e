package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"

	"minetrack/internal/app/server/api/http/middleware/auth"
	"minetrack/internal/domain/catalog"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Equipment(ctx context.Context) ([]catalog.Equipment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Equipment), args.Error(1)
}

func (m *MockService) Activities(ctx context.Context) ([]catalog.Activity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Activity), args.Error(1)
}

func (m *MockService) Materials(ctx context.Context) ([]catalog.Material, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Material), args.Error(1)
}

func TestHandler_Equipment(t *testing.T) {
	authCtx := auth.WithUserID(context.Background(), "u-1")

	t.Run("Success", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Equipment", mock.Anything).Return([]catalog.Equipment{{ID: "eq-1", Name: "Экскаватор №1"}}, nil)

		h := NewHandler(svc, slog.Default(), nil)

		out, err := h.equipment(authCtx, nil)
		assert.NoError(t, err)
		assert.True(t, out.Body.Success)
		assert.Len(t, out.Body.Data, 1)
	})

	t.Run("ServiceError", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Equipment", mock.Anything).Return([]catalog.Equipment(nil), errors.New("db down"))

		h := NewHandler(svc, slog.Default(), nil)

		out, err := h.equipment(authCtx, nil)
		assert.NoError(t, err)
		assert.False(t, out.Body.Success)
		assert.NotEmpty(t, out.Body.Error)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		h := NewHandler(new(MockService), slog.Default(), nil)

		out, err := h.equipment(context.Background(), nil)
		assert.Nil(t, out)
		assert.Error(t, err)
	})
}

func TestHandler_Activities(t *testing.T) {
	authCtx := auth.WithUserID(context.Background(), "u-1")

	svc := new(MockService)
	svc.On("Activities", mock.Anything).Return([]catalog.Activity{{ID: "act-1", Title: "Бурение"}}, nil)

	h := NewHandler(svc, slog.Default(), nil)

	out, err := h.activities(authCtx, nil)
	assert.NoError(t, err)
	assert.True(t, out.Body.Success)
	assert.Equal(t, "Бурение", out.Body.Data[0].Title)
}

func TestHandler_Materials(t *testing.T) {
	authCtx := auth.WithUserID(context.Background(), "u-1")

	svc := new(MockService)
	svc.On("Materials", mock.Anything).Return([]catalog.Material{{ID: "mat-1", Name: "Дизель"}}, nil)

	h := NewHandler(svc, slog.Default(), nil)

	out, err := h.materials(authCtx, nil)
	assert.NoError(t, err)
	assert.True(t, out.Body.Success)
	assert.Len(t, out.Body.Data, 1)
}
