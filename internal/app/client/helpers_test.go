package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"minetrack/internal/domain/catalog"
	"minetrack/internal/domain/operation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, nil))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

type fakeOracle struct {
	online bool
}

func (f *fakeOracle) IsOnline(context.Context) bool { return f.online }

type stopCall struct {
	ID      string
	Payload map[string]any
}

// fakeServer реализует serverAPI и записывает все вызовы.
type fakeServer struct {
	mu     sync.Mutex
	nextID int
	starts []map[string]any
	stops  []stopCall

	failStart func(payload map[string]any) error
	failStop  func(id string) error

	operations []operation.Operation
	equipment  []catalog.Equipment
	activities []catalog.Activity
	materials  []catalog.Material
	listErr    error
}

func (f *fakeServer) StartOperation(_ context.Context, payload map[string]any) (operation.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failStart != nil {
		if err := f.failStart(payload); err != nil {
			return operation.Operation{}, err
		}
	}

	f.nextID++
	f.starts = append(f.starts, payload)

	op := operation.Operation{
		ID:        fmt.Sprintf("srv-%d", f.nextID),
		StartTime: time.Now(),
	}
	if eq, ok := payload["equipment"].(string); ok {
		op.Equipment = eq
	}
	return op, nil
}

func (f *fakeServer) StopOperation(_ context.Context, id string, payload map[string]any) (operation.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failStop != nil {
		if err := f.failStop(id); err != nil {
			return operation.Operation{}, err
		}
	}

	f.stops = append(f.stops, stopCall{ID: id, Payload: payload})

	end := time.Now()
	return operation.Operation{ID: id, EndTime: &end}, nil
}

func (f *fakeServer) ListOperations(context.Context) ([]operation.Operation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.operations, nil
}

func (f *fakeServer) ListEquipment(context.Context) ([]catalog.Equipment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.equipment, nil
}

func (f *fakeServer) ListActivities(context.Context) ([]catalog.Activity, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.activities, nil
}

func (f *fakeServer) ListMaterials(context.Context) ([]catalog.Material, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.materials, nil
}

func (f *fakeServer) startCalls() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.starts...)
}

func (f *fakeServer) stopCalls() []stopCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]stopCall(nil), f.stops...)
}
