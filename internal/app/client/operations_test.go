package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minetrack/internal/domain/catalog"
	"minetrack/internal/domain/operation"
)

type opsFixture struct {
	ops    *Operations
	queue  *OperationQueue
	server *fakeServer
	oracle *fakeOracle
	state  *ActiveState
	refs   *RefCache
}

func newOpsFixture(t *testing.T, online bool) *opsFixture {
	t.Helper()

	store := NewMemoryStorage()
	queue := NewOperationQueue(store, testLogger())
	server := &fakeServer{}
	oracle := &fakeOracle{online: online}
	state := NewActiveState()
	refs := NewRefCache(store, testLogger())

	session := NewSession(store, testLogger())
	require.NoError(t, session.SetAuth("tok-1", testAccount()))

	ops := NewOperations(queue, oracle, server, state, refs, session, testLogger())
	return &opsFixture{ops: ops, queue: queue, server: server, oracle: oracle, state: state, refs: refs}
}

func startInput() StartInput {
	return StartInput{
		Equipment: catalog.Equipment{ID: "eq-1", Name: "Экскаватор №1", Type: "excavator"},
		Activity:  "act-1",
	}
}

func TestOperations_StartOperation(t *testing.T) {
	ctx := context.Background()

	t.Run("OnlineUsesServerOperation", func(t *testing.T) {
		f := newOpsFixture(t, true)

		op, err := f.ops.StartOperation(ctx, startInput())
		require.NoError(t, err)
		assert.Equal(t, "srv-1", op.ID)

		// Живая попытка прошла, очередь пуста.
		count, err := f.queue.Count()
		require.NoError(t, err)
		assert.Zero(t, count)

		active, ok := f.state.Active()
		require.True(t, ok)
		assert.Equal(t, "srv-1", active.Operation.ID)
		assert.Equal(t, "eq-1", active.Equipment.ID)

		calls := f.server.startCalls()
		require.Len(t, calls, 1)
		assert.NotContains(t, calls[0], "localStartTime")
		assert.Contains(t, calls[0], "startTime")
		assert.Equal(t, "u-1", calls[0]["operator"])
	})

	t.Run("OfflineKeepsLocalOperation", func(t *testing.T) {
		f := newOpsFixture(t, false)

		op, err := f.ops.StartOperation(ctx, startInput())
		require.NoError(t, err)
		assert.True(t, isLocalID(op.ID))

		pending, err := f.queue.List()
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, op.ID, pending[0].ID)
		assert.Equal(t, OpStart, pending[0].Type)

		active, ok := f.state.Active()
		require.True(t, ok)
		assert.Equal(t, op.ID, active.Operation.ID)
	})

	t.Run("LiveFailureFallsBackToQueue", func(t *testing.T) {
		f := newOpsFixture(t, true)
		f.server.failStart = func(map[string]any) error { return errors.New("boom") }

		op, err := f.ops.StartOperation(ctx, startInput())
		require.NoError(t, err)
		assert.True(t, isLocalID(op.ID))

		count, err := f.queue.Count()
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("RequiresAuth", func(t *testing.T) {
		store := NewMemoryStorage()
		queue := NewOperationQueue(store, testLogger())
		session := NewSession(store, testLogger())
		ops := NewOperations(queue, &fakeOracle{}, &fakeServer{}, NewActiveState(), NewRefCache(store, testLogger()), session, testLogger())

		_, err := ops.StartOperation(ctx, startInput())
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})
}

func TestOperations_StopOperation(t *testing.T) {
	ctx := context.Background()

	t.Run("OnlineStopsOnServer", func(t *testing.T) {
		f := newOpsFixture(t, true)

		started, err := f.ops.StartOperation(ctx, startInput())
		require.NoError(t, err)

		stopped, err := f.ops.StopOperation(ctx, 7.5)
		require.NoError(t, err)
		assert.Equal(t, started.ID, stopped.ID)

		stops := f.server.stopCalls()
		require.Len(t, stops, 1)
		assert.Equal(t, started.ID, stops[0].ID)
		assert.Equal(t, float64(7.5), stops[0].Payload["distance"])

		_, ok := f.state.Active()
		assert.False(t, ok)

		count, err := f.queue.Count()
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("OfflineEnqueuesStop", func(t *testing.T) {
		f := newOpsFixture(t, false)

		started, err := f.ops.StartOperation(ctx, startInput())
		require.NoError(t, err)

		stopped, err := f.ops.StopOperation(ctx, 0)
		require.NoError(t, err)
		require.NotNil(t, stopped.EndTime)

		pending, err := f.queue.List()
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, OpStop, pending[1].Type)
		assert.Equal(t, started.ID, pending[1].Data["operationId"])

		_, ok := f.state.Active()
		assert.False(t, ok)
	})

	t.Run("LocalOperationNeverStoppedLive", func(t *testing.T) {
		// Старт не дошел до сервера, затем сеть появилась. Живой стоп по
		// локальному id невозможен: сервер такой операции не знает.
		f := newOpsFixture(t, true)
		f.server.failStart = func(map[string]any) error { return errors.New("boom") }

		_, err := f.ops.StartOperation(ctx, startInput())
		require.NoError(t, err)

		_, err = f.ops.StopOperation(ctx, 3)
		require.NoError(t, err)

		assert.Empty(t, f.server.stopCalls())

		count, err := f.queue.Count()
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("NoActiveOperation", func(t *testing.T) {
		f := newOpsFixture(t, true)

		_, err := f.ops.StopOperation(ctx, 0)
		assert.ErrorIs(t, err, ErrNoActiveOperation)
	})
}

func TestOperations_SyncActiveOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("InstallsNewestActive", func(t *testing.T) {
		f := newOpsFixture(t, true)

		end := time.Now()
		f.server.operations = []operation.Operation{
			{ID: "op-closed", Equipment: "eq-1", Operator: "u-1", StartTime: time.Now().Add(-3 * time.Hour), EndTime: &end},
			{ID: "op-old", Equipment: "eq-1", Operator: "u-1", StartTime: time.Now().Add(-2 * time.Hour)},
			{ID: "op-new", Equipment: "eq-2", Operator: "u-1", StartTime: time.Now().Add(-time.Hour)},
		}

		require.NoError(t, f.ops.SyncActiveOperations(ctx))

		active, ok := f.state.Active()
		require.True(t, ok)
		assert.Equal(t, "op-new", active.Operation.ID)
		assert.Equal(t, "eq-2", active.Equipment.ID)
	})

	t.Run("ForeignOperatorIgnored", func(t *testing.T) {
		// Незакрытая операция другого оператора не должна занять слот:
		// остановка с этого устройства завершила бы чужую работу.
		f := newOpsFixture(t, true)
		f.server.operations = []operation.Operation{
			{ID: "op-foreign", Equipment: "eq-9", Operator: "someone-else", StartTime: time.Now().Add(-time.Hour)},
		}

		require.NoError(t, f.ops.SyncActiveOperations(ctx))

		_, ok := f.state.Active()
		assert.False(t, ok)
	})

	t.Run("ForeignOperatorDoesNotShadowOwn", func(t *testing.T) {
		f := newOpsFixture(t, true)
		f.server.operations = []operation.Operation{
			{ID: "op-foreign", Equipment: "eq-9", Operator: "someone-else", StartTime: time.Now()},
			{ID: "op-own", Equipment: "eq-1", Operator: "u-1", StartTime: time.Now().Add(-time.Hour)},
		}

		require.NoError(t, f.ops.SyncActiveOperations(ctx))

		active, ok := f.state.Active()
		require.True(t, ok)
		assert.Equal(t, "op-own", active.Operation.ID)
	})

	t.Run("NoActiveOnServerClearsServerBackedSlot", func(t *testing.T) {
		f := newOpsFixture(t, true)
		f.state.Add(ActiveOperation{Operation: operation.Operation{ID: "srv-5"}})

		require.NoError(t, f.ops.SyncActiveOperations(ctx))

		_, ok := f.state.Active()
		assert.False(t, ok)
	})

	t.Run("LocalSlotSurvives", func(t *testing.T) {
		f := newOpsFixture(t, true)
		f.state.Add(ActiveOperation{Operation: operation.Operation{ID: "local_123_abc"}})

		require.NoError(t, f.ops.SyncActiveOperations(ctx))

		_, ok := f.state.Active()
		assert.True(t, ok)
	})

	t.Run("OfflineNoop", func(t *testing.T) {
		f := newOpsFixture(t, false)
		f.state.Add(ActiveOperation{Operation: operation.Operation{ID: "srv-5"}})

		require.NoError(t, f.ops.SyncActiveOperations(ctx))

		_, ok := f.state.Active()
		assert.True(t, ok)
	})
}

func TestOperations_ReferenceData(t *testing.T) {
	ctx := context.Background()

	t.Run("OnlineFetchRefreshesCache", func(t *testing.T) {
		f := newOpsFixture(t, true)
		f.server.equipment = []catalog.Equipment{{ID: "eq-1", Name: "Экскаватор №1"}}

		items, err := f.ops.Equipment(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)

		cached, err := f.refs.CachedEquipment()
		require.NoError(t, err)
		require.Len(t, cached, 1)
		assert.Equal(t, "eq-1", cached[0].ID)
	})

	t.Run("OfflineServesCache", func(t *testing.T) {
		f := newOpsFixture(t, false)
		require.NoError(t, f.refs.CacheActivities([]catalog.Activity{{ID: "act-1", Title: "Бурение"}}))

		items, err := f.ops.Activities(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "act-1", items[0].ID)
	})

	t.Run("FetchErrorFallsBackToCache", func(t *testing.T) {
		f := newOpsFixture(t, true)
		require.NoError(t, f.refs.CacheMaterials([]catalog.Material{{ID: "mat-1", Name: "Дизель"}}))
		f.server.listErr = errors.New("boom")

		items, err := f.ops.Materials(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "mat-1", items[0].ID)
	})

	t.Run("RefreshAll", func(t *testing.T) {
		f := newOpsFixture(t, true)
		f.server.equipment = []catalog.Equipment{{ID: "eq-1"}}
		f.server.activities = []catalog.Activity{{ID: "act-1"}}
		f.server.materials = []catalog.Material{{ID: "mat-1"}}

		require.NoError(t, f.ops.RefreshReferenceData(ctx))

		eq, err := f.refs.CachedEquipment()
		require.NoError(t, err)
		assert.Len(t, eq, 1)
		acts, err := f.refs.CachedActivities()
		require.NoError(t, err)
		assert.Len(t, acts, 1)
		mats, err := f.refs.CachedMaterials()
		require.NoError(t, err)
		assert.Len(t, mats, 1)
	})
}
