package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue() *OperationQueue {
	return NewOperationQueue(NewMemoryStorage(), testLogger())
}

func TestOperationQueue_Enqueue(t *testing.T) {
	q := newTestQueue()

	id1, err := q.Enqueue(OpStart, map[string]any{"equipment": "eq-1"})
	require.NoError(t, err)
	id2, err := q.Enqueue(OpStop, map[string]any{"operationId": id1})
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.Contains(t, id1, "local_")

	pending, err := q.List()
	require.NoError(t, err)
	require.Len(t, pending, 2)

	// Порядок добавления сохраняется.
	assert.Equal(t, id1, pending[0].ID)
	assert.Equal(t, OpStart, pending[0].Type)
	assert.Equal(t, id2, pending[1].ID)
	assert.Equal(t, OpStop, pending[1].Type)
	assert.NotZero(t, pending[0].CreatedAt)
}

func TestOperationQueue_Remove(t *testing.T) {
	q := newTestQueue()

	id1, err := q.Enqueue(OpStart, map[string]any{"equipment": "eq-1"})
	require.NoError(t, err)
	id2, err := q.Enqueue(OpStart, map[string]any{"equipment": "eq-2"})
	require.NoError(t, err)

	require.NoError(t, q.RecordAttempt(id1))
	require.NoError(t, q.Remove(id1))

	pending, err := q.List()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id2, pending[0].ID)

	// Счетчик попыток уходит вместе с записью.
	attempts, err := q.Attempts(id1)
	require.NoError(t, err)
	assert.Zero(t, attempts)

	// Повторное удаление — no-op.
	require.NoError(t, q.Remove(id1))
	require.NoError(t, q.Remove("no-such-id"))
}

func TestOperationQueue_Clear(t *testing.T) {
	q := newTestQueue()

	id, err := q.Enqueue(OpStart, map[string]any{"equipment": "eq-1"})
	require.NoError(t, err)
	require.NoError(t, q.RecordAttempt(id))

	require.NoError(t, q.Clear())

	count, err := q.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	attempts, err := q.Attempts(id)
	require.NoError(t, err)
	assert.Zero(t, attempts)
}

func TestOperationQueue_Attempts(t *testing.T) {
	q := newTestQueue()

	id, err := q.Enqueue(OpStart, map[string]any{"equipment": "eq-1"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, q.RecordAttempt(id))
	}

	attempts, err := q.Attempts(id)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	stale, err := q.Stale(3)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, id, stale[0].ID)

	stale, err = q.Stale(4)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestOperationQueue_DataSurvivesRoundTrip(t *testing.T) {
	store := NewMemoryStorage()
	q := NewOperationQueue(store, testLogger())

	_, err := q.Enqueue(OpStart, map[string]any{
		"equipment":      "eq-1",
		"localStartTime": int64(1700000000000),
	})
	require.NoError(t, err)

	// Вторая очередь поверх того же хранилища видит ту же запись.
	q2 := NewOperationQueue(store, testLogger())
	pending, err := q2.List()
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// После JSON-цикла числа приходят как float64.
	assert.Equal(t, float64(1700000000000), pending[0].Data["localStartTime"])
}
