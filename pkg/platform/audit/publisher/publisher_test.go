package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	audit "shareholder/pkg/platform/audit"
	"shareholder/pkg/platform/audit/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	event := audit.Event{
		Action:        string(audit.EventHoldingsSearched),
		SubjectIDHash: "abc",
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	events, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventHoldingsSearched), events[0].Action)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
}

func TestPublisher_AsyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(10))
	defer pub.Close()

	err := pub.Emit(context.Background(), audit.Event{Action: string(audit.EventDebentureSelected)})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		events, _ := store.ListByAction(context.Background(), audit.EventDebentureSelected)
		return len(events) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	for range 10 {
		err := pub.Emit(context.Background(), audit.Event{Action: string(audit.EventHoldingsSearched)})
		require.NoError(t, err)
	}

	pub.Close()

	events, err := store.ListByAction(context.Background(), audit.EventHoldingsSearched)
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_EmitAfterCloseFallsBackToSync(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	pub.Close()
	pub.Close()

	require.NoError(t, pub.Emit(context.Background(), audit.Event{Action: "late"}))
	events, _ := store.ListAll(context.Background())
	assert.Len(t, events, 1)
}

func TestPublisher_BufferFull_DropsEvent(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pub.Emit(context.Background(), audit.Event{Action: string(audit.EventHoldingsSearched)})
			if err != nil {
				assert.ErrorIs(t, err, ErrBufferFull)
			}
		}()
	}
	wg.Wait()
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	pub := NewPublisher(store, WithClock(func() time.Time { return fixed }))
	defer pub.Close()

	require.NoError(t, pub.Emit(context.Background(), audit.Event{Action: "x"}))

	events, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, fixed, events[0].Timestamp)
}

func TestPublisher_PreservesExistingTimestampAndCategory(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	customTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	event := audit.Event{
		Action:    string(audit.EventHoldingsSearched),
		Category:  audit.CategorySecurity,
		Timestamp: customTime,
	}

	require.NoError(t, pub.Emit(context.Background(), event))

	events, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, customTime, events[0].Timestamp)
	assert.Equal(t, audit.CategorySecurity, events[0].Category)
}

func TestPublisher_ContextCancellation(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pub.Emit(ctx, audit.Event{Action: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPublisher_MultipleEventsKeepOrder(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	events := []audit.Event{
		{Action: string(audit.EventHoldingsSearched)},
		{Action: string(audit.EventDebentureSelected), Subject: "rq1"},
		{Action: string(audit.EventHoldingsListed)},
	}
	for _, event := range events {
		require.NoError(t, pub.Emit(context.Background(), event))
	}

	result, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, string(audit.EventHoldingsSearched), result[0].Action)
	assert.Equal(t, string(audit.EventDebentureSelected), result[1].Action)
	assert.Equal(t, audit.CategoryOperations, result[1].Category)
	assert.Equal(t, string(audit.EventHoldingsListed), result[2].Action)
}

type errStore struct{}

func (errStore) Append(context.Context, audit.Event) error { return errors.New("down") }

func TestPublisher_SyncModeReturnsStoreError(t *testing.T) {
	pub := NewPublisher(errStore{})
	assert.Error(t, pub.Emit(context.Background(), audit.Event{Action: "x"}))
}

func TestPublisher_NilIsNoop(t *testing.T) {
	var pub *Publisher
	assert.NoError(t, pub.Emit(context.Background(), audit.Event{}))
	pub.Close()
}
