package outbox

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	pending []Event
	sent    []int64
	failed  map[int64]string
}

func newStoreWith(events ...Event) *fakeStore {
	return &fakeStore{pending: events, failed: map[int64]string{}}
}

func (s *fakeStore) LockBatch(_ context.Context, _ string, _ int, _ time.Duration) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := s.pending
	s.pending = nil
	return batch, nil
}

func (s *fakeStore) MarkSent(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, ids...)
	return nil
}

func (s *fakeStore) MarkFailed(_ context.Context, id int64, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed[id] = errMsg
	return nil
}

func (s *fakeStore) ExtendLease(context.Context, string, []int64, time.Duration) error {
	return nil
}

func (s *fakeStore) snapshot() ([]int64, map[int64]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sent := append([]int64(nil), s.sent...)
	failed := make(map[int64]string, len(s.failed))
	for k, v := range s.failed {
		failed[k] = v
	}
	return sent, failed
}

type fakeProducer struct {
	mu       sync.Mutex
	written  []kafka.Message
	failKeys map[string]bool
}

func (p *fakeProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range msgs {
		if p.failKeys[string(m.Key)] {
			return errors.New("broker unreachable")
		}
		p.written = append(p.written, m)
	}
	return nil
}

func TestRelay_DispatchesPendingEvents(t *testing.T) {
	store := newStoreWith(
		Event{ID: 1, AggregateID: "o1", Type: "OrderConfirmed", Payload: []byte(`{}`)},
		Event{ID: 2, AggregateID: "o2", Type: "OrderConfirmed", Payload: []byte(`{}`)},
	)
	producer := &fakeProducer{}
	relay := NewRelay(slog.Default(), store, NewDispatcher(slog.Default(), producer, "order.events"), "relay-test")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = relay.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		sent, _ := store.snapshot()
		return len(sent) == 2
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	<-done

	sent, failed := store.snapshot()
	assert.ElementsMatch(t, []int64{1, 2}, sent)
	assert.Empty(t, failed)
	assert.Len(t, producer.written, 2)
}

func TestRelay_MarksFailedAndKeepsGoing(t *testing.T) {
	store := newStoreWith(
		Event{ID: 1, AggregateID: "o1", Type: "OrderConfirmed", Payload: []byte(`{}`)},
		Event{ID: 2, AggregateID: "o2", Type: "OrderConfirmed", Payload: []byte(`{}`)},
	)
	producer := &fakeProducer{failKeys: map[string]bool{"o1": true}}
	relay := NewRelay(slog.Default(), store, NewDispatcher(slog.Default(), producer, "order.events"), "relay-test")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = relay.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		sent, failed := store.snapshot()
		return len(sent) == 1 && len(failed) == 1
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	<-done

	sent, failed := store.snapshot()
	assert.Equal(t, []int64{2}, sent)
	assert.Contains(t, failed, int64(1))
}

func TestDispatcher_SetsEventTypeAndTraceHeaders(t *testing.T) {
	producer := &fakeProducer{}
	d := NewDispatcher(slog.Default(), producer, "order.events")

	err := d.Dispatch(context.Background(), Event{
		ID:          1,
		AggregateID: "o1",
		Type:        "OrderConfirmed",
		Payload:     []byte(`{}`),
		Traceparent: "00-abc-def-01",
	})

	require.NoError(t, err)
	require.Len(t, producer.written, 1)
	msg := producer.written[0]
	assert.Equal(t, "o1", string(msg.Key))

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "OrderConfirmed", headers["event_type"])
	assert.Equal(t, "00-abc-def-01", headers["traceparent"])
}
