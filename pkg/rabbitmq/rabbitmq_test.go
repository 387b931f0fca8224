package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type settlement struct {
	tag     uint64
	acked   bool
	requeue bool
}

// fakeAcknowledger records how each delivery was settled.
type fakeAcknowledger struct {
	mu      sync.Mutex
	settled []settlement
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settled = append(f.settled, settlement{tag: tag, acked: true})
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settled = append(f.settled, settlement{tag: tag, requeue: requeue})
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func (f *fakeAcknowledger) results() []settlement {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]settlement(nil), f.settled...)
}

func TestDispatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	ack := &fakeAcknowledger{}
	deliveries := make(chan amqp.Delivery, 3)
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(`{"ok":true}`)}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("bad")}
	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte("bad"), Redelivered: true}
	close(deliveries)

	handler := func(_ context.Context, d amqp.Delivery) error {
		if string(d.Body) == "bad" {
			return errors.New("cannot decode")
		}
		return nil
	}

	err := Dispatch(context.Background(), deliveries, handler, zap.NewNop())
	assert.ErrorIs(t, err, ErrDeliveriesClosed)
	assert.Equal(t, []settlement{
		{tag: 1, acked: true},
		{tag: 2, requeue: true},
		{tag: 3, requeue: false},
	}, ack.results())
}

func TestDispatchStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ack := &fakeAcknowledger{}
	deliveries := make(chan amqp.Delivery)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Dispatch(ctx, deliveries, func(context.Context, amqp.Delivery) error { return nil }, zap.NewNop())
	}()

	deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 7}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop after cancel")
	}
	assert.Equal(t, []settlement{{tag: 7, acked: true}}, ack.results())
}
