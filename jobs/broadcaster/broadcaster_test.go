package broadcaster

import (
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nix/infra/outbox"
)

func newTestBroadcaster(t *testing.T, producer sarama.SyncProducer) (*Broadcaster, *outbox.Outbox) {
	t.Helper()

	ob, err := outbox.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = ob.Close() })

	return &Broadcaster{
		outbox:   ob,
		producer: producer,
		topic:    "nix.events",
		interval: time.Second,
		logger:   zap.NewNop(),
	}, ob
}

func TestDrainAcksNewRecords(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	bc, ob := newTestBroadcaster(t, producer)

	require.NoError(t, ob.Put(1, []byte(`{"type":"order_created"}`)))
	require.NoError(t, ob.Put(2, []byte(`{"type":"order_executed"}`)))
	producer.ExpectSendMessageAndSucceed()
	producer.ExpectSendMessageAndSucceed()

	bc.drainOnce()

	for _, seq := range []uint64{1, 2} {
		rec, err := ob.Get(seq)
		require.NoError(t, err)
		assert.Equal(t, outbox.StateAcked, rec.State)
		assert.Equal(t, uint32(1), rec.Retries)
	}

	// Everything acked: a second pass must not touch the producer, which
	// the mock enforces by failing on an unexpected send.
	bc.drainOnce()
}

func TestFailedSendStaysPending(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	bc, ob := newTestBroadcaster(t, producer)

	require.NoError(t, ob.Put(1, []byte(`{"type":"order_created"}`)))
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	bc.drainOnce()

	rec, err := ob.Get(1)
	require.NoError(t, err)
	assert.Equal(t, outbox.StateSent, rec.State)

	pending := 0
	require.NoError(t, ob.ScanPending(func(*outbox.Record) error {
		pending++
		return nil
	}))
	require.Equal(t, 1, pending, "failed send must stay pending")

	producer.ExpectSendMessageAndSucceed()
	bc.drainOnce()

	rec, err = ob.Get(1)
	require.NoError(t, err)
	assert.Equal(t, outbox.StateAcked, rec.State)
	assert.Equal(t, uint32(2), rec.Retries)
}
