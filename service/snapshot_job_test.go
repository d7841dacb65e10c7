package service

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nix/domain/order"
	"nix/infra/sequence"
	"nix/infra/wal"
	"nix/snapshot"
)

func TestSnapshotTruncatesJournalAndOutbox(t *testing.T) {
	journalDir := t.TempDir()

	// A tiny segment size forces a rotation after every record, so the
	// snapshot has whole segments to drop.
	journal, err := wal.Open(wal.Config{Dir: journalDir, SegmentSize: 64})
	require.NoError(t, err)
	t.Cleanup(func() { _ = journal.Close() })

	env := newLedgerEnvWith(t, journal)
	ids := []uint64{env.nft.Mint(user0), env.nft.Mint(user0)}
	env.approveAll(t, user0)
	env.approveAll(t, user1)

	price := ether(1, 18)
	idxA, keyA, err := env.svc.MakerAddOrder(user0, common.Address{}, nftAddr, ids[:1], price, order.SellAny, 0)
	require.NoError(t, err)
	idxB, keyB, err := env.svc.MakerAddOrder(user0, common.Address{}, nftAddr, ids[1:], price, order.SellAny, 0)
	require.NoError(t, err)
	_, err = env.svc.TakerExecuteOrder(idxA, ids[:1], price, user1)
	require.NoError(t, err)
	require.NoError(t, env.svc.CancelOrder(idxB, user0))

	// Broadcast finished for the first event only.
	require.NoError(t, env.outbox.MarkSent(1))
	require.NoError(t, env.outbox.MarkAcked(1))

	snapDir := t.TempDir()
	env.svc.snapshotOnce(&snapshot.Writer{Dir: snapDir})

	// Every full segment is covered by the snapshot; only the open one
	// survives.
	segments, err := filepath.Glob(filepath.Join(journalDir, "segment-*.wal"))
	require.NoError(t, err)
	assert.Len(t, segments, 1)

	_, err = env.outbox.Get(1)
	assert.Error(t, err, "acked record should be garbage collected")
	rec, err := env.outbox.Get(2)
	require.NoError(t, err)
	assert.NotEqual(t, 0, len(rec.Payload))

	// --- reboot from snapshot plus the truncated journal ---
	store2 := order.NewStore()
	life2 := order.NewLifecycle(store2)
	seq2 := sequence.New(0)

	snapSeq, err := snapshot.Load(filepath.Join(snapDir, snapshot.FileName), store2)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), snapSeq)

	require.NoError(t, Replay(journalDir, snapSeq, life2, seq2))
	assert.Equal(t, uint64(4), seq2.Current())
	require.Equal(t, 2, store2.Len())

	a, err := store2.ByIndex(idxA)
	require.NoError(t, err)
	assert.Equal(t, order.Executed, a.Status)
	assert.Equal(t, keyA, a.Key)

	b, err := store2.ByIndex(idxB)
	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, b.Status)
	assert.Equal(t, keyB, b.Key)
}

func TestReplaySkipsSnapshottedRecords(t *testing.T) {
	journalDir := t.TempDir()
	env := newLedgerEnv(t, journalDir)

	ids := []uint64{env.nft.Mint(user0), env.nft.Mint(user0)}
	env.approveAll(t, user0)
	env.approveAll(t, user1)

	price := ether(1, 18)
	idxA, keyA, err := env.svc.MakerAddOrder(user0, common.Address{}, nftAddr, ids[:1], price, order.SellAny, 0)
	require.NoError(t, err)
	_, err = env.svc.TakerExecuteOrder(idxA, ids[:1], price, user1)
	require.NoError(t, err)

	// Snapshot mid-stream. The single open segment is never truncated,
	// so the journal still holds the snapshotted records.
	snapDir := t.TempDir()
	env.svc.snapshotOnce(&snapshot.Writer{Dir: snapDir})

	idxB, keyB, err := env.svc.MakerAddOrder(user0, common.Address{}, nftAddr, ids[1:], price, order.SellAny, 0)
	require.NoError(t, err)
	require.NoError(t, env.svc.CancelOrder(idxB, user0))

	store2 := order.NewStore()
	life2 := order.NewLifecycle(store2)
	seq2 := sequence.New(0)

	snapSeq, err := snapshot.Load(filepath.Join(snapDir, snapshot.FileName), store2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snapSeq)
	require.Equal(t, 1, store2.Len())

	// Records 1 and 2 are already in the snapshot; replaying them again
	// would collide on the order key. Only 3 and 4 may apply.
	require.NoError(t, Replay(journalDir, snapSeq, life2, seq2))
	assert.Equal(t, uint64(4), seq2.Current())
	require.Equal(t, 2, store2.Len())

	a, err := store2.ByIndex(idxA)
	require.NoError(t, err)
	assert.Equal(t, order.Executed, a.Status)
	assert.Equal(t, keyA, a.Key)

	b, err := store2.ByIndex(idxB)
	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, b.Status)
	assert.Equal(t, keyB, b.Key)
}
