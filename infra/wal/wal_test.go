package wal

import (
	"fmt"
	"testing"
	"time"
)

func TestWAL_AppendAndReplay(t *testing.T) {
	dir := t.TempDir()

	// --- write phase ---
	w, err := Open(Config{Dir: dir})
	if err != nil {
		t.Fatalf("open wal: %v", err)
	}

	const n = 100
	now := time.Now().Unix()
	for i := 0; i < n; i++ {
		rec := NewRecord(RecordOrderAdded, uint64(i+1), now, []byte(fmt.Sprintf("order-%d", i)))
		if err := w.Append(rec); err != nil {
			t.Fatalf("append: %v", err)
		}
		if i%20 == 0 {
			_ = w.Sync()
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// --- replay phase ---
	count := 0
	lastSeq, err := Replay(dir, func(rec *Record) error {
		if rec.Type != RecordOrderAdded {
			t.Fatalf("unexpected record type: %v", rec.Type)
		}
		if rec.Time != now {
			t.Fatalf("timestamp not preserved: %d", rec.Time)
		}
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if count != n {
		t.Fatalf("expected %d records, got %d", n, count)
	}
	if lastSeq != n {
		t.Fatalf("expected last seq %d, got %d", n, lastSeq)
	}
}

func TestWAL_Rotation(t *testing.T) {
	dir := t.TempDir()

	w, err := Open(Config{Dir: dir, SegmentSize: 64})
	if err != nil {
		t.Fatalf("open wal: %v", err)
	}

	for i := 0; i < 10; i++ {
		rec := NewRecord(RecordOrderExecuted, uint64(i+1), time.Now().Unix(), []byte("rotate-me-please-with-padding"))
		if err := w.Append(rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	count := 0
	if _, err := Replay(dir, func(*Record) error { count++; return nil }); err != nil {
		t.Fatalf("replay across segments: %v", err)
	}
	if count != 10 {
		t.Fatalf("expected 10 records across rotated segments, got %d", count)
	}
}

func TestWAL_ReopenContinuesLastSegment(t *testing.T) {
	dir := t.TempDir()

	w, err := Open(Config{Dir: dir})
	if err != nil {
		t.Fatalf("open wal: %v", err)
	}
	if err := w.Append(NewRecord(RecordOrderAdded, 1, time.Now().Unix(), []byte("a"))); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = w.Close()

	w, err = Open(Config{Dir: dir})
	if err != nil {
		t.Fatalf("reopen wal: %v", err)
	}
	if err := w.Append(NewRecord(RecordOrderAdded, 2, time.Now().Unix(), []byte("b"))); err != nil {
		t.Fatalf("append after reopen: %v", err)
	}
	_ = w.Close()

	count := 0
	if _, err := Replay(dir, func(*Record) error { count++; return nil }); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 records after reopen, got %d", count)
	}
}

func TestReplayRejectsNonMonotonicSeq(t *testing.T) {
	dir := t.TempDir()

	w, err := Open(Config{Dir: dir})
	if err != nil {
		t.Fatalf("open wal: %v", err)
	}
	_ = w.Append(NewRecord(RecordOrderAdded, 2, 0, []byte("x")))
	_ = w.Append(NewRecord(RecordOrderAdded, 1, 0, []byte("y")))
	_ = w.Close()

	if _, err := Replay(dir, func(*Record) error { return nil }); err == nil {
		t.Fatal("expected error on non-monotonic seq")
	}
}
