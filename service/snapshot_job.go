package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"nix/snapshot"
)

// StartSnapshotJob periodically persists store state so the journal can be
// truncated. Runs until ctx is cancelled.
func (s *LedgerService) StartSnapshotJob(
	ctx context.Context,
	dir string,
	interval time.Duration,
) {
	w := &snapshot.Writer{Dir: dir}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.snapshotOnce(w)
			}
		}
	}()
}

// snapshotOnce writes a snapshot at the current seq, then drops journal
// segments and acked outbox records the snapshot has made redundant. Runs
// under the command mutex so the image is consistent with the seq.
func (s *LedgerService) snapshotOnce(w *snapshot.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.seq.Current()
	if err := w.Write(seq, s.store); err != nil {
		s.logger.Warn("snapshot write failed", zap.Error(err))
		return
	}

	if s.journal != nil {
		if err := s.journal.TruncateBefore(seq); err != nil {
			s.logger.Warn("journal truncate failed", zap.Error(err))
		}
	}
	if s.outbox != nil {
		if err := s.outbox.TruncateAckedUpTo(seq); err != nil {
			s.logger.Warn("outbox gc failed", zap.Error(err))
		}
	}

	s.logger.Info("snapshot written",
		zap.Uint64("seq", seq),
		zap.Int("orders", s.store.Len()),
	)
}
