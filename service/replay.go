package service

import (
	"fmt"

	"nix/domain/order"
	"nix/infra/sequence"
	"nix/infra/wal"
)

// Replay rebuilds ledger state from the command journal. Records carry the
// ledger timestamp at which each command originally applied, so expiry
// decisions reproduce exactly. Records at or below fromSeq are already
// reflected in a loaded snapshot and are skipped; truncation may lag the
// snapshot, so the journal can still hold them. The sequencer resumes
// from the last journaled seq, or fromSeq when the journal holds nothing
// newer.
func Replay(
	dir string,
	fromSeq uint64,
	life *order.Lifecycle,
	seq *sequence.Sequencer,
) error {
	codec := wal.JSONSerializer{}

	lastSeq, err := wal.Replay(dir, func(rec *wal.Record) error {
		if rec.Seq <= fromSeq {
			return nil
		}
		switch rec.Type {
		case wal.RecordOrderAdded:
			var r orderAddedRecord
			if err := codec.Decode(rec.Data, &r); err != nil {
				return err
			}
			_, _, err := life.Create(
				r.Maker, r.Taker, r.Token, r.TokenIDs,
				r.SettlementAmount, order.OrderType(r.OrderType),
				r.Expiry, rec.Time,
			)
			return err

		case wal.RecordOrderCancelled:
			var r orderCancelledRecord
			if err := codec.Decode(rec.Data, &r); err != nil {
				return err
			}
			_, err := life.Cancel(r.Index, r.Caller)
			return err

		case wal.RecordOrderExecuted:
			var r orderExecutedRecord
			if err := codec.Decode(rec.Data, &r); err != nil {
				return err
			}
			return life.ApplyFill(r.Index, r.TokenIDs)

		case wal.RecordOrderNotExecutable:
			var r notExecutableRecord
			if err := codec.Decode(rec.Data, &r); err != nil {
				return err
			}
			return life.ApplyNotExecutable(r.Index)

		default:
			return fmt.Errorf("unknown journal record type %d", rec.Type)
		}
	})
	if err != nil {
		return fmt.Errorf("journal replay: %w", err)
	}

	if lastSeq < fromSeq {
		lastSeq = fromSeq
	}
	seq.Reset(lastSeq)
	return nil
}
