package snapshot

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"nix/domain/order"
)

const FileName = "snapshot.bin"

type Writer struct {
	Dir string
}

// Write dumps the whole store in index order. Terminal orders are included
// so indexes stay stable across a snapshot boundary. The file is written
// to a temp name and renamed, so a crash mid-write leaves the previous
// snapshot intact.
func (w *Writer) Write(seq uint64, store *order.Store) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return err
	}

	s := Snapshot{
		Seq:     seq,
		Created: time.Now(),
		Orders:  make([]OrderEntry, 0, store.Len()),
	}

	for i := 0; i < store.Len(); i++ {
		o, err := store.ByIndex(i)
		if err != nil {
			return err
		}
		s.Orders = append(s.Orders, OrderEntry{
			Maker:            o.Maker,
			Taker:            o.Taker,
			Token:            o.Token,
			TokenIDs:         o.TokenIDs,
			Remaining:        o.Remaining,
			SettlementAmount: o.SettlementAmount,
			Type:             uint8(o.Type),
			Expiry:           o.Expiry,
			Status:           uint8(o.Status),
			Nonce:            o.Nonce,
			Key:              o.Key,
		})
	}

	tmp := filepath.Join(w.Dir, FileName+".tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(&s); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(w.Dir, FileName))
}
