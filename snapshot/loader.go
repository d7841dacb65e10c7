package snapshot

import (
	"encoding/gob"
	"math/big"
	"os"

	"nix/domain/order"
)

// Load rebuilds the store from a snapshot file and returns the journal seq
// it covers; journal replay then resumes from that seq. A missing file is
// not an error: the ledger simply replays from seq zero.
func Load(path string, store *order.Store) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()

	var s Snapshot
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return 0, err
	}

	for _, e := range s.Orders {
		o := &order.Order{
			Maker:            e.Maker,
			Taker:            e.Taker,
			Token:            e.Token,
			TokenIDs:         e.TokenIDs,
			Remaining:        e.Remaining,
			SettlementAmount: new(big.Int).Set(e.SettlementAmount),
			Type:             order.OrderType(e.Type),
			Expiry:           e.Expiry,
			Status:           order.Status(e.Status),
			Nonce:            e.Nonce,
			Key:              e.Key,
		}
		if _, err := store.Append(o); err != nil {
			return 0, err
		}
	}

	return s.Seq, nil
}
