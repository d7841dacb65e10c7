package snapshot

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Snapshot is a durable image of the order store at a journal sequence.
// Journal segments whose records all fall at or below Seq are redundant
// once a snapshot is on disk.
type Snapshot struct {
	Seq     uint64
	Created time.Time
	Orders  []OrderEntry
}

// OrderEntry carries every field needed to rebuild an order verbatim,
// terminal statuses included. Indexes are positional: entry i becomes
// store index i, so the slice must cover the whole store.
type OrderEntry struct {
	Maker            common.Address
	Taker            common.Address
	Token            common.Address
	TokenIDs         []uint64
	Remaining        []uint64
	SettlementAmount *big.Int
	Type             uint8
	Expiry           int64
	Status           uint8
	Nonce            uint64
	Key              common.Hash
}
