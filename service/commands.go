package service

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Journal payloads. Each record is a fact about a command that already
// applied; replay re-derives store state from them alone.

type orderAddedRecord struct {
	Maker            common.Address `json:"maker"`
	Taker            common.Address `json:"taker"`
	Token            common.Address `json:"token"`
	TokenIDs         []uint64       `json:"tokenIds"`
	SettlementAmount *big.Int       `json:"settlementAmount"`
	OrderType        uint8          `json:"orderType"`
	Expiry           int64          `json:"expiry"`
}

type orderCancelledRecord struct {
	Index  int            `json:"index"`
	Caller common.Address `json:"caller"`
}

type orderExecutedRecord struct {
	Index    int            `json:"index"`
	TokenIDs []uint64       `json:"tokenIds"`
	Amount   *big.Int       `json:"amount"`
	Caller   common.Address `json:"caller"`
}

type notExecutableRecord struct {
	Index int `json:"index"`
}

// eventEnvelope is the wire form shared by the outbox and the fill feed.
type eventEnvelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
