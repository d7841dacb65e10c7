package order

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Typed events emitted by the ledger. Payloads are JSON-encoded for the
// outbox and the fill feed.

const (
	EventOrderCreated   = "order_created"
	EventOrderExecuted  = "order_executed"
	EventOrderCancelled = "order_cancelled"
)

type OrderCreated struct {
	Index            int            `json:"index"`
	Key              Key            `json:"key"`
	Maker            common.Address `json:"maker"`
	Taker            common.Address `json:"taker"`
	Token            common.Address `json:"token"`
	TokenIDs         []uint64       `json:"tokenIds"`
	SettlementAmount *big.Int       `json:"settlementAmount"`
	OrderType        OrderType      `json:"orderType"`
	Expiry           int64          `json:"expiry"`
}

type OrderExecuted struct {
	Index    int            `json:"index"`
	Key      Key            `json:"key"`
	Filler   common.Address `json:"filler"`
	TokenIDs []uint64       `json:"tokenIds"`
	Amount   *big.Int       `json:"amount"`
	Receipt  string         `json:"receipt"`
}

type OrderCancelled struct {
	Index int `json:"index"`
	Key   Key `json:"key"`
}
