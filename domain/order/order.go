package order

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type OrderType uint8
type Status uint8

const (
	BuyAny OrderType = iota
	SellAny
	BuyAll
	SellAll
)

const (
	Active Status = iota
	Cancelled
	Executed
	NotExecutable
)

func (t OrderType) String() string {
	switch t {
	case BuyAny:
		return "BuyAny"
	case SellAny:
		return "SellAny"
	case BuyAll:
		return "BuyAll"
	case SellAll:
		return "SellAll"
	default:
		return "Unknown"
	}
}

func (t OrderType) IsSell() bool {
	return t == SellAny || t == SellAll
}

func (t OrderType) IsAny() bool {
	return t == BuyAny || t == SellAny
}

func (s Status) String() string {
	switch s {
	case Active:
		return "Active"
	case Cancelled:
		return "Cancelled"
	case Executed:
		return "Executed"
	case NotExecutable:
		return "NotExecutable"
	default:
		return "Unknown"
	}
}

// Order is a pure domain entity. Everything except Status and Remaining is
// immutable after creation.
type Order struct {
	Maker common.Address
	Taker common.Address // zero address = open to any taker
	Token common.Address

	// TokenIDs as listed at creation. Empty on a SellAny order means any
	// id the maker currently owns in Token.
	TokenIDs []uint64

	// Remaining is the unfilled subset of TokenIDs. Nil when TokenIDs is
	// empty.
	Remaining []uint64

	SettlementAmount *big.Int
	Type             OrderType
	Expiry           int64 // unix seconds, 0 = no expiry
	Status           Status

	Nonce uint64
	Key   Key
}

// Open reports whether the order names no explicit token ids.
func (o *Order) Open() bool {
	return len(o.TokenIDs) == 0
}

// TakerRestricted reports whether only a specific account may fill.
func (o *Order) TakerRestricted() bool {
	return o.Taker != (common.Address{})
}

// UnitPrice is the settlement amount owed per token id filled. For an open
// order the settlement amount itself is the unit price.
func (o *Order) UnitPrice() *big.Int {
	if o.Open() {
		return new(big.Int).Set(o.SettlementAmount)
	}
	return new(big.Int).Div(o.SettlementAmount, big.NewInt(int64(len(o.TokenIDs))))
}

// Fillable reports whether the order can still be executed at the given
// ledger time. It does not consult token state.
func (o *Order) Fillable(now int64) bool {
	if o.Status != Active {
		return false
	}
	if o.Expiry != 0 && now >= o.Expiry {
		return false
	}
	if !o.Open() && len(o.Remaining) == 0 {
		return false
	}
	return true
}

func (o *Order) expired(now int64) bool {
	return o.Expiry != 0 && now >= o.Expiry
}

// consume removes the given ids from the remaining set. Caller must have
// validated the ids are present.
func (o *Order) consume(ids []uint64) {
	kept := o.Remaining[:0]
	for _, r := range o.Remaining {
		if !containsID(ids, r) {
			kept = append(kept, r)
		}
	}
	o.Remaining = kept
}

func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
