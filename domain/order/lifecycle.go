package order

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Lifecycle validates and creates orders and owns every status transition.
// Active is the only initial state; Cancelled, Executed and NotExecutable
// are terminal.
type Lifecycle struct {
	store *Store
}

func NewLifecycle(store *Store) *Lifecycle {
	return &Lifecycle{store: store}
}

// Create validates the maker's intent, computes the order key and persists
// the order with status Active. The store length at creation time serves as
// the uniqueness nonce.
func (l *Lifecycle) Create(
	maker common.Address,
	taker common.Address,
	token common.Address,
	tokenIDs []uint64,
	settlementAmount *big.Int,
	orderType OrderType,
	expiry int64,
	now int64,
) (int, *Order, error) {
	if token == (common.Address{}) {
		return 0, nil, fmt.Errorf("%w: zero token address", ErrInvalidOrder)
	}
	if orderType > SellAll {
		return 0, nil, fmt.Errorf("%w: unknown order type %d", ErrInvalidOrder, orderType)
	}
	if settlementAmount == nil || settlementAmount.Sign() <= 0 {
		return 0, nil, fmt.Errorf("%w: settlement amount must be positive", ErrInvalidOrder)
	}
	if len(tokenIDs) == 0 && orderType != SellAny {
		// A buyer must name candidate ids; an All-type order needs a set
		// to fill atomically. Only SellAny may be open.
		return 0, nil, fmt.Errorf("%w: token ids required for %s", ErrInvalidOrder, orderType)
	}
	if hasDuplicateID(tokenIDs) {
		return 0, nil, fmt.Errorf("%w: duplicate token id", ErrInvalidOrder)
	}
	if orderType.IsAny() && len(tokenIDs) > 0 {
		rem := new(big.Int).Mod(settlementAmount, big.NewInt(int64(len(tokenIDs))))
		if rem.Sign() != 0 {
			return 0, nil, fmt.Errorf("%w: settlement amount not divisible by id count", ErrInvalidOrder)
		}
	}
	if expiry != 0 && expiry <= now {
		return 0, nil, fmt.Errorf("%w: expiry %d not in the future", ErrExpiredOrder, expiry)
	}

	nonce := uint64(l.store.Len())
	key := ComputeKey(maker, taker, token, tokenIDs, settlementAmount, orderType, expiry, nonce)
	if _, err := l.store.IndexByKey(key); err == nil {
		return 0, nil, fmt.Errorf("%w: %s", ErrDuplicateOrder, key)
	}

	o := &Order{
		Maker:            maker,
		Taker:            taker,
		Token:            token,
		TokenIDs:         append([]uint64(nil), tokenIDs...),
		Remaining:        append([]uint64(nil), tokenIDs...),
		SettlementAmount: new(big.Int).Set(settlementAmount),
		Type:             orderType,
		Expiry:           expiry,
		Status:           Active,
		Nonce:            nonce,
		Key:              key,
	}
	idx, err := l.store.Append(o)
	if err != nil {
		return 0, nil, err
	}
	return idx, o, nil
}

// Cancel transitions an Active order to Cancelled. Only the maker may
// cancel. No assets move; nothing was escrowed at creation.
func (l *Lifecycle) Cancel(index int, caller common.Address) (*Order, error) {
	o, err := l.store.ByIndex(index)
	if err != nil {
		return nil, err
	}
	if caller != o.Maker {
		return nil, fmt.Errorf("%w: only the maker may cancel", ErrUnauthorized)
	}
	if o.Status != Active {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidState, o.Status)
	}
	o.Status = Cancelled
	return o, nil
}

// ApplyFill re-applies a journaled fill while rebuilding state from the
// command journal. The fill was validated and settled when first executed;
// only the order's own bookkeeping is repeated here.
func (l *Lifecycle) ApplyFill(index int, ids []uint64) error {
	o, err := l.store.ByIndex(index)
	if err != nil {
		return err
	}
	if !o.Open() {
		o.consume(ids)
		if len(o.Remaining) == 0 {
			l.markExecuted(o)
		}
	}
	return nil
}

// ApplyNotExecutable re-applies a journaled expiry mark during replay.
func (l *Lifecycle) ApplyNotExecutable(index int) error {
	o, err := l.store.ByIndex(index)
	if err != nil {
		return err
	}
	l.markNotExecutable(o)
	return nil
}

func (l *Lifecycle) markExecuted(o *Order) {
	o.Status = Executed
}

func (l *Lifecycle) markNotExecutable(o *Order) {
	o.Status = NotExecutable
}

func hasDuplicateID(ids []uint64) bool {
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			if a == b {
				return true
			}
		}
	}
	return false
}
