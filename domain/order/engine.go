package order

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Engine is the taker-side execution path. Every call either fully commits
// or fully reverts; both settlement legs are prechecked before either moves.
type Engine struct {
	store   *Store
	life    *Lifecycle
	settler Settler
}

func NewEngine(store *Store, life *Lifecycle, settler Settler) *Engine {
	return &Engine{
		store:   store,
		life:    life,
		settler: settler,
	}
}

// Receipt describes one completed fill.
type Receipt struct {
	Index    int
	Key      Key
	Filler   common.Address
	TokenIDs []uint64
	Amount   *big.Int
	Order    *Order
}

// Execute fills an order. For Sell-type orders the NFTs move maker→caller
// and settlement funds caller→maker; Buy-type is the reverse. An order whose
// expiry has passed is marked NotExecutable before the call fails, so later
// callers short-circuit on InvalidState.
func (e *Engine) Execute(
	index int,
	fillIDs []uint64,
	fillAmount *big.Int,
	caller common.Address,
	now int64,
) (*Receipt, error) {
	o, err := e.store.ByIndex(index)
	if err != nil {
		return nil, err
	}
	if o.TakerRestricted() && caller != o.Taker {
		return nil, fmt.Errorf("%w: order restricted to taker %s", ErrUnauthorized, o.Taker)
	}
	if o.Status != Active {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidState, o.Status)
	}
	if o.expired(now) {
		e.life.markNotExecutable(o)
		return nil, fmt.Errorf("%w: expired at %d", ErrExpiredOrder, o.Expiry)
	}

	if err := e.validateFill(o, fillIDs, fillAmount, caller); err != nil {
		return nil, err
	}
	if err := e.settle(o, fillIDs, fillAmount, caller); err != nil {
		return nil, err
	}

	// An open order stays Active after a fill; it is bounded by what the
	// maker still owns, not a listed set.
	if !o.Open() {
		o.consume(fillIDs)
		if len(o.Remaining) == 0 {
			e.life.markExecuted(o)
		}
	}

	return &Receipt{
		Index:    index,
		Key:      o.Key,
		Filler:   caller,
		TokenIDs: append([]uint64(nil), fillIDs...),
		Amount:   new(big.Int).Set(fillAmount),
		Order:    o,
	}, nil
}

func (e *Engine) validateFill(o *Order, fillIDs []uint64, fillAmount *big.Int, caller common.Address) error {
	if len(fillIDs) == 0 {
		return fmt.Errorf("%w: empty fill set", ErrInvalidTokenIds)
	}
	if hasDuplicateID(fillIDs) {
		return fmt.Errorf("%w: duplicate id in fill set", ErrInvalidTokenIds)
	}
	if fillAmount == nil || fillAmount.Sign() <= 0 {
		return fmt.Errorf("%w: fill amount must be positive", ErrPriceMismatch)
	}

	switch {
	case !o.Type.IsAny():
		// All-type: the entire listed set, atomically, in one call.
		for _, id := range fillIDs {
			if !containsID(o.TokenIDs, id) {
				return fmt.Errorf("%w: id %d not in order", ErrInvalidTokenIds, id)
			}
		}
		if len(fillIDs) != len(o.TokenIDs) {
			return fmt.Errorf("%w: %s order requires all %d ids", ErrPartialFillNotAllowed, o.Type, len(o.TokenIDs))
		}

	case o.Open():
		// Open SellAny: any ids the maker currently owns.
		for _, id := range fillIDs {
			owner, err := e.settler.OwnerOf(o.Token, id)
			if err != nil {
				return fmt.Errorf("%w: id %d: %v", ErrInvalidTokenIds, id, err)
			}
			if owner != o.Maker {
				return fmt.Errorf("%w: id %d not owned by maker", ErrInvalidTokenIds, id)
			}
		}

	default:
		for _, id := range fillIDs {
			if !containsID(o.Remaining, id) {
				return fmt.Errorf("%w: id %d not in remaining set", ErrInvalidTokenIds, id)
			}
		}
	}

	// All-type orders settle at the full amount; Any-type at the unit
	// price times ids filled.
	owed := o.SettlementAmount
	if o.Type.IsAny() {
		owed = new(big.Int).Mul(o.UnitPrice(), big.NewInt(int64(len(fillIDs))))
	}
	if fillAmount.Cmp(owed) != 0 {
		return fmt.Errorf("%w: owed %s, supplied %s", ErrPriceMismatch, owed, fillAmount)
	}
	return nil
}

func (e *Engine) settle(o *Order, fillIDs []uint64, fillAmount *big.Int, caller common.Address) error {
	nftFrom, nftTo := o.Maker, caller
	payFrom, payTo := caller, o.Maker
	if !o.Type.IsSell() {
		nftFrom, nftTo = caller, o.Maker
		payFrom, payTo = o.Maker, caller
	}

	if err := e.settler.CheckNonFungible(o.Token, nftFrom, fillIDs); err != nil {
		return err
	}
	if err := e.settler.CheckFungible(payFrom, fillAmount); err != nil {
		return err
	}

	for _, id := range fillIDs {
		if err := e.settler.TransferNonFungible(o.Token, nftFrom, nftTo, id); err != nil {
			return err
		}
	}
	return e.settler.TransferFungible(payFrom, payTo, fillAmount)
}
