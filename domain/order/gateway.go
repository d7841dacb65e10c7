package order

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// FungibleToken is the settlement-asset capability the engine consumes.
type FungibleToken interface {
	BalanceOf(owner common.Address) *big.Int
	Allowance(owner, spender common.Address) *big.Int
	TransferFrom(from, to common.Address, amount *big.Int) error
}

// NonFungibleToken is the NFT capability the engine consumes.
type NonFungibleToken interface {
	OwnerOf(tokenID uint64) (common.Address, error)
	IsApprovedForAll(owner, operator common.Address) bool
	TransferFrom(from, to common.Address, tokenID uint64) error
}

// Settler is what the engine settles through. Gateway is the production
// implementation.
type Settler interface {
	CheckFungible(from common.Address, amount *big.Int) error
	CheckNonFungible(token common.Address, from common.Address, ids []uint64) error
	OwnerOf(token common.Address, id uint64) (common.Address, error)
	TransferFungible(from, to common.Address, amount *big.Int) error
	TransferNonFungible(token common.Address, from, to common.Address, id uint64) error
}

var (
	// ErrUnknownCollection wraps ErrInvalidOrder: an order naming a
	// collection the gateway does not know cannot settle.
	ErrUnknownCollection = fmt.Errorf("%w: unknown token collection", ErrInvalidOrder)
	ErrNotApproved       = errors.New("transfer not approved for operator")
	ErrInsufficientFunds = errors.New("insufficient settlement balance")
)

// Gateway wraps the external asset capabilities. The engine never custodies
// assets: makers and takers grant the gateway's operator account transfer
// rights up front, and the gateway verifies those grants before pulling.
type Gateway struct {
	operator    common.Address
	funds       FungibleToken
	collections map[common.Address]NonFungibleToken
}

func NewGateway(operator common.Address, funds FungibleToken) *Gateway {
	return &Gateway{
		operator:    operator,
		funds:       funds,
		collections: make(map[common.Address]NonFungibleToken),
	}
}

// RegisterCollection makes an NFT contract reachable under its address.
func (g *Gateway) RegisterCollection(addr common.Address, token NonFungibleToken) {
	g.collections[addr] = token
}

func (g *Gateway) collection(addr common.Address) (NonFungibleToken, error) {
	t, ok := g.collections[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, addr)
	}
	return t, nil
}

func (g *Gateway) CheckFungible(from common.Address, amount *big.Int) error {
	if g.funds.BalanceOf(from).Cmp(amount) < 0 {
		return fmt.Errorf("%w: account %s", ErrInsufficientFunds, from)
	}
	if g.funds.Allowance(from, g.operator).Cmp(amount) < 0 {
		return fmt.Errorf("%w: fungible allowance from %s", ErrNotApproved, from)
	}
	return nil
}

func (g *Gateway) CheckNonFungible(token common.Address, from common.Address, ids []uint64) error {
	t, err := g.collection(token)
	if err != nil {
		return err
	}
	for _, id := range ids {
		owner, err := t.OwnerOf(id)
		if err != nil {
			return err
		}
		if owner != from {
			return fmt.Errorf("%w: token %d not owned by %s", ErrInvalidTokenIds, id, from)
		}
	}
	if !t.IsApprovedForAll(from, g.operator) {
		return fmt.Errorf("%w: collection %s owner %s", ErrNotApproved, token, from)
	}
	return nil
}

func (g *Gateway) OwnerOf(token common.Address, id uint64) (common.Address, error) {
	t, err := g.collection(token)
	if err != nil {
		return common.Address{}, err
	}
	return t.OwnerOf(id)
}

func (g *Gateway) TransferFungible(from, to common.Address, amount *big.Int) error {
	return g.funds.TransferFrom(from, to, amount)
}

func (g *Gateway) TransferNonFungible(token common.Address, from, to common.Address, id uint64) error {
	t, err := g.collection(token)
	if err != nil {
		return err
	}
	return t.TransferFrom(from, to, id)
}
