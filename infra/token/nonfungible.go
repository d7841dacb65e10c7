package token

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrNonexistentToken = errors.New("nonexistent token")
	ErrNotOwner         = errors.New("transfer from wrong owner")
	ErrNotAuthorized    = errors.New("caller not owner nor approved")
)

// NonFungible is an in-memory ERC721-like ledger with auto-incrementing
// mint ids and owner→operator bulk approvals.
type NonFungible struct {
	name   string
	symbol string

	owners    map[uint64]common.Address
	operators map[common.Address]map[common.Address]bool
	nextID    uint64
	operator  common.Address
}

func NewNonFungible(name, symbol string) *NonFungible {
	return &NonFungible{
		name:      name,
		symbol:    symbol,
		owners:    make(map[uint64]common.Address),
		operators: make(map[common.Address]map[common.Address]bool),
	}
}

func (n *NonFungible) Name() string   { return n.name }
func (n *NonFungible) Symbol() string { return n.symbol }

// Mint assigns the next sequential id to the recipient and returns it.
func (n *NonFungible) Mint(to common.Address) uint64 {
	id := n.nextID
	n.nextID++
	n.owners[id] = to
	return id
}

func (n *NonFungible) TotalSupply() uint64 {
	return n.nextID
}

func (n *NonFungible) OwnerOf(tokenID uint64) (common.Address, error) {
	owner, ok := n.owners[tokenID]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: id %d", ErrNonexistentToken, tokenID)
	}
	return owner, nil
}

func (n *NonFungible) SetApprovalForAll(owner, operator common.Address, approved bool) {
	m, ok := n.operators[owner]
	if !ok {
		m = make(map[common.Address]bool)
		n.operators[owner] = m
	}
	m[operator] = approved
}

func (n *NonFungible) IsApprovedForAll(owner, operator common.Address) bool {
	return n.operators[owner][operator]
}

// SetOperator fixes the transfer authority checked by TransferFrom.
func (n *NonFungible) SetOperator(operator common.Address) {
	n.operator = operator
}

func (n *NonFungible) TransferFrom(from, to common.Address, tokenID uint64) error {
	owner, err := n.OwnerOf(tokenID)
	if err != nil {
		return err
	}
	if owner != from {
		return fmt.Errorf("%w: id %d owned by %s", ErrNotOwner, tokenID, owner)
	}
	if from != n.operator && !n.IsApprovedForAll(from, n.operator) {
		return fmt.Errorf("%w: operator %s", ErrNotAuthorized, n.operator)
	}
	n.owners[tokenID] = to
	return nil
}
