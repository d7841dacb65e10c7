package token

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
)

// Fungible is an in-memory WETH-like settlement ledger with balances and
// operator allowances.
type Fungible struct {
	name     string
	symbol   string
	decimals uint8

	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
	operator   common.Address
}

// NewFungible mints the fixed supply to the deployer.
func NewFungible(name, symbol string, decimals uint8, deployer common.Address, supply *big.Int) *Fungible {
	f := &Fungible{
		name:       name,
		symbol:     symbol,
		decimals:   decimals,
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]map[common.Address]*big.Int),
	}
	f.balances[deployer] = new(big.Int).Set(supply)
	return f
}

func (f *Fungible) Name() string    { return f.name }
func (f *Fungible) Symbol() string  { return f.symbol }
func (f *Fungible) Decimals() uint8 { return f.decimals }

func (f *Fungible) BalanceOf(owner common.Address) *big.Int {
	if b, ok := f.balances[owner]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (f *Fungible) Allowance(owner, spender common.Address) *big.Int {
	if m, ok := f.allowances[owner]; ok {
		if a, ok := m[spender]; ok {
			return new(big.Int).Set(a)
		}
	}
	return new(big.Int)
}

func (f *Fungible) Approve(owner, spender common.Address, amount *big.Int) {
	m, ok := f.allowances[owner]
	if !ok {
		m = make(map[common.Address]*big.Int)
		f.allowances[owner] = m
	}
	m[spender] = new(big.Int).Set(amount)
}

func (f *Fungible) Transfer(from, to common.Address, amount *big.Int) error {
	return f.move(from, to, amount)
}

// TransferFrom spends the caller-independent spender allowance. The spender
// here is always the ledger's registered operator; Fungible does not model
// arbitrary third-party spenders.
func (f *Fungible) TransferFrom(from, to common.Address, amount *big.Int) error {
	allowance := f.Allowance(from, f.operator)
	if allowance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s < %s", ErrInsufficientAllowance, allowance, amount)
	}
	if err := f.move(from, to, amount); err != nil {
		return err
	}
	f.allowances[from][f.operator] = allowance.Sub(allowance, amount)
	return nil
}

// SetOperator fixes the spender identity used by TransferFrom.
func (f *Fungible) SetOperator(operator common.Address) {
	f.operator = operator
}

func (f *Fungible) move(from, to common.Address, amount *big.Int) error {
	bal := f.BalanceOf(from)
	if bal.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s < %s", ErrInsufficientBalance, bal, amount)
	}
	f.balances[from] = bal.Sub(bal, amount)
	toBal, ok := f.balances[to]
	if !ok {
		toBal = new(big.Int)
		f.balances[to] = toBal
	}
	toBal.Add(toBal, amount)
	return nil
}
