// Package currency models the external fungible-asset contracts a production
// can be priced in, plus the trusted set of currencies the factory accepts.
// Amounts are integers in the currency's smallest unit; no decimal count is
// assumed.
package currency

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/staxeio/staxe-go/account"
)

// Token is the fungible-asset interface consumed by the engine.
type Token interface {
	// Address identifies the currency contract.
	Address() account.Address

	// BalanceOf returns the balance of holder.
	BalanceOf(holder account.Address) *big.Int

	// Transfer moves amount from from to to.
	Transfer(from, to account.Address, amount *big.Int) error

	// TransferFrom moves amount from from to to using spender's allowance.
	TransferFrom(spender, from, to account.Address, amount *big.Int) error
}

// Ledger is an in-memory Token with allowances. Safe for concurrent use.
type Ledger struct {
	mu         sync.Mutex
	addr       account.Address
	symbol     string
	balances   map[account.Address]*big.Int
	allowances map[account.Address]map[account.Address]*big.Int // owner -> spender
}

// Compile-time interface check.
var _ Token = (*Ledger)(nil)

// NewLedger creates an empty ledger for the currency at addr.
func NewLedger(addr account.Address, symbol string) *Ledger {
	return &Ledger{
		addr:       addr,
		symbol:     symbol,
		balances:   make(map[account.Address]*big.Int),
		allowances: make(map[account.Address]map[account.Address]*big.Int),
	}
}

// Address implements Token.
func (l *Ledger) Address() account.Address { return l.addr }

// Symbol returns the ticker symbol.
func (l *Ledger) Symbol() string { return l.symbol }

// BalanceOf implements Token.
func (l *Ledger) BalanceOf(holder account.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.balance(holder))
}

// Mint credits amount to holder out of thin air.
func (l *Ledger) Mint(holder account.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[holder] = new(big.Int).Add(l.balance(holder), amount)
	return nil
}

// Approve sets spender's allowance over owner's balance.
func (l *Ledger) Approve(owner, spender account.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.allowances[owner] == nil {
		l.allowances[owner] = make(map[account.Address]*big.Int)
	}
	l.allowances[owner][spender] = new(big.Int).Set(amount)
	return nil
}

// Allowance returns spender's remaining allowance over owner's balance.
func (l *Ledger) Allowance(owner, spender account.Address) *big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if a := l.allowances[owner][spender]; a != nil {
		return new(big.Int).Set(a)
	}
	return new(big.Int)
}

// Transfer implements Token.
func (l *Ledger) Transfer(from, to account.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.move(from, to, amount)
}

// TransferFrom implements Token.
func (l *Ledger) TransferFrom(spender, from, to account.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	allowed := l.allowances[from][spender]
	if allowed == nil || allowed.Cmp(amount) < 0 {
		return fmt.Errorf("%w: spender %s", ErrInsufficientAllowance, spender)
	}
	if err := l.move(from, to, amount); err != nil {
		return err
	}
	allowed.Sub(allowed, amount)
	return nil
}

// move must be called with l.mu held.
func (l *Ledger) move(from, to account.Address, amount *big.Int) error {
	bal := l.balance(from)
	if bal.Cmp(amount) < 0 {
		return fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, bal, amount)
	}
	l.balances[from] = new(big.Int).Sub(bal, amount)
	l.balances[to] = new(big.Int).Add(l.balance(to), amount)
	return nil
}

func (l *Ledger) balance(holder account.Address) *big.Int {
	if b := l.balances[holder]; b != nil {
		return b
	}
	return new(big.Int)
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	return nil
}
