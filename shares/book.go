// Package shares tracks ownership-share balances of a single production.
//
// Unsold shares stay with the book itself (custodied by the escrow account);
// every share released to a holder counts as sold. Before any balance of a
// holder changes, the book invokes its Hook with that holder's current
// balance, which is how the proceeds ledger settles accrued entitlements.
package shares

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/staxeio/staxe-go/account"
)

// Hook is called with a holder's pre-change balance before the balance is
// mutated.
type Hook interface {
	BeforeBalanceChange(holder account.Address, balance uint64)
}

// Entry is one holder's balance.
type Entry struct {
	Holder account.Address
	Shares uint64
}

// State is the serializable form of a Book.
type State struct {
	Supply   uint64
	Unsold   uint64
	Funded   bool
	Balances []Entry
}

// Book is the share ledger of one production. Not safe for concurrent use;
// the owning escrow serializes access.
type Book struct {
	supply   uint64
	unsold   uint64
	funded   bool
	balances map[account.Address]uint64
	hook     Hook
}

// NewBook creates an unfunded book. hook may be nil.
func NewBook(hook Hook) *Book {
	return &Book{balances: make(map[account.Address]uint64), hook: hook}
}

// Fund allocates the full supply to the book. It can only happen once.
func (b *Book) Fund(supply uint64) error {
	if b.funded {
		return ErrAlreadyFunded
	}
	if supply == 0 {
		return ErrZeroShares
	}
	b.supply = supply
	b.unsold = supply
	b.funded = true
	return nil
}

// Funded reports whether Fund has succeeded.
func (b *Book) Funded() bool { return b.funded }

// Release moves amount unsold shares to holder.
func (b *Book) Release(to account.Address, amount uint64) error {
	if !b.funded {
		return ErrNotFunded
	}
	if amount == 0 {
		return ErrZeroShares
	}
	if amount > b.unsold {
		return fmt.Errorf("%w: requested %d, unsold %d", ErrNotEnoughUnsold, amount, b.unsold)
	}
	b.notify(to)
	b.unsold -= amount
	b.balances[to] += amount
	return nil
}

// Transfer moves amount shares between two holders, notifying the hook for
// both parties first.
func (b *Book) Transfer(from, to account.Address, amount uint64) error {
	if amount == 0 {
		return ErrZeroShares
	}
	if from == to {
		return ErrSelfTransfer
	}
	if have := b.balances[from]; have < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, have, amount)
	}
	b.notify(from)
	b.notify(to)
	b.balances[from] -= amount
	b.balances[to] += amount
	return nil
}

// BalanceOf returns the shares held by holder.
func (b *Book) BalanceOf(holder account.Address) uint64 { return b.balances[holder] }

// Supply returns the total share supply.
func (b *Book) Supply() uint64 { return b.supply }

// Unsold returns the shares not yet released.
func (b *Book) Unsold() uint64 { return b.unsold }

// Sold returns the shares held by holders.
func (b *Book) Sold() uint64 { return b.supply - b.unsold }

// Holders returns every address that ever held shares, in byte order.
func (b *Book) Holders() []account.Address {
	out := make([]account.Address, 0, len(b.balances))
	for h := range b.balances {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out
}

// State returns a deep copy of the book.
func (b *Book) State() State {
	st := State{Supply: b.supply, Unsold: b.unsold, Funded: b.funded}
	for _, h := range b.Holders() {
		st.Balances = append(st.Balances, Entry{Holder: h, Shares: b.balances[h]})
	}
	return st
}

// Restore replaces the book contents with st. The hook is kept.
func (b *Book) Restore(st State) {
	b.supply = st.Supply
	b.unsold = st.Unsold
	b.funded = st.Funded
	b.balances = make(map[account.Address]uint64, len(st.Balances))
	for _, e := range st.Balances {
		b.balances[e.Holder] = e.Shares
	}
}

func (b *Book) notify(holder account.Address) {
	if b.hook != nil {
		b.hook.BeforeBalanceChange(holder, b.balances[holder])
	}
}
