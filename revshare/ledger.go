// Package revshare distributes deposited proceeds pro-rata over share
// holdings using a cumulative-per-share accumulator.
//
// Each deposit raises the accumulator by floor((amount+remainder)/eligible)
// and carries the division remainder into the next deposit, so no unit of
// currency is ever lost. A holder's entitlement is settled into an
// unclaimed balance before their share balance changes; callers must call
// Settle with the pre-change balance (see shares.Hook).
package revshare

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"

	"github.com/staxeio/staxe-go/account"
)

// Split divides numerator over eligible shares, returning the per-share
// increment and the undistributed remainder.
func Split(numerator *big.Int, eligible uint64) (perShare, remainder *big.Int) {
	d := new(big.Int).SetUint64(eligible)
	return new(big.Int).QuoRem(numerator, d, new(big.Int))
}

// Ledger is the proceeds ledger of one production. Not safe for concurrent
// use.
type Ledger struct {
	cumulative *big.Int
	remainder  *big.Int
	deposited  *big.Int
	withdrawn  *big.Int
	swept      *big.Int
	closed     bool
	positions  map[account.Address]*Position
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		cumulative: new(big.Int),
		remainder:  new(big.Int),
		deposited:  new(big.Int),
		withdrawn:  new(big.Int),
		swept:      new(big.Int),
		positions:  make(map[account.Address]*Position),
	}
}

// Deposit distributes amount over eligible shares and returns the
// per-share increment.
func (l *Ledger) Deposit(amount *big.Int, eligible uint64) (*big.Int, error) {
	if l.closed {
		return nil, ErrLedgerClosed
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	if eligible == 0 {
		return nil, ErrNoSharesOutstanding
	}
	numerator := new(big.Int).Add(amount, l.remainder)
	delta, rem := Split(numerator, eligible)
	l.cumulative.Add(l.cumulative, delta)
	l.remainder = rem
	l.deposited.Add(l.deposited, amount)
	return delta, nil
}

// Settle converts holder's accrued entitlement at balance into unclaimed
// proceeds. Calling it twice without a deposit in between is a no-op.
func (l *Ledger) Settle(holder account.Address, balance uint64) {
	p, ok := l.positions[holder]
	if !ok {
		l.positions[holder] = newPosition(holder, l.cumulative)
		return
	}
	p.Unclaimed.Add(p.Unclaimed, l.accrued(p, balance))
	p.LastSettled.Set(l.cumulative)
}

// BeforeBalanceChange implements shares.Hook.
func (l *Ledger) BeforeBalanceChange(holder account.Address, balance uint64) {
	l.Settle(holder, balance)
}

// Claimable returns what holder could withdraw right now at balance.
func (l *Ledger) Claimable(holder account.Address, balance uint64) *big.Int {
	p, ok := l.positions[holder]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Add(p.Unclaimed, l.accrued(p, balance))
}

// Claimed returns the total holder has withdrawn.
func (l *Ledger) Claimed(holder account.Address) *big.Int {
	if p, ok := l.positions[holder]; ok {
		return new(big.Int).Set(p.Claimed)
	}
	return new(big.Int)
}

// Withdraw settles holder and debits amount from their unclaimed proceeds.
func (l *Ledger) Withdraw(holder account.Address, balance uint64, amount *big.Int) error {
	if l.closed {
		return ErrLedgerClosed
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	avail := l.Claimable(holder, balance)
	if avail.Sign() == 0 {
		return ErrNothingToWithdraw
	}
	if amount.Cmp(avail) > 0 {
		return fmt.Errorf("%w: requested %s, available %s", ErrNotEnoughProceeds, amount, avail)
	}
	l.Settle(holder, balance)
	p := l.positions[holder]
	p.Unclaimed.Sub(p.Unclaimed, amount)
	p.Claimed.Add(p.Claimed, amount)
	l.withdrawn.Add(l.withdrawn, amount)
	return nil
}

// WithdrawAll withdraws everything claimable and returns the amount.
func (l *Ledger) WithdrawAll(holder account.Address, balance uint64) (*big.Int, error) {
	amount := l.Claimable(holder, balance)
	if amount.Sign() == 0 {
		if l.closed {
			return nil, ErrLedgerClosed
		}
		return nil, ErrNothingToWithdraw
	}
	if err := l.Withdraw(holder, balance, amount); err != nil {
		return nil, err
	}
	return amount, nil
}

// Outstanding returns deposits not yet withdrawn or swept.
func (l *Ledger) Outstanding() *big.Int {
	out := new(big.Int).Sub(l.deposited, l.withdrawn)
	return out.Sub(out, l.swept)
}

// Sweep closes the ledger and returns everything still outstanding.
func (l *Ledger) Sweep() *big.Int {
	out := l.Outstanding()
	l.swept.Add(l.swept, out)
	l.closed = true
	return out
}

// Cumulative returns the cumulative proceeds per share.
func (l *Ledger) Cumulative() *big.Int { return new(big.Int).Set(l.cumulative) }

// Remainder returns the undistributed remainder carried to the next deposit.
func (l *Ledger) Remainder() *big.Int { return new(big.Int).Set(l.remainder) }

// Deposited returns the sum of all deposits.
func (l *Ledger) Deposited() *big.Int { return new(big.Int).Set(l.deposited) }

// Withdrawn returns the sum of all holder withdrawals.
func (l *Ledger) Withdrawn() *big.Int { return new(big.Int).Set(l.withdrawn) }

// Closed reports whether the ledger was swept.
func (l *Ledger) Closed() bool { return l.closed }

// State returns a deep copy of the ledger.
func (l *Ledger) State() State {
	st := State{
		Cumulative: l.Cumulative(),
		Remainder:  l.Remainder(),
		Deposited:  l.Deposited(),
		Withdrawn:  l.Withdrawn(),
		Swept:      new(big.Int).Set(l.swept),
		Closed:     l.closed,
	}
	for _, h := range l.holders() {
		st.Positions = append(st.Positions, l.positions[h].clone())
	}
	return st
}

// Restore rebuilds a ledger from st.
func Restore(st State) *Ledger {
	l := NewLedger()
	setIf(l.cumulative, st.Cumulative)
	setIf(l.remainder, st.Remainder)
	setIf(l.deposited, st.Deposited)
	setIf(l.withdrawn, st.Withdrawn)
	setIf(l.swept, st.Swept)
	l.closed = st.Closed
	for i := range st.Positions {
		p := newPosition(st.Positions[i].Holder, new(big.Int))
		setIf(p.LastSettled, st.Positions[i].LastSettled)
		setIf(p.Unclaimed, st.Positions[i].Unclaimed)
		setIf(p.Claimed, st.Positions[i].Claimed)
		l.positions[p.Holder] = p
	}
	return l
}

func (l *Ledger) accrued(p *Position, balance uint64) *big.Int {
	diff := new(big.Int).Sub(l.cumulative, p.LastSettled)
	return diff.Mul(diff, new(big.Int).SetUint64(balance))
}

func (l *Ledger) holders() []account.Address {
	out := make([]account.Address, 0, len(l.positions))
	for h := range l.positions {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out
}

// gob drops zero-valued big.Int pointers, so decoded fields may be nil.
func setIf(dst, src *big.Int) {
	if src != nil {
		dst.Set(src)
	}
}
