package production

import (
	"fmt"
	"math/big"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/escrow"
	"github.com/staxeio/staxe-go/events"
)

// DepositProceeds distributes amount of production currency, pulled from
// caller, pro-rata over all sold shares.
func (e *Engine) DepositProceeds(caller account.Address, id uint64, amount *big.Int) error {
	return e.apply("deposit_proceeds", id, func(en *entry, buf *events.Buffer) error {
		if err := e.checkDeposit(en, caller); err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return fmt.Errorf("%w: proceeds amount", ErrZeroValue)
		}
		if err := en.escrow.Currency().TransferFrom(e.addr, caller, en.escrow.Address(), amount); err != nil {
			return fmt.Errorf("%w: %v", ErrInsufficientPayment, err)
		}
		return e.recordProceeds(en, buf, caller, amount)
	})
}

// DepositProceedsWithNative swaps all of value into the production currency
// and distributes the result as proceeds.
func (e *Engine) DepositProceedsWithNative(caller account.Address, id uint64, value *big.Int) (*big.Int, error) {
	var received *big.Int
	err := e.apply("deposit_proceeds_with_native", id, func(en *entry, buf *events.Buffer) error {
		if err := e.checkDeposit(en, caller); err != nil {
			return err
		}
		if value == nil || value.Sign() <= 0 {
			return fmt.Errorf("%w: native value", ErrZeroValue)
		}
		if e.swapper == nil {
			return fmt.Errorf("%w: native payments unavailable", ErrInsufficientPayment)
		}
		token := unwrap(en.escrow.Currency())
		out, err := e.swapper.SwapExactInput(caller, token, value, en.escrow.Address())
		if err != nil {
			return fmt.Errorf("%w: swap: %v", ErrInsufficientPayment, err)
		}
		if out == nil || out.Sign() <= 0 {
			return fmt.Errorf("%w: swap delivered nothing", ErrZeroValue)
		}
		e.moved(token, caller, en.escrow.Address(), out, nil)
		received = out
		return e.recordProceeds(en, buf, caller, out)
	})
	if err != nil {
		return nil, err
	}
	return received, nil
}

func (e *Engine) checkDeposit(en *entry, caller account.Address) error {
	if err := en.p.expectMutable(); err != nil {
		return err
	}
	if !e.isCreator(&en.p, caller) {
		return fmt.Errorf("%w: %s", ErrNotAuthorized, caller)
	}
	if en.escrow.Sold() == 0 {
		return ErrNoSharesOutstanding
	}
	return nil
}

func (e *Engine) recordProceeds(en *entry, buf *events.Buffer, caller account.Address, amount *big.Int) error {
	delta, err := en.escrow.ReceiveCurrency(e.owner, amount, escrow.Proceeds)
	if err != nil {
		return err
	}
	emit(buf, en, events.ProceedsDeposited, caller, func(ev *events.Event) {
		ev.Amount = amount
		ev.Shares = en.escrow.Sold()
		ev.Detail = "per_share=" + delta.String()
	})
	return nil
}

// TransferProceeds pays caller everything they can claim and returns the
// amount.
func (e *Engine) TransferProceeds(caller account.Address, id uint64) (*big.Int, error) {
	var paid *big.Int
	err := e.apply("transfer_proceeds", id, func(en *entry, buf *events.Buffer) error {
		if err := en.p.expectMutable(); err != nil {
			return err
		}
		amount, err := en.escrow.PayAllProceeds(e.owner, caller)
		if err != nil {
			return err
		}
		paid = amount
		emitWithdrawal(buf, en, caller, amount)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// WithdrawProceeds pays caller amount of their claimable proceeds.
func (e *Engine) WithdrawProceeds(caller account.Address, id uint64, amount *big.Int) error {
	return e.apply("withdraw_proceeds", id, func(en *entry, buf *events.Buffer) error {
		if err := en.p.expectMutable(); err != nil {
			return err
		}
		if err := en.escrow.PayProceeds(e.owner, caller, amount); err != nil {
			return err
		}
		emitWithdrawal(buf, en, caller, amount)
		return nil
	})
}

func emitWithdrawal(buf *events.Buffer, en *entry, holder account.Address, amount *big.Int) {
	emit(buf, en, events.ProceedsWithdrawn, holder, func(ev *events.Event) {
		ev.Amount = new(big.Int).Set(amount)
		ev.Shares = en.escrow.BalanceOf(holder)
	})
}

// TransferShares moves amount shares from caller to another holder. Both
// parties' accrued proceeds are settled first.
func (e *Engine) TransferShares(caller account.Address, id uint64, to account.Address, amount uint64) error {
	return e.apply("transfer_shares", id, func(en *entry, buf *events.Buffer) error {
		if err := en.p.expectMutable(); err != nil {
			return err
		}
		if to.IsZero() {
			return fmt.Errorf("%w: zero recipient", ErrZeroValue)
		}
		if amount == 0 {
			return ErrZeroToken
		}
		if en.escrow.BalanceOf(caller) == 0 {
			return fmt.Errorf("%w: %s", ErrNotHolder, caller)
		}
		if err := en.escrow.TransferShares(e.owner, caller, to, amount); err != nil {
			return err
		}
		emit(buf, en, events.SharesTransferred, caller, func(ev *events.Event) {
			ev.Counterparty = to
			ev.Shares = amount
		})
		return nil
	})
}
