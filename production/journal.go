package production

import (
	"errors"
	"math/big"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/currency"
)

// journal holds the compensations for the currency moves made by one
// operation, applied newest first when the operation does not commit.
type journal struct {
	undo []func() error
}

func (j *journal) add(fn func() error) { j.undo = append(j.undo, fn) }

func (j *journal) revert() error {
	var errs []error
	for i := len(j.undo) - 1; i >= 0; i-- {
		if err := j.undo[i](); err != nil {
			errs = append(errs, err)
		}
	}
	j.undo = nil
	return errors.Join(errs...)
}

// allowanceKeeper is implemented by tokens whose allowances can be reset.
type allowanceKeeper interface {
	Allowance(owner, spender account.Address) *big.Int
	Approve(owner, spender account.Address, amount *big.Int) error
}

// journaledToken records every transfer it performs into the engine's
// current journal.
type journaledToken struct {
	currency.Token
	e *Engine
}

// journaled wraps token for e. Wrapping is idempotent.
func (e *Engine) journaled(token currency.Token) currency.Token {
	if jt, ok := token.(*journaledToken); ok {
		return jt
	}
	return &journaledToken{Token: token, e: e}
}

// Transfer implements currency.Token.
func (t *journaledToken) Transfer(from, to account.Address, amount *big.Int) error {
	if err := t.Token.Transfer(from, to, amount); err != nil {
		return err
	}
	t.e.moved(t.Token, from, to, amount, nil)
	return nil
}

// TransferFrom implements currency.Token. Reverting also restores the
// spender's allowance when the token supports it.
func (t *journaledToken) TransferFrom(spender, from, to account.Address, amount *big.Int) error {
	var restore func() error
	if k, ok := t.Token.(allowanceKeeper); ok {
		prev := k.Allowance(from, spender)
		restore = func() error { return k.Approve(from, spender, prev) }
	}
	if err := t.Token.TransferFrom(spender, from, to, amount); err != nil {
		return err
	}
	t.e.moved(t.Token, from, to, amount, restore)
	return nil
}

// moved records that amount of token went from from to to during the
// current operation. Outside an operation it is a no-op.
func (e *Engine) moved(token currency.Token, from, to account.Address, amount *big.Int, after func() error) {
	if e.txn == nil {
		return
	}
	amt := new(big.Int).Set(amount)
	e.txn.add(func() error {
		if err := token.Transfer(to, from, amt); err != nil {
			return err
		}
		if after != nil {
			return after()
		}
		return nil
	})
}

// unwrap returns the token behind a journaled wrapper. Swappers receive
// the bare token so their own transfers are not journaled twice.
func unwrap(token currency.Token) currency.Token {
	if jt, ok := token.(*journaledToken); ok {
		return jt.Token
	}
	return token
}
