package production

import (
	"fmt"
	"math/big"
	"time"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/escrow"
	"github.com/staxeio/staxe-go/events"
	"github.com/staxeio/staxe-go/identity"
	"github.com/staxeio/staxe-go/perks"
	"github.com/staxeio/staxe-go/pricing"
)

// payFunc moves price into the escrow of en and returns any native value
// to hand back to the payer.
type payFunc func(en *entry, price *big.Int) (refund *big.Int, err error)

// BuyWithTokens buys amount shares for buyer, paid by caller in the
// production currency. caller must have approved the engine address.
func (e *Engine) BuyWithTokens(caller account.Address, id uint64, buyer account.Address, amount uint64, perkID uint32) (*Receipt, error) {
	return e.buy("buy_with_tokens", id, caller, buyer, amount, perkID, e.pullFrom(caller))
}

// BuyWithRelay buys on behalf of buyer, an end user authenticated by a
// trusted relayer. The relayer pays.
func (e *Engine) BuyWithRelay(caller account.Address, id uint64, buyer account.Address, amount uint64, perkID uint32) (*Receipt, error) {
	if !e.roles.IsTrustedRelayer(caller) {
		err := fmt.Errorf("%w: %s", ErrUntrustedRelayer, caller)
		e.finish("buy_with_relay", id, err, time.Now())
		return nil, err
	}
	return e.buy("buy_with_relay", id, caller, buyer, amount, perkID, e.pullFrom(caller))
}

// BuyWithNative buys amount shares for buyer, paid with value in native
// currency that is swapped into the production currency. Unspent value is
// returned in the receipt's Refund.
func (e *Engine) BuyWithNative(caller account.Address, id uint64, buyer account.Address, amount uint64, perkID uint32, value *big.Int) (*Receipt, error) {
	pay := func(en *entry, price *big.Int) (*big.Int, error) {
		if value == nil || value.Sign() <= 0 {
			return nil, fmt.Errorf("%w: native value", ErrZeroValue)
		}
		if e.swapper == nil {
			return nil, fmt.Errorf("%w: native payments unavailable", ErrInsufficientPayment)
		}
		token := unwrap(en.escrow.Currency())
		spent, err := e.swapper.SwapExactOutput(caller, token, price, value, en.escrow.Address())
		if err != nil {
			return nil, fmt.Errorf("%w: swap: %v", ErrInsufficientPayment, err)
		}
		// Swapped currency goes back to the payer if the buy aborts.
		e.moved(token, caller, en.escrow.Address(), price, nil)
		if spent.Cmp(value) > 0 {
			return nil, fmt.Errorf("%w: swap spent %s of %s", ErrInsufficientPayment, spent, value)
		}
		return new(big.Int).Sub(value, spent), nil
	}
	return e.buy("buy_with_native", id, caller, buyer, amount, perkID, pay)
}

func (e *Engine) pullFrom(payer account.Address) payFunc {
	return func(en *entry, price *big.Int) (*big.Int, error) {
		token := en.escrow.Currency()
		if err := token.TransferFrom(e.addr, payer, en.escrow.Address(), price); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInsufficientPayment, err)
		}
		return new(big.Int), nil
	}
}

func (e *Engine) buy(op string, id uint64, payer, buyer account.Address, amount uint64, perkID uint32, pay payFunc) (*Receipt, error) {
	var receipt *Receipt
	err := e.apply(op, id, func(en *entry, buf *events.Buffer) error {
		price, err := e.checkBuy(en, buyer, amount, perkID)
		if err != nil {
			return err
		}
		refund, err := pay(en, price)
		if err != nil {
			return err
		}
		if err := e.deliver(en, buf, payer, buyer, amount, perkID, price); err != nil {
			return err
		}
		receipt = &Receipt{
			ProductionID: id,
			Buyer:        buyer,
			Payer:        payer,
			Shares:       amount,
			Price:        price,
			PerkID:       perkID,
			Refund:       refund,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// checkBuy validates a purchase and returns its price.
func (e *Engine) checkBuy(en *entry, buyer account.Address, amount uint64, perkID uint32) (*big.Int, error) {
	if err := en.p.expectActive(StateOpen); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, ErrZeroToken
	}
	if buyer.IsZero() {
		return nil, fmt.Errorf("%w: zero buyer", ErrZeroValue)
	}
	if remaining := en.escrow.Unsold(); amount > remaining {
		return nil, fmt.Errorf("%w: requested %d, remaining %d", ErrNotEnoughTokens, amount, remaining)
	}
	if !e.roles.HasRole(buyer, identity.RoleInvestor) {
		if total := en.purchased(buyer) + amount; total > en.p.MaxTokensUnknownBuyer {
			return nil, fmt.Errorf("%w: %d > %d", ErrTokenLimitExceeded, total, en.p.MaxTokensUnknownBuyer)
		}
	}
	if perkID != perks.None {
		if err := en.perks.Check(perkID, en.escrow.BalanceOf(buyer)+amount); err != nil {
			return nil, err
		}
	}
	return pricing.Quote(en.p.TokenPrice, en.escrow.CumulativePerShare(), amount)
}

// deliver records the payment and hands shares and perk to buyer.
func (e *Engine) deliver(en *entry, buf *events.Buffer, payer, buyer account.Address, amount uint64, perkID uint32, price *big.Int) error {
	if _, err := en.escrow.ReceiveCurrency(e.owner, price, escrow.Funds); err != nil {
		return err
	}
	if err := en.escrow.MoveSharesOut(e.owner, buyer, amount); err != nil {
		return err
	}
	if perkID != perks.None {
		if err := en.perks.Claim(buyer, perkID, en.escrow.BalanceOf(buyer)); err != nil {
			return err
		}
	}
	en.purchases[buyer] = append(en.purchases[buyer], Purchase{
		Shares: amount,
		Price:  new(big.Int).Set(price),
		PerkID: perkID,
		Time:   e.now(),
	})
	emit(buf, en, events.TokensBought, buyer, func(ev *events.Event) {
		ev.Counterparty = payer
		ev.Shares = amount
		ev.Amount = price
		ev.PerkID = perkID
	})
	if perkID != perks.None {
		emit(buf, en, events.PerkClaimed, buyer, func(ev *events.Event) {
			ev.PerkID = perkID
			ev.Shares = amount
		})
	}
	return nil
}
