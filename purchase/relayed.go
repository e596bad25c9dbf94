package purchase

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/staxeio/staxe-go/account"
)

// Call is a relayed proxy call. Amount is a decimal string.
type Call struct {
	Method       string          `json:"method"`
	ProductionID uint64          `json:"productionId,omitempty"`
	Shares       uint64          `json:"shares,omitempty"`
	PerkID       uint32          `json:"perkId,omitempty"`
	Currency     account.Address `json:"currency"`
	Amount       string          `json:"amount,omitempty"`
}

// Relayed method names.
const (
	MethodPlacePurchase = "placePurchase"
	MethodPurchase      = "purchase"
	MethodWithdraw      = "withdraw"
	MethodWithdrawAll   = "withdrawAll"
)

// TargetAddress identifies the proxy as a relay target.
func (p *Proxy) TargetAddress() account.Address { return p.addr }

// Handle executes a call on behalf of sender, as authenticated by forwarder.
func (p *Proxy) Handle(forwarder, sender account.Address, payload []byte) error {
	if !p.roles.IsTrustedRelayer(forwarder) {
		return fmt.Errorf("%w: %s", ErrUntrustedForwarder, forwarder)
	}
	var c Call
	if err := json.Unmarshal(payload, &c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	switch c.Method {
	case MethodPlacePurchase:
		_, err := p.PlacePurchase(sender, c.ProductionID, c.Shares, c.PerkID)
		return err
	case MethodPurchase:
		_, err := p.Purchase(sender, c.ProductionID, c.Shares, c.PerkID)
		return err
	case MethodWithdraw:
		amount, ok := new(big.Int).SetString(c.Amount, 10)
		if !ok {
			return fmt.Errorf("%w: amount %q", ErrInvalidPayload, c.Amount)
		}
		return p.Withdraw(sender, c.Currency, amount)
	case MethodWithdrawAll:
		_, err := p.WithdrawAll(sender, c.Currency)
		return err
	}
	return fmt.Errorf("%w: unknown method %q", ErrInvalidPayload, c.Method)
}
