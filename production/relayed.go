package production

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/staxeio/staxe-go/account"
)

// Call is a relayed engine call. Amount is a decimal string so currency
// amounts above 2^53 survive JSON.
type Call struct {
	Method       string          `json:"method"`
	ProductionID uint64          `json:"productionId"`
	To           account.Address `json:"to"`
	Shares       uint64          `json:"shares,omitempty"`
	PerkID       uint32          `json:"perkId,omitempty"`
	Amount       string          `json:"amount,omitempty"`
}

// Relayed method names.
const (
	MethodTransferProceeds = "transferProceeds"
	MethodWithdrawProceeds = "withdrawProceeds"
	MethodTransferShares   = "transferShares"
)

// TargetAddress identifies the engine as a relay target.
func (e *Engine) TargetAddress() account.Address { return e.addr }

// Handle executes a call on behalf of sender, as authenticated by forwarder.
// forwarder must be a trusted relayer.
func (e *Engine) Handle(forwarder, sender account.Address, payload []byte) error {
	if !e.roles.IsTrustedRelayer(forwarder) {
		return fmt.Errorf("%w: %s", ErrUntrustedRelayer, forwarder)
	}
	var c Call
	if err := json.Unmarshal(payload, &c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	switch c.Method {
	case MethodTransferProceeds:
		_, err := e.TransferProceeds(sender, c.ProductionID)
		return err
	case MethodWithdrawProceeds:
		amount, ok := new(big.Int).SetString(c.Amount, 10)
		if !ok {
			return fmt.Errorf("%w: amount %q", ErrInvalidPayload, c.Amount)
		}
		return e.WithdrawProceeds(sender, c.ProductionID, amount)
	case MethodTransferShares:
		return e.TransferShares(sender, c.ProductionID, c.To, c.Shares)
	}
	return fmt.Errorf("%w: unknown method %q", ErrInvalidPayload, c.Method)
}
