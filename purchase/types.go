package purchase

import (
	"math/big"
	"time"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/currency"
	"github.com/staxeio/staxe-go/production"
)

type (
	// Controller is the part of the production engine the proxy buys from;
	// satisfied by *production.Engine.
	Controller interface {
		Address() account.Address
		GetTokenPrice(id uint64, amount uint64) (account.Address, *big.Int, error)
		BuyWithRelay(caller account.Address, id uint64, buyer account.Address, amount uint64, perkID uint32) (*production.Receipt, error)
	}
	// Currencies resolves trusted currencies; satisfied by *currency.Registry.
	Currencies interface {
		Lookup(addr account.Address) (currency.Token, error)
	}
	// Roles reports trusted forwarders; satisfied by *identity.Members.
	Roles interface {
		IsTrustedRelayer(addr account.Address) bool
	}
	// Metrics observes proxy purchases; satisfied by *metrics.Proxy.
	Metrics interface {
		ObservePurchase(mode string, err error, started time.Time)
		SetPending(n int)
	}
)

// allowanceGranter is implemented by currencies that support ERC-20 style
// allowances, such as *currency.Ledger.
type allowanceGranter interface {
	Approve(owner, spender account.Address, amount *big.Int) error
}
