package production

import (
	"math/big"
	"time"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/currency"
	"github.com/staxeio/staxe-go/identity"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Roles answers capability questions; satisfied by *identity.Members.
	Roles interface {
		HasRole(addr account.Address, role identity.Role) bool
		IsDelegateOf(delegate, organizer account.Address) bool
		IsTrustedRelayer(addr account.Address) bool
	}
	// Currencies resolves trusted currencies; satisfied by *currency.Registry.
	Currencies interface {
		Lookup(addr account.Address) (currency.Token, error)
	}
	// Swapper converts the payer's native value into a production currency
	// at an external liquidity venue, delivering the output to recipient.
	Swapper interface {
		// SwapExactOutput spends at most maxIn native value to deliver
		// exactly amountOut. It returns the native value spent.
		SwapExactOutput(payer account.Address, token currency.Token, amountOut, maxIn *big.Int, recipient account.Address) (*big.Int, error)
		// SwapExactInput converts all of amountIn and returns the currency
		// amount delivered.
		SwapExactInput(payer account.Address, token currency.Token, amountIn *big.Int, recipient account.Address) (*big.Int, error)
	}
	// Store persists production snapshots after each committed operation.
	Store interface {
		Put(rec *Record) error
	}
	// Metrics observes engine operations; satisfied by *metrics.Engine.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
		ObserveRejection(operation, kind string)
		SetProductions(state string, n int)
	}
)
