package revshare

import (
	"math/big"

	"github.com/staxeio/staxe-go/account"
)

// Position is a holder's settlement checkpoint.
type Position struct {
	Holder      account.Address
	LastSettled *big.Int // cumulative-per-share value at last settlement
	Unclaimed   *big.Int // settled but not yet withdrawn
	Claimed     *big.Int // total withdrawn
}

func newPosition(holder account.Address, cumulative *big.Int) *Position {
	return &Position{
		Holder:      holder,
		LastSettled: new(big.Int).Set(cumulative),
		Unclaimed:   new(big.Int),
		Claimed:     new(big.Int),
	}
}

func (p *Position) clone() Position {
	return Position{
		Holder:      p.Holder,
		LastSettled: new(big.Int).Set(p.LastSettled),
		Unclaimed:   new(big.Int).Set(p.Unclaimed),
		Claimed:     new(big.Int).Set(p.Claimed),
	}
}

// State is the serializable form of a Ledger.
type State struct {
	Cumulative *big.Int
	Remainder  *big.Int
	Deposited  *big.Int
	Withdrawn  *big.Int
	Swept      *big.Int
	Closed     bool
	Positions  []Position
}
