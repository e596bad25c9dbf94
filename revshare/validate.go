package revshare

import (
	"fmt"
	"math/big"

	"github.com/staxeio/staxe-go/account"
)

// ValidateConservation checks that every deposited unit is accounted for:
// the sum of all holders' claimable proceeds plus the carried remainder
// equals deposits minus withdrawals, and withdrawals equal the sum of all
// claimed amounts. balanceOf supplies each holder's current share balance.
// A closed ledger only needs its sweep to cover the outstanding balance.
func ValidateConservation(l *Ledger, balanceOf func(account.Address) uint64) error {
	claimable := new(big.Int)
	claimed := new(big.Int)
	for _, h := range l.holders() {
		claimable.Add(claimable, l.Claimable(h, balanceOf(h)))
		claimed.Add(claimed, l.positions[h].Claimed)
	}
	if claimed.Cmp(l.withdrawn) != 0 {
		return fmt.Errorf("%w: claimed=%s withdrawn=%s", ErrConservationViolation, claimed, l.withdrawn)
	}
	if l.closed {
		if l.Outstanding().Sign() != 0 {
			return fmt.Errorf("%w: closed ledger still owes %s", ErrConservationViolation, l.Outstanding())
		}
		return nil
	}
	owed := new(big.Int).Add(claimable, l.remainder)
	if owed.Cmp(l.Outstanding()) != 0 {
		return fmt.Errorf("%w: owed=%s outstanding=%s", ErrConservationViolation, owed, l.Outstanding())
	}
	return nil
}
