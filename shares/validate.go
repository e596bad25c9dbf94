package shares

import "fmt"

// ValidateConservation checks that the sold counter equals the sum of all
// holder balances and never exceeds the supply.
func ValidateConservation(b *Book) error {
	var held uint64
	for _, bal := range b.balances {
		held += bal
	}
	if b.unsold > b.supply {
		return fmt.Errorf("%w: unsold=%d supply=%d", ErrConservationViolation, b.unsold, b.supply)
	}
	if held != b.Sold() {
		return fmt.Errorf("%w: held=%d sold=%d", ErrConservationViolation, held, b.Sold())
	}
	return nil
}
