package shares

import "errors"

var (
	// ErrZeroShares indicates a share amount of zero.
	ErrZeroShares = errors.New("shares: zero share amount")

	// ErrInsufficientBalance indicates the holder owns fewer shares than requested.
	ErrInsufficientBalance = errors.New("shares: insufficient balance for transfer")

	// ErrNotEnoughUnsold indicates the book holds fewer unsold shares than requested.
	ErrNotEnoughUnsold = errors.New("shares: not enough unsold shares")

	// ErrAlreadyFunded indicates the supply was already allocated.
	ErrAlreadyFunded = errors.New("shares: supply already allocated")

	// ErrNotFunded indicates the supply has not been allocated yet.
	ErrNotFunded = errors.New("shares: supply not allocated")

	// ErrSelfTransfer indicates sender and receiver are the same holder.
	ErrSelfTransfer = errors.New("shares: cannot transfer to self")

	// ErrConservationViolation indicates shares were created or destroyed.
	ErrConservationViolation = errors.New("shares: share conservation violated")
)
