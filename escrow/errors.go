package escrow

import "errors"

var (
	// ErrNotOwner indicates a mutator was called without the owning capability.
	ErrNotOwner = errors.New("escrow: caller is not the owner")

	// ErrNilOwner indicates an account was constructed without an owner.
	ErrNilOwner = errors.New("escrow: nil owner")

	// ErrAlreadyFunded indicates the share supply was already deposited.
	ErrAlreadyFunded = errors.New("escrow: shares already deposited")

	// ErrInsufficientFunds indicates a payout above the funds bucket.
	ErrInsufficientFunds = errors.New("escrow: insufficient funds")

	// ErrUnaccountedCurrency indicates the currency balance held at the escrow
	// address does not cover what the account tracks.
	ErrUnaccountedCurrency = errors.New("escrow: currency balance does not cover tracked amounts")

	// ErrInvalidBucket indicates an unknown bucket.
	ErrInvalidBucket = errors.New("escrow: invalid bucket")

	// ErrInvalidAmount indicates a nil or non-positive currency amount.
	ErrInvalidAmount = errors.New("escrow: invalid amount")
)
