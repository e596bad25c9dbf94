package revshare

import "errors"

var (
	// ErrZeroAmount indicates a deposit or withdrawal of zero.
	ErrZeroAmount = errors.New("revshare: zero amount")

	// ErrNoSharesOutstanding indicates a deposit with no eligible shares to
	// distribute over.
	ErrNoSharesOutstanding = errors.New("revshare: no shares outstanding")

	// ErrNothingToWithdraw indicates the holder has no claimable proceeds.
	ErrNothingToWithdraw = errors.New("revshare: nothing to withdraw")

	// ErrNotEnoughProceeds indicates a withdrawal above the claimable amount.
	ErrNotEnoughProceeds = errors.New("revshare: not enough proceeds available")

	// ErrLedgerClosed indicates the ledger was swept and accepts no mutation.
	ErrLedgerClosed = errors.New("revshare: ledger is closed")

	// ErrConservationViolation indicates proceeds were created or destroyed.
	ErrConservationViolation = errors.New("revshare: proceeds conservation violated")
)
