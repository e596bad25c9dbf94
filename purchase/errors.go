package purchase

import "errors"

var (
	// ErrZeroAmount indicates a zero deposit, withdrawal or share count.
	ErrZeroAmount = errors.New("purchase: amount must be positive")

	// ErrZeroBeneficiary indicates a deposit credited to the zero address.
	ErrZeroBeneficiary = errors.New("purchase: zero beneficiary")

	// ErrInsufficientDeposit indicates the deposited balance does not cover
	// the quote or the withdrawal.
	ErrInsufficientDeposit = errors.New("purchase: deposit too low")

	// ErrUntrustedForwarder indicates a relayed call from an untrusted forwarder.
	ErrUntrustedForwarder = errors.New("purchase: untrusted forwarder")

	// ErrInvalidPayload indicates a relayed call could not be decoded.
	ErrInvalidPayload = errors.New("purchase: invalid relayed payload")

	// ErrApproveUnsupported indicates the currency cannot grant the engine
	// an allowance.
	ErrApproveUnsupported = errors.New("purchase: currency does not support allowances")
)
