package currency

import "errors"

var (
	// ErrInsufficientBalance indicates the sender balance cannot cover the transfer.
	ErrInsufficientBalance = errors.New("currency: transfer amount exceeds balance")

	// ErrInsufficientAllowance indicates the spender allowance cannot cover the transfer.
	ErrInsufficientAllowance = errors.New("currency: insufficient allowance")

	// ErrInvalidAmount indicates a nil or negative amount.
	ErrInvalidAmount = errors.New("currency: invalid amount")

	// ErrUnknownCurrency indicates the currency is not in the trusted set.
	ErrUnknownCurrency = errors.New("currency: unknown currency")

	// ErrNotAdmin indicates the caller may not change the trusted set.
	ErrNotAdmin = errors.New("currency: caller is not the registry admin")
)
