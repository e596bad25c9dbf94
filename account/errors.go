package account

import "errors"

var (
	// ErrInvalidAddress indicates the address string or hash is malformed.
	ErrInvalidAddress = errors.New("account: invalid address")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("account: required parameter is nil")
)
