package relay

import "errors"

var (
	// ErrNilRequest indicates a nil signed request.
	ErrNilRequest = errors.New("relay: request is nil")

	// ErrInvalidPublicKey indicates the attached public key cannot be parsed.
	ErrInvalidPublicKey = errors.New("relay: invalid public key")

	// ErrInvalidSignature indicates the signature does not verify against the digest.
	ErrInvalidSignature = errors.New("relay: invalid signature")

	// ErrSignerMismatch indicates the signing key does not belong to From.
	ErrSignerMismatch = errors.New("relay: signer does not match sender")

	// ErrBadNonce indicates a replayed or out-of-order request.
	ErrBadNonce = errors.New("relay: unexpected nonce")

	// ErrUnknownTarget indicates no target is registered at To.
	ErrUnknownTarget = errors.New("relay: unknown target")

	// ErrTargetExists indicates a target is already registered at the address.
	ErrTargetExists = errors.New("relay: target already registered")
)
