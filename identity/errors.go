package identity

import "errors"

var (
	// ErrNotAdmin indicates the caller may not administer the registry.
	ErrNotAdmin = errors.New("identity: caller is not the registry admin")

	// ErrNotOrganizer indicates the caller lacks the organizer role.
	ErrNotOrganizer = errors.New("identity: caller is not an organizer")

	// ErrNotRelayer indicates the caller is not a trusted relayer.
	ErrNotRelayer = errors.New("identity: can only be called from trusted relayer")

	// ErrDelegateExists indicates the delegate already serves an organizer.
	ErrDelegateExists = errors.New("identity: delegate already added")

	// ErrNotDelegateOwner indicates the delegate belongs to another organizer.
	ErrNotDelegateOwner = errors.New("identity: cannot remove delegate from someone else")

	// ErrUnknownRole indicates the role name is not recognized.
	ErrUnknownRole = errors.New("identity: unknown role")

	// ErrZeroAddress indicates the zero address was supplied.
	ErrZeroAddress = errors.New("identity: zero address")
)
