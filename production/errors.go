package production

import (
	"errors"

	"github.com/staxeio/staxe-go/currency"
	"github.com/staxeio/staxe-go/escrow"
	"github.com/staxeio/staxe-go/identity"
	"github.com/staxeio/staxe-go/perks"
	"github.com/staxeio/staxe-go/pricing"
	"github.com/staxeio/staxe-go/revshare"
	"github.com/staxeio/staxe-go/shares"
)

var (
	// ErrNotAuthorized indicates the caller lacks the capability for the operation.
	ErrNotAuthorized = errors.New("production: not authorized")

	// ErrNotApprover indicates the caller does not hold the approver role.
	ErrNotApprover = errors.New("production: caller is not an approver")

	// ErrNotAdmin indicates the caller is not the engine admin.
	ErrNotAdmin = errors.New("production: caller is not the admin")

	// ErrNotHolder indicates the caller holds no shares of the production.
	ErrNotHolder = errors.New("production: caller holds no shares")

	// ErrUnknownCurrency indicates the currency is not in the trusted set.
	ErrUnknownCurrency = errors.New("production: unknown currency")

	// ErrInvalidSpec indicates a malformed creation request.
	ErrInvalidSpec = errors.New("production: invalid spec")

	// ErrNotExist indicates no production has the id.
	ErrNotExist = errors.New("production: does not exist")

	// ErrInvalidState indicates the operation is not allowed in the current state.
	ErrInvalidState = errors.New("production: invalid state")

	// ErrPaused indicates the production is paused.
	ErrPaused = errors.New("production: paused")

	// ErrRefundWindowTooShort indicates the refund deadline is too close.
	ErrRefundWindowTooShort = errors.New("production: refund window too short")

	// ErrRefundWindowOpen indicates refunds of a canceled production are
	// still claimable.
	ErrRefundWindowOpen = errors.New("production: refund window still open")

	// ErrZeroToken indicates a share amount of zero.
	ErrZeroToken = errors.New("production: zero token amount")

	// ErrZeroValue indicates a zero currency value or degenerate counterparty.
	ErrZeroValue = errors.New("production: zero value")

	// ErrNotEnoughTokens indicates more shares were requested than remain.
	ErrNotEnoughTokens = errors.New("production: not enough tokens")

	// ErrInsufficientPayment indicates the payment does not cover the quote.
	ErrInsufficientPayment = errors.New("production: insufficient payment")

	// ErrTokenLimitExceeded indicates a non-investor would exceed the purchase cap.
	ErrTokenLimitExceeded = errors.New("production: token limit exceeded for unknown buyer")

	// ErrUntrustedFactory indicates the registering factory is not trusted.
	ErrUntrustedFactory = errors.New("production: untrusted factory")

	// ErrUntrustedRelayer indicates the caller is not a trusted relayer.
	ErrUntrustedRelayer = errors.New("production: invalid token buyer")

	// ErrPersistence indicates an operation could not be written to the
	// store. The operation is undone.
	ErrPersistence = errors.New("production: snapshot not persisted")

	// ErrInvalidPayload indicates a relayed call could not be decoded.
	ErrInvalidPayload = errors.New("production: invalid relayed payload")
)

// Errors raised by the underlying ledgers, re-exported so callers only need
// this package for errors.Is checks.
var (
	ErrInvalidPerk            = perks.ErrInvalidPerk
	ErrPerkNotAvailable       = perks.ErrPerkNotAvailable
	ErrNotEnoughTokensForPerk = perks.ErrNotEnoughTokensForPerk
	ErrNothingToWithdraw      = revshare.ErrNothingToWithdraw
	ErrNotEnoughProceeds      = revshare.ErrNotEnoughProceeds
	ErrNoSharesOutstanding    = revshare.ErrNoSharesOutstanding
	ErrInsufficientBalance    = shares.ErrInsufficientBalance
	ErrNotOwner               = escrow.ErrNotOwner
	ErrAlreadyFunded          = escrow.ErrAlreadyFunded
	ErrUnaccountedCurrency    = escrow.ErrUnaccountedCurrency
	ErrInsufficientAllowance  = currency.ErrInsufficientAllowance
	ErrInsufficientCurrency   = currency.ErrInsufficientBalance
	ErrNotRelayer             = identity.ErrNotRelayer
	ErrProceedsLedgerClosed   = revshare.ErrLedgerClosed
	ErrSharesConservation     = shares.ErrConservationViolation
	ErrProceedsConservation   = revshare.ErrConservationViolation
)

// Kind classifies an error for the caller.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindAuthorization: caller lacks a capability, role or ownership.
	KindAuthorization
	// KindState: invalid for the lifecycle state or pause flag.
	KindState
	// KindCapacity: insufficient shares, perk capacity, funds or balance.
	KindCapacity
	// KindIntegrity: configuration or deployment fault.
	KindIntegrity
)

func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	case KindCapacity:
		return "capacity"
	case KindIntegrity:
		return "integrity"
	}
	return "unknown"
}

// Integrity is checked first so a wrapped configuration fault is never
// reported as a plain capacity problem.
var kinds = []struct {
	kind Kind
	errs []error
}{
	{KindIntegrity, []error{
		ErrUnknownCurrency, ErrUntrustedFactory, ErrAlreadyFunded, ErrUnaccountedCurrency,
		ErrPersistence, ErrSharesConservation, ErrProceedsConservation, currency.ErrUnknownCurrency,
		escrow.ErrNilOwner,
	}},
	{KindAuthorization, []error{
		ErrNotAuthorized, ErrNotApprover, ErrNotAdmin, ErrNotHolder, ErrNotOwner, ErrUntrustedRelayer,
		ErrNotRelayer, identity.ErrNotAdmin, identity.ErrNotOrganizer, identity.ErrNotDelegateOwner,
		currency.ErrNotAdmin,
	}},
	{KindState, []error{
		ErrNotExist, ErrInvalidState, ErrPaused, ErrRefundWindowTooShort, ErrRefundWindowOpen,
		ErrProceedsLedgerClosed,
		shares.ErrAlreadyFunded, shares.ErrNotFunded,
	}},
	{KindCapacity, []error{
		ErrInvalidSpec, ErrZeroToken, ErrZeroValue, ErrNotEnoughTokens, ErrInsufficientPayment,
		ErrTokenLimitExceeded, ErrInvalidPerk, ErrPerkNotAvailable, ErrNotEnoughTokensForPerk,
		ErrNothingToWithdraw, ErrNotEnoughProceeds, ErrNoSharesOutstanding, ErrInsufficientBalance,
		ErrInsufficientAllowance, ErrInsufficientCurrency, ErrInvalidPayload, shares.ErrSelfTransfer,
		shares.ErrZeroShares, revshare.ErrZeroAmount, escrow.ErrInsufficientFunds,
		escrow.ErrInvalidAmount, currency.ErrInvalidAmount, perks.ErrInvalidTier,
		identity.ErrDelegateExists, identity.ErrZeroAddress, identity.ErrUnknownRole,
		pricing.ErrZeroAmount, pricing.ErrInvalidPrice,
	}},
}

// KindOf classifies err. Nil and unrecognized errors are KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kinds {
		for _, target := range k.errs {
			if errors.Is(err, target) {
				return k.kind
			}
		}
	}
	return KindUnknown
}
