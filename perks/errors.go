package perks

import "errors"

var (
	// ErrInvalidTier indicates a malformed tier definition.
	ErrInvalidTier = errors.New("perks: invalid tier")

	// ErrInvalidPerk indicates an unknown tier id.
	ErrInvalidPerk = errors.New("perks: invalid perk")

	// ErrPerkNotAvailable indicates the tier capacity is exhausted.
	ErrPerkNotAvailable = errors.New("perks: perk not available")

	// ErrNotEnoughTokensForPerk indicates the holder's post-purchase balance
	// is below the tier threshold.
	ErrNotEnoughTokensForPerk = errors.New("perks: not enough tokens for perk")
)
