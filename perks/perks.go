// Package perks manages capacity-limited benefit tiers attached to a
// production. Tier ids are 1-based; id 0 means "no perk".
package perks

import (
	"fmt"

	"github.com/staxeio/staxe-go/account"
)

// None is the perk id that requests no perk.
const None uint32 = 0

// TierSpec defines a tier at creation time.
type TierSpec struct {
	Total             uint32 `json:"total"`
	MinTokensRequired uint64 `json:"minTokensRequired"`
}

// Tier is a tier with its live claim counter.
type Tier struct {
	ID                uint32 `json:"id"`
	Total             uint32 `json:"total"`
	Claimed           uint32 `json:"claimed"`
	MinTokensRequired uint64 `json:"minTokensRequired"`
}

// Claim records how many times one holder claimed one tier.
type Claim struct {
	Holder account.Address
	TierID uint32
	Count  uint32
}

// State is the serializable form of a Registry.
type State struct {
	Tiers  []Tier
	Claims []Claim
}

// Registry holds the tiers of one production and who claimed them.
type Registry struct {
	tiers []Tier
	owned map[account.Address]map[uint32]uint32
}

// Validate checks a list of tier definitions.
func Validate(specs []TierSpec) error {
	for i, s := range specs {
		if s.Total == 0 {
			return fmt.Errorf("%w: tier %d has zero capacity", ErrInvalidTier, i+1)
		}
		if s.MinTokensRequired == 0 {
			return fmt.Errorf("%w: tier %d has zero token threshold", ErrInvalidTier, i+1)
		}
	}
	return nil
}

// NewRegistry validates specs and assigns ids 1..n in order.
func NewRegistry(specs []TierSpec) (*Registry, error) {
	if err := Validate(specs); err != nil {
		return nil, err
	}
	r := &Registry{owned: make(map[account.Address]map[uint32]uint32)}
	for i, s := range specs {
		r.tiers = append(r.tiers, Tier{
			ID:                uint32(i + 1),
			Total:             s.Total,
			MinTokensRequired: s.MinTokensRequired,
		})
	}
	return r, nil
}

// Check reports whether a holder whose balance will be postBalance may claim
// tierID. It does not mutate the registry.
func (r *Registry) Check(tierID uint32, postBalance uint64) error {
	t, err := r.tier(tierID)
	if err != nil {
		return err
	}
	if t.Claimed >= t.Total {
		return fmt.Errorf("%w: tier %d claimed %d/%d", ErrPerkNotAvailable, tierID, t.Claimed, t.Total)
	}
	if postBalance < t.MinTokensRequired {
		return fmt.Errorf("%w: tier %d requires %d, balance %d",
			ErrNotEnoughTokensForPerk, tierID, t.MinTokensRequired, postBalance)
	}
	return nil
}

// Claim assigns one unit of tierID to holder.
func (r *Registry) Claim(holder account.Address, tierID uint32, postBalance uint64) error {
	if err := r.Check(tierID, postBalance); err != nil {
		return err
	}
	r.tiers[tierID-1].Claimed++
	m := r.owned[holder]
	if m == nil {
		m = make(map[uint32]uint32)
		r.owned[holder] = m
	}
	m[tierID]++
	return nil
}

// Tiers returns a copy of all tiers.
func (r *Registry) Tiers() []Tier {
	out := make([]Tier, len(r.tiers))
	copy(out, r.tiers)
	return out
}

// Owned returns the tiers holder claimed. Claimed holds the holder's own
// claim count rather than the global one.
func (r *Registry) Owned(holder account.Address) []Tier {
	var out []Tier
	for _, t := range r.tiers {
		if n := r.owned[holder][t.ID]; n > 0 {
			t.Claimed = n
			out = append(out, t)
		}
	}
	return out
}

// State returns a deep copy of the registry.
func (r *Registry) State() State {
	st := State{Tiers: r.Tiers()}
	for holder, m := range r.owned {
		for _, t := range r.tiers {
			if n := m[t.ID]; n > 0 {
				st.Claims = append(st.Claims, Claim{Holder: holder, TierID: t.ID, Count: n})
			}
		}
	}
	return st
}

// Restore rebuilds a registry from st.
func Restore(st State) *Registry {
	r := &Registry{
		tiers: make([]Tier, len(st.Tiers)),
		owned: make(map[account.Address]map[uint32]uint32),
	}
	copy(r.tiers, st.Tiers)
	for _, c := range st.Claims {
		m := r.owned[c.Holder]
		if m == nil {
			m = make(map[uint32]uint32)
			r.owned[c.Holder] = m
		}
		m[c.TierID] = c.Count
	}
	return r
}

func (r *Registry) tier(id uint32) (Tier, error) {
	if id == None || int(id) > len(r.tiers) {
		return Tier{}, fmt.Errorf("%w: %d", ErrInvalidPerk, id)
	}
	return r.tiers[id-1], nil
}
