package production

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/escrow"
	"github.com/staxeio/staxe-go/perks"
)

// Spec is a creation request.
type Spec struct {
	TotalSupply     uint64
	OrganizerTokens uint64 // delivered to the creator at creation
	TreasuryTokens  uint64 // delivered to the platform treasury at creation
	TokenPrice      *big.Int
	Perks           []perks.TierSpec
	Currency        account.Address
	// MaxTokensUnknownBuyer caps the cumulative shares a buyer without the
	// investor role may purchase. Zero blocks such buyers entirely.
	MaxTokensUnknownBuyer uint64
	DataHash              string
	CrowdsaleEndDate      time.Time // zero means unset
	ProductionEndDate     time.Time // zero means unset
	// PlatformSharePercentage is the fee withheld from funding payouts.
	// Zero selects the factory default.
	PlatformSharePercentage uint8
}

// Validate checks the request without consulting any registry.
func (s *Spec) Validate() error {
	if s.TotalSupply == 0 {
		return fmt.Errorf("%w: zero total supply", ErrInvalidSpec)
	}
	if s.TokenPrice == nil || s.TokenPrice.Sign() <= 0 {
		return fmt.Errorf("%w: token price must be positive", ErrInvalidSpec)
	}
	if s.OrganizerTokens+s.TreasuryTokens > s.TotalSupply || s.OrganizerTokens+s.TreasuryTokens < s.OrganizerTokens {
		return fmt.Errorf("%w: pre-allocation exceeds supply", ErrInvalidSpec)
	}
	if s.PlatformSharePercentage > 100 {
		return fmt.Errorf("%w: platform share %d%%", ErrInvalidSpec, s.PlatformSharePercentage)
	}
	if s.Currency.IsZero() {
		return fmt.Errorf("%w: no currency", ErrInvalidSpec)
	}
	if !s.CrowdsaleEndDate.IsZero() && !s.ProductionEndDate.IsZero() && s.ProductionEndDate.Before(s.CrowdsaleEndDate) {
		return fmt.Errorf("%w: production ends before crowdsale", ErrInvalidSpec)
	}
	if err := perks.Validate(s.Perks); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	return nil
}

// Production is the persistent description of a campaign.
type Production struct {
	ID                      uint64
	Creator                 account.Address
	Factory                 account.Address
	TotalSupply             uint64
	OrganizerTokens         uint64
	TreasuryTokens          uint64
	TokenPrice              *big.Int
	Currency                account.Address
	MaxTokensUnknownBuyer   uint64
	DataHash                string
	CrowdsaleEndDate        time.Time
	ProductionEndDate       time.Time
	PlatformSharePercentage uint8
	State                   State
	Paused                  bool
	RefundDeadline          time.Time
	Escrow                  account.Address
	CreatedAt               time.Time
}

func (p Production) clone() Production {
	if p.TokenPrice != nil {
		p.TokenPrice = new(big.Int).Set(p.TokenPrice)
	}
	return p
}

// Purchase is one buy of a holder.
type Purchase struct {
	Shares uint64
	Price  *big.Int
	PerkID uint32
	Time   time.Time
}

// HolderPurchases is a holder's purchase history.
type HolderPurchases struct {
	Holder    account.Address
	Purchases []Purchase
}

// Record is the complete persisted snapshot of one production.
type Record struct {
	Production Production
	Escrow     escrow.State
	Perks      perks.State
	Purchases  []HolderPurchases
}

// View is the read model returned by GetProduction.
type View struct {
	Production
	Perks              []perks.Tier
	SoldCounter        uint64
	Remaining          uint64
	FundsAvailable     *big.Int
	ProceedsDeposited  *big.Int
	CumulativePerShare *big.Int
	Remainder          *big.Int
}

// OwnerData is what GetTokenOwnerData reports about one holder.
type OwnerData struct {
	Balance           uint64
	Perks             []perks.Tier
	ProceedsClaimed   *big.Int
	ProceedsAvailable *big.Int
	Purchases         []Purchase
}

// Receipt describes a completed purchase.
type Receipt struct {
	ProductionID uint64
	Buyer        account.Address
	Payer        account.Address
	Shares       uint64
	Price        *big.Int
	PerkID       uint32
	Refund       *big.Int // unspent native value returned to the payer
}

// entry is the live state of one production.
type entry struct {
	p         Production
	escrow    *escrow.Account
	perks     *perks.Registry
	purchases map[account.Address][]Purchase
}

func (en *entry) record() *Record {
	rec := &Record{
		Production: en.p.clone(),
		Escrow:     en.escrow.State(),
		Perks:      en.perks.State(),
	}
	holders := make([]account.Address, 0, len(en.purchases))
	for h := range en.purchases {
		holders = append(holders, h)
	}
	sort.Slice(holders, func(i, j int) bool { return bytes.Compare(holders[i][:], holders[j][:]) < 0 })
	for _, h := range holders {
		list := make([]Purchase, len(en.purchases[h]))
		copy(list, en.purchases[h])
		rec.Purchases = append(rec.Purchases, HolderPurchases{Holder: h, Purchases: list})
	}
	return rec
}

func (en *entry) purchased(holder account.Address) uint64 {
	var n uint64
	for _, pu := range en.purchases[holder] {
		n += pu.Shares
	}
	return n
}

func (en *entry) view() View {
	return View{
		Production:         en.p.clone(),
		Perks:              en.perks.Tiers(),
		SoldCounter:        en.escrow.Sold(),
		Remaining:          en.escrow.Unsold(),
		FundsAvailable:     en.escrow.AvailableFunds(),
		ProceedsDeposited:  en.escrow.ProceedsDeposited(),
		CumulativePerShare: en.escrow.CumulativePerShare(),
		Remainder:          en.escrow.Remainder(),
	}
}

func emptyView(id uint64) View {
	return View{
		Production:         Production{ID: id, State: StateEmpty},
		FundsAvailable:     new(big.Int),
		ProceedsDeposited:  new(big.Int),
		CumulativePerShare: new(big.Int),
		Remainder:          new(big.Int),
	}
}
