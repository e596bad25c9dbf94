package production

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/pricing"
)

// GetProduction returns the production with id. An unknown id yields an
// empty view in StateEmpty rather than an error.
func (e *Engine) GetProduction(id uint64) View {
	e.mu.Lock()
	defer e.mu.Unlock()
	if en, ok := e.productions[id]; ok {
		return en.view()
	}
	return emptyView(id)
}

// GetProductionsForIds returns one view per id, in order.
func (e *Engine) GetProductionsForIds(ids []uint64) []View {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]View, len(ids))
	for i, id := range ids {
		if en, ok := e.productions[id]; ok {
			out[i] = en.view()
		} else {
			out[i] = emptyView(id)
		}
	}
	return out
}

// Productions returns every production ordered by id.
func (e *Engine) Productions() []View {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]uint64, 0, len(e.productions))
	for id := range e.productions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]View, 0, len(ids))
	for _, id := range ids {
		out = append(out, e.productions[id].view())
	}
	return out
}

// GetTokenOwnerData reports holder's position in production id.
func (e *Engine) GetTokenOwnerData(id uint64, holder account.Address) (OwnerData, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	en, ok := e.productions[id]
	if !ok {
		return OwnerData{}, fmt.Errorf("%w: %d", ErrNotExist, id)
	}
	purchases := make([]Purchase, len(en.purchases[holder]))
	copy(purchases, en.purchases[holder])
	return OwnerData{
		Balance:           en.escrow.BalanceOf(holder),
		Perks:             en.perks.Owned(holder),
		ProceedsClaimed:   en.escrow.ProceedsClaimed(holder),
		ProceedsAvailable: en.escrow.AvailableProceeds(holder),
		Purchases:         purchases,
	}, nil
}

// GetTokenPrice quotes amount shares of production id, returning the
// currency and the total price.
func (e *Engine) GetTokenPrice(id uint64, amount uint64) (account.Address, *big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	en, ok := e.productions[id]
	if !ok {
		return account.Zero, nil, fmt.Errorf("%w: %d", ErrNotExist, id)
	}
	if amount == 0 {
		return account.Zero, nil, ErrZeroToken
	}
	price, err := pricing.Quote(en.p.TokenPrice, en.escrow.CumulativePerShare(), amount)
	if err != nil {
		return account.Zero, nil, err
	}
	return en.p.Currency, price, nil
}
