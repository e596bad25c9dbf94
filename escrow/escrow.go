// Package escrow implements the per-production custody account: it holds the
// unsold share supply and all currency received for one production, and
// keeps the share book and proceeds ledger in lockstep.
//
// Every mutator takes the *Owner capability handed out at construction, so
// only the controller that created the account can move its assets.
package escrow

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/currency"
	"github.com/staxeio/staxe-go/revshare"
	"github.com/staxeio/staxe-go/shares"
)

// Owner is the capability required by every escrow mutator. Only pointer
// identity matters.
type Owner struct {
	_ byte
}

// NewOwner returns a fresh capability.
func NewOwner() *Owner { return new(Owner) }

// Bucket selects which currency pool an operation targets.
type Bucket uint8

const (
	// Funds holds sale revenue awaiting transfer to the creator.
	Funds Bucket = iota
	// Proceeds holds revenue distributed to share holders.
	Proceeds
)

func (b Bucket) String() string {
	switch b {
	case Funds:
		return "funds"
	case Proceeds:
		return "proceeds"
	}
	return fmt.Sprintf("bucket(%d)", uint8(b))
}

// State is the serializable form of an Account.
type State struct {
	Funds  *big.Int
	Book   shares.State
	Ledger revshare.State
}

// Account is the escrow of one production. Not safe for concurrent use.
type Account struct {
	owner        *Owner
	productionID uint64
	addr         account.Address
	token        currency.Token
	book         *shares.Book
	ledger       *revshare.Ledger
	funds        *big.Int
}

// New creates an empty escrow for productionID, owned by owner.
func New(owner *Owner, productionID uint64, token currency.Token) (*Account, error) {
	return Restore(owner, productionID, token, State{})
}

// Restore rebuilds an escrow from a saved state.
func Restore(owner *Owner, productionID uint64, token currency.Token, st State) (*Account, error) {
	if owner == nil {
		return nil, ErrNilOwner
	}
	if token == nil {
		return nil, fmt.Errorf("%w: nil currency", currency.ErrUnknownCurrency)
	}
	a := &Account{
		owner:        owner,
		productionID: productionID,
		addr:         AddressOf(productionID),
		token:        token,
		funds:        new(big.Int),
	}
	if st.Funds != nil {
		a.funds.Set(st.Funds)
	}
	a.ledger = revshare.Restore(st.Ledger)
	a.book = shares.NewBook(a.ledger)
	a.book.Restore(st.Book)
	return a, nil
}

// AddressOf returns the escrow address of a production.
func AddressOf(productionID uint64) account.Address {
	return account.Derive("staxe/escrow", productionID)
}

// Address returns the escrow's currency address.
func (a *Account) Address() account.Address { return a.addr }

// Currency returns the production currency.
func (a *Account) Currency() currency.Token { return a.token }

// Supply returns the total share supply.
func (a *Account) Supply() uint64 { return a.book.Supply() }

// Unsold returns shares still held in escrow.
func (a *Account) Unsold() uint64 { return a.book.Unsold() }

// Sold returns shares held by holders. This is the eligible base for
// proceeds distribution.
func (a *Account) Sold() uint64 { return a.book.Sold() }

// BalanceOf returns holder's share balance.
func (a *Account) BalanceOf(holder account.Address) uint64 { return a.book.BalanceOf(holder) }

// Holders returns every address that held shares.
func (a *Account) Holders() []account.Address { return a.book.Holders() }

// AvailableFunds returns the funds bucket.
func (a *Account) AvailableFunds() *big.Int { return new(big.Int).Set(a.funds) }

// AvailableProceeds returns what holder could withdraw now.
func (a *Account) AvailableProceeds(holder account.Address) *big.Int {
	return a.ledger.Claimable(holder, a.book.BalanceOf(holder))
}

// ProceedsClaimed returns what holder has withdrawn so far.
func (a *Account) ProceedsClaimed(holder account.Address) *big.Int { return a.ledger.Claimed(holder) }

// CumulativePerShare returns the proceeds distributed per share so far.
func (a *Account) CumulativePerShare() *big.Int { return a.ledger.Cumulative() }

// Remainder returns the undistributed proceeds remainder.
func (a *Account) Remainder() *big.Int { return a.ledger.Remainder() }

// ProceedsDeposited returns the sum of all proceeds deposits.
func (a *Account) ProceedsDeposited() *big.Int { return a.ledger.Deposited() }

// Tracked returns all currency the account is accountable for.
func (a *Account) Tracked() *big.Int {
	return new(big.Int).Add(a.funds, a.ledger.Outstanding())
}

// DepositShares allocates the full share supply. Allowed once.
func (a *Account) DepositShares(caller *Owner, supply uint64) error {
	if err := a.check(caller); err != nil {
		return err
	}
	if err := a.book.Fund(supply); err != nil {
		if errors.Is(err, shares.ErrAlreadyFunded) {
			return ErrAlreadyFunded
		}
		return err
	}
	return nil
}

// MoveSharesOut releases amount unsold shares to holder.
func (a *Account) MoveSharesOut(caller *Owner, to account.Address, amount uint64) error {
	if err := a.check(caller); err != nil {
		return err
	}
	return a.book.Release(to, amount)
}

// TransferShares moves shares between holders, settling both first.
func (a *Account) TransferShares(caller *Owner, from, to account.Address, amount uint64) error {
	if err := a.check(caller); err != nil {
		return err
	}
	return a.book.Transfer(from, to, amount)
}

// ReceiveCurrency records amount, already delivered to the escrow address,
// into bucket. For Proceeds it returns the per-share increment.
func (a *Account) ReceiveCurrency(caller *Owner, amount *big.Int, bucket Bucket) (*big.Int, error) {
	if err := a.check(caller); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	want := new(big.Int).Add(a.Tracked(), amount)
	if have := a.token.BalanceOf(a.addr); have.Cmp(want) < 0 {
		return nil, fmt.Errorf("%w: holds %s, tracks %s", ErrUnaccountedCurrency, have, want)
	}
	switch bucket {
	case Funds:
		a.funds.Add(a.funds, amount)
		return new(big.Int), nil
	case Proceeds:
		return a.ledger.Deposit(amount, a.book.Sold())
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidBucket, bucket)
}

// PayOut transfers amount from the funds bucket to recipient.
func (a *Account) PayOut(caller *Owner, recipient account.Address, amount *big.Int) error {
	if err := a.check(caller); err != nil {
		return err
	}
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Cmp(a.funds) > 0 {
		return fmt.Errorf("%w: requested %s, available %s", ErrInsufficientFunds, amount, a.funds)
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := a.token.Transfer(a.addr, recipient, amount); err != nil {
		return fmt.Errorf("escrow: pay out: %w", err)
	}
	a.funds.Sub(a.funds, amount)
	return nil
}

// PayProceeds transfers amount of holder's claimable proceeds to holder.
func (a *Account) PayProceeds(caller *Owner, holder account.Address, amount *big.Int) error {
	if err := a.check(caller); err != nil {
		return err
	}
	bal := a.book.BalanceOf(holder)
	if err := a.canWithdraw(holder, bal, amount); err != nil {
		return err
	}
	if err := a.token.Transfer(a.addr, holder, amount); err != nil {
		return fmt.Errorf("escrow: pay proceeds: %w", err)
	}
	return a.ledger.Withdraw(holder, bal, amount)
}

// PayAllProceeds transfers everything holder can claim and returns the amount.
func (a *Account) PayAllProceeds(caller *Owner, holder account.Address) (*big.Int, error) {
	if err := a.check(caller); err != nil {
		return nil, err
	}
	amount := a.AvailableProceeds(holder)
	if amount.Sign() == 0 {
		if a.ledger.Closed() {
			return nil, revshare.ErrLedgerClosed
		}
		return nil, revshare.ErrNothingToWithdraw
	}
	if err := a.PayProceeds(caller, holder, amount); err != nil {
		return nil, err
	}
	return amount, nil
}

// ConvertFundsToProceeds redistributes the whole funds bucket to holders
// and returns the amount moved. Used when a sale is canceled.
func (a *Account) ConvertFundsToProceeds(caller *Owner) (*big.Int, error) {
	if err := a.check(caller); err != nil {
		return nil, err
	}
	moved := new(big.Int).Set(a.funds)
	if moved.Sign() == 0 {
		return moved, nil
	}
	if _, err := a.ledger.Deposit(moved, a.book.Sold()); err != nil {
		return nil, err
	}
	a.funds.SetInt64(0)
	return moved, nil
}

// SweepProceeds closes the proceeds ledger and moves everything it still
// holds, claimed or not, into the funds bucket. Returns the new funds total.
func (a *Account) SweepProceeds(caller *Owner) (*big.Int, error) {
	if err := a.check(caller); err != nil {
		return nil, err
	}
	a.funds.Add(a.funds, a.ledger.Sweep())
	return a.AvailableFunds(), nil
}

// Validate checks share and proceeds conservation and that the currency
// held at the escrow address covers everything tracked.
func (a *Account) Validate() error {
	if err := a.ValidateLedgers(); err != nil {
		return err
	}
	if have, want := a.token.BalanceOf(a.addr), a.Tracked(); have.Cmp(want) < 0 {
		return fmt.Errorf("%w: holds %s, tracks %s", ErrUnaccountedCurrency, have, want)
	}
	return nil
}

// ValidateLedgers checks share and proceeds conservation only.
func (a *Account) ValidateLedgers() error {
	if err := shares.ValidateConservation(a.book); err != nil {
		return err
	}
	return revshare.ValidateConservation(a.ledger, a.book.BalanceOf)
}

// State returns a deep copy of the account.
func (a *Account) State() State {
	return State{
		Funds:  a.AvailableFunds(),
		Book:   a.book.State(),
		Ledger: a.ledger.State(),
	}
}

func (a *Account) canWithdraw(holder account.Address, bal uint64, amount *big.Int) error {
	if a.ledger.Closed() {
		return revshare.ErrLedgerClosed
	}
	if amount == nil || amount.Sign() <= 0 {
		return revshare.ErrZeroAmount
	}
	avail := a.ledger.Claimable(holder, bal)
	if avail.Sign() == 0 {
		return revshare.ErrNothingToWithdraw
	}
	if amount.Cmp(avail) > 0 {
		return fmt.Errorf("%w: requested %s, available %s", revshare.ErrNotEnoughProceeds, amount, avail)
	}
	return nil
}

func (a *Account) check(caller *Owner) error {
	if caller == nil || caller != a.owner {
		return ErrNotOwner
	}
	return nil
}
