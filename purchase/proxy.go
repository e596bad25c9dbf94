// Package purchase implements a deposit-then-buy proxy for buyers who pay
// through a fiat on-ramp. The on-ramp deposits currency for a beneficiary;
// the beneficiary's signed purchase is executed from that deposit.
package purchase

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/events"
	"github.com/staxeio/staxe-go/production"
)

// Purchase modes reported to Metrics.
const (
	ModeImmediate = "immediate"
	ModePending   = "pending"
)

// Order is a placed purchase waiting for enough deposit.
type Order struct {
	ProductionID uint64
	Shares       uint64
	PerkID       uint32
	PlacedAt     time.Time
}

// Options configures a Proxy. Controller, Currencies and Roles are required.
type Options struct {
	// Address is the proxy's own account; it must be a trusted relayer on
	// the controller. Defaults to a derived address.
	Address    account.Address
	Controller Controller
	Currencies Currencies
	Roles      Roles
	Sink       events.Sink
	Logger     *zap.Logger
	Metrics    Metrics
	Clock      func() time.Time
}

// Proxy holds deposits per beneficiary and currency and buys production
// shares from them. Safe for concurrent use.
type Proxy struct {
	addr       account.Address
	ctrl       Controller
	currencies Currencies
	roles      Roles
	sink       events.Sink
	logger     *zap.Logger
	metrics    Metrics
	now        func() time.Time

	mu       sync.Mutex
	balances map[account.Address]map[account.Address]*big.Int // holder -> currency -> amount
	pending  map[account.Address]Order
}

// New creates a proxy.
func New(opts Options) (*Proxy, error) {
	if opts.Controller == nil || opts.Currencies == nil || opts.Roles == nil {
		return nil, errors.New("purchase: controller, currencies and roles are required")
	}
	p := &Proxy{
		addr:       opts.Address,
		ctrl:       opts.Controller,
		currencies: opts.Currencies,
		roles:      opts.Roles,
		sink:       opts.Sink,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		now:        opts.Clock,
		balances:   make(map[account.Address]map[account.Address]*big.Int),
		pending:    make(map[account.Address]Order),
	}
	if p.addr.IsZero() {
		p.addr = account.Derive("staxe/purchase-proxy", 0)
	}
	if p.sink == nil {
		p.sink = events.Discard{}
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// Address returns the proxy's account.
func (p *Proxy) Address() account.Address { return p.addr }

// BalanceOf returns holder's deposit in cur.
func (p *Proxy) BalanceOf(holder, cur account.Address) *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return new(big.Int).Set(p.balance(holder, cur))
}

// Pending returns holder's placed order, if any.
func (p *Proxy) Pending(holder account.Address) (Order, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	o, ok := p.pending[holder]
	return o, ok
}

// DepositTo pulls amount of cur from caller, who must have approved the
// proxy, and credits it to beneficiary. A pending order of beneficiary is
// executed when the new balance covers it and stays pending while the
// balance is too low. An order that fails for any other reason is dropped;
// the deposit stays credited.
func (p *Proxy) DepositTo(caller, beneficiary, cur account.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	if beneficiary.IsZero() {
		return ErrZeroBeneficiary
	}
	token, err := p.currencies.Lookup(cur)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := token.TransferFrom(p.addr, caller, p.addr, amount); err != nil {
		return fmt.Errorf("purchase: pull deposit: %w", err)
	}
	p.credit(beneficiary, cur, amount)
	p.emit(events.DepositCredited, 0, beneficiary, func(ev *events.Event) {
		ev.Counterparty = caller
		ev.Amount = new(big.Int).Set(amount)
	})

	if order, ok := p.pending[beneficiary]; ok {
		started := time.Now()
		_, err := p.execute(beneficiary, order)
		p.observe(ModePending, err, started)
		switch {
		case err == nil:
		case errors.Is(err, ErrInsufficientDeposit):
			p.logger.Debug("pending purchase not executed", zap.Stringer("buyer", beneficiary),
				zap.Uint64("production_id", order.ProductionID), zap.Error(err))
			return nil
		default:
			p.logger.Warn("pending purchase dropped", zap.Stringer("buyer", beneficiary),
				zap.Uint64("production_id", order.ProductionID), zap.Error(err))
			p.emit(events.PurchaseDropped, order.ProductionID, beneficiary, func(ev *events.Event) {
				ev.Shares = order.Shares
				ev.PerkID = order.PerkID
				ev.Detail = err.Error()
			})
		}
		delete(p.pending, beneficiary)
		p.reportPending()
	}
	return nil
}

// PlacePurchase buys at once when buyer's deposit covers the quote and
// otherwise records the order, replacing any earlier one. The receipt is nil
// while the order is pending.
func (p *Proxy) PlacePurchase(buyer account.Address, id, shares uint64, perkID uint32) (*production.Receipt, error) {
	if shares == 0 {
		return nil, ErrZeroAmount
	}
	order := Order{ProductionID: id, Shares: shares, PerkID: perkID, PlacedAt: p.now()}

	p.mu.Lock()
	defer p.mu.Unlock()
	started := time.Now()
	r, err := p.execute(buyer, order)
	if err == nil {
		p.observe(ModeImmediate, nil, started)
		delete(p.pending, buyer)
		p.reportPending()
		return r, nil
	}
	if !errors.Is(err, ErrInsufficientDeposit) {
		p.observe(ModeImmediate, err, started)
		return nil, err
	}
	p.pending[buyer] = order
	p.reportPending()
	p.emit(events.PurchasePlaced, id, buyer, func(ev *events.Event) {
		ev.Shares = shares
		ev.PerkID = perkID
	})
	return nil, nil
}

// Purchase buys shares for buyer from their deposit, failing with
// ErrInsufficientDeposit when it does not cover the quote.
func (p *Proxy) Purchase(buyer account.Address, id, shares uint64, perkID uint32) (*production.Receipt, error) {
	if shares == 0 {
		return nil, ErrZeroAmount
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	started := time.Now()
	r, err := p.execute(buyer, Order{ProductionID: id, Shares: shares, PerkID: perkID, PlacedAt: p.now()})
	p.observe(ModeImmediate, err, started)
	return r, err
}

// Withdraw pays amount of holder's cur deposit back to holder.
func (p *Proxy) Withdraw(holder, cur account.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.withdraw(holder, cur, amount)
}

// WithdrawAll pays holder's whole cur deposit back and returns the amount.
func (p *Proxy) WithdrawAll(holder, cur account.Address) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	amount := new(big.Int).Set(p.balance(holder, cur))
	if amount.Sign() == 0 {
		return nil, ErrInsufficientDeposit
	}
	if err := p.withdraw(holder, cur, amount); err != nil {
		return nil, err
	}
	return amount, nil
}

func (p *Proxy) withdraw(holder, cur account.Address, amount *big.Int) error {
	if bal := p.balance(holder, cur); bal.Cmp(amount) < 0 {
		return fmt.Errorf("%w: requested %s, deposited %s", ErrInsufficientDeposit, amount, bal)
	}
	token, err := p.currencies.Lookup(cur)
	if err != nil {
		return err
	}
	if err := token.Transfer(p.addr, holder, amount); err != nil {
		return fmt.Errorf("purchase: pay out deposit: %w", err)
	}
	p.debit(holder, cur, amount)
	p.emit(events.DepositWithdrawn, 0, holder, func(ev *events.Event) {
		ev.Amount = new(big.Int).Set(amount)
	})
	return nil
}

// execute buys order for buyer from their deposit. Caller holds p.mu.
func (p *Proxy) execute(buyer account.Address, order Order) (*production.Receipt, error) {
	cur, price, err := p.ctrl.GetTokenPrice(order.ProductionID, order.Shares)
	if err != nil {
		return nil, err
	}
	if bal := p.balance(buyer, cur); bal.Cmp(price) < 0 {
		return nil, fmt.Errorf("%w: quote %s, deposited %s", ErrInsufficientDeposit, price, bal)
	}
	token, err := p.currencies.Lookup(cur)
	if err != nil {
		return nil, err
	}
	granter, ok := token.(allowanceGranter)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrApproveUnsupported, cur)
	}
	spender := p.ctrl.Address()
	if err := granter.Approve(p.addr, spender, price); err != nil {
		return nil, fmt.Errorf("purchase: approve engine: %w", err)
	}
	r, err := p.ctrl.BuyWithRelay(p.addr, order.ProductionID, buyer, order.Shares, order.PerkID)
	if err != nil {
		if rerr := granter.Approve(p.addr, spender, new(big.Int)); rerr != nil {
			p.logger.Error("allowance reset failed", zap.Stringer("currency", cur), zap.Error(rerr))
		}
		return nil, err
	}
	p.debit(buyer, cur, r.Price)
	p.emit(events.PurchaseExecuted, order.ProductionID, buyer, func(ev *events.Event) {
		ev.Shares = order.Shares
		ev.Amount = new(big.Int).Set(r.Price)
		ev.PerkID = order.PerkID
	})
	return r, nil
}

func (p *Proxy) balance(holder, cur account.Address) *big.Int {
	if b := p.balances[holder][cur]; b != nil {
		return b
	}
	return new(big.Int)
}

func (p *Proxy) credit(holder, cur account.Address, amount *big.Int) {
	m := p.balances[holder]
	if m == nil {
		m = make(map[account.Address]*big.Int)
		p.balances[holder] = m
	}
	if m[cur] == nil {
		m[cur] = new(big.Int)
	}
	m[cur].Add(m[cur], amount)
}

func (p *Proxy) debit(holder, cur account.Address, amount *big.Int) {
	b := p.balances[holder][cur]
	b.Sub(b, amount)
	if b.Sign() == 0 {
		delete(p.balances[holder], cur)
	}
}

func (p *Proxy) emit(kind events.Kind, productionID uint64, actor account.Address, fill func(*events.Event)) {
	ev := events.New(kind, productionID)
	ev.Actor = actor
	ev.Time = p.now()
	fill(&ev)
	p.sink.Emit(ev)
}

func (p *Proxy) observe(mode string, err error, started time.Time) {
	if p.metrics != nil {
		p.metrics.ObservePurchase(mode, err, started)
	}
}

func (p *Proxy) reportPending() {
	if p.metrics != nil {
		p.metrics.SetPending(len(p.pending))
	}
}
