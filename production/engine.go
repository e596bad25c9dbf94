// Package production implements the lifecycle controller, factory and
// read-side queries of the crowdsale engine.
//
// Every state-changing operation is all-or-nothing: the production is
// snapshotted before the operation and restored on any error, events are
// buffered and only emitted on commit, and every currency move made by the
// operation is journaled and reversed if the operation or its store write
// fails.
package production

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/currency"
	"github.com/staxeio/staxe-go/escrow"
	"github.com/staxeio/staxe-go/events"
	"github.com/staxeio/staxe-go/perks"
)

// DefaultMinRefundWindow is the minimum distance between a cancellation and
// its refund deadline.
const DefaultMinRefundWindow = 30 * 24 * time.Hour

// Options configures an Engine. Roles and Currencies are required.
type Options struct {
	Admin           account.Address
	Address         account.Address // spender address for currency pulls
	Treasury        account.Address // receives platform fees
	Roles           Roles
	Currencies      Currencies
	Swapper         Swapper
	Store           Store
	Sink            events.Sink
	Logger          *zap.Logger
	Metrics         Metrics
	Clock           func() time.Time
	MinRefundWindow time.Duration
}

// Engine is the lifecycle controller for all productions. Safe for
// concurrent use; operations are serialized.
type Engine struct {
	mu          sync.Mutex
	admin       account.Address
	addr        account.Address
	treasury    account.Address
	roles       Roles
	currencies  Currencies
	swapper     Swapper
	store       Store
	sink        events.Sink
	logger      *zap.Logger
	metrics     Metrics
	now         func() time.Time
	refundWin   time.Duration
	owner       *escrow.Owner
	nextID      uint64
	productions map[uint64]*entry
	factories   map[account.Address]bool
	txn         *journal // currency moves of the running operation
}

// New creates an engine.
func New(opts Options) (*Engine, error) {
	if opts.Roles == nil {
		return nil, errors.New("production: roles registry is required")
	}
	if opts.Currencies == nil {
		return nil, errors.New("production: currency registry is required")
	}
	e := &Engine{
		admin:       opts.Admin,
		addr:        opts.Address,
		treasury:    opts.Treasury,
		roles:       opts.Roles,
		currencies:  opts.Currencies,
		swapper:     opts.Swapper,
		store:       opts.Store,
		sink:        opts.Sink,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		now:         opts.Clock,
		refundWin:   opts.MinRefundWindow,
		owner:       escrow.NewOwner(),
		productions: make(map[uint64]*entry),
		factories:   make(map[account.Address]bool),
	}
	if e.addr.IsZero() {
		e.addr = account.Derive("staxe/engine", 0)
	}
	if e.sink == nil {
		e.sink = events.Discard{}
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.refundWin == 0 {
		e.refundWin = DefaultMinRefundWindow
	}
	return e, nil
}

// Address returns the engine's spender address. Payers approve it before
// token purchases and proceeds deposits.
func (e *Engine) Address() account.Address { return e.addr }

// TrustFactory adds a factory to the trusted set.
func (e *Engine) TrustFactory(caller, factory account.Address) error {
	return e.setFactory(caller, factory, true)
}

// UntrustFactory removes a factory from the trusted set.
func (e *Engine) UntrustFactory(caller, factory account.Address) error {
	return e.setFactory(caller, factory, false)
}

// IsTrustedFactory reports whether factory may register productions.
func (e *Engine) IsTrustedFactory(factory account.Address) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.factories[factory]
}

func (e *Engine) setFactory(caller, factory account.Address, trusted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if caller != e.admin {
		return ErrNotAdmin
	}
	kind := events.FactoryTrusted
	if trusted {
		e.factories[factory] = true
	} else {
		delete(e.factories, factory)
		kind = events.FactoryUntrusted
	}
	ev := events.New(kind, 0)
	ev.Actor = caller
	ev.Counterparty = factory
	ev.Time = e.now()
	e.sink.Emit(ev)
	return nil
}

// register creates a production on behalf of a trusted factory.
func (e *Engine) register(factory, creator account.Address, spec Spec, token currency.Token, defaultFee uint8) (uint64, error) {
	started := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID + 1
	en, buf, err := e.build(id, factory, creator, spec, token, defaultFee)
	if err == nil && e.store != nil {
		if perr := e.store.Put(en.record()); perr != nil {
			err = fmt.Errorf("%w: %v", ErrPersistence, perr)
		}
	}
	e.finish("create_production", id, err, started)
	if err != nil {
		return 0, err
	}
	e.nextID = id
	e.productions[id] = en
	buf.Flush(e.sink)
	e.reportStates()
	return id, nil
}

func (e *Engine) build(id uint64, factory, creator account.Address, spec Spec, token currency.Token, defaultFee uint8) (*entry, *events.Buffer, error) {
	if !e.factories[factory] {
		return nil, nil, fmt.Errorf("%w: %s", ErrUntrustedFactory, factory)
	}
	acct, err := escrow.New(e.owner, id, e.journaled(token))
	if err != nil {
		return nil, nil, err
	}
	if err := acct.DepositShares(e.owner, spec.TotalSupply); err != nil {
		return nil, nil, err
	}
	reg, err := perks.NewRegistry(spec.Perks)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	fee := spec.PlatformSharePercentage
	if fee == 0 {
		fee = defaultFee
	}
	now := e.now()
	en := &entry{
		p: Production{
			ID:                      id,
			Creator:                 creator,
			Factory:                 factory,
			TotalSupply:             spec.TotalSupply,
			OrganizerTokens:         spec.OrganizerTokens,
			TreasuryTokens:          spec.TreasuryTokens,
			TokenPrice:              spec.TokenPrice,
			Currency:                token.Address(),
			MaxTokensUnknownBuyer:   spec.MaxTokensUnknownBuyer,
			DataHash:                spec.DataHash,
			CrowdsaleEndDate:        spec.CrowdsaleEndDate,
			ProductionEndDate:       spec.ProductionEndDate,
			PlatformSharePercentage: fee,
			State:                   StatePendingApproval,
			Escrow:                  acct.Address(),
			CreatedAt:               now,
		}.clone(),
		escrow:    acct,
		perks:     reg,
		purchases: make(map[account.Address][]Purchase),
	}
	if spec.OrganizerTokens > 0 {
		if err := acct.MoveSharesOut(e.owner, creator, spec.OrganizerTokens); err != nil {
			return nil, nil, err
		}
	}
	if spec.TreasuryTokens > 0 {
		if e.treasury.IsZero() {
			return nil, nil, fmt.Errorf("%w: treasury tokens without a treasury", ErrInvalidSpec)
		}
		if err := acct.MoveSharesOut(e.owner, e.treasury, spec.TreasuryTokens); err != nil {
			return nil, nil, err
		}
	}

	buf := events.NewBuffer(now)
	ev := events.New(events.ProductionCreated, id)
	ev.Actor = creator
	ev.Counterparty = factory
	ev.Shares = spec.TotalSupply
	ev.Amount = en.p.TokenPrice
	ev.Detail = spec.DataHash
	buf.Emit(ev)
	return en, buf, nil
}

// apply runs fn against production id atomically. The updated record is
// persisted before events are emitted; if fn or the store write fails, the
// journaled currency moves are reversed and the snapshot is restored.
func (e *Engine) apply(op string, id uint64, fn func(en *entry, buf *events.Buffer) error) error {
	started := time.Now()
	e.mu.Lock()
	defer e.mu.Unlock()

	en, ok := e.productions[id]
	if !ok {
		err := fmt.Errorf("%w: %d", ErrNotExist, id)
		e.finish(op, id, err, started)
		return err
	}
	snapshot := en.record()
	buf := events.NewBuffer(e.now())
	e.txn = new(journal)
	err := fn(en, buf)
	if err == nil && e.store != nil {
		if perr := e.store.Put(en.record()); perr != nil {
			err = fmt.Errorf("%w: %v", ErrPersistence, perr)
		}
	}
	txn := e.txn
	e.txn = nil
	if err != nil {
		e.abort(id, en, snapshot, txn)
		e.finish(op, id, err, started)
		return err
	}
	buf.Flush(e.sink)
	e.reportStates()
	e.finish(op, id, nil, started)
	return nil
}

// abort undoes a failed operation on production id.
func (e *Engine) abort(id uint64, en *entry, snapshot *Record, txn *journal) {
	if rerr := txn.revert(); rerr != nil {
		e.logger.Error("currency compensation failed", zap.Uint64("production_id", id), zap.Error(rerr))
	}
	if rerr := e.rollback(id, en, snapshot); rerr != nil {
		e.logger.Error("rollback failed", zap.Uint64("production_id", id), zap.Error(rerr))
	}
}

func (e *Engine) rollback(id uint64, en *entry, rec *Record) error {
	restored, err := e.rebuild(rec, en.escrow.Currency())
	if err != nil {
		return err
	}
	e.productions[id] = restored
	return nil
}

func (e *Engine) rebuild(rec *Record, token currency.Token) (*entry, error) {
	p := rec.Production.clone()
	acct, err := escrow.Restore(e.owner, p.ID, e.journaled(token), rec.Escrow)
	if err != nil {
		return nil, err
	}
	en := &entry{
		p:         p,
		escrow:    acct,
		perks:     perks.Restore(rec.Perks),
		purchases: make(map[account.Address][]Purchase, len(rec.Purchases)),
	}
	for _, hp := range rec.Purchases {
		list := make([]Purchase, len(hp.Purchases))
		copy(list, hp.Purchases)
		en.purchases[hp.Holder] = list
	}
	return en, nil
}

// Restore loads persisted productions into an empty engine. Every record's
// currency must be trusted.
func (e *Engine) Restore(recs []*Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.productions) > 0 {
		return fmt.Errorf("%w: engine already holds productions", ErrInvalidState)
	}
	loaded := make(map[uint64]*entry, len(recs))
	var maxID uint64
	for _, rec := range recs {
		token, err := e.currencies.Lookup(rec.Production.Currency)
		if err != nil {
			return fmt.Errorf("%w: production %d: %v", ErrUnknownCurrency, rec.Production.ID, err)
		}
		en, err := e.rebuild(rec, token)
		if err != nil {
			return fmt.Errorf("restore production %d: %w", rec.Production.ID, err)
		}
		if err := en.escrow.ValidateLedgers(); err != nil {
			return fmt.Errorf("restore production %d: %w", rec.Production.ID, err)
		}
		loaded[rec.Production.ID] = en
		if rec.Production.ID > maxID {
			maxID = rec.Production.ID
		}
	}
	e.productions = loaded
	e.nextID = maxID
	e.reportStates()
	e.logger.Info("productions restored", zap.Int("count", len(loaded)), zap.Uint64("next_id", maxID+1))
	return nil
}

func (e *Engine) finish(op string, id uint64, err error, started time.Time) {
	if e.metrics != nil {
		e.metrics.Observe(op, err, started)
	}
	if err == nil {
		e.logger.Info("operation committed", zap.String("operation", op), zap.Uint64("production_id", id))
		return
	}
	kind := KindOf(err)
	if e.metrics != nil {
		e.metrics.ObserveRejection(op, kind.String())
	}
	if kind == KindIntegrity {
		e.logger.Error("operation failed", zap.String("operation", op), zap.Uint64("production_id", id),
			zap.Stringer("kind", kind), zap.Error(err))
		return
	}
	e.logger.Debug("operation rejected", zap.String("operation", op), zap.Uint64("production_id", id),
		zap.Stringer("kind", kind), zap.Error(err))
}

func (e *Engine) reportStates() {
	if e.metrics == nil {
		return
	}
	counts := make(map[State]int)
	for _, en := range e.productions {
		counts[en.p.State]++
	}
	for s := StatePendingApproval; s <= StateClosed; s++ {
		e.metrics.SetProductions(s.String(), counts[s])
	}
}

// emit appends an event for en to buf.
func emit(buf *events.Buffer, en *entry, kind events.Kind, actor account.Address, fill func(*events.Event)) {
	ev := events.New(kind, en.p.ID)
	ev.Actor = actor
	if fill != nil {
		fill(&ev)
	}
	buf.Emit(ev)
}

// isCreator reports whether caller acts for the production creator.
func (e *Engine) isCreator(p *Production, caller account.Address) bool {
	return caller == p.Creator || e.roles.IsDelegateOf(caller, p.Creator)
}

// authorizeScheduled allows the creator or a delegate at any time, and a
// trusted relayer once deadline has passed.
func (e *Engine) authorizeScheduled(p *Production, caller account.Address, deadline time.Time) error {
	if e.isCreator(p, caller) {
		return nil
	}
	if !e.roles.IsTrustedRelayer(caller) {
		return fmt.Errorf("%w: %s", ErrNotAuthorized, caller)
	}
	if deadline.IsZero() || e.now().Before(deadline) {
		return fmt.Errorf("%w: relayer before end date", ErrNotAuthorized)
	}
	return nil
}
