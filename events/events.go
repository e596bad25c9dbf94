// Package events defines the structured events emitted for every state
// transition, purchase, proceeds movement and registry change, so external
// indexers can follow a production without re-deriving internal state.
package events

import (
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/staxeio/staxe-go/account"
)

// Kind names an event type.
type Kind string

const (
	ProductionCreated  Kind = "production_created"
	ProductionApproved Kind = "production_approved"
	ProductionDeclined Kind = "production_declined"
	ProductionPaused   Kind = "production_paused"
	ProductionUnpaused Kind = "production_unpaused"
	ProductionCanceled Kind = "production_canceled"
	CrowdsaleFinished  Kind = "crowdsale_finished"
	ProductionClosed   Kind = "production_closed"
	TokensBought       Kind = "tokens_bought"
	PerkClaimed        Kind = "perk_claimed"
	FundingTransferred Kind = "funding_transferred"
	ProceedsDeposited  Kind = "proceeds_deposited"
	ProceedsWithdrawn  Kind = "proceeds_withdrawn"
	ProceedsSwept      Kind = "proceeds_swept"
	SharesTransferred  Kind = "shares_transferred"
	CurrencyTrusted    Kind = "currency_trusted"
	CurrencyUntrusted  Kind = "currency_untrusted"
	FactoryTrusted     Kind = "factory_trusted"
	FactoryUntrusted   Kind = "factory_untrusted"
	RelayerTrusted     Kind = "relayer_trusted"
	RelayerUntrusted   Kind = "relayer_untrusted"
	RoleGranted        Kind = "role_granted"
	RoleRevoked        Kind = "role_revoked"
	DelegateAdded      Kind = "delegate_added"
	DelegateRemoved    Kind = "delegate_removed"
	DepositCredited    Kind = "deposit_credited"
	DepositWithdrawn   Kind = "deposit_withdrawn"
	PurchasePlaced     Kind = "purchase_placed"
	PurchaseExecuted   Kind = "purchase_executed"
	PurchaseDropped    Kind = "purchase_dropped"
	MetaTxExecuted     Kind = "meta_tx_executed"
)

// Event is a single structured record. Amount and Fee are currency units;
// Shares counts ownership shares. Unused fields stay zero.
type Event struct {
	ID           uuid.UUID
	Kind         Kind
	ProductionID uint64
	Actor        account.Address
	Counterparty account.Address
	Shares       uint64
	Amount       *big.Int
	Fee          *big.Int
	PerkID       uint32
	Detail       string
	Time         time.Time
}

// New returns an event with a fresh id.
func New(kind Kind, productionID uint64) Event {
	return Event{ID: uuid.New(), Kind: kind, ProductionID: productionID}
}

// Sink receives emitted events.
type Sink interface {
	Emit(ev Event)
}

// Discard drops every event.
type Discard struct{}

// Emit implements Sink.
func (Discard) Emit(Event) {}

// Multi fans events out to several sinks in order.
type Multi []Sink

// Emit implements Sink.
func (m Multi) Emit(ev Event) {
	for _, s := range m {
		s.Emit(ev)
	}
}

// Recorder keeps every event in memory. Safe for concurrent use.
type Recorder struct {
	mu     sync.RWMutex
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Emit implements Sink.
func (r *Recorder) Emit(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of all recorded events.
func (r *Recorder) Events() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfKind returns the recorded events of the given kind.
func (r *Recorder) OfKind(kind Kind) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// Buffer collects events for one atomic operation; they are only forwarded
// when the operation commits.
type Buffer struct {
	pending []Event
	now     time.Time
}

// NewBuffer starts a buffer stamping events with now.
func NewBuffer(now time.Time) *Buffer { return &Buffer{now: now} }

// Emit implements Sink.
func (b *Buffer) Emit(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = b.now
	}
	b.pending = append(b.pending, ev)
}

// Flush forwards buffered events to sink and empties the buffer.
func (b *Buffer) Flush(sink Sink) {
	for _, ev := range b.pending {
		sink.Emit(ev)
	}
	b.pending = nil
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int { return len(b.pending) }
