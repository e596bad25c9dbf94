package currency

import (
	"fmt"
	"sync"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/events"
)

// Registry is the administered set of trusted currencies. Each addition and
// removal emits an audit event.
type Registry struct {
	mu     sync.RWMutex
	admin  account.Address
	tokens map[account.Address]Token
	sink   events.Sink
}

// NewRegistry creates an empty trusted set administered by admin.
func NewRegistry(admin account.Address, sink events.Sink) *Registry {
	if sink == nil {
		sink = events.Discard{}
	}
	return &Registry{admin: admin, tokens: make(map[account.Address]Token), sink: sink}
}

// Trust adds token to the set.
func (r *Registry) Trust(caller account.Address, token Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if caller != r.admin {
		return ErrNotAdmin
	}
	r.tokens[token.Address()] = token
	r.audit(events.CurrencyTrusted, caller, token.Address())
	return nil
}

// Untrust removes the currency at addr. Existing productions keep their
// token reference; only new productions are affected.
func (r *Registry) Untrust(caller, addr account.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if caller != r.admin {
		return ErrNotAdmin
	}
	if _, ok := r.tokens[addr]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCurrency, addr)
	}
	delete(r.tokens, addr)
	r.audit(events.CurrencyUntrusted, caller, addr)
	return nil
}

// Lookup returns the trusted token at addr.
func (r *Registry) Lookup(addr account.Address) (Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCurrency, addr)
	}
	return t, nil
}

// IsTrusted reports whether addr is in the set.
func (r *Registry) IsTrusted(addr account.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tokens[addr]
	return ok
}

func (r *Registry) audit(kind events.Kind, actor, subject account.Address) {
	ev := events.New(kind, 0)
	ev.Actor = actor
	ev.Counterparty = subject
	r.sink.Emit(ev)
}
