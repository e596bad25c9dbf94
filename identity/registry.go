// Package identity holds the role and capability registry consulted by the
// production engine: organizers, approvers, investors, organizer delegates and
// trusted relayers.
package identity

import (
	"fmt"
	"sync"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/events"
)

// Role is a capability granted to an address.
type Role string

const (
	RoleOrganizer Role = "organizer"
	RoleApprover  Role = "approver"
	RoleInvestor  Role = "investor"
)

func (r Role) valid() bool {
	return r == RoleOrganizer || r == RoleApprover || r == RoleInvestor
}

// Registry is the read side the engine depends on.
type Registry interface {
	// HasRole reports whether addr holds role.
	HasRole(addr account.Address, role Role) bool

	// IsDelegateOf reports whether delegate acts for organizer.
	IsDelegateOf(delegate, organizer account.Address) bool

	// IsTrustedRelayer reports whether addr is a registered relayer.
	IsTrustedRelayer(addr account.Address) bool
}

// Members is an in-memory Registry with administration operations.
// Safe for concurrent use.
type Members struct {
	mu        sync.RWMutex
	admin     account.Address
	roles     map[Role]map[account.Address]bool
	delegates map[account.Address]account.Address // delegate -> organizer
	relayers  map[account.Address]bool
	sink      events.Sink
}

// Compile-time interface check.
var _ Registry = (*Members)(nil)

// NewMembers creates a registry administered by admin. A nil sink discards
// audit events.
func NewMembers(admin account.Address, sink events.Sink) *Members {
	if sink == nil {
		sink = events.Discard{}
	}
	return &Members{
		admin: admin,
		roles: map[Role]map[account.Address]bool{
			RoleOrganizer: {},
			RoleApprover:  {},
			RoleInvestor:  {},
		},
		delegates: make(map[account.Address]account.Address),
		relayers:  make(map[account.Address]bool),
		sink:      sink,
	}
}

// HasRole implements Registry.
func (m *Members) HasRole(addr account.Address, role Role) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.roles[role][addr]
}

// IsDelegateOf implements Registry.
func (m *Members) IsDelegateOf(delegate, organizer account.Address) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	owner, ok := m.delegates[delegate]
	return ok && owner == organizer
}

// IsTrustedRelayer implements Registry.
func (m *Members) IsTrustedRelayer(addr account.Address) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.relayers[addr]
}

// GrantRole gives role to addr. Admin only.
func (m *Members) GrantRole(caller account.Address, role Role, addr account.Address) error {
	if !role.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if addr.IsZero() {
		return ErrZeroAddress
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if caller != m.admin {
		return ErrNotAdmin
	}
	m.roles[role][addr] = true
	m.audit(events.RoleGranted, caller, addr, string(role))
	return nil
}

// RevokeRole removes role from addr. Admin only.
func (m *Members) RevokeRole(caller account.Address, role Role, addr account.Address) error {
	if !role.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if caller != m.admin {
		return ErrNotAdmin
	}
	delete(m.roles[role], addr)
	m.audit(events.RoleRevoked, caller, addr, string(role))
	return nil
}

// TrustRelayer registers addr as a trusted relayer. Admin only.
func (m *Members) TrustRelayer(caller, addr account.Address) error {
	if addr.IsZero() {
		return ErrZeroAddress
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if caller != m.admin {
		return ErrNotAdmin
	}
	m.relayers[addr] = true
	m.audit(events.RelayerTrusted, caller, addr, "")
	return nil
}

// UntrustRelayer removes addr from the trusted relayers. Admin only.
func (m *Members) UntrustRelayer(caller, addr account.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if caller != m.admin {
		return ErrNotAdmin
	}
	delete(m.relayers, addr)
	m.audit(events.RelayerUntrusted, caller, addr, "")
	return nil
}

// AddDelegate lets organizer caller act through delegate. A delegate serves
// at most one organizer.
func (m *Members) AddDelegate(caller, delegate account.Address) error {
	if delegate.IsZero() {
		return ErrZeroAddress
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.roles[RoleOrganizer][caller] {
		return ErrNotOrganizer
	}
	if _, taken := m.delegates[delegate]; taken {
		return ErrDelegateExists
	}
	m.delegates[delegate] = caller
	m.audit(events.DelegateAdded, caller, delegate, "")
	return nil
}

// RemoveDelegate detaches delegate from organizer caller.
func (m *Members) RemoveDelegate(caller, delegate account.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.roles[RoleOrganizer][caller] {
		return ErrNotOrganizer
	}
	if owner, ok := m.delegates[delegate]; !ok || owner != caller {
		return ErrNotDelegateOwner
	}
	delete(m.delegates, delegate)
	m.audit(events.DelegateRemoved, caller, delegate, "")
	return nil
}

// RegisterInvestor grants the investor role on behalf of a trusted relayer
// (e.g. after an off-chain KYC check).
func (m *Members) RegisterInvestor(caller, investor account.Address) error {
	if investor.IsZero() {
		return ErrZeroAddress
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.relayers[caller] {
		return ErrNotRelayer
	}
	m.roles[RoleInvestor][investor] = true
	m.audit(events.RoleGranted, caller, investor, string(RoleInvestor))
	return nil
}

// audit must be called with m.mu held.
func (m *Members) audit(kind events.Kind, actor, subject account.Address, detail string) {
	ev := events.New(kind, 0)
	ev.Actor = actor
	ev.Counterparty = subject
	ev.Detail = detail
	m.sink.Emit(ev)
}
