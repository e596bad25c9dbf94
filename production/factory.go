package production

import (
	"fmt"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/identity"
)

// DefaultPlatformFee is the platform share percentage used when a spec
// leaves it unset.
const DefaultPlatformFee uint8 = 10

// Factory validates creation requests and registers productions with an
// engine that trusts it.
type Factory struct {
	addr       account.Address
	engine     *Engine
	defaultFee uint8
}

// NewFactory creates a factory at addr. The engine admin must trust addr
// before the factory can create productions.
func NewFactory(addr account.Address, engine *Engine, defaultFee uint8) *Factory {
	if defaultFee == 0 || defaultFee > 100 {
		defaultFee = DefaultPlatformFee
	}
	return &Factory{addr: addr, engine: engine, defaultFee: defaultFee}
}

// Address returns the factory address.
func (f *Factory) Address() account.Address { return f.addr }

// CreateProduction validates spec on behalf of caller and registers a new
// production in PendingApproval state. It returns the assigned id.
func (f *Factory) CreateProduction(caller account.Address, spec Spec) (uint64, error) {
	if !f.engine.roles.HasRole(caller, identity.RoleOrganizer) {
		return 0, fmt.Errorf("%w: %s is not an organizer", ErrNotAuthorized, caller)
	}
	if err := spec.Validate(); err != nil {
		return 0, err
	}
	token, err := f.engine.currencies.Lookup(spec.Currency)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, spec.Currency)
	}
	return f.engine.register(f.addr, caller, spec, token, f.defaultFee)
}
