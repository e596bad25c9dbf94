package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/events"
)

var (
	admin      = account.Derive("admin", 0)
	organizer  = account.Derive("organizer", 1)
	organizer2 = account.Derive("organizer", 2)
	investor   = account.Derive("investor", 1)
	delegate   = account.Derive("delegate", 1)
)

func newTestMembers(t *testing.T) (*Members, *events.Recorder) {
	t.Helper()
	rec := events.NewRecorder()
	m := NewMembers(admin, rec)
	require.NoError(t, m.GrantRole(admin, RoleOrganizer, organizer))
	require.NoError(t, m.GrantRole(admin, RoleOrganizer, organizer2))
	require.NoError(t, m.TrustRelayer(admin, admin))
	return m, rec
}

// --- Role tests ---

func TestGrantRole(t *testing.T) {
	m, rec := newTestMembers(t)

	assert.False(t, m.HasRole(investor, RoleInvestor))
	require.NoError(t, m.GrantRole(admin, RoleInvestor, investor))
	assert.True(t, m.HasRole(investor, RoleInvestor))
	assert.False(t, m.HasRole(investor, RoleApprover))

	require.NoError(t, m.RevokeRole(admin, RoleInvestor, investor))
	assert.False(t, m.HasRole(investor, RoleInvestor))
	assert.Len(t, rec.OfKind(events.RoleRevoked), 1)
}

func TestGrantRole_Errors(t *testing.T) {
	m, _ := newTestMembers(t)

	tests := []struct {
		name    string
		caller  account.Address
		role    Role
		addr    account.Address
		wantErr error
	}{
		{"not admin", investor, RoleInvestor, investor, ErrNotAdmin},
		{"unknown role", admin, Role("owner"), investor, ErrUnknownRole},
		{"zero address", admin, RoleInvestor, account.Zero, ErrZeroAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.GrantRole(tt.caller, tt.role, tt.addr)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// --- Delegate tests ---

func TestDelegates_AddRemove(t *testing.T) {
	m, rec := newTestMembers(t)

	assert.False(t, m.IsDelegateOf(delegate, organizer))
	require.NoError(t, m.AddDelegate(organizer, delegate))
	assert.True(t, m.IsDelegateOf(delegate, organizer))
	assert.False(t, m.IsDelegateOf(delegate, organizer2))

	require.NoError(t, m.RemoveDelegate(organizer, delegate))
	assert.False(t, m.IsDelegateOf(delegate, organizer))
	assert.Len(t, rec.OfKind(events.DelegateAdded), 1)
	assert.Len(t, rec.OfKind(events.DelegateRemoved), 1)
}

func TestDelegates_Rejections(t *testing.T) {
	m, _ := newTestMembers(t)

	assert.ErrorIs(t, m.AddDelegate(investor, delegate), ErrNotOrganizer)
	require.NoError(t, m.AddDelegate(organizer, delegate))
	assert.ErrorIs(t, m.AddDelegate(organizer2, delegate), ErrDelegateExists)
	assert.ErrorIs(t, m.RemoveDelegate(investor, delegate), ErrNotOrganizer)
	assert.ErrorIs(t, m.RemoveDelegate(organizer2, delegate), ErrNotDelegateOwner)
}

// --- Investor registration tests ---

func TestRegisterInvestor_TrustedRelayer(t *testing.T) {
	m, _ := newTestMembers(t)

	require.NoError(t, m.RegisterInvestor(admin, delegate))
	assert.True(t, m.HasRole(delegate, RoleInvestor))
}

func TestRegisterInvestor_UntrustedCaller(t *testing.T) {
	m, _ := newTestMembers(t)
	assert.ErrorIs(t, m.RegisterInvestor(investor, delegate), ErrNotRelayer)
}

func TestRelayers_TrustUntrust(t *testing.T) {
	m, rec := newTestMembers(t)
	relayer := account.Derive("relayer", 1)

	assert.ErrorIs(t, m.TrustRelayer(investor, relayer), ErrNotAdmin)
	require.NoError(t, m.TrustRelayer(admin, relayer))
	assert.True(t, m.IsTrustedRelayer(relayer))
	require.NoError(t, m.UntrustRelayer(admin, relayer))
	assert.False(t, m.IsTrustedRelayer(relayer))
	assert.Len(t, rec.OfKind(events.RelayerUntrusted), 1)
}
