package currency

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/events"
)

var (
	usdt  = account.Derive("currency", 1)
	alice = account.Derive("holder", 1)
	bob   = account.Derive("holder", 2)
	admin = account.Derive("admin", 0)
)

// --- Ledger tests ---

func TestLedger_MintTransfer(t *testing.T) {
	l := NewLedger(usdt, "USDT")
	require.NoError(t, l.Mint(alice, big.NewInt(100)))

	require.NoError(t, l.Transfer(alice, bob, big.NewInt(40)))
	assert.Equal(t, int64(60), l.BalanceOf(alice).Int64())
	assert.Equal(t, int64(40), l.BalanceOf(bob).Int64())

	err := l.Transfer(alice, bob, big.NewInt(61))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, int64(60), l.BalanceOf(alice).Int64())
}

func TestLedger_TransferFrom(t *testing.T) {
	l := NewLedger(usdt, "USDT")
	spender := account.Derive("engine", 0)
	require.NoError(t, l.Mint(alice, big.NewInt(100)))

	err := l.TransferFrom(spender, alice, bob, big.NewInt(10))
	assert.ErrorIs(t, err, ErrInsufficientAllowance)

	require.NoError(t, l.Approve(alice, spender, big.NewInt(30)))
	require.NoError(t, l.TransferFrom(spender, alice, bob, big.NewInt(30)))
	assert.Equal(t, int64(0), l.Allowance(alice, spender).Int64())
	assert.Equal(t, int64(30), l.BalanceOf(bob).Int64())
}

func TestLedger_TransferFromFailsWithoutBalance(t *testing.T) {
	l := NewLedger(usdt, "USDT")
	spender := account.Derive("engine", 0)
	require.NoError(t, l.Approve(alice, spender, big.NewInt(30)))

	err := l.TransferFrom(spender, alice, bob, big.NewInt(30))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, int64(30), l.Allowance(alice, spender).Int64(), "allowance untouched on failure")
}

func TestLedger_InvalidAmount(t *testing.T) {
	l := NewLedger(usdt, "USDT")
	assert.ErrorIs(t, l.Mint(alice, nil), ErrInvalidAmount)
	assert.ErrorIs(t, l.Transfer(alice, bob, big.NewInt(-1)), ErrInvalidAmount)
}

// --- Registry tests ---

func TestRegistry_TrustLookup(t *testing.T) {
	rec := events.NewRecorder()
	r := NewRegistry(admin, rec)
	l := NewLedger(usdt, "USDT")

	_, err := r.Lookup(usdt)
	assert.ErrorIs(t, err, ErrUnknownCurrency)

	assert.ErrorIs(t, r.Trust(alice, l), ErrNotAdmin)
	require.NoError(t, r.Trust(admin, l))
	assert.True(t, r.IsTrusted(usdt))

	got, err := r.Lookup(usdt)
	require.NoError(t, err)
	assert.Equal(t, Token(l), got)

	require.NoError(t, r.Untrust(admin, usdt))
	assert.False(t, r.IsTrusted(usdt))
	assert.ErrorIs(t, r.Untrust(admin, usdt), ErrUnknownCurrency)

	assert.Len(t, rec.OfKind(events.CurrencyTrusted), 1)
	assert.Len(t, rec.OfKind(events.CurrencyUntrusted), 1)
}
