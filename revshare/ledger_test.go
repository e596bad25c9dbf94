package revshare

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/shares"
)

var (
	holderA = account.Derive("holder", 1)
	holderB = account.Derive("holder", 2)
	holderC = account.Derive("holder", 3)
)

func units(n int64) *big.Int { return big.NewInt(n) }

func newBook(t *testing.T, supply uint64) (*shares.Book, *Ledger) {
	t.Helper()
	l := NewLedger()
	b := shares.NewBook(l)
	require.NoError(t, b.Fund(supply))
	return b, l
}

// --- Split tests ---

func TestSplit(t *testing.T) {
	tests := []struct {
		name          string
		numerator     int64
		eligible      uint64
		wantPerShare  int64
		wantRemainder int64
	}{
		{"exact", 100, 50, 2, 0},
		{"remainder", 101, 50, 2, 1},
		{"below eligible", 7, 10, 0, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			per, rem := Split(units(tt.numerator), tt.eligible)
			assert.Equal(t, tt.wantPerShare, per.Int64())
			assert.Equal(t, tt.wantRemainder, rem.Int64())
		})
	}
}

// --- Ledger tests ---

func TestLedger_DepositWithdrawTransferScenario(t *testing.T) {
	b, l := newBook(t, 100)
	require.NoError(t, b.Release(holderA, 50))

	delta, err := l.Deposit(units(100), b.Sold())
	require.NoError(t, err)
	assert.Equal(t, int64(2), delta.Int64())
	assert.Equal(t, int64(100), l.Claimable(holderA, b.BalanceOf(holderA)).Int64())

	require.NoError(t, l.Withdraw(holderA, b.BalanceOf(holderA), units(100)))
	assert.Equal(t, int64(0), l.Claimable(holderA, b.BalanceOf(holderA)).Int64())

	require.NoError(t, b.Transfer(holderA, holderB, 25))
	assert.Equal(t, int64(0), l.Claimable(holderA, b.BalanceOf(holderA)).Int64())
	assert.Equal(t, int64(0), l.Claimable(holderB, b.BalanceOf(holderB)).Int64())

	_, err = l.Deposit(units(50), b.Sold())
	require.NoError(t, err)
	assert.Equal(t, int64(25), l.Claimable(holderA, b.BalanceOf(holderA)).Int64())
	assert.Equal(t, int64(25), l.Claimable(holderB, b.BalanceOf(holderB)).Int64())
	assert.Equal(t, int64(100), l.Claimed(holderA).Int64())

	require.NoError(t, ValidateConservation(l, b.BalanceOf))
}

func TestLedger_RemainderCarriesForward(t *testing.T) {
	b, l := newBook(t, 3)
	require.NoError(t, b.Release(holderA, 1))
	require.NoError(t, b.Release(holderB, 2))

	_, err := l.Deposit(units(2), b.Sold())
	require.NoError(t, err)
	assert.Equal(t, int64(0), l.Cumulative().Int64())
	assert.Equal(t, int64(2), l.Remainder().Int64())

	_, err = l.Deposit(units(1), b.Sold())
	require.NoError(t, err)
	assert.Equal(t, int64(1), l.Cumulative().Int64())
	assert.Equal(t, int64(0), l.Remainder().Int64())
	assert.Equal(t, int64(1), l.Claimable(holderA, 1).Int64())
	assert.Equal(t, int64(2), l.Claimable(holderB, 2).Int64())
	require.NoError(t, ValidateConservation(l, b.BalanceOf))
}

func TestLedger_LateBuyerEarnsNothingRetroactively(t *testing.T) {
	b, l := newBook(t, 10)
	require.NoError(t, b.Release(holderA, 5))
	_, err := l.Deposit(units(50), b.Sold())
	require.NoError(t, err)

	require.NoError(t, b.Release(holderC, 5))
	assert.Equal(t, int64(0), l.Claimable(holderC, 5).Int64())
	assert.Equal(t, int64(50), l.Claimable(holderA, 5).Int64())
}

func TestLedger_SettleIdempotent(t *testing.T) {
	b, l := newBook(t, 10)
	require.NoError(t, b.Release(holderA, 10))
	_, err := l.Deposit(units(30), b.Sold())
	require.NoError(t, err)

	l.Settle(holderA, 10)
	l.Settle(holderA, 10)
	assert.Equal(t, int64(30), l.Claimable(holderA, 10).Int64())
}

func TestLedger_Errors(t *testing.T) {
	b, l := newBook(t, 10)

	_, err := l.Deposit(units(10), 0)
	assert.ErrorIs(t, err, ErrNoSharesOutstanding)
	_, err = l.Deposit(units(0), 1)
	assert.ErrorIs(t, err, ErrZeroAmount)

	require.NoError(t, b.Release(holderA, 10))
	assert.ErrorIs(t, l.Withdraw(holderA, 10, units(1)), ErrNothingToWithdraw)
	_, err = l.WithdrawAll(holderA, 10)
	assert.ErrorIs(t, err, ErrNothingToWithdraw)

	_, err = l.Deposit(units(10), b.Sold())
	require.NoError(t, err)
	assert.ErrorIs(t, l.Withdraw(holderA, 10, units(11)), ErrNotEnoughProceeds)
	assert.ErrorIs(t, l.Withdraw(holderA, 10, units(0)), ErrZeroAmount)

	got, err := l.WithdrawAll(holderA, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Int64())
}

func TestLedger_Sweep(t *testing.T) {
	b, l := newBook(t, 4)
	require.NoError(t, b.Release(holderA, 3))
	_, err := l.Deposit(units(10), b.Sold())
	require.NoError(t, err)
	require.NoError(t, l.Withdraw(holderA, 3, units(4)))

	assert.Equal(t, int64(6), l.Sweep().Int64())
	assert.True(t, l.Closed())
	assert.Equal(t, int64(0), l.Outstanding().Int64())

	_, err = l.Deposit(units(1), 3)
	assert.ErrorIs(t, err, ErrLedgerClosed)
	assert.ErrorIs(t, l.Withdraw(holderA, 3, units(1)), ErrLedgerClosed)
	require.NoError(t, ValidateConservation(l, b.BalanceOf))
}

func TestLedger_StateRestore(t *testing.T) {
	b, l := newBook(t, 7)
	require.NoError(t, b.Release(holderA, 3))
	_, err := l.Deposit(units(11), b.Sold())
	require.NoError(t, err)

	restored := Restore(l.State())
	assert.Equal(t, l.Cumulative(), restored.Cumulative())
	assert.Equal(t, l.Remainder(), restored.Remainder())
	assert.Equal(t, l.Claimable(holderA, 3), restored.Claimable(holderA, 3))

	// Mutating the restored copy must not leak back.
	require.NoError(t, restored.Withdraw(holderA, 3, units(3)))
	assert.Equal(t, int64(9), l.Claimable(holderA, 3).Int64())
}

// --- Property tests ---

// FuzzLedger_Conservation drives random interleavings of purchases,
// deposits, withdrawals and transfers and checks that no unit of currency
// is created or lost.
func FuzzLedger_Conservation(f *testing.F) {
	f.Add([]byte{0, 10, 1, 77, 3, 5, 2, 0, 1, 13})
	f.Add([]byte{0, 1, 0, 2, 1, 3, 1, 5, 3, 1, 2, 1, 1, 9})
	f.Add([]byte{1, 200, 0, 255, 1, 255, 2, 255, 3, 255})

	holders := []account.Address{holderA, holderB, holderC}

	f.Fuzz(func(t *testing.T, script []byte) {
		l := NewLedger()
		b := shares.NewBook(l)
		require.NoError(t, b.Fund(1_000))

		for i := 0; i+1 < len(script); i += 2 {
			op, arg := script[i]%4, uint64(script[i+1])
			h := holders[int(arg)%len(holders)]
			switch op {
			case 0:
				if n := arg%50 + 1; n <= b.Unsold() {
					require.NoError(t, b.Release(h, n))
				}
			case 1:
				if b.Sold() > 0 {
					_, err := l.Deposit(new(big.Int).SetUint64(arg+1), b.Sold())
					require.NoError(t, err)
				}
			case 2:
				avail := l.Claimable(h, b.BalanceOf(h))
				if avail.Sign() > 0 {
					part := new(big.Int).Rsh(avail, uint(arg%3))
					if part.Sign() == 0 {
						part = avail
					}
					require.NoError(t, l.Withdraw(h, b.BalanceOf(h), part))
				}
			case 3:
				to := holders[(int(arg)+1)%len(holders)]
				if bal := b.BalanceOf(h); bal > 0 && to != h {
					require.NoError(t, b.Transfer(h, to, bal/2+1))
				}
			}
			require.NoError(t, ValidateConservation(l, b.BalanceOf))
			require.NoError(t, shares.ValidateConservation(b))
		}
	})
}
