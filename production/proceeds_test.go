package production

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/currency"
	"github.com/staxeio/staxe-go/escrow"
	"github.com/staxeio/staxe-go/events"
)

func (f *fixture) deposit(id uint64, amount int64) {
	f.t.Helper()
	f.fund(organizer, amount)
	require.NoError(f.t, f.engine.DepositProceeds(organizer, id, big.NewInt(amount)))
}

func (f *fixture) claimable(id uint64, holder account.Address) string {
	f.t.Helper()
	owner, err := f.engine.GetTokenOwnerData(id, holder)
	require.NoError(f.t, err)
	return owner.ProceedsAvailable.String()
}

// --- Proceeds tests ---

func TestEngine_ProceedsFollowShareTransfers(t *testing.T) {
	f := newFixture(t)
	id := f.open(f.spec())
	f.fund(investor, 50)
	f.buy(investor, id, 50)

	f.deposit(id, 100)
	assert.Equal(t, "100", f.claimable(id, investor))

	paid, err := f.engine.TransferProceeds(investor, id)
	require.NoError(t, err)
	assert.Equal(t, "100", paid.String())
	assert.Equal(t, int64(100), f.balance(investor))

	require.NoError(t, f.engine.TransferShares(investor, id, investor2, 25))
	f.deposit(id, 50)

	assert.Equal(t, "25", f.claimable(id, investor))
	assert.Equal(t, "25", f.claimable(id, investor2))
	f.validate(id)

	require.NoError(t, f.engine.WithdrawProceeds(investor2, id, big.NewInt(10)))
	assert.Equal(t, "15", f.claimable(id, investor2))
	assert.Equal(t, int64(10), f.balance(investor2))
	assert.Len(t, f.recorder.OfKind(events.ProceedsWithdrawn), 2)
	assert.Len(t, f.recorder.OfKind(events.SharesTransferred), 1)
	f.validate(id)
}

func TestEngine_ProceedsRemainderCarries(t *testing.T) {
	f := newFixture(t)
	id := f.open(f.spec())
	f.fund(investor, 3)
	f.buy(investor, id, 3)

	f.deposit(id, 10)
	v := f.engine.GetProduction(id)
	assert.Equal(t, "3", v.CumulativePerShare.String())
	assert.Equal(t, "1", v.Remainder.String())

	f.deposit(id, 2)
	v = f.engine.GetProduction(id)
	assert.Equal(t, "4", v.CumulativePerShare.String())
	assert.Equal(t, "0", v.Remainder.String())
	assert.Equal(t, "12", f.claimable(id, investor))
	f.validate(id)
}

func TestEngine_PreAllocatedSharesEarnProceeds(t *testing.T) {
	f := newFixture(t)
	spec := f.spec()
	spec.OrganizerTokens = 10
	spec.TreasuryTokens = 10
	id := f.open(spec)

	f.deposit(id, 40)
	assert.Equal(t, "20", f.claimable(id, organizer))
	assert.Equal(t, "20", f.claimable(id, treasury))
}

func TestEngine_DepositProceedsErrors(t *testing.T) {
	f := newFixture(t)
	id := f.open(f.spec())
	f.fund(organizer, 10)

	err := f.engine.DepositProceeds(organizer, id, big.NewInt(10))
	assert.ErrorIs(t, err, ErrNoSharesOutstanding)

	f.fund(investor, 10)
	f.buy(investor, id, 10)

	err = f.engine.DepositProceeds(investor, id, big.NewInt(10))
	assert.ErrorIs(t, err, ErrNotAuthorized)

	err = f.engine.DepositProceeds(organizer, id, big.NewInt(0))
	assert.ErrorIs(t, err, ErrZeroValue)

	err = f.engine.DepositProceeds(organizer, id, big.NewInt(11))
	assert.ErrorIs(t, err, ErrInsufficientPayment)
	assert.Equal(t, int64(10), f.balance(organizer))

	err = f.engine.DepositProceeds(organizer, 99, big.NewInt(1))
	assert.ErrorIs(t, err, ErrNotExist)
	assert.Empty(t, f.recorder.OfKind(events.ProceedsDeposited))
}

func TestEngine_DelegateDepositsProceeds(t *testing.T) {
	f := newFixture(t)
	id := f.open(f.spec())
	f.fund(investor, 10)
	f.buy(investor, id, 10)

	f.fund(delegate, 20)
	require.NoError(t, f.engine.DepositProceeds(delegate, id, big.NewInt(20)))
	assert.Equal(t, "20", f.claimable(id, investor))
}

func TestEngine_WithdrawProceedsErrors(t *testing.T) {
	f := newFixture(t)
	id := f.open(f.spec())
	f.fund(investor, 10)
	f.buy(investor, id, 10)

	_, err := f.engine.TransferProceeds(investor, id)
	assert.ErrorIs(t, err, ErrNothingToWithdraw)

	f.deposit(id, 10)
	err = f.engine.WithdrawProceeds(investor, id, big.NewInt(11))
	assert.ErrorIs(t, err, ErrNotEnoughProceeds)
	_, err = f.engine.TransferProceeds(stranger, id)
	assert.ErrorIs(t, err, ErrNothingToWithdraw)
	assert.Equal(t, "10", f.claimable(id, investor))
}

func TestEngine_TransferSharesErrors(t *testing.T) {
	f := newFixture(t)
	id := f.open(f.spec())
	f.fund(investor, 10)
	f.buy(investor, id, 10)

	tests := []struct {
		name    string
		caller  account.Address
		to      account.Address
		amount  uint64
		wantErr error
	}{
		{"zero recipient", investor, account.Zero, 1, ErrZeroValue},
		{"zero amount", investor, investor2, 0, ErrZeroToken},
		{"not a holder", stranger, investor2, 1, ErrNotHolder},
		{"above balance", investor, investor2, 11, ErrInsufficientBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.engine.TransferShares(tt.caller, id, tt.to, tt.amount)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	owner, err := f.engine.GetTokenOwnerData(id, investor)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), owner.Balance)
}

func TestEngine_DepositProceedsWithNative(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	swapper := NewMockSwapper(ctrl)

	f := newFixture(t, func(o *Options) { o.Swapper = swapper })
	id := f.open(f.spec())
	f.fund(investor, 10)
	f.buy(investor, id, 10)

	gomock.InOrder(
		swapper.EXPECT().
			SwapExactInput(organizer, gomock.Any(), big.NewInt(7), escrow.AddressOf(id)).
			DoAndReturn(func(_ account.Address, _ currency.Token, _ *big.Int, to account.Address) (*big.Int, error) {
				require.NoError(t, f.token.Mint(to, big.NewInt(30)))
				return big.NewInt(30), nil
			}),
		swapper.EXPECT().
			SwapExactInput(organizer, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("pool drained")),
	)

	got, err := f.engine.DepositProceedsWithNative(organizer, id, big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, "30", got.String())
	assert.Equal(t, "30", f.claimable(id, investor))

	_, err = f.engine.DepositProceedsWithNative(organizer, id, big.NewInt(7))
	assert.ErrorIs(t, err, ErrInsufficientPayment)

	_, err = f.engine.DepositProceedsWithNative(investor, id, big.NewInt(7))
	assert.ErrorIs(t, err, ErrNotAuthorized)
	f.validate(id)
}

// --- Relayed call tests ---

func relayedCall(t *testing.T, c Call) []byte {
	t.Helper()
	b, err := json.Marshal(c)
	require.NoError(t, err)
	return b
}

func TestEngine_Handle(t *testing.T) {
	f := newFixture(t)
	id := f.open(f.spec())
	f.fund(investor, 10)
	f.buy(investor, id, 10)
	f.deposit(id, 20)

	err := f.engine.Handle(relayer, investor, relayedCall(t, Call{
		Method: MethodWithdrawProceeds, ProductionID: id, Amount: "5",
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.balance(investor))

	err = f.engine.Handle(relayer, investor, relayedCall(t, Call{
		Method: MethodTransferShares, ProductionID: id, To: investor2, Shares: 4,
	}))
	require.NoError(t, err)

	err = f.engine.Handle(relayer, investor, relayedCall(t, Call{
		Method: MethodTransferProceeds, ProductionID: id,
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(20), f.balance(investor))

	owner, err := f.engine.GetTokenOwnerData(id, investor2)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), owner.Balance)
	f.validate(id)
}

func TestEngine_HandleRejects(t *testing.T) {
	f := newFixture(t)
	id := f.open(f.spec())

	tests := []struct {
		name      string
		forwarder account.Address
		payload   []byte
		wantErr   error
	}{
		{"untrusted forwarder", stranger, relayedCall(t, Call{Method: MethodTransferProceeds, ProductionID: id}), ErrUntrustedRelayer},
		{"malformed payload", relayer, []byte("{"), ErrInvalidPayload},
		{"unknown method", relayer, relayedCall(t, Call{Method: "mint", ProductionID: id}), ErrInvalidPayload},
		{"bad amount", relayer, relayedCall(t, Call{Method: MethodWithdrawProceeds, ProductionID: id, Amount: "1e3"}), ErrInvalidPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.engine.Handle(tt.forwarder, investor, tt.payload)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
