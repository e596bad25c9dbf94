package production

import (
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/events"
	"github.com/staxeio/staxe-go/identity"
)

// Approve opens a pending production for sale.
func (e *Engine) Approve(caller account.Address, id uint64) error {
	return e.apply("approve", id, func(en *entry, buf *events.Buffer) error {
		if err := e.requireApprover(caller); err != nil {
			return err
		}
		if err := en.p.expect(StatePendingApproval); err != nil {
			return err
		}
		en.p.State = StateOpen
		emit(buf, en, events.ProductionApproved, caller, nil)
		return nil
	})
}

// Decline rejects a pending production.
func (e *Engine) Decline(caller account.Address, id uint64) error {
	return e.apply("decline", id, func(en *entry, buf *events.Buffer) error {
		if err := e.requireApprover(caller); err != nil {
			return err
		}
		if err := en.p.expect(StatePendingApproval); err != nil {
			return err
		}
		en.p.State = StateDeclined
		emit(buf, en, events.ProductionDeclined, caller, nil)
		return nil
	})
}

// Pause halts purchases, finishing and funding transfers of an open production.
func (e *Engine) Pause(caller account.Address, id uint64) error {
	return e.setPaused("pause", caller, id, true)
}

// Unpause resumes a paused production.
func (e *Engine) Unpause(caller account.Address, id uint64) error {
	return e.setPaused("unpause", caller, id, false)
}

func (e *Engine) setPaused(op string, caller account.Address, id uint64, paused bool) error {
	return e.apply(op, id, func(en *entry, buf *events.Buffer) error {
		if err := e.requireApprover(caller); err != nil {
			return err
		}
		if err := en.p.expect(StateOpen); err != nil {
			return err
		}
		if en.p.Paused == paused {
			return fmt.Errorf("%w: production %d paused=%t", ErrInvalidState, id, paused)
		}
		en.p.Paused = paused
		kind := events.ProductionUnpaused
		if paused {
			kind = events.ProductionPaused
		}
		emit(buf, en, kind, caller, nil)
		return nil
	})
}

// Cancel ends a paused open production. All sale funds held in escrow are
// redistributed to current holders as proceeds, claimable until
// refundDeadline.
func (e *Engine) Cancel(caller account.Address, id uint64, refundDeadline time.Time) error {
	return e.apply("cancel", id, func(en *entry, buf *events.Buffer) error {
		if err := e.requireApprover(caller); err != nil {
			return err
		}
		if err := en.p.expect(StateOpen); err != nil {
			return err
		}
		if !en.p.Paused {
			return fmt.Errorf("%w: production %d must be paused before cancel", ErrInvalidState, id)
		}
		if earliest := e.now().Add(e.refundWin); refundDeadline.Before(earliest) {
			return fmt.Errorf("%w: deadline %s before %s", ErrRefundWindowTooShort,
				refundDeadline.Format(time.RFC3339), earliest.Format(time.RFC3339))
		}
		refund, err := en.escrow.ConvertFundsToProceeds(e.owner)
		if err != nil {
			return err
		}
		en.p.State = StateCanceled
		en.p.Paused = false
		en.p.RefundDeadline = refundDeadline
		emit(buf, en, events.ProductionCanceled, caller, func(ev *events.Event) {
			ev.Amount = refund
			ev.Detail = refundDeadline.UTC().Format(time.RFC3339)
		})
		return nil
	})
}

// FinishCrowdsale closes the sale and pays remaining funds to the creator.
func (e *Engine) FinishCrowdsale(caller account.Address, id uint64) error {
	return e.apply("finish_crowdsale", id, func(en *entry, buf *events.Buffer) error {
		if err := en.p.expectActive(StateOpen); err != nil {
			return err
		}
		if err := e.authorizeScheduled(&en.p, caller, en.p.CrowdsaleEndDate); err != nil {
			return err
		}
		if _, _, err := e.payFunding(en, buf, caller); err != nil {
			return err
		}
		en.p.State = StateCrowdsaleFinished
		emit(buf, en, events.CrowdsaleFinished, caller, func(ev *events.Event) {
			ev.Shares = en.escrow.Sold()
		})
		return nil
	})
}

// Close ends the production. Everything left in escrow, including unclaimed
// proceeds and the undistributed remainder, is paid to the creator minus the
// platform fee. A canceled production can be closed once its refund
// deadline has passed; see closeCanceled.
func (e *Engine) Close(caller account.Address, id uint64) error {
	return e.apply("close", id, func(en *entry, buf *events.Buffer) error {
		if en.p.State == StateCanceled {
			return e.closeCanceled(en, buf, caller)
		}
		if err := en.p.expect(StateCrowdsaleFinished); err != nil {
			return err
		}
		if err := e.authorizeScheduled(&en.p, caller, en.p.ProductionEndDate); err != nil {
			return err
		}
		swept, err := en.escrow.SweepProceeds(e.owner)
		if err != nil {
			return err
		}
		net, fee, err := e.payFunding(en, buf, caller)
		if err != nil {
			return err
		}
		en.p.State = StateClosed
		emit(buf, en, events.ProductionClosed, caller, func(ev *events.Event) {
			ev.Counterparty = en.p.Creator
			ev.Amount = net
			ev.Fee = fee
			ev.Detail = "swept " + swept.String()
		})
		return nil
	})
}

// closeCanceled sweeps refunds nobody claimed before the deadline to the
// treasury, or to the creator when no treasury is configured. The approver
// or a trusted relayer may call it.
func (e *Engine) closeCanceled(en *entry, buf *events.Buffer, caller account.Address) error {
	if err := e.requireApprover(caller); err != nil && !e.roles.IsTrustedRelayer(caller) {
		return err
	}
	if e.now().Before(en.p.RefundDeadline) {
		return fmt.Errorf("%w: refunds claimable until %s", ErrRefundWindowOpen,
			en.p.RefundDeadline.UTC().Format(time.RFC3339))
	}
	unclaimed, err := en.escrow.SweepProceeds(e.owner)
	if err != nil {
		return err
	}
	recipient := e.treasury
	if recipient.IsZero() {
		recipient = en.p.Creator
	}
	if err := en.escrow.PayOut(e.owner, recipient, unclaimed); err != nil {
		return fmt.Errorf("%w: unclaimed refunds: %v", ErrUnaccountedCurrency, err)
	}
	en.p.State = StateClosed
	emit(buf, en, events.ProductionClosed, caller, func(ev *events.Event) {
		ev.Counterparty = recipient
		ev.Amount = unclaimed
		ev.Detail = "unclaimed refunds"
	})
	return nil
}

// TransferFunding pays accumulated sale funds to the creator without
// changing state.
func (e *Engine) TransferFunding(caller account.Address, id uint64) error {
	return e.apply("transfer_funding", id, func(en *entry, buf *events.Buffer) error {
		if err := en.p.expectActive(StateOpen); err != nil {
			return err
		}
		if !e.isCreator(&en.p, caller) {
			return fmt.Errorf("%w: %s", ErrNotAuthorized, caller)
		}
		_, _, err := e.payFunding(en, buf, caller)
		return err
	})
}

// payFunding pays the funds bucket to the creator, withholding the platform
// fee for the treasury. It returns the net and fee amounts.
func (e *Engine) payFunding(en *entry, buf *events.Buffer, caller account.Address) (*big.Int, *big.Int, error) {
	funds := en.escrow.AvailableFunds()
	if funds.Sign() == 0 {
		return funds, new(big.Int), nil
	}
	fee := new(big.Int)
	if !e.treasury.IsZero() {
		fee.Mul(funds, big.NewInt(int64(en.p.PlatformSharePercentage)))
		fee.Quo(fee, big.NewInt(100))
	}
	net := new(big.Int).Sub(funds, fee)
	// Escrow pays out of its own tracked balance, so a failure here means
	// the currency contract misbehaved.
	if err := en.escrow.PayOut(e.owner, e.treasury, fee); err != nil {
		return nil, nil, fmt.Errorf("%w: fee payout: %v", ErrUnaccountedCurrency, err)
	}
	if err := en.escrow.PayOut(e.owner, en.p.Creator, net); err != nil {
		e.logger.Error("creator payout failed after fee payout",
			zap.Uint64("production_id", en.p.ID), zap.String("fee", fee.String()), zap.Error(err))
		return nil, nil, fmt.Errorf("%w: creator payout: %v", ErrUnaccountedCurrency, err)
	}
	emit(buf, en, events.FundingTransferred, caller, func(ev *events.Event) {
		ev.Counterparty = en.p.Creator
		ev.Amount = net
		ev.Fee = fee
	})
	return net, fee, nil
}

func (e *Engine) requireApprover(caller account.Address) error {
	if !e.roles.HasRole(caller, identity.RoleApprover) {
		return fmt.Errorf("%w: %s", ErrNotApprover, caller)
	}
	return nil
}
