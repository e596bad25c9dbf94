package production

import "fmt"

// State is the lifecycle state of a production. Pausing is tracked
// separately in Production.Paused.
type State uint8

const (
	StateEmpty State = iota
	StatePendingApproval
	StateOpen
	StateCanceled
	StateDeclined
	StateCrowdsaleFinished
	StateClosed
)

var stateNames = [...]string{
	StateEmpty:             "empty",
	StatePendingApproval:   "pending_approval",
	StateOpen:              "open",
	StateCanceled:          "canceled",
	StateDeclined:          "declined",
	StateCrowdsaleFinished: "crowdsale_finished",
	StateClosed:            "closed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// expect fails with ErrInvalidState unless p is in one of states.
func (p *Production) expect(states ...State) error {
	for _, s := range states {
		if p.State == s {
			return nil
		}
	}
	return fmt.Errorf("%w: production %d is %s, want %v", ErrInvalidState, p.ID, p.State, states)
}

// expectActive fails unless p is in one of states and not paused.
func (p *Production) expectActive(states ...State) error {
	if err := p.expect(states...); err != nil {
		return err
	}
	if p.Paused {
		return fmt.Errorf("%w: production %d", ErrPaused, p.ID)
	}
	return nil
}

// expectMutable fails once p is closed.
func (p *Production) expectMutable() error {
	if p.State == StateClosed || p.State == StateEmpty {
		return fmt.Errorf("%w: production %d is %s", ErrInvalidState, p.ID, p.State)
	}
	return nil
}
