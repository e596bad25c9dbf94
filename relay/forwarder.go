package relay

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/staxeio/staxe-go/account"
	"github.com/staxeio/staxe-go/events"
)

// Target receives forwarded calls. forwarder is the forwarder's own address,
// which the target must trust; sender is the authenticated end user.
type Target interface {
	TargetAddress() account.Address
	Handle(forwarder, sender account.Address, payload []byte) error
}

// Forwarder verifies signed requests and dispatches them to registered
// targets. Safe for concurrent use.
type Forwarder struct {
	addr   account.Address
	sink   events.Sink
	logger *zap.Logger

	mu      sync.Mutex
	targets map[account.Address]Target
	nonces  map[account.Address]uint64
}

// NewForwarder creates a forwarder acting as addr. Nil sink and logger
// discard output.
func NewForwarder(addr account.Address, sink events.Sink, logger *zap.Logger) *Forwarder {
	if sink == nil {
		sink = events.Discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Forwarder{
		addr:    addr,
		sink:    sink,
		logger:  logger,
		targets: make(map[account.Address]Target),
		nonces:  make(map[account.Address]uint64),
	}
}

// Address returns the address targets see as the forwarder.
func (f *Forwarder) Address() account.Address { return f.addr }

// Register makes t reachable at t.TargetAddress().
func (f *Forwarder) Register(t Target) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	addr := t.TargetAddress()
	if _, ok := f.targets[addr]; ok {
		return fmt.Errorf("%w: %s", ErrTargetExists, addr)
	}
	f.targets[addr] = t
	return nil
}

// Nonce returns the nonce the next request from sender must carry.
func (f *Forwarder) Nonce(sender account.Address) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nonces[sender]
}

// Verify reports whether sr would be accepted by Execute now.
func (f *Forwarder) Verify(sr *SignedRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := f.check(sr)
	return err
}

// Execute verifies sr, consumes its nonce and forwards the payload. The
// nonce stays consumed when the target rejects the call.
func (f *Forwarder) Execute(sr *SignedRequest) error {
	f.mu.Lock()
	target, err := f.check(sr)
	if err != nil {
		f.mu.Unlock()
		f.logger.Debug("meta-transaction rejected", zap.Error(err))
		return err
	}
	f.nonces[sr.From]++
	f.mu.Unlock()

	if err := target.Handle(f.addr, sr.From, sr.Payload); err != nil {
		f.logger.Debug("meta-transaction failed", zap.Stringer("from", sr.From),
			zap.Stringer("to", sr.To), zap.Uint64("nonce", sr.Nonce), zap.Error(err))
		return err
	}
	ev := events.New(events.MetaTxExecuted, 0)
	ev.Actor = sr.From
	ev.Counterparty = sr.To
	ev.Detail = "nonce=" + strconv.FormatUint(sr.Nonce, 10)
	ev.Time = time.Now()
	f.sink.Emit(ev)
	return nil
}

func (f *Forwarder) check(sr *SignedRequest) (Target, error) {
	if sr == nil {
		return nil, ErrNilRequest
	}
	if want := f.nonces[sr.From]; sr.Nonce != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadNonce, sr.Nonce, want)
	}
	target, ok := f.targets[sr.To]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, sr.To)
	}
	if err := sr.verify(); err != nil {
		return nil, err
	}
	return target, nil
}
