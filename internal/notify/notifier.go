// Package notify runs fire-and-forget notifications to the server.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tOgg1/riskdesk/internal/logging"
)

// Func is a single notification attempt.
type Func func(ctx context.Context) error

// Notifier dispatches best-effort notifications on detached goroutines.
// Failures are logged and never returned to the caller. Each notification is
// attempted exactly once.
type Notifier struct {
	mu      sync.Mutex
	idle    *sync.Cond
	pending int
	closed  bool
	log     zerolog.Logger

	// onDone is a test hook invoked after each attempt.
	onDone func(name string, err error)
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger overrides the logger failures are written to.
func WithLogger(log zerolog.Logger) Option {
	return func(n *Notifier) {
		n.log = log
	}
}

// WithCompletionHook registers a callback run after every attempt.
func WithCompletionHook(fn func(name string, err error)) Option {
	return func(n *Notifier) {
		n.onDone = fn
	}
}

// New creates a Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{log: logging.Component("notify")}
	n.idle = sync.NewCond(&n.mu)
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Fire starts fn in the background and returns immediately. The caller's
// cancellation does not abort the notification. Returns false when the
// notifier is closed or fn is nil.
func (n *Notifier) Fire(ctx context.Context, name string, fn Func) bool {
	if n == nil || fn == nil {
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		n.log.Debug().Str("notification", name).Msg("notifier closed, dropping")
		return false
	}
	n.pending++
	n.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	go func() {
		defer n.done()
		err := fn(detached)
		if err != nil {
			n.log.Warn().Err(err).Str("notification", name).Msg("best-effort notification failed")
		} else {
			n.log.Debug().Str("notification", name).Msg("notification delivered")
		}
		if n.onDone != nil {
			n.onDone(name, err)
		}
	}()
	return true
}

func (n *Notifier) done() {
	n.mu.Lock()
	n.pending--
	if n.pending == 0 {
		n.idle.Broadcast()
	}
	n.mu.Unlock()
}

// Wait blocks until no notification is outstanding. It may run alongside
// Fire.
func (n *Notifier) Wait() {
	if n == nil {
		return
	}
	n.mu.Lock()
	for n.pending > 0 {
		n.idle.Wait()
	}
	n.mu.Unlock()
}

// Close stops accepting notifications and waits for outstanding ones.
func (n *Notifier) Close() {
	if n == nil {
		return
	}
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()
	n.Wait()
}
