// Package dispatch implements a single-threaded event loop: handlers are
// registered per event key and invoked, in registration order, for every
// event a Producer yields.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// HandlerFunc handles one event's argument.
type HandlerFunc[A any] func(A) error

// HandlerID identifies a single registration. Registering the same function
// twice yields two distinct ids.
type HandlerID uint64

// Producer supplies events to a Dispatcher. NextEvent is the only call in
// the loop that may block.
type Producer[K comparable, A any] interface {
	NextEvent(ctx context.Context) (K, A, error)
}

type registration[A any] struct {
	id HandlerID
	fn HandlerFunc[A]
}

// Dispatcher routes events from a Producer to the handlers registered for
// their key. It is not safe for concurrent use: Register, Unregister and
// Terminate are meant to be called from handlers or before Run.
type Dispatcher[K comparable, A any] struct {
	producer   Producer[K, A]
	handlers   map[K][]registration[A]
	nextID     HandlerID
	terminated bool

	logger    *slog.Logger
	afterStep func()
}

// Option configures a Dispatcher.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	afterStep func()
}

// WithLogger sets the logger used to report failing handlers.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithAfterStep installs a hook run after every event's handlers have
// completed, including events nobody handled.
func WithAfterStep(fn func()) Option {
	return func(o *options) { o.afterStep = fn }
}

// New creates a Dispatcher that pulls events from p.
func New[K comparable, A any](p Producer[K, A], opts ...Option) *Dispatcher[K, A] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Dispatcher[K, A]{
		producer:  p,
		handlers:  make(map[K][]registration[A]),
		logger:    o.logger,
		afterStep: o.afterStep,
	}
}

// Register appends fn to the handlers for key.
func (d *Dispatcher[K, A]) Register(key K, fn HandlerFunc[A]) HandlerID {
	d.nextID++
	id := d.nextID
	d.handlers[key] = append(d.handlers[key], registration[A]{id: id, fn: fn})
	return id
}

// Unregister removes the registration id from key. Unknown ids are ignored.
func (d *Dispatcher[K, A]) Unregister(key K, id HandlerID) {
	regs := d.handlers[key]
	for i, r := range regs {
		if r.id != id {
			continue
		}
		// Copy so a snapshot taken by an in-flight Step is not disturbed.
		next := make([]registration[A], 0, len(regs)-1)
		next = append(next, regs[:i]...)
		next = append(next, regs[i+1:]...)
		if len(next) == 0 {
			delete(d.handlers, key)
		} else {
			d.handlers[key] = next
		}
		return
	}
}

// Handlers returns the number of registrations for key.
func (d *Dispatcher[K, A]) Handlers(key K) int {
	return len(d.handlers[key])
}

// Terminate asks Run to return once the current event has been handled.
func (d *Dispatcher[K, A]) Terminate() {
	d.terminated = true
}

// Terminated reports whether Terminate was called since Run last started.
func (d *Dispatcher[K, A]) Terminated() bool {
	return d.terminated
}

// Step reads one event and runs its handlers. Handler failures are logged
// and do not stop the remaining handlers; only producer errors are
// returned.
func (d *Dispatcher[K, A]) Step(ctx context.Context) error {
	key, arg, err := d.producer.NextEvent(ctx)
	if err != nil {
		return err
	}

	regs := d.handlers[key]
	if len(regs) > 0 {
		snapshot := make([]registration[A], len(regs))
		copy(snapshot, regs)
		for _, r := range snapshot {
			d.invoke(key, r, arg)
		}
	}

	if d.afterStep != nil {
		d.afterStep()
	}
	return nil
}

func (d *Dispatcher[K, A]) invoke(key K, r registration[A], arg A) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("event handler panicked",
				"key", fmt.Sprint(key),
				"handler", r.id,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
		}
	}()
	if err := r.fn(arg); err != nil {
		d.logger.Warn("event handler failed", "key", fmt.Sprint(key), "handler", r.id, "error", err)
	}
}

// Run steps until Terminate is called or the producer fails. The
// termination flag is cleared on entry so Run may be called again after it
// returns.
func (d *Dispatcher[K, A]) Run(ctx context.Context) error {
	d.terminated = false
	for {
		if err := d.Step(ctx); err != nil {
			return err
		}
		if d.terminated {
			return nil
		}
	}
}
