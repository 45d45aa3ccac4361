package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/layerwm/internal/dispatch"
	"github.com/1broseidon/layerwm/internal/ipc"
	"github.com/BurntSushi/xgb"
)

// ErrShuttingDown is returned to control clients once the source is closed.
var ErrShuttingDown = errors.New("window manager is shutting down")

// XEventReader reads protocol events. Asynchronous protocol errors should be
// returned as non-fatal errors; io.EOF ends the stream.
type XEventReader interface {
	WaitForEvent() (xgb.Event, error)
}

type xResult struct {
	ev  xgb.Event
	err error
}

// SourceConfig holds configuration for the event source.
type SourceConfig struct {
	ReconcileInterval time.Duration
	Logger            *slog.Logger
}

// Source merges X events, control calls and reconcile ticks into the single
// stream the dispatcher consumes. Only its goroutines block on I/O; they
// hand work over channels and never touch window manager state.
type Source struct {
	x        XEventReader
	xEvents  chan xResult
	calls    chan *Call
	interval time.Duration
	ticker   *time.Ticker
	logger   *slog.Logger

	pending []Event
	// xErr holds a connection failure seen while collapsing motion.
	xErr error

	done      chan struct{}
	closeOnce sync.Once
}

var _ dispatch.Producer[EventKind, Event] = (*Source)(nil)
var _ ipc.Handler = (*Source)(nil)

// NewSource creates a source. x may be nil when no display is attached.
func NewSource(x XEventReader, cfg SourceConfig) *Source {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		x:        x,
		xEvents:  make(chan xResult, 256),
		calls:    make(chan *Call),
		interval: cfg.ReconcileInterval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the X reader and the reconcile ticker.
func (s *Source) Start() {
	if s.interval > 0 {
		s.ticker = time.NewTicker(s.interval)
	}
	if s.x != nil {
		go s.readX()
	}
}

func (s *Source) readX() {
	for {
		ev, err := s.x.WaitForEvent()
		if err != nil && !errors.Is(err, io.EOF) {
			s.logger.Debug("x protocol error", "error", err)
			continue
		}
		select {
		case s.xEvents <- xResult{ev: ev, err: err}:
		case <-s.done:
			return
		}
		if err != nil {
			return
		}
	}
}

// Close stops the source. Blocked control clients are released.
func (s *Source) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.ticker != nil {
			s.ticker.Stop()
		}
	})
}

// NextEvent blocks until an event is available. Runs of pointer motion are
// collapsed to the most recent position.
func (s *Source) NextEvent(ctx context.Context) (EventKind, Event, error) {
	if len(s.pending) > 0 {
		ev := s.pending[0]
		s.pending = s.pending[1:]
		return ev.Kind, ev, nil
	}
	if s.xErr != nil {
		return 0, Event{}, fmt.Errorf("x connection closed: %w", s.xErr)
	}

	var tick <-chan time.Time
	if s.ticker != nil {
		tick = s.ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return 0, Event{}, ctx.Err()
		case <-s.done:
			return 0, Event{}, ErrShuttingDown
		case call := <-s.calls:
			return EventCommand, Event{Kind: EventCommand, Call: call}, nil
		case <-tick:
			return EventReconcile, Event{Kind: EventReconcile}, nil
		case res := <-s.xEvents:
			if res.err != nil {
				return 0, Event{}, fmt.Errorf("x connection closed: %w", res.err)
			}
			kind, ok := classify(res.ev)
			if !ok {
				continue
			}
			ev := Event{Kind: kind, X: res.ev}
			if kind == EventMotionNotify {
				ev = s.compressMotion(ev)
			}
			return kind, ev, nil
		}
	}
}

// compressMotion drains queued motion events after ev and returns the
// latest. The first non-motion event is kept for the next call.
func (s *Source) compressMotion(ev Event) Event {
	for {
		select {
		case res := <-s.xEvents:
			if res.err != nil {
				s.xErr = res.err
				return ev
			}
			kind, ok := classify(res.ev)
			if !ok {
				continue
			}
			next := Event{Kind: kind, X: res.ev}
			if kind != EventMotionNotify {
				s.pending = append(s.pending, next)
				return ev
			}
			ev = next
		default:
			return ev
		}
	}
}

// HandleRequest queues a control request for the dispatch thread and waits
// for its answer.
func (s *Source) HandleRequest(ctx context.Context, req *ipc.Request) *ipc.Response {
	call := NewCall(req)
	select {
	case s.calls <- call:
	case <-ctx.Done():
		return ipc.NewErrorResponse(ctx.Err().Error())
	case <-s.done:
		return ipc.NewErrorResponse(ErrShuttingDown.Error())
	}

	select {
	case resp := <-call.Done():
		return resp
	case <-ctx.Done():
		return ipc.NewErrorResponse(ctx.Err().Error())
	case <-s.done:
		// QUIT answers and then shuts down; prefer the answer.
		select {
		case resp := <-call.Done():
			return resp
		default:
		}
		return ipc.NewErrorResponse(ErrShuttingDown.Error())
	}
}
