package daemon

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/1broseidon/layerwm/internal/ipc"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

func TestSource_CompressesMotion(t *testing.T) {
	src := NewSource(nil, SourceConfig{})
	src.xEvents <- xResult{ev: xproto.MotionNotifyEvent{RootX: 1}}
	src.xEvents <- xResult{ev: xproto.MotionNotifyEvent{RootX: 2}}
	src.xEvents <- xResult{ev: xproto.MotionNotifyEvent{RootX: 3}}
	src.xEvents <- xResult{ev: xproto.KeyPressEvent{Detail: 9}}
	src.xEvents <- xResult{ev: xproto.MotionNotifyEvent{RootX: 4}}

	ctx := context.Background()
	kind, ev, err := src.NextEvent(ctx)
	if err != nil || kind != EventMotionNotify {
		t.Fatalf("NextEvent = %s, %v", kind, err)
	}
	if m := ev.X.(xproto.MotionNotifyEvent); m.RootX != 3 {
		t.Fatalf("RootX = %d, want the last queued motion", m.RootX)
	}

	kind, ev, err = src.NextEvent(ctx)
	if err != nil || kind != EventKeyPress {
		t.Fatalf("NextEvent = %s, %v; want the key press kept in order", kind, err)
	}
	if k := ev.X.(xproto.KeyPressEvent); k.Detail != 9 {
		t.Fatalf("Detail = %d", k.Detail)
	}

	kind, ev, err = src.NextEvent(ctx)
	if err != nil || kind != EventMotionNotify || ev.X.(xproto.MotionNotifyEvent).RootX != 4 {
		t.Fatalf("NextEvent = %s, %+v, %v", kind, ev, err)
	}
}

func TestSource_SkipsUnhandledEvents(t *testing.T) {
	src := NewSource(nil, SourceConfig{})
	src.xEvents <- xResult{ev: xproto.PropertyNotifyEvent{}}
	src.xEvents <- xResult{ev: xproto.DestroyNotifyEvent{Window: 7}}

	kind, _, err := src.NextEvent(context.Background())
	if err != nil || kind != EventDestroyNotify {
		t.Fatalf("NextEvent = %s, %v", kind, err)
	}
}

func TestSource_ConnectionLoss(t *testing.T) {
	src := NewSource(nil, SourceConfig{})
	src.xEvents <- xResult{err: io.EOF}

	_, _, err := src.NextEvent(context.Background())
	if !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}

func TestSource_ContextCancel(t *testing.T) {
	src := NewSource(nil, SourceConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := src.NextEvent(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestSource_ReconcileTick(t *testing.T) {
	src := NewSource(nil, SourceConfig{ReconcileInterval: 10 * time.Millisecond})
	src.Start()
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	kind, _, err := src.NextEvent(ctx)
	if err != nil || kind != EventReconcile {
		t.Fatalf("NextEvent = %s, %v", kind, err)
	}
}

// fakeReader replays a fixed list of events and then reports EOF.
type fakeReader struct {
	events chan xResult
}

func (r *fakeReader) WaitForEvent() (xgb.Event, error) {
	res, ok := <-r.events
	if !ok {
		return nil, io.EOF
	}
	return res.ev, res.err
}

func TestSource_ReadsFromConnection(t *testing.T) {
	reader := &fakeReader{events: make(chan xResult, 4)}
	reader.events <- xResult{err: errors.New("BadWindow")}
	reader.events <- xResult{ev: xproto.MapRequestEvent{Window: 5}}
	close(reader.events)

	src := NewSource(reader, SourceConfig{})
	src.Start()
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	kind, ev, err := src.NextEvent(ctx)
	if err != nil || kind != EventMapRequest {
		t.Fatalf("NextEvent = %s, %v; protocol errors should be skipped", kind, err)
	}
	if ev.X.(xproto.MapRequestEvent).Window != 5 {
		t.Fatalf("event = %+v", ev.X)
	}
	if _, _, err := src.NextEvent(ctx); !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}

func TestSource_HandleRequestRoundTrip(t *testing.T) {
	src := NewSource(nil, SourceConfig{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan *ipc.Response, 1)
	go func() {
		done <- src.HandleRequest(ctx, &ipc.Request{Command: ipc.CommandGetStatus})
	}()

	kind, ev, err := src.NextEvent(ctx)
	if err != nil || kind != EventCommand {
		t.Fatalf("NextEvent = %s, %v", kind, err)
	}
	if ev.Call.Request.Command != ipc.CommandGetStatus {
		t.Fatalf("command = %s", ev.Call.Request.Command)
	}
	ev.Call.Reply(ipc.NewErrorResponse("nope"))
	ev.Call.Reply(ipc.NewErrorResponse("second reply dropped"))

	resp := <-done
	if resp.Status != ipc.StatusError || resp.Error != "nope" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestSource_HandleRequestAfterClose(t *testing.T) {
	src := NewSource(nil, SourceConfig{})
	src.Close()
	src.Close()

	resp := src.HandleRequest(context.Background(), &ipc.Request{Command: ipc.CommandGetStatus})
	if resp.Status != ipc.StatusError || resp.Error != ErrShuttingDown.Error() {
		t.Fatalf("response = %+v", resp)
	}
	if _, _, err := src.NextEvent(context.Background()); !errors.Is(err, ErrShuttingDown) {
		t.Fatalf("err = %v", err)
	}
}
