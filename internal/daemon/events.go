package daemon

import (
	"github.com/1broseidon/layerwm/internal/ipc"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// EventKind is the dispatch key of an Event.
type EventKind int

const (
	EventMapRequest EventKind = iota
	EventConfigureRequest
	EventUnmapNotify
	EventDestroyNotify
	EventKeyPress
	EventButtonPress
	EventMotionNotify
	EventButtonRelease
	EventMappingNotify
	EventCommand
	EventReconcile
)

func (k EventKind) String() string {
	switch k {
	case EventMapRequest:
		return "map-request"
	case EventConfigureRequest:
		return "configure-request"
	case EventUnmapNotify:
		return "unmap-notify"
	case EventDestroyNotify:
		return "destroy-notify"
	case EventKeyPress:
		return "key-press"
	case EventButtonPress:
		return "button-press"
	case EventMotionNotify:
		return "motion-notify"
	case EventButtonRelease:
		return "button-release"
	case EventMappingNotify:
		return "mapping-notify"
	case EventCommand:
		return "command"
	case EventReconcile:
		return "reconcile"
	}
	return "unknown"
}

// Event is the argument handed to handlers. X carries the protocol event for
// X-derived kinds; Call is set for EventCommand.
type Event struct {
	Kind EventKind
	X    xgb.Event
	Call *Call
}

// Call is a control request waiting for the window manager to answer it.
type Call struct {
	Request *ipc.Request
	reply   chan *ipc.Response
}

// NewCall wraps a request.
func NewCall(req *ipc.Request) *Call {
	return &Call{Request: req, reply: make(chan *ipc.Response, 1)}
}

// Reply answers the call. Only the first reply is delivered.
func (c *Call) Reply(resp *ipc.Response) {
	select {
	case c.reply <- resp:
	default:
	}
}

// Done returns the channel the reply is delivered on.
func (c *Call) Done() <-chan *ipc.Response {
	return c.reply
}

// classify maps an X event onto its dispatch kind. Events the window
// manager does not act on report false.
func classify(ev xgb.Event) (EventKind, bool) {
	switch ev.(type) {
	case xproto.MapRequestEvent:
		return EventMapRequest, true
	case xproto.ConfigureRequestEvent:
		return EventConfigureRequest, true
	case xproto.UnmapNotifyEvent:
		return EventUnmapNotify, true
	case xproto.DestroyNotifyEvent:
		return EventDestroyNotify, true
	case xproto.KeyPressEvent:
		return EventKeyPress, true
	case xproto.ButtonPressEvent:
		return EventButtonPress, true
	case xproto.MotionNotifyEvent:
		return EventMotionNotify, true
	case xproto.ButtonReleaseEvent:
		return EventButtonRelease, true
	case xproto.MappingNotifyEvent:
		return EventMappingNotify, true
	}
	return 0, false
}
