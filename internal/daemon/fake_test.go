package daemon

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/1broseidon/layerwm/internal/clientstate"
	"github.com/1broseidon/layerwm/internal/config"
	"github.com/1broseidon/layerwm/internal/platform"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// fakeBackend records what the window manager asks of the window system.
type fakeBackend struct {
	windows  map[platform.WindowID]platform.WindowInfo
	titles   map[platform.WindowID]string
	displays []platform.Display
	order    []platform.WindowID

	mapped       map[platform.WindowID]bool
	managed      map[platform.WindowID]bool
	borders      map[platform.WindowID]uint32
	geometry     map[platform.WindowID]platform.Rect
	clientStates map[platform.WindowID]platform.ClientState
	desktopHints map[platform.WindowID]int

	focused        platform.WindowID
	active         platform.WindowID
	currentDesktop int
	clientList     []platform.WindowID
	stack          []platform.WindowID
	closed         []platform.WindowID
	notified       []platform.WindowID
	passedThrough  []platform.WindowID
	replays        int
	pointerX       int
	pointerY       int

	placeholderShown bool
	placeholder      platform.Rect
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		windows: make(map[platform.WindowID]platform.WindowInfo),
		titles:  make(map[platform.WindowID]string),
		displays: []platform.Display{{
			ID:     0,
			Name:   "fake-0",
			Bounds: platform.Rect{Width: 1000, Height: 800},
			Usable: platform.Rect{Width: 1000, Height: 800},
		}},
		mapped:       make(map[platform.WindowID]bool),
		managed:      make(map[platform.WindowID]bool),
		borders:      make(map[platform.WindowID]uint32),
		geometry:     make(map[platform.WindowID]platform.Rect),
		clientStates: make(map[platform.WindowID]platform.ClientState),
		desktopHints: make(map[platform.WindowID]int),
	}
}

// addWindow creates a normal application window.
func (b *fakeBackend) addWindow(id platform.WindowID, geom platform.Rect) {
	b.windows[id] = platform.WindowInfo{Normal: true, Geometry: geom}
	b.order = append(b.order, id)
}

func (b *fakeBackend) Displays() ([]platform.Display, error) { return b.displays, nil }

func (b *fakeBackend) WindowInfo(id platform.WindowID) (platform.WindowInfo, error) {
	info, ok := b.windows[id]
	if !ok {
		return platform.WindowInfo{}, errors.New("bad window")
	}
	return info, nil
}

func (b *fakeBackend) WindowTitle(id platform.WindowID) string { return b.titles[id] }

func (b *fakeBackend) TopLevelWindows() ([]platform.WindowID, error) {
	var out []platform.WindowID
	for _, id := range b.order {
		if _, ok := b.windows[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (b *fakeBackend) Exists(id platform.WindowID) bool {
	_, ok := b.windows[id]
	return ok
}

func (b *fakeBackend) Pointer() (int, int, error) { return b.pointerX, b.pointerY, nil }

func (b *fakeBackend) Manage(id platform.WindowID) error {
	if _, ok := b.windows[id]; !ok {
		return errors.New("bad window")
	}
	b.managed[id] = true
	return nil
}

func (b *fakeBackend) Map(id platform.WindowID)   { b.mapped[id] = true }
func (b *fakeBackend) Unmap(id platform.WindowID) { b.mapped[id] = false }

func (b *fakeBackend) Restack(order []platform.WindowID) {
	b.stack = append([]platform.WindowID(nil), order...)
}

func (b *fakeBackend) Focus(id platform.WindowID) error {
	b.focused = id
	return nil
}

func (b *fakeBackend) Unfocus(platform.WindowID) error { return nil }
func (b *fakeBackend) FocusRoot()                      { b.focused = 0 }

func (b *fakeBackend) SetBorderColor(id platform.WindowID, pixel uint32) { b.borders[id] = pixel }

func (b *fakeBackend) MoveResize(id platform.WindowID, r platform.Rect) { b.geometry[id] = r }

func (b *fakeBackend) ConfigureUnmanaged(req platform.ConfigureRequest) {
	b.passedThrough = append(b.passedThrough, req.Window)
}

func (b *fakeBackend) SendConfigureNotify(id platform.WindowID, _ platform.Rect) {
	b.notified = append(b.notified, id)
}

func (b *fakeBackend) ReplayPointer() { b.replays++ }

func (b *fakeBackend) Close(id platform.WindowID) error {
	b.closed = append(b.closed, id)
	return nil
}

func (b *fakeBackend) SetClientState(id platform.WindowID, s platform.ClientState) error {
	b.clientStates[id] = s
	return nil
}

func (b *fakeBackend) SetCurrentDesktop(d int) error {
	b.currentDesktop = d
	return nil
}

func (b *fakeBackend) SetWindowDesktop(id platform.WindowID, d int) error {
	b.desktopHints[id] = d
	return nil
}

func (b *fakeBackend) SetActiveWindow(id platform.WindowID) error {
	b.active = id
	return nil
}

func (b *fakeBackend) SetClientList(ws []platform.WindowID) error {
	b.clientList = append([]platform.WindowID(nil), ws...)
	return nil
}

func (b *fakeBackend) ShowPlaceholder(r platform.Rect) error {
	b.placeholderShown = true
	b.placeholder = r
	return nil
}

func (b *fakeBackend) MovePlaceholder(r platform.Rect) { b.placeholder = r }
func (b *fakeBackend) HidePlaceholder()                { b.placeholderShown = false }

var _ platform.Backend = (*fakeBackend)(nil)

// queueSource hands out queued events, then errDrained.
type queueSource struct {
	events []Event
}

var errDrained = errors.New("no more events")

func (q *queueSource) NextEvent(context.Context) (EventKind, Event, error) {
	if len(q.events) == 0 {
		return 0, Event{}, errDrained
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev.Kind, ev, nil
}

// keyTable resolves key presses by keycode.
type keyTable struct {
	actions map[xproto.Keycode]config.Action
	remaps  int
}

func (k *keyTable) Lookup(ev xproto.KeyPressEvent) (config.Action, bool) {
	a, ok := k.actions[ev.Detail]
	return a, ok
}

func (k *keyTable) Remap(xproto.MappingNotifyEvent) { k.remaps++ }

type harness struct {
	t       *testing.T
	wm      *WM
	backend *fakeBackend
	source  *queueSource
	keys    *keyTable
	logs    *bytes.Buffer
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	h := &harness{
		t:       t,
		backend: newFakeBackend(),
		source:  &queueSource{},
		keys:    &keyTable{actions: make(map[xproto.Keycode]config.Action)},
		logs:    &bytes.Buffer{},
	}
	logger := slog.New(slog.NewTextHandler(h.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	wm, err := New(h.backend, h.source, Options{Config: cfg, Hotkeys: h.keys, Logger: logger})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.wm = wm
	return h
}

// send dispatches one event through the full handler and apply cycle.
func (h *harness) send(kind EventKind, x xgb.Event) {
	h.t.Helper()
	h.source.events = append(h.source.events, Event{Kind: kind, X: x})
	if err := h.wm.Dispatcher().Step(context.Background()); err != nil {
		h.t.Fatalf("Step(%s): %v", kind, err)
	}
}

// mapWindow creates a window and sends its MapRequest.
func (h *harness) mapWindow(id platform.WindowID, geom platform.Rect) clientstate.Window {
	h.t.Helper()
	h.backend.addWindow(id, geom)
	h.send(EventMapRequest, xproto.MapRequestEvent{Window: xproto.Window(id)})
	return clientstate.Window(id)
}

func (h *harness) key(code xproto.Keycode, action config.Action) {
	h.t.Helper()
	h.keys.actions[code] = action
	h.send(EventKeyPress, xproto.KeyPressEvent{Detail: code})
}

func (h *harness) desktopOf(w clientstate.Window) clientstate.Desktop {
	h.t.Helper()
	d, err := h.wm.State().FindDesktop(w)
	if err != nil {
		h.t.Fatalf("FindDesktop(%d): %v", w, err)
	}
	return d
}

func (h *harness) assertValid() {
	h.t.Helper()
	if err := h.wm.State().Validate(); err != nil {
		h.t.Fatalf("state invalid: %v", err)
	}
}
