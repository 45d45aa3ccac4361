package daemon

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/1broseidon/layerwm/internal/clientstate"
	"github.com/1broseidon/layerwm/internal/config"
	"github.com/1broseidon/layerwm/internal/ipc"
	"github.com/1broseidon/layerwm/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
)

const (
	focusedPixel   = 0x000000
	unfocusedPixel = 0xffffff
)

func TestMapRequest_ManagesAndFocuses(t *testing.T) {
	h := newHarness(t, nil)
	w := h.mapWindow(0x100, platform.Rect{X: 10, Y: 20, Width: 300, Height: 200})

	b := h.backend
	if !b.managed[0x100] || !b.mapped[0x100] {
		t.Fatalf("managed=%v mapped=%v, want both", b.managed[0x100], b.mapped[0x100])
	}
	if b.focused != 0x100 || b.active != 0x100 {
		t.Fatalf("focused=%#x active=%#x, want 0x100", b.focused, b.active)
	}
	if b.borders[0x100] != focusedPixel {
		t.Fatalf("border = %#x, want focused color", b.borders[0x100])
	}
	if b.clientStates[0x100] != platform.StateNormal || b.desktopHints[0x100] != 1 {
		t.Fatalf("state=%v desktop=%d", b.clientStates[0x100], b.desktopHints[0x100])
	}
	if !reflect.DeepEqual(b.clientList, []platform.WindowID{0x100}) {
		t.Fatalf("client list = %v", b.clientList)
	}
	if !reflect.DeepEqual(b.stack, []platform.WindowID{0x100}) {
		t.Fatalf("stack = %v", b.stack)
	}
	if g, _ := h.wm.State().Geometry(w); g != (clientstate.Rect{X: 10, Y: 20, Width: 300, Height: 200}) {
		t.Fatalf("geometry = %+v", g)
	}
	h.assertValid()
}

func TestMapRequest_SecondWindowTakesFocus(t *testing.T) {
	h := newHarness(t, nil)
	h.mapWindow(0x100, platform.Rect{Width: 100, Height: 100})
	h.mapWindow(0x200, platform.Rect{Width: 100, Height: 100})

	if h.backend.focused != 0x200 {
		t.Fatalf("focused = %#x, want 0x200", h.backend.focused)
	}
	if h.backend.borders[0x100] != unfocusedPixel {
		t.Fatalf("old focus border = %#x, want unfocused color", h.backend.borders[0x100])
	}
}

func TestMapRequest_IgnoresUnmanagedWindows(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.windows[0x300] = platform.WindowInfo{Normal: false}
	h.backend.windows[0x400] = platform.WindowInfo{OverrideRedirect: true, Normal: true}

	h.send(EventMapRequest, xproto.MapRequestEvent{Window: 0x300})
	h.send(EventMapRequest, xproto.MapRequestEvent{Window: 0x400})

	if !h.backend.mapped[0x300] {
		t.Fatal("dock-like window should be mapped directly")
	}
	if h.wm.State().IsTracked(0x300) || h.wm.State().IsTracked(0x400) {
		t.Fatal("unmanaged windows must not be tracked")
	}
}

func TestMapRequest_StartsIconicWithStateHint(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.windows[0x100] = platform.WindowInfo{Normal: true, StateHint: true, Iconic: true}
	h.send(EventMapRequest, xproto.MapRequestEvent{Window: 0x100})

	if d := h.desktopOf(0x100); d != clientstate.DesktopIcons {
		t.Fatalf("desktop = %s, want icons", d)
	}
	if h.backend.mapped[0x100] {
		t.Fatal("iconic window should stay unmapped")
	}
	if h.backend.clientStates[0x100] != platform.StateIconic {
		t.Fatalf("client state = %v, want iconic", h.backend.clientStates[0x100])
	}
	if _, ok := h.wm.State().Focused(); ok || h.backend.focused != 0 {
		t.Fatal("iconic window must not take the focus")
	}
}

func TestMapRequest_TransientGoesToDialogLayer(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.windows[0x100] = platform.WindowInfo{Normal: true, Transient: true}
	h.send(EventMapRequest, xproto.MapRequestEvent{Window: 0x100})

	if l, _ := h.wm.State().FindLayer(0x100); l != clientstate.DialogLayer {
		t.Fatalf("layer = %d, want %d", l, clientstate.DialogLayer)
	}
}

func TestMapRequest_ClassActions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GapSize = 10
	cfg.ClassActions["Xclock"] = config.ClassAction{Stick: true, Layer: 8}
	cfg.ClassActions["Firefox"] = config.ClassAction{Maximize: true}
	cfg.ClassActions["Term"] = config.ClassAction{Snap: "right"}
	h := newHarness(t, cfg)

	h.backend.windows[0x100] = platform.WindowInfo{Normal: true, Class: "Xclock", Geometry: platform.Rect{Width: 50, Height: 50}}
	h.backend.windows[0x200] = platform.WindowInfo{Normal: true, Class: "Firefox", Geometry: platform.Rect{Width: 50, Height: 50}}
	h.backend.windows[0x300] = platform.WindowInfo{Normal: true, Class: "Term", Geometry: platform.Rect{Width: 50, Height: 50}}
	for _, id := range []xproto.Window{0x100, 0x200, 0x300} {
		h.send(EventMapRequest, xproto.MapRequestEvent{Window: id})
	}

	if d := h.desktopOf(0x100); d != clientstate.DesktopAll {
		t.Fatalf("Xclock desktop = %s, want all", d)
	}
	if h.backend.desktopHints[0x100] != -1 {
		t.Fatalf("Xclock desktop hint = %d, want -1", h.backend.desktopHints[0x100])
	}
	if l, _ := h.wm.State().FindLayer(0x100); l != 8 {
		t.Fatalf("Xclock layer = %d", l)
	}
	if got := h.backend.geometry[0x200]; got != (platform.Rect{X: 10, Y: 10, Width: 980, Height: 780}) {
		t.Fatalf("Firefox geometry = %+v", got)
	}
	if got := h.backend.geometry[0x300]; got != (platform.Rect{X: 510, Y: 10, Width: 480, Height: 780}) {
		t.Fatalf("Term geometry = %+v", got)
	}
	h.assertValid()
}

func TestMapRequest_ClassActionFailureIsLogged(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ClassActions["Firefox"] = config.ClassAction{Maximize: true}
	cfg.ClassActions["Term"] = config.ClassAction{Snap: "left"}
	h := newHarness(t, cfg)
	h.backend.displays = nil

	h.backend.windows[0x200] = platform.WindowInfo{Normal: true, Class: "Firefox", Geometry: platform.Rect{Width: 50, Height: 50}}
	h.backend.windows[0x300] = platform.WindowInfo{Normal: true, Class: "Term", Geometry: platform.Rect{Width: 50, Height: 50}}
	h.send(EventMapRequest, xproto.MapRequestEvent{Window: 0x200})
	h.send(EventMapRequest, xproto.MapRequestEvent{Window: 0x300})

	for _, msg := range []string{"class action: maximize failed", "class action: snap failed"} {
		if !strings.Contains(h.logs.String(), msg) {
			t.Fatalf("%q not logged:\n%s", msg, h.logs.String())
		}
	}
	if !h.wm.State().IsTracked(0x200) || !h.wm.State().IsTracked(0x300) {
		t.Fatal("windows should stay managed when placement fails")
	}
	if g, _ := h.wm.State().Geometry(0x200); g != (clientstate.Rect{Width: 50, Height: 50}) {
		t.Fatalf("geometry = %+v, want the requested one", g)
	}
	h.assertValid()
}

func TestIconify_OwnUnmapIsNotAWithdrawal(t *testing.T) {
	h := newHarness(t, nil)
	w := h.mapWindow(0x100, platform.Rect{Width: 100, Height: 100})

	h.key(10, config.ActionIconify)
	if h.backend.mapped[0x100] {
		t.Fatal("iconified window should be unmapped")
	}
	if h.backend.focused != 0 || h.backend.active != 0 {
		t.Fatalf("focus should return to the root, got %#x", h.backend.focused)
	}

	// The server reports the unmap we just made.
	h.send(EventUnmapNotify, xproto.UnmapNotifyEvent{Window: 0x100})
	if d := h.desktopOf(w); d != clientstate.DesktopIcons {
		t.Fatalf("desktop = %s, want icons", d)
	}

	h.key(11, config.ActionDeiconifyLast)
	if !h.backend.mapped[0x100] || h.backend.focused != 0x100 {
		t.Fatalf("deiconify: mapped=%v focused=%#x", h.backend.mapped[0x100], h.backend.focused)
	}
	if d := h.desktopOf(w); d != 1 {
		t.Fatalf("desktop = %s, want 1", d)
	}
	h.assertValid()
}

func TestDeiconifyLast_MostRecentFirst(t *testing.T) {
	h := newHarness(t, nil)
	h.mapWindow(0x100, platform.Rect{Width: 100, Height: 100})
	h.key(10, config.ActionIconify)
	h.mapWindow(0x200, platform.Rect{Width: 100, Height: 100})
	h.key(10, config.ActionIconify)

	h.key(11, config.ActionDeiconifyLast)
	if d := h.desktopOf(0x200); d != 1 {
		t.Fatalf("0x200 desktop = %s, want 1", d)
	}
	if d := h.desktopOf(0x100); d != clientstate.DesktopIcons {
		t.Fatalf("0x100 desktop = %s, want icons", d)
	}
}

func TestUnmapNotify_ClientWithdrawsAndReturns(t *testing.T) {
	h := newHarness(t, nil)
	w := h.mapWindow(0x100, platform.Rect{Width: 100, Height: 100})

	h.backend.mapped[0x100] = false
	h.send(EventUnmapNotify, xproto.UnmapNotifyEvent{Window: 0x100})

	if d := h.desktopOf(w); d != clientstate.DesktopInvisible {
		t.Fatalf("desktop = %s, want invisible", d)
	}
	if h.backend.clientStates[0x100] != platform.StateWithdrawn {
		t.Fatalf("client state = %v, want withdrawn", h.backend.clientStates[0x100])
	}
	if _, ok := h.wm.State().Focused(); ok {
		t.Fatal("withdrawn window kept the focus")
	}

	h.send(EventMapRequest, xproto.MapRequestEvent{Window: 0x100})
	if d := h.desktopOf(w); d != 1 {
		t.Fatalf("desktop after remap = %s, want 1", d)
	}
	if !h.backend.mapped[0x100] || h.backend.focused != 0x100 {
		t.Fatalf("remap: mapped=%v focused=%#x", h.backend.mapped[0x100], h.backend.focused)
	}
	h.assertValid()
}

func TestUnmapNotify_WithdrawnClientCannotBeMoved(t *testing.T) {
	h := newHarness(t, nil)
	w := h.mapWindow(0x100, platform.Rect{Width: 100, Height: 100})

	h.backend.mapped[0x100] = false
	h.send(EventUnmapNotify, xproto.UnmapNotifyEvent{Window: 0x100})

	tests := []struct {
		name    string
		cmd     ipc.CommandType
		payload any
	}{
		{name: "send", cmd: ipc.CommandSendToDesktop, payload: ipc.SendToDesktopPayload{Window: 0x100, Desktop: 1}},
		{name: "iconify", cmd: ipc.CommandIconify, payload: ipc.WindowPayload{Window: 0x100}},
	}
	for _, tt := range tests {
		resp := h.call(tt.cmd, tt.payload)
		if resp.Status != ipc.StatusError || !strings.Contains(resp.Error, "not visible") {
			t.Fatalf("%s: response = %+v, want not visible error", tt.name, resp)
		}
	}

	if d := h.desktopOf(w); d != clientstate.DesktopInvisible {
		t.Fatalf("desktop = %s, want invisible", d)
	}
	if h.backend.mapped[0x100] {
		t.Fatal("withdrawn window was mapped")
	}
	if h.backend.clientStates[0x100] != platform.StateWithdrawn {
		t.Fatalf("client state = %v, want withdrawn", h.backend.clientStates[0x100])
	}
	h.assertValid()
}

func TestMapRequest_IconicClientRestoresItself(t *testing.T) {
	h := newHarness(t, nil)
	w := h.mapWindow(0x100, platform.Rect{Width: 100, Height: 100})
	h.key(10, config.ActionIconify)

	if d := h.desktopOf(w); d != clientstate.DesktopIcons {
		t.Fatalf("desktop = %s, want icons", d)
	}

	h.send(EventMapRequest, xproto.MapRequestEvent{Window: 0x100})
	if d := h.desktopOf(w); d != 1 {
		t.Fatalf("desktop after map request = %s, want 1", d)
	}
	if !h.backend.mapped[0x100] || h.backend.focused != 0x100 {
		t.Fatalf("restore: mapped=%v focused=%#x", h.backend.mapped[0x100], h.backend.focused)
	}
	if h.backend.clientStates[0x100] != platform.StateNormal {
		t.Fatalf("client state = %v, want normal", h.backend.clientStates[0x100])
	}
	h.assertValid()
}

func TestDestroyNotify_RemovesClient(t *testing.T) {
	h := newHarness(t, nil)
	h.mapWindow(0x100, platform.Rect{Width: 100, Height: 100})
	h.mapWindow(0x200, platform.Rect{Width: 100, Height: 100})

	delete(h.backend.windows, 0x200)
	h.send(EventDestroyNotify, xproto.DestroyNotifyEvent{Window: 0x200})

	if h.wm.State().IsTracked(0x200) {
		t.Fatal("destroyed window still tracked")
	}
	if !reflect.DeepEqual(h.backend.clientList, []platform.WindowID{0x100}) {
		t.Fatalf("client list = %v", h.backend.clientList)
	}
	if h.backend.focused != 0 {
		t.Fatalf("focus = %#x, want root after the focused window died", h.backend.focused)
	}
	h.assertValid()
}

func TestConfigureRequest(t *testing.T) {
	h := newHarness(t, nil)
	h.mapWindow(0x100, platform.Rect{X: 10, Y: 20, Width: 300, Height: 200})

	h.send(EventConfigureRequest, xproto.ConfigureRequestEvent{
		Window:    0x100,
		ValueMask: xproto.ConfigWindowX | xproto.ConfigWindowWidth,
		X:         50,
		Width:     400,
	})
	want := platform.Rect{X: 50, Y: 20, Width: 400, Height: 200}
	if got := h.backend.geometry[0x100]; got != want {
		t.Fatalf("geometry = %+v, want %+v", got, want)
	}

	h.send(EventConfigureRequest, xproto.ConfigureRequestEvent{
		Window:    0x100,
		ValueMask: xproto.ConfigWindowX,
		X:         50,
	})
	if !reflect.DeepEqual(h.backend.notified, []platform.WindowID{0x100}) {
		t.Fatalf("no-op request should get a synthetic ConfigureNotify, got %v", h.backend.notified)
	}

	h.send(EventConfigureRequest, xproto.ConfigureRequestEvent{Window: 0x999, ValueMask: xproto.ConfigWindowY, Y: 5})
	if !reflect.DeepEqual(h.backend.passedThrough, []platform.WindowID{0x999}) {
		t.Fatalf("untracked request should pass through, got %v", h.backend.passedThrough)
	}
}

func TestGesture_Move(t *testing.T) {
	h := newHarness(t, nil)
	w := h.mapWindow(0x100, platform.Rect{X: 10, Y: 20, Width: 300, Height: 200})

	h.send(EventButtonPress, xproto.ButtonPressEvent{Detail: 1, Event: 1, Child: 0x100, RootX: 100, RootY: 100})
	if d := h.desktopOf(w); d != clientstate.DesktopMoving {
		t.Fatalf("desktop = %s, want moving", d)
	}
	if !h.backend.placeholderShown || h.backend.mapped[0x100] {
		t.Fatalf("placeholder=%v mapped=%v", h.backend.placeholderShown, h.backend.mapped[0x100])
	}
	if g, _ := h.wm.State().Gesture(); g != clientstate.GestureMove {
		t.Fatalf("gesture = %s", g)
	}

	// Configure requests during the gesture are answered, not applied.
	h.send(EventConfigureRequest, xproto.ConfigureRequestEvent{Window: 0x100, ValueMask: xproto.ConfigWindowX, X: 500})
	if len(h.backend.notified) != 1 {
		t.Fatalf("notified = %v", h.backend.notified)
	}

	h.send(EventMotionNotify, xproto.MotionNotifyEvent{RootX: 150, RootY: 130})
	want := platform.Rect{X: 60, Y: 50, Width: 300, Height: 200}
	if h.backend.placeholder != want {
		t.Fatalf("placeholder = %+v, want %+v", h.backend.placeholder, want)
	}

	h.send(EventButtonRelease, xproto.ButtonReleaseEvent{Detail: 1, RootX: 150, RootY: 130})
	if h.backend.placeholderShown {
		t.Fatal("placeholder still shown")
	}
	if d := h.desktopOf(w); d != 1 {
		t.Fatalf("desktop = %s, want 1", d)
	}
	if got := h.backend.geometry[0x100]; got != want {
		t.Fatalf("geometry = %+v, want %+v", got, want)
	}
	if !h.backend.mapped[0x100] || h.backend.focused != 0x100 {
		t.Fatalf("after move: mapped=%v focused=%#x", h.backend.mapped[0x100], h.backend.focused)
	}

	// The unmap made while hiding the window must not withdraw it.
	h.send(EventUnmapNotify, xproto.UnmapNotifyEvent{Window: 0x100})
	if d := h.desktopOf(w); d != 1 {
		t.Fatalf("desktop = %s after stale unmap", d)
	}
	h.assertValid()
}

func TestGesture_ResizeClampsToOnePixel(t *testing.T) {
	h := newHarness(t, nil)
	h.mapWindow(0x100, platform.Rect{X: 10, Y: 20, Width: 300, Height: 200})

	h.send(EventButtonPress, xproto.ButtonPressEvent{Detail: 3, Event: 1, Child: 0x100, RootX: 100, RootY: 100})
	h.send(EventMotionNotify, xproto.MotionNotifyEvent{RootX: 150, RootY: -400})
	h.send(EventButtonRelease, xproto.ButtonReleaseEvent{Detail: 3})

	want := platform.Rect{X: 10, Y: 20, Width: 350, Height: 1}
	if got := h.backend.geometry[0x100]; got != want {
		t.Fatalf("geometry = %+v, want %+v", got, want)
	}
}

func TestGesture_DestroyedMidMove(t *testing.T) {
	h := newHarness(t, nil)
	h.mapWindow(0x100, platform.Rect{Width: 100, Height: 100})
	h.send(EventButtonPress, xproto.ButtonPressEvent{Detail: 1, Event: 1, Child: 0x100})

	h.send(EventDestroyNotify, xproto.DestroyNotifyEvent{Window: 0x100})
	if h.backend.placeholderShown {
		t.Fatal("placeholder left on screen")
	}
	if g, _ := h.wm.State().Gesture(); g != clientstate.GestureNone {
		t.Fatalf("gesture = %s, want none", g)
	}
	h.send(EventButtonRelease, xproto.ButtonReleaseEvent{Detail: 1})
	h.assertValid()
}

func TestButtonPress_ClickToFocus(t *testing.T) {
	h := newHarness(t, nil)
	h.mapWindow(0x100, platform.Rect{Width: 100, Height: 100})
	h.mapWindow(0x200, platform.Rect{Width: 100, Height: 100})

	h.send(EventButtonPress, xproto.ButtonPressEvent{Detail: 1, Event: 0x100})
	if h.backend.focused != 0x100 {
		t.Fatalf("focused = %#x, want 0x100", h.backend.focused)
	}
	if h.backend.replays != 1 {
		t.Fatalf("replays = %d, want 1", h.backend.replays)
	}
}

func TestHotkeys_LayersAndStacking(t *testing.T) {
	h := newHarness(t, nil)
	h.mapWindow(0x100, platform.Rect{Width: 100, Height: 100})
	h.mapWindow(0x200, platform.Rect{Width: 100, Height: 100})

	// 0x200 is focused; push it below 0x100.
	h.key(20, config.ActionLowerLayer)
	if !reflect.DeepEqual(h.backend.stack, []platform.WindowID{0x200, 0x100}) {
		t.Fatalf("stack = %v", h.backend.stack)
	}
	h.key(21, config.LayerAction(9))
	if l, _ := h.wm.State().FindLayer(0x200); l != 9 {
		t.Fatalf("layer = %d, want 9", l)
	}
	if !reflect.DeepEqual(h.backend.stack, []platform.WindowID{0x100, 0x200}) {
		t.Fatalf("stack = %v", h.backend.stack)
	}
}

func TestHotkeys_Desktops(t *testing.T) {
	h := newHarness(t, nil)
	w := h.mapWindow(0x100, platform.Rect{Width: 100, Height: 100})

	h.key(30, config.ActionClientNextDesktop)
	if d := h.desktopOf(w); d != 2 {
		t.Fatalf("desktop = %s, want 2", d)
	}
	if h.backend.mapped[0x100] || h.backend.desktopHints[0x100] != 2 {
		t.Fatalf("mapped=%v hint=%d", h.backend.mapped[0x100], h.backend.desktopHints[0x100])
	}

	h.key(31, config.ActionNextDesktop)
	if h.backend.currentDesktop != 2 || !h.backend.mapped[0x100] {
		t.Fatalf("current=%d mapped=%v", h.backend.currentDesktop, h.backend.mapped[0x100])
	}

	h.key(32, config.ActionPrevDesktop)
	h.key(32, config.ActionPrevDesktop)
	if got := h.wm.State().CurrentDesktop(); got != 5 {
		t.Fatalf("current desktop = %d, want wrap to 5", got)
	}
}

func TestHotkeys_NoFocusIsNoop(t *testing.T) {
	h := newHarness(t, nil)
	h.key(40, config.ActionClose)
	h.key(41, config.ActionMaximize)
	if len(h.backend.closed) != 0 {
		t.Fatalf("closed = %v", h.backend.closed)
	}
}

func TestHotkeys_CloseAndQuit(t *testing.T) {
	h := newHarness(t, nil)
	h.mapWindow(0x100, platform.Rect{Width: 100, Height: 100})

	h.key(40, config.ActionClose)
	if !reflect.DeepEqual(h.backend.closed, []platform.WindowID{0x100}) {
		t.Fatalf("closed = %v", h.backend.closed)
	}
	// Closing only asks; the window stays until it is destroyed.
	if !h.wm.State().IsTracked(0x100) {
		t.Fatal("close must not drop the client")
	}

	h.key(42, config.ActionQuit)
	if !h.wm.Dispatcher().Terminated() {
		t.Fatal("quit did not terminate the dispatcher")
	}
}

func TestHotkeys_Tile(t *testing.T) {
	h := newHarness(t, nil)
	for _, id := range []platform.WindowID{0x100, 0x200, 0x300, 0x400} {
		h.mapWindow(id, platform.Rect{Width: 10, Height: 10})
	}

	h.key(50, config.ActionTile)
	want := map[platform.WindowID]platform.Rect{
		0x100: {X: 0, Y: 0, Width: 500, Height: 400},
		0x200: {X: 500, Y: 0, Width: 500, Height: 400},
		0x300: {X: 0, Y: 400, Width: 500, Height: 400},
		0x400: {X: 500, Y: 400, Width: 500, Height: 400},
	}
	for id, r := range want {
		if got := h.backend.geometry[id]; got != r {
			t.Fatalf("window %#x geometry = %+v, want %+v", id, got, r)
		}
	}
}

func TestMappingNotify_Remaps(t *testing.T) {
	h := newHarness(t, nil)
	h.send(EventMappingNotify, xproto.MappingNotifyEvent{Request: xproto.MappingKeyboard})
	if h.keys.remaps != 1 {
		t.Fatalf("remaps = %d", h.keys.remaps)
	}
}

func TestReconcile_DropsVanishedClients(t *testing.T) {
	h := newHarness(t, nil)
	h.mapWindow(0x100, platform.Rect{Width: 100, Height: 100})
	h.mapWindow(0x200, platform.Rect{Width: 100, Height: 100})

	delete(h.backend.windows, 0x200)
	h.send(EventReconcile, nil)

	if h.wm.State().IsTracked(0x200) {
		t.Fatal("vanished window still tracked")
	}
	if !h.wm.State().IsTracked(0x100) {
		t.Fatal("live window dropped")
	}
	if !reflect.DeepEqual(h.backend.clientList, []platform.WindowID{0x100}) {
		t.Fatalf("client list = %v", h.backend.clientList)
	}
}

func TestRun_AdoptsExistingWindows(t *testing.T) {
	h := newHarness(t, nil)
	h.backend.windows[0x100] = platform.WindowInfo{Normal: true, Viewable: true, Geometry: platform.Rect{Width: 10, Height: 10}}
	h.backend.windows[0x200] = platform.WindowInfo{Normal: true, OverrideRedirect: true, Viewable: true}
	h.backend.windows[0x300] = platform.WindowInfo{Normal: true}
	h.backend.order = []platform.WindowID{0x100, 0x200, 0x300}

	err := h.wm.Run(context.Background())
	if !errors.Is(err, errDrained) {
		t.Fatalf("Run = %v, want errDrained", err)
	}

	if !h.wm.State().IsTracked(0x100) {
		t.Fatal("viewable window not adopted")
	}
	if h.wm.State().IsTracked(0x200) || h.wm.State().IsTracked(0x300) {
		t.Fatal("override-redirect or unmapped window adopted")
	}
	if h.backend.mapped[0x100] {
		t.Fatal("already-mapped window should not be mapped again")
	}
	if h.backend.currentDesktop != 1 {
		t.Fatalf("current desktop hint = %d", h.backend.currentDesktop)
	}
}
