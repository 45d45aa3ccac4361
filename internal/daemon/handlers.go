package daemon

import (
	"errors"
	"fmt"

	"github.com/1broseidon/layerwm/internal/clientstate"
	"github.com/1broseidon/layerwm/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
)

const (
	buttonMove   xproto.Button = 1
	buttonResize xproto.Button = 3
)

func (wm *WM) onMapRequest(ev Event) error {
	e, ok := ev.X.(xproto.MapRequestEvent)
	if !ok {
		return nil
	}
	w := clientstate.Window(e.Window)

	if wm.state.IsTracked(w) {
		d, err := wm.state.FindDesktop(w)
		if err != nil {
			return err
		}
		if d == clientstate.DesktopIcons {
			// The client restoring itself from the iconic state.
			return wm.state.Deiconify(w)
		}
		// A withdrawn client coming back.
		if err := wm.state.Unhide(w); err != nil {
			return err
		}
		if wm.state.IsVisible(w) {
			return wm.state.Focus(w)
		}
		return nil
	}

	info, err := wm.backend.WindowInfo(platform.WindowID(w))
	if err != nil {
		// Let the client have its window even if we cannot inspect it.
		wm.backend.Map(platform.WindowID(w))
		return fmt.Errorf("failed to read window %d: %w", w, err)
	}
	wm.manage(w, info)
	return nil
}

func (wm *WM) onConfigureRequest(ev Event) error {
	e, ok := ev.X.(xproto.ConfigureRequestEvent)
	if !ok {
		return nil
	}
	req := platform.ConfigureRequestFromEvent(e)
	w := clientstate.Window(req.Window)

	if !wm.state.IsTracked(w) {
		wm.backend.ConfigureUnmanaged(req)
		return nil
	}

	geom, err := wm.state.Geometry(w)
	if err != nil {
		return err
	}
	if g, gw := wm.state.Gesture(); g != clientstate.GestureNone && gw == w {
		// The pointer owns the geometry until the gesture ends.
		wm.backend.SendConfigureNotify(req.Window, platform.Rect(geom))
		return nil
	}

	next := geom
	if req.HasX {
		next.X = req.X
	}
	if req.HasY {
		next.Y = req.Y
	}
	if req.HasWidth {
		next.Width = req.Width
	}
	if req.HasHeight {
		next.Height = req.Height
	}
	if next == geom {
		// Nothing moves, but ICCCM still wants a reply.
		wm.backend.SendConfigureNotify(req.Window, platform.Rect(geom))
		return nil
	}
	if err := wm.state.MoveClient(w, next.X, next.Y); err != nil {
		return err
	}
	return wm.state.ResizeClient(w, next.Width, next.Height)
}

func (wm *WM) onUnmapNotify(ev Event) error {
	e, ok := ev.X.(xproto.UnmapNotifyEvent)
	if !ok {
		return nil
	}
	w := clientstate.Window(e.Window)
	if !wm.state.IsTracked(w) || !wm.applier.clientUnmapped(w) {
		return nil
	}

	if g, gw := wm.state.Gesture(); g != clientstate.GestureNone && gw == w {
		wm.finishDrag()
	}
	wm.logger.Debug("client withdrew", "window", w)
	return wm.state.Hide(w)
}

func (wm *WM) onDestroyNotify(ev Event) error {
	e, ok := ev.X.(xproto.DestroyNotifyEvent)
	if !ok {
		return nil
	}
	w := clientstate.Window(e.Window)
	if !wm.state.IsTracked(w) {
		return nil
	}
	wm.logger.Debug("client destroyed", "window", w)
	wm.removeClient(w)
	return nil
}

func (wm *WM) onKeyPress(ev Event) error {
	e, ok := ev.X.(xproto.KeyPressEvent)
	if !ok || wm.hotkeys == nil {
		return nil
	}
	action, ok := wm.hotkeys.Lookup(e)
	if !ok {
		return nil
	}
	wm.logger.Debug("hotkey", "action", action)
	return wm.runAction(action)
}

func (wm *WM) onButtonPress(ev Event) error {
	e, ok := ev.X.(xproto.ButtonPressEvent)
	if !ok {
		return nil
	}

	// Click-to-focus grabs report the client itself as the event window.
	if clicked := clientstate.Window(e.Event); wm.state.IsTracked(clicked) {
		defer wm.backend.ReplayPointer()
		if !wm.state.IsVisible(clicked) {
			return nil
		}
		return wm.state.Focus(clicked)
	}

	// Move/resize grabs live on the root; the client is the child.
	w := clientstate.Window(e.Child)
	if e.Child == 0 || !wm.state.IsTracked(w) || wm.drag != nil {
		return nil
	}
	var (
		gesture clientstate.Gesture
		err     error
	)
	switch e.Detail {
	case buttonMove:
		gesture, err = clientstate.GestureMove, wm.state.BeginMove(w)
	case buttonResize:
		gesture, err = clientstate.GestureResize, wm.state.BeginResize(w)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	geom, err := wm.state.Geometry(w)
	if err != nil {
		return err
	}
	wm.drag = &drag{
		window:  w,
		gesture: gesture,
		startX:  int(e.RootX),
		startY:  int(e.RootY),
		origin:  platform.Rect(geom),
		current: platform.Rect(geom),
	}
	if err := wm.backend.ShowPlaceholder(wm.drag.current); err != nil {
		wm.logger.Warn("failed to show placeholder", "error", err)
	}
	wm.logger.Debug("gesture started", "window", w, "gesture", gesture)
	return nil
}

func (wm *WM) onMotionNotify(ev Event) error {
	e, ok := ev.X.(xproto.MotionNotifyEvent)
	if !ok || wm.drag == nil {
		return nil
	}
	d := wm.drag
	d.current = dragRect(d, int(e.RootX), int(e.RootY))
	wm.backend.MovePlaceholder(d.current)
	return nil
}

func (wm *WM) onButtonRelease(ev Event) error {
	if _, ok := ev.X.(xproto.ButtonReleaseEvent); !ok || wm.drag == nil {
		return nil
	}
	return wm.finishDrag()
}

// finishDrag ends the running gesture at the placeholder's geometry.
func (wm *WM) finishDrag() error {
	d := wm.drag
	wm.drag = nil
	wm.backend.HidePlaceholder()
	if d == nil {
		return nil
	}
	err := wm.state.EndMoveResize(clientstate.Rect(d.current))
	if errors.Is(err, clientstate.ErrNoGesture) {
		return nil
	}
	wm.logger.Debug("gesture finished", "window", d.window, "gesture", d.gesture)
	return err
}

// dragRect applies the pointer offset since the press to the origin: a move
// translates it, a resize grows the bottom right corner.
func dragRect(d *drag, x, y int) platform.Rect {
	dx, dy := x-d.startX, y-d.startY
	r := d.origin
	if d.gesture == clientstate.GestureMove {
		r.X += dx
		r.Y += dy
		return r
	}
	r.Width = max(r.Width+dx, 1)
	r.Height = max(r.Height+dy, 1)
	return r
}

func (wm *WM) onMappingNotify(ev Event) error {
	e, ok := ev.X.(xproto.MappingNotifyEvent)
	if !ok || wm.hotkeys == nil {
		return nil
	}
	wm.hotkeys.Remap(e)
	return nil
}

func (wm *WM) onCommand(ev Event) error {
	if ev.Call == nil {
		return nil
	}
	ev.Call.Reply(wm.handleCommand(ev.Call.Request))
	return nil
}

func (wm *WM) onReconcile(Event) error {
	wm.reconciler.ReconcileNow()
	return nil
}
