package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Manage prepares a client window. Unmap and destroy notifications already
// arrive through the root window; a click anywhere in an unfocused client
// should focus it.
func (c *Connection) Manage(windowID xproto.Window, borderWidth int) error {
	conn := c.XUtil.Conn()
	err := xproto.ChangeWindowAttributesChecked(conn, windowID, xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange}).Check()
	if err != nil {
		return fmt.Errorf("failed to select events on %d: %w", windowID, err)
	}
	xproto.ConfigureWindow(conn, windowID, xproto.ConfigWindowBorderWidth, []uint32{uint32(borderWidth)})
	return c.grabClick(windowID)
}

// grabClick installs a synchronous grab on any button so that the first
// click on an unfocused window reaches us; ReplayPointer passes it on.
func (c *Connection) grabClick(windowID xproto.Window) error {
	return xproto.GrabButtonChecked(c.XUtil.Conn(), false, windowID,
		xproto.EventMaskButtonPress,
		xproto.GrabModeSync, xproto.GrabModeAsync,
		0, 0, xproto.ButtonIndexAny, xproto.ModMaskAny).Check()
}

// GrabMoveButtons grabs mods+button1 (move) and mods+button3 (resize) on the
// root window, so the grab takes priority over the per-client click grabs.
func (c *Connection) GrabMoveButtons(modifier string) error {
	for _, button := range []string{"1", "3"} {
		mods, btn, err := mousebind.ParseString(c.XUtil, modifier+"-"+button)
		if err != nil {
			return fmt.Errorf("invalid move modifier %q: %w", modifier, err)
		}
		if err := mousebind.GrabChecked(c.XUtil, c.Root, mods, btn, false); err != nil {
			return fmt.Errorf("failed to grab %s-%s: %w", modifier, button, err)
		}
	}
	return nil
}

// ReplayPointer releases a frozen click-to-focus press to the client.
func (c *Connection) ReplayPointer() {
	xevent.ReplayPointer(c.XUtil)
}

// Map maps a window.
func (c *Connection) Map(windowID xproto.Window) {
	xwindow.New(c.XUtil, windowID).Map()
}

// Unmap unmaps a window.
func (c *Connection) Unmap(windowID xproto.Window) {
	xwindow.New(c.XUtil, windowID).Unmap()
}

// Restack stacks windows so that order[0] is lowest and the last entry is on
// top.
func (c *Connection) Restack(order []xproto.Window) {
	for _, windowID := range order {
		xwindow.New(c.XUtil, windowID).Stack(xproto.StackModeAbove)
	}
	if c.placeholder != nil {
		c.placeholder.Stack(xproto.StackModeAbove)
	}
}

// Focus gives a window the input focus and drops its click-to-focus grab.
func (c *Connection) Focus(windowID xproto.Window) error {
	conn := c.XUtil.Conn()
	err := xproto.SetInputFocusChecked(conn, xproto.InputFocusPointerRoot, windowID, xproto.TimeCurrentTime).Check()
	if err != nil {
		return fmt.Errorf("failed to focus %d: %w", windowID, err)
	}
	xproto.UngrabButton(conn, xproto.ButtonIndexAny, windowID, xproto.ModMaskAny)
	return nil
}

// Unfocus restores the click-to-focus grab on a window that lost focus.
func (c *Connection) Unfocus(windowID xproto.Window) error {
	return c.grabClick(windowID)
}

// FocusRoot moves the input focus to the root window.
func (c *Connection) FocusRoot() {
	xproto.SetInputFocus(c.XUtil.Conn(), xproto.InputFocusPointerRoot, c.Root, xproto.TimeCurrentTime)
}

// SetBorderColor sets the border pixel of a window.
func (c *Connection) SetBorderColor(windowID xproto.Window, pixel uint32) {
	xwindow.New(c.XUtil, windowID).Change(xproto.CwBorderPixel, pixel)
}

// MoveResize moves and resizes a window to the given geometry.
func (c *Connection) MoveResize(windowID xproto.Window, r Rect) {
	xwindow.New(c.XUtil, windowID).MoveResize(r.X, r.Y, max(r.Width, 1), max(r.Height, 1))
}

// ConfigureUnmanaged honours a ConfigureRequest verbatim. Used for windows we
// do not manage.
func (c *Connection) ConfigureUnmanaged(ev xproto.ConfigureRequestEvent) {
	xwindow.New(c.XUtil, ev.Window).Configure(int(ev.ValueMask),
		int(ev.X), int(ev.Y), int(ev.Width), int(ev.Height),
		ev.Sibling, ev.StackMode)
}

// SendConfigureNotify tells a managed client its geometry without changing
// it, as ICCCM requires when a ConfigureRequest is refused.
func (c *Connection) SendConfigureNotify(windowID xproto.Window, r Rect, borderWidth int) {
	ev := xproto.ConfigureNotifyEvent{
		Event:            windowID,
		Window:           windowID,
		AboveSibling:     0,
		X:                int16(r.X),
		Y:                int16(r.Y),
		Width:            uint16(r.Width),
		Height:           uint16(r.Height),
		BorderWidth:      uint16(borderWidth),
		OverrideRedirect: false,
	}
	xproto.SendEvent(c.XUtil.Conn(), false, windowID, xproto.EventMaskStructureNotify, string(ev.Bytes()))
}

// CloseWindow asks a client to close via WM_DELETE_WINDOW when it supports that
// protocol, and kills its connection otherwise.
func (c *Connection) CloseWindow(windowID xproto.Window) error {
	protocols, _ := icccm.WmProtocolsGet(c.XUtil, windowID)
	if !hasProtocol(protocols, "WM_DELETE_WINDOW") {
		return xproto.KillClientChecked(c.XUtil.Conn(), uint32(windowID)).Check()
	}

	conn := c.XUtil.Conn()
	deleteReply, err := xproto.InternAtom(conn, false, uint16(len("WM_DELETE_WINDOW")), "WM_DELETE_WINDOW").Reply()
	if err != nil {
		return err
	}
	protocolsReply, err := xproto.InternAtom(conn, false, uint16(len("WM_PROTOCOLS")), "WM_PROTOCOLS").Reply()
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   protocolsReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteReply.Atom), uint32(xproto.TimeCurrentTime), 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		conn,
		false,
		windowID,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

func hasProtocol(protocols []string, name string) bool {
	for _, p := range protocols {
		if p == name {
			return true
		}
	}
	return false
}

// SetWMState writes the ICCCM WM_STATE property (icccm.StateNormal,
// StateIconic or StateWithdrawn).
func (c *Connection) SetWMState(windowID xproto.Window, state uint) error {
	return icccm.WmStateSet(c.XUtil, windowID, &icccm.WmState{State: state})
}

// Exists reports whether the window is still alive on the server.
func (c *Connection) Exists(windowID xproto.Window) bool {
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	return err == nil
}

// TopLevelWindows lists the children of the root window, bottom to top.
func (c *Connection) TopLevelWindows() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query window tree: %w", err)
	}
	return tree.Children, nil
}

// Pointer returns the pointer position in root coordinates.
func (c *Connection) Pointer() (int, int, error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.RootX), int(reply.RootY), nil
}
