package x11

import (
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ErrAnotherWM is returned by BecomeWM when substructure redirection on the
// root window is already owned by another client.
var ErrAnotherWM = errors.New("another window manager is already running")

// ProtocolError wraps an asynchronous X error delivered on the event stream.
// These are reported for requests that failed after the fact (usually a
// window that vanished) and are not fatal.
type ProtocolError struct {
	Err xgb.Error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("x11 protocol error: %s", e.Err.Error())
}

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	placeholder *xwindow.Window
	checkWin    *xwindow.Window
}

// NewConnection connects to display, or $DISPLAY when display is empty.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	// Key bindings need the keyboard and modifier maps loaded.
	keybind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// BecomeWM selects substructure redirection on the root window. Only one
// client may hold it, so failure means another window manager is running.
func (c *Connection) BecomeWM() error {
	mask := uint32(xproto.EventMaskSubstructureRedirect |
		xproto.EventMaskSubstructureNotify |
		xproto.EventMaskPropertyChange)
	err := xproto.ChangeWindowAttributesChecked(
		c.XUtil.Conn(),
		c.Root,
		xproto.CwEventMask,
		[]uint32{mask},
	).Check()
	if err != nil {
		if _, ok := err.(xproto.AccessError); ok {
			return ErrAnotherWM
		}
		return fmt.Errorf("failed to select root events: %w", err)
	}
	return nil
}

// WaitForEvent blocks for the next X event. Asynchronous request errors are
// returned as *ProtocolError; io.EOF means the connection is gone.
func (c *Connection) WaitForEvent() (xgb.Event, error) {
	ev, xerr := c.XUtil.Conn().WaitForEvent()
	if ev == nil && xerr == nil {
		return nil, io.EOF
	}
	if xerr != nil {
		return nil, &ProtocolError{Err: xerr}
	}
	return ev, nil
}

// Sync waits for a round trip so that every request issued so far has been
// processed by the server.
func (c *Connection) Sync() {
	xproto.GetInputFocus(c.XUtil.Conn()).Reply()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	if c.placeholder != nil {
		c.placeholder.Destroy()
	}
	if c.checkWin != nil {
		c.checkWin.Destroy()
	}
	c.XUtil.Conn().Close()
}
