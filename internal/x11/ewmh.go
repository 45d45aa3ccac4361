package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// StickyDesktop is the _NET_WM_DESKTOP value for windows shown on every
// desktop.
const StickyDesktop = 0xFFFFFFFF

var supportedAtoms = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_CURRENT_DESKTOP",
	"_NET_ACTIVE_WINDOW",
	"_NET_CLIENT_LIST",
	"_NET_WM_DESKTOP",
}

// AnnounceWM publishes the EWMH supporting window and the desktop count so
// that pagers and panels can find us.
func (c *Connection) AnnounceWM(name string, desktops int) error {
	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return fmt.Errorf("failed to allocate check window: %w", err)
	}
	if err := win.CreateChecked(c.Root, -1, -1, 1, 1, xproto.CwOverrideRedirect, 1); err != nil {
		return fmt.Errorf("failed to create check window: %w", err)
	}
	c.checkWin = win

	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.Root, win.Id); err != nil {
		return err
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, win.Id, win.Id); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(c.XUtil, win.Id, name); err != nil {
		return err
	}
	if err := ewmh.SupportedSet(c.XUtil, supportedAtoms); err != nil {
		return err
	}
	return ewmh.NumberOfDesktopsSet(c.XUtil, uint(desktops))
}

// SetCurrentDesktop publishes the current desktop. desktop is 1-based;
// _NET_CURRENT_DESKTOP is 0-based.
func (c *Connection) SetCurrentDesktop(desktop int) error {
	if desktop < 1 {
		return fmt.Errorf("invalid desktop %d", desktop)
	}
	return ewmh.CurrentDesktopSet(c.XUtil, uint(desktop-1))
}

// SetWindowDesktop publishes the desktop of a window. desktop is 1-based, or
// -1 for a sticky window.
func (c *Connection) SetWindowDesktop(windowID xproto.Window, desktop int) error {
	value := uint(StickyDesktop)
	if desktop >= 1 {
		value = uint(desktop - 1)
	}
	return ewmh.WmDesktopSet(c.XUtil, windowID, value)
}

// SetActiveWindow publishes the focused window; 0 means none.
func (c *Connection) SetActiveWindow(windowID xproto.Window) error {
	return ewmh.ActiveWindowSet(c.XUtil, windowID)
}

// SetClientList publishes the managed windows.
func (c *Connection) SetClientList(windows []xproto.Window) error {
	return ewmh.ClientListSet(c.XUtil, windows)
}

// WindowTitle returns the EWMH title, falling back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil && title != "" {
		return title
	}
	if title, err := icccmName(c, windowID); err == nil {
		return title
	}
	return ""
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}
	return isNormalWindowType(types)
}

func isNormalWindowType(types []string) bool {
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG", "_NET_WM_WINDOW_TYPE_UTILITY":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	// If no specific type is set, assume it's normal
	return true
}
