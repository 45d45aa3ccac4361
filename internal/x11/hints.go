package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"
)

// Rect is a window geometry in root coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// WindowInfo is what a window manager needs to know about a top-level window
// when deciding whether and how to manage it.
type WindowInfo struct {
	// OverrideRedirect windows (menus, tooltips) are never managed.
	OverrideRedirect bool
	// Viewable is true when the window is currently mapped.
	Viewable bool
	// Normal is false for docks, desktops, splash screens and notifications.
	Normal bool

	// StateHint is set when WM_HINTS carries an initial state.
	StateHint bool
	Iconic    bool
	Transient bool
	Class     string
	Geometry  Rect
}

// ReadWindowInfo collects the attributes, ICCCM hints and geometry of a
// window. Missing properties are not errors; a window that no longer exists
// is.
func (c *Connection) ReadWindowInfo(windowID xproto.Window) (WindowInfo, error) {
	conn := c.XUtil.Conn()
	attrs, err := xproto.GetWindowAttributes(conn, windowID).Reply()
	if err != nil {
		return WindowInfo{}, fmt.Errorf("failed to read attributes of %d: %w", windowID, err)
	}
	geom, err := xproto.GetGeometry(conn, xproto.Drawable(windowID)).Reply()
	if err != nil {
		return WindowInfo{}, fmt.Errorf("failed to read geometry of %d: %w", windowID, err)
	}

	info := WindowInfo{
		OverrideRedirect: attrs.OverrideRedirect,
		Viewable:         attrs.MapState == xproto.MapStateViewable,
		Normal:           c.IsNormalWindow(windowID),
		Geometry: Rect{
			X:      int(geom.X),
			Y:      int(geom.Y),
			Width:  int(geom.Width),
			Height: int(geom.Height),
		},
	}

	if hints, err := icccm.WmHintsGet(c.XUtil, windowID); err == nil {
		info.StateHint, info.Iconic = initialState(hints)
	}
	if parent, err := icccm.WmTransientForGet(c.XUtil, windowID); err == nil && parent != 0 {
		info.Transient = true
	}
	if class, err := icccm.WmClassGet(c.XUtil, windowID); err == nil {
		info.Class = strings.TrimSpace(class.Class)
	}
	return info, nil
}

// initialState reports whether the hints carry a state and, if so, whether
// that state is iconic.
func initialState(hints *icccm.Hints) (stateHint, iconic bool) {
	if hints == nil || hints.Flags&icccm.HintState == 0 {
		return false, false
	}
	return true, hints.InitialState == icccm.StateIconic
}

func icccmName(c *Connection, windowID xproto.Window) (string, error) {
	name, err := icccm.WmNameGet(c.XUtil, windowID)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}
