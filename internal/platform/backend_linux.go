//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/1broseidon/layerwm/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/icccm"
)

// LinuxOptions configures the X11 backend.
type LinuxOptions struct {
	BorderWidth      int
	PlaceholderPixel uint32
}

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
	opts LinuxOptions
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, opts LinuxOptions) *LinuxBackend {
	return &LinuxBackend{conn: conn, opts: opts}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh
// X11 connection to display ($DISPLAY when empty).
func NewLinuxBackendFromDisplay(display string, opts LinuxOptions) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn, opts: opts}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// BecomeWM claims the window manager role on the display.
func (b *LinuxBackend) BecomeWM(name string, desktops int, moveModifier string) error {
	if err := b.conn.BecomeWM(); err != nil {
		return err
	}
	if err := b.conn.AnnounceWM(name, desktops); err != nil {
		return fmt.Errorf("failed to publish EWMH hints: %w", err)
	}
	return b.conn.GrabMoveButtons(moveModifier)
}

// WaitForEvent blocks for the next X event.
func (b *LinuxBackend) WaitForEvent() (xgb.Event, error) {
	return b.conn.WaitForEvent()
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})
	return displays, nil
}

func (b *LinuxBackend) WindowInfo(windowID WindowID) (WindowInfo, error) {
	info, err := b.conn.ReadWindowInfo(xproto.Window(windowID))
	if err != nil {
		return WindowInfo{}, err
	}
	return WindowInfo{
		OverrideRedirect: info.OverrideRedirect,
		Viewable:         info.Viewable,
		Normal:           info.Normal,
		StateHint:        info.StateHint,
		Iconic:           info.Iconic,
		Transient:        info.Transient,
		Class:            info.Class,
		Geometry:         rectFromX11(info.Geometry),
	}, nil
}

func (b *LinuxBackend) WindowTitle(windowID WindowID) string {
	return b.conn.WindowTitle(xproto.Window(windowID))
}

func (b *LinuxBackend) TopLevelWindows() ([]WindowID, error) {
	children, err := b.conn.TopLevelWindows()
	if err != nil {
		return nil, err
	}
	out := make([]WindowID, len(children))
	for i, w := range children {
		out[i] = WindowID(w)
	}
	return out, nil
}

func (b *LinuxBackend) Exists(windowID WindowID) bool {
	return b.conn.Exists(xproto.Window(windowID))
}

func (b *LinuxBackend) Pointer() (int, int, error) {
	return b.conn.Pointer()
}

func (b *LinuxBackend) Manage(windowID WindowID) error {
	return b.conn.Manage(xproto.Window(windowID), b.opts.BorderWidth)
}

func (b *LinuxBackend) Map(windowID WindowID) {
	b.conn.Map(xproto.Window(windowID))
}

func (b *LinuxBackend) Unmap(windowID WindowID) {
	b.conn.Unmap(xproto.Window(windowID))
}

func (b *LinuxBackend) Restack(bottomToTop []WindowID) {
	order := make([]xproto.Window, len(bottomToTop))
	for i, w := range bottomToTop {
		order[i] = xproto.Window(w)
	}
	b.conn.Restack(order)
}

func (b *LinuxBackend) Focus(windowID WindowID) error {
	return b.conn.Focus(xproto.Window(windowID))
}

func (b *LinuxBackend) Unfocus(windowID WindowID) error {
	return b.conn.Unfocus(xproto.Window(windowID))
}

func (b *LinuxBackend) FocusRoot() {
	b.conn.FocusRoot()
}

func (b *LinuxBackend) SetBorderColor(windowID WindowID, pixel uint32) {
	b.conn.SetBorderColor(xproto.Window(windowID), pixel)
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) {
	b.conn.MoveResize(xproto.Window(windowID), rectToX11(bounds))
}

// ConfigureUnmanaged passes a request from a window we do not manage
// straight to the server.
func (b *LinuxBackend) ConfigureUnmanaged(req ConfigureRequest) {
	if ev, ok := req.Raw.(xproto.ConfigureRequestEvent); ok {
		b.conn.ConfigureUnmanaged(ev)
	}
}

func (b *LinuxBackend) SendConfigureNotify(windowID WindowID, bounds Rect) {
	b.conn.SendConfigureNotify(xproto.Window(windowID), rectToX11(bounds), b.opts.BorderWidth)
}

func (b *LinuxBackend) ReplayPointer() {
	b.conn.ReplayPointer()
}

// Close requests graceful window close via WM_DELETE_WINDOW.
func (b *LinuxBackend) Close(windowID WindowID) error {
	return b.conn.CloseWindow(xproto.Window(windowID))
}

func (b *LinuxBackend) SetClientState(windowID WindowID, state ClientState) error {
	var wmState uint
	switch state {
	case StateNormal:
		wmState = icccm.StateNormal
	case StateIconic:
		wmState = icccm.StateIconic
	default:
		wmState = icccm.StateWithdrawn
	}
	return b.conn.SetWMState(xproto.Window(windowID), wmState)
}

func (b *LinuxBackend) SetCurrentDesktop(desktop int) error {
	return b.conn.SetCurrentDesktop(desktop)
}

func (b *LinuxBackend) SetWindowDesktop(windowID WindowID, desktop int) error {
	return b.conn.SetWindowDesktop(xproto.Window(windowID), desktop)
}

func (b *LinuxBackend) SetActiveWindow(windowID WindowID) error {
	return b.conn.SetActiveWindow(xproto.Window(windowID))
}

func (b *LinuxBackend) SetClientList(windows []WindowID) error {
	list := make([]xproto.Window, len(windows))
	for i, w := range windows {
		list[i] = xproto.Window(w)
	}
	return b.conn.SetClientList(list)
}

func (b *LinuxBackend) ShowPlaceholder(bounds Rect) error {
	return b.conn.ShowPlaceholder(rectToX11(bounds), b.opts.PlaceholderPixel)
}

func (b *LinuxBackend) MovePlaceholder(bounds Rect) {
	b.conn.MovePlaceholder(rectToX11(bounds))
}

func (b *LinuxBackend) HidePlaceholder() {
	b.conn.HidePlaceholder()
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: rectFromX11(m.Bounds),
		Usable: rectFromX11(m.Usable),
	}
}

func rectFromX11(r x11.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func rectToX11(r Rect) x11.Rect {
	return x11.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
