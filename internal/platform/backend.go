package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Center returns the midpoint of r.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// WindowInfo is the metadata read from a top-level window before it is
// managed.
type WindowInfo struct {
	OverrideRedirect bool
	Viewable         bool
	Normal           bool
	StateHint        bool
	Iconic           bool
	Transient        bool
	Class            string
	Geometry         Rect
}

// ClientState is the ICCCM state published for a client.
type ClientState int

const (
	StateWithdrawn ClientState = iota
	StateNormal
	StateIconic
)

// ConfigureRequest is a client's request to change its own geometry or
// stacking. Only the fields whose Has flag is set were requested.
type ConfigureRequest struct {
	Window WindowID

	HasX, HasY, HasWidth, HasHeight bool
	X, Y, Width, Height             int

	// Raw carries the window-system request for pass-through.
	Raw any
}

// Backend abstracts the window-system operations a window manager performs.
type Backend interface {
	// Queries.
	Displays() ([]Display, error)
	WindowInfo(windowID WindowID) (WindowInfo, error)
	WindowTitle(windowID WindowID) string
	TopLevelWindows() ([]WindowID, error)
	Exists(windowID WindowID) bool
	Pointer() (int, int, error)

	// Client windows.
	Manage(windowID WindowID) error
	Map(windowID WindowID)
	Unmap(windowID WindowID)
	Restack(bottomToTop []WindowID)
	Focus(windowID WindowID) error
	Unfocus(windowID WindowID) error
	FocusRoot()
	SetBorderColor(windowID WindowID, pixel uint32)
	MoveResize(windowID WindowID, bounds Rect)
	ConfigureUnmanaged(req ConfigureRequest)
	SendConfigureNotify(windowID WindowID, bounds Rect)
	ReplayPointer()
	Close(windowID WindowID) error
	SetClientState(windowID WindowID, state ClientState) error

	// Desktop hints for pagers.
	SetCurrentDesktop(desktop int) error
	SetWindowDesktop(windowID WindowID, desktop int) error
	SetActiveWindow(windowID WindowID) error
	SetClientList(windows []WindowID) error

	// Move/resize outline.
	ShowPlaceholder(bounds Rect) error
	MovePlaceholder(bounds Rect)
	HidePlaceholder()
}

// DisplayAt returns the display containing the point, falling back to the
// first display. It reports false only when displays is empty.
func DisplayAt(displays []Display, x, y int) (Display, bool) {
	if len(displays) == 0 {
		return Display{}, false
	}
	for _, d := range displays {
		b := d.Bounds
		if x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height {
			return d, true
		}
	}
	return displays[0], true
}
