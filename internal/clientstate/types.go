package clientstate

import "fmt"

// Window is an opaque client handle. It has the width of an X11 window id but
// is only ever used as a key here.
type Window uint32

// Layer is a stacking position. Higher layers are stacked above lower ones.
type Layer int

const (
	MinLayer     Layer = 1
	MaxLayer     Layer = 9
	DefaultLayer Layer = 5
	// DialogLayer is used for transient (dialog) windows.
	DialogLayer Layer = MaxLayer
)

// Valid reports whether l is inside [MinLayer, MaxLayer].
func (l Layer) Valid() bool {
	return l >= MinLayer && l <= MaxLayer
}

// Desktop is either a numbered desktop (1..MaxDesktops) or one of the
// sentinel desktops below.
type Desktop int

const (
	// DesktopInvisible holds windows that exist but are withdrawn.
	DesktopInvisible Desktop = 0
	// DesktopAll holds sticky windows shown on every desktop.
	DesktopAll Desktop = -1
	// DesktopIcons holds iconified windows.
	DesktopIcons Desktop = -2
	// DesktopMoving and DesktopResizing hold at most one window between them:
	// the client currently being moved or resized by the user.
	DesktopMoving   Desktop = -3
	DesktopResizing Desktop = -4
)

var sentinelDesktops = []Desktop{
	DesktopInvisible,
	DesktopAll,
	DesktopIcons,
	DesktopMoving,
	DesktopResizing,
}

// IsNumbered reports whether d is a regular desktop rather than a sentinel.
func (d Desktop) IsNumbered() bool {
	return d > 0
}

func (d Desktop) String() string {
	switch d {
	case DesktopInvisible:
		return "invisible"
	case DesktopAll:
		return "all"
	case DesktopIcons:
		return "icons"
	case DesktopMoving:
		return "moving"
	case DesktopResizing:
		return "resizing"
	}
	return fmt.Sprintf("%d", int(d))
}

// Point is a window location in root coordinates.
type Point struct {
	X int
	Y int
}

// Dimensions is a window size in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// Rect is a window geometry.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Hints is the structured window metadata supplied when a client is first
// managed.
type Hints struct {
	// StateHint is set when the window explicitly supplies an initial state.
	StateHint bool
	// Iconic requests that the window start iconified. Only honoured
	// together with StateHint.
	Iconic   bool
	Geometry Rect

	// Transient marks dialog windows (WM_TRANSIENT_FOR).
	Transient bool
	// Class is the WM_CLASS class name, used for per-class actions.
	Class string
}

// Gesture identifies an interactive move or resize in progress.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureMove
	GestureResize
)

func (g Gesture) String() string {
	switch g {
	case GestureMove:
		return "move"
	case GestureResize:
		return "resize"
	default:
		return "none"
	}
}
