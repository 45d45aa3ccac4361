package clientstate

import "fmt"

// Change is a notification that some part of the client state changed. It
// carries only the identity needed to look up the current value; the closed
// set of implementations is the six types below.
type Change interface {
	isChange()
	fmt.Stringer
}

// LayerChanged reports that a client moved to another layer.
type LayerChanged struct {
	Window Window
}

// FocusChanged reports that the focused window changed.
type FocusChanged struct{}

// ClientDesktopChanged reports that a client moved to another desktop.
type ClientDesktopChanged struct {
	Window Window
}

// CurrentDesktopChanged reports that the visible desktop changed.
type CurrentDesktopChanged struct{}

// LocationChanged reports that a client was moved.
type LocationChanged struct {
	Window Window
}

// SizeChanged reports that a client was resized.
type SizeChanged struct {
	Window Window
}

func (LayerChanged) isChange()          {}
func (FocusChanged) isChange()          {}
func (ClientDesktopChanged) isChange()  {}
func (CurrentDesktopChanged) isChange() {}
func (LocationChanged) isChange()       {}
func (SizeChanged) isChange()           {}

func (c LayerChanged) String() string         { return fmt.Sprintf("layer(%d)", c.Window) }
func (FocusChanged) String() string           { return "focus" }
func (c ClientDesktopChanged) String() string { return fmt.Sprintf("client-desktop(%d)", c.Window) }
func (CurrentDesktopChanged) String() string  { return "current-desktop" }
func (c LocationChanged) String() string      { return fmt.Sprintf("location(%d)", c.Window) }
func (c SizeChanged) String() string          { return fmt.Sprintf("size(%d)", c.Window) }
