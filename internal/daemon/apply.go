package daemon

import (
	"log/slog"

	"github.com/1broseidon/layerwm/internal/clientstate"
	"github.com/1broseidon/layerwm/internal/platform"
)

// applier turns the change log into window-system requests. It remembers
// what it last told the server so that each change costs only the requests
// it implies.
type applier struct {
	state   *clientstate.State
	backend platform.Backend
	logger  *slog.Logger

	focusedPixel   uint32
	unfocusedPixel uint32

	known     map[clientstate.Window]bool
	mapped    map[clientstate.Window]bool
	published map[clientstate.Window]platform.ClientState
	// unmaps counts UnmapNotify events we caused and must not mistake for a
	// client withdrawing.
	unmaps map[clientstate.Window]int
	// icons lists iconified windows, oldest first.
	icons []clientstate.Window

	focused   clientstate.Window
	listDirty bool
}

func newApplier(state *clientstate.State, backend platform.Backend, logger *slog.Logger, focusedPixel, unfocusedPixel uint32) *applier {
	return &applier{
		state:          state,
		backend:        backend,
		logger:         logger,
		focusedPixel:   focusedPixel,
		unfocusedPixel: unfocusedPixel,
		known:          make(map[clientstate.Window]bool),
		mapped:         make(map[clientstate.Window]bool),
		published:      make(map[clientstate.Window]platform.ClientState),
		unmaps:         make(map[clientstate.Window]int),
	}
}

// markMapped records a window that was already mapped when we adopted it.
func (a *applier) markMapped(w clientstate.Window) {
	a.mapped[w] = true
}

// clientUnmapped records an UnmapNotify. It reports whether the client
// unmapped itself, as opposed to us hiding it.
func (a *applier) clientUnmapped(w clientstate.Window) bool {
	if n := a.unmaps[w]; n > 0 {
		if n == 1 {
			delete(a.unmaps, w)
		} else {
			a.unmaps[w] = n - 1
		}
		return false
	}
	a.mapped[w] = false
	return true
}

// forget drops everything known about a destroyed window.
func (a *applier) forget(w clientstate.Window) {
	delete(a.known, w)
	delete(a.mapped, w)
	delete(a.published, w)
	delete(a.unmaps, w)
	a.removeIcon(w)
	if a.focused == w {
		a.focused = 0
	}
	a.listDirty = true
}

// lastIcon returns the most recently iconified window.
func (a *applier) lastIcon() (clientstate.Window, bool) {
	if len(a.icons) == 0 {
		return 0, false
	}
	return a.icons[len(a.icons)-1], true
}

func (a *applier) removeIcon(w clientstate.Window) {
	for i, icon := range a.icons {
		if icon == w {
			a.icons = append(a.icons[:i], a.icons[i+1:]...)
			return
		}
	}
}

// apply drains the change log and acts on it: visibility first, then
// geometry, stacking, focus and finally the published hints.
func (a *applier) apply() {
	changes := a.state.FlushChanges()
	if len(changes) == 0 && !a.listDirty {
		return
	}

	var restack, focus, allVisibility bool
	var desktopWins, geomWins []clientstate.Window
	seenDesktop := make(map[clientstate.Window]bool)
	seenGeom := make(map[clientstate.Window]bool)

	for _, c := range changes {
		switch c := c.(type) {
		case clientstate.LayerChanged:
			restack = true
		case clientstate.FocusChanged:
			focus = true
		case clientstate.ClientDesktopChanged:
			restack = true
			if !seenDesktop[c.Window] {
				seenDesktop[c.Window] = true
				desktopWins = append(desktopWins, c.Window)
			}
		case clientstate.CurrentDesktopChanged:
			restack = true
			allVisibility = true
			if err := a.backend.SetCurrentDesktop(int(a.state.CurrentDesktop())); err != nil {
				a.logger.Warn("failed to publish current desktop", "error", err)
			}
		case clientstate.LocationChanged:
			if !seenGeom[c.Window] {
				seenGeom[c.Window] = true
				geomWins = append(geomWins, c.Window)
			}
		case clientstate.SizeChanged:
			if !seenGeom[c.Window] {
				seenGeom[c.Window] = true
				geomWins = append(geomWins, c.Window)
			}
		}
	}

	if allVisibility {
		desktopWins = a.state.Clients()
	}
	for _, w := range desktopWins {
		a.syncDesktop(w)
	}

	for _, w := range geomWins {
		geom, err := a.state.Geometry(w)
		if err != nil {
			continue
		}
		a.backend.MoveResize(platform.WindowID(w), platform.Rect(geom))
	}

	if restack {
		a.backend.Restack(toWindowIDs(a.state.StackOrder()))
	}
	if focus {
		a.syncFocus()
	}

	if a.listDirty {
		a.listDirty = false
		if err := a.backend.SetClientList(toWindowIDs(a.state.Clients())); err != nil {
			a.logger.Warn("failed to publish client list", "error", err)
		}
	}
}

// syncDesktop maps or unmaps a window to match its desktop and publishes its
// ICCCM state and EWMH desktop.
func (a *applier) syncDesktop(w clientstate.Window) {
	d, err := a.state.FindDesktop(w)
	if err != nil {
		return
	}
	id := platform.WindowID(w)

	if !a.known[w] {
		a.known[w] = true
		a.listDirty = true
		a.backend.SetBorderColor(id, a.unfocusedPixel)
	}

	visible := a.state.IsVisible(w)
	switch {
	case visible && !a.mapped[w]:
		a.backend.Map(id)
		a.mapped[w] = true
	case !visible && a.mapped[w]:
		a.backend.Unmap(id)
		a.mapped[w] = false
		a.unmaps[w]++
	}

	if d == clientstate.DesktopIcons {
		if _, ok := a.iconIndex(w); !ok {
			a.icons = append(a.icons, w)
		}
	} else {
		a.removeIcon(w)
	}

	var cs platform.ClientState
	switch {
	case d == clientstate.DesktopIcons:
		cs = platform.StateIconic
	case d == clientstate.DesktopInvisible:
		cs = platform.StateWithdrawn
	case d.IsNumbered() || d == clientstate.DesktopAll:
		cs = platform.StateNormal
	default:
		// Mid-gesture: leave the published state alone.
		return
	}
	if prev, ok := a.published[w]; !ok || prev != cs {
		if err := a.backend.SetClientState(id, cs); err != nil {
			a.logger.Debug("failed to set client state", "window", w, "error", err)
		}
		a.published[w] = cs
	}

	switch {
	case d.IsNumbered():
		a.backend.SetWindowDesktop(id, int(d))
	case d == clientstate.DesktopAll:
		a.backend.SetWindowDesktop(id, -1)
	}
}

func (a *applier) iconIndex(w clientstate.Window) (int, bool) {
	for i, icon := range a.icons {
		if icon == w {
			return i, true
		}
	}
	return -1, false
}

// syncFocus moves the input focus and border highlight to the focused
// window, or to the root window when nothing is focused.
func (a *applier) syncFocus() {
	next, ok := a.state.Focused()
	if a.focused != 0 && a.focused != next && a.state.IsTracked(a.focused) {
		prev := platform.WindowID(a.focused)
		a.backend.SetBorderColor(prev, a.unfocusedPixel)
		if err := a.backend.Unfocus(prev); err != nil {
			a.logger.Debug("failed to restore click-to-focus grab", "window", a.focused, "error", err)
		}
	}

	if !ok {
		a.focused = 0
		a.backend.FocusRoot()
		a.backend.SetActiveWindow(0)
		return
	}

	a.focused = next
	id := platform.WindowID(next)
	a.backend.SetBorderColor(id, a.focusedPixel)
	if err := a.backend.Focus(id); err != nil {
		a.logger.Warn("failed to focus window", "window", next, "error", err)
	}
	a.backend.SetActiveWindow(id)
}

func toWindowIDs(ws []clientstate.Window) []platform.WindowID {
	out := make([]platform.WindowID, len(ws))
	for i, w := range ws {
		out[i] = platform.WindowID(w)
	}
	return out
}
