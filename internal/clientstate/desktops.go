package clientstate

import "fmt"

// IsVisible reports whether w is shown on the current desktop, either
// directly or by being sticky.
func (s *State) IsVisible(w Window) bool {
	if _, ok := s.desktops[s.currentDesktop][w]; ok {
		return true
	}
	_, ok := s.desktops[DesktopAll][w]
	return ok
}

// Focus gives w the input focus. w must be visible.
func (s *State) Focus(w Window) error {
	if !s.IsTracked(w) {
		return fmt.Errorf("focus client %d: %w", w, ErrNotFound)
	}
	if !s.IsVisible(w) {
		return fmt.Errorf("focus client %d: %w", w, ErrNotVisible)
	}
	if s.hasFocus && s.focused == w {
		return nil
	}
	s.PushChange(FocusChanged{})
	s.focused = w
	s.hasFocus = true
	return nil
}

// Unfocus clears the focus, if any window holds it.
func (s *State) Unfocus() {
	if !s.hasFocus {
		return
	}
	s.PushChange(FocusChanged{})
	s.focused = 0
	s.hasFocus = false
}

func (s *State) unfocusIfHidden() {
	if s.hasFocus && !s.IsVisible(s.focused) {
		s.Unfocus()
	}
}

func (s *State) unfocusWindow(w Window) {
	if s.hasFocus && s.focused == w {
		s.Unfocus()
	}
}

func (s *State) validDesktop(d Desktop) bool {
	return d >= 1 && d <= Desktop(s.maxDesktops)
}

// SetCurrentDesktop switches the visible desktop. The focus is dropped when
// the focused client is not visible on the new desktop.
func (s *State) SetCurrentDesktop(d Desktop) error {
	if !s.validDesktop(d) {
		return fmt.Errorf("switch to desktop %s: %w", d, ErrInvalidDesktop)
	}
	if d == s.currentDesktop {
		return nil
	}
	s.PushChange(CurrentDesktopChanged{})
	s.currentDesktop = d
	s.unfocusIfHidden()
	return nil
}

// NextDesktop switches to the following desktop, wrapping around.
func (s *State) NextDesktop() {
	_ = s.SetCurrentDesktop(s.nextDesktop(s.currentDesktop))
}

// PrevDesktop switches to the preceding desktop, wrapping around.
func (s *State) PrevDesktop() {
	_ = s.SetCurrentDesktop(s.prevDesktop(s.currentDesktop))
}

func (s *State) nextDesktop(d Desktop) Desktop {
	return d%Desktop(s.maxDesktops) + 1
}

func (s *State) prevDesktop(d Desktop) Desktop {
	return (d-2+Desktop(s.maxDesktops))%Desktop(s.maxDesktops) + 1
}

func (s *State) moveDesktop(w Window, from, to Desktop) {
	s.PushChange(ClientDesktopChanged{Window: w})
	delete(s.desktops[from], w)
	s.desktops[to][w] = struct{}{}
}

// SetClientDesktop moves w onto numbered desktop d. Withdrawn clients stay
// where they are until they map themselves again.
func (s *State) SetClientDesktop(w Window, d Desktop) error {
	if !s.validDesktop(d) {
		return fmt.Errorf("move client %d to desktop %s: %w", w, d, ErrInvalidDesktop)
	}
	old, err := s.FindDesktop(w)
	if err != nil {
		return err
	}
	switch old {
	case DesktopMoving, DesktopResizing:
		return fmt.Errorf("move client %d to desktop %s: %w", w, d, ErrGestureActive)
	case DesktopInvisible:
		return fmt.Errorf("move client %d to desktop %s: %w", w, d, ErrNotVisible)
	}
	if old == d {
		return nil
	}
	s.moveDesktop(w, old, d)
	s.unfocusIfHidden()
	return nil
}

// ClientNextDesktop moves w to the desktop after the one it is on. Sticky
// windows are treated as living on the current desktop.
func (s *State) ClientNextDesktop(w Window) error {
	base, err := s.shiftBase(w)
	if err != nil {
		return err
	}
	return s.SetClientDesktop(w, s.nextDesktop(base))
}

// ClientPrevDesktop moves w to the desktop before the one it is on.
func (s *State) ClientPrevDesktop(w Window) error {
	base, err := s.shiftBase(w)
	if err != nil {
		return err
	}
	return s.SetClientDesktop(w, s.prevDesktop(base))
}

func (s *State) shiftBase(w Window) (Desktop, error) {
	d, err := s.FindDesktop(w)
	if err != nil {
		return 0, err
	}
	switch {
	case d.IsNumbered():
		return d, nil
	case d == DesktopAll:
		return s.currentDesktop, nil
	case d == DesktopMoving, d == DesktopResizing:
		return 0, fmt.Errorf("shift client %d: %w", w, ErrGestureActive)
	default:
		return 0, fmt.Errorf("shift client %d: %w", w, ErrNotVisible)
	}
}

// ToggleSticky flips w between the sticky desktop and the current desktop.
func (s *State) ToggleSticky(w Window) error {
	d, err := s.FindDesktop(w)
	if err != nil {
		return err
	}
	switch {
	case d == DesktopAll:
		s.moveDesktop(w, d, s.currentDesktop)
	case d.IsNumbered():
		s.moveDesktop(w, d, DesktopAll)
	case d == DesktopMoving, d == DesktopResizing:
		return fmt.Errorf("toggle sticky on client %d: %w", w, ErrGestureActive)
	default:
		return fmt.Errorf("toggle sticky on client %d: %w", w, ErrNotVisible)
	}
	return nil
}

// Iconify moves w to the icon desktop. Iconifying an icon does nothing.
func (s *State) Iconify(w Window) error {
	d, err := s.FindDesktop(w)
	if err != nil {
		return err
	}
	switch d {
	case DesktopIcons:
		return nil
	case DesktopMoving, DesktopResizing:
		return fmt.Errorf("iconify client %d: %w", w, ErrGestureActive)
	case DesktopInvisible:
		return fmt.Errorf("iconify client %d: %w", w, ErrNotVisible)
	}
	s.moveDesktop(w, d, DesktopIcons)
	s.unfocusWindow(w)
	return nil
}

// Deiconify brings an iconified client back onto the current desktop and
// focuses it.
func (s *State) Deiconify(w Window) error {
	d, err := s.FindDesktop(w)
	if err != nil {
		return err
	}
	if d != DesktopIcons {
		return fmt.Errorf("deiconify client %d on desktop %s: %w", w, d, ErrInvalidArgument)
	}
	s.moveDesktop(w, d, s.currentDesktop)
	return s.Focus(w)
}

// Hide moves a client that withdrew itself to the invisible desktop.
func (s *State) Hide(w Window) error {
	d, err := s.FindDesktop(w)
	if err != nil {
		return err
	}
	switch d {
	case DesktopInvisible:
		return nil
	case DesktopMoving, DesktopResizing:
		return fmt.Errorf("hide client %d: %w", w, ErrGestureActive)
	}
	s.moveDesktop(w, d, DesktopInvisible)
	s.unfocusWindow(w)
	return nil
}

// Unhide returns a hidden client to the current desktop. Clients that are
// not hidden are left alone.
func (s *State) Unhide(w Window) error {
	d, err := s.FindDesktop(w)
	if err != nil {
		return err
	}
	if d != DesktopInvisible {
		return nil
	}
	s.moveDesktop(w, d, s.currentDesktop)
	return nil
}
