package clientstate

import "fmt"

// Location returns the last recorded position of w.
func (s *State) Location(w Window) (Point, error) {
	p, ok := s.location[w]
	if !ok {
		return Point{}, fmt.Errorf("location of client %d: %w", w, ErrNotFound)
	}
	return p, nil
}

// Size returns the last recorded size of w.
func (s *State) Size(w Window) (Dimensions, error) {
	d, ok := s.size[w]
	if !ok {
		return Dimensions{}, fmt.Errorf("size of client %d: %w", w, ErrNotFound)
	}
	return d, nil
}

// Geometry returns the position and size of w as one rectangle.
func (s *State) Geometry(w Window) (Rect, error) {
	p, err := s.Location(w)
	if err != nil {
		return Rect{}, err
	}
	d := s.size[w]
	return Rect{X: p.X, Y: p.Y, Width: d.Width, Height: d.Height}, nil
}

// MoveClient records a new position for w.
func (s *State) MoveClient(w Window, x, y int) error {
	old, err := s.Location(w)
	if err != nil {
		return err
	}
	p := Point{X: x, Y: y}
	if p == old {
		return nil
	}
	s.PushChange(LocationChanged{Window: w})
	s.location[w] = p
	return nil
}

// ResizeClient records a new size for w. Both dimensions are clamped to at
// least one pixel.
func (s *State) ResizeClient(w Window, width, height int) error {
	old, err := s.Size(w)
	if err != nil {
		return err
	}
	d := Dimensions{Width: max(width, 1), Height: max(height, 1)}
	if d == old {
		return nil
	}
	s.PushChange(SizeChanged{Window: w})
	s.size[w] = d
	return nil
}

// Gesture returns the move or resize in progress and the window it applies
// to. The window is zero when no gesture is running.
func (s *State) Gesture() (Gesture, Window) {
	return s.gesture, s.gestureWindow
}

// BeginMove starts an interactive move of w.
func (s *State) BeginMove(w Window) error {
	return s.beginGesture(w, GestureMove, DesktopMoving)
}

// BeginResize starts an interactive resize of w.
func (s *State) BeginResize(w Window) error {
	return s.beginGesture(w, GestureResize, DesktopResizing)
}

func (s *State) beginGesture(w Window, g Gesture, slot Desktop) error {
	if s.gesture != GestureNone {
		return fmt.Errorf("begin %s of client %d: %w", g, w, ErrGestureActive)
	}
	origin, err := s.FindDesktop(w)
	if err != nil {
		return err
	}
	if !s.IsVisible(w) {
		return fmt.Errorf("begin %s of client %d: %w", g, w, ErrNotVisible)
	}

	s.unfocusWindow(w)
	s.moveDesktop(w, origin, slot)
	s.gesture = g
	s.gestureWindow = w
	s.gestureOrigin = origin
	return nil
}

// EndMoveResize finishes the running gesture. The window returns to the
// desktop it started on, takes the final geometry and gets the focus back.
func (s *State) EndMoveResize(final Rect) error {
	if s.gesture == GestureNone {
		return ErrNoGesture
	}
	w, g, origin := s.gestureWindow, s.gesture, s.gestureOrigin
	s.clearGesture()

	s.moveDesktop(w, slotFor(g), origin)
	if err := s.MoveClient(w, final.X, final.Y); err != nil {
		return err
	}
	if err := s.ResizeClient(w, final.Width, final.Height); err != nil {
		return err
	}
	if s.IsVisible(w) {
		return s.Focus(w)
	}
	return nil
}

func (s *State) clearGesture() {
	s.gesture = GestureNone
	s.gestureWindow = 0
	s.gestureOrigin = 0
}

func slotFor(g Gesture) Desktop {
	if g == GestureResize {
		return DesktopResizing
	}
	return DesktopMoving
}
