package clientstate

import (
	"fmt"
	"sort"
)

type windowSet map[Window]struct{}

// Options configures a State.
type Options struct {
	MaxDesktops int
}

// State tracks every managed client: the layer and desktop it lives on, its
// geometry, and which client holds the focus. Every mutation appends one or
// more Change records, which a consumer drains with FlushChanges.
//
// State is not safe for concurrent use; it is owned by the dispatch loop.
type State struct {
	maxDesktops    int
	layers         map[Layer]windowSet
	desktops       map[Desktop]windowSet
	focused        Window
	hasFocus       bool
	currentDesktop Desktop
	location       map[Window]Point
	size           map[Window]Dimensions
	changes        []Change

	gestureWindow Window
	gestureOrigin Desktop
	gesture       Gesture
}

// New creates an empty State with every layer and desktop allocated and
// desktop 1 current.
func New(opts Options) (*State, error) {
	if opts.MaxDesktops < 1 {
		return nil, fmt.Errorf("%w: max desktops must be positive, got %d", ErrInvalidArgument, opts.MaxDesktops)
	}

	s := &State{
		maxDesktops:    opts.MaxDesktops,
		layers:         make(map[Layer]windowSet, int(MaxLayer-MinLayer)+1),
		desktops:       make(map[Desktop]windowSet, len(sentinelDesktops)+opts.MaxDesktops),
		currentDesktop: 1,
		location:       make(map[Window]Point),
		size:           make(map[Window]Dimensions),
	}
	for layer := MinLayer; layer <= MaxLayer; layer++ {
		s.layers[layer] = windowSet{}
	}
	for _, d := range sentinelDesktops {
		s.desktops[d] = windowSet{}
	}
	for d := Desktop(1); d <= Desktop(opts.MaxDesktops); d++ {
		s.desktops[d] = windowSet{}
	}
	return s, nil
}

// PushChange appends c to the change log.
func (s *State) PushChange(c Change) {
	s.changes = append(s.changes, c)
}

// FlushChanges returns every queued change in emission order and empties the
// log. Repeated changes are not collapsed.
func (s *State) FlushChanges() []Change {
	changes := s.changes
	s.changes = nil
	return changes
}

// PendingChanges returns the number of queued changes.
func (s *State) PendingChanges() int {
	return len(s.changes)
}

// Register starts tracking a new client. It focuses the window, places it on
// the current desktop (or the icon desktop when it asks to start iconic),
// puts it on DefaultLayer and records its geometry, pushing FocusChanged,
// ClientDesktopChanged and LayerChanged in that order.
func (s *State) Register(w Window, hints Hints) error {
	if s.IsTracked(w) {
		return fmt.Errorf("register client %d: %w", w, ErrAlreadyTracked)
	}

	s.PushChange(FocusChanged{})
	s.focused = w
	s.hasFocus = true

	s.PushChange(ClientDesktopChanged{Window: w})
	desktop := s.currentDesktop
	if hints.StateHint && hints.Iconic {
		desktop = DesktopIcons
	}
	s.desktops[desktop][w] = struct{}{}

	s.PushChange(LayerChanged{Window: w})
	s.layers[DefaultLayer][w] = struct{}{}

	s.location[w] = Point{X: hints.Geometry.X, Y: hints.Geometry.Y}
	s.size[w] = Dimensions{Width: hints.Geometry.Width, Height: hints.Geometry.Height}
	return nil
}

// Remove stops tracking w. FocusChanged is pushed only if w held the focus.
func (s *State) Remove(w Window) error {
	desktop, err := s.FindDesktop(w)
	if err != nil {
		return err
	}
	layer, err := s.FindLayer(w)
	if err != nil {
		return err
	}

	delete(s.desktops[desktop], w)
	delete(s.layers[layer], w)
	delete(s.location, w)
	delete(s.size, w)

	if s.gesture != GestureNone && s.gestureWindow == w {
		s.clearGesture()
	}
	if s.hasFocus && s.focused == w {
		s.PushChange(FocusChanged{})
		s.focused = 0
		s.hasFocus = false
	}
	return nil
}

// IsTracked reports whether w is managed.
func (s *State) IsTracked(w Window) bool {
	_, ok := s.location[w]
	return ok
}

// FindDesktop returns the desktop w lives on.
func (s *State) FindDesktop(w Window) (Desktop, error) {
	for _, d := range s.desktopKeys() {
		if _, ok := s.desktops[d][w]; ok {
			return d, nil
		}
	}
	return 0, fmt.Errorf("desktop of client %d: %w", w, ErrNotFound)
}

// FindLayer returns the layer w lives on.
func (s *State) FindLayer(w Window) (Layer, error) {
	for layer := MinLayer; layer <= MaxLayer; layer++ {
		if _, ok := s.layers[layer][w]; ok {
			return layer, nil
		}
	}
	return 0, fmt.Errorf("layer of client %d: %w", w, ErrNotFound)
}

// RaiseLayer moves w one layer up. At MaxLayer it does nothing.
func (s *State) RaiseLayer(w Window) error {
	old, err := s.FindLayer(w)
	if err != nil {
		return err
	}
	if old < MaxLayer {
		s.moveLayer(w, old, old+1)
	}
	return nil
}

// LowerLayer moves w one layer down. At MinLayer it does nothing.
func (s *State) LowerLayer(w Window) error {
	old, err := s.FindLayer(w)
	if err != nil {
		return err
	}
	if old > MinLayer {
		s.moveLayer(w, old, old-1)
	}
	return nil
}

// SetLayer puts w on layer. Setting the current layer again is a no-op.
func (s *State) SetLayer(w Window, layer Layer) error {
	if !layer.Valid() {
		return fmt.Errorf("set layer %d: %w", layer, ErrInvalidLayer)
	}
	old, err := s.FindLayer(w)
	if err != nil {
		return err
	}
	if old != layer {
		s.moveLayer(w, old, layer)
	}
	return nil
}

func (s *State) moveLayer(w Window, from, to Layer) {
	s.PushChange(LayerChanged{Window: w})
	delete(s.layers[from], w)
	s.layers[to][w] = struct{}{}
}

// Focused returns the focused client, if any.
func (s *State) Focused() (Window, bool) {
	return s.focused, s.hasFocus
}

// CurrentDesktop returns the visible numbered desktop.
func (s *State) CurrentDesktop() Desktop {
	return s.currentDesktop
}

// MaxDesktops returns the number of numbered desktops.
func (s *State) MaxDesktops() int {
	return s.maxDesktops
}

// Clients returns every tracked client ordered by id.
func (s *State) Clients() []Window {
	out := make([]Window, 0, len(s.location))
	for w := range s.location {
		out = append(out, w)
	}
	sortWindows(out)
	return out
}

// ClientsOn returns the clients on desktop d ordered by id.
func (s *State) ClientsOn(d Desktop) []Window {
	set := s.desktops[d]
	out := make([]Window, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sortWindows(out)
	return out
}

// StackOrder returns the visible clients bottom to top: by layer, then by id.
func (s *State) StackOrder() []Window {
	var out []Window
	for layer := MinLayer; layer <= MaxLayer; layer++ {
		var group []Window
		for w := range s.layers[layer] {
			if s.IsVisible(w) {
				group = append(group, w)
			}
		}
		sortWindows(group)
		out = append(out, group...)
	}
	return out
}

// desktopKeys lists the sentinels followed by the numbered desktops.
func (s *State) desktopKeys() []Desktop {
	keys := make([]Desktop, 0, len(sentinelDesktops)+s.maxDesktops)
	keys = append(keys, sentinelDesktops...)
	for d := Desktop(1); d <= Desktop(s.maxDesktops); d++ {
		keys = append(keys, d)
	}
	return keys
}

func sortWindows(ws []Window) {
	sort.Slice(ws, func(i, j int) bool { return ws[i] < ws[j] })
}
