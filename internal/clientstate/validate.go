package clientstate

import (
	"errors"
	"fmt"
)

// ErrInconsistent is wrapped by every error Validate returns.
var ErrInconsistent = errors.New("inconsistent client state")

// Validate checks the structural invariants of s and returns the first
// violation found, or nil.
func (s *State) Validate() error {
	for layer := MinLayer; layer <= MaxLayer; layer++ {
		if _, ok := s.layers[layer]; !ok {
			return fmt.Errorf("%w: layer %d missing", ErrInconsistent, layer)
		}
	}
	if want := int(MaxLayer-MinLayer) + 1; len(s.layers) != want {
		return fmt.Errorf("%w: %d layers, want %d", ErrInconsistent, len(s.layers), want)
	}

	keys := s.desktopKeys()
	for _, d := range keys {
		if _, ok := s.desktops[d]; !ok {
			return fmt.Errorf("%w: desktop %s missing", ErrInconsistent, d)
		}
	}
	if len(s.desktops) != len(keys) {
		return fmt.Errorf("%w: %d desktops, want %d", ErrInconsistent, len(s.desktops), len(keys))
	}

	if !s.validDesktop(s.currentDesktop) {
		return fmt.Errorf("%w: current desktop %s is not numbered", ErrInconsistent, s.currentDesktop)
	}

	layerOf := make(map[Window]Layer)
	for layer, set := range s.layers {
		for w := range set {
			if prev, dup := layerOf[w]; dup {
				return fmt.Errorf("%w: client %d on layers %d and %d", ErrInconsistent, w, prev, layer)
			}
			layerOf[w] = layer
		}
	}
	desktopOf := make(map[Window]Desktop)
	for d, set := range s.desktops {
		for w := range set {
			if prev, dup := desktopOf[w]; dup {
				return fmt.Errorf("%w: client %d on desktops %s and %s", ErrInconsistent, w, prev, d)
			}
			desktopOf[w] = d
		}
	}

	if len(s.size) != len(s.location) {
		return fmt.Errorf("%w: %d sizes for %d locations", ErrInconsistent, len(s.size), len(s.location))
	}
	for w := range s.location {
		if _, ok := s.size[w]; !ok {
			return fmt.Errorf("%w: client %d has no size", ErrInconsistent, w)
		}
		if _, ok := layerOf[w]; !ok {
			return fmt.Errorf("%w: client %d has no layer", ErrInconsistent, w)
		}
		if _, ok := desktopOf[w]; !ok {
			return fmt.Errorf("%w: client %d has no desktop", ErrInconsistent, w)
		}
	}
	if len(layerOf) != len(s.location) || len(desktopOf) != len(s.location) {
		return fmt.Errorf("%w: partitions hold untracked clients", ErrInconsistent)
	}

	if s.hasFocus && !s.IsTracked(s.focused) {
		return fmt.Errorf("%w: focused client %d is not tracked", ErrInconsistent, s.focused)
	}

	inSlot := len(s.desktops[DesktopMoving]) + len(s.desktops[DesktopResizing])
	switch {
	case inSlot > 1:
		return fmt.Errorf("%w: %d clients moving or resizing", ErrInconsistent, inSlot)
	case inSlot == 1 && s.gesture == GestureNone:
		return fmt.Errorf("%w: client in gesture slot without a gesture", ErrInconsistent)
	case inSlot == 0 && s.gesture != GestureNone:
		return fmt.Errorf("%w: %s gesture with empty slot", ErrInconsistent, s.gesture)
	case inSlot == 1:
		if _, ok := s.desktops[slotFor(s.gesture)][s.gestureWindow]; !ok {
			return fmt.Errorf("%w: %s gesture client %d not in its slot", ErrInconsistent, s.gesture, s.gestureWindow)
		}
		if !s.validDesktop(s.gestureOrigin) && s.gestureOrigin != DesktopAll {
			return fmt.Errorf("%w: gesture origin %s", ErrInconsistent, s.gestureOrigin)
		}
	}
	return nil
}
