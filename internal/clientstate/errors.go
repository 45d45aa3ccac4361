package clientstate

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a window is not currently managed.
	ErrNotFound = errors.New("client not found")

	// ErrInvalidArgument is returned for out-of-range arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidLayer is returned for layers outside [MinLayer, MaxLayer].
	ErrInvalidLayer = fmt.Errorf("%w: layer out of range", ErrInvalidArgument)

	// ErrInvalidDesktop is returned for desktops that are not numbered or
	// exceed the configured desktop count.
	ErrInvalidDesktop = fmt.Errorf("%w: desktop out of range", ErrInvalidArgument)

	// ErrAlreadyTracked is returned when registering a managed window again.
	ErrAlreadyTracked = errors.New("client already tracked")

	// ErrNotVisible is returned when focusing a window that is not shown on
	// the current desktop.
	ErrNotVisible = errors.New("client not visible")

	// ErrGestureActive is returned when a move or resize is already running.
	ErrGestureActive = errors.New("move or resize already in progress")

	// ErrNoGesture is returned when ending a move or resize that never began.
	ErrNoGesture = errors.New("no move or resize in progress")
)
