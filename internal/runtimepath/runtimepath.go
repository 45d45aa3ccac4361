package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the runtime directory holding the layerwm control sockets.
// Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/layerwm-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/layerwm-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the control socket of the window manager running on
// display. An empty display falls back to $DISPLAY, so that one socket
// exists per X server.
func SocketPath(display string) (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, SocketName(display)), nil
}

// SocketName returns the socket file name for display.
func SocketName(display string) string {
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	tag := sanitizeDisplay(display)
	if tag == "" {
		return "layerwm.sock"
	}
	return "layerwm-" + tag + ".sock"
}

// sanitizeDisplay maps a display name such as "localhost:10.0" onto a
// string that is safe inside a file name.
func sanitizeDisplay(display string) string {
	display = strings.TrimSpace(display)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		case r == ':':
			return '_'
		default:
			return -1
		}
	}, display)
}
