package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Item is a single selectable entry in a palette.
type Item struct {
	Label    string // Display text
	Action   string // Action identifier returned on selection
	Icon     string // Icon name for rofi -show-icons
	Meta     string // Hidden search keywords
	IsHeader bool   // Non-selectable section header
	IsActive bool   // Highlighted as current
	IsUrgent bool   // Highlighted as needing attention
}

// Backend shows a palette to the user and returns the selected item.
type Backend interface {
	Show(prompt string, items []Item) (Item, error)
}

// launchers in detection order.
var launchers = []string{"rofi", "dmenu"}

// NewBackend creates a backend by name: auto, rofi or dmenu.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		for _, candidate := range launchers {
			if _, err := exec.LookPath(candidate); err == nil {
				return newLauncher(candidate), nil
			}
		}
		return nil, fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(launchers, ", "))
	}
	for _, candidate := range launchers {
		if name != candidate {
			continue
		}
		if _, err := exec.LookPath(candidate); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", candidate)
		}
		return newLauncher(candidate), nil
	}
	return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(launchers, ", "))
}
