package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MenuItem represents an item in the menu hierarchy.
type MenuItem struct {
	Label    string
	Action   string // empty for parents and headers
	Icon     string
	Meta     string
	IsHeader bool
	IsActive bool
	Submenu  []MenuItem
}

// IsParent returns true if this item has a submenu.
func (m MenuItem) IsParent() bool {
	return len(m.Submenu) > 0
}

// Menu handles hierarchical menu navigation using a palette backend.
type Menu struct {
	backend Backend
	prompt  string
	root    []MenuItem
}

// NewMenu creates a menu whose top level is shown with prompt.
func NewMenu(backend Backend, prompt string, items []MenuItem) *Menu {
	return &Menu{backend: backend, prompt: prompt, root: items}
}

const (
	backAction    = "__back__"
	submenuPrefix = "__submenu__:"
)

// Show displays the menu and follows submenus until a leaf is picked. It
// returns the leaf's action, or ErrCancelled when the user leaves the top
// level.
func (m *Menu) Show() (string, error) {
	return m.showLevel(m.prompt, m.root, false)
}

func (m *Menu) showLevel(prompt string, items []MenuItem, nested bool) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("menu: no items to show")
	}

	rows := make([]Item, 0, len(items)+1)
	if nested {
		rows = append(rows, Item{Label: "← Back", Action: backAction, Icon: "go-previous"})
	}
	for i, item := range items {
		row := Item{
			Label:    item.Label,
			Action:   item.Action,
			Icon:     item.Icon,
			Meta:     item.Meta,
			IsHeader: item.IsHeader,
			IsActive: item.IsActive,
		}
		if item.IsParent() {
			row.Label += " →"
			row.Action = submenuPrefix + strconv.Itoa(i)
		}
		rows = append(rows, row)
	}

	for {
		picked, err := m.backend.Show(prompt, rows)
		if err != nil {
			return "", err
		}
		// dmenu cannot make headers non-selectable.
		if picked.IsHeader || picked.Action == "" {
			continue
		}
		if picked.Action == backAction {
			return "", ErrCancelled
		}
		if !strings.HasPrefix(picked.Action, submenuPrefix) {
			return picked.Action, nil
		}

		idx, err := strconv.Atoi(strings.TrimPrefix(picked.Action, submenuPrefix))
		if err != nil || idx < 0 || idx >= len(items) || !items[idx].IsParent() {
			continue
		}
		action, err := m.showLevel(items[idx].Label, items[idx].Submenu, true)
		if errors.Is(err, ErrCancelled) {
			continue
		}
		return action, err
	}
}
