package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/layerwm/internal/ipc"
)

// Choice is a window manager operation picked from the window menu.
// Window 0 means no window; Arg carries the desktop or layer number.
type Choice struct {
	Op     string
	Window uint32
	Arg    int
}

// Window menu operations.
const (
	OpDesktop   = "desktop"
	OpFocus     = "focus"
	OpDeiconify = "deiconify"
	OpIconify   = "iconify"
	OpRaise     = "raise"
	OpLower     = "lower"
	OpSticky    = "sticky"
	OpClose     = "close"
	OpSend      = "send"
	OpLayer     = "layer"
)

func (c Choice) String() string {
	return fmt.Sprintf("%s:%d:%d", c.Op, c.Window, c.Arg)
}

// ParseChoice reverses Choice.String.
func ParseChoice(s string) (Choice, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" {
		return Choice{}, fmt.Errorf("invalid menu action %q", s)
	}
	window, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return Choice{}, fmt.Errorf("invalid menu action %q", s)
	}
	arg, err := strconv.Atoi(parts[2])
	if err != nil {
		return Choice{}, fmt.Errorf("invalid menu action %q", s)
	}
	return Choice{Op: parts[0], Window: uint32(window), Arg: arg}, nil
}

// WindowMenu lists managed windows grouped by desktop, then icons, then a
// desktop switcher. Windows on desktops that are not shown (moving,
// resizing, invisible) are left out.
func WindowMenu(status *ipc.StatusData, clients []ipc.ClientInfo) []MenuItem {
	groups := make(map[string][]ipc.ClientInfo)
	for _, c := range clients {
		groups[c.Desktop] = append(groups[c.Desktop], c)
	}

	var items []MenuItem
	section := func(title, key string, actions func(ipc.ClientInfo) []MenuItem) {
		if len(groups[key]) == 0 {
			return
		}
		items = append(items, MenuItem{Label: title, IsHeader: true})
		// clients arrive bottom to top; list the topmost first.
		list := groups[key]
		for i := len(list) - 1; i >= 0; i-- {
			c := list[i]
			items = append(items, MenuItem{
				Label:    windowLabel(c),
				Meta:     c.Class,
				IsActive: c.Focused,
				Submenu:  actions(c),
			})
		}
	}

	for d := 1; d <= status.MaxDesktops; d++ {
		section(fmt.Sprintf("Desktop %d", d), strconv.Itoa(d), func(c ipc.ClientInfo) []MenuItem {
			return windowActions(c, status.MaxDesktops)
		})
	}
	section("All desktops", "all", func(c ipc.ClientInfo) []MenuItem {
		return windowActions(c, status.MaxDesktops)
	})
	section("Icons", "icons", iconActions)

	items = append(items, MenuItem{Label: "Desktops", IsHeader: true})
	for d := 1; d <= status.MaxDesktops; d++ {
		items = append(items, MenuItem{
			Label:    fmt.Sprintf("Switch to desktop %d", d),
			Action:   Choice{Op: OpDesktop, Arg: d}.String(),
			Icon:     "user-desktop",
			IsActive: d == status.CurrentDesktop,
		})
	}
	return items
}

func windowLabel(c ipc.ClientInfo) string {
	title := c.Title
	if title == "" {
		title = fmt.Sprintf("0x%x", c.Window)
	}
	label := fmt.Sprintf("%s  [layer %d]", title, c.Layer)
	if c.Class != "" {
		label = fmt.Sprintf("%s  (%s)", label, c.Class)
	}
	return label
}

func windowActions(c ipc.ClientInfo, desktops int) []MenuItem {
	act := func(label, op string, arg int) MenuItem {
		return MenuItem{Label: label, Action: Choice{Op: op, Window: c.Window, Arg: arg}.String()}
	}
	items := []MenuItem{
		act("Focus", OpFocus, 0),
		act("Raise layer", OpRaise, 0),
		act("Lower layer", OpLower, 0),
		act("Toggle sticky", OpSticky, 0),
		act("Iconify", OpIconify, 0),
	}
	var send []MenuItem
	for d := 1; d <= desktops; d++ {
		if strconv.Itoa(d) == c.Desktop {
			continue
		}
		send = append(send, act(fmt.Sprintf("Desktop %d", d), OpSend, d))
	}
	if len(send) > 0 {
		items = append(items, MenuItem{Label: "Send to", Submenu: send})
	}
	var layers []MenuItem
	for l := 1; l <= 9; l++ {
		item := act(fmt.Sprintf("Layer %d", l), OpLayer, l)
		item.IsActive = l == c.Layer
		layers = append(layers, item)
	}
	items = append(items, MenuItem{Label: "Layer", Submenu: layers})
	return append(items, act("Close", OpClose, 0))
}

func iconActions(c ipc.ClientInfo) []MenuItem {
	return []MenuItem{
		{Label: "Restore", Action: Choice{Op: OpDeiconify, Window: c.Window}.String()},
		{Label: "Close", Action: Choice{Op: OpClose, Window: c.Window}.String()},
	}
}
