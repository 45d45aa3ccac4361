package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/layerwm/internal/ipc"
	"github.com/1broseidon/layerwm/internal/palette"
)

// menuController is the part of the IPC client the window menu drives.
type menuController interface {
	SetDesktop(desktop int) error
	SendToDesktop(window uint32, desktop int) error
	Focus(window uint32) error
	SetLayer(window uint32, layer int) error
	LayerUp(window uint32) error
	LayerDown(window uint32) error
	ToggleSticky(window uint32) error
	Iconify(window uint32) error
	Deiconify(window uint32) error
	Close(window uint32) error
}

func runMenu(args []string) int {
	fs := flag.NewFlagSet("menu", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	display := fs.String("display", "", "X display of the window manager (default: $DISPLAY)")
	backendName := fs.String("backend", "auto", "Palette backend: auto, rofi or dmenu")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: layerwm menu [--backend auto|rofi|dmenu] [--display DISPLAY]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick a window or desktop from a rofi/dmenu window list and act on it.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	backend, err := palette.NewBackend(*backendName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	client := ipc.NewClient(*display)
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	clients, err := client.ListClients()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	action, err := palette.NewMenu(backend, wmName, palette.WindowMenu(status, clients.Clients)).Show()
	if errors.Is(err, palette.ErrCancelled) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	choice, err := palette.ParseChoice(action)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := applyChoice(client, choice); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func applyChoice(ctl menuController, c palette.Choice) error {
	switch c.Op {
	case palette.OpDesktop:
		return ctl.SetDesktop(c.Arg)
	case palette.OpSend:
		return ctl.SendToDesktop(c.Window, c.Arg)
	case palette.OpLayer:
		return ctl.SetLayer(c.Window, c.Arg)
	case palette.OpFocus:
		return ctl.Focus(c.Window)
	case palette.OpRaise:
		return ctl.LayerUp(c.Window)
	case palette.OpLower:
		return ctl.LayerDown(c.Window)
	case palette.OpSticky:
		return ctl.ToggleSticky(c.Window)
	case palette.OpIconify:
		return ctl.Iconify(c.Window)
	case palette.OpDeiconify:
		return ctl.Deiconify(c.Window)
	case palette.OpClose:
		return ctl.Close(c.Window)
	}
	return fmt.Errorf("unknown menu action %q", c.Op)
}
