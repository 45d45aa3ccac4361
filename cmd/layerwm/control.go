package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/1broseidon/layerwm/internal/ipc"
)

// controlFlags parses the options shared by every command that talks to a
// running window manager.
func controlFlags(name, usage string, args []string) (*flag.FlagSet, *ipc.Client, int, bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	display := fs.String("display", "", "X display of the window manager (default: $DISPLAY)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: layerwm %s [--display DISPLAY]\n", usage)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, nil, 0, false
		}
		return nil, nil, 2, false
	}
	return fs, ipc.NewClient(*display), 0, true
}

// parseWindow accepts decimal or 0x-prefixed hexadecimal window ids.
func parseWindow(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return uint32(id), nil
}

func parseNumber(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return n, nil
}

// optionalWindow reads the window argument at index i, defaulting to the
// focused window.
func optionalWindow(fs *flag.FlagSet, i int) (uint32, error) {
	if fs.NArg() <= i {
		return 0, nil
	}
	return parseWindow(fs.Arg(i))
}

func runStatus(args []string) int {
	fs, client, code, ok := controlFlags("status", "status", args)
	if !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printStatus(os.Stdout, status, newStyles(os.Stdout))
	return 0
}

func runClients(args []string) int {
	fs := flag.NewFlagSet("clients", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	display := fs.String("display", "", "X display of the window manager (default: $DISPLAY)")
	asJSON := fs.Bool("json", false, "Print clients as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: layerwm clients [--json] [--display DISPLAY]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List managed windows from the bottom of the stack to the top,")
		fmt.Fprintln(os.Stderr, "followed by windows that are not shown.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	data, err := ipc.NewClient(*display).ListClients()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data.Clients); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printClients(os.Stdout, data.Clients, newStyles(os.Stdout))
	return 0
}

func runMonitors(args []string) int {
	fs, client, code, ok := controlFlags("monitors", "monitors", args)
	if !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "monitors takes no arguments")
		fs.Usage()
		return 2
	}

	data, err := client.GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printMonitors(os.Stdout, data.Monitors, newStyles(os.Stdout))
	return 0
}

func runDesktop(args []string) int {
	fs, client, code, ok := controlFlags("desktop", "desktop <n>", args)
	if !ok {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	desktop, err := parseNumber("desktop", fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := client.SetDesktop(desktop); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runSend(args []string) int {
	fs, client, code, ok := controlFlags("send", "send <desktop> [window]", args)
	if !ok {
		return code
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return 2
	}
	desktop, err := parseNumber("desktop", fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	window, err := optionalWindow(fs, 1)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := client.SendToDesktop(window, desktop); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runLayer(args []string) int {
	fs, client, code, ok := controlFlags("layer", "layer <1-9> [window]", args)
	if !ok {
		return code
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return 2
	}
	layer, err := parseNumber("layer", fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	window, err := optionalWindow(fs, 1)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := client.SetLayer(window, layer); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// windowCommands maps single-window subcommands to their client call.
// Commands listed in requireWindow have no sensible focused default.
var (
	windowCommands = map[string]func(*ipc.Client, uint32) error{
		"focus":     (*ipc.Client).Focus,
		"raise":     (*ipc.Client).LayerUp,
		"lower":     (*ipc.Client).LayerDown,
		"sticky":    (*ipc.Client).ToggleSticky,
		"iconify":   (*ipc.Client).Iconify,
		"deiconify": (*ipc.Client).Deiconify,
		"close":     (*ipc.Client).Close,
	}
	requireWindow = map[string]bool{
		"focus":     true,
		"deiconify": true,
	}
)

func runWindowCommand(name string, args []string) int {
	usage := name + " [window]"
	if requireWindow[name] {
		usage = name + " <window>"
	}
	fs, client, code, ok := controlFlags(name, usage, args)
	if !ok {
		return code
	}
	if fs.NArg() > 1 || (requireWindow[name] && fs.NArg() != 1) {
		fs.Usage()
		return 2
	}
	window, err := optionalWindow(fs, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := windowCommands[name](client, window); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runQuit(args []string) int {
	fs, client, code, ok := controlFlags("quit", "quit", args)
	if !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "quit takes no arguments")
		fs.Usage()
		return 2
	}
	if err := client.Quit(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
