package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/1broseidon/layerwm/internal/ipc"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

type styles struct {
	header  lipgloss.Style
	label   lipgloss.Style
	focused lipgloss.Style
	muted   lipgloss.Style
}

// newStyles colors output only when f is a terminal.
func newStyles(f *os.File) styles {
	if !term.IsTerminal(int(f.Fd())) {
		return plainStyles()
	}
	return styles{
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		focused: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func plainStyles() styles {
	plain := lipgloss.NewStyle()
	return styles{header: plain, label: plain, focused: plain, muted: plain}
}

func printStatus(w io.Writer, s *ipc.StatusData, st styles) {
	row := func(label string, value any) {
		fmt.Fprintf(w, "%s %v\n", st.label.Render(fmt.Sprintf("%-16s", label+":")), value)
	}
	row("daemon_running", s.DaemonRunning)
	row("current_desktop", fmt.Sprintf("%d/%d", s.CurrentDesktop, s.MaxDesktops))
	if s.Focused != 0 {
		row("focused", fmt.Sprintf("0x%x", s.Focused))
	} else {
		row("focused", st.muted.Render("none"))
	}
	row("clients", s.ClientCount)
	row("icons", s.IconCount)
	if s.Gesture != "" {
		row("gesture", s.Gesture)
	}
	row("uptime", (time.Duration(s.UptimeSeconds) * time.Second).String())
}

func printClients(w io.Writer, clients []ipc.ClientInfo, st styles) {
	if len(clients) == 0 {
		fmt.Fprintln(w, st.muted.Render("no managed windows"))
		return
	}
	header := fmt.Sprintf("%-12s %-9s %-5s %-21s %-16s %s", "WINDOW", "DESKTOP", "LAYER", "GEOMETRY", "CLASS", "TITLE")
	fmt.Fprintln(w, st.header.Render(header))
	for _, c := range clients {
		line := fmt.Sprintf("%-12s %-9s %-5d %-21s %-16s %s",
			fmt.Sprintf("0x%x", c.Window),
			c.Desktop,
			c.Layer,
			fmt.Sprintf("%dx%d+%d+%d", c.Width, c.Height, c.X, c.Y),
			truncate(c.Class, 16),
			truncate(c.Title, 48),
		)
		switch {
		case c.Focused:
			line = st.focused.Render(line)
		case c.Desktop == "icons" || c.Desktop == "invisible":
			line = st.muted.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

func printMonitors(w io.Writer, monitors []ipc.MonitorInfo, st styles) {
	fmt.Fprintln(w, st.header.Render(fmt.Sprintf("%-3s %-12s %s", "ID", "NAME", "GEOMETRY")))
	for _, m := range monitors {
		fmt.Fprintf(w, "%-3d %-12s %dx%d+%d+%d\n", m.ID, m.Name, m.Width, m.Height, m.X, m.Y)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
