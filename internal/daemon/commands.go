package daemon

import (
	"fmt"
	"time"

	"github.com/1broseidon/layerwm/internal/clientstate"
	"github.com/1broseidon/layerwm/internal/ipc"
	"github.com/1broseidon/layerwm/internal/platform"
)

// handleCommand answers a control request. Requests that mutate the state
// take effect with the same apply pass as hotkeys.
func (wm *WM) handleCommand(req *ipc.Request) *ipc.Response {
	if req == nil {
		return ipc.NewErrorResponse("empty request")
	}

	data, err := wm.runCommand(req)
	if err != nil {
		wm.logger.Debug("command failed", "command", req.Command, "error", err)
		return ipc.NewErrorResponse(err.Error())
	}
	resp, err := ipc.NewOKResponse(data)
	if err != nil {
		return ipc.NewErrorResponse(err.Error())
	}
	return resp
}

func (wm *WM) runCommand(req *ipc.Request) (any, error) {
	switch req.Command {
	case ipc.CommandGetStatus:
		return wm.status(), nil

	case ipc.CommandGetMonitors:
		return wm.monitors()

	case ipc.CommandListClients:
		return wm.clients(), nil

	case ipc.CommandSetDesktop:
		var p ipc.DesktopPayload
		if err := req.DecodePayload(&p); err != nil {
			return nil, err
		}
		return nil, wm.state.SetCurrentDesktop(clientstate.Desktop(p.Desktop))

	case ipc.CommandSendToDesktop:
		var p ipc.SendToDesktopPayload
		if err := req.DecodePayload(&p); err != nil {
			return nil, err
		}
		w, err := wm.target(p.Window)
		if err != nil {
			return nil, err
		}
		return nil, wm.state.SetClientDesktop(w, clientstate.Desktop(p.Desktop))

	case ipc.CommandSetLayer:
		var p ipc.LayerPayload
		if err := req.DecodePayload(&p); err != nil {
			return nil, err
		}
		w, err := wm.target(p.Window)
		if err != nil {
			return nil, err
		}
		return nil, wm.state.SetLayer(w, clientstate.Layer(p.Layer))

	case ipc.CommandQuit:
		wm.logger.Info("quit requested over ipc")
		wm.dispatcher.Terminate()
		return nil, nil

	case ipc.CommandFocus, ipc.CommandLayerUp, ipc.CommandLayerDown,
		ipc.CommandToggleSticky, ipc.CommandIconify, ipc.CommandDeiconify,
		ipc.CommandClose:
		return nil, wm.windowCommand(req)
	}
	return nil, fmt.Errorf("unknown command: %s", req.Command)
}

// windowCommand runs the commands that take only a WindowPayload.
func (wm *WM) windowCommand(req *ipc.Request) error {
	var p ipc.WindowPayload
	if err := req.DecodePayload(&p); err != nil {
		return err
	}
	w, err := wm.target(p.Window)
	if err != nil {
		return err
	}

	switch req.Command {
	case ipc.CommandFocus:
		return wm.state.Focus(w)
	case ipc.CommandLayerUp:
		return wm.state.RaiseLayer(w)
	case ipc.CommandLayerDown:
		return wm.state.LowerLayer(w)
	case ipc.CommandToggleSticky:
		return wm.state.ToggleSticky(w)
	case ipc.CommandIconify:
		return wm.state.Iconify(w)
	case ipc.CommandDeiconify:
		return wm.state.Deiconify(w)
	case ipc.CommandClose:
		return wm.backend.Close(platform.WindowID(w))
	}
	return fmt.Errorf("unknown command: %s", req.Command)
}

func (wm *WM) status() ipc.StatusData {
	data := ipc.StatusData{
		CurrentDesktop: int(wm.state.CurrentDesktop()),
		MaxDesktops:    wm.state.MaxDesktops(),
		ClientCount:    len(wm.state.Clients()),
		IconCount:      len(wm.state.ClientsOn(clientstate.DesktopIcons)),
		UptimeSeconds:  int64(time.Since(wm.startTime).Seconds()),
		DaemonRunning:  true,
	}
	if w, ok := wm.state.Focused(); ok {
		data.Focused = uint32(w)
	}
	if g, _ := wm.state.Gesture(); g != clientstate.GestureNone {
		data.Gesture = g.String()
	}
	return data
}

func (wm *WM) monitors() (ipc.MonitorsData, error) {
	displays, err := wm.backend.Displays()
	if err != nil {
		return ipc.MonitorsData{}, fmt.Errorf("failed to read displays: %w", err)
	}
	data := ipc.MonitorsData{Monitors: make([]ipc.MonitorInfo, 0, len(displays))}
	for _, d := range displays {
		data.Monitors = append(data.Monitors, ipc.MonitorInfo{
			ID:     d.ID,
			Name:   d.Name,
			X:      d.Bounds.X,
			Y:      d.Bounds.Y,
			Width:  d.Bounds.Width,
			Height: d.Bounds.Height,
		})
	}
	return data, nil
}

// clients lists the visible clients bottom to top, followed by the hidden
// ones ordered by id.
func (wm *WM) clients() ipc.ClientsData {
	focused, hasFocus := wm.state.Focused()

	order := wm.state.StackOrder()
	seen := make(map[clientstate.Window]bool, len(order))
	for _, w := range order {
		seen[w] = true
	}
	for _, w := range wm.state.Clients() {
		if !seen[w] {
			order = append(order, w)
		}
	}

	data := ipc.ClientsData{Clients: make([]ipc.ClientInfo, 0, len(order))}
	for _, w := range order {
		info := ipc.ClientInfo{
			Window:  uint32(w),
			Title:   wm.backend.WindowTitle(platform.WindowID(w)),
			Class:   wm.classes[w],
			Focused: hasFocus && focused == w,
		}
		if d, err := wm.state.FindDesktop(w); err == nil {
			info.Desktop = d.String()
		}
		if l, err := wm.state.FindLayer(w); err == nil {
			info.Layer = int(l)
		}
		if g, err := wm.state.Geometry(w); err == nil {
			info.X, info.Y, info.Width, info.Height = g.X, g.Y, g.Width, g.Height
		}
		data.Clients = append(data.Clients, info)
	}
	return data
}
