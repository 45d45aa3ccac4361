package mcp

import "github.com/1broseidon/layerwm/internal/ipc"

// WindowInput targets a managed window.
type WindowInput struct {
	Window uint32 `json:"window,omitempty" jsonschema:"X window id (decimal). Omit or 0 for the focused window."`
}

// DesktopInput selects a numbered desktop.
type DesktopInput struct {
	Desktop int `json:"desktop" jsonschema:"required,Desktop number starting at 1"`
}

// SendToDesktopInput moves a window to another desktop.
type SendToDesktopInput struct {
	Window  uint32 `json:"window,omitempty" jsonschema:"X window id (decimal). Omit or 0 for the focused window."`
	Desktop int    `json:"desktop" jsonschema:"required,Target desktop number starting at 1"`
}

// SetLayerInput puts a window on a stacking layer.
type SetLayerInput struct {
	Window uint32 `json:"window,omitempty" jsonschema:"X window id (decimal). Omit or 0 for the focused window."`
	Layer  int    `json:"layer" jsonschema:"required,Stacking layer from 1 (bottom) to 9 (top)"`
}

// EmptyInput is used by tools that take no arguments.
type EmptyInput struct{}

// ClientsOutput is the output for the list_clients tool.
type ClientsOutput struct {
	Clients []ipc.ClientInfo `json:"clients"`
}

// MonitorsOutput is the output for the get_monitors tool.
type MonitorsOutput struct {
	Monitors []ipc.MonitorInfo `json:"monitors"`
}

// ActionOutput is returned by tools that only change state.
type ActionOutput struct {
	OK     bool   `json:"ok"`
	Window uint32 `json:"window,omitempty"`
}
