package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandGetMonitors   CommandType = "GET_MONITORS"
	CommandListClients   CommandType = "LIST_CLIENTS"
	CommandSetDesktop    CommandType = "SET_DESKTOP"
	CommandSendToDesktop CommandType = "SEND_TO_DESKTOP"
	CommandFocus         CommandType = "FOCUS"
	CommandSetLayer      CommandType = "SET_LAYER"
	CommandLayerUp       CommandType = "LAYER_UP"
	CommandLayerDown     CommandType = "LAYER_DOWN"
	CommandToggleSticky  CommandType = "TOGGLE_STICKY"
	CommandIconify       CommandType = "ICONIFY"
	CommandDeiconify     CommandType = "DEICONIFY"
	CommandClose         CommandType = "CLOSE"
	CommandQuit          CommandType = "QUIT"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	CurrentDesktop int    `json:"current_desktop"`
	MaxDesktops    int    `json:"max_desktops"`
	Focused        uint32 `json:"focused,omitempty"`
	ClientCount    int    `json:"client_count"`
	IconCount      int    `json:"icon_count"`
	Gesture        string `json:"gesture,omitempty"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	DaemonRunning  bool   `json:"daemon_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// ClientInfo describes one managed window. Desktop is a number, or one of
// "all", "icons", "invisible", "moving", "resizing".
type ClientInfo struct {
	Window  uint32 `json:"window"`
	Title   string `json:"title,omitempty"`
	Class   string `json:"class,omitempty"`
	Desktop string `json:"desktop"`
	Layer   int    `json:"layer"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Focused bool   `json:"focused,omitempty"`
}

// ClientsData represents the data returned by LIST_CLIENTS, in stacking
// order from bottom to top.
type ClientsData struct {
	Clients []ClientInfo `json:"clients"`
}

// WindowPayload targets a window; 0 means the focused window.
type WindowPayload struct {
	Window uint32 `json:"window,omitempty"`
}

// DesktopPayload is the payload for SET_DESKTOP.
type DesktopPayload struct {
	Desktop int `json:"desktop"`
}

// SendToDesktopPayload is the payload for SEND_TO_DESKTOP.
type SendToDesktopPayload struct {
	Window  uint32 `json:"window,omitempty"`
	Desktop int    `json:"desktop"`
}

// LayerPayload is the payload for SET_LAYER.
type LayerPayload struct {
	Window uint32 `json:"window,omitempty"`
	Layer  int    `json:"layer"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("request has no command")
	}
	return &req, nil
}

// NewRequest builds a request with an optional payload.
func NewRequest(cmd CommandType, payload any) (*Request, error) {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}
	return req, nil
}

// DecodePayload unmarshals the request payload into out. An absent payload
// leaves out untouched.
func (r *Request) DecodePayload(out any) error {
	if len(r.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Payload, out); err != nil {
		return fmt.Errorf("invalid %s payload: %w", r.Command, err)
	}
	return nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
