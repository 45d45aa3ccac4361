package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/layerwm/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the window manager running on display
// ($DISPLAY when empty).
func NewClient(display string) *Client {
	socketPath, err := runtimepath.SocketPath(display)
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientForSocket(socketPath)
}

// NewClientForSocket creates a client for an explicit socket path.
func NewClientForSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	// Connect to socket
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is layerwm running?)", err)
	}
	defer conn.Close()

	// Set deadline
	conn.SetDeadline(time.Now().Add(c.timeout))

	// Marshal request
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Send request
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Read response
	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Parse response
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) command(cmd CommandType, payload any) error {
	req, err := NewRequest(cmd, payload)
	if err != nil {
		return err
	}
	_, err = c.sendRequest(req)
	return err
}

func (c *Client) query(cmd CommandType, out any) error {
	resp, err := c.sendRequest(&Request{Command: cmd})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// Ping checks whether the daemon is reachable.
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.query(CommandGetStatus, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	var monitors MonitorsData
	if err := c.query(CommandGetMonitors, &monitors); err != nil {
		return nil, err
	}
	return &monitors, nil
}

// ListClients retrieves every managed window, bottom of the stack first.
func (c *Client) ListClients() (*ClientsData, error) {
	var clients ClientsData
	if err := c.query(CommandListClients, &clients); err != nil {
		return nil, err
	}
	return &clients, nil
}

// SetDesktop switches the current desktop.
func (c *Client) SetDesktop(desktop int) error {
	return c.command(CommandSetDesktop, DesktopPayload{Desktop: desktop})
}

// SendToDesktop moves a window to another desktop.
func (c *Client) SendToDesktop(window uint32, desktop int) error {
	return c.command(CommandSendToDesktop, SendToDesktopPayload{Window: window, Desktop: desktop})
}

// Focus focuses a visible window.
func (c *Client) Focus(window uint32) error {
	return c.command(CommandFocus, WindowPayload{Window: window})
}

// SetLayer moves a window to a stacking layer.
func (c *Client) SetLayer(window uint32, layer int) error {
	return c.command(CommandSetLayer, LayerPayload{Window: window, Layer: layer})
}

// LayerUp raises a window by one layer.
func (c *Client) LayerUp(window uint32) error {
	return c.command(CommandLayerUp, WindowPayload{Window: window})
}

// LayerDown lowers a window by one layer.
func (c *Client) LayerDown(window uint32) error {
	return c.command(CommandLayerDown, WindowPayload{Window: window})
}

// ToggleSticky shows a window on every desktop, or pins it back to the
// current one.
func (c *Client) ToggleSticky(window uint32) error {
	return c.command(CommandToggleSticky, WindowPayload{Window: window})
}

// Iconify hides a window as an icon.
func (c *Client) Iconify(window uint32) error {
	return c.command(CommandIconify, WindowPayload{Window: window})
}

// Deiconify restores an icon. Window 0 restores the most recently iconified
// window.
func (c *Client) Deiconify(window uint32) error {
	return c.command(CommandDeiconify, WindowPayload{Window: window})
}

// Close asks a window to close.
func (c *Client) Close(window uint32) error {
	return c.command(CommandClose, WindowPayload{Window: window})
}

// Quit stops the window manager.
func (c *Client) Quit() error {
	return c.command(CommandQuit, nil)
}
