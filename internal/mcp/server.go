package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/layerwm/internal/ipc"
)

const (
	ServerName    = "layerwm"
	ServerVersion = "0.1.0"
)

// Controller is the window-manager control surface the tools drive.
// *ipc.Client implements it against a running daemon.
type Controller interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	ListClients() (*ipc.ClientsData, error)
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

var _ Controller = (*ipc.Client)(nil)

// Server is the MCP server exposing window-manager control as tools.
type Server struct {
	mcpServer *mcpsdk.Server
	wm        Controller
	logger    *slog.Logger
}

// NewServer creates a new MCP server backed by wm.
func NewServer(wm Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		wm:     wm,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the current desktop, the number of desktops, the focused window and how many clients and icons are managed.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_clients",
		Description: "List every managed window with its title, WM_CLASS, desktop (a number, or all/icons/invisible), layer and geometry. Visible windows come first in stacking order from bottom to top.",
	}, s.handleListClients)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_monitors",
		Description: "List the connected monitors and their geometry.",
	}, s.handleGetMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_desktop",
		Description: "Switch the visible desktop. Windows on other desktops are hidden; sticky windows stay visible.",
	}, s.handleSwitchDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "send_to_desktop",
		Description: "Move a window to another desktop without switching to it.",
	}, s.handleSendToDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Give a visible window the input focus.",
	}, s.handleFocus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_layer",
		Description: "Put a window on a stacking layer. Windows on higher layers are always stacked above lower ones.",
	}, s.handleSetLayer)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "raise_layer",
		Description: "Move a window one stacking layer up.",
	}, s.windowTool(Controller.LayerUp))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "lower_layer",
		Description: "Move a window one stacking layer down.",
	}, s.windowTool(Controller.LayerDown))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_sticky",
		Description: "Toggle whether a window is shown on every desktop.",
	}, s.windowTool(Controller.ToggleSticky))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "iconify_window",
		Description: "Iconify (minimize) a window.",
	}, s.windowTool(Controller.Iconify))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "deiconify_window",
		Description: "Restore an iconified window onto the current desktop and focus it. The window id is required in practice since iconified windows are never focused.",
	}, s.windowTool(Controller.Deiconify))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Ask a window to close (WM_DELETE_WINDOW), or kill its client if it does not support that.",
	}, s.windowTool(Controller.Close))
}
