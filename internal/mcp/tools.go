package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/layerwm/internal/ipc"
)

type windowToolHandler = func(context.Context, *mcpsdk.CallToolRequest, WindowInput) (*mcpsdk.CallToolResult, ActionOutput, error)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	status, err := s.wm.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, fmt.Errorf("get status: %w", err)
	}
	return nil, *status, nil
}

func (s *Server) handleListClients(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ClientsOutput, error) {
	data, err := s.wm.ListClients()
	if err != nil {
		return nil, ClientsOutput{}, fmt.Errorf("list clients: %w", err)
	}
	return nil, ClientsOutput{Clients: data.Clients}, nil
}

func (s *Server) handleGetMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, MonitorsOutput, error) {
	data, err := s.wm.GetMonitors()
	if err != nil {
		return nil, MonitorsOutput{}, fmt.Errorf("get monitors: %w", err)
	}
	return nil, MonitorsOutput{Monitors: data.Monitors}, nil
}

func (s *Server) handleSwitchDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, args DesktopInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.Desktop < 1 {
		return nil, ActionOutput{}, fmt.Errorf("desktop must be >= 1, got %d", args.Desktop)
	}
	if err := s.wm.SetDesktop(args.Desktop); err != nil {
		s.logger.Debug("switch_desktop failed", "desktop", args.Desktop, "error", err)
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true}, nil
}

func (s *Server) handleSendToDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, args SendToDesktopInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.Desktop < 1 {
		return nil, ActionOutput{}, fmt.Errorf("desktop must be >= 1, got %d", args.Desktop)
	}
	if err := s.wm.SendToDesktop(args.Window, args.Desktop); err != nil {
		s.logger.Debug("send_to_desktop failed", "window", args.Window, "desktop", args.Desktop, "error", err)
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true, Window: args.Window}, nil
}

func (s *Server) handleFocus(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.Window == 0 {
		return nil, ActionOutput{}, fmt.Errorf("window is required")
	}
	if err := s.wm.Focus(args.Window); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true, Window: args.Window}, nil
}

func (s *Server) handleSetLayer(_ context.Context, _ *mcpsdk.CallToolRequest, args SetLayerInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.Layer < 1 || args.Layer > 9 {
		return nil, ActionOutput{}, fmt.Errorf("layer must be between 1 and 9, got %d", args.Layer)
	}
	if err := s.wm.SetLayer(args.Window, args.Layer); err != nil {
		return nil, ActionOutput{}, err
	}
	return nil, ActionOutput{OK: true, Window: args.Window}, nil
}

// windowTool adapts a single-window controller method into a tool handler.
func (s *Server) windowTool(op func(Controller, uint32) error) windowToolHandler {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
		if err := op(s.wm, args.Window); err != nil {
			s.logger.Debug("window tool failed", "window", args.Window, "error", err)
			return nil, ActionOutput{}, err
		}
		return nil, ActionOutput{OK: true, Window: args.Window}, nil
	}
}
