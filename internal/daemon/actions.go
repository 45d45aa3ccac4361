package daemon

import (
	"fmt"

	"github.com/1broseidon/layerwm/internal/clientstate"
	"github.com/1broseidon/layerwm/internal/config"
	"github.com/1broseidon/layerwm/internal/platform"
	"github.com/1broseidon/layerwm/internal/tiling"
)

var snapActions = map[config.Action]tiling.Side{
	config.ActionSnapLeft:   tiling.SideLeft,
	config.ActionSnapRight:  tiling.SideRight,
	config.ActionSnapTop:    tiling.SideTop,
	config.ActionSnapBottom: tiling.SideBottom,
}

// runAction performs a hotkey action. Window actions apply to the focused
// client and do nothing when no client is focused.
func (wm *WM) runAction(action config.Action) error {
	switch action {
	case config.ActionNextDesktop:
		wm.state.NextDesktop()
		return nil
	case config.ActionPrevDesktop:
		wm.state.PrevDesktop()
		return nil
	case config.ActionDeiconifyLast:
		w, ok := wm.applier.lastIcon()
		if !ok {
			return nil
		}
		return wm.state.Deiconify(w)
	case config.ActionTile:
		return wm.tile()
	case config.ActionQuit:
		wm.logger.Info("quit requested")
		wm.dispatcher.Terminate()
		return nil
	}

	w, ok := wm.state.Focused()
	if !ok {
		return nil
	}

	if n, ok := config.ParseLayerAction(action); ok {
		return wm.state.SetLayer(w, clientstate.Layer(n))
	}
	if side, ok := snapActions[action]; ok {
		return wm.placeWindow(w, func(area tiling.Rect) tiling.Rect {
			return tiling.Snap(area, side, wm.cfg.GapSize)
		})
	}

	switch action {
	case config.ActionClose:
		return wm.backend.Close(platform.WindowID(w))
	case config.ActionIconify:
		return wm.state.Iconify(w)
	case config.ActionRaiseLayer:
		return wm.state.RaiseLayer(w)
	case config.ActionLowerLayer:
		return wm.state.LowerLayer(w)
	case config.ActionToggleSticky:
		return wm.state.ToggleSticky(w)
	case config.ActionClientNextDesktop:
		return wm.state.ClientNextDesktop(w)
	case config.ActionClientPrevDesktop:
		return wm.state.ClientPrevDesktop(w)
	case config.ActionMaximize:
		return wm.placeWindow(w, func(area tiling.Rect) tiling.Rect {
			return tiling.Maximize(area, wm.cfg.GapSize)
		})
	}
	return fmt.Errorf("unknown action %q", action)
}

// tile arranges the clients of the current desktop in a grid on the display
// under the pointer.
func (wm *WM) tile() error {
	windows := wm.state.ClientsOn(wm.state.CurrentDesktop())
	if len(windows) == 0 {
		return nil
	}

	x, y, err := wm.backend.Pointer()
	if err != nil {
		wm.logger.Debug("failed to query pointer", "error", err)
		x, y = 0, 0
	}
	area, err := wm.usableAreaAt(x, y)
	if err != nil {
		return err
	}

	positions, err := tiling.CalculatePositions(len(windows), area, wm.cfg.GapSize)
	if err != nil {
		return fmt.Errorf("failed to tile %d windows: %w", len(windows), err)
	}
	for i, w := range windows {
		pos := positions[i]
		if err := wm.state.MoveClient(w, pos.X, pos.Y); err != nil {
			return err
		}
		if err := wm.state.ResizeClient(w, pos.Width, pos.Height); err != nil {
			return err
		}
	}
	return nil
}
