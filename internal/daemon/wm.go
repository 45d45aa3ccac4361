package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/layerwm/internal/clientstate"
	"github.com/1broseidon/layerwm/internal/config"
	"github.com/1broseidon/layerwm/internal/dispatch"
	"github.com/1broseidon/layerwm/internal/platform"
	"github.com/1broseidon/layerwm/internal/tiling"
	"github.com/BurntSushi/xgb/xproto"
)

// HotkeyResolver resolves key presses to actions.
type HotkeyResolver interface {
	Lookup(ev xproto.KeyPressEvent) (config.Action, bool)
	Remap(ev xproto.MappingNotifyEvent)
}

// Options configures a WM.
type Options struct {
	Config  *config.Config
	Hotkeys HotkeyResolver
	Logger  *slog.Logger
}

// drag tracks the pointer side of a move or resize gesture.
type drag struct {
	window  clientstate.Window
	gesture clientstate.Gesture
	startX  int
	startY  int
	origin  platform.Rect
	current platform.Rect
}

// WM wires the client state model to the window system: dispatcher handlers
// mutate the state, and after every event the applier acts on the changes.
type WM struct {
	cfg        *config.Config
	state      *clientstate.State
	backend    platform.Backend
	hotkeys    HotkeyResolver
	logger     *slog.Logger
	dispatcher *dispatch.Dispatcher[EventKind, Event]
	applier    *applier
	reconciler *Reconciler

	classes   map[clientstate.Window]string
	drag      *drag
	startTime time.Time
}

// New creates a window manager reading events from source.
func New(backend platform.Backend, source dispatch.Producer[EventKind, Event], opts Options) (*WM, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	state, err := clientstate.New(clientstate.Options{MaxDesktops: cfg.MaxDesktops})
	if err != nil {
		return nil, fmt.Errorf("failed to create client state: %w", err)
	}

	wm := &WM{
		cfg:       cfg,
		state:     state,
		backend:   backend,
		hotkeys:   opts.Hotkeys,
		logger:    logger,
		applier:   newApplier(state, backend, logger, cfg.FocusedBorderPixel(), cfg.UnfocusedBorderPixel()),
		classes:   make(map[clientstate.Window]string),
		startTime: time.Now(),
	}
	wm.reconciler = NewReconciler(ReconcilerConfig{Logger: logger}, state, backend.TopLevelWindows, wm.removeClient)
	wm.dispatcher = dispatch.New[EventKind, Event](source,
		dispatch.WithLogger(logger),
		dispatch.WithAfterStep(wm.afterStep),
	)
	wm.registerHandlers()
	return wm, nil
}

func (wm *WM) registerHandlers() {
	d := wm.dispatcher
	d.Register(EventMapRequest, wm.onMapRequest)
	d.Register(EventConfigureRequest, wm.onConfigureRequest)
	d.Register(EventUnmapNotify, wm.onUnmapNotify)
	d.Register(EventDestroyNotify, wm.onDestroyNotify)
	d.Register(EventKeyPress, wm.onKeyPress)
	d.Register(EventButtonPress, wm.onButtonPress)
	d.Register(EventMotionNotify, wm.onMotionNotify)
	d.Register(EventButtonRelease, wm.onButtonRelease)
	d.Register(EventMappingNotify, wm.onMappingNotify)
	d.Register(EventCommand, wm.onCommand)
	d.Register(EventReconcile, wm.onReconcile)
}

// State exposes the client state model.
func (wm *WM) State() *clientstate.State {
	return wm.state
}

// Dispatcher exposes the event dispatcher, e.g. for extra handlers.
func (wm *WM) Dispatcher() *dispatch.Dispatcher[EventKind, Event] {
	return wm.dispatcher
}

// Run adopts the windows already on screen and processes events until a
// quit request, or until the source fails or ctx is cancelled.
func (wm *WM) Run(ctx context.Context) error {
	if err := wm.backend.SetCurrentDesktop(int(wm.state.CurrentDesktop())); err != nil {
		wm.logger.Warn("failed to publish current desktop", "error", err)
	}
	wm.Adopt()
	wm.logger.Info("window manager running", "desktops", wm.state.MaxDesktops())
	return wm.dispatcher.Run(ctx)
}

// Adopt manages the mapped top-level windows present at startup.
func (wm *WM) Adopt() {
	windows, err := wm.backend.TopLevelWindows()
	if err != nil {
		wm.logger.Warn("failed to list existing windows", "error", err)
		return
	}
	for _, id := range windows {
		info, err := wm.backend.WindowInfo(id)
		if err != nil || info.OverrideRedirect || !info.Viewable {
			continue
		}
		w := clientstate.Window(id)
		if wm.manage(w, info) {
			wm.applier.markMapped(w)
		}
	}
	wm.afterStep()
}

func (wm *WM) afterStep() {
	wm.applier.apply()
	if wm.logger.Enabled(context.Background(), slog.LevelDebug) {
		if err := wm.state.Validate(); err != nil {
			wm.logger.Error("client state inconsistent", "error", err)
		}
	}
}

// manage registers a new client. It reports whether the window is now
// tracked; windows that are not normal application windows are mapped and
// otherwise left alone.
func (wm *WM) manage(w clientstate.Window, info platform.WindowInfo) bool {
	id := platform.WindowID(w)
	if info.OverrideRedirect {
		return false
	}
	if !info.Normal {
		wm.backend.Map(id)
		return false
	}

	hints := clientstate.Hints{
		StateHint: info.StateHint,
		Iconic:    info.Iconic,
		Geometry:  clientstate.Rect(info.Geometry),
		Transient: info.Transient,
		Class:     info.Class,
	}
	prev, hadFocus := wm.state.Focused()
	if err := wm.state.Register(w, hints); err != nil {
		wm.logger.Warn("failed to register window", "window", w, "error", err)
		return false
	}
	if !wm.state.IsVisible(w) {
		// Started iconic: the focus stays where it was.
		if hadFocus && wm.state.IsVisible(prev) {
			if err := wm.state.Focus(prev); err != nil {
				wm.logger.Warn("failed to restore focus", "window", prev, "error", err)
			}
		} else {
			wm.state.Unfocus()
		}
	}
	if err := wm.backend.Manage(id); err != nil {
		// The window vanished between the request and now.
		wm.logger.Debug("failed to manage window", "window", w, "error", err)
		wm.removeClient(w)
		return false
	}
	wm.classes[w] = info.Class
	if info.Transient {
		if err := wm.state.SetLayer(w, clientstate.DialogLayer); err != nil {
			wm.logger.Warn("failed to raise transient window", "window", w, "error", err)
		}
	}
	wm.applyClassAction(w, info.Class)

	wm.logger.Debug("managing window", "window", w, "class", info.Class, "transient", info.Transient)
	return true
}

// applyClassAction applies the configured per-WM_CLASS actions to a newly
// managed window.
func (wm *WM) applyClassAction(w clientstate.Window, class string) {
	act, ok := wm.cfg.ClassActions[class]
	if !ok {
		return
	}
	if act.Layer != 0 {
		if err := wm.state.SetLayer(w, clientstate.Layer(act.Layer)); err != nil {
			wm.logger.Warn("class action: bad layer", "class", class, "error", err)
		}
	}
	if act.Stick {
		if d, err := wm.state.FindDesktop(w); err == nil && d != clientstate.DesktopAll {
			if err := wm.state.ToggleSticky(w); err != nil {
				wm.logger.Warn("class action: stick failed", "class", class, "error", err)
			}
		}
	}
	switch {
	case act.Maximize:
		if err := wm.placeWindow(w, func(area tiling.Rect) tiling.Rect {
			return tiling.Maximize(area, wm.cfg.GapSize)
		}); err != nil {
			wm.logger.Warn("class action: maximize failed", "class", class, "error", err)
		}
	case act.Snap != "":
		side, err := tiling.ParseSide(act.Snap)
		if err != nil {
			wm.logger.Warn("class action: bad snap side", "class", class, "error", err)
			return
		}
		if err := wm.placeWindow(w, func(area tiling.Rect) tiling.Rect {
			return tiling.Snap(area, side, wm.cfg.GapSize)
		}); err != nil {
			wm.logger.Warn("class action: snap failed", "class", class, "error", err)
		}
	}
}

// placeWindow moves w to a rectangle computed from the usable area of the
// display holding its center.
func (wm *WM) placeWindow(w clientstate.Window, place func(area tiling.Rect) tiling.Rect) error {
	geom, err := wm.state.Geometry(w)
	if err != nil {
		return err
	}
	area, err := wm.usableAreaAt(platform.Rect(geom).Center())
	if err != nil {
		return err
	}
	target := place(area)
	if err := wm.state.MoveClient(w, target.X, target.Y); err != nil {
		return err
	}
	return wm.state.ResizeClient(w, target.Width, target.Height)
}

func (wm *WM) usableAreaAt(x, y int) (tiling.Rect, error) {
	displays, err := wm.backend.Displays()
	if err != nil {
		return tiling.Rect{}, fmt.Errorf("failed to read displays: %w", err)
	}
	display, ok := platform.DisplayAt(displays, x, y)
	if !ok {
		return tiling.Rect{}, errors.New("no displays")
	}
	return tiling.Rect(display.Usable), nil
}

// removeClient forgets a window entirely.
func (wm *WM) removeClient(w clientstate.Window) {
	if wm.drag != nil && wm.drag.window == w {
		wm.drag = nil
		wm.backend.HidePlaceholder()
	}
	if err := wm.state.Remove(w); err != nil && !errors.Is(err, clientstate.ErrNotFound) {
		wm.logger.Warn("failed to remove window", "window", w, "error", err)
	}
	wm.applier.forget(w)
	delete(wm.classes, w)
}

// target resolves a window argument: zero means the focused window, anything
// else must be tracked.
func (wm *WM) target(id uint32) (clientstate.Window, error) {
	if id == 0 {
		w, ok := wm.state.Focused()
		if !ok {
			return 0, errors.New("no window is focused")
		}
		return w, nil
	}
	w := clientstate.Window(id)
	if !wm.state.IsTracked(w) {
		return 0, fmt.Errorf("window %d: %w", id, clientstate.ErrNotFound)
	}
	return w, nil
}
