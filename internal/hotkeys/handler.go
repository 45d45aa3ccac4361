package hotkeys

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/layerwm/internal/config"
	"github.com/1broseidon/layerwm/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler grabs the configured hotkeys on the root window and keeps the
// lookup table in sync with the keyboard mapping.
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	hotkeys map[config.Action]string
	logger  *slog.Logger

	table *Table
}

// NewHandler creates a hotkey handler for an X11 backend.
func NewHandler(backend platform.Backend, hotkeys map[config.Action]string, logger *slog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, fmt.Errorf("hotkeys require an X11 backend")
	}
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		xu:      accessor.XUtil(),
		root:    accessor.RootWindow(),
		hotkeys: hotkeys,
		logger:  logger,
	}
	configureIgnoreMods(h.xu)
	return h, nil
}

// Grab parses and grabs every hotkey. Bindings that fail to parse or grab
// are logged and skipped.
func (h *Handler) Grab() {
	table, err := NewTable(h.hotkeys, func(seq string) (uint16, []xproto.Keycode, error) {
		return keybind.ParseString(h.xu, seq)
	}, xevent.IgnoreMods)
	if err != nil {
		h.logger.Warn("some hotkeys could not be parsed", "error", err)
	}

	for _, b := range table.Bindings() {
		for _, code := range b.Codes {
			if err := keybind.GrabChecked(h.xu, h.root, b.Mods, code); err != nil {
				h.logger.Warn("failed to grab hotkey", "action", b.Action, "keys", b.Sequence, "error", err)
			}
		}
	}
	h.table = table
}

// Ungrab releases every grabbed hotkey.
func (h *Handler) Ungrab() {
	if h.table == nil {
		return
	}
	for _, b := range h.table.Bindings() {
		for _, code := range b.Codes {
			keybind.Ungrab(h.xu, h.root, b.Mods, code)
		}
	}
}

// Remap reloads the keyboard mapping after a MappingNotify and grabs the
// hotkeys again, since keycodes may have moved.
func (h *Handler) Remap(ev xproto.MappingNotifyEvent) {
	if ev.Request != xproto.MappingKeyboard && ev.Request != xproto.MappingModifier {
		return
	}
	h.Ungrab()
	keyMap, modMap := keybind.MapsGet(h.xu)
	keybind.KeyMapSet(h.xu, keyMap)
	keybind.ModMapSet(h.xu, modMap)
	configureIgnoreMods(h.xu)
	h.Grab()
}

// Lookup returns the action bound to a key press.
func (h *Handler) Lookup(ev xproto.KeyPressEvent) (config.Action, bool) {
	if h.table == nil {
		return "", false
	}
	return h.table.Lookup(ev.State, ev.Detail)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	xevent.IgnoreMods = ignoreMaskSubsets(caps, numLock, scrollLock)
}

// ignoreMaskSubsets returns every combination of the distinct non-zero
// masks, including the empty one.
func ignoreMaskSubsets(masks ...uint16) []uint16 {
	var base []uint16
	seen := make(map[uint16]struct{})
	for _, m := range masks {
		if m == 0 {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		base = append(base, m)
	}

	out := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
