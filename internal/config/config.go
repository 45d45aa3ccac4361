package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Action names a window-manager command that can be bound to a hotkey.
type Action string

const (
	ActionClose             Action = "close"
	ActionIconify           Action = "iconify"
	ActionDeiconifyLast     Action = "deiconify_last"
	ActionRaiseLayer        Action = "raise_layer"
	ActionLowerLayer        Action = "lower_layer"
	ActionToggleSticky      Action = "toggle_sticky"
	ActionNextDesktop       Action = "next_desktop"
	ActionPrevDesktop       Action = "prev_desktop"
	ActionClientNextDesktop Action = "client_next_desktop"
	ActionClientPrevDesktop Action = "client_prev_desktop"
	ActionMaximize          Action = "maximize"
	ActionSnapLeft          Action = "snap_left"
	ActionSnapRight         Action = "snap_right"
	ActionSnapTop           Action = "snap_top"
	ActionSnapBottom        Action = "snap_bottom"
	ActionTile              Action = "tile"
	ActionQuit              Action = "quit"
)

// LayerAction returns the action that moves the focused client to layer n.
func LayerAction(n int) Action {
	return Action("layer_" + strconv.Itoa(n))
}

// ParseLayerAction reports the layer a layer_N action refers to.
func ParseLayerAction(a Action) (int, bool) {
	rest, ok := strings.CutPrefix(string(a), "layer_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < MinLayer || n > MaxLayer {
		return 0, false
	}
	return n, true
}

// Layer bounds accepted in class actions and layer hotkeys.
const (
	MinLayer = 1
	MaxLayer = 9
)

// KnownActions lists every action a hotkey may be bound to.
func KnownActions() []Action {
	actions := []Action{
		ActionClose, ActionIconify, ActionDeiconifyLast,
		ActionRaiseLayer, ActionLowerLayer, ActionToggleSticky,
		ActionNextDesktop, ActionPrevDesktop,
		ActionClientNextDesktop, ActionClientPrevDesktop,
		ActionMaximize, ActionSnapLeft, ActionSnapRight, ActionSnapTop, ActionSnapBottom,
		ActionTile, ActionQuit,
	}
	for n := MinLayer; n <= MaxLayer; n++ {
		actions = append(actions, LayerAction(n))
	}
	return actions
}

func isKnownAction(a Action) bool {
	if _, ok := ParseLayerAction(a); ok {
		return true
	}
	for _, known := range KnownActions() {
		if known == a {
			return true
		}
	}
	return false
}

// ClassAction is applied to every new client whose WM_CLASS class matches.
type ClassAction struct {
	Stick    bool   `yaml:"stick,omitempty"`
	Maximize bool   `yaml:"maximize,omitempty"`
	Layer    int    `yaml:"layer,omitempty"` // 0 = leave the default layer
	Snap     string `yaml:"snap,omitempty"`  // left, right, top or bottom
}

// Config is the effective window-manager configuration.
type Config struct {
	Display                  string                 `yaml:"display,omitempty"`
	MaxDesktops              int                    `yaml:"max_desktops"`
	BorderWidth              int                    `yaml:"border_width"`
	FocusedBorderColor       string                 `yaml:"focused_border_color"`
	UnfocusedBorderColor     string                 `yaml:"unfocused_border_color"`
	GapSize                  int                    `yaml:"gap_size"`
	MoveModifier             string                 `yaml:"move_modifier"`
	Hotkeys                  map[Action]string      `yaml:"hotkeys"`
	ClassActions             map[string]ClassAction `yaml:"class_actions,omitempty"`
	LogLevel                 string                 `yaml:"log_level"`
	LogFile                  string                 `yaml:"log_file,omitempty"`
	ReconcileIntervalSeconds int                    `yaml:"reconcile_interval_seconds"`
}

// DefaultHotkeys returns the built-in key bindings.
func DefaultHotkeys() map[Action]string {
	keys := map[Action]string{
		ActionClose:             "Mod4-Escape",
		ActionIconify:           "Mod4-h",
		ActionDeiconifyLast:     "Mod4-Shift-h",
		ActionRaiseLayer:        "Mod4-Page_Up",
		ActionLowerLayer:        "Mod4-Page_Down",
		ActionToggleSticky:      "Mod4-backslash",
		ActionNextDesktop:       "Mod4-bracketright",
		ActionPrevDesktop:       "Mod4-bracketleft",
		ActionClientNextDesktop: "Mod4-period",
		ActionClientPrevDesktop: "Mod4-comma",
		ActionMaximize:          "Mod4-m",
		ActionSnapLeft:          "Mod4-Left",
		ActionSnapRight:         "Mod4-Right",
		ActionSnapTop:           "Mod4-Up",
		ActionSnapBottom:        "Mod4-Down",
		ActionTile:              "Mod4-t",
		ActionQuit:              "Mod4-Shift-Escape",
	}
	for n := MinLayer; n <= MaxLayer; n++ {
		keys[LayerAction(n)] = "Mod4-" + strconv.Itoa(n)
	}
	return keys
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		MaxDesktops:              5,
		BorderWidth:              2,
		FocusedBorderColor:       "#000000",
		UnfocusedBorderColor:     "#ffffff",
		GapSize:                  0,
		MoveModifier:             "Mod4",
		Hotkeys:                  DefaultHotkeys(),
		ClassActions:             map[string]ClassAction{},
		LogLevel:                 "info",
		ReconcileIntervalSeconds: 10,
	}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "layerwm", "config.yaml"), nil
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.MaxDesktops < 1 {
		return &ValidationError{Path: "max_desktops", Err: fmt.Errorf("max_desktops must be >= 1")}
	}
	if c.BorderWidth < 0 {
		return &ValidationError{Path: "border_width", Err: fmt.Errorf("border_width must be >= 0")}
	}
	if _, err := ParseColor(c.FocusedBorderColor); err != nil {
		return &ValidationError{Path: "focused_border_color", Err: err}
	}
	if _, err := ParseColor(c.UnfocusedBorderColor); err != nil {
		return &ValidationError{Path: "unfocused_border_color", Err: err}
	}
	if c.GapSize < 0 {
		return &ValidationError{Path: "gap_size", Err: fmt.Errorf("gap_size must be >= 0")}
	}
	if strings.TrimSpace(c.MoveModifier) == "" {
		return &ValidationError{Path: "move_modifier", Err: fmt.Errorf("move_modifier is required")}
	}
	if c.Hotkeys == nil {
		return &ValidationError{Path: "hotkeys", Err: fmt.Errorf("hotkeys must not be null")}
	}
	for _, action := range sortedKeys(c.Hotkeys) {
		if !isKnownAction(action) {
			return &ValidationError{Path: "hotkeys." + string(action), Err: fmt.Errorf("unknown action %q", action)}
		}
	}
	for _, class := range sortedKeys(c.ClassActions) {
		act := c.ClassActions[class]
		path := "class_actions." + class
		if strings.TrimSpace(class) == "" {
			return &ValidationError{Path: "class_actions", Err: fmt.Errorf("class_actions contains an empty class name")}
		}
		if act.Layer != 0 && (act.Layer < MinLayer || act.Layer > MaxLayer) {
			return &ValidationError{Path: path + ".layer", Err: fmt.Errorf("layer must be between %d and %d", MinLayer, MaxLayer)}
		}
		switch act.Snap {
		case "", "left", "right", "top", "bottom":
		default:
			return &ValidationError{Path: path + ".snap", Err: fmt.Errorf("snap must be one of: left, right, top, bottom")}
		}
		if act.Maximize && act.Snap != "" {
			return &ValidationError{Path: path, Err: fmt.Errorf("maximize and snap are mutually exclusive")}
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.ReconcileIntervalSeconds < 0 {
		return &ValidationError{Path: "reconcile_interval_seconds", Err: fmt.Errorf("reconcile_interval_seconds must be >= 0")}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}
	return nil
}

func (c *Config) validationWarnings() []string {
	var warnings []string

	seen := make(map[string]Action)
	for _, action := range sortedKeys(c.Hotkeys) {
		key := strings.TrimSpace(c.Hotkeys[action])
		if key == "" {
			continue
		}
		if prev, dup := seen[key]; dup {
			warnings = append(warnings, fmt.Sprintf("hotkey %q is bound to both %s and %s; %s wins", key, prev, action, prev))
			continue
		}
		seen[key] = action
	}
	return warnings
}

// ParseColor parses a "#rrggbb" color into a 24-bit pixel value.
func ParseColor(s string) (uint32, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok || len(hex) != 6 {
		return 0, fmt.Errorf("color %q must look like #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}

// FocusedBorderPixel returns the parsed focused border color.
func (c *Config) FocusedBorderPixel() uint32 {
	v, _ := ParseColor(c.FocusedBorderColor)
	return v
}

// UnfocusedBorderPixel returns the parsed unfocused border color.
func (c *Config) UnfocusedBorderPixel() uint32 {
	v, _ := ParseColor(c.UnfocusedBorderColor)
	return v
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
