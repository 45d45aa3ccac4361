package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	display
//	max_desktops
//	border_width
//	focused_border_color
//	unfocused_border_color
//	gap_size
//	move_modifier
//	hotkeys
//	hotkeys.<action>
//	class_actions
//	class_actions.<WM_CLASS>
//	class_actions.<WM_CLASS>.layer
//	log_level
//	log_file
//	reconcile_interval_seconds
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	unknown := fmt.Errorf("unknown path: %s", path)

	scalar := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, unknown
		}
		return v, nil
	}

	switch parts[0] {
	case "display":
		return scalar(cfg.Display)
	case "max_desktops":
		return scalar(cfg.MaxDesktops)
	case "border_width":
		return scalar(cfg.BorderWidth)
	case "focused_border_color":
		return scalar(cfg.FocusedBorderColor)
	case "unfocused_border_color":
		return scalar(cfg.UnfocusedBorderColor)
	case "gap_size":
		return scalar(cfg.GapSize)
	case "move_modifier":
		return scalar(cfg.MoveModifier)
	case "log_level":
		return scalar(cfg.LogLevel)
	case "log_file":
		return scalar(cfg.LogFile)
	case "reconcile_interval_seconds":
		return scalar(cfg.ReconcileIntervalSeconds)
	case "hotkeys":
		switch len(parts) {
		case 1:
			return cfg.Hotkeys, nil
		case 2:
			key, ok := cfg.Hotkeys[Action(parts[1])]
			if !ok {
				return nil, fmt.Errorf("no hotkey for action %q", parts[1])
			}
			return key, nil
		}
		return nil, unknown
	case "class_actions":
		if len(parts) == 1 {
			return cfg.ClassActions, nil
		}
		act, ok := cfg.ClassActions[parts[1]]
		if !ok {
			return nil, fmt.Errorf("no class action for %q", parts[1])
		}
		if len(parts) == 2 {
			return act, nil
		}
		if len(parts) != 3 {
			return nil, unknown
		}
		switch parts[2] {
		case "stick":
			return act.Stick, nil
		case "maximize":
			return act.Maximize, nil
		case "layer":
			return act.Layer, nil
		case "snap":
			return act.Snap, nil
		}
	}
	return nil, unknown
}
