package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawClassAction is a class action as written in one file; unset fields
// inherit from earlier files.
type RawClassAction struct {
	Stick    *bool   `yaml:"stick"`
	Maximize *bool   `yaml:"maximize"`
	Layer    *int    `yaml:"layer"`
	Snap     *string `yaml:"snap"`
}

// RawConfig is a single YAML file before defaults are applied. Pointer
// fields distinguish "unset" from the zero value so that files can be
// layered with include.
type RawConfig struct {
	Include                  IncludeList               `yaml:"include"`
	Display                  *string                   `yaml:"display"`
	MaxDesktops              *int                      `yaml:"max_desktops"`
	BorderWidth              *int                      `yaml:"border_width"`
	FocusedBorderColor       *string                   `yaml:"focused_border_color"`
	UnfocusedBorderColor     *string                   `yaml:"unfocused_border_color"`
	GapSize                  *int                      `yaml:"gap_size"`
	MoveModifier             *string                   `yaml:"move_modifier"`
	Hotkeys                  map[Action]string         `yaml:"hotkeys"`
	ClassActions             map[string]RawClassAction `yaml:"class_actions"`
	LogLevel                 *string                   `yaml:"log_level"`
	LogFile                  *string                   `yaml:"log_file"`
	ReconcileIntervalSeconds *int                      `yaml:"reconcile_interval_seconds"`
}

// merge returns c with every field set in overlay replacing its own.
// Hotkeys and class actions are merged per key.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.MaxDesktops != nil {
		out.MaxDesktops = overlay.MaxDesktops
	}
	if overlay.BorderWidth != nil {
		out.BorderWidth = overlay.BorderWidth
	}
	if overlay.FocusedBorderColor != nil {
		out.FocusedBorderColor = overlay.FocusedBorderColor
	}
	if overlay.UnfocusedBorderColor != nil {
		out.UnfocusedBorderColor = overlay.UnfocusedBorderColor
	}
	if overlay.GapSize != nil {
		out.GapSize = overlay.GapSize
	}
	if overlay.MoveModifier != nil {
		out.MoveModifier = overlay.MoveModifier
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.LogFile != nil {
		out.LogFile = overlay.LogFile
	}
	if overlay.ReconcileIntervalSeconds != nil {
		out.ReconcileIntervalSeconds = overlay.ReconcileIntervalSeconds
	}

	if overlay.Hotkeys != nil {
		merged := make(map[Action]string, len(c.Hotkeys)+len(overlay.Hotkeys))
		for k, v := range c.Hotkeys {
			merged[k] = v
		}
		for k, v := range overlay.Hotkeys {
			merged[k] = v
		}
		out.Hotkeys = merged
	}

	if overlay.ClassActions != nil {
		merged := make(map[string]RawClassAction, len(c.ClassActions)+len(overlay.ClassActions))
		for k, v := range c.ClassActions {
			merged[k] = v
		}
		for k, v := range overlay.ClassActions {
			merged[k] = mergeRawClassAction(merged[k], v)
		}
		out.ClassActions = merged
	}
	return out
}

func mergeRawClassAction(base RawClassAction, overlay RawClassAction) RawClassAction {
	out := base
	if overlay.Stick != nil {
		out.Stick = overlay.Stick
	}
	if overlay.Maximize != nil {
		out.Maximize = overlay.Maximize
	}
	if overlay.Layer != nil {
		out.Layer = overlay.Layer
	}
	if overlay.Snap != nil {
		out.Snap = overlay.Snap
	}
	return out
}
