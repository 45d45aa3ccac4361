package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw on top of DefaultConfig. Hotkeys given in
// raw replace the default binding for that action; an empty key sequence
// disables it.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	cfg.MaxDesktops = derefInt(raw.MaxDesktops, cfg.MaxDesktops)
	cfg.BorderWidth = derefInt(raw.BorderWidth, cfg.BorderWidth)
	if raw.FocusedBorderColor != nil {
		cfg.FocusedBorderColor = *raw.FocusedBorderColor
	}
	if raw.UnfocusedBorderColor != nil {
		cfg.UnfocusedBorderColor = *raw.UnfocusedBorderColor
	}
	cfg.GapSize = derefInt(raw.GapSize, cfg.GapSize)
	if raw.MoveModifier != nil {
		cfg.MoveModifier = *raw.MoveModifier
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFile != nil {
		cfg.LogFile = *raw.LogFile
	}
	cfg.ReconcileIntervalSeconds = derefInt(raw.ReconcileIntervalSeconds, cfg.ReconcileIntervalSeconds)

	for action, key := range raw.Hotkeys {
		cfg.Hotkeys[action] = key
	}

	for _, class := range sortedKeys(raw.ClassActions) {
		rc := raw.ClassActions[class]
		act := ClassAction{Layer: derefInt(rc.Layer, 0)}
		if rc.Stick != nil {
			act.Stick = *rc.Stick
		}
		if rc.Maximize != nil {
			act.Maximize = *rc.Maximize
		}
		if rc.Snap != nil {
			act.Snap = *rc.Snap
		}
		if act == (ClassAction{}) {
			return nil, &ValidationError{Path: "class_actions." + class, Err: fmt.Errorf("class action sets nothing")}
		}
		cfg.ClassActions[class] = act
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
