package hotkeys

import (
	"errors"
	"fmt"
	"sort"

	"github.com/1broseidon/layerwm/internal/config"
	"github.com/BurntSushi/xgb/xproto"
)

// keyModMask is the set of modifier bits a key binding can carry. Button
// state bits in KeyPress events are dropped.
const keyModMask = xproto.ModMaskShift | xproto.ModMaskLock | xproto.ModMaskControl |
	xproto.ModMask1 | xproto.ModMask2 | xproto.ModMask3 | xproto.ModMask4 | xproto.ModMask5

// Binding is one parsed hotkey.
type Binding struct {
	Action   config.Action
	Sequence string
	Mods     uint16
	Codes    []xproto.Keycode
}

// ParseFunc turns a key sequence like "Mod4-Shift-Escape" into a modifier
// mask and the keycodes that produce the key.
type ParseFunc func(sequence string) (uint16, []xproto.Keycode, error)

// Table resolves KeyPress events to actions.
type Table struct {
	bindings []Binding
	ignore   uint16
}

// NewTable parses every non-empty hotkey. Sequences that fail to parse are
// reported together in the returned error; the table still holds the rest.
// ignoreMods lists lock modifiers (CapsLock, NumLock) that must not affect
// matching.
func NewTable(hotkeys map[config.Action]string, parse ParseFunc, ignoreMods []uint16) (*Table, error) {
	t := &Table{}
	for _, m := range ignoreMods {
		t.ignore |= m
	}

	actions := make([]config.Action, 0, len(hotkeys))
	for action := range hotkeys {
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })

	var errs []error
	for _, action := range actions {
		seq := hotkeys[action]
		if seq == "" {
			continue
		}
		mods, codes, err := parse(seq)
		if err != nil {
			errs = append(errs, fmt.Errorf("hotkey %s (%q): %w", action, seq, err))
			continue
		}
		t.bindings = append(t.bindings, Binding{
			Action:   action,
			Sequence: seq,
			Mods:     mods &^ t.ignore,
			Codes:    codes,
		})
	}
	return t, errors.Join(errs...)
}

// Bindings returns the parsed bindings sorted by action.
func (t *Table) Bindings() []Binding {
	return append([]Binding(nil), t.bindings...)
}

// Lookup returns the action bound to a key press. When two actions share a
// sequence the first by name wins.
func (t *Table) Lookup(state uint16, code xproto.Keycode) (config.Action, bool) {
	mods := state & keyModMask &^ t.ignore
	for _, b := range t.bindings {
		if b.Mods != mods {
			continue
		}
		for _, c := range b.Codes {
			if c == code {
				return b.Action, true
			}
		}
	}
	return "", false
}
