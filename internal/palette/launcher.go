package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

// launcher drives rofi or dmenu in dmenu mode. rofi reports the selected
// row index; dmenu echoes the label, so labels are made unique for it.
type launcher struct {
	command string
	rofi    bool
}

func newLauncher(command string) *launcher {
	return &launcher{command: command, rofi: command == "rofi"}
}

func (l *launcher) Show(prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}
	rows := make([]Item, len(items))
	copy(rows, items)

	cmd := exec.Command(l.command, l.args(prompt, rows)...)
	cmd.Stdin = strings.NewReader(l.input(rows))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	selection := strings.TrimSpace(string(out))
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Item{}, fmt.Errorf("%s failed: %s", l.command, msg)
		}
		return Item{}, fmt.Errorf("%s failed: %w", l.command, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}
	return l.parse(selection, rows)
}

func (l *launcher) args(prompt string, rows []Item) []string {
	if !l.rofi {
		args := []string{"-i", "-l", "20"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		return args
	}

	args := []string{"-dmenu", "-i", "-no-custom", "-format", "i", "-markup-rows", "-show-icons"}
	if prompt != "" {
		args = append(args, "-p", prompt)
	}
	var active, urgent []string
	selected := -1
	for i, row := range rows {
		if row.IsHeader {
			continue
		}
		if selected < 0 {
			selected = i
		}
		if row.IsActive {
			active = append(active, strconv.Itoa(i))
		}
		if row.IsUrgent {
			urgent = append(urgent, strconv.Itoa(i))
		}
	}
	if len(active) > 0 {
		args = append(args, "-a", strings.Join(active, ","))
	}
	if len(urgent) > 0 {
		args = append(args, "-u", strings.Join(urgent, ","))
	}
	if selected >= 0 {
		args = append(args, "-selected-row", strconv.Itoa(selected))
	}
	return args
}

// input renders one line per row. For dmenu, duplicate labels get a
// counter suffix so the echoed text identifies a single row.
func (l *launcher) input(rows []Item) string {
	seen := make(map[string]int)
	lines := make([]string, 0, len(rows))
	for i := range rows {
		label := sanitizeLabel(rows[i].Label)
		if !l.rofi && !rows[i].IsHeader {
			if n := seen[label]; n > 0 {
				label = fmt.Sprintf("%s (%d)", label, n+1)
			}
			seen[sanitizeLabel(rows[i].Label)]++
			rows[i].Label = label
		}
		lines = append(lines, l.line(rows[i], label))
	}
	return strings.Join(lines, "\n")
}

// line formats a rofi row using the \0key\x1fvalue property protocol: a
// single NUL, then pairs separated by \x1f.
func (l *launcher) line(row Item, label string) string {
	if !l.rofi {
		return label
	}
	display := html.EscapeString(label)
	var attrs []string
	if row.IsHeader {
		display = "<b>" + display + "</b>"
		attrs = append(attrs, "nonselectable", "true")
	}
	if row.Icon != "" {
		attrs = append(attrs, "icon", sanitizeField(row.Icon))
	}
	if row.Meta != "" {
		attrs = append(attrs, "meta", sanitizeField(row.Meta))
	}
	if len(attrs) == 0 {
		return display
	}
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (l *launcher) parse(selection string, rows []Item) (Item, error) {
	if l.rofi {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(rows) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return rows[idx], nil
		}
	}
	for _, row := range rows {
		if sanitizeLabel(row.Label) == selection {
			return row, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeField(value string) string {
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	return sanitizeLabel(value)
}

// isCancelExit reports the exit codes launchers use for "no selection"
// (1) and Ctrl+C (130).
func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	code := exitErr.ExitCode()
	return code == 1 || code == 130
}
