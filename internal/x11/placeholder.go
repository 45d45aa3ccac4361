package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ShowPlaceholder shows the outline window that stands in for a client while
// it is being moved or resized.
func (c *Connection) ShowPlaceholder(r Rect, pixel uint32) error {
	if c.placeholder == nil {
		win, err := xwindow.Generate(c.XUtil)
		if err != nil {
			return fmt.Errorf("failed to allocate placeholder: %w", err)
		}
		err = win.CreateChecked(c.Root, r.X, r.Y, max(r.Width, 1), max(r.Height, 1),
			xproto.CwBackPixel|xproto.CwOverrideRedirect, pixel, 1)
		if err != nil {
			return fmt.Errorf("failed to create placeholder: %w", err)
		}
		c.placeholder = win
	}
	c.placeholder.Change(xproto.CwBackPixel, pixel)
	c.MovePlaceholder(r)
	c.placeholder.Map()
	c.placeholder.Stack(xproto.StackModeAbove)
	return nil
}

// MovePlaceholder updates the placeholder geometry.
func (c *Connection) MovePlaceholder(r Rect) {
	if c.placeholder == nil {
		return
	}
	c.placeholder.MoveResize(r.X, r.Y, max(r.Width, 1), max(r.Height, 1))
}

// HidePlaceholder unmaps the placeholder.
func (c *Connection) HidePlaceholder() {
	if c.placeholder == nil {
		return
	}
	c.placeholder.Unmap()
}
