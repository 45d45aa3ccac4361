package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display. Usable excludes space reserved by
// docks and panels.
type Monitor struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// GetMonitors retrieves all active monitors using XRandR, with their usable
// areas. Without RandR the root window is the only monitor.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get root geometry: %w", err)
	}
	rootWidth := int(rootGeom.Width)
	rootHeight := int(rootGeom.Height)

	monitors, err := c.randrMonitors()
	if err != nil || len(monitors) == 0 {
		root := Rect{Width: rootWidth, Height: rootHeight}
		monitors = []Monitor{{ID: 0, Name: "root", Bounds: root}}
	}

	struts := c.dockStruts(rootWidth, rootHeight)
	for i := range monitors {
		monitors[i].Usable = usableArea(monitors[i].Bounds, rootWidth, rootHeight, struts)
	}
	return monitors, nil
}

func (c *Connection) randrMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:   i,
			Name: outputName,
			Bounds: Rect{
				X:      int(crtcInfo.X),
				Y:      int(crtcInfo.Y),
				Width:  int(crtcInfo.Width),
				Height: int(crtcInfo.Height),
			},
		})
	}
	return monitors, nil
}

// MonitorAt returns the monitor containing the point, or the first monitor
// when none does.
func MonitorAt(monitors []Monitor, x, y int) (Monitor, bool) {
	if len(monitors) == 0 {
		return Monitor{}, false
	}
	for _, mon := range monitors {
		if containsPoint(mon.Bounds, x, y) {
			return mon, true
		}
	}
	return monitors[0], true
}

func containsPoint(r Rect, x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// dockStruts collects the partial struts of every dock among the root's
// children. We are the window manager, so _NET_CLIENT_LIST only has our own
// clients and cannot be used here.
func (c *Connection) dockStruts(rootWidth, rootHeight int) []ewmh.WmStrutPartial {
	children, err := c.TopLevelWindows()
	if err != nil {
		return nil
	}

	var struts []ewmh.WmStrutPartial
	for _, windowID := range children {
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			struts = append(struts, *sp)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			struts = append(struts, ewmh.WmStrutPartial{
				Left:         s.Left,
				Right:        s.Right,
				Top:          s.Top,
				Bottom:       s.Bottom,
				LeftStartY:   0,
				LeftEndY:     uint(rootHeight - 1),
				RightStartY:  0,
				RightEndY:    uint(rootHeight - 1),
				TopStartX:    0,
				TopEndX:      uint(rootWidth - 1),
				BottomStartX: 0,
				BottomEndX:   uint(rootWidth - 1),
			})
		}
	}
	return struts
}

type edges struct {
	left   int
	right  int
	top    int
	bottom int
}

// usableArea shrinks bounds by the struts that overlap it.
func usableArea(bounds Rect, rootWidth, rootHeight int, struts []ewmh.WmStrutPartial) Rect {
	var acc edges
	for i := range struts {
		updateStrutsForMonitor(bounds, rootWidth, rootHeight, &struts[i], &acc)
	}

	out := Rect{
		X:      bounds.X + acc.left,
		Y:      bounds.Y + acc.top,
		Width:  bounds.Width - (acc.left + acc.right),
		Height: bounds.Height - (acc.top + acc.bottom),
	}
	out.Width = max(out.Width, 1)
	out.Height = max(out.Height, 1)
	return out
}

func updateStrutsForMonitor(mon Rect, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial, acc *edges) {
	monX1 := mon.X
	monY1 := mon.Y
	monX2 := mon.X + mon.Width
	monY2 := mon.Y + mon.Height

	// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
	if sp.Top > 0 {
		x1 := int(sp.TopStartX)
		x2 := int(sp.TopEndX) + 1
		y1 := 0
		y2 := int(sp.Top)
		if isect := intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2); isect.w > 0 && isect.h > 0 {
			acc.top = max(acc.top, isect.h)
		}
	}

	// Bottom strut: y=[rootHeight-Bottom,rootHeight), x=[BottomStartX,BottomEndX]
	if sp.Bottom > 0 {
		x1 := int(sp.BottomStartX)
		x2 := int(sp.BottomEndX) + 1
		y2 := rootHeight
		y1 := rootHeight - int(sp.Bottom)
		if isect := intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2); isect.w > 0 && isect.h > 0 {
			acc.bottom = max(acc.bottom, isect.h)
		}
	}

	// Left strut: x=[0,Left), y=[LeftStartY,LeftEndY]
	if sp.Left > 0 {
		x1 := 0
		x2 := int(sp.Left)
		y1 := int(sp.LeftStartY)
		y2 := int(sp.LeftEndY) + 1
		if isect := intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2); isect.w > 0 && isect.h > 0 {
			acc.left = max(acc.left, isect.w)
		}
	}

	// Right strut: x=[rootWidth-Right,rootWidth), y=[RightStartY,RightEndY]
	if sp.Right > 0 {
		x2 := rootWidth
		x1 := rootWidth - int(sp.Right)
		y1 := int(sp.RightStartY)
		y2 := int(sp.RightEndY) + 1
		if isect := intersectionSize(monX1, monY1, monX2, monY2, x1, y1, x2, y2); isect.w > 0 && isect.h > 0 {
			acc.right = max(acc.right, isect.w)
		}
	}
}

type intersection struct {
	w int
	h int
}

func intersectionSize(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) intersection {
	x1 := max(ax1, bx1)
	y1 := max(ay1, by1)
	x2 := min(ax2, bx2)
	y2 := min(ay2, by2)

	if x2 <= x1 || y2 <= y1 {
		return intersection{}
	}
	return intersection{w: x2 - x1, h: y2 - y1}
}
