package tiling

import (
	"fmt"
	"math"
)

// Rect represents a window position and size
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Side is a screen edge a window can be snapped to.
type Side string

const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideTop    Side = "top"
	SideBottom Side = "bottom"
)

// ParseSide converts a config or command value into a Side.
func ParseSide(s string) (Side, error) {
	switch side := Side(s); side {
	case SideLeft, SideRight, SideTop, SideBottom:
		return side, nil
	}
	return "", fmt.Errorf("unknown snap side %q", s)
}

// Snap returns the half of area that touches side, inset by gapSize.
func Snap(area Rect, side Side, gapSize int) Rect {
	adjusted := area

	switch side {
	case SideLeft:
		adjusted.Width = area.Width / 2

	case SideRight:
		adjusted.X = area.X + area.Width/2
		adjusted.Width = area.Width - area.Width/2

	case SideTop:
		adjusted.Height = area.Height / 2

	case SideBottom:
		adjusted.Y = area.Y + area.Height/2
		adjusted.Height = area.Height - area.Height/2
	}

	return inset(adjusted, gapSize)
}

// Maximize returns area inset by gapSize.
func Maximize(area Rect, gapSize int) Rect {
	return inset(area, gapSize)
}

func inset(r Rect, gapSize int) Rect {
	r.X += gapSize
	r.Y += gapSize
	r.Width -= 2 * gapSize
	r.Height -= 2 * gapSize

	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}
	return r
}

// CalculateGrid determines the optimal grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows == 0 {
		return 0, 0
	}

	// Calculate columns first (ceiling of square root)
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))

	// Calculate rows needed
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

// CalculatePositions computes window positions for a grid layout with gaps.
// Windows in a short last row expand to share the full width.
func CalculatePositions(numWindows int, area Rect, gapSize int) ([]Rect, error) {
	if numWindows == 0 {
		return nil, nil
	}

	rows, cols := CalculateGrid(numWindows)

	// Gaps: one before each column and one after the last.
	totalHorizontalGaps := (cols + 1) * gapSize
	totalVerticalGaps := (rows + 1) * gapSize

	slotWidth := (area.Width - totalHorizontalGaps) / cols
	slotHeight := (area.Height - totalVerticalGaps) / rows

	if slotWidth <= 0 || slotHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for grid: area=%dx%d rows=%d cols=%d gap=%d (slot=%dx%d)",
			area.Width, area.Height, rows, cols, gapSize, slotWidth, slotHeight,
		)
	}

	lastRowIndex := rows - 1
	windowsInLastRow := numWindows - lastRowIndex*cols
	lastRowWidth := slotWidth
	if windowsInLastRow < cols {
		lastRowWidth = (area.Width - (windowsInLastRow+1)*gapSize) / windowsInLastRow
	}

	positions := make([]Rect, numWindows)
	for i := 0; i < numWindows; i++ {
		row := i / cols
		col := i % cols

		width := slotWidth
		if row == lastRowIndex {
			width = lastRowWidth
		}

		positions[i] = Rect{
			X:      area.X + gapSize + col*(width+gapSize),
			Y:      area.Y + gapSize + row*(slotHeight+gapSize),
			Width:  width,
			Height: slotHeight,
		}
	}

	return positions, nil
}
