package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
)

func TestUsableArea(t *testing.T) {
	// Two side-by-side 1920x1080 monitors.
	left := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	const rootW, rootH = 3840, 1080

	topBarLeftOnly := ewmh.WmStrutPartial{Top: 30, TopStartX: 0, TopEndX: 1919}
	bottomFull := ewmh.WmStrutPartial{Bottom: 40, BottomStartX: 0, BottomEndX: rootW - 1}
	rightDock := ewmh.WmStrutPartial{Right: 64, RightStartY: 0, RightEndY: rootH - 1}

	tests := []struct {
		name   string
		bounds Rect
		struts []ewmh.WmStrutPartial
		want   Rect
	}{
		{name: "no struts", bounds: left, want: left},
		{name: "top bar on its monitor", bounds: left, struts: []ewmh.WmStrutPartial{topBarLeftOnly},
			want: Rect{X: 0, Y: 30, Width: 1920, Height: 1050}},
		{name: "top bar elsewhere", bounds: right, struts: []ewmh.WmStrutPartial{topBarLeftOnly}, want: right},
		{name: "bottom spans both", bounds: right, struts: []ewmh.WmStrutPartial{bottomFull},
			want: Rect{X: 1920, Y: 0, Width: 1920, Height: 1040}},
		{name: "right dock", bounds: right, struts: []ewmh.WmStrutPartial{rightDock, bottomFull},
			want: Rect{X: 1920, Y: 0, Width: 1856, Height: 1040}},
		{name: "largest strut wins", bounds: left,
			struts: []ewmh.WmStrutPartial{topBarLeftOnly, {Top: 50, TopStartX: 0, TopEndX: 100}},
			want:   Rect{X: 0, Y: 50, Width: 1920, Height: 1030}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := usableArea(tt.bounds, rootW, rootH, tt.struts); got != tt.want {
				t.Fatalf("usableArea = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Bounds: Rect{X: 0, Y: 0, Width: 100, Height: 100}},
		{ID: 1, Bounds: Rect{X: 100, Y: 0, Width: 100, Height: 100}},
	}
	if mon, ok := MonitorAt(monitors, 150, 10); !ok || mon.ID != 1 {
		t.Fatalf("MonitorAt(150,10) = %+v, %v", mon, ok)
	}
	if mon, ok := MonitorAt(monitors, 100, 99); !ok || mon.ID != 1 {
		t.Fatalf("edge point belongs to the right monitor, got %+v", mon)
	}
	if mon, ok := MonitorAt(monitors, 500, 500); !ok || mon.ID != 0 {
		t.Fatalf("off-screen point should fall back to the first monitor, got %+v", mon)
	}
	if _, ok := MonitorAt(nil, 0, 0); ok {
		t.Fatal("expected no monitor")
	}
}
