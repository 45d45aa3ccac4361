package platform

import "github.com/BurntSushi/xgb/xproto"

// ConfigureRequestFromEvent converts an X ConfigureRequest.
func ConfigureRequestFromEvent(ev xproto.ConfigureRequestEvent) ConfigureRequest {
	return ConfigureRequest{
		Window:    WindowID(ev.Window),
		HasX:      ev.ValueMask&xproto.ConfigWindowX != 0,
		HasY:      ev.ValueMask&xproto.ConfigWindowY != 0,
		HasWidth:  ev.ValueMask&xproto.ConfigWindowWidth != 0,
		HasHeight: ev.ValueMask&xproto.ConfigWindowHeight != 0,
		X:         int(ev.X),
		Y:         int(ev.Y),
		Width:     int(ev.Width),
		Height:    int(ev.Height),
		Raw:       ev,
	}
}
