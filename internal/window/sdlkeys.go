package window

import (
	"github.com/bloeys/nmage/input"
	"github.com/veandco/go-sdl2/sdl"
)

// pollableKeys is every Key the dispatcher can resolve; dispatchKeys
// polls exactly these each frame. Text-producing keys arrive through
// SDL's TextInputEvent instead and never go through this table.
var pollableKeys = []Key{
	KeyReturn, KeyKpEnter, KeyEscape, KeyBackspace, KeyDelete,
	KeyLeft, KeyRight, KeyUp, KeyDown,
	KeyHome, KeyEnd, KeyPageUp, KeyPageDown,
	KeyTab, KeyC, KeyV, KeyT, KeyN, KeyW, KeyQ, KeyComma, KeyF11,
	Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9,
}

var sdlKeycodes = map[Key]sdl.Keycode{
	KeyReturn:    sdl.K_RETURN,
	KeyKpEnter:   sdl.K_KP_ENTER,
	KeyEscape:    sdl.K_ESCAPE,
	KeyBackspace: sdl.K_BACKSPACE,
	KeyDelete:    sdl.K_DELETE,
	KeyLeft:      sdl.K_LEFT,
	KeyRight:     sdl.K_RIGHT,
	KeyUp:        sdl.K_UP,
	KeyDown:      sdl.K_DOWN,
	KeyHome:      sdl.K_HOME,
	KeyEnd:       sdl.K_END,
	KeyPageUp:    sdl.K_PAGEUP,
	KeyPageDown:  sdl.K_PAGEDOWN,
	KeyTab:       sdl.K_TAB,
	KeyC:         sdl.K_c,
	KeyV:         sdl.K_v,
	KeyT:         sdl.K_t,
	KeyN:         sdl.K_n,
	KeyW:         sdl.K_w,
	KeyQ:         sdl.K_q,
	KeyComma:     sdl.K_COMMA,
	KeyF11:       sdl.K_F11,
	Key1:         sdl.K_1,
	Key2:         sdl.K_2,
	Key3:         sdl.K_3,
	Key4:         sdl.K_4,
	Key5:         sdl.K_5,
	Key6:         sdl.K_6,
	Key7:         sdl.K_7,
	Key8:         sdl.K_8,
	Key9:         sdl.K_9,
}

func sdlKeycodeFor(key Key) sdl.Keycode {
	return sdlKeycodes[key]
}

func currentModifiers() Modifiers {

	var mods Modifiers
	if input.KeyDown(sdl.K_LCTRL) || input.KeyDown(sdl.K_RCTRL) {
		mods |= ModCtrl
	}
	if input.KeyDown(sdl.K_LSHIFT) || input.KeyDown(sdl.K_RSHIFT) {
		mods |= ModShift
	}
	if input.KeyDown(sdl.K_LALT) || input.KeyDown(sdl.K_RALT) {
		mods |= ModAlt
	}
	return mods
}
