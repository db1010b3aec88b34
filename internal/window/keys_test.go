package window

import (
	"bytes"
	"testing"
)

func TestResolveKeyCtrlShiftChords(t *testing.T) {
	cases := []struct {
		key  Key
		want Action
	}{
		{KeyC, ActionCopy},
		{KeyV, ActionPaste},
		{KeyT, ActionNewTab},
		{KeyN, ActionNewWindow},
		{KeyW, ActionCloseTabOrWindow},
		{KeyComma, ActionOpenConfig},
	}
	for _, c := range cases {
		got := ResolveKey(c.key, ModCtrl|ModShift)
		if got.Action != c.want {
			t.Errorf("ResolveKey(%v, ctrl+shift) = %v, want %v", c.key, got.Action, c.want)
		}
	}
}

func TestResolveKeySwitchTabByIndex(t *testing.T) {
	got := ResolveKey(Key3, ModCtrl|ModShift)
	if got.Action != ActionSwitchTab || got.TabArg != 2 {
		t.Fatalf("ResolveKey(3, ctrl+shift) = %+v, want SwitchTab index 2", got)
	}
}

func TestResolveKeyTabCyclingDirectionFollowsShift(t *testing.T) {
	if got := ResolveKey(KeyTab, ModCtrl); got.Action != ActionNextTab {
		t.Fatalf("ctrl+tab = %v, want ActionNextTab", got.Action)
	}
	if got := ResolveKey(KeyTab, ModCtrl|ModShift); got.Action != ActionPrevTab {
		t.Fatalf("ctrl+shift+tab = %v, want ActionPrevTab", got.Action)
	}
}

func TestResolveKeyArrowTranslatesToCSI(t *testing.T) {
	got := ResolveKey(KeyLeft, 0)
	if got.Action != ActionSendSequence || !bytes.Equal(got.Bytes, []byte("\x1b[D")) {
		t.Fatalf("ResolveKey(Left) = %+v, want CSI D", got)
	}
}

func TestResolveKeyCtrlLetterProducesControlCode(t *testing.T) {
	got := ResolveKey(KeyC, ModCtrl)
	if got.Action != ActionSendSequence || !bytes.Equal(got.Bytes, []byte{0x03}) {
		t.Fatalf("ResolveKey(ctrl+c) = %+v, want ETX", got)
	}
}

func TestResolveKeyFullscreenToggle(t *testing.T) {
	if got := ResolveKey(KeyF11, 0); got.Action != ActionToggleFullscreen {
		t.Fatalf("ResolveKey(F11) = %v, want ActionToggleFullscreen", got.Action)
	}
}

func TestResolveKeyUnmappedKeyIsNone(t *testing.T) {
	if got := ResolveKey(KeyUnknown, 0); got.Action != ActionNone {
		t.Fatalf("ResolveKey(unknown) = %v, want ActionNone", got.Action)
	}
}
