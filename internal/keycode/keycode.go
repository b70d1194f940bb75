// Package keycode translates between macOS virtual keycodes, the modifier
// bitset on the wire (event.Modifier), and printable characters. It is the
// shared table used by the raw input tap (C4) to classify key-downs, by the
// clipboard observer (C6) to recognize cmd+c/x/v chords, and by the replayer
// (C10) to synthesize key events from aggregated text.
//
// Grounded on the teacher's internal/hotkey/hotkey_darwin.go macKeyCodeToName
// table and internal/input/inject_darwin.go's key-mapping approach, adapted
// from a Windows-VK→macOS table into a macOS-native keycode↔character table
// (there is no second platform to translate from here).
package keycode

import "github.com/louis030195/bigbrother/internal/event"

// Well-known macOS virtual keycodes (kVK_* in Apple's HIToolbox), the set
// spec §4.4 calls out by name: arrows, escape, tab, function keys.
const (
	Return    uint16 = 0x24
	Tab       uint16 = 0x30
	Space     uint16 = 0x31
	Delete    uint16 = 0x33 // backspace
	Escape    uint16 = 0x35
	ForwardDel uint16 = 0x75
	Home      uint16 = 0x73
	End       uint16 = 0x77
	PageUp    uint16 = 0x74
	PageDown  uint16 = 0x79
	ArrowLeft  uint16 = 0x7B
	ArrowRight uint16 = 0x7C
	ArrowDown  uint16 = 0x7D
	ArrowUp    uint16 = 0x7E

	CommandLeft  uint16 = 0x37
	CommandRight uint16 = 0x36
	ShiftLeft    uint16 = 0x38
	ShiftRight   uint16 = 0x3C
	OptionLeft   uint16 = 0x3A
	OptionRight  uint16 = 0x3D
	ControlLeft  uint16 = 0x3B
	ControlRight uint16 = 0x3E
	CapsLockKey  uint16 = 0x39
	FunctionKey  uint16 = 0x3F

	KeyC uint16 = 0x08
	KeyV uint16 = 0x09
	KeyX uint16 = 0x07
)

var functionKeys = map[uint16]bool{
	0x7A: true, 0x78: true, 0x63: true, 0x76: true, 0x60: true, 0x61: true,
	0x62: true, 0x64: true, 0x65: true, 0x6D: true, 0x67: true, 0x6F: true,
}

// IsNonPrintable reports whether keycode never produces a character worth
// aggregating into a text run — arrows, escape, tab, function keys, and
// friends — per spec §4.4: "every key-down produces either a text
// contribution ... or a key event (any modifier beyond shift, or
// non-printable keycode)".
func IsNonPrintable(keycode uint16) bool {
	if functionKeys[keycode] {
		return true
	}
	switch keycode {
	case Return, Tab, Delete, Escape, ForwardDel, Home, End, PageUp, PageDown,
		ArrowLeft, ArrowRight, ArrowDown, ArrowUp,
		CommandLeft, CommandRight, ShiftLeft, ShiftRight,
		OptionLeft, OptionRight, ControlLeft, ControlRight, CapsLockKey, FunctionKey:
		return true
	}
	return false
}

// ModifierFlag maps a single modifier keycode to its wire bit, or 0 if
// keycode is not a modifier key.
func ModifierFlag(keycode uint16) event.Modifier {
	switch keycode {
	case ShiftLeft, ShiftRight:
		return event.ModShift
	case ControlLeft, ControlRight:
		return event.ModControl
	case OptionLeft, OptionRight:
		return event.ModOption
	case CommandLeft, CommandRight:
		return event.ModCommand
	case CapsLockKey:
		return event.ModCaps
	case FunctionKey:
		return event.ModFn
	}
	return 0
}

// IsChordKey reports whether keycode is 'c', 'x', or 'v' — the letters the
// clipboard observer (C6) watches for in a cmd-held chord.
func IsChordKey(keycode uint16) (event.ClipboardOp, bool) {
	switch keycode {
	case KeyC:
		return event.ClipboardCopy, true
	case KeyX:
		return event.ClipboardCut, true
	case KeyV:
		return event.ClipboardPaste, true
	}
	return "", false
}
