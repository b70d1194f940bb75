//go:build darwin

package keycode

// charForCode is a static ANSI-US keyboard layout table. Real layout
// translation would call TISCopyCurrentKeyboardLayoutInputSource +
// UCKeyTranslate, but for the unmodified/shift-only printable set this
// static table (grounded on the teacher's hotkey_darwin.go macKeyCodeToName
// switch, extended with lowercase chars instead of key names) is accurate
// for the common case and keeps the cgo surface small.
var charForCode = map[uint16]rune{
	0x00: 'a', 0x0B: 'b', 0x08: 'c', 0x02: 'd', 0x0E: 'e', 0x03: 'f',
	0x05: 'g', 0x04: 'h', 0x22: 'i', 0x26: 'j', 0x28: 'k', 0x25: 'l',
	0x2E: 'm', 0x2D: 'n', 0x1F: 'o', 0x23: 'p', 0x0C: 'q', 0x0F: 'r',
	0x01: 's', 0x11: 't', 0x20: 'u', 0x09: 'v', 0x0D: 'w', 0x07: 'x',
	0x10: 'y', 0x06: 'z',
	0x1D: '0', 0x12: '1', 0x13: '2', 0x14: '3', 0x15: '4', 0x17: '5',
	0x16: '6', 0x1A: '7', 0x1C: '8', 0x19: '9',
	Space: ' ', 0x2F: '.', 0x2B: ',', 0x2C: '/', 0x29: ';', 0x27: '\'',
	0x21: '[', 0x1E: ']', 0x2A: '\\', 0x1B: '-', 0x18: '=', 0x32: '`',
}

var shiftedCharForCode = map[uint16]rune{
	0x1D: ')', 0x12: '!', 0x13: '@', 0x14: '#', 0x15: '$', 0x17: '%',
	0x16: '^', 0x1A: '&', 0x1C: '*', 0x19: '(',
	0x2F: '>', 0x2B: '<', 0x2C: '?', 0x29: ':', 0x27: '"',
	0x21: '{', 0x1E: '}', 0x2A: '|', 0x1B: '_', 0x18: '+', 0x32: '~',
}

var codeForChar = func() map[rune]uint16 {
	out := make(map[rune]uint16, len(charForCode)*2)
	for code, c := range charForCode {
		out[c] = code
	}
	for code, c := range shiftedCharForCode {
		out[c] = code
	}
	return out
}()

// shiftedChars is the set of characters that require the shift modifier.
var shiftedChars = func() map[rune]bool {
	out := make(map[rune]bool, len(shiftedCharForCode))
	for _, c := range shiftedCharForCode {
		out[c] = true
	}
	return out
}()

// CharForKeycode returns the printable character produced by keycode under
// the current static layout table, honoring shift. ok is false for
// non-printable or unmapped keycodes.
func CharForKeycode(code uint16, shift bool) (rune, bool) {
	if shift {
		if c, ok := shiftedCharForCode[code]; ok {
			return c, true
		}
		if c, ok := charForCode[code]; ok && c >= 'a' && c <= 'z' {
			return c - 32, true
		}
	}
	c, ok := charForCode[code]
	return c, ok
}

// KeycodeForChar is the reverse lookup used by the replayer (C10) to
// synthesize a text run as a sequence of key events. needsShift reports
// whether the character requires the shift modifier under this layout.
func KeycodeForChar(c rune) (code uint16, needsShift bool, ok bool) {
	if c >= 'A' && c <= 'Z' {
		code, ok = codeForChar[c+32]
		return code, true, ok
	}
	code, ok = codeForChar[c]
	return code, shiftedChars[c], ok
}
